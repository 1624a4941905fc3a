// seehuhn.de/go/pigment - colour spaces and pixel transformations
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package transform

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/profile"
	"seehuhn.de/go/pigment/space"
)

func newSpace(t *testing.T, model pigment.ModelID, depth pigment.DepthID) pigment.ColorSpace {
	t.Helper()
	f, err := space.NewFactory(model, depth)
	if err != nil {
		t.Fatal(err)
	}
	var p *profile.Profile
	if m, ok := space.ModelFor(model); ok {
		p = m.DefaultProfile()
	}
	cs, err := f.CreateColorSpace(p)
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

// apply runs a transformation on a single RGB pixel and returns the
// resulting colour and opacity.
func apply(t *testing.T, tr Transformation, rgb []float64, alpha float64) ([]float64, float64) {
	t.Helper()
	cs := tr.ColorSpace()
	buf := make([]byte, cs.PixelSize())
	if err := cs.EncodePixel(buf, rgb, alpha); err != nil {
		t.Fatal(err)
	}
	if err := tr.Transform(buf, buf, 1); err != nil {
		t.Fatal(err)
	}
	out := make([]float64, cs.ColorChannelCount())
	a, err := cs.DecodePixel(buf, out)
	if err != nil {
		t.Fatal(err)
	}
	return out, a
}

func create(t *testing.T, f Factory, cs pigment.ColorSpace, params map[string]float64) Transformation {
	t.Helper()
	tr, err := f.CreateTransformation(cs, params)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

// TestHSVBounded checks that the hue/saturation adjustment never produces
// values outside [0, 1], even for extreme parameters.
func TestHSVBounded(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthF32)
	rng := rand.New(rand.NewPCG(1, 2))
	f := NewHSVAdjustment()

	extremes := []float64{-1, -0.5, 0, 0.5, 1, 3}
	for model := HSV; model <= YUV; model++ {
		for _, colorize := range []float64{0, 1} {
			for range 50 {
				params := map[string]float64{
					"h":        extremes[rng.IntN(len(extremes))],
					"s":        extremes[rng.IntN(len(extremes))],
					"v":        extremes[rng.IntN(len(extremes))],
					"type":     float64(model),
					"colorize": colorize,
				}
				tr := create(t, f, cs, params)
				in := []float64{rng.Float64()*1.4 - 0.2, rng.Float64(), rng.Float64()}
				out, _ := apply(t, tr, in, 1)
				for _, x := range out {
					if x < 0 || x > 1 || math.IsNaN(x) {
						t.Fatalf("type %d, params %v: %v -> %v", model, params, in, out)
					}
				}
			}
		}
	}
}

func TestHSVIdentity(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthU8)
	for model := HSV; model <= YUV; model++ {
		tr := create(t, NewHSVAdjustment(), cs, map[string]float64{"type": float64(model)})
		in := []float64{0.2, 0.6, 0.8}
		out, a := apply(t, tr, in, 0.5)
		if d := cmp.Diff(in, out, cmpopts.EquateApprox(0, 1.5/255)); d != "" {
			t.Errorf("type %d (-want +got):\n%s", model, d)
		}
		if math.Abs(a-0.5) > 1.0/255 {
			t.Errorf("type %d: alpha changed to %g", model, a)
		}
	}
}

func TestHueRotation(t *testing.T) {
	depths := []pigment.DepthID{pigment.DepthU8, pigment.DepthU16, pigment.DepthF16, pigment.DepthF32}
	for _, depth := range depths {
		cs := newSpace(t, pigment.ModelRGBA, depth)
		tr := create(t, NewHSVAdjustment(), cs, map[string]float64{"h": 2.0 / 3})
		out, _ := apply(t, tr, []float64{1, 0, 0}, 1)
		want := []float64{0, 1, 0}
		if d := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-3)); d != "" {
			t.Errorf("%s (-want +got):\n%s", depth, d)
		}
	}
}

func TestColorize(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthF32)
	// hue 2/3 (blue), full saturation
	tr := create(t, NewHSVAdjustment(), cs, map[string]float64{
		"h":        1.0 / 3,
		"s":        1,
		"colorize": 1,
	})
	out, _ := apply(t, tr, []float64{0.5, 0.5, 0.5}, 1)
	want := []float64{0, 0, 0.5}
	if d := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-6)); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestDodgeBurn(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthF32)
	tests := []struct {
		f        Factory
		typ      int
		exposure float64
		in, want float64
	}{
		{NewDodge(), Midtones, 0.5, 0.25, math.Pow(0.25, 1/1.5)},
		{NewDodge(), Shadows, 0.6, 0.5, 0.6},
		{NewDodge(), Highlights, 0.3, 0.5, 0.55},
		{NewBurn(), Midtones, 0.5, 0.25, 0.125},
		{NewBurn(), Shadows, 0.6, 0.1, 0},
		{NewBurn(), Shadows, 0.6, 0.6, 0.5},
		{NewBurn(), Highlights, 0.3, 0.5, 0.45},
	}
	for _, tc := range tests {
		tr := create(t, tc.f, cs, map[string]float64{
			"type":     float64(tc.typ),
			"exposure": tc.exposure,
		})
		out, _ := apply(t, tr, []float64{tc.in, tc.in, tc.in}, 1)
		for _, x := range out {
			if math.Abs(x-tc.want) > 1e-6 {
				t.Errorf("%s type %d: %g -> %g, want %g", tc.f.ID(), tc.typ, tc.in, x, tc.want)
				break
			}
		}
	}
}

func TestColorBalance(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthF32)
	f := NewColorBalance()

	neutral := create(t, f, cs, nil)
	in := []float64{0.3, 0.5, 0.7}
	out, _ := apply(t, neutral, in, 1)
	if d := cmp.Diff(in, out, cmpopts.EquateApprox(0, 1e-6)); d != "" {
		t.Errorf("neutral (-want +got):\n%s", d)
	}

	red := create(t, f, cs, map[string]float64{
		"cyan_red_highlights": 1,
		"preserve_luminosity": 0,
	})
	out, _ = apply(t, red, []float64{0.8, 0.8, 0.8}, 1)
	if !(out[0] > 0.8) || math.Abs(out[1]-0.8) > 1e-6 || math.Abs(out[2]-0.8) > 1e-6 {
		t.Errorf("red highlights: got %v", out)
	}

	// with preserve_luminosity the HSL lightness stays the same
	keep := create(t, f, cs, map[string]float64{"yellow_blue_midtones": 0.5})
	out, _ = apply(t, keep, []float64{0.5, 0.5, 0.5}, 1)
	l := (max(out[0], out[1], out[2]) + min(out[0], out[1], out[2])) / 2
	if math.Abs(l-0.5) > 1e-6 || !(out[2] > out[0]) {
		t.Errorf("preserve luminosity: got %v", out)
	}
}

func TestDesaturate(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthF32)
	in := []float64{1, 0.5, 0}
	tests := []struct {
		typ  int
		want float64
	}{
		{DesaturateLightness, 0.5},
		{DesaturateBT709, 0.2126 + 0.7152*0.5},
		{DesaturateBT601, 0.299 + 0.587*0.5},
		{DesaturateAverage, 0.5},
		{DesaturateMin, 0},
		{DesaturateMax, 1},
	}
	for _, tc := range tests {
		tr := create(t, NewDesaturate(), cs, map[string]float64{"type": float64(tc.typ)})
		out, _ := apply(t, tr, in, 1)
		want := []float64{tc.want, tc.want, tc.want}
		if d := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-6)); d != "" {
			t.Errorf("type %d (-want +got):\n%s", tc.typ, d)
		}
	}
}

func TestParameters(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthU8)
	tr := create(t, NewHSVAdjustment(), cs, map[string]float64{"s": -1, "unknown": 7})

	if id := tr.ParameterID("s"); id != 1 {
		t.Errorf("ParameterID(s) = %d", id)
	}
	if id := tr.ParameterID("unknown"); id != -1 {
		t.Errorf("ParameterID(unknown) = %d", id)
	}

	tr.SetParameter(-1, 5)
	tr.SetParameter(99, 5)
	tr.SetParameter(tr.ParameterID("v"), 0.25)

	got := tr.Parameters()
	want := map[string]float64{
		"h":         0,
		"s":         -1,
		"v":         0.25,
		"type":      HSV,
		"colorize":  0,
		"lumaRed":   0.2126,
		"lumaGreen": 0.7152,
		"lumaBlue":  0.0722,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("parameters (-want +got):\n%s", d)
	}

	// s=-1 removes all saturation
	out, _ := apply(t, tr, []float64{1, 0, 0}, 1)
	if out[0] != out[1] || out[1] != out[2] {
		t.Errorf("expected grey, got %v", out)
	}
}

func TestTransformBuffers(t *testing.T) {
	cs := newSpace(t, pigment.ModelRGBA, pigment.DepthU16)
	tr := create(t, NewDesaturate(), cs, nil)

	n := 3
	src := make([]byte, n*cs.PixelSize())
	for i := range n {
		err := cs.EncodePixel(src[i*cs.PixelSize():], []float64{1, 0, float64(i) / 2}, float64(i)/2)
		if err != nil {
			t.Fatal(err)
		}
	}
	dst := make([]byte, len(src))
	if err := tr.Transform(src, dst, n); err != nil {
		t.Fatal(err)
	}
	for i := range n {
		if cs.OpacityF(dst[i*cs.PixelSize():]) != cs.OpacityF(src[i*cs.PixelSize():]) {
			t.Errorf("pixel %d: opacity changed", i)
		}
	}

	err := tr.Transform(src, dst[:len(dst)-1], n)
	if !errors.Is(err, pigment.ErrShortBuffer) {
		t.Errorf("short buffer: got %v", err)
	}
}

func TestUnsupportedModel(t *testing.T) {
	lab := newSpace(t, pigment.ModelLABA, pigment.DepthU16)
	for _, f := range Builtin() {
		_, err := f.CreateTransformation(lab, nil)
		if !errors.Is(err, pigment.ErrUnsupportedModel) {
			t.Errorf("%s: got %v", f.ID(), err)
		}
		_, err = f.CreateTransformation(nil, nil)
		if !errors.Is(err, pigment.ErrNilColorSpace) {
			t.Errorf("%s: got %v", f.ID(), err)
		}
	}
}

func TestRegistry(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	r := NewRegistry(WithLogger(logger))

	want := []string{"burn", "color_balance", "desaturate_adjustment", "dodge", "hsv_adjustment"}
	if d := cmp.Diff(want, r.IDs()); d != "" {
		t.Errorf("IDs (-want +got):\n%s", d)
	}

	rgb := newSpace(t, pigment.ModelRGBA, pigment.DepthF16)
	tr, err := r.CreateTransformation("dodge", rgb, nil)
	if err != nil || tr == nil {
		t.Fatalf("dodge: %v", err)
	}
	if tr.ColorSpace() != rgb {
		t.Error("wrong colour space")
	}

	cmyk := newSpace(t, pigment.ModelCMYKA, pigment.DepthU8)
	tr, err = r.CreateTransformation("dodge", cmyk, nil)
	if tr != nil || !errors.Is(err, pigment.ErrUnsupportedModel) {
		t.Errorf("cmyk: got %v, %v", tr, err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("not supported")) {
		t.Errorf("missing log message: %q", buf.String())
	}

	_, err = r.CreateTransformation("sharpen", rgb, nil)
	var unknown *UnknownError
	if !errors.As(err, &unknown) || unknown.ID != "sharpen" {
		t.Errorf("unknown: got %v", err)
	}

	if err := r.Add(NewBurn()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("replacing transformation factory")) {
		t.Errorf("missing replacement message: %q", buf.String())
	}
	if err := r.Add(nil); err == nil {
		t.Error("nil factory accepted")
	}

	empty := NewRegistry(WithoutBuiltins())
	if ids := empty.IDs(); len(ids) != 0 {
		t.Errorf("empty registry has %v", ids)
	}
	if Default() != Default() {
		t.Error("Default is not unique")
	}
}

func TestKernel(t *testing.T) {
	cs := newSpace(t, pigment.ModelCMYKA, pigment.DepthU8)
	decl := []Param{{Name: "k", Default: 1}}
	// set the black channel and halve the opacity
	tr, err := New(cs, decl, nil, func(c []float64, alpha float64, p []float64) float64 {
		c[3] = p[0]
		return alpha / 2
	})
	if err != nil {
		t.Fatal(err)
	}
	out, a := apply(t, tr, []float64{0.2, 0.4, 0.6, 0}, 1)
	want := []float64{0.2, 0.4, 0.6, 1}
	if d := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1.0/255)); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if math.Abs(a-0.5) > 1.0/255 {
		t.Errorf("alpha = %g", a)
	}

	_, err = New(cs, []Param{{Name: "x"}, {Name: "x"}}, nil, func(c []float64, a float64, p []float64) float64 { return a })
	if err == nil {
		t.Error("duplicate parameter accepted")
	}
}

func TestCheckedKernel(t *testing.T) {
	cs := newSpace(t, pigment.ModelGRAYA, pigment.DepthU8)
	errStop := errors.New("stop")
	calls := 0
	tr, err := NewChecked(cs, nil, nil, func(c []float64, alpha float64, p []float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, errStop
		}
		c[0] = 1
		return alpha, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	src := make([]byte, 4*cs.PixelSize())
	dst := bytes.Repeat([]byte{7}, len(src))
	if err := tr.Transform(src, dst, 4); !errors.Is(err, errStop) {
		t.Errorf("got %v, want %v", err, errStop)
	}
	if calls != 3 {
		t.Errorf("kernel called %d times", calls)
	}
	want := []byte{255, 0, 255, 0, 7, 7, 7, 7}
	if d := cmp.Diff(want, dst); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}
