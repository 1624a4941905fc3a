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

package space

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/profile"
)

func newSpace[T any, E pixel.Encoding[T]](t *testing.T, id pigment.ModelID, p *profile.Profile) *Space[T, E] {
	t.Helper()
	m, ok := ModelFor(id)
	if !ok {
		t.Fatalf("unknown model %s", id)
	}
	s, err := NewDefault[T, E](m, p)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func rgb8(t *testing.T) *Space[uint8, pixel.U8] {
	return newSpace[uint8, pixel.U8](t, pigment.ModelRGBA, profile.SRGB())
}

func alpha8(t *testing.T) *Space[uint8, pixel.U8] {
	return newSpace[uint8, pixel.U8](t, pigment.ModelAlpha, nil)
}

// allSpaces returns one colour space for every built-in model and depth.
func allSpaces(t *testing.T) []pigment.ColorSpace {
	t.Helper()
	var res []pigment.ColorSpace
	for _, model := range Models() {
		for _, depth := range []pigment.DepthID{pigment.DepthU8, pigment.DepthU16, pigment.DepthF16, pigment.DepthF32} {
			f, err := NewFactory(model, depth)
			if err != nil {
				t.Fatal(err)
			}
			m, _ := ModelFor(model)
			cs, err := f.CreateColorSpace(m.DefaultProfile())
			if err != nil {
				t.Fatal(err)
			}
			res = append(res, cs)
		}
	}
	return res
}

func TestIdentity(t *testing.T) {
	s := rgb8(t)
	if s.ID() != "RGBAU8" {
		t.Errorf("ID = %q", s.ID())
	}
	if s.PixelSize() != 4 || s.ChannelCount() != 4 || s.ColorChannelCount() != 3 {
		t.Errorf("geometry: %d bytes, %d channels, %d colours",
			s.PixelSize(), s.ChannelCount(), s.ColorChannelCount())
	}
	if s.HasHighDynamicRange() {
		t.Error("8-bit space reports high dynamic range")
	}
	if !s.Equal(rgb8(t)) {
		t.Error("spaces with the same ID and profile differ")
	}
	if s.Equal(newSpace[uint8, pixel.U8](t, pigment.ModelRGBA, profile.LinearSRGB())) {
		t.Error("spaces with different profiles are equal")
	}
	if s.Equal(nil) {
		t.Error("equal to nil")
	}
}

func TestNewErrors(t *testing.T) {
	m, _ := ModelFor(pigment.ModelRGBA)

	format, err := pigment.NewPixelFormat(m.Layout(pigment.UInt16)...)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New[uint8, pixel.U8](m, format, nil)
	if !errors.Is(err, &pigment.ConfigError{Kind: pigment.InvalidChannel}) {
		t.Errorf("wrong value type: got %v", err)
	}

	_, err = NewDefault[uint8, pixel.U8](m, profile.Lab())
	if !errors.Is(err, &pigment.ConfigError{Kind: pigment.IncompatibleProfile}) {
		t.Errorf("wrong profile: got %v", err)
	}

	// a grayscale layout lacks the red, green and blue channels
	gm, _ := ModelFor(pigment.ModelGRAYA)
	format, err = pigment.NewPixelFormat(gm.Layout(pigment.UInt8)...)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New[uint8, pixel.U8](m, format, nil)
	if !errors.Is(err, pigment.ErrConfig) {
		t.Errorf("missing channels: got %v", err)
	}
}

func TestSelfConvert(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, cs := range allSpaces(t) {
		t.Run(cs.ID(), func(t *testing.T) {
			const n = 17
			src := make([]byte, n*cs.PixelSize())
			for i := range src {
				src[i] = byte(rng.UintN(256))
			}
			dst := make([]byte, len(src))
			err := cs.ConvertPixelsTo(src, dst, cs, n, pigment.RenderingIntent(99), 0)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(src, dst) {
				t.Error("self conversion changed the pixels")
			}
		})
	}
}

func TestConvertDepth(t *testing.T) {
	src := rgb8(t)
	dst := newSpace[uint16, pixel.U16](t, pigment.ModelRGBA, profile.SRGB())

	in := []byte{0x00, 0x80, 0xff, 0x40}
	out := make([]byte, 8)
	err := src.ConvertPixelsTo(in, out, dst, 1, pigment.RenderingIntent(0), 0)
	if err != nil {
		t.Fatal(err)
	}
	var u16 pixel.U16
	for i, want := range []uint16{0x0000, 0x8080, 0xffff, 0x4040} {
		got := u16.Load(out[2*i:])
		if diff := int(got) - int(want); diff < -1 || diff > 1 {
			t.Errorf("channel %d: got %#04x, want %#04x", i, got, want)
		}
	}
}

func TestConvertAlpha(t *testing.T) {
	src := rgb8(t)
	dst := alpha8(t)

	// white pixel at half opacity
	in := []byte{255, 255, 255, 128}
	out := make([]byte, 1)
	err := src.ConvertPixelsTo(in, out, dst, 1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] < 127 || out[0] > 129 {
		t.Errorf("alpha = %d, want 128", out[0])
	}
}

func TestConvertErrors(t *testing.T) {
	s := rgb8(t)
	lab := newSpace[uint16, pixel.U16](t, pigment.ModelLABA, profile.Lab())
	buf := make([]byte, 64)

	if err := s.ConvertPixelsTo(buf, buf, nil, 1, 0, 0); !errors.Is(err, pigment.ErrNilColorSpace) {
		t.Errorf("nil space: got %v", err)
	}
	if err := s.ConvertPixelsTo(buf, buf, lab, 1, pigment.RenderingIntent(7), 0); !errors.Is(err, pigment.ErrUnsupportedIntent) {
		t.Errorf("bad intent: got %v", err)
	}
	if err := s.ConvertPixelsTo(buf[:3], buf, lab, 1, 0, 0); !errors.Is(err, pigment.ErrShortBuffer) {
		t.Errorf("short source: got %v", err)
	}
	if err := s.ConvertPixelsTo(buf, buf[:7], lab, 1, 0, 0); !errors.Is(err, pigment.ErrShortBuffer) {
		t.Errorf("short destination: got %v", err)
	}
}

func TestLabRoundTrip(t *testing.T) {
	s := rgb8(t)
	in := []byte{40, 160, 220, 200}
	lab := make([]byte, 8)
	if err := s.ToLab16(in, lab, 1); err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 4)
	if err := s.FromLab16(lab, out, 1); err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if d := int(in[i]) - int(out[i]); d < -1 || d > 1 {
			t.Errorf("byte %d: %d -> %d", i, in[i], out[i])
		}
	}
}

func TestDisplayColor(t *testing.T) {
	s := rgb8(t)
	px := make([]byte, 4)
	err := s.FromDisplayColor(px, pigment.DisplayColor{R: 1, G: 0.5, B: 0}, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	// stored as blue, green, red, alpha
	if px[0] != 0 || px[2] != 255 || px[3] != 255 || px[1] < 127 || px[1] > 128 {
		t.Errorf("got %v", px)
	}

	c, opacity, err := s.ToDisplayColor(px, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opacity != 1 || c.R < 0.999 || c.B > 0.001 {
		t.Errorf("got %v, opacity %g", c, opacity)
	}
}

func TestChannelText(t *testing.T) {
	s := rgb8(t)
	px := []byte{10, 20, 30, 255}
	got, err := s.ChannelValueText(px, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "30" {
		t.Errorf("channel 2 = %q, want 30", got)
	}
	if _, err := s.ChannelValueText(px, 4); !errors.Is(err, pigment.ErrChannelIndex) {
		t.Errorf("bad index: got %v", err)
	}

	f := newSpace[float32, pixel.F32](t, pigment.ModelRGBA, profile.SRGB())
	fpx := make([]byte, 16)
	if err := f.EncodePixel(fpx, []float64{0.5, 0.25, 1.5}, 1); err != nil {
		t.Fatal(err)
	}
	got, err = f.ChannelValueText(fpx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "1.5" {
		t.Errorf("float channel = %q, want 1.5", got)
	}
}

func TestOpacity(t *testing.T) {
	s := rgb8(t)
	px := []byte{1, 2, 3, 200, 4, 5, 6, 100}
	if err := s.MultiplyAlpha(px, 128, 2); err != nil {
		t.Fatal(err)
	}
	if px[3] != 100 || px[7] != 50 {
		t.Errorf("after MultiplyAlpha: %v", px)
	}
	if err := s.ApplyInverseAlphaU8Mask(px, []uint8{255, 0}, 2); err != nil {
		t.Fatal(err)
	}
	if px[3] != 0 || px[7] != 50 {
		t.Errorf("after inverse mask: %v", px)
	}
	if err := s.SetOpacity(px, 77, 2); err != nil {
		t.Fatal(err)
	}
	if s.Opacity(px) != 77 || s.Opacity(px[4:]) != 77 {
		t.Errorf("after SetOpacity: %v", px)
	}
	if s.Opacity(px[:3]) != 0 {
		t.Error("short pixel has non-zero opacity")
	}
	if err := s.SetOpacity(px, 1, 3); !errors.Is(err, pigment.ErrShortBuffer) {
		t.Errorf("short buffer: got %v", err)
	}
}

func TestWillDegrade(t *testing.T) {
	s := rgb8(t)
	if s.WillDegrade(pigment.ToRGBA8) || s.WillDegrade(pigment.ToLab16) {
		t.Error("RGB8 should convert losslessly")
	}
	f := newSpace[float32, pixel.F32](t, pigment.ModelRGBA, profile.SRGB())
	if !f.WillDegrade(pigment.ToRGBA16) {
		t.Error("float RGB should degrade")
	}
}
