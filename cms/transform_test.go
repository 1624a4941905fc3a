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

package cms

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pigment/profile"
)

func TestSRGBToLab(t *testing.T) {
	tr, err := NewTransform(profile.SRGB(), profile.Lab(), Perceptual, 0)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]float64, 3)

	tr.Apply([]float64{1, 1, 1}, out)
	if d := cmp.Diff([]float64{100, 0, 0}, out, cmpopts.EquateApprox(0, 0.3)); d != "" {
		t.Errorf("white (-want +got):\n%s", d)
	}

	tr.Apply([]float64{0, 0, 0}, out)
	if math.Abs(out[0]) > 0.1 {
		t.Errorf("black L = %g", out[0])
	}
}

func TestRoundTrip(t *testing.T) {
	rt, err := NewLabRoundTrip(profile.SRGB(), RelativeColorimetric, 0)
	if err != nil {
		t.Fatal(err)
	}
	in := []float64{0.2, 0.6, 0.9}
	lab := make([]float64, 3)
	out := make([]float64, 3)
	rt.ToLab.Apply(in, lab)
	rt.FromLab.Apply(lab, out)
	if d := cmp.Diff(in, out, cmpopts.EquateApprox(0, 2e-3)); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}

func TestGray(t *testing.T) {
	tr, err := NewTransform(profile.GraySRGB(), profile.SRGB(), RelativeColorimetric, 0)
	if err != nil {
		t.Fatal(err)
	}
	if in, out := tr.Channels(); in != 1 || out != 3 {
		t.Fatalf("channels = %d, %d", in, out)
	}
	out := make([]float64, 3)
	tr.Apply([]float64{0.5}, out)
	for i, v := range out {
		if math.Abs(v-0.5) > 5e-3 {
			t.Errorf("component %d = %g", i, v)
		}
	}
}

func TestIdentity(t *testing.T) {
	tr, err := NewTransform(profile.SRGB(), profile.SRGB(), Perceptual, 0)
	if err != nil {
		t.Fatal(err)
	}
	in := []float64{0.1, 0.2, 0.3}
	out := make([]float64, 3)
	tr.Apply(in, out)
	if d := cmp.Diff(in, out); d != "" {
		t.Errorf("identity changed values (-want +got):\n%s", d)
	}
}

func TestErrors(t *testing.T) {
	_, err := NewTransform(profile.SRGB(), profile.Lab(), Intent(7), 0)
	if !errors.Is(err, ErrUnsupportedIntent) {
		t.Errorf("invalid intent: %v", err)
	}
	_, err = NewTransform(nil, profile.Lab(), Perceptual, 0)
	if !errors.Is(err, ErrUnsupportedProfile) {
		t.Errorf("nil profile: %v", err)
	}
}

func TestAbsoluteIntent(t *testing.T) {
	// all built-in profiles use D50 media white, so absolute and
	// relative intents agree
	rel, err := NewTransform(profile.SRGB(), profile.XYZ(), RelativeColorimetric, 0)
	if err != nil {
		t.Fatal(err)
	}
	abs, err := NewTransform(profile.SRGB(), profile.XYZ(), AbsoluteColorimetric, BlackPointCompensation)
	if err != nil {
		t.Fatal(err)
	}
	in := []float64{0.3, 0.5, 0.7}
	a := make([]float64, 3)
	b := make([]float64, 3)
	rel.Apply(in, a)
	abs.Apply(in, b)
	if d := cmp.Diff(a, b, cmpopts.EquateApprox(0, 1e-3)); d != "" {
		t.Errorf("absolute vs. relative (-rel +abs):\n%s", d)
	}
}

func TestDeltaE(t *testing.T) {
	x := Lab{L: 50, A: 2.6772, B: -79.7751}
	y := Lab{L: 50, A: 0, B: -82.7485}
	if d := DeltaE2000(x, y); math.Abs(d-2.0425) > 1e-3 {
		t.Errorf("DeltaE2000 = %g", d)
	}
	if d := DeltaE76(Lab{L: 10}, Lab{L: 13, A: 4}); d != 5 {
		t.Errorf("DeltaE76 = %g", d)
	}
	if d := DeltaE94(x, x); d != 0 {
		t.Errorf("DeltaE94 of identical colours = %g", d)
	}
}
