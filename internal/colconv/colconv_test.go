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

package colconv

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var testColors = [][3]float64{
	{0, 0, 0},
	{1, 1, 1},
	{1, 0, 0},
	{0.2, 0.7, 0.1},
	{0.5, 0.5, 0.5},
	{0.9, 0.3, 0.6},
}

func TestSRGBLabRoundTrip(t *testing.T) {
	for i, c := range testColors {
		t.Run(fmt.Sprintf("%02d", i), func(t *testing.T) {
			L, a, b := SRGBToLab(c[0], c[1], c[2])
			r, g, bb := LabToSRGB(L, a, b)
			got := [3]float64{r, g, bb}
			if d := cmp.Diff(c, got, cmpopts.EquateApprox(0, 1e-4)); d != "" {
				t.Errorf("round trip (-want +got):\n%s", d)
			}
		})
	}
}

func TestWhiteIsL100(t *testing.T) {
	L, a, b := SRGBToLab(1, 1, 1)
	if math.Abs(L-100) > 0.05 || math.Abs(a) > 0.05 || math.Abs(b) > 0.05 {
		t.Errorf("white = (%g, %g, %g)", L, a, b)
	}
}

func TestInvert(t *testing.T) {
	inv, ok := Invert(srgbToXYZ)
	if !ok {
		t.Fatal("matrix is singular")
	}
	if d := cmp.Diff(xyzToSRGB, inv, cmpopts.EquateApprox(0, 1e-4)); d != "" {
		t.Errorf("inverse (-want +got):\n%s", d)
	}
}

func TestCylindricalModels(t *testing.T) {
	type conv struct {
		name string
		to   func(r, g, b float64) (float64, float64, float64)
		from func(x, y, z float64) (float64, float64, float64)
	}
	convs := []conv{
		{"HSV", RGBToHSV, HSVToRGB},
		{"HSL", RGBToHSL, HSLToRGB},
		{"HCI", RGBToHCI, HCIToRGB},
		{"HCY",
			func(r, g, b float64) (float64, float64, float64) { return RGBToHCY(r, g, b, LumaBT709) },
			func(x, y, z float64) (float64, float64, float64) { return HCYToRGB(x, y, z, LumaBT709) }},
		{"YUV",
			func(r, g, b float64) (float64, float64, float64) { return RGBToYUV(r, g, b, LumaBT601) },
			func(x, y, z float64) (float64, float64, float64) { return YUVToRGB(x, y, z, LumaBT601) }},
	}
	for _, cv := range convs {
		for i, c := range testColors {
			t.Run(fmt.Sprintf("%s-%02d", cv.name, i), func(t *testing.T) {
				x, y, z := cv.to(c[0], c[1], c[2])
				r, g, b := cv.from(x, y, z)
				got := [3]float64{r, g, b}
				if d := cmp.Diff(c, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
					t.Errorf("round trip (-want +got):\n%s", d)
				}
			})
		}
	}
}

func TestCMYK(t *testing.T) {
	c, m, y, k := RGBToCMYK(1, 0.5, 0)
	r, g, b := CMYKToRGB(c, m, y, k)
	got := [3]float64{r, g, b}
	if d := cmp.Diff([3]float64{1, 0.5, 0}, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
	if _, _, _, k := RGBToCMYK(0, 0, 0); k != 1 {
		t.Errorf("black has k=%g", k)
	}
}
