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
	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/internal/colconv"
)

var balanceParams = []Param{
	{Name: "cyan_red_shadows"},
	{Name: "magenta_green_shadows"},
	{Name: "yellow_blue_shadows"},
	{Name: "cyan_red_midtones"},
	{Name: "magenta_green_midtones"},
	{Name: "yellow_blue_midtones"},
	{Name: "cyan_red_highlights"},
	{Name: "magenta_green_highlights"},
	{Name: "yellow_blue_highlights"},
	{Name: "preserve_luminosity", Default: 1},
}

// NewColorBalance returns the factory for the "color_balance"
// transformation.  The nine shift parameters are in the range [-1, 1].
// Positive values move the colours of the given tonal range towards red,
// green or blue, negative values towards cyan, magenta or yellow.  If
// preserve_luminosity is non-zero, the HSL lightness of every pixel is kept.
func NewColorBalance() Factory {
	return &builtinFactory{
		id:     "color_balance",
		name:   "Color Balance",
		models: rgbOnly,
		params: balanceParams,
		kernel: func(pigment.ColorSpace) Kernel { return balanceKernel },
	}
}

// Weights of the tonal ranges, as a function of lightness.
const (
	balanceA     = 0.25
	balanceB     = 1.0 / 3
	balanceScale = 0.7
)

func balanceWeights(l float64) (shadows, midtones, highlights float64) {
	shadows = colconv.Clamp01((l-balanceB)/-balanceA+0.5) * balanceScale
	midtones = colconv.Clamp01((l-balanceB)/balanceA+0.5) *
		colconv.Clamp01((l+balanceB-1)/-balanceA+0.5) * balanceScale
	highlights = colconv.Clamp01((l+balanceB-1)/balanceA+0.5) * balanceScale
	return shadows, midtones, highlights
}

func balanceKernel(c []float64, alpha float64, p []float64) float64 {
	r, g, b := colconv.Clamp01(c[0]), colconv.Clamp01(c[1]), colconv.Clamp01(c[2])
	_, _, l := colconv.RGBToHSL(r, g, b)

	s, m, h := balanceWeights(l)
	for i := range 3 {
		d := clampParam(p[i])*s + clampParam(p[3+i])*m + clampParam(p[6+i])*h
		c[i] = colconv.Clamp01(colconv.Clamp01(c[i]) + d)
	}

	if p[9] != 0 {
		hue, sat, _ := colconv.RGBToHSL(c[0], c[1], c[2])
		c[0], c[1], c[2] = colconv.HSLToRGB(hue, sat, l)
	}
	return alpha
}
