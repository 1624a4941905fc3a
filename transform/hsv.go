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
	"math"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/internal/colconv"
)

// Colour models used by the hue/saturation adjustment.
const (
	HSV = iota
	HSL
	HCI
	HCY
	YUV
)

var hsvParams = []Param{
	{Name: "h"},
	{Name: "s"},
	{Name: "v"},
	{Name: "type", Default: HSV},
	{Name: "colorize"},
	{Name: "lumaRed", Default: colconv.LumaBT709.R},
	{Name: "lumaGreen", Default: colconv.LumaBT709.G},
	{Name: "lumaBlue", Default: colconv.LumaBT709.B},
}

// NewHSVAdjustment returns the factory for the "hsv_adjustment"
// transformation.
//
// The parameters h, s and v are in the range [-1, 1].  In normal mode, h
// rotates the hue by h·180 degrees, while s and v move saturation and
// value towards 1 (for positive values) or towards 0 (for negative
// values).  If colorize is non-zero, the hue is replaced by (h+1)/2 turns
// and the saturation by (s+1)/2.  The type parameter selects the colour
// model: [HSV], [HSL], [HCI], [HCY] or [YUV].  For YUV, h rotates the
// chroma plane and s scales it.  The luma weights are used by HCY and
// YUV.
func NewHSVAdjustment() Factory {
	return &builtinFactory{
		id:     "hsv_adjustment",
		name:   "HSV/HSL Adjustment",
		models: rgbOnly,
		params: hsvParams,
		kernel: func(pigment.ColorSpace) Kernel { return hsvKernel },
	}
}

var rgbOnly = []ModelDepth{{Model: pigment.ModelRGBA}}

func hsvKernel(c []float64, alpha float64, p []float64) float64 {
	dh, ds, dv := clampParam(p[0]), clampParam(p[1]), clampParam(p[2])
	colorize := p[4] != 0
	w := colconv.Luma{R: p[5], G: p[6], B: p[7]}
	if w.R+w.G+w.B <= 0 {
		w = colconv.LumaBT709
	}

	r, g, b := colconv.Clamp01(c[0]), colconv.Clamp01(c[1]), colconv.Clamp01(c[2])

	adjust := func(h, s, v float64) (float64, float64, float64) {
		if colorize {
			h = (dh + 1) / 2
			s = (ds + 1) / 2
		} else {
			h = colconv.WrapHue(h + dh/2)
			s = shift(s, ds)
		}
		return h, s, shift(v, dv)
	}

	switch int(p[3]) {
	case HSL:
		r, g, b = colconv.HSLToRGB(adjust(colconv.RGBToHSL(r, g, b)))
	case HCI:
		r, g, b = colconv.HCIToRGB(adjust(colconv.RGBToHCI(r, g, b)))
	case HCY:
		h, cr, y := colconv.RGBToHCY(r, g, b, w)
		h, cr, y = adjust(h, cr, y)
		r, g, b = colconv.HCYToRGB(h, cr, y, w)
	case YUV:
		y, u, v := colconv.RGBToYUV(r, g, b, w)
		y, u, v = adjustYUV(y, u, v, dh, ds, dv, colorize)
		r, g, b = colconv.YUVToRGB(y, u, v, w)
	default:
		r, g, b = colconv.HSVToRGB(adjust(colconv.RGBToHSV(r, g, b)))
	}

	c[0], c[1], c[2] = colconv.Clamp01(r), colconv.Clamp01(g), colconv.Clamp01(b)
	return alpha
}

// adjustYUV rotates and scales the chroma plane.
func adjustYUV(y, u, v, dh, ds, dv float64, colorize bool) (float64, float64, float64) {
	if colorize {
		// a fixed chroma vector in the direction given by dh
		sin, cos := sincosTurns((dh + 1) / 2)
		r := (ds + 1) / 4
		u, v = r*cos, r*sin
	} else {
		sin, cos := sincosTurns(dh / 2)
		u, v = u*cos-v*sin, u*sin+v*cos
		scale := 1 + ds
		u, v = u*scale, v*scale
	}
	return shift(y, dv), u, v
}

// shift moves x in [0, 1] towards 1 for d > 0 and towards 0 for d < 0.
// The result is in [0, 1].
func shift(x, d float64) float64 {
	x = colconv.Clamp01(x)
	if d > 0 {
		return x + (1-x)*d
	}
	return x * (1 + d)
}

func clampParam(x float64) float64 {
	return min(max(x, -1), 1)
}

// sincosTurns returns the sine and cosine of an angle given in turns.
func sincosTurns(t float64) (sin, cos float64) {
	return math.Sincos(2 * math.Pi * t)
}
