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

import "math"

// Luma holds the weights used to compute the luminance of an RGB colour.
type Luma struct {
	R, G, B float64
}

// Standard luma coefficients.
var (
	LumaBT709 = Luma{R: 0.2126, G: 0.7152, B: 0.0722}
	LumaBT601 = Luma{R: 0.299, G: 0.587, B: 0.114}
)

// Y returns the weighted sum of the components.
func (l Luma) Y(r, g, b float64) float64 {
	return l.R*r + l.G*g + l.B*b
}

// In all functions below, hue is given as a fraction of a full turn, in
// the range [0, 1).  Saturation and the lightness-like components are in
// [0, 1].

// hueOf returns the hue and the chroma of an RGB colour.
func hueOf(r, g, b float64) (h, chroma float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	chroma = hi - lo
	if chroma <= 0 {
		return 0, 0
	}
	switch hi {
	case r:
		h = math.Mod((g-b)/chroma, 6)
	case g:
		h = (b-r)/chroma + 2
	default:
		h = (r-g)/chroma + 4
	}
	h /= 6
	if h < 0 {
		h++
	}
	return h, chroma
}

// fromHueChroma returns the RGB colour with the given hue and chroma and
// with min(r, g, b) = 0.
func fromHueChroma(h, chroma float64) (r, g, b float64) {
	h = wrap(h) * 6
	x := chroma * (1 - math.Abs(math.Mod(h, 2)-1))
	switch int(h) {
	case 0:
		return chroma, x, 0
	case 1:
		return x, chroma, 0
	case 2:
		return 0, chroma, x
	case 3:
		return 0, x, chroma
	case 4:
		return x, 0, chroma
	default:
		return chroma, 0, x
	}
}

// RGBToHSV converts RGB to hue, saturation and value.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	h, c := hueOf(r, g, b)
	v = max(r, g, b)
	if v > 0 {
		s = c / v
	}
	return h, s, v
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	r, g, b = fromHueChroma(h, c)
	m := v - c
	return r + m, g + m, b + m
}

// RGBToHSL converts RGB to hue, saturation and lightness.
func RGBToHSL(r, g, b float64) (h, s, l float64) {
	h, c := hueOf(r, g, b)
	l = (max(r, g, b) + min(r, g, b)) / 2
	if d := 1 - math.Abs(2*l-1); d > 0 {
		s = c / d
	}
	return h, s, l
}

// HSLToRGB is the inverse of RGBToHSL.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	c := (1 - math.Abs(2*l-1)) * s
	r, g, b = fromHueChroma(h, c)
	m := l - c/2
	return r + m, g + m, b + m
}

// RGBToHCI converts RGB to hue, chroma-based saturation and intensity,
// where the intensity is the mean of the components.
func RGBToHCI(r, g, b float64) (h, s, i float64) {
	h, c := hueOf(r, g, b)
	i = (r + g + b) / 3
	if i > 0 && c > 0 {
		s = 1 - min(r, g, b)/i
	}
	return h, s, i
}

// HCIToRGB is the inverse of RGBToHCI.
func HCIToRGB(h, s, i float64) (r, g, b float64) {
	r, g, b = fromHueChroma(h, 1)
	// the unit chroma colour has intensity (r+g+b)/3
	base := (r + g + b) / 3
	lo := i * (1 - s)
	scale := 0.0
	if base > 0 {
		scale = (i - lo) / base
	}
	return lo + r*scale, lo + g*scale, lo + b*scale
}

// RGBToHCY converts RGB to hue, chroma and luma.
func RGBToHCY(r, g, b float64, w Luma) (h, c, y float64) {
	h, c = hueOf(r, g, b)
	y = w.Y(r, g, b)
	return h, c, y
}

// HCYToRGB is the inverse of RGBToHCY.
func HCYToRGB(h, c, y float64, w Luma) (r, g, b float64) {
	r, g, b = fromHueChroma(h, c)
	m := y - w.Y(r, g, b)
	return r + m, g + m, b + m
}

// RGBToYUV converts RGB to luma and two colour difference components,
// each of the latter in [-0.5, 0.5].
func RGBToYUV(r, g, b float64, w Luma) (y, u, v float64) {
	y = w.Y(r, g, b)
	u = (b - y) / (2 * (1 - w.B))
	v = (r - y) / (2 * (1 - w.R))
	return y, u, v
}

// YUVToRGB is the inverse of RGBToYUV.
func YUVToRGB(y, u, v float64, w Luma) (r, g, b float64) {
	r = y + 2*(1-w.R)*v
	b = y + 2*(1-w.B)*u
	g = (y - w.R*r - w.B*b) / w.G
	return r, g, b
}

func wrap(h float64) float64 {
	h -= math.Floor(h)
	if h >= 1 {
		h = 0
	}
	return h
}

// Clamp01 limits x to the range [0, 1].
func Clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

// WrapHue maps any hue to the range [0, 1).
func WrapHue(h float64) float64 {
	return wrap(h)
}
