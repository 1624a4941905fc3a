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

// Grey value formulas for the desaturate transformation.
const (
	DesaturateLightness = iota
	DesaturateBT709
	DesaturateBT601
	DesaturateAverage
	DesaturateMin
	DesaturateMax
)

var desaturateParams = []Param{
	{Name: "type", Default: DesaturateBT709},
}

// NewDesaturate returns the factory for the "desaturate_adjustment"
// transformation, which replaces every colour by a grey of the same
// lightness.
func NewDesaturate() Factory {
	return &builtinFactory{
		id:     "desaturate_adjustment",
		name:   "Desaturate",
		models: rgbOnly,
		params: desaturateParams,
		kernel: func(pigment.ColorSpace) Kernel { return desaturateKernel },
	}
}

func desaturateKernel(c []float64, alpha float64, p []float64) float64 {
	r, g, b := c[0], c[1], c[2]
	var y float64
	switch int(p[0]) {
	case DesaturateLightness:
		y = (max(r, g, b) + min(r, g, b)) / 2
	case DesaturateBT601:
		y = colconv.LumaBT601.Y(r, g, b)
	case DesaturateAverage:
		y = (r + g + b) / 3
	case DesaturateMin:
		y = min(r, g, b)
	case DesaturateMax:
		y = max(r, g, b)
	default:
		y = colconv.LumaBT709.Y(r, g, b)
	}
	c[0], c[1], c[2] = y, y, y
	return alpha
}
