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
)

// Tonal ranges for the dodge and burn transformations.
const (
	Shadows = iota
	Midtones
	Highlights
)

var dodgeBurnParams = []Param{
	{Name: "type", Default: Midtones},
	{Name: "exposure", Default: 0.5},
}

// NewDodge returns the factory for the "dodge" transformation, which
// lightens the tonal range selected by the type parameter.  The strength
// is given by exposure, in the range [0, 1].
func NewDodge() Factory {
	return &builtinFactory{
		id:     "dodge",
		name:   "Dodge",
		models: rgbOnly,
		params: dodgeBurnParams,
		kernel: func(pigment.ColorSpace) Kernel { return dodgeKernel },
	}
}

// NewBurn returns the factory for the "burn" transformation, which darkens
// the tonal range selected by the type parameter.
func NewBurn() Factory {
	return &builtinFactory{
		id:     "burn",
		name:   "Burn",
		models: rgbOnly,
		params: dodgeBurnParams,
		kernel: func(pigment.ColorSpace) Kernel { return burnKernel },
	}
}

func dodgeKernel(c []float64, alpha float64, p []float64) float64 {
	exposure := min(max(p[1], 0), 1)
	var f func(float64) float64
	switch int(p[0]) {
	case Shadows:
		factor := exposure / 3
		f = func(x float64) float64 { return factor + x - factor*x }
	case Highlights:
		factor := 1 + exposure/3
		f = func(x float64) float64 { return x * factor }
	default:
		factor := 1 / (1 + exposure)
		f = func(x float64) float64 { return math.Pow(x, factor) }
	}
	for i, x := range c {
		c[i] = f(max(x, 0))
	}
	return alpha
}

func burnKernel(c []float64, alpha float64, p []float64) float64 {
	exposure := min(max(p[1], 0), 1)
	var f func(float64) float64
	switch int(p[0]) {
	case Shadows:
		factor := exposure / 3
		f = func(x float64) float64 {
			if x < factor {
				return 0
			}
			return (x - factor) / (1 - factor)
		}
	case Highlights:
		factor := 1 - exposure/3
		f = func(x float64) float64 { return x * factor }
	default:
		factor := 1 + exposure
		f = func(x float64) float64 { return math.Pow(x, factor) }
	}
	for i, x := range c {
		c[i] = f(max(x, 0))
	}
	return alpha
}
