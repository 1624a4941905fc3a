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

package pigment

import (
	"image/color"
	"math"
)

// DisplayColor is a colour in the RGB space of a display profile.
// The components are normally in the range [0, 1].
type DisplayColor struct {
	R, G, B float64
}

// RGBA implements the [color.Color] interface.  The colour is opaque.
func (c DisplayColor) RGBA() (r, g, b, a uint32) {
	return toU16(c.R), toU16(c.G), toU16(c.B), 0xffff
}

// NRGBA converts c to an 8-bit colour with the given opacity.
func (c DisplayColor) NRGBA(opacity float64) color.NRGBA {
	return color.NRGBA{
		R: toU8(c.R),
		G: toU8(c.G),
		B: toU8(c.B),
		A: toU8(opacity),
	}
}

// DisplayColorOf converts an arbitrary Go colour into a display colour and
// its opacity.
func DisplayColorOf(c color.Color) (DisplayColor, float64) {
	nc := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return DisplayColor{
		R: float64(nc.R) / 0xffff,
		G: float64(nc.G) / 0xffff,
		B: float64(nc.B) / 0xffff,
	}, float64(nc.A) / 0xffff
}

func toU8(x float64) uint8 {
	return uint8(math.Round(clip01(x) * 255))
}

func toU16(x float64) uint32 {
	return uint32(math.Round(clip01(x) * 0xffff))
}

func clip01(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}
