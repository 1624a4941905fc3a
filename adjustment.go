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
	"math"

	"seehuhn.de/go/pigment/cms"
)

// TransferCurve maps input values in [0, 1] to output values in [0, 1].
// The curve is given by equally spaced samples, 0xffff corresponds to 1.
// An empty curve is the identity.
type TransferCurve []uint16

// IdentityCurve returns a transfer curve with n samples which does not
// change its input.
func IdentityCurve(n int) TransferCurve {
	if n < 2 {
		n = 2
	}
	c := make(TransferCurve, n)
	for i := range c {
		c[i] = uint16(math.Round(float64(i) * 0xffff / float64(n-1)))
	}
	return c
}

// Eval evaluates the curve at x, using linear interpolation between
// samples.  Inputs outside [0, 1] are clamped.
func (c TransferCurve) Eval(x float64) float64 {
	switch len(c) {
	case 0:
		return x
	case 1:
		return float64(c[0]) / 0xffff
	}
	x = clip01(x)
	pos := x * float64(len(c)-1)
	i := int(pos)
	if i >= len(c)-1 {
		return float64(c[len(c)-1]) / 0xffff
	}
	t := pos - float64(i)
	y := (1-t)*float64(c[i]) + t*float64(c[i+1])
	return y / 0xffff
}

// AdjustmentKind selects the algorithm of an [Adjustment].
type AdjustmentKind int

// These are the supported adjustment kinds.
const (
	AdjustBrightnessContrast AdjustmentKind = iota + 1
	AdjustDesaturate
	AdjustPerChannel
)

func (k AdjustmentKind) String() string {
	switch k {
	case AdjustBrightnessContrast:
		return "brightness/contrast"
	case AdjustDesaturate:
		return "desaturate"
	case AdjustPerChannel:
		return "per-channel"
	default:
		return "AdjustmentKind(?)"
	}
}

// Adjustment is a prepared pixel adjustment for one colour space.
// Adjustments are created by the methods of [ColorSpace] and applied
// using [ColorSpace.ApplyAdjustment].
type Adjustment struct {
	Kind AdjustmentKind

	// SpaceID is the ID of the colour space which created the adjustment.
	SpaceID string

	// Lightness is the transfer curve for brightness/contrast adjustments.
	Lightness TransferCurve

	// Channels holds one curve per channel, in index order, for
	// per-channel adjustments.  A nil entry leaves the channel unchanged.
	Channels []TransferCurve

	// Lab converts between the colour space and CIE Lab.  If this is nil,
	// the built-in sRGB colorimetry is used instead.
	Lab *cms.LabRoundTrip
}
