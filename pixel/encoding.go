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

// Package pixel implements the numeric encodings of channel values.
//
// Each encoding is a zero-size type which is used as a type parameter by
// the generic colour space implementation.  This way the per-pixel loops are
// compiled separately for every encoding, while the algorithms are written
// only once.
package pixel

import (
	"seehuhn.de/go/pigment"
)

// Encoding describes how channel values of type T are stored and combined.
//
// The integer encodings use a unit value equal to the maximal
// representable number and round to nearest in all arithmetic.  The float
// encodings use 1 as the unit value and do not clamp, so that high dynamic
// range values survive.
type Encoding[T any] interface {
	ValueType() pigment.ValueType
	Size() int
	IsHDR() bool

	Load(b []byte) T
	Store(b []byte, v T)

	Zero() T
	Unit() T
	Half() T

	// MinSelected is the smallest alpha value which still counts as
	// selected.
	MinSelected() T

	// Float returns v scaled so that Unit() maps to 1.
	Float(v T) float64

	// FromFloat is the inverse of Float.  Integer encodings round to
	// nearest and clamp to the representable range.
	FromFloat(x float64) T

	ToU8(v T) uint8
	FromU8(v uint8) T

	// Mul returns a*b/unit.
	Mul(a, b T) T

	// Mul3 returns a*b*c/unit².
	Mul3(a, b, c T) T

	// Div returns a*unit/b.  Integer results are clamped to the unit.
	Div(a, b T) T

	// Blend returns dst + (src-dst)*t/unit.
	Blend(src, dst, t T) T

	// Inv returns unit-v.
	Inv(v T) T

	// Union returns a + b - a*b/unit.
	Union(a, b T) T

	// Sub returns a-b.  Integer results are clamped at zero.
	Sub(a, b T) T

	Less(a, b T) bool
	IsZero(v T) bool
}

// For returns an encoding-independent description of the given depth.
func For(depth pigment.DepthID) (Info, bool) {
	switch depth {
	case pigment.DepthU8:
		return describe[uint8, U8](), true
	case pigment.DepthU16:
		return describe[uint16, U16](), true
	case pigment.DepthF16:
		return describe[Half, F16](), true
	case pigment.DepthF32:
		return describe[float32, F32](), true
	}
	return Info{}, false
}

// Info gives access to an encoding through normalised float64 values.
// This is slower than using the generic encoding directly and is meant for
// code which is not performance critical.
type Info struct {
	ValueType pigment.ValueType
	Size      int
	HDR       bool
	Get       func(b []byte) float64
	Set       func(b []byte, x float64)
}

func describe[T any, E Encoding[T]]() Info {
	var enc E
	return Info{
		ValueType: enc.ValueType(),
		Size:      enc.Size(),
		HDR:       enc.IsHDR(),
		Get:       func(b []byte) float64 { return enc.Float(enc.Load(b)) },
		Set:       func(b []byte, x float64) { enc.Store(b, enc.FromFloat(x)) },
	}
}
