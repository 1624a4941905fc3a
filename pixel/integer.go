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

package pixel

import (
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"

	"seehuhn.de/go/pigment"
)

// divRound returns num/den rounded to nearest, with ties away from zero.
func divRound[N constraints.Signed](num, den N) N {
	if num >= 0 {
		return (num + den/2) / den
	}
	return -((-num + den/2) / den)
}

func clampTo[N constraints.Integer | constraints.Float](v, lo, hi N) N {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// == 8-bit unsigned ==========================================================

// U8 stores channel values as 8-bit unsigned integers.
type U8 struct{}

func (U8) ValueType() pigment.ValueType { return pigment.UInt8 }
func (U8) Size() int                    { return 1 }
func (U8) IsHDR() bool                  { return false }

func (U8) Load(b []byte) uint8     { return b[0] }
func (U8) Store(b []byte, v uint8) { b[0] = v }

func (U8) Zero() uint8        { return 0 }
func (U8) Unit() uint8        { return math.MaxUint8 }
func (U8) Half() uint8        { return 128 }
func (U8) MinSelected() uint8 { return 1 }

func (U8) Float(v uint8) float64 { return float64(v) / math.MaxUint8 }

func (U8) FromFloat(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	return uint8(math.Round(clampTo(x, 0, 1) * math.MaxUint8))
}

func (U8) ToU8(v uint8) uint8   { return v }
func (U8) FromU8(v uint8) uint8 { return v }

func (U8) Mul(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 0x80
	return uint8(((t >> 8) + t) >> 8)
}

func (U8) Mul3(a, b, c uint8) uint8 {
	t := uint32(a)*uint32(b)*uint32(c) + 0x7f5b
	return uint8(((t >> 7) + t) >> 16)
}

func (U8) Div(a, b uint8) uint8 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.MaxUint8
	}
	q := (uint32(a)*math.MaxUint8 + uint32(b)/2) / uint32(b)
	return uint8(min(q, math.MaxUint8))
}

func (U8) Blend(src, dst, t uint8) uint8 {
	d := divRound((int32(src)-int32(dst))*int32(t), math.MaxUint8)
	return uint8(int32(dst) + d)
}

func (U8) Inv(v uint8) uint8 { return math.MaxUint8 - v }

func (e U8) Union(a, b uint8) uint8 {
	return uint8(uint32(a) + uint32(b) - uint32(e.Mul(a, b)))
}

func (U8) Sub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

func (U8) Less(a, b uint8) bool { return a < b }
func (U8) IsZero(v uint8) bool  { return v == 0 }

// == 16-bit unsigned =========================================================

// U16 stores channel values as 16-bit unsigned integers, in little endian
// byte order.
type U16 struct{}

func (U16) ValueType() pigment.ValueType { return pigment.UInt16 }
func (U16) Size() int                    { return 2 }
func (U16) IsHDR() bool                  { return false }

func (U16) Load(b []byte) uint16     { return binary.LittleEndian.Uint16(b) }
func (U16) Store(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

func (U16) Zero() uint16        { return 0 }
func (U16) Unit() uint16        { return math.MaxUint16 }
func (U16) Half() uint16        { return 1 << 15 }
func (U16) MinSelected() uint16 { return 257 }

func (U16) Float(v uint16) float64 { return float64(v) / math.MaxUint16 }

func (U16) FromFloat(x float64) uint16 {
	if !(x > 0) {
		return 0
	}
	return uint16(math.Round(clampTo(x, 0, 1) * math.MaxUint16))
}

func (U16) ToU8(v uint16) uint8 {
	return uint8((uint32(v) + 128) / 257)
}

func (U16) FromU8(v uint8) uint16 { return uint16(v) * 257 }

func (U16) Mul(a, b uint16) uint16 {
	return uint16((uint64(a)*uint64(b) + math.MaxUint16/2) / math.MaxUint16)
}

func (U16) Mul3(a, b, c uint16) uint16 {
	const unit2 = uint64(math.MaxUint16) * math.MaxUint16
	return uint16((uint64(a)*uint64(b)*uint64(c) + unit2/2) / unit2)
}

func (U16) Div(a, b uint16) uint16 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.MaxUint16
	}
	q := (uint64(a)*math.MaxUint16 + uint64(b)/2) / uint64(b)
	return uint16(min(q, math.MaxUint16))
}

func (U16) Blend(src, dst, t uint16) uint16 {
	d := divRound((int64(src)-int64(dst))*int64(t), math.MaxUint16)
	return uint16(int64(dst) + d)
}

func (U16) Inv(v uint16) uint16 { return math.MaxUint16 - v }

func (e U16) Union(a, b uint16) uint16 {
	return uint16(uint32(a) + uint32(b) - uint32(e.Mul(a, b)))
}

func (U16) Sub(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}

func (U16) Less(a, b uint16) bool { return a < b }
func (U16) IsZero(v uint16) bool  { return v == 0 }
