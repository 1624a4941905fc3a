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

	"github.com/x448/float16"

	"seehuhn.de/go/pigment"
)

// minSelectedF is the float equivalent of the 8-bit MinSelected value.
const minSelectedF = 1.0 / 255

// == 32-bit float ============================================================

// F32 stores channel values as IEEE 754 single precision numbers, in little
// endian byte order.
type F32 struct{}

func (F32) ValueType() pigment.ValueType { return pigment.Float32 }
func (F32) Size() int                    { return 4 }
func (F32) IsHDR() bool                  { return true }

func (F32) Load(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (F32) Store(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func (F32) Zero() float32        { return 0 }
func (F32) Unit() float32        { return 1 }
func (F32) Half() float32        { return 0.5 }
func (F32) MinSelected() float32 { return minSelectedF }

func (F32) Float(v float32) float64     { return float64(v) }
func (F32) FromFloat(x float64) float32 { return float32(x) }

func (F32) ToU8(v float32) uint8   { return U8{}.FromFloat(float64(v)) }
func (F32) FromU8(v uint8) float32 { return float32(v) / math.MaxUint8 }

func (F32) Mul(a, b float32) float32     { return a * b }
func (F32) Mul3(a, b, c float32) float32 { return a * b * c }

func (F32) Div(a, b float32) float32 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return 1
	}
	return a / b
}

func (F32) Blend(src, dst, t float32) float32 { return dst + (src-dst)*t }
func (F32) Inv(v float32) float32             { return 1 - v }
func (F32) Union(a, b float32) float32        { return a + b - a*b }
func (F32) Sub(a, b float32) float32          { return a - b }
func (F32) Less(a, b float32) bool            { return a < b }
func (F32) IsZero(v float32) bool             { return v == 0 }

// == 16-bit float ============================================================

// Half is an IEEE 754 half precision number.
type Half = float16.Float16

// F16 stores channel values as IEEE 754 half precision numbers, in little
// endian byte order.  Arithmetic is carried out in single precision.
type F16 struct{}

func h(x float32) Half { return float16.Fromfloat32(x) }

func (F16) ValueType() pigment.ValueType { return pigment.Float16 }
func (F16) Size() int                    { return 2 }
func (F16) IsHDR() bool                  { return true }

func (F16) Load(b []byte) Half {
	return float16.Frombits(binary.LittleEndian.Uint16(b))
}

func (F16) Store(b []byte, v Half) {
	binary.LittleEndian.PutUint16(b, v.Bits())
}

func (F16) Zero() Half        { return h(0) }
func (F16) Unit() Half        { return h(1) }
func (F16) Half() Half        { return h(0.5) }
func (F16) MinSelected() Half { return h(minSelectedF) }

func (F16) Float(v Half) float64     { return float64(v.Float32()) }
func (F16) FromFloat(x float64) Half { return h(float32(x)) }

func (F16) ToU8(v Half) uint8   { return U8{}.FromFloat(float64(v.Float32())) }
func (F16) FromU8(v uint8) Half { return h(float32(v) / math.MaxUint8) }

func (F16) Mul(a, b Half) Half {
	return h(a.Float32() * b.Float32())
}

func (F16) Mul3(a, b, c Half) Half {
	return h(a.Float32() * b.Float32() * c.Float32())
}

func (F16) Div(a, b Half) Half {
	return h(F32{}.Div(a.Float32(), b.Float32()))
}

func (F16) Blend(src, dst, t Half) Half {
	return h(F32{}.Blend(src.Float32(), dst.Float32(), t.Float32()))
}

func (F16) Inv(v Half) Half { return h(1 - v.Float32()) }

func (F16) Union(a, b Half) Half {
	return h(F32{}.Union(a.Float32(), b.Float32()))
}

func (F16) Sub(a, b Half) Half  { return h(a.Float32() - b.Float32()) }
func (F16) Less(a, b Half) bool { return a.Float32() < b.Float32() }
func (F16) IsZero(v Half) bool  { return v.Float32() == 0 }
