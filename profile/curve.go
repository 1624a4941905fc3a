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

package profile

import (
	"math"
	"sort"
)

// Curve is a one-dimensional tone reproduction curve, mapping device values
// in [0, 1] to linear light in [0, 1].
//
// Curves are immutable and safe for concurrent use.
type Curve struct {
	gamma    float64
	funcType int
	params   []float64
	table    []uint16
}

// NewGammaCurve returns the curve y = x^gamma.
func NewGammaCurve(gamma float64) *Curve {
	return &Curve{gamma: gamma}
}

// NewParametricCurve returns an ICC parametric curve.  The number of
// parameters depends on the function type:
//
//	type 0: y = x^g                                  [g]
//	type 1: y = (ax+b)^g for x >= -b/a, else 0        [g a b]
//	type 2: y = (ax+b)^g + c for x >= -b/a, else c    [g a b c]
//	type 3: y = (ax+b)^g for x >= d, else cx          [g a b c d]
//	type 4: y = (ax+b)^g + e for x >= d, else cx + f  [g a b c d e f]
func NewParametricCurve(funcType int, params ...float64) (*Curve, error) {
	n, ok := parametricArgs[funcType]
	if !ok || len(params) != n {
		return nil, &MalformedError{Tag: "para", Err: errCurveParams}
	}
	if params[0] == 0 {
		return nil, &MalformedError{Tag: "para", Err: errCurveParams}
	}
	return &Curve{
		funcType: funcType,
		params:   append([]float64(nil), params...),
	}, nil
}

// NewTableCurve returns a sampled curve.  The samples are evenly spaced
// over the input range and are interpolated linearly.
func NewTableCurve(table []uint16) *Curve {
	return &Curve{table: append([]uint16(nil), table...)}
}

// SRGBCurve returns the IEC 61966-2-1 transfer function.
func SRGBCurve() *Curve {
	c, _ := NewParametricCurve(3, 2.4, 1/1.055, 0.055/1.055, 1/12.92, 0.04045)
	return c
}

var parametricArgs = map[int]int{0: 1, 1: 3, 2: 4, 3: 5, 4: 7}

// decodeCurve reads a curveType or parametricCurveType tag.
func decodeCurve(data []byte) (*Curve, error) {
	if len(data) < 12 {
		return nil, errTagSize
	}
	switch string(data[:4]) {
	case "curv":
		n := be32(data[8:])
		switch {
		case n == 0:
			return NewGammaCurve(1), nil
		case n == 1:
			if len(data) < 14 {
				return nil, errTagSize
			}
			return NewGammaCurve(float64(be16(data[12:])) / 256), nil
		case uint64(len(data)) < 12+2*uint64(n):
			return nil, errTagSize
		}
		table := make([]uint16, n)
		for i := range table {
			table[i] = be16(data[12+2*i:])
		}
		return NewTableCurve(table), nil

	case "para":
		funcType := int(be16(data[8:]))
		n, ok := parametricArgs[funcType]
		if !ok {
			return nil, errCurveParams
		}
		if len(data) < 12+4*n {
			return nil, errTagSize
		}
		params := make([]float64, n)
		for i := range params {
			params[i] = s15Fixed16(data[12+4*i:])
		}
		return NewParametricCurve(funcType, params...)
	}
	return nil, errTagType
}

// Eval maps a device value to linear light.
func (c *Curve) Eval(x float64) float64 {
	x = clip(x)
	var y float64
	switch {
	case c.table != nil:
		y = c.evalTable(x)
	case c.params != nil:
		y = c.evalParametric(x)
	case x <= 0:
		y = 0
	default:
		y = math.Pow(x, c.gamma)
	}
	return clip(y)
}

func (c *Curve) evalParametric(x float64) float64 {
	p := c.params
	g := p[0]
	pow := func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return math.Pow(v, g)
	}
	switch c.funcType {
	case 0:
		return pow(x)
	case 1:
		if x >= -p[2]/p[1] {
			return pow(p[1]*x + p[2])
		}
		return 0
	case 2:
		if x >= -p[2]/p[1] {
			return pow(p[1]*x+p[2]) + p[3]
		}
		return p[3]
	case 3:
		if x >= p[4] {
			return pow(p[1]*x + p[2])
		}
		return p[3] * x
	case 4:
		if x >= p[4] {
			return pow(p[1]*x+p[2]) + p[5]
		}
		return p[3]*x + p[6]
	}
	return x
}

func (c *Curve) evalTable(x float64) float64 {
	n := len(c.table)
	switch n {
	case 0:
		return x
	case 1:
		return float64(c.table[0]) / 0xffff
	}
	pos := x * float64(n-1)
	i := int(pos)
	if i >= n-1 {
		return float64(c.table[n-1]) / 0xffff
	}
	t := pos - float64(i)
	return ((1-t)*float64(c.table[i]) + t*float64(c.table[i+1])) / 0xffff
}

// Invert maps linear light back to a device value.
func (c *Curve) Invert(y float64) float64 {
	y = clip(y)
	switch {
	case c.table != nil:
		return c.invertTable(y)
	case c.params != nil:
		return clip(c.invertParametric(y))
	case y <= 0:
		return 0
	default:
		return math.Pow(y, 1/c.gamma)
	}
}

func (c *Curve) invertParametric(y float64) float64 {
	p := c.params
	invG := 1 / p[0]
	root := func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return math.Pow(v, invG)
	}
	switch c.funcType {
	case 0:
		return root(y)
	case 1:
		return (root(y) - p[2]) / p[1]
	case 2:
		return (root(y-p[3]) - p[2]) / p[1]
	case 3:
		if y < p[3]*p[4] {
			if p[3] == 0 {
				return 0
			}
			return y / p[3]
		}
		return (root(y) - p[2]) / p[1]
	case 4:
		if y < p[3]*p[4]+p[6] {
			if p[3] == 0 {
				return 0
			}
			return (y - p[6]) / p[3]
		}
		return (root(y-p[5]) - p[2]) / p[1]
	}
	return y
}

// invertTable inverts the piecewise linear interpolation of a
// non-decreasing table.  Inside flat runs, the first matching input is
// returned.
func (c *Curve) invertTable(y float64) float64 {
	n := len(c.table)
	switch n {
	case 0:
		return y
	case 1:
		return 0
	}
	target := y * 0xffff
	k := sort.Search(n, func(j int) bool {
		return float64(c.table[j]) >= target
	})
	switch {
	case k == 0:
		return 0
	case k >= n:
		return 1
	}
	v0, v1 := float64(c.table[k-1]), float64(c.table[k])
	return (float64(k-1) + (target-v0)/(v1-v0)) / float64(n-1)
}

// IsIdentity reports whether the curve leaves all values unchanged.
func (c *Curve) IsIdentity() bool {
	switch {
	case c.table != nil:
		return false
	case c.params != nil:
		return c.funcType == 0 && c.params[0] == 1
	default:
		return c.gamma == 1
	}
}
