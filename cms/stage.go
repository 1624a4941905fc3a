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

package cms

import (
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/pigment/internal/colconv"
	"seehuhn.de/go/pigment/profile"
)

// stage converts between device values of one profile and D50 XYZ.
type stage interface {
	channels() int
	toXYZ(in []float64) f64.Vec3
	fromXYZ(v f64.Vec3, out []float64)
	black() f64.Vec3
}

func newStage(p *profile.Profile) (stage, error) {
	switch p.Kind() {
	case profile.KindMatrixTRC:
		m := p.Matrix()
		inv, ok := colconv.Invert(m)
		if !ok {
			return nil, ErrUnsupportedProfile
		}
		return &matrixStage{
			m:      m,
			inv:    inv,
			curves: [3]*profile.Curve{p.Curve(0), p.Curve(1), p.Curve(2)},
		}, nil
	case profile.KindGrayTRC:
		return &grayStage{curve: p.Curve(0)}, nil
	case profile.KindLab:
		return labStage{}, nil
	case profile.KindXYZ:
		return xyzStage{}, nil
	}
	return nil, ErrUnsupportedProfile
}

// == matrix/TRC ==============================================================

type matrixStage struct {
	m, inv f64.Mat3
	curves [3]*profile.Curve
}

func (s *matrixStage) channels() int { return 3 }

func (s *matrixStage) toXYZ(in []float64) f64.Vec3 {
	lin := f64.Vec3{
		s.curves[0].Eval(in[0]),
		s.curves[1].Eval(in[1]),
		s.curves[2].Eval(in[2]),
	}
	return colconv.MulVec(s.m, lin)
}

func (s *matrixStage) fromXYZ(v f64.Vec3, out []float64) {
	lin := colconv.MulVec(s.inv, v)
	for i := range 3 {
		out[i] = s.curves[i].Invert(lin[i])
	}
}

func (s *matrixStage) black() f64.Vec3 {
	return s.toXYZ([]float64{0, 0, 0})
}

// == gray TRC ================================================================

type grayStage struct {
	curve *profile.Curve
}

func (s *grayStage) channels() int { return 1 }

func (s *grayStage) toXYZ(in []float64) f64.Vec3 {
	y := s.curve.Eval(in[0])
	w := colconv.WhitePointD50
	return f64.Vec3{w[0] * y, y, w[2] * y}
}

func (s *grayStage) fromXYZ(v f64.Vec3, out []float64) {
	out[0] = s.curve.Invert(v[1])
}

func (s *grayStage) black() f64.Vec3 {
	return s.toXYZ([]float64{0})
}

// == Lab =====================================================================

type labStage struct{}

func (labStage) channels() int { return 3 }

func (labStage) toXYZ(in []float64) f64.Vec3 {
	return colconv.LabToXYZ(in[0], in[1], in[2], colconv.WhitePointD50)
}

func (labStage) fromXYZ(v f64.Vec3, out []float64) {
	out[0], out[1], out[2] = colconv.XYZToLab(v, colconv.WhitePointD50)
}

func (labStage) black() f64.Vec3 { return f64.Vec3{} }

// == XYZ =====================================================================

type xyzStage struct{}

func (xyzStage) channels() int { return 3 }

func (xyzStage) toXYZ(in []float64) f64.Vec3 {
	return f64.Vec3{in[0], in[1], in[2]}
}

func (xyzStage) fromXYZ(v f64.Vec3, out []float64) {
	out[0], out[1], out[2] = v[0], v[1], v[2]
}

func (xyzStage) black() f64.Vec3 { return f64.Vec3{} }
