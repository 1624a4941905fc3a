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

// Package colconv holds the built-in colorimetry which is used whenever no
// colour profile is available: the sRGB transfer function, conversions
// between sRGB, CIE XYZ and CIE Lab, a naive CMYK model and the cylindrical
// RGB models used by colour adjustments.
//
// All XYZ values are relative to the D50 illuminant of the ICC profile
// connection space, with Y=1 for the media white.
package colconv

import (
	"math"

	"golang.org/x/image/math/f64"
)

// WhitePointD50 is the D50 white point in XYZ coordinates.
var WhitePointD50 = f64.Vec3{0.9642, 1.0, 0.8249}

// WhitePointD65 is the D65 white point in XYZ coordinates.
var WhitePointD65 = f64.Vec3{0.95047, 1.0, 1.08883}

// linear sRGB to XYZ, including the Bradford adaptation from D65 to D50
var srgbToXYZ = f64.Mat3{
	0.4360747, 0.3850649, 0.1430804,
	0.2225045, 0.7168786, 0.0606169,
	0.0139322, 0.0971045, 0.7141733,
}

var xyzToSRGB = f64.Mat3{
	3.1338561, -1.6168667, -0.4906146,
	-0.9787684, 1.9161415, 0.0334540,
	0.0719453, -0.2289914, 1.4052427,
}

// SRGBToLinear applies the inverse sRGB transfer function.
// Negative values are mirrored, so that extended range values survive.
func SRGBToLinear(v float64) float64 {
	if v < 0 {
		return -SRGBToLinear(-v)
	}
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB transfer function.
func LinearToSRGB(v float64) float64 {
	if v < 0 {
		return -LinearToSRGB(-v)
	}
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// MulVec returns the product m·v.
func MulVec(m f64.Mat3, v f64.Vec3) f64.Vec3 {
	return f64.Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Invert returns the inverse of m.  The second return value is false if m
// is singular.
func Invert(m f64.Mat3) (f64.Mat3, bool) {
	c0 := m[4]*m[8] - m[5]*m[7]
	c1 := m[5]*m[6] - m[3]*m[8]
	c2 := m[3]*m[7] - m[4]*m[6]
	det := m[0]*c0 + m[1]*c1 + m[2]*c2
	if math.Abs(det) < 1e-12 {
		return f64.Mat3{}, false
	}
	inv := 1 / det
	return f64.Mat3{
		c0 * inv, (m[2]*m[7] - m[1]*m[8]) * inv, (m[1]*m[5] - m[2]*m[4]) * inv,
		c1 * inv, (m[0]*m[8] - m[2]*m[6]) * inv, (m[2]*m[3] - m[0]*m[5]) * inv,
		c2 * inv, (m[1]*m[6] - m[0]*m[7]) * inv, (m[0]*m[4] - m[1]*m[3]) * inv,
	}, true
}

// SRGBToXYZ converts gamma encoded sRGB values to D50 XYZ.
func SRGBToXYZ(r, g, b float64) f64.Vec3 {
	return MulVec(srgbToXYZ, f64.Vec3{SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(b)})
}

// XYZToSRGB converts D50 XYZ to gamma encoded sRGB values.
// The result is not clamped.
func XYZToSRGB(v f64.Vec3) (r, g, b float64) {
	lin := MulVec(xyzToSRGB, v)
	return LinearToSRGB(lin[0]), LinearToSRGB(lin[1]), LinearToSRGB(lin[2])
}

// XYZToLab converts XYZ values to CIE Lab, relative to the given white.
func XYZToLab(v, white f64.Vec3) (L, a, b float64) {
	fx := labF(v[0] / white[0])
	fy := labF(v[1] / white[1])
	fz := labF(v[2] / white[2])
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

// LabToXYZ is the inverse of XYZToLab.
func LabToXYZ(L, a, b float64, white f64.Vec3) f64.Vec3 {
	fy := (L + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	return f64.Vec3{
		labFInv(fx) * white[0],
		labFInv(fy) * white[1],
		labFInv(fz) * white[2],
	}
}

// SRGBToLab converts gamma encoded sRGB values to D50 Lab.
func SRGBToLab(r, g, b float64) (L, A, B float64) {
	return XYZToLab(SRGBToXYZ(r, g, b), WhitePointD50)
}

// LabToSRGB converts D50 Lab to gamma encoded sRGB values, clamped to [0, 1].
func LabToSRGB(L, A, B float64) (r, g, b float64) {
	r, g, b = XYZToSRGB(LabToXYZ(L, A, B, WhitePointD50))
	return clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1)
}

// SRGBToGray returns the gamma encoded gray value with the same luminance
// as the given sRGB colour.
func SRGBToGray(r, g, b float64) float64 {
	y := LumaBT709.Y(SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(b))
	return LinearToSRGB(y)
}

// CMYKToRGB converts CMYK values to RGB using the naive device formula.
func CMYKToRGB(c, m, y, k float64) (r, g, b float64) {
	r = (1 - c) * (1 - k)
	g = (1 - m) * (1 - k)
	b = (1 - y) * (1 - k)
	return r, g, b
}

// RGBToCMYK is the inverse of CMYKToRGB, using maximal black.
func RGBToCMYK(r, g, b float64) (c, m, y, k float64) {
	r, g, b = clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1)
	k = 1 - max(r, g, b)
	if k >= 1 {
		return 0, 0, 0, 1
	}
	c = (1 - r - k) / (1 - k)
	m = (1 - g - k) / (1 - k)
	y = (1 - b - k) / (1 - k)
	return clamp(c, 0, 1), clamp(m, 0, 1), clamp(y, 0, 1), k
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo || math.IsNaN(x) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
