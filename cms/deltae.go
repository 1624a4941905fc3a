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

import "math"

// Lab is a colour in CIE Lab coordinates.
type Lab struct {
	L, A, B float64
}

// DeltaE76 returns the Euclidean distance between two Lab colours.
func DeltaE76(x, y Lab) float64 {
	dL := x.L - y.L
	da := x.A - y.A
	db := x.B - y.B
	return math.Sqrt(dL*dL + da*da + db*db)
}

// DeltaE94 returns the CIE 1994 colour difference, using the graphic arts
// weights.
func DeltaE94(x, y Lab) float64 {
	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	dL := x.L - y.L
	dC := c1 - c2
	dE := DeltaE76(x, y)
	dH2 := dE*dE - dL*dL - dC*dC
	dH := 0.0
	if dH2 > 0 {
		dH = math.Sqrt(dH2)
	}
	c12 := math.Sqrt(c1 * c2)
	sc := 1 + 0.048*c12
	sh := 1 + 0.014*c12
	return math.Sqrt(dL*dL + (dC/sc)*(dC/sc) + (dH/sh)*(dH/sh))
}

// DeltaE2000 returns the CIEDE2000 colour difference with unit weights.
func DeltaE2000(x, y Lab) float64 {
	const pow25_7 = 6103515625.0 // 25^7

	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	meanC := (c1 + c2) / 2
	meanC7 := math.Pow(meanC, 7)
	g := 0.5 * (1 - math.Sqrt(meanC7/(meanC7+pow25_7)))

	a1 := (1 + g) * x.A
	a2 := (1 + g) * y.A
	c1p := math.Hypot(a1, x.B)
	c2p := math.Hypot(a2, y.B)
	h1p := atan2deg(x.B, a1)
	h2p := atan2deg(y.B, a2)

	meanCp := (c1p + c2p) / 2
	var meanHp float64
	switch {
	case math.Abs(h1p-h2p) <= 180:
		meanHp = (h1p + h2p) / 2
	case h1p+h2p < 360:
		meanHp = (h1p + h2p + 360) / 2
	default:
		meanHp = (h1p + h2p - 360) / 2
	}

	dLp := y.L - x.L
	dCp := c2p - c1p
	dhp := h2p - h1p
	if dhp > 180 {
		dhp -= 360
	} else if dhp < -180 {
		dhp += 360
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(rad(dhp/2))

	meanL := (x.L+y.L)/2 - 50
	sl := 1 + 0.015*meanL*meanL/math.Sqrt(20+meanL*meanL)
	sc := 1 + 0.045*meanCp
	t := 1 - 0.17*math.Cos(rad(meanHp-30)) +
		0.24*math.Cos(rad(2*meanHp)) +
		0.32*math.Cos(rad(3*meanHp+6)) -
		0.20*math.Cos(rad(4*meanHp-63))
	sh := 1 + 0.015*meanCp*t
	dTheta := 30 * math.Exp(-((meanHp-275)/25)*((meanHp-275)/25))
	meanCp7 := math.Pow(meanCp, 7)
	rc := 2 * math.Sqrt(meanCp7/(meanCp7+pow25_7))
	rt := -math.Sin(rad(2*dTheta)) * rc

	l := dLp / sl
	c := dCp / sc
	h := dHp / sh
	return math.Sqrt(l*l + c*c + h*h + rt*c*h)
}

func atan2deg(b, a float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
