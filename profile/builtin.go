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
	"strings"
	"sync"

	"github.com/xdg-go/stringprep"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/icc"
)

// Names of the built-in profiles.
const (
	SRGBName       = "sRGB built-in"
	SRGBv2Name     = "sRGB v2 built-in"
	LinearSRGBName = "sRGB linear built-in"
	GrayName       = "Gray-D50 sRGB TRC built-in"
	LabName        = "Lab identity built-in"
	XYZName        = "XYZ identity built-in"
)

// srgbToXYZD50 maps linear sRGB to the D50 adapted XYZ space of the ICC
// profile connection space.
var srgbToXYZD50 = f64.Mat3{
	0.4360747, 0.3850649, 0.1430804,
	0.2225045, 0.7168786, 0.0606169,
	0.0139322, 0.0971045, 0.7141733,
}

var (
	srgbOnce sync.Once
	srgb     *Profile

	srgbV2Once sync.Once
	srgbV2     *Profile

	linearOnce sync.Once
	linear     *Profile

	grayOnce sync.Once
	gray     *Profile

	labOnce sync.Once
	lab     *Profile

	xyzOnce sync.Once
	xyz     *Profile
)

// SRGB returns the built-in ICC version 4 sRGB profile.
func SRGB() *Profile {
	srgbOnce.Do(func() {
		srgb = builtinSRGB(SRGBName, icc.SRGBv4Profile)
	})
	return srgb
}

// SRGBv2 returns the built-in ICC version 2 sRGB profile.
func SRGBv2() *Profile {
	srgbV2Once.Do(func() {
		srgbV2 = builtinSRGB(SRGBv2Name, icc.SRGBv2Profile)
	})
	return srgbV2
}

// builtinSRGB decodes one of the sRGB profiles shipped with the icc
// package.  If the data cannot be used for matrix/TRC transformations, an
// equivalent profile is generated.
func builtinSRGB(name string, data []byte) *Profile {
	p, err := Decode(data)
	if err != nil || p.kind != KindMatrixTRC {
		trc := SRGBCurve()
		return NewMatrixTRC(name, srgbToXYZD50, trc, trc, trc, WhitePointD50)
	}
	p.name = name
	p.key = Key(name)
	return p
}

// LinearSRGB returns an sRGB profile with linear tone curves.
func LinearSRGB() *Profile {
	linearOnce.Do(func() {
		trc := NewGammaCurve(1)
		linear = NewMatrixTRC(LinearSRGBName, srgbToXYZD50, trc, trc, trc, WhitePointD50)
	})
	return linear
}

// GraySRGB returns a D50 grayscale profile which uses the sRGB tone curve.
func GraySRGB() *Profile {
	grayOnce.Do(func() {
		gray = NewGray(GrayName, SRGBCurve())
	})
	return gray
}

// Lab returns the identity profile for CIE Lab (D50).
func Lab() *Profile {
	labOnce.Do(func() {
		lab = newIdentity(LabName, KindLab, icc.CIELabSpace)
	})
	return lab
}

// XYZ returns the identity profile for CIE XYZ (D50).
func XYZ() *Profile {
	xyzOnce.Do(func() {
		xyz = newIdentity(XYZName, KindXYZ, icc.CIEXYZSpace)
	})
	return xyz
}

// Builtin returns all built-in profiles.
func Builtin() []*Profile {
	return []*Profile{SRGB(), SRGBv2(), LinearSRGB(), GraySRGB(), Lab(), XYZ()}
}

// keyPrep normalises profile names so that lookups ignore case, Unicode
// normalisation differences and invisible characters.
var keyPrep = stringprep.Profile{
	Mappings: []stringprep.Mapping{
		stringprep.TableB1,
		stringprep.TableB2,
	},
	Normalize: true,
	Prohibits: []stringprep.Set{
		stringprep.TableC2_1,
		stringprep.TableC2_2,
	},
	CheckBiDi: false,
}

// Key returns the lookup key for a profile name.
func Key(name string) string {
	name = strings.TrimSpace(name)
	k, err := keyPrep.Prepare(name)
	if err != nil {
		return strings.ToLower(name)
	}
	return k
}
