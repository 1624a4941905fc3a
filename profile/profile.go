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

// Package profile reads ICC colour profiles and provides the built-in
// profiles used by the default colour spaces.
//
// Only the parts of a profile which are needed to identify it and to run
// matrix/TRC colour transformations are interpreted.  Profiles which rely on
// lookup tables are accepted, but are reported as [KindUnsupported]; colour
// spaces using such profiles fall back to the built-in sRGB colorimetry.
package profile

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f64"
	"seehuhn.de/go/icc"
)

// Kind describes how the colour transformation of a profile is given.
type Kind int

// These are the supported kinds of profiles.
const (
	KindUnsupported Kind = iota
	KindMatrixTRC
	KindGrayTRC
	KindLab
	KindXYZ
)

func (k Kind) String() string {
	switch k {
	case KindMatrixTRC:
		return "matrix/TRC"
	case KindGrayTRC:
		return "gray TRC"
	case KindLab:
		return "Lab identity"
	case KindXYZ:
		return "XYZ identity"
	default:
		return "unsupported"
	}
}

// WhitePointD50 is the ICC profile connection space illuminant.
var WhitePointD50 = f64.Vec3{0.9642, 1.0, 0.8249}

// Profile is a parsed colour profile.  Profiles are immutable and can be
// shared between goroutines.  Two colour spaces use the same profile if and
// only if they hold the same *Profile.
type Profile struct {
	name      string
	key       string
	copyright string

	space   icc.ColorSpace
	pcs     icc.ColorSpace
	class   uint32
	version uint32
	data    []byte

	kind   Kind
	matrix f64.Mat3 // device RGB to PCS XYZ, row major
	curves []*Curve
	white  f64.Vec3
}

// Decode parses ICC profile data.
func Decode(data []byte) (*Profile, error) {
	p, err := icc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	tags, err := readTags(data)
	if err != nil {
		return nil, err
	}

	name, err := tags.text(sigDesc)
	if err != nil {
		return nil, &MalformedError{Tag: "desc", Err: err}
	}
	if name == "" {
		return nil, &MalformedError{Tag: "desc", Err: errors.New("empty profile description")}
	}
	copyright, _ := tags.text(sigCprt)

	res := &Profile{
		name:      name,
		key:       Key(name),
		copyright: copyright,
		space:     p.ColorSpace,
		pcs:       icc.ColorSpace(be32(data[20:])),
		class:     be32(data[12:]),
		version:   be32(data[8:]),
		data:      append([]byte(nil), data...),
		white:     WhitePointD50,
	}
	if w, err := tags.xyz(sigWtpt); err == nil {
		res.white = w
	}

	switch p.ColorSpace {
	case icc.RGBSpace:
		res.kind, res.matrix, res.curves = tags.matrixTRC()
	case icc.GraySpace:
		if c, err := tags.curve(sigKTRC); err == nil {
			res.kind = KindGrayTRC
			res.curves = []*Curve{c}
		}
	}
	if res.pcs != icc.CIEXYZSpace && res.kind != KindUnsupported {
		// matrix/TRC profiles always connect through XYZ
		res.kind = KindUnsupported
	}

	return res, nil
}

// NewMatrixTRC constructs an RGB profile from the matrix which maps linear
// RGB values to D50 XYZ and three tone reproduction curves.
func NewMatrixTRC(name string, m f64.Mat3, r, g, b *Curve, white f64.Vec3) *Profile {
	return &Profile{
		name:   name,
		key:    Key(name),
		space:  icc.RGBSpace,
		pcs:    icc.CIEXYZSpace,
		kind:   KindMatrixTRC,
		matrix: m,
		curves: []*Curve{r, g, b},
		white:  white,
	}
}

// NewGray constructs a grayscale profile with a D50 white point.
func NewGray(name string, trc *Curve) *Profile {
	return &Profile{
		name:   name,
		key:    Key(name),
		space:  icc.GraySpace,
		pcs:    icc.CIEXYZSpace,
		kind:   KindGrayTRC,
		curves: []*Curve{trc},
		white:  WhitePointD50,
	}
}

func newIdentity(name string, kind Kind, space icc.ColorSpace) *Profile {
	return &Profile{
		name:  name,
		key:   Key(name),
		space: space,
		pcs:   space,
		kind:  kind,
		white: WhitePointD50,
	}
}

// Name returns the profile description.
func (p *Profile) Name() string {
	return p.name
}

// Key returns the normalised name used to look up the profile.
func (p *Profile) Key() string {
	return p.key
}

// Copyright returns the copyright notice embedded in the profile, if any.
func (p *Profile) Copyright() string {
	return p.copyright
}

// ColorSpace returns the signature of the profile's device colour space.
func (p *Profile) ColorSpace() icc.ColorSpace {
	return p.space
}

// PCS returns the profile connection space.
func (p *Profile) PCS() icc.ColorSpace {
	return p.pcs
}

// Channels returns the number of device colour components.
func (p *Profile) Channels() int {
	return p.space.NumComponents()
}

// Kind describes the colour transformation stored in the profile.
func (p *Profile) Kind() Kind {
	return p.kind
}

// Matrix returns the linear RGB to D50 XYZ matrix of a matrix/TRC profile.
func (p *Profile) Matrix() f64.Mat3 {
	return p.matrix
}

// Curve returns the i-th tone reproduction curve, or nil.
func (p *Profile) Curve(i int) *Curve {
	if i < 0 || i >= len(p.curves) {
		return nil
	}
	return p.curves[i]
}

// MediaWhite returns the media white point, in XYZ coordinates.
func (p *Profile) MediaWhite() f64.Vec3 {
	return p.white
}

// Data returns the ICC data the profile was decoded from.  Built-in
// profiles which were not decoded from ICC data return nil.
// The returned slice must not be modified.
func (p *Profile) Data() []byte {
	return p.data
}

// Version returns the ICC version of the profile, or 0 for generated
// profiles.
func (p *Profile) Version() uint32 {
	return p.version
}

// IsDisplay reports whether the profile describes a display device.
func (p *Profile) IsDisplay() bool {
	return p.class == classMonitor || (p.class == 0 && p.space == icc.RGBSpace)
}

func (p *Profile) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.name, p.space, p.kind)
}

const classMonitor = 0x6D6E7472 // "mntr"

// MalformedError is returned when ICC data cannot be interpreted.
type MalformedError struct {
	Tag string
	Err error
}

func (err *MalformedError) Error() string {
	if err.Tag == "" {
		return "profile: malformed ICC data: " + err.Err.Error()
	}
	return fmt.Sprintf("profile: malformed %q tag: %s", err.Tag, err.Err)
}

func (err *MalformedError) Unwrap() error {
	return err.Err
}

var (
	errTagSize     = errors.New("tag data too short")
	errTagType     = errors.New("unexpected tag type")
	errCurveParams = errors.New("invalid curve parameters")
	errMissingTag  = errors.New("tag not found")
)
