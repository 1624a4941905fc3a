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

import "fmt"

// ModelID identifies a colour model.
type ModelID string

// These are the colour models known to the library.
const (
	ModelRGBA  ModelID = "RGBA"
	ModelCMYKA ModelID = "CMYKA"
	ModelLABA  ModelID = "LABA"
	ModelXYZA  ModelID = "XYZA"
	ModelGRAYA ModelID = "GRAYA"
	ModelAlpha ModelID = "A"
)

// Name returns a human readable name for the model.
func (m ModelID) Name() string {
	switch m {
	case ModelRGBA:
		return "RGB/Alpha"
	case ModelCMYKA:
		return "CMYK/Alpha"
	case ModelLABA:
		return "L*a*b*/Alpha"
	case ModelXYZA:
		return "XYZ/Alpha"
	case ModelGRAYA:
		return "Grayscale/Alpha"
	case ModelAlpha:
		return "Alpha mask"
	default:
		return string(m)
	}
}

// DepthID identifies the numeric encoding of a colour space.
type DepthID string

// These are the supported colour depths.
const (
	DepthU8  DepthID = "U8"
	DepthU16 DepthID = "U16"
	DepthF16 DepthID = "F16"
	DepthF32 DepthID = "F32"
)

// ValueType returns the channel value type used by colour spaces of this
// depth.
func (d DepthID) ValueType() ValueType {
	switch d {
	case DepthU8:
		return UInt8
	case DepthU16:
		return UInt16
	case DepthF16:
		return Float16
	case DepthF32:
		return Float32
	default:
		return 0
	}
}

// Name returns a human readable name for the depth.
func (d DepthID) Name() string {
	switch d {
	case DepthU8:
		return "8-bit integer/channel"
	case DepthU16:
		return "16-bit integer/channel"
	case DepthF16:
		return "16-bit float/channel"
	case DepthF32:
		return "32-bit float/channel"
	default:
		return string(d)
	}
}

// DepthFor returns the colour depth which stores values of type vt using
// the given number of bits.  If bits is zero, the natural size of vt is
// used.
func DepthFor(vt ValueType, bits int) (DepthID, error) {
	if bits != 0 && bits != 8*vt.Size() {
		return "", newConfigError(UnknownValueType, vt.String(), "%d bits", bits)
	}
	switch vt {
	case UInt8:
		return DepthU8, nil
	case UInt16:
		return DepthU16, nil
	case Float16:
		return DepthF16, nil
	case Float32:
		return DepthF32, nil
	}
	return "", newConfigError(UnknownValueType, vt.String(), "")
}

// SpaceID returns the identifier used for the colour space with the given
// model and depth, for example "RGBAU8".
func SpaceID(model ModelID, depth DepthID) string {
	return string(model) + string(depth)
}

// SpaceName returns a human readable colour space name.
func SpaceName(model ModelID, depth DepthID) string {
	return fmt.Sprintf("%s (%s)", model.Name(), depth.Name())
}

// Independence names the device independent formats which pixels can be
// converted to.
type Independence int

// These are the device independent target formats.
const (
	ToLab16 Independence = iota
	ToRGBA8
	ToRGBA16
)
