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

import (
	"fmt"
	"image/color"
	"strings"
)

// ValueType is the numeric encoding of a single channel value.
type ValueType int

// These are the supported channel value types.
const (
	UInt8 ValueType = iota + 1
	UInt16
	Float16
	Float32
)

// Size returns the number of bytes used to store one value.
// The result is 0 for invalid value types.
func (t ValueType) Size() int {
	switch t {
	case UInt8:
		return 1
	case UInt16, Float16:
		return 2
	case Float32:
		return 4
	default:
		return 0
	}
}

// IsFloat reports whether values of this type are floating point numbers.
func (t ValueType) IsFloat() bool {
	return t == Float16 || t == Float32
}

// Valid reports whether t is one of the supported value types.
func (t ValueType) Valid() bool {
	return t.Size() > 0
}

func (t ValueType) String() string {
	switch t {
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// ParseValueType converts a textual value type, as used in colour space
// descriptors, into a ValueType.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint8", "u8", "byte":
		return UInt8, nil
	case "uint16", "u16":
		return UInt16, nil
	case "float16", "f16", "half":
		return Float16, nil
	case "float32", "f32", "float":
		return Float32, nil
	}
	return 0, newConfigError(UnknownValueType, s, "")
}

// ChannelRole describes what a channel is used for.
type ChannelRole int

// These are the possible channel roles.
const (
	RoleColor ChannelRole = iota
	RoleAlpha
	RoleSubstance
	RoleSubstrate
)

func (r ChannelRole) String() string {
	switch r {
	case RoleColor:
		return "color"
	case RoleAlpha:
		return "alpha"
	case RoleSubstance:
		return "substance"
	case RoleSubstrate:
		return "substrate"
	default:
		return fmt.Sprintf("ChannelRole(%d)", int(r))
	}
}

// ParseChannelRole converts the textual form of a channel role back into
// a ChannelRole.
func ParseChannelRole(s string) (ChannelRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "color", "colour":
		return RoleColor, nil
	case "alpha":
		return RoleAlpha, nil
	case "substance":
		return RoleSubstance, nil
	case "substrate":
		return RoleSubstrate, nil
	}
	return 0, newConfigError(InvalidChannel, s, "unknown channel role")
}

// ChannelSpec is the input used to construct a [PixelFormat].
// The byte offset of the channel is computed from the channel indices.
type ChannelSpec struct {
	Name      string
	ShortName string
	Index     int
	Role      ChannelRole
	ValueType ValueType

	// Size is the number of bytes reserved for the channel.  If this is
	// zero, the size of the value type is used.  Larger values leave
	// padding after the channel value.
	Size int

	// DisplayColor is the colour used to show the channel in a user
	// interface.
	DisplayColor color.NRGBA
}

// ChannelInfo describes one channel of a pixel.
type ChannelInfo struct {
	Name         string
	ShortName    string
	Index        int
	Offset       int
	Role         ChannelRole
	ValueType    ValueType
	Size         int
	DisplayColor color.NRGBA
}

// IsAlpha reports whether the channel holds opacity information.
func (c ChannelInfo) IsAlpha() bool {
	return c.Role == RoleAlpha
}
