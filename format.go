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
	"slices"
)

// NoAlpha is returned by [PixelFormat.AlphaOffset] and
// [PixelFormat.AlphaIndex] for formats without an alpha channel.
const NoAlpha = -1

// PixelFormat describes the byte layout of one pixel.
//
// Channels are stored in the order of their indices.  The offset of every
// channel is the sum of the sizes of the channels with smaller index.
// PixelFormat values are immutable once constructed.
type PixelFormat struct {
	channels    []ChannelInfo
	pixelSize   int
	alphaIndex  int
	alphaOffset int
	colorCount  int
}

// NewPixelFormat validates the given channel descriptions and computes the
// channel offsets.
func NewPixelFormat(specs ...ChannelSpec) (*PixelFormat, error) {
	if len(specs) == 0 {
		return nil, newConfigError(InvalidChannel, "", "no channels")
	}

	sorted := slices.Clone(specs)
	slices.SortStableFunc(sorted, func(a, b ChannelSpec) int {
		return a.Index - b.Index
	})

	f := &PixelFormat{
		channels:    make([]ChannelInfo, 0, len(sorted)),
		alphaIndex:  NoAlpha,
		alphaOffset: NoAlpha,
	}
	offset := 0
	for i, spec := range sorted {
		if spec.Index < 0 {
			return nil, newConfigError(InvalidChannel, spec.Name, "negative index %d", spec.Index)
		}
		if i > 0 && sorted[i-1].Index == spec.Index {
			return nil, newConfigError(DuplicateIndex, spec.Name, "index %d", spec.Index)
		}
		if !spec.ValueType.Valid() {
			return nil, newConfigError(UnknownValueType, spec.Name, "%s", spec.ValueType)
		}
		size := spec.Size
		if size == 0 {
			size = spec.ValueType.Size()
		}
		if size < spec.ValueType.Size() {
			return nil, newConfigError(InvalidChannel, spec.Name,
				"size %d too small for %s", size, spec.ValueType)
		}

		info := ChannelInfo{
			Name:         spec.Name,
			ShortName:    spec.ShortName,
			Index:        spec.Index,
			Offset:       offset,
			Role:         spec.Role,
			ValueType:    spec.ValueType,
			Size:         size,
			DisplayColor: spec.DisplayColor,
		}
		switch spec.Role {
		case RoleAlpha:
			if f.alphaIndex != NoAlpha {
				return nil, newConfigError(DuplicateAlpha, spec.Name, "")
			}
			f.alphaIndex = len(f.channels)
			f.alphaOffset = offset
		case RoleColor:
			f.colorCount++
		}
		f.channels = append(f.channels, info)
		offset += size
	}
	f.pixelSize = offset

	return f, nil
}

// PixelSize returns the number of bytes used to store one pixel.
func (f *PixelFormat) PixelSize() int {
	return f.pixelSize
}

// ChannelCount returns the total number of channels, including alpha.
func (f *PixelFormat) ChannelCount() int {
	return len(f.channels)
}

// ColorChannelCount returns the number of channels with [RoleColor].
func (f *PixelFormat) ColorChannelCount() int {
	return f.colorCount
}

// Channels returns a copy of the channel descriptions, in index order.
func (f *PixelFormat) Channels() []ChannelInfo {
	return slices.Clone(f.channels)
}

// Channel returns the i-th channel, counting in index order.
func (f *PixelFormat) Channel(i int) (ChannelInfo, error) {
	if i < 0 || i >= len(f.channels) {
		return ChannelInfo{}, ErrChannelIndex
	}
	return f.channels[i], nil
}

// ChannelByShortName looks up a channel by its short name.
func (f *PixelFormat) ChannelByShortName(name string) (ChannelInfo, bool) {
	for _, c := range f.channels {
		if c.ShortName == name {
			return c, true
		}
	}
	return ChannelInfo{}, false
}

// HasAlpha reports whether the format has an alpha channel.
func (f *PixelFormat) HasAlpha() bool {
	return f.alphaIndex != NoAlpha
}

// AlphaIndex returns the position of the alpha channel in [PixelFormat.Channels],
// or [NoAlpha].
func (f *PixelFormat) AlphaIndex() int {
	return f.alphaIndex
}

// AlphaOffset returns the byte offset of the alpha channel, or [NoAlpha].
func (f *PixelFormat) AlphaOffset() int {
	return f.alphaOffset
}

// ValueType returns the value type shared by all channels.
// If the channels use different value types, 0 is returned.
func (f *PixelFormat) ValueType() ValueType {
	vt := f.channels[0].ValueType
	for _, c := range f.channels[1:] {
		if c.ValueType != vt {
			return 0
		}
	}
	return vt
}

// Check verifies that buf is large enough to hold n pixels.
func (f *PixelFormat) Check(buf []byte, n int) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	if len(buf) < n*f.pixelSize {
		return ErrShortBuffer
	}
	return nil
}
