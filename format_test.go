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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpApprox = cmpopts.EquateApprox(0, 1e-4)

func TestPixelFormatOffsets(t *testing.T) {
	f, err := NewPixelFormat(
		ChannelSpec{Name: "Alpha", ShortName: "A", Index: 3, Role: RoleAlpha, ValueType: Float32},
		ChannelSpec{Name: "Red", ShortName: "R", Index: 0, ValueType: Float32},
		ChannelSpec{Name: "Green", ShortName: "G", Index: 1, ValueType: Float32},
		ChannelSpec{Name: "Blue", ShortName: "B", Index: 2, ValueType: Float32},
	)
	if err != nil {
		t.Fatal(err)
	}

	if f.PixelSize() != 16 {
		t.Errorf("PixelSize() = %d, want 16", f.PixelSize())
	}
	if f.AlphaOffset() != 12 {
		t.Errorf("AlphaOffset() = %d, want 12", f.AlphaOffset())
	}
	if f.ColorChannelCount() != 3 {
		t.Errorf("ColorChannelCount() = %d, want 3", f.ColorChannelCount())
	}

	var offsets []int
	var names []string
	for _, c := range f.Channels() {
		offsets = append(offsets, c.Offset)
		names = append(names, c.ShortName)
	}
	if d := cmp.Diff([]int{0, 4, 8, 12}, offsets); d != "" {
		t.Errorf("offsets (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"R", "G", "B", "A"}, names); d != "" {
		t.Errorf("channel order (-want +got):\n%s", d)
	}
	if f.ValueType() != Float32 {
		t.Errorf("ValueType() = %s", f.ValueType())
	}
}

func TestPixelFormatPadding(t *testing.T) {
	f, err := NewPixelFormat(
		ChannelSpec{Name: "Gray", ShortName: "Y", Index: 0, ValueType: UInt8, Size: 2},
		ChannelSpec{Name: "Alpha", ShortName: "A", Index: 1, Role: RoleAlpha, ValueType: UInt8},
	)
	if err != nil {
		t.Fatal(err)
	}
	if f.PixelSize() != 3 || f.AlphaOffset() != 2 {
		t.Errorf("got size %d, alpha offset %d", f.PixelSize(), f.AlphaOffset())
	}
}

func TestPixelFormatErrors(t *testing.T) {
	cases := []struct {
		desc  string
		specs []ChannelSpec
		want  ConfigErrorKind
	}{
		{
			desc: "two alpha channels",
			specs: []ChannelSpec{
				{Name: "A1", Index: 0, Role: RoleAlpha, ValueType: UInt8},
				{Name: "A2", Index: 1, Role: RoleAlpha, ValueType: UInt8},
			},
			want: DuplicateAlpha,
		},
		{
			desc: "unknown value type",
			specs: []ChannelSpec{
				{Name: "X", Index: 0, ValueType: ValueType(17)},
			},
			want: UnknownValueType,
		},
		{
			desc: "duplicate index",
			specs: []ChannelSpec{
				{Name: "X", Index: 1, ValueType: UInt8},
				{Name: "Y", Index: 1, ValueType: UInt8},
			},
			want: DuplicateIndex,
		},
		{
			desc: "channel too small",
			specs: []ChannelSpec{
				{Name: "X", Index: 0, ValueType: Float32, Size: 2},
			},
			want: InvalidChannel,
		},
		{
			desc: "no channels",
			want: InvalidChannel,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := NewPixelFormat(c.specs...)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if !errors.Is(err, &ConfigError{Kind: c.want}) {
				t.Errorf("got %v, want kind %s", err, c.want)
			}
		})
	}
}

func TestChannelLookup(t *testing.T) {
	f, err := NewPixelFormat(
		ChannelSpec{Name: "Gray", ShortName: "Y", Index: 0, ValueType: UInt16},
	)
	if err != nil {
		t.Fatal(err)
	}
	if f.HasAlpha() || f.AlphaOffset() != NoAlpha {
		t.Error("format should not have alpha")
	}
	if _, err := f.Channel(1); !errors.Is(err, ErrChannelIndex) {
		t.Errorf("Channel(1): got %v", err)
	}
	c, ok := f.ChannelByShortName("Y")
	if !ok || c.Size != 2 {
		t.Errorf("ChannelByShortName: %v %v", c, ok)
	}
	if err := f.Check(make([]byte, 3), 2); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Check: got %v", err)
	}
}

func TestScratchLimit(t *testing.T) {
	s := &Scratch{Limit: 100}
	buf, err := s.Bytes(64)
	if err != nil || len(buf) != 64 {
		t.Fatalf("Bytes(64) = %d, %v", len(buf), err)
	}
	_, err = s.Bytes(101)
	var allocErr *AllocationError
	if !errors.As(err, &allocErr) {
		t.Fatalf("expected allocation error, got %v", err)
	}
	if allocErr.Requested != 101 || allocErr.Limit != 100 {
		t.Errorf("unexpected error %v", allocErr)
	}
}

func TestTransferCurve(t *testing.T) {
	id := IdentityCurve(5)
	for _, x := range []float64{0, 0.1, 0.5, 0.77, 1} {
		if y := id.Eval(x); y < x-1e-4 || y > x+1e-4 {
			t.Errorf("identity(%g) = %g", x, y)
		}
	}

	inv := TransferCurve{0xffff, 0}
	if y := inv.Eval(0.25); y < 0.749 || y > 0.751 {
		t.Errorf("inverted(0.25) = %g", y)
	}
	if y := TransferCurve(nil).Eval(0.3); y != 0.3 {
		t.Errorf("empty curve changed value: %g", y)
	}
}

func TestParseValueType(t *testing.T) {
	for _, s := range []string{"uint8", "U16", "half", "float32"} {
		if _, err := ParseValueType(s); err != nil {
			t.Errorf("%q: %v", s, err)
		}
	}
	if _, err := ParseValueType("int7"); !errors.Is(err, &ConfigError{Kind: UnknownValueType}) {
		t.Errorf("expected UnknownValueType error, got %v", err)
	}
}

func TestDisplayColorOf(t *testing.T) {
	c, alpha := DisplayColorOf(DisplayColor{R: 1, G: 0.5, B: 0})
	if alpha != 1 {
		t.Errorf("alpha = %g", alpha)
	}
	if d := cmp.Diff(DisplayColor{R: 1, G: 0.5, B: 0}, c, cmpApprox); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}
