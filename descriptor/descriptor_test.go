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

package descriptor

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pigment"
)

const rgbaF32 = `
id: RGBAF32
model: RGBA
valueType: float32
name: RGB float
defaultProfile: sRGB built-in
hdr: true
channels:
  - {name: Red, short: R, index: 0, type: color, color: "#ff0000"}
  - {name: Green, short: G, index: 1, type: color, color: "#00ff00"}
  - {name: Blue, short: B, index: 2, type: color, color: "#0000ff"}
  - {name: Alpha, short: A, index: 3, type: alpha}
`

func TestFourFloatChannels(t *testing.T) {
	d, err := Parse([]byte(rgbaF32))
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.Format()
	if err != nil {
		t.Fatal(err)
	}
	if f.PixelSize() != 16 {
		t.Errorf("pixel size = %d, want 16", f.PixelSize())
	}
	if f.AlphaOffset() != 12 {
		t.Errorf("alpha offset = %d, want 12", f.AlphaOffset())
	}
	if f.ColorChannelCount() != 3 {
		t.Errorf("colour channels = %d, want 3", f.ColorChannelCount())
	}
	depth, err := d.DepthID()
	if err != nil {
		t.Fatal(err)
	}
	if depth != pigment.DepthF32 {
		t.Errorf("depth = %s, want F32", depth)
	}
	red, _ := f.ChannelByShortName("R")
	if d := cmp.Diff(color.NRGBA{R: 255, A: 255}, red.DisplayColor); d != "" {
		t.Errorf("display colour (-want +got):\n%s", d)
	}
}

func TestExplicitDepth(t *testing.T) {
	src := `
id: GRAYAU16
model: GRAYA
depth: U16
channels:
  - {name: Gray, short: Y, index: 0, type: color}
  - {name: Alpha, short: A, index: 1, type: alpha}
`
	d, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	f := must(d.Format())
	if f.PixelSize() != 4 || f.AlphaOffset() != 2 {
		t.Errorf("got size %d, alpha offset %d", f.PixelSize(), f.AlphaOffset())
	}
}

func TestReorderedChannels(t *testing.T) {
	// BGRA byte order, listed in a different order than stored
	src := `
id: RGBAU8
model: RGBA
valueType: uint8
bits: 8
channels:
  - {name: Red, short: R, index: 2, type: color}
  - {name: Alpha, short: A, index: 3, type: alpha}
  - {name: Green, short: G, index: 1, type: color}
  - {name: Blue, short: B, index: 0, type: color}
`
	f := must(must(Parse([]byte(src))).Format())
	var got []string
	for _, c := range f.Channels() {
		got = append(got, c.ShortName)
	}
	if d := cmp.Diff([]string{"B", "G", "R", "A"}, got); d != "" {
		t.Errorf("channel order (-want +got):\n%s", d)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind pigment.ConfigErrorKind
	}{
		{"unknown field", "id: X\nmodel: RGBA\ncolour: red\n", pigment.InvalidDescriptor},
		{"missing id", "model: RGBA\nvalueType: uint8\nchannels: [{name: A, short: A, index: 0, type: alpha}]\n", pigment.InvalidDescriptor},
		{"unknown model", "id: X\nmodel: HSV\nvalueType: uint8\nchannels: [{name: A, short: A, index: 0, type: alpha}]\n", pigment.UnknownModel},
		{"bad bits", "id: X\nmodel: A\nvalueType: uint8\nbits: 12\nchannels: [{name: A, short: A, index: 0, type: alpha}]\n", pigment.UnknownValueType},
		{"hdr integer", "id: X\nmodel: A\nvalueType: uint16\nhdr: true\nchannels: [{name: A, short: A, index: 0, type: alpha}]\n", pigment.InvalidDescriptor},
		{"two alphas", "id: X\nmodel: A\ndepth: U8\nchannels: [{name: A, short: A, index: 0, type: alpha}, {name: B, short: B, index: 1, type: alpha}]\n", pigment.DuplicateAlpha},
		{"duplicate index", "id: X\nmodel: A\ndepth: U8\nchannels: [{name: A, short: A, index: 0, type: alpha}, {name: B, short: B, index: 0, type: color}]\n", pigment.DuplicateIndex},
		{"bad colour", "id: X\nmodel: A\ndepth: U8\nchannels: [{name: A, short: A, index: 0, type: alpha, color: red}]\n", pigment.InvalidChannel},
		{"empty", "", pigment.InvalidDescriptor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			if !errors.Is(err, pigment.ErrConfig) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if !errors.Is(err, &pigment.ConfigError{Kind: tc.kind}) {
				t.Errorf("got %v, want kind %s", err, tc.kind)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgbaf32.yaml")
	if err := os.WriteFile(path, []byte(rgbaF32), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	data, err := d.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	d2, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d, d2); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func must[T any](x T, err error) T {
	if err != nil {
		panic(err)
	}
	return x
}

func FuzzParse(f *testing.F) {
	f.Add([]byte(rgbaF32))
	f.Add([]byte("id: X\nmodel: GRAYA\ndepth: U8\nchannels: [{short: Y}, {short: A, type: alpha}]\n"))
	f.Add([]byte("id: X\nmodel: RGBA\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		d1, err := Parse(data)
		if err != nil {
			if !errors.Is(err, pigment.ErrConfig) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		f1, err := d1.Format()
		if err != nil {
			t.Fatal(err)
		}

		out, err := d1.Marshal()
		if err != nil {
			t.Fatal(err)
		}
		d2, err := Parse(out)
		if err != nil {
			t.Fatalf("re-parse: %v\n%s", err, out)
		}
		f2, err := d2.Format()
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(f1.Channels(), f2.Channels()); d != "" {
			t.Errorf("round trip changed the channels (-before +after):\n%s", d)
		}
	})
}
