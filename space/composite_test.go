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

package space

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/profile"
)

// composite runs op on a single pixel.
func composite(t *testing.T, cs pigment.ColorSpace, id pigment.CompositeOpID, dst, src []byte, opacity uint8, mask []byte) {
	t.Helper()
	op, ok := cs.CompositeOp(id)
	if !ok {
		t.Fatalf("%s: no op %q", cs.ID(), id)
	}
	err := op.Composite(&pigment.CompositeParams{
		Dst:  dst,
		Src:  src,
		Mask: mask,
		Rows: 1,
		Cols: 1,

		Opacity: opacity,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func closeBytes(a, b []byte, tol int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if d := int(a[i]) - int(b[i]); d < -tol || d > tol {
			return false
		}
	}
	return true
}

func TestOverRGBA8(t *testing.T) {
	s := rgb8(t)
	dst := []byte{255, 0, 0, 255} // opaque blue
	src := []byte{0, 0, 255, 128} // half transparent red
	composite(t, s, pigment.OpOver, dst, src, 255, nil)

	want := []byte{128, 0, 128, 255}
	if !closeBytes(dst, want, 1) {
		t.Errorf("got %v, want %v", dst, want)
	}
}

func TestOverAlpha8(t *testing.T) {
	s := alpha8(t)
	for _, d := range []byte{0, 1, 77, 200, 255} {
		dst := []byte{d}
		composite(t, s, pigment.OpOver, dst, []byte{255}, 255, nil)
		if dst[0] != 255 {
			t.Errorf("opaque source over %d: got %d", d, dst[0])
		}

		dst = []byte{d}
		composite(t, s, pigment.OpOver, dst, []byte{0}, 255, nil)
		if dst[0] != d {
			t.Errorf("transparent source over %d: got %d", d, dst[0])
		}
	}
}

func TestOverTransparentDestination(t *testing.T) {
	s := rgb8(t)
	dst := []byte{9, 9, 9, 0}
	src := []byte{10, 20, 30, 100}
	composite(t, s, pigment.OpOver, dst, src, 255, nil)
	if d := cmp.Diff(src, dst); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestOverMaskAndOpacity(t *testing.T) {
	s := rgb8(t)
	dst := []byte{0, 0, 0, 255}
	src := []byte{255, 255, 255, 255}
	composite(t, s, pigment.OpOver, dst, src, 255, []byte{0})
	if d := cmp.Diff([]byte{0, 0, 0, 255}, dst); d != "" {
		t.Errorf("zero mask changed pixel (-want +got):\n%s", d)
	}
	composite(t, s, pigment.OpOver, dst, src, 0, nil)
	if d := cmp.Diff([]byte{0, 0, 0, 255}, dst); d != "" {
		t.Errorf("zero opacity changed pixel (-want +got):\n%s", d)
	}
}

func TestPorterDuff(t *testing.T) {
	s := rgb8(t)
	tests := []struct {
		op       pigment.CompositeOpID
		dst, src []byte
		opacity  uint8
		mask     []byte
		want     []byte
	}{
		{pigment.OpCopy, []byte{1, 2, 3, 4}, []byte{5, 6, 7, 200}, 255, nil, []byte{5, 6, 7, 200}},
		{pigment.OpCopy, []byte{1, 2, 3, 4}, []byte{5, 6, 7, 200}, 128, nil, []byte{5, 6, 7, 100}},
		{pigment.OpClear, []byte{1, 2, 3, 4}, []byte{5, 6, 7, 8}, 255, nil, []byte{1, 2, 3, 0}},
		{pigment.OpClear, []byte{1, 2, 3, 4}, []byte{5, 6, 7, 8}, 255, []byte{0}, []byte{1, 2, 3, 4}},
		{pigment.OpErase, []byte{1, 2, 3, 200}, []byte{0, 0, 0, 50}, 255, nil, []byte{1, 2, 3, 50}},
		{pigment.OpErase, []byte{1, 2, 3, 20}, []byte{0, 0, 0, 50}, 255, nil, []byte{1, 2, 3, 20}},
		{pigment.OpErase, []byte{1, 2, 3, 200}, []byte{0, 0, 0, 0}, 0, nil, []byte{1, 2, 3, 200}},
		{pigment.OpSubtract, []byte{1, 2, 3, 200}, []byte{0, 0, 0, 50}, 255, nil, []byte{1, 2, 3, 150}},
		{pigment.OpSubtract, []byte{1, 2, 3, 20}, []byte{0, 0, 0, 50}, 255, nil, []byte{1, 2, 3, 1}},
		{pigment.OpSubtract, []byte{1, 2, 3, 0}, []byte{0, 0, 0, 50}, 255, nil, []byte{1, 2, 3, 0}},
	}
	for _, tc := range tests {
		dst := append([]byte(nil), tc.dst...)
		composite(t, s, tc.op, dst, tc.src, tc.opacity, tc.mask)
		if d := cmp.Diff(tc.want, dst); d != "" {
			t.Errorf("%s %v onto %v (-want +got):\n%s", tc.op, tc.src, tc.dst, d)
		}
	}
}

func TestChannelFlags(t *testing.T) {
	s := rgb8(t)
	op, _ := s.CompositeOp(pigment.OpCopy)
	dst := []byte{1, 2, 3, 4}
	err := op.Composite(&pigment.CompositeParams{
		Dst:     dst,
		Src:     []byte{10, 20, 30, 40},
		Rows:    1,
		Cols:    1,
		Opacity: 255,

		// blue and alpha are locked
		ChannelFlags: []bool{false, true, true, false},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{1, 20, 30, 4}, dst); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	err = op.Composite(&pigment.CompositeParams{
		Dst:          dst,
		Src:          dst,
		Rows:         1,
		Cols:         1,
		ChannelFlags: []bool{true},
	})
	if !errors.Is(err, pigment.ErrInvalidArgument) {
		t.Errorf("wrong number of flags: got %v", err)
	}
}

func TestBlendModes(t *testing.T) {
	s := rgb8(t)
	opaque := func(v byte) []byte { return []byte{v, v, v, 255} }
	tests := []struct {
		op   pigment.CompositeOpID
		dst  byte
		src  byte
		want byte
	}{
		{pigment.OpMultiply, 128, 128, 64},
		{pigment.OpScreen, 0, 255, 255},
		{pigment.OpDarken, 100, 50, 50},
		{pigment.OpLighten, 100, 50, 100},
		{pigment.OpDifference, 100, 30, 70},
		{pigment.OpAdd, 200, 100, 255},
		{pigment.OpSubtractCol, 200, 50, 150},
	}
	for _, tc := range tests {
		dst := opaque(tc.dst)
		composite(t, s, tc.op, dst, opaque(tc.src), 255, nil)
		if !closeBytes(dst, opaque(tc.want), 1) {
			t.Errorf("%s(%d, %d) = %v, want %d", tc.op, tc.src, tc.dst, dst, tc.want)
		}
	}
}

func TestOpTables(t *testing.T) {
	rgb := rgb8(t)
	if _, ok := rgb.CompositeOp(pigment.OpHue); !ok {
		t.Error("RGB lacks hue blending")
	}
	cmyk := newSpace[uint8, pixel.U8](t, pigment.ModelCMYKA, nil)
	if _, ok := cmyk.CompositeOp(pigment.OpHue); ok {
		t.Error("CMYK has hue blending")
	}
	a := alpha8(t)
	if _, ok := a.CompositeOp(pigment.OpMultiply); ok {
		t.Error("alpha space has colour blending")
	}
	for _, op := range rgb.UserVisibleCompositeOps() {
		if !op.UserVisible() {
			t.Errorf("%s is not user visible", op.ID())
		}
		if !op.ColorSpace().Equal(rgb) {
			t.Errorf("%s belongs to %s", op.ID(), op.ColorSpace())
		}
	}
	if _, ok := rgb.CompositeOp("no such op"); ok {
		t.Error("unknown op found")
	}
}

func TestHSLBlends(t *testing.T) {
	s := rgb8(t)
	dst := []byte{0, 0, 200, 255} // red
	src := []byte{200, 0, 0, 255} // blue
	composite(t, s, pigment.OpLuminosity, dst, src, 255, nil)
	if dst[3] != 255 {
		t.Errorf("alpha changed: %v", dst)
	}
	if dst[2] <= dst[0] {
		t.Errorf("luminosity blend lost the hue: %v", dst)
	}
}

func TestBitBltConvert(t *testing.T) {
	dstSpace := rgb8(t)
	srcSpace := newSpace[uint16, pixel.U16](t, pigment.ModelRGBA, profile.SRGB())

	const rows, cols = 2, 3
	src := make([]byte, rows*cols*8)
	var u16 pixel.U16
	for i := range rows * cols {
		u16.Store(src[i*8:], 0x0000)   // blue
		u16.Store(src[i*8+2:], 0x8080) // green
		u16.Store(src[i*8+4:], 0xffff) // red
		u16.Store(src[i*8+6:], 0xffff) // alpha
	}
	dst := make([]byte, rows*cols*4)
	scratch := &pigment.Scratch{}
	err := dstSpace.BitBlt(&pigment.BlitParams{
		Dst:       dst,
		DstStride: cols * 4,
		SrcSpace:  srcSpace,
		Src:       src,
		SrcStride: cols * 8,
		Rows:      rows,
		Cols:      cols,
		Opacity:   255,
		Scratch:   scratch,
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := range rows * cols {
		if !closeBytes(dst[i*4:i*4+4], []byte{0, 128, 255, 255}, 1) {
			t.Errorf("pixel %d: %v", i, dst[i*4:i*4+4])
		}
	}

	// a scratch buffer which is too small
	err = dstSpace.BitBlt(&pigment.BlitParams{
		Dst:       dst,
		DstStride: cols * 4,
		SrcSpace:  srcSpace,
		Src:       src,
		SrcStride: cols * 8,
		Rows:      rows,
		Cols:      cols,
		Opacity:   255,
		Scratch:   &pigment.Scratch{Limit: 3},
	})
	var aErr *pigment.AllocationError
	if !errors.As(err, &aErr) {
		t.Errorf("expected allocation error, got %v", err)
	}
}

func TestBitBltErrors(t *testing.T) {
	s := rgb8(t)
	buf := make([]byte, 4)
	if err := s.BitBlt(nil); !errors.Is(err, pigment.ErrInvalidArgument) {
		t.Errorf("nil params: got %v", err)
	}
	p := &pigment.BlitParams{Dst: buf, Src: buf, Rows: 1, Cols: 1}
	if err := s.BitBlt(p); !errors.Is(err, pigment.ErrNilColorSpace) {
		t.Errorf("nil source space: got %v", err)
	}
	p.SrcSpace = s
	p.Op = "no such op"
	if err := s.BitBlt(p); !errors.Is(err, pigment.ErrInvalidOp) {
		t.Errorf("unknown op: got %v", err)
	}
	p.Op = ""
	p.Composite, _ = alpha8(t).CompositeOp(pigment.OpOver)
	if err := s.BitBlt(p); !errors.Is(err, pigment.ErrIncompatibleSpace) {
		t.Errorf("foreign op: got %v", err)
	}
}
