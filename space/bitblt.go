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
	"seehuhn.de/go/pigment"
)

// BitBlt implements the [pigment.ColorSpace] interface.
//
// If the source pixels use a different colour space, they are first
// converted into the scratch buffer given in p.  When p.Scratch is nil,
// a temporary buffer is allocated for the call.
func (s *Space[T, E]) BitBlt(p *pigment.BlitParams) error {
	if p == nil {
		return pigment.ErrInvalidArgument
	}
	if p.SrcSpace == nil {
		return pigment.ErrNilColorSpace
	}

	op := p.Composite
	if op == nil {
		id := p.Op
		if id == "" {
			id = pigment.OpOver
		}
		var ok bool
		op, ok = s.CompositeOp(id)
		if !ok {
			return pigment.ErrInvalidOp
		}
	} else if cs := op.ColorSpace(); cs == nil || !cs.Equal(s) {
		return pigment.ErrIncompatibleSpace
	}

	cp := &pigment.CompositeParams{
		Dst:          p.Dst,
		DstStride:    p.DstStride,
		Src:          p.Src,
		SrcStride:    p.SrcStride,
		Mask:         p.Mask,
		MaskStride:   p.MaskStride,
		Rows:         p.Rows,
		Cols:         p.Cols,
		Opacity:      p.Opacity,
		ChannelFlags: p.ChannelFlags,
	}
	if p.Rows <= 0 || p.Cols <= 0 || p.SrcSpace.Equal(s) {
		return op.Composite(cp)
	}

	srcRows := p.Rows
	if p.SrcStride == 0 {
		srcRows = 1
	}
	rowBytes := p.Cols * s.size

	scratch := p.Scratch
	if scratch == nil {
		scratch = &pigment.Scratch{}
	}
	buf, err := scratch.Bytes(srcRows * rowBytes)
	if err != nil {
		return err
	}

	for r := range srcRows {
		start := r * p.SrcStride
		if start > len(p.Src) {
			return pigment.ErrShortBuffer
		}
		err := p.SrcSpace.ConvertPixelsTo(p.Src[start:], buf[r*rowBytes:(r+1)*rowBytes],
			s, p.Cols, p.Intent, p.Flags)
		if err != nil {
			return err
		}
	}

	cp.Src = buf
	if p.SrcStride != 0 {
		cp.SrcStride = rowBytes
	}
	return op.Composite(cp)
}
