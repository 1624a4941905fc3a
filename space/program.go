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
	"sync"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/pixelprog"
)

// ProgramOp is a compositing operation given by a pixel program.
//
// For every pixel, the program receives the destination colour in device
// units followed by the destination opacity, then the source colour and
// opacity, and finally the effective opacity of the operation (the product
// of the opacity parameter and the mask value).  All opacities are in the
// range [0, 1].  The program must leave the new destination colour and
// opacity on the stack.
//
// For example, the following program for an RGB colour space keeps the
// destination colour and uses the larger of the two opacities:
//
//	% dr dg db da sr sg sb sa o
//	pop 4 1 roll pop pop pop max
type ProgramOp struct {
	cs       pigment.ColorSpace
	id       pigment.CompositeOpID
	desc     string
	category string
	prog     *pixelprog.Program

	machines sync.Pool
}

// NewProgramOp compiles a compositing operation for the colour space cs.
// An error is returned if the program cannot be compiled.
func NewProgramOp(cs pigment.ColorSpace, id pigment.CompositeOpID, desc, src string) (*ProgramOp, error) {
	if cs == nil {
		return nil, pigment.ErrNilColorSpace
	}
	if id == "" {
		return nil, pigment.ErrInvalidArgument
	}
	n := cs.ColorChannelCount()
	prog, err := pixelprog.Compile(src, 2*(n+1)+1, n+1)
	if err != nil {
		return nil, err
	}
	op := &ProgramOp{
		cs:       cs,
		id:       id,
		desc:     desc,
		category: pigment.CategoryMisc,
		prog:     prog,
	}
	op.machines.New = func() any { return new(pixelprog.Machine) }
	return op, nil
}

func (op *ProgramOp) ID() pigment.CompositeOpID      { return op.id }
func (op *ProgramOp) Description() string            { return op.desc }
func (op *ProgramOp) Category() string               { return op.category }
func (op *ProgramOp) UserVisible() bool              { return true }
func (op *ProgramOp) ColorSpace() pigment.ColorSpace { return op.cs }

// Composite implements the [pigment.CompositeOp] interface.
// Channel flags are not supported; if given, they must select all
// channels.
func (op *ProgramOp) Composite(p *pigment.CompositeParams) error {
	size := op.cs.PixelSize()
	if err := p.Check(size, op.cs.ChannelCount()); err != nil {
		return err
	}
	for _, f := range p.ChannelFlags {
		if !f {
			return pigment.ErrInvalidArgument
		}
	}

	m := op.machines.Get().(*pixelprog.Machine)
	defer op.machines.Put(m)

	n := op.cs.ColorChannelCount()
	in := make([]float64, 2*(n+1)+1)
	out := make([]float64, n+1)
	opacity := float64(p.Opacity) / 255

	for r := range p.Rows {
		dstRow := p.Dst[r*p.DstStride:]
		srcRow := p.Src[r*p.SrcStride:]
		for c := range p.Cols {
			dst := dstRow[c*size:]
			src := srcRow[c*size:]

			dstA, err := op.cs.DecodePixel(dst, in[:n])
			if err != nil {
				return err
			}
			in[n] = dstA
			srcA, err := op.cs.DecodePixel(src, in[n+1:2*n+1])
			if err != nil {
				return err
			}
			in[2*n+1] = srcA
			eff := opacity
			if p.Mask != nil {
				eff *= float64(p.Mask[r*p.MaskStride+c]) / 255
			}
			in[2*n+2] = eff

			if err := m.Run(op.prog, in, out); err != nil {
				return err
			}
			if err := op.cs.EncodePixel(dst, out[:n], min(max(out[n], 0), 1)); err != nil {
				return err
			}
		}
	}
	return nil
}
