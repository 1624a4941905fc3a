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

// CompositeOpID identifies a compositing operation.
type CompositeOpID string

// These are the standard compositing operations.
const (
	OpOver        CompositeOpID = "normal"
	OpCopy        CompositeOpID = "copy"
	OpClear       CompositeOpID = "clear"
	OpErase       CompositeOpID = "erase"
	OpSubtract    CompositeOpID = "alpha_subtract"
	OpAlphaDarken CompositeOpID = "alphadarken"

	OpMultiply    CompositeOpID = "multiply"
	OpScreen      CompositeOpID = "screen"
	OpOverlay     CompositeOpID = "overlay"
	OpDarken      CompositeOpID = "darken"
	OpLighten     CompositeOpID = "lighten"
	OpDodge       CompositeOpID = "dodge"
	OpBurn        CompositeOpID = "burn"
	OpHardLight   CompositeOpID = "hard_light"
	OpSoftLight   CompositeOpID = "soft_light"
	OpDifference  CompositeOpID = "diff"
	OpExclusion   CompositeOpID = "exclusion"
	OpAdd         CompositeOpID = "add"
	OpSubtractCol CompositeOpID = "subtract"
	OpDivide      CompositeOpID = "divide"

	OpHue        CompositeOpID = "hue"
	OpSaturation CompositeOpID = "saturation"
	OpColor      CompositeOpID = "color"
	OpLuminosity CompositeOpID = "luminize"
)

// Categories for compositing operations.
const (
	CategoryMix        = "mix"
	CategoryArithmetic = "arithmetic"
	CategoryDark       = "dark"
	CategoryLight      = "light"
	CategoryHSL        = "hsl"
	CategoryMisc       = "misc"
)

// CompositeOp combines source pixels into destination pixels.
// A CompositeOp is bound to the colour space which created it.
type CompositeOp interface {
	ID() CompositeOpID
	Description() string
	Category() string
	UserVisible() bool
	ColorSpace() ColorSpace

	// Composite applies the operation to a rectangle of pixels.
	Composite(p *CompositeParams) error
}

// CompositeParams describes a rectangle of pixels for a [CompositeOp].
//
// All strides are in bytes.  If SrcStride is zero, the first source row is
// used for every destination row.  The optional mask holds one byte per
// pixel.  ChannelFlags, if non-nil, selects the channels (in index order)
// which may be modified.
type CompositeParams struct {
	Dst       []byte
	DstStride int

	Src       []byte
	SrcStride int

	Mask       []byte
	MaskStride int

	Rows, Cols int
	Opacity    uint8

	ChannelFlags []bool
}

// Check verifies that the buffers in p are large enough for pixels of the
// given size.
func (p *CompositeParams) Check(pixelSize, channels int) error {
	if p.Rows < 0 || p.Cols < 0 || p.DstStride < 0 || p.SrcStride < 0 || p.MaskStride < 0 {
		return ErrInvalidArgument
	}
	if p.Rows == 0 || p.Cols == 0 {
		return nil
	}
	rowBytes := p.Cols * pixelSize
	if p.DstStride < rowBytes && p.Rows > 1 {
		return ErrInvalidArgument
	}
	if len(p.Dst) < (p.Rows-1)*p.DstStride+rowBytes {
		return ErrShortBuffer
	}
	if len(p.Src) < (p.Rows-1)*p.SrcStride+rowBytes {
		return ErrShortBuffer
	}
	if p.Mask != nil && len(p.Mask) < (p.Rows-1)*p.MaskStride+p.Cols {
		return ErrShortBuffer
	}
	if p.ChannelFlags != nil && len(p.ChannelFlags) != channels {
		return ErrInvalidArgument
	}
	return nil
}

// BlitParams describes a call to [ColorSpace.BitBlt].
type BlitParams struct {
	Dst       []byte
	DstStride int

	SrcSpace  ColorSpace
	Src       []byte
	SrcStride int

	Mask       []byte
	MaskStride int

	Rows, Cols int
	Opacity    uint8

	// Op selects the compositing operation of the destination colour
	// space.  If Composite is set, it is used instead.
	Op        CompositeOpID
	Composite CompositeOp

	ChannelFlags []bool

	Intent RenderingIntent
	Flags  ConversionFlags

	// Scratch provides the memory for converted source pixels.  If this
	// is nil, a temporary buffer limited to [DefaultScratchLimit] bytes is
	// used.
	Scratch *Scratch
}

// DefaultScratchLimit is the maximal scratch buffer size used when no
// explicit limit is set.
const DefaultScratchLimit = 256 << 20

// Scratch is a reusable buffer for temporary pixel data.
// A Scratch must not be used by more than one goroutine at a time.
type Scratch struct {
	buf []byte

	// Limit is the maximal number of bytes the buffer may grow to.
	// If this is zero, DefaultScratchLimit is used.
	Limit int
}

// Bytes returns a buffer of length n.  The contents of the buffer are
// unspecified.
func (s *Scratch) Bytes(n int) ([]byte, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultScratchLimit
	}
	if n < 0 || n > limit {
		return nil, &AllocationError{Requested: n, Limit: limit}
	}
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	return s.buf[:n], nil
}
