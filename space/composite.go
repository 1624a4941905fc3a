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
	"math"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/internal/colconv"
	"seehuhn.de/go/pigment/pixel"
)

// opArgs holds the per-call parameters of a compositing operation.
type opArgs[T any] struct {
	opacity T
	mask    T
	hasMask bool

	flags       []bool
	alphaLocked bool
}

// compositeOp is a compositing operation bound to one colour space.
type compositeOp[T any, E pixel.Encoding[T]] struct {
	s        *Space[T, E]
	id       pigment.CompositeOpID
	desc     string
	category string
	visible  bool

	// fn combines one source pixel into one destination pixel.
	fn func(dst, src []byte, a *opArgs[T])
}

func (op *compositeOp[T, E]) ID() pigment.CompositeOpID      { return op.id }
func (op *compositeOp[T, E]) Description() string            { return op.desc }
func (op *compositeOp[T, E]) Category() string               { return op.category }
func (op *compositeOp[T, E]) UserVisible() bool              { return op.visible }
func (op *compositeOp[T, E]) ColorSpace() pigment.ColorSpace { return op.s }
func (op *compositeOp[T, E]) String() string                 { return string(op.id) }

// Composite implements the [pigment.CompositeOp] interface.
func (op *compositeOp[T, E]) Composite(p *pigment.CompositeParams) error {
	s := op.s
	if err := p.Check(s.size, len(s.chans)); err != nil {
		return err
	}

	a := opArgs[T]{
		opacity: s.enc.FromU8(p.Opacity),
		mask:    s.enc.Unit(),
		flags:   p.ChannelFlags,
	}
	if p.ChannelFlags != nil && s.alpha >= 0 {
		a.alphaLocked = !p.ChannelFlags[s.alphaPos]
	}

	for r := range p.Rows {
		dstRow := p.Dst[r*p.DstStride:]
		srcRow := p.Src[r*p.SrcStride:]
		var maskRow []byte
		if p.Mask != nil {
			maskRow = p.Mask[r*p.MaskStride:]
			a.hasMask = true
		}
		for c := range p.Cols {
			if maskRow != nil {
				a.mask = s.enc.FromU8(maskRow[c])
			}
			op.fn(dstRow[c*s.size:], srcRow[c*s.size:], &a)
		}
	}
	return nil
}

// CompositeOp implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) CompositeOp(id pigment.CompositeOpID) (pigment.CompositeOp, bool) {
	op, ok := s.opIndex[id]
	return op, ok
}

// CompositeOps implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) CompositeOps() []pigment.CompositeOp {
	return append([]pigment.CompositeOp(nil), s.ops...)
}

// UserVisibleCompositeOps implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) UserVisibleCompositeOps() []pigment.CompositeOp {
	var res []pigment.CompositeOp
	for _, op := range s.ops {
		if op.UserVisible() {
			res = append(res, op)
		}
	}
	return res
}

func (s *Space[T, E]) newOp(id pigment.CompositeOpID, desc, category string, visible bool, fn func(dst, src []byte, a *opArgs[T])) *compositeOp[T, E] {
	return &compositeOp[T, E]{
		s:        s,
		id:       id,
		desc:     desc,
		category: category,
		visible:  visible,
		fn:       fn,
	}
}

// standardOps returns the compositing operations supported by every colour
// space of the model.
func (s *Space[T, E]) standardOps() []pigment.CompositeOp {
	ops := []pigment.CompositeOp{
		s.newOp(pigment.OpOver, "Normal", pigment.CategoryMix, true, s.over),
		s.newOp(pigment.OpAlphaDarken, "Alpha darken", pigment.CategoryMix, false, s.alphaDarken),
		s.newOp(pigment.OpCopy, "Copy", pigment.CategoryMisc, false, s.copyOp),
		s.newOp(pigment.OpClear, "Clear", pigment.CategoryMisc, false, s.clearOp),
		s.newOp(pigment.OpErase, "Erase", pigment.CategoryMisc, false, s.erase),
		s.newOp(pigment.OpSubtract, "Subtract alpha", pigment.CategoryMisc, false, s.subtractAlpha),
	}
	if len(s.colorOff) == 0 {
		return ops
	}

	for _, b := range separableBlends {
		ops = append(ops, s.newOp(b.id, b.desc, b.category, true, s.separable(b.fn)))
	}
	if s.model.ID() == pigment.ModelRGBA {
		for _, b := range hslBlends {
			ops = append(ops, s.newOp(b.id, b.desc, pigment.CategoryHSL, true, s.nonSeparable(b.fn)))
		}
	}
	return ops
}

func (s *Space[T, E]) colorWritable(a *opArgs[T], i int) bool {
	return a.flags == nil || a.flags[s.colorPos[i]]
}

// effectiveAlpha scales the source alpha by the opacity and the mask.
func (s *Space[T, E]) effectiveAlpha(srcA T, a *opArgs[T]) T {
	if a.hasMask {
		return s.enc.Mul3(srcA, a.mask, a.opacity)
	}
	return s.enc.Mul(srcA, a.opacity)
}

// == Porter-Duff style operations ============================================

func (s *Space[T, E]) over(dst, src []byte, a *opArgs[T]) {
	e := s.enc
	srcA := s.effectiveAlpha(s.alphaOf(src), a)
	if e.IsZero(srcA) {
		return
	}

	var blend T
	dstA := s.alphaOf(dst)
	switch {
	case a.alphaLocked:
		if e.IsZero(dstA) {
			return
		}
		blend = srcA
	case s.isUnit(dstA):
		blend = srcA
	case e.IsZero(dstA):
		s.setAlpha(dst, srcA)
		blend = e.Unit()
	default:
		newA := e.Blend(e.Unit(), dstA, srcA)
		s.setAlpha(dst, newA)
		blend = e.Div(srcA, newA)
	}

	if s.isUnit(blend) {
		for i, off := range s.colorOff {
			if s.colorWritable(a, i) {
				copy(dst[off:off+e.Size()], src[off:])
			}
		}
		return
	}
	for i, off := range s.colorOff {
		if s.colorWritable(a, i) {
			e.Store(dst[off:], e.Blend(e.Load(src[off:]), e.Load(dst[off:]), blend))
		}
	}
}

// alphaDarken is the operation used by paint brushes: the opacity limits
// the alpha a stroke can build up.
func (s *Space[T, E]) alphaDarken(dst, src []byte, a *opArgs[T]) {
	e := s.enc
	srcA := s.alphaOf(src)
	if a.hasMask {
		srcA = e.Mul(srcA, a.mask)
	}
	blend := e.Mul(a.opacity, srcA)
	dstA := s.alphaOf(dst)

	if e.IsZero(dstA) {
		for i, off := range s.colorOff {
			if s.colorWritable(a, i) {
				copy(dst[off:off+e.Size()], src[off:])
			}
		}
	} else if !e.IsZero(blend) {
		for i, off := range s.colorOff {
			if s.colorWritable(a, i) {
				e.Store(dst[off:], e.Blend(e.Load(src[off:]), e.Load(dst[off:]), blend))
			}
		}
	}

	if !a.alphaLocked && e.Less(dstA, a.opacity) {
		s.setAlpha(dst, e.Blend(a.opacity, dstA, srcA))
	}
}

// copyOp copies the source pixel.  The alpha is scaled by the opacity and
// the mask.
func (s *Space[T, E]) copyOp(dst, src []byte, a *opArgs[T]) {
	e := s.enc
	for i, off := range s.colorOff {
		if s.colorWritable(a, i) {
			copy(dst[off:off+e.Size()], src[off:])
		}
	}
	if a.alphaLocked {
		return
	}
	srcA := s.alphaOf(src)
	if a.hasMask || !s.isUnit(a.opacity) {
		srcA = s.effectiveAlpha(srcA, a)
	}
	s.setAlpha(dst, srcA)
}

// clearOp makes the destination transparent wherever the mask is set.
// Colour spaces without alpha channel are filled with zeros.
func (s *Space[T, E]) clearOp(dst, _ []byte, a *opArgs[T]) {
	if a.hasMask && s.enc.IsZero(a.mask) {
		return
	}
	if s.alpha < 0 {
		clear(dst[:s.size])
		return
	}
	if !a.alphaLocked {
		s.setAlpha(dst, s.enc.Zero())
	}
}

// erase lowers the destination alpha to the source alpha.  Opacity and
// mask reduce the strength of the eraser.
func (s *Space[T, E]) erase(dst, src []byte, a *opArgs[T]) {
	if a.alphaLocked {
		return
	}
	e := s.enc
	strength := a.opacity
	if a.hasMask {
		strength = e.Mul(strength, a.mask)
	}
	eff := e.Inv(e.Mul(e.Inv(s.alphaOf(src)), strength))
	if dstA := s.alphaOf(dst); e.Less(eff, dstA) {
		s.setAlpha(dst, eff)
	}
}

// subtractAlpha subtracts the source alpha from the destination alpha.
// Selected pixels never drop below the minimal selected value.
func (s *Space[T, E]) subtractAlpha(dst, src []byte, a *opArgs[T]) {
	if a.alphaLocked {
		return
	}
	e := s.enc
	dstA := s.alphaOf(dst)
	if !e.Less(e.MinSelected(), dstA) {
		return
	}
	srcA := s.effectiveAlpha(s.alphaOf(src), a)
	r := e.Sub(dstA, srcA)
	if e.Less(r, e.MinSelected()) {
		r = e.MinSelected()
	}
	s.setAlpha(dst, r)
}

// == Blend modes =============================================================

// blendFunc combines normalised source and destination channel values.
type blendFunc func(src, dst float64) float64

type separableBlend struct {
	id       pigment.CompositeOpID
	desc     string
	category string
	fn       blendFunc
}

var separableBlends = []separableBlend{
	{pigment.OpMultiply, "Multiply", pigment.CategoryDark, cfMultiply},
	{pigment.OpScreen, "Screen", pigment.CategoryLight, cfScreen},
	{pigment.OpOverlay, "Overlay", pigment.CategoryMix, cfOverlay},
	{pigment.OpDarken, "Darken", pigment.CategoryDark, math.Min},
	{pigment.OpLighten, "Lighten", pigment.CategoryLight, math.Max},
	{pigment.OpDodge, "Color dodge", pigment.CategoryLight, cfDodge},
	{pigment.OpBurn, "Color burn", pigment.CategoryDark, cfBurn},
	{pigment.OpHardLight, "Hard light", pigment.CategoryMix, cfHardLight},
	{pigment.OpSoftLight, "Soft light", pigment.CategoryMix, cfSoftLight},
	{pigment.OpDifference, "Difference", pigment.CategoryArithmetic, cfDifference},
	{pigment.OpExclusion, "Exclusion", pigment.CategoryArithmetic, cfExclusion},
	{pigment.OpAdd, "Addition", pigment.CategoryArithmetic, cfAdd},
	{pigment.OpSubtractCol, "Subtract", pigment.CategoryArithmetic, cfSubtract},
	{pigment.OpDivide, "Divide", pigment.CategoryArithmetic, cfDivide},
}

func cfMultiply(s, d float64) float64 { return s * d }
func cfScreen(s, d float64) float64   { return s + d - s*d }
func cfOverlay(s, d float64) float64  { return cfHardLight(d, s) }

func cfHardLight(s, d float64) float64 {
	if s > 0.5 {
		return cfScreen(2*s-1, d)
	}
	return cfMultiply(2*s, d)
}

func cfSoftLight(s, d float64) float64 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var dd float64
	if d <= 0.25 {
		dd = ((16*d-12)*d + 4) * d
	} else {
		dd = math.Sqrt(d)
	}
	return d + (2*s-1)*(dd-d)
}

func cfDodge(s, d float64) float64 {
	if d <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return min(1, d/(1-s))
}

func cfBurn(s, d float64) float64 {
	if d >= 1 {
		return 1
	}
	if s <= 0 {
		return 0
	}
	return 1 - min(1, (1-d)/s)
}

func cfDifference(s, d float64) float64 { return math.Abs(s - d) }
func cfExclusion(s, d float64) float64  { return s + d - 2*s*d }
func cfAdd(s, d float64) float64        { return s + d }
func cfSubtract(s, d float64) float64   { return max(0, d-s) }

func cfDivide(s, d float64) float64 {
	if s <= 0 {
		if d <= 0 {
			return 0
		}
		return 1
	}
	return d / s
}

// mixBlended combines the result of a blend function with the source and
// destination colours, weighted by their alpha values.  All values are
// normalised; the result is not yet divided by the new alpha.
func mixBlended(src, srcA, dst, dstA, blended float64) float64 {
	return (1-srcA)*dstA*dst + (1-dstA)*srcA*src + srcA*dstA*blended
}

// separable turns a per-channel blend function into a pixel operation.
// Subtractive models are inverted, so that the blend modes have the same
// visual effect as for RGB.
func (s *Space[T, E]) separable(fn blendFunc) func(dst, src []byte, a *opArgs[T]) {
	inverted := s.model.Subtractive()
	return func(dst, src []byte, a *opArgs[T]) {
		var sc, dc, out [maxColors]float64
		for i, off := range s.colorOff {
			sc[i] = s.enc.Float(s.enc.Load(src[off:]))
			dc[i] = s.enc.Float(s.enc.Load(dst[off:]))
			if inverted {
				sc[i], dc[i] = 1-sc[i], 1-dc[i]
			}
		}
		for i := range s.colorOff {
			out[i] = fn(sc[i], dc[i])
			if inverted {
				out[i] = 1 - out[i]
				sc[i], dc[i] = 1-sc[i], 1-dc[i]
			}
		}
		s.storeBlended(dst, src, sc[:], dc[:], out[:], a)
	}
}

// storeBlended writes the result of a blend mode.  The slices hold the
// normalised colour values in model order.
func (s *Space[T, E]) storeBlended(dst, src []byte, sc, dc, blended []float64, a *opArgs[T]) {
	e := s.enc
	srcA := e.Float(s.effectiveAlpha(s.alphaOf(src), a))
	if srcA == 0 {
		return
	}
	dstA := e.Float(s.alphaOf(dst))

	if a.alphaLocked || s.alpha < 0 {
		if dstA == 0 {
			return
		}
		for i, off := range s.colorOff {
			if s.colorWritable(a, i) {
				v := dc[i] + (blended[i]-dc[i])*srcA
				e.Store(dst[off:], e.FromFloat(v))
			}
		}
		return
	}

	newA := srcA + dstA - srcA*dstA
	if newA <= 0 {
		return
	}
	for i, off := range s.colorOff {
		if s.colorWritable(a, i) {
			v := mixBlended(sc[i], srcA, dc[i], dstA, blended[i]) / newA
			e.Store(dst[off:], e.FromFloat(v))
		}
	}
	s.setAlpha(dst, e.FromFloat(newA))
}

// == HSL blend modes =========================================================

type hslBlend struct {
	id   pigment.CompositeOpID
	desc string
	fn   func(src, dst [3]float64) [3]float64
}

var hslBlends = []hslBlend{
	{pigment.OpHue, "Hue", func(s, d [3]float64) [3]float64 {
		return setLum(setSat(s, sat(d)), lum(d))
	}},
	{pigment.OpSaturation, "Saturation", func(s, d [3]float64) [3]float64 {
		return setLum(setSat(d, sat(s)), lum(d))
	}},
	{pigment.OpColor, "Color", func(s, d [3]float64) [3]float64 {
		return setLum(s, lum(d))
	}},
	{pigment.OpLuminosity, "Luminosity", func(s, d [3]float64) [3]float64 {
		return setLum(d, lum(s))
	}},
}

func (s *Space[T, E]) nonSeparable(fn func(src, dst [3]float64) [3]float64) func(dst, src []byte, a *opArgs[T]) {
	return func(dst, src []byte, a *opArgs[T]) {
		var sc, dc [3]float64
		for i, off := range s.colorOff {
			sc[i] = s.enc.Float(s.enc.Load(src[off:]))
			dc[i] = s.enc.Float(s.enc.Load(dst[off:]))
		}
		out := fn(sc, dc)
		s.storeBlended(dst, src, sc[:], dc[:], out[:], a)
	}
}

func lum(c [3]float64) float64 {
	return colconv.LumaBT601.Y(c[0], c[1], c[2])
}

func sat(c [3]float64) float64 {
	return max(c[0], c[1], c[2]) - min(c[0], c[1], c[2])
}

func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	for i := range c {
		c[i] += d
	}
	return clipColor(c)
}

func clipColor(c [3]float64) [3]float64 {
	l := lum(c)
	lo := min(c[0], c[1], c[2])
	hi := max(c[0], c[1], c[2])
	if lo < 0 && l-lo > 0 {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-lo)
		}
	}
	if hi > 1 && hi-l > 0 {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(hi-l)
		}
	}
	return c
}

// setSat scales the chroma of c to s, keeping the hue.
func setSat(c [3]float64, s float64) [3]float64 {
	iMax, iMid, iMin := 0, 1, 2
	if c[iMax] < c[iMid] {
		iMax, iMid = iMid, iMax
	}
	if c[iMid] < c[iMin] {
		iMid, iMin = iMin, iMid
	}
	if c[iMax] < c[iMid] {
		iMax, iMid = iMid, iMax
	}

	var res [3]float64
	if c[iMax] > c[iMin] {
		res[iMid] = (c[iMid] - c[iMin]) * s / (c[iMax] - c[iMin])
		res[iMax] = s
	}
	return res
}
