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

// Package transform implements colour transformations such as hue and
// saturation adjustments, which are applied to pixel buffers of a given
// colour space.
//
// Transformations are created by a [Factory].  Every transformation has a
// fixed list of named parameters.  Parameter values are looked up by name
// using [Transformation.ParameterID] and changed using
// [Transformation.SetParameter]; unknown parameter IDs are ignored.
//
// Internally, all transformations work on normalised channel values.  The
// conversion from and to the pixel encoding is specialised for each of the
// supported channel encodings.
package transform

import (
	"errors"
	"fmt"
	"sync"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/space"
)

// Transformation changes the colours of pixels in one colour space.
type Transformation interface {
	// Transform processes n pixels.  Src and dst may be the same slice.
	Transform(src, dst []byte, n int) error

	// ColorSpace returns the colour space the transformation works on.
	ColorSpace() pigment.ColorSpace

	// Parameters returns the current parameter values, indexed by name.
	Parameters() map[string]float64

	// ParameterID returns the ID of the named parameter, or -1 if the
	// parameter does not exist.
	ParameterID(name string) int

	// SetParameter changes the value of a parameter.  Unknown IDs are
	// ignored.
	SetParameter(id int, value float64)
}

// ModelDepth names a colour model together with a colour depth.  An empty
// depth matches all depths.
type ModelDepth struct {
	Model pigment.ModelID
	Depth pigment.DepthID
}

// Factory creates transformations.
type Factory interface {
	// ID identifies the factory.  IDs are unique within a [Registry].
	ID() string
	Name() string

	// SupportedModels lists the colour spaces the factory can serve.
	// An empty list means that all colour spaces are supported.
	SupportedModels() []ModelDepth

	// CreateTransformation returns a transformation for cs.  Parameters
	// not mentioned in params keep their default values, unknown names
	// are ignored.  If the colour model of cs is not supported,
	// [pigment.ErrUnsupportedModel] is returned.
	CreateTransformation(cs pigment.ColorSpace, params map[string]float64) (Transformation, error)
}

// Supports reports whether f can create transformations for cs.
func Supports(f Factory, cs pigment.ColorSpace) bool {
	if cs == nil {
		return false
	}
	models := f.SupportedModels()
	if len(models) == 0 {
		return true
	}
	for _, md := range models {
		if md.Model == cs.ColorModelID() && (md.Depth == "" || md.Depth == cs.ColorDepthID()) {
			return true
		}
	}
	return false
}

// Kernel transforms one pixel.  Color holds the normalised colour channels
// in the order of the colour model, for example red, green, blue for RGB.
// The function changes color in place and returns the new alpha value.
// Params holds the current parameter values, in the order the parameters
// were declared.
type Kernel func(color []float64, alpha float64, params []float64) float64

// CheckedKernel is a [Kernel] which can fail.  The transformation stops at
// the first pixel where the kernel returns an error.  This pixel and all
// following pixels are left unchanged in the destination buffer.
type CheckedKernel func(color []float64, alpha float64, params []float64) (float64, error)

// Param declares a transformation parameter.
type Param struct {
	Name    string
	Default float64
}

// kernelTransform is a [Transformation] given by a per-pixel kernel.
type kernelTransform struct {
	cs     pigment.ColorSpace
	kernel CheckedKernel
	run    runFunc

	names []string
	ids   map[string]int

	mu     sync.RWMutex
	values []float64
}

// New creates a transformation for cs from a per-pixel kernel.  The
// parameter values in params override the declared defaults.
func New(cs pigment.ColorSpace, decl []Param, params map[string]float64, k Kernel) (Transformation, error) {
	if cs == nil {
		return nil, pigment.ErrNilColorSpace
	}
	if k == nil {
		return nil, pigment.ErrInvalidArgument
	}
	return NewChecked(cs, decl, params, func(c []float64, alpha float64, p []float64) (float64, error) {
		return k(c, alpha, p), nil
	})
}

// NewChecked is like [New], but uses a kernel which can fail.
func NewChecked(cs pigment.ColorSpace, decl []Param, params map[string]float64, k CheckedKernel) (Transformation, error) {
	if cs == nil {
		return nil, pigment.ErrNilColorSpace
	}
	if k == nil {
		return nil, pigment.ErrInvalidArgument
	}
	run, err := newRunner(cs)
	if err != nil {
		return nil, err
	}

	t := &kernelTransform{
		cs:     cs,
		kernel: k,
		run:    run,
		names:  make([]string, len(decl)),
		ids:    make(map[string]int, len(decl)),
		values: make([]float64, len(decl)),
	}
	for i, p := range decl {
		if _, dup := t.ids[p.Name]; dup {
			return nil, fmt.Errorf("transform: duplicate parameter %q", p.Name)
		}
		t.names[i] = p.Name
		t.ids[p.Name] = i
		t.values[i] = p.Default
		if v, ok := params[p.Name]; ok {
			t.values[i] = v
		}
	}
	return t, nil
}

func (t *kernelTransform) ColorSpace() pigment.ColorSpace { return t.cs }

func (t *kernelTransform) Transform(src, dst []byte, n int) error {
	format := t.cs.Format()
	if err := format.Check(src, n); err != nil {
		return err
	}
	if err := format.Check(dst, n); err != nil {
		return err
	}

	t.mu.RLock()
	params := append([]float64(nil), t.values...)
	t.mu.RUnlock()

	return t.run(src, dst, n, func(c []float64, alpha float64) (float64, error) {
		return t.kernel(c, alpha, params)
	})
}

func (t *kernelTransform) Parameters() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := make(map[string]float64, len(t.names))
	for i, name := range t.names {
		res[name] = t.values[i]
	}
	return res
}

func (t *kernelTransform) ParameterID(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	return -1
}

func (t *kernelTransform) SetParameter(id int, value float64) {
	if id < 0 || id >= len(t.values) {
		return
	}
	t.mu.Lock()
	t.values[id] = value
	t.mu.Unlock()
}

// runFunc applies a per-pixel function to n pixels, stopping at the first
// error.
type runFunc func(src, dst []byte, n int, fn func([]float64, float64) (float64, error)) error

// newRunner returns a function which applies a per-pixel function to a
// pixel buffer.  The loop is specialised for the channel encoding of cs.
func newRunner(cs pigment.ColorSpace) (runFunc, error) {
	m, ok := space.ModelFor(cs.ColorModelID())
	if !ok {
		return nil, pigment.ErrUnsupportedModel
	}
	format := cs.Format()
	var offs []int
	for _, name := range m.ColorNames() {
		c, ok := format.ChannelByShortName(name)
		if !ok {
			return nil, fmt.Errorf("transform: %s has no channel %q: %w",
				cs.ID(), name, pigment.ErrUnsupportedModel)
		}
		offs = append(offs, c.Offset)
	}
	l := layout{size: format.PixelSize(), offs: offs, alpha: format.AlphaOffset()}

	switch cs.ColorDepthID() {
	case pigment.DepthU8:
		return runPixels[uint8, pixel.U8](l), nil
	case pigment.DepthU16:
		return runPixels[uint16, pixel.U16](l), nil
	case pigment.DepthF16:
		return runPixels[pixel.Half, pixel.F16](l), nil
	case pigment.DepthF32:
		return runPixels[float32, pixel.F32](l), nil
	}
	return nil, errors.New("transform: unsupported colour depth " + string(cs.ColorDepthID()))
}

type layout struct {
	size  int
	offs  []int
	alpha int
}

func runPixels[T any, E pixel.Encoding[T]](l layout) runFunc {
	return func(src, dst []byte, n int, fn func([]float64, float64) (float64, error)) error {
		var enc E
		c := make([]float64, len(l.offs))
		for k := range n {
			sp := src[k*l.size : (k+1)*l.size]
			dp := dst[k*l.size : (k+1)*l.size]
			for i, off := range l.offs {
				c[i] = enc.Float(enc.Load(sp[off:]))
			}
			alpha := 1.0
			if l.alpha >= 0 {
				alpha = enc.Float(enc.Load(sp[l.alpha:]))
			}

			newAlpha, err := fn(c, alpha)
			if err != nil {
				return err
			}

			copy(dp, sp)
			for i, off := range l.offs {
				enc.Store(dp[off:], enc.FromFloat(c[i]))
			}
			if l.alpha >= 0 && newAlpha != alpha {
				enc.Store(dp[l.alpha:], enc.FromFloat(newAlpha))
			}
		}
		return nil
	}
}

// builtinFactory is a [Factory] for a transformation given by a kernel.
type builtinFactory struct {
	id     string
	name   string
	models []ModelDepth
	params []Param

	// kernel returns the per-pixel function for a colour space.
	kernel func(cs pigment.ColorSpace) Kernel
}

func (f *builtinFactory) ID() string                    { return f.id }
func (f *builtinFactory) Name() string                  { return f.name }
func (f *builtinFactory) SupportedModels() []ModelDepth { return f.models }

func (f *builtinFactory) CreateTransformation(cs pigment.ColorSpace, params map[string]float64) (Transformation, error) {
	if cs == nil {
		return nil, pigment.ErrNilColorSpace
	}
	if !Supports(f, cs) {
		return nil, pigment.ErrUnsupportedModel
	}
	return New(cs, f.params, params, f.kernel(cs))
}
