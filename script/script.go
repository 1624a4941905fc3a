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

// Package script creates colour transformations from JavaScript source.
//
// A script must define a function
//
//	function transform(c, a, p) { ... }
//
// which is called once for every pixel.  The argument c is an array holding
// the normalised colour channels of the pixel in model order, for example
// [r, g, b] for RGB colour spaces.  The argument a is the opacity in [0, 1]
// and p is an object which maps parameter names to their current values.
// The function must return an array with the new colour values.  If the
// returned array has one more element than c, the last element is the new
// opacity.  The global variable "channels" holds the short names of the
// colour channels, in the same order as c.
//
// Scripts run in the goja JavaScript interpreter.  Every transformation has
// its own interpreter instance, so that transformations can be used from
// different goroutines concurrently.
package script

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/space"
	"seehuhn.de/go/pigment/transform"
)

// Factory is a [transform.Factory] for scripted transformations.
type Factory struct {
	id     string
	name   string
	params []transform.Param
	models []transform.ModelDepth
	prog   *goja.Program

	timeout time.Duration
}

var _ transform.Factory = (*Factory)(nil)

// Option configures a scripted factory.
type Option func(*Factory)

// WithModels restricts the factory to the given colour models.
// By default, all colour models are supported.
func WithModels(models ...transform.ModelDepth) Option {
	return func(f *Factory) { f.models = append(f.models, models...) }
}

// WithTimeout limits the time a single call to Transform may take.
// Scripts which exceed the limit are interrupted and Transform returns
// an error wrapping [ErrTimeout].
func WithTimeout(d time.Duration) Option {
	return func(f *Factory) { f.timeout = d }
}

// ErrTimeout is returned when a script exceeds its time limit.
var ErrTimeout = errors.New("script: time limit exceeded")

// NewFactory compiles a script.  The parameters params are passed to the
// script, with their default values unless changed by the caller.  An
// error is returned if the script cannot be compiled or does not define a
// transform function.
func NewFactory(id, name, src string, params []transform.Param, opts ...Option) (*Factory, error) {
	if id == "" {
		return nil, errors.New("script: missing transformation id")
	}
	prog, err := goja.Compile(id, src, true)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", id, err)
	}
	f := &Factory{
		id:     id,
		name:   name,
		params: params,
		prog:   prog,
	}
	for _, opt := range opts {
		opt(f)
	}

	// check that the script defines a transform function
	if _, _, err := f.load(nil); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) ID() string                              { return f.id }
func (f *Factory) Name() string                            { return f.name }
func (f *Factory) SupportedModels() []transform.ModelDepth { return f.models }

// load runs the script in a new interpreter and returns the interpreter
// together with the transform function.
func (f *Factory) load(colorNames []string) (*goja.Runtime, goja.Callable, error) {
	vm := goja.New()
	names := make([]any, len(colorNames))
	for i, name := range colorNames {
		names[i] = name
	}
	if err := vm.Set("channels", vm.NewArray(names...)); err != nil {
		return nil, nil, err
	}
	if _, err := vm.RunProgram(f.prog); err != nil {
		return nil, nil, fmt.Errorf("script %s: %w", f.id, err)
	}
	fn, ok := goja.AssertFunction(vm.Get("transform"))
	if !ok {
		return nil, nil, fmt.Errorf("script %s: no transform function", f.id)
	}
	return vm, fn, nil
}

// CreateTransformation implements the [transform.Factory] interface.
func (f *Factory) CreateTransformation(cs pigment.ColorSpace, params map[string]float64) (transform.Transformation, error) {
	if cs == nil {
		return nil, pigment.ErrNilColorSpace
	}
	if !transform.Supports(f, cs) {
		return nil, pigment.ErrUnsupportedModel
	}
	m, ok := space.ModelFor(cs.ColorModelID())
	if !ok {
		return nil, pigment.ErrUnsupportedModel
	}

	vm, fn, err := f.load(m.ColorNames())
	if err != nil {
		return nil, err
	}
	t := &scripted{
		id:      f.id,
		vm:      vm,
		fn:      fn,
		names:   make([]string, len(f.params)),
		timeout: f.timeout,
	}
	for i, p := range f.params {
		t.names[i] = p.Name
	}
	inner, err := transform.NewChecked(cs, f.params, params, t.kernel)
	if err != nil {
		return nil, err
	}
	t.Transformation = inner
	return t, nil
}

// scripted runs the transform function of a script.  The interpreter is
// not safe for concurrent use, so calls to Transform are serialised.
type scripted struct {
	transform.Transformation

	id      string
	vm      *goja.Runtime
	fn      goja.Callable
	names   []string
	timeout time.Duration

	mu     sync.Mutex
	params goja.Value
	out    []float64
}

// Transform runs the script on every pixel.  The first script error stops
// the transformation and is returned.
func (t *scripted) Transform(src, dst []byte, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.params = nil
	t.vm.ClearInterrupt()

	if t.timeout > 0 {
		fired := make(chan struct{})
		timer := time.AfterFunc(t.timeout, func() {
			t.vm.Interrupt(ErrTimeout)
			close(fired)
		})
		defer func() {
			if !timer.Stop() {
				// wait until the interrupt is set, so that it
				// can be cleared before the next call
				<-fired
			}
			t.vm.ClearInterrupt()
		}()
	}

	return t.Transformation.Transform(src, dst, n)
}

// kernel is called by the inner transformation, with t.mu held.
func (t *scripted) kernel(c []float64, alpha float64, p []float64) (float64, error) {
	if t.params == nil {
		obj := t.vm.NewObject()
		for i, name := range t.names {
			obj.Set(name, p[i])
		}
		t.params = obj
	}

	in := make([]any, len(c))
	for i, x := range c {
		in[i] = x
	}
	res, err := t.fn(goja.Undefined(), t.vm.NewArray(in...), t.vm.ToValue(alpha), t.params)
	if err != nil {
		return 0, t.wrap(err)
	}

	t.out = t.out[:0]
	if err := t.vm.ExportTo(res, &t.out); err != nil {
		return 0, t.wrap(fmt.Errorf("result: %w", err))
	}
	switch len(t.out) {
	case len(c):
		copy(c, t.out)
	case len(c) + 1:
		copy(c, t.out)
		alpha = t.out[len(c)]
	default:
		return 0, t.wrap(fmt.Errorf("result has %d values, want %d or %d", len(t.out), len(c), len(c)+1))
	}
	return alpha, nil
}

func (t *scripted) wrap(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			err = cause
		}
	}
	return fmt.Errorf("script %s: %w", t.id, err)
}
