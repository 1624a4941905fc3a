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

package transform

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"seehuhn.de/go/pigment"
)

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger used to report replaced factories and failed
// requests.  By default, nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithoutBuiltins creates an empty registry.
func WithoutBuiltins() Option {
	return func(r *Registry) { r.noBuiltin = true }
}

// Registry holds transformation factories, indexed by ID.
// A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory

	logger    *slog.Logger
	noBuiltin bool
}

// Builtin returns new instances of the built-in transformation factories.
func Builtin() []Factory {
	return []Factory{
		NewHSVAdjustment(),
		NewDodge(),
		NewBurn(),
		NewColorBalance(),
		NewDesaturate(),
	}
}

// NewRegistry creates a registry holding the built-in factories.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.noBuiltin {
		for _, f := range Builtin() {
			r.factories[f.ID()] = f
		}
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Add registers a factory.  A factory with the same ID is replaced.
func (r *Registry) Add(f Factory) error {
	if f == nil || f.ID() == "" {
		return errInvalidFactory
	}
	r.mu.Lock()
	_, replaced := r.factories[f.ID()]
	r.factories[f.ID()] = f
	r.mu.Unlock()

	if replaced {
		r.logger.Info("replacing transformation factory", "id", f.ID())
	}
	return nil
}

// Get returns the factory with the given ID.
func (r *Registry) Get(id string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[id]
	return f, ok
}

// IDs returns the IDs of all registered factories, in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// CreateTransformation creates a transformation using the factory with
// the given ID.  If the factory does not support the colour model of cs,
// the request is logged and [pigment.ErrUnsupportedModel] is returned.
func (r *Registry) CreateTransformation(id string, cs pigment.ColorSpace, params map[string]float64) (Transformation, error) {
	f, ok := r.Get(id)
	if !ok {
		return nil, &UnknownError{ID: id}
	}
	if cs == nil {
		return nil, pigment.ErrNilColorSpace
	}
	if !Supports(f, cs) {
		r.logger.Warn("colour model not supported by transformation",
			"transformation", id, "space", cs.ID())
		return nil, pigment.ErrUnsupportedModel
	}
	t, err := f.CreateTransformation(cs, params)
	if err != nil {
		r.logger.Warn("cannot create transformation",
			"transformation", id, "space", cs.ID(), "error", err)
		return nil, err
	}
	return t, nil
}

// UnknownError is returned when no factory with the given ID exists.
type UnknownError struct {
	ID string
}

func (err *UnknownError) Error() string {
	return "transform: unknown transformation " + err.ID
}

var errInvalidFactory = errors.New("transform: invalid factory")
