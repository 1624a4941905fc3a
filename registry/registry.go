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

// Package registry keeps track of colour space factories, colour profiles
// and the colour spaces created from them.
//
// A [Registry] returns the same colour space instance for repeated
// requests with the same colour space ID and profile, so that colour
// spaces can be compared by identity.  A Registry is safe for concurrent
// use.
//
// Most programs use the process wide registry returned by [Default].
// Programs which need additional profiles or colour space descriptors can
// construct their own registry with [New].
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/descriptor"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/profile"
	"seehuhn.de/go/pigment/space"
)

// Option configures a registry.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	profiles    [][]byte
	descriptors []*descriptor.Descriptor
	cacheSize   int
	noBuiltin   bool
}

// WithLogger sets the logger used to report rejected profiles and
// replaced factories.  By default, nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithProfiles adds ICC profiles, given as encoded profile data.
func WithProfiles(data ...[]byte) Option {
	return func(c *config) { c.profiles = append(c.profiles, data...) }
}

// WithDescriptors adds colour spaces given by descriptors.
func WithDescriptors(d ...*descriptor.Descriptor) Option {
	return func(c *config) { c.descriptors = append(c.descriptors, d...) }
}

// WithTransformCacheSize sets the number of colour transformations cached
// by every colour space.
func WithTransformCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = n }
}

// WithoutBuiltinProfiles omits the built-in profiles.  Colour spaces for
// models which use profiles can then only be created for explicitly added
// profiles.  In particular, [Registry.GetColorSpace] with an empty profile
// name fails with an [pigment.UnknownProfile] error until the default
// profile of the factory has been added.  Alpha-only colour spaces are not
// affected.
func WithoutBuiltinProfiles() Option {
	return func(c *config) { c.noBuiltin = true }
}

// Registry holds colour space factories, profiles and colour spaces.
type Registry struct {
	mu sync.RWMutex

	factories    map[string]*space.Factory
	factoryOrder []string

	profiles     map[string]*profile.Profile // indexed by profile.Key
	profileOrder []string

	spaces map[string]pigment.ColorSpace

	alpha8 pigment.ColorSpace

	spaceOpts []space.Option
	logger    *slog.Logger
}

// New creates a registry with factories for all combinations of the
// built-in colour models and depths.
func New(opts ...Option) (*Registry, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	r := &Registry{
		factories: make(map[string]*space.Factory),
		profiles:  make(map[string]*profile.Profile),
		spaces:    make(map[string]pigment.ColorSpace),
		logger:    cfg.logger,
	}
	r.spaceOpts = append(r.spaceOpts, space.WithLogger(cfg.logger))
	if cfg.cacheSize > 0 {
		r.spaceOpts = append(r.spaceOpts, space.WithCacheSize(cfg.cacheSize))
	}

	for _, model := range space.Models() {
		for _, depth := range depths {
			f, err := space.NewFactory(model, depth, r.spaceOpts...)
			if err != nil {
				return nil, err
			}
			r.addFactoryLocked(f)
		}
	}

	if !cfg.noBuiltin {
		for _, p := range profile.Builtin() {
			if _, err := r.addProfileLocked(p); err != nil {
				return nil, err
			}
		}
	}
	for _, data := range cfg.profiles {
		if _, err := r.AddProfileData(data); err != nil {
			return nil, err
		}
	}
	for _, d := range cfg.descriptors {
		if err := r.AddDescriptor(d); err != nil {
			return nil, err
		}
	}

	alpha8, err := r.GetColorSpace(pigment.SpaceID(pigment.ModelAlpha, pigment.DepthU8), "")
	if err != nil {
		return nil, err
	}
	r.alpha8 = alpha8

	return r, nil
}

var depths = []pigment.DepthID{
	pigment.DepthU8, pigment.DepthU16, pigment.DepthF16, pigment.DepthF32,
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process wide registry.  It is created on first use
// and contains only the built-in factories and profiles.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New()
		if err != nil {
			// There should not be any errors for the built-in data.
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// == Factories ===============================================================

// AddFactory adds a colour space factory.  A previous factory with the same
// ID is replaced; colour spaces created by the old factory remain valid
// but are no longer returned by the registry.
func (r *Registry) AddFactory(f *space.Factory) error {
	if f == nil {
		return pigment.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addFactoryLocked(f)
	return nil
}

func (r *Registry) addFactoryLocked(f *space.Factory) {
	id := f.ID()
	if _, exists := r.factories[id]; exists {
		r.logger.Info("replacing colour space factory", slog.String("id", id))
		for key, cs := range r.spaces {
			if cs.ID() == id {
				delete(r.spaces, key)
			}
		}
	} else {
		r.factoryOrder = append(r.factoryOrder, id)
	}
	r.factories[id] = f
}

// AddDescriptor adds a factory for the colour space described by d.
func (r *Registry) AddDescriptor(d *descriptor.Descriptor) error {
	f, err := space.NewDescriptorFactory(d, r.spaceOpts...)
	if err != nil {
		return err
	}
	return r.AddFactory(f)
}

// Factory returns the factory with the given colour space ID.
func (r *Registry) Factory(id string) (*space.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[id]
	return f, ok
}

// Factories returns all factories, in the order they were added.
func (r *Registry) Factories() []*space.Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*space.Factory, len(r.factoryOrder))
	for i, id := range r.factoryOrder {
		res[i] = r.factories[id]
	}
	return res
}

// == Profiles ================================================================

// AddProfile adds a colour profile.  Profile names must be unique: if a
// different profile with the same name is already registered, an
// [pigment.IncompatibleProfile] error is returned.  Adding a profile
// which is already known, or one with identical ICC data, has no effect.
func (r *Registry) AddProfile(p *profile.Profile) error {
	if p == nil {
		return pigment.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.addProfileLocked(p)
	return err
}

// addProfileLocked registers p and returns the profile which is stored
// under its name afterwards.
func (r *Registry) addProfileLocked(p *profile.Profile) (*profile.Profile, error) {
	key := p.Key()
	known, exists := r.profiles[key]
	switch {
	case !exists:
		r.profileOrder = append(r.profileOrder, key)
		r.profiles[key] = p
		return p, nil
	case known == p:
		return p, nil
	case known.Data() != nil && bytes.Equal(known.Data(), p.Data()):
		return known, nil
	}
	r.logger.Warn("profile name already in use",
		slog.String("name", p.Name()))
	return nil, pigment.NewConfigError(pigment.IncompatibleProfile, p.Name(),
		errDuplicateName)
}

var errDuplicateName = errors.New("a different profile with this name is registered")

// AddProfileData decodes an ICC profile and adds it to the registry.
// The returned profile is the one stored in the registry.
func (r *Registry) AddProfileData(data []byte) (*profile.Profile, error) {
	p, err := profile.Decode(data)
	if err != nil {
		r.logger.Warn("rejected colour profile",
			slog.Int("size", len(data)),
			slog.Any("error", err))
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addProfileLocked(p)
}

// Profile looks up a profile by name.  Names are compared after Unicode
// normalisation and case folding.
func (r *Registry) Profile(name string) (*profile.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[profile.Key(name)]
	return p, ok
}

// Profiles returns all registered profiles, in the order they were added.
func (r *Registry) Profiles() []*profile.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*profile.Profile, len(r.profileOrder))
	for i, key := range r.profileOrder {
		res[i] = r.profiles[key]
	}
	return res
}

// ProfilesFor returns the registered profiles which can be used with the
// colour space ID.
func (r *Registry) ProfilesFor(id string) []*profile.Profile {
	f, ok := r.Factory(id)
	if !ok {
		return nil
	}
	return slices.DeleteFunc(r.Profiles(), func(p *profile.Profile) bool {
		return !f.ProfileIsCompatible(p)
	})
}

// == Colour spaces ===========================================================

// spaceKey combines a colour space ID and a profile name into a map key.
func spaceKey(id, profileName string) string {
	return id + "<comb>" + profileName
}

// GetColorSpace returns the colour space with the given ID and profile.
// If profileName is empty, the default profile of the factory is used.
// Repeated calls with the same arguments return the same instance.
func (r *Registry) GetColorSpace(id, profileName string) (pigment.ColorSpace, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	if !ok {
		r.mu.RUnlock()
		return nil, pigment.NewConfigError(pigment.UnknownModel, id, nil)
	}

	var p *profile.Profile
	if f.UsesProfiles() {
		if profileName == "" {
			profileName = f.DefaultProfileName()
		}
		if profileName != "" {
			p, ok = r.profiles[profile.Key(profileName)]
			if !ok {
				r.mu.RUnlock()
				return nil, pigment.NewConfigError(pigment.UnknownProfile, profileName, nil)
			}
		}
	}
	r.mu.RUnlock()

	return r.colorSpace(f, p)
}

// ColorSpaceWithProfile returns the colour space with the given ID which
// uses the profile p.  If p is not yet known to the registry, it is added.
// If p is nil, the default profile is used.
func (r *Registry) ColorSpaceWithProfile(id string, p *profile.Profile) (pigment.ColorSpace, error) {
	if p == nil {
		return r.GetColorSpace(id, "")
	}
	f, ok := r.Factory(id)
	if !ok {
		return nil, pigment.NewConfigError(pigment.UnknownModel, id, nil)
	}
	if !f.ProfileIsCompatible(p) {
		return nil, pigment.NewConfigError(pigment.IncompatibleProfile, p.Name(),
			fmt.Errorf("cannot be used with %s", id))
	}

	r.mu.Lock()
	p, err := r.addProfileLocked(p)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return r.colorSpace(f, p)
}

func (r *Registry) colorSpace(f *space.Factory, p *profile.Profile) (pigment.ColorSpace, error) {
	name := ""
	if p != nil {
		name = p.Name()
	}
	key := spaceKey(f.ID(), name)

	r.mu.RLock()
	cs, ok := r.spaces[key]
	r.mu.RUnlock()
	if ok {
		return cs, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cs, ok := r.spaces[key]; ok {
		return cs, nil
	}
	cs, err := f.CreateColorSpace(p)
	if err != nil {
		return nil, err
	}
	r.spaces[key] = cs
	return cs, nil
}

// Alpha8 returns the 8-bit alpha mask colour space.
func (r *Registry) Alpha8() pigment.ColorSpace {
	return r.alpha8
}

// RGB8 returns the 8-bit RGB colour space with the given profile, or with
// sRGB if profileName is empty.
func (r *Registry) RGB8(profileName string) (pigment.ColorSpace, error) {
	return r.GetColorSpace(pigment.SpaceID(pigment.ModelRGBA, pigment.DepthU8), profileName)
}

// Lab16 returns the 16-bit CIE L*a*b* colour space.
func (r *Registry) Lab16() (pigment.ColorSpace, error) {
	return r.GetColorSpace(pigment.SpaceID(pigment.ModelLABA, pigment.DepthU16), "")
}

// XYZ returns the 32-bit floating point CIE XYZ colour space.
func (r *Registry) XYZ() (pigment.ColorSpace, error) {
	return r.GetColorSpace(pigment.SpaceID(pigment.ModelXYZA, pigment.DepthF32), "")
}

// HasDepth reports whether a colour space with the given model and depth
// can be created.
func (r *Registry) HasDepth(model pigment.ModelID, depth pigment.DepthID) bool {
	if _, ok := pixel.For(depth); !ok {
		return false
	}
	_, ok := r.Factory(pigment.SpaceID(model, depth))
	return ok
}
