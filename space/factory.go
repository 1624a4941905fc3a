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
	"fmt"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/descriptor"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/profile"
)

// Factory creates colour spaces of one model and depth, for different
// profiles.  Factories are immutable and safe for concurrent use.
type Factory struct {
	id     string
	name   string
	model  Model
	depth  pigment.DepthID
	format *pigment.PixelFormat

	// defaultProfile is the key of the profile used when a colour space
	// is requested without naming one.  It is empty for models which do
	// not use profiles.
	defaultProfile string

	opts []Option
}

// NewFactory returns a factory for the built-in channel layout of the given
// model and depth.
func NewFactory(model pigment.ModelID, depth pigment.DepthID, opts ...Option) (*Factory, error) {
	m, ok := ModelFor(model)
	if !ok {
		return nil, pigment.NewConfigError(pigment.UnknownModel, string(model), nil)
	}
	info, ok := pixel.For(depth)
	if !ok {
		return nil, pigment.NewConfigError(pigment.UnknownValueType, string(depth), nil)
	}
	format, err := pigment.NewPixelFormat(m.Layout(info.ValueType)...)
	if err != nil {
		return nil, err
	}
	return newFactory(m, depth, format,
		pigment.SpaceID(model, depth), pigment.SpaceName(model, depth), "", opts)
}

// NewDescriptorFactory returns a factory for a colour space described by a
// descriptor file.
func NewDescriptorFactory(d *descriptor.Descriptor, opts ...Option) (*Factory, error) {
	if d == nil {
		return nil, pigment.ErrInvalidArgument
	}
	m, ok := ModelFor(d.ModelID())
	if !ok {
		return nil, pigment.NewConfigError(pigment.UnknownModel, d.Model, nil)
	}
	depth, err := d.DepthID()
	if err != nil {
		return nil, err
	}
	format, err := d.Format()
	if err != nil {
		return nil, err
	}
	name := d.Name
	if name == "" {
		name = pigment.SpaceName(m.ID(), depth)
	}
	return newFactory(m, depth, format, d.ID, name, d.DefaultProfile, opts)
}

func newFactory(m Model, depth pigment.DepthID, format *pigment.PixelFormat, id, name, defProfile string, opts []Option) (*Factory, error) {
	if defProfile == "" {
		if p := m.DefaultProfile(); p != nil {
			defProfile = p.Name()
		}
	}
	f := &Factory{
		id:             id,
		name:           name,
		model:          m,
		depth:          depth,
		format:         format,
		defaultProfile: defProfile,
		opts:           opts,
	}

	// Build one instance to catch layout problems early.
	if _, err := f.CreateColorSpace(nil); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) ID() string                   { return f.id }
func (f *Factory) Name() string                 { return f.name }
func (f *Factory) ModelID() pigment.ModelID     { return f.model.ID() }
func (f *Factory) DepthID() pigment.DepthID     { return f.depth }
func (f *Factory) Format() *pigment.PixelFormat { return f.format }
func (f *Factory) UsesProfiles() bool           { return f.model.Signature() != 0 }
func (f *Factory) DefaultProfileName() string   { return f.defaultProfile }

func (f *Factory) String() string {
	return fmt.Sprintf("%s (%s)", f.id, f.name)
}

// ProfileIsCompatible reports whether p can be used with colour spaces
// made by this factory.
func (f *Factory) ProfileIsCompatible(p *profile.Profile) bool {
	if p == nil {
		return false
	}
	sig := f.model.Signature()
	return sig != 0 && p.ColorSpace() == sig
}

// CreateColorSpace returns a new colour space using the profile p.
// If p is nil, the colour space has no profile and uses the built-in
// colorimetry of the model.
func (f *Factory) CreateColorSpace(p *profile.Profile, opts ...Option) (pigment.ColorSpace, error) {
	if p != nil && !f.ProfileIsCompatible(p) {
		return nil, pigment.NewConfigError(pigment.IncompatibleProfile, p.Name(),
			fmt.Errorf("cannot be used with %s", f.id))
	}

	all := make([]Option, 0, len(f.opts)+len(opts)+2)
	all = append(all, WithID(f.id), WithName(f.name))
	all = append(all, f.opts...)
	all = append(all, opts...)

	switch f.depth {
	case pigment.DepthU8:
		return build[uint8, pixel.U8](f, p, all)
	case pigment.DepthU16:
		return build[uint16, pixel.U16](f, p, all)
	case pigment.DepthF16:
		return build[pixel.Half, pixel.F16](f, p, all)
	case pigment.DepthF32:
		return build[float32, pixel.F32](f, p, all)
	}
	return nil, pigment.NewConfigError(pigment.UnknownValueType, string(f.depth), nil)
}

// build avoids returning a typed nil inside a non-nil interface.
func build[T any, E pixel.Encoding[T]](f *Factory, p *profile.Profile, opts []Option) (pigment.ColorSpace, error) {
	s, err := New[T, E](f.model, f.format, p, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}
