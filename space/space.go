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

// Package space implements [pigment.ColorSpace] for all combinations of
// colour model and channel encoding.
//
// The implementation is generic in the channel value type.  The type
// parameter E is one of the zero-size encodings from the pixel package, so
// that the per-pixel loops are specialised at compile time:
//
//	rgb8, err := space.New[uint8, pixel.U8](model, format, profile.SRGB())
//
// Most users obtain colour spaces through the registry package instead of
// calling New directly.
package space

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/profile"
)

// DefaultCacheSize is the default number of colour transformations kept by
// every colour space.
const DefaultCacheSize = 64

// maxColors is the largest number of colour channels of any model.
const maxColors = 4

// Option configures a colour space.
type Option func(*config)

type config struct {
	id        string
	name      string
	cacheSize int
	logger    *slog.Logger
}

// WithID overrides the colour space ID.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// WithName overrides the human readable colour space name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithCacheSize sets the number of cached colour transformations.
func WithCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = n }
}

// WithLogger sets the logger used for diagnostics.
// By default, nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Space is a colour space with channel values of type T.
type Space[T any, E pixel.Encoding[T]] struct {
	enc E

	id     string
	name   string
	model  Model
	depth  pigment.DepthID
	format *pigment.PixelFormat
	prof   *profile.Profile

	size     int
	chans    []pigment.ChannelInfo
	colorOff []int // byte offsets of the colour channels, in model order
	colorPos []int // positions of the colour channels in chans, in model order
	alpha    int   // byte offset of the alpha channel, or pigment.NoAlpha
	alphaPos int   // position of the alpha channel in chans

	ops     []pigment.CompositeOp
	opIndex map[pigment.CompositeOpID]pigment.CompositeOp

	cache  *lru.Cache[cacheKey, cacheEntry]
	logger *slog.Logger
}

var _ pigment.ColorSpace = (*Space[uint8, pixel.U8])(nil)

// New constructs a colour space.  The channels of format must all use the
// value type of E, and must contain exactly the colour channels of the
// model.  The profile p may be nil.
func New[T any, E pixel.Encoding[T]](model Model, format *pigment.PixelFormat, p *profile.Profile, opts ...Option) (*Space[T, E], error) {
	var enc E
	if model == nil || format == nil {
		return nil, pigment.ErrInvalidArgument
	}
	depth, err := pigment.DepthFor(enc.ValueType(), 0)
	if err != nil {
		return nil, err
	}

	cfg := config{
		id:        pigment.SpaceID(model.ID(), depth),
		name:      pigment.SpaceName(model.ID(), depth),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.cacheSize <= 0 {
		cfg.cacheSize = DefaultCacheSize
	}

	for _, c := range format.Channels() {
		if c.ValueType != enc.ValueType() {
			return nil, pigment.NewConfigError(pigment.InvalidChannel, c.Name,
				fmt.Errorf("value type %s, expected %s", c.ValueType, enc.ValueType()))
		}
	}

	names := model.ColorNames()
	if format.ColorChannelCount() != len(names) {
		return nil, pigment.NewConfigError(pigment.InvalidChannel, cfg.id,
			fmt.Errorf("%d colour channels, expected %d", format.ColorChannelCount(), len(names)))
	}
	s := &Space[T, E]{
		id:       cfg.id,
		name:     cfg.name,
		model:    model,
		depth:    depth,
		format:   format,
		prof:     p,
		size:     format.PixelSize(),
		chans:    format.Channels(),
		alpha:    format.AlphaOffset(),
		alphaPos: format.AlphaIndex(),
		logger:   cfg.logger,
	}
	for _, name := range names {
		c, ok := format.ChannelByShortName(name)
		if !ok || c.Role != pigment.RoleColor {
			return nil, pigment.NewConfigError(pigment.InvalidChannel, name,
				fmt.Errorf("missing colour channel for model %s", model.ID()))
		}
		s.colorOff = append(s.colorOff, c.Offset)
		for pos, ci := range s.chans {
			if ci.Offset == c.Offset {
				s.colorPos = append(s.colorPos, pos)
				break
			}
		}
	}
	if len(names) == 0 && !format.HasAlpha() {
		return nil, pigment.NewConfigError(pigment.InvalidChannel, cfg.id,
			fmt.Errorf("model %s needs an alpha channel", model.ID()))
	}

	if p != nil && p.ColorSpace() != model.Signature() {
		return nil, pigment.NewConfigError(pigment.IncompatibleProfile, p.Name(),
			fmt.Errorf("profile colour space %s, model %s", p.ColorSpace(), model.ID()))
	}

	s.cache, err = lru.New[cacheKey, cacheEntry](cfg.cacheSize)
	if err != nil {
		return nil, err
	}

	s.ops = s.standardOps()
	s.opIndex = make(map[pigment.CompositeOpID]pigment.CompositeOp, len(s.ops))
	for _, op := range s.ops {
		s.opIndex[op.ID()] = op
	}
	return s, nil
}

// NewDefault constructs a colour space with the default channel layout of
// the model.
func NewDefault[T any, E pixel.Encoding[T]](model Model, p *profile.Profile, opts ...Option) (*Space[T, E], error) {
	var enc E
	format, err := pigment.NewPixelFormat(model.Layout(enc.ValueType())...)
	if err != nil {
		return nil, err
	}
	return New[T, E](model, format, p, opts...)
}

// == Identity ================================================================

// ID implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ID() string { return s.id }

// Name implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) Name() string { return s.name }

// ColorModelID implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ColorModelID() pigment.ModelID { return s.model.ID() }

// ColorDepthID implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ColorDepthID() pigment.DepthID { return s.depth }

// Profile implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) Profile() *profile.Profile { return s.prof }

// Model returns the colour model of the space.
func (s *Space[T, E]) Model() Model { return s.model }

// Equal implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) Equal(other pigment.ColorSpace) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*Space[T, E]); ok && o == s {
		return true
	}
	return other.ID() == s.id && other.Profile() == s.prof
}

func (s *Space[T, E]) String() string {
	if s.prof == nil {
		return s.id
	}
	return s.id + " (" + s.prof.Name() + ")"
}

// == Geometry ================================================================

// Format implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) Format() *pigment.PixelFormat { return s.format }

// PixelSize implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) PixelSize() int { return s.size }

// ChannelCount implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ChannelCount() int { return len(s.chans) }

// ColorChannelCount implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ColorChannelCount() int { return len(s.colorOff) }

// Channels implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) Channels() []pigment.ChannelInfo { return s.format.Channels() }

// HasHighDynamicRange implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) HasHighDynamicRange() bool { return s.enc.IsHDR() }

// WillDegrade implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) WillDegrade(target pigment.Independence) bool {
	hdr := s.enc.IsHDR()
	switch target {
	case pigment.ToLab16:
		return hdr
	case pigment.ToRGBA8:
		if s.depth != pigment.DepthU8 {
			return true
		}
		return !s.isDisplayLike()
	case pigment.ToRGBA16:
		return hdr || !s.isDisplayLike()
	}
	return true
}

// isDisplayLike reports whether every colour of the space can be shown on
// an sRGB display.
func (s *Space[T, E]) isDisplayLike() bool {
	switch s.model.ID() {
	case pigment.ModelRGBA, pigment.ModelGRAYA, pigment.ModelAlpha:
		return true
	}
	return false
}
