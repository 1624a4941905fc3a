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
	"errors"
	"log/slog"
	"sync"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/cms"
	"seehuhn.de/go/pigment/internal/colconv"
	"seehuhn.de/go/pigment/pixel"
	"seehuhn.de/go/pigment/profile"
)

// cacheKey identifies a transformation between the profile of a colour
// space and a peer profile.  If inbound is set, the transformation maps
// from the peer to the colour space.
type cacheKey struct {
	peer    *profile.Profile
	purpose string
	intent  cms.Intent
	flags   cms.Flags
	inbound bool
}

// cacheEntry also records failures, so that unsupported profile
// combinations are not retried for every pixel run.
type cacheEntry struct {
	t   *cms.Transform
	err error
}

const (
	purposeConvert = "convert"
	purposeDisplay = "display"
	purposeLab     = "lab"
)

// transform returns the (cached) transformation between the profile of s
// and peer.
func (s *Space[T, E]) transform(peer *profile.Profile, purpose string, inbound bool, intent cms.Intent, flags cms.Flags) (*cms.Transform, error) {
	key := cacheKey{
		peer:    peer,
		purpose: purpose,
		intent:  intent,
		flags:   flags,
		inbound: inbound,
	}
	if e, ok := s.cache.Get(key); ok {
		return e.t, e.err
	}

	var t *cms.Transform
	var err error
	if inbound {
		t, err = cms.NewTransform(peer, s.prof, intent, flags)
	} else {
		t, err = cms.NewTransform(s.prof, peer, intent, flags)
	}
	if err != nil {
		s.logger.Debug("colour transformation unavailable",
			slog.String("space", s.id),
			slog.Any("peer", peer),
			slog.String("purpose", purpose),
			slog.Any("err", err))
	}
	s.cache.Add(key, cacheEntry{t: t, err: err})
	return t, err
}

// ConvertPixelsTo implements the [pigment.ColorSpace] interface.
//
// Pixels are converted using the colour profiles of both spaces, if the
// colour engine supports them.  Otherwise colour spaces of the same model
// and profile are converted directly, and all other combinations go
// through sRGB.  Opacity is carried over unchanged.
func (s *Space[T, E]) ConvertPixelsTo(src, dst []byte, dstSpace pigment.ColorSpace, n int, intent pigment.RenderingIntent, flags pigment.ConversionFlags) error {
	if dstSpace == nil {
		return pigment.ErrNilColorSpace
	}
	if err := s.format.Check(src, n); err != nil {
		return err
	}
	if err := dstSpace.Format().Check(dst, n); err != nil {
		return err
	}
	if s.Equal(dstSpace) {
		copy(dst[:n*s.size], src)
		return nil
	}
	if !intent.Valid() {
		return pigment.ErrUnsupportedIntent
	}

	dstSize := dstSpace.PixelSize()
	var in, out [maxColors]float64

	if peer := dstSpace.Profile(); peer != nil && s.prof != nil {
		t, err := s.transform(peer, purposeConvert, false, intent, flags)
		if errors.Is(err, cms.ErrUnsupportedIntent) {
			return pigment.ErrUnsupportedIntent
		}
		if err == nil {
			for i := range n {
				alpha := s.decode(src[i*s.size:], in[:])
				t.Apply(in[:], out[:])
				err := dstSpace.EncodePixel(dst[i*dstSize:], out[:], alpha)
				if err != nil {
					return err
				}
			}
			return nil
		}
	}

	if dstSpace.ColorModelID() == s.model.ID() && dstSpace.Profile() == s.prof {
		for i := range n {
			alpha := s.decode(src[i*s.size:], in[:])
			err := dstSpace.EncodePixel(dst[i*dstSize:], in[:], alpha)
			if err != nil {
				return err
			}
		}
		return nil
	}

	for i := range n {
		c, alpha, err := s.ToDisplayColor(src[i*s.size:], nil)
		if err != nil {
			return err
		}
		err = dstSpace.FromDisplayColor(dst[i*dstSize:], c, alpha, nil)
		if err != nil {
			return err
		}
	}
	return nil
}

// ToDisplayColor implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ToDisplayColor(src []byte, p *profile.Profile) (pigment.DisplayColor, float64, error) {
	if len(src) < s.size {
		return pigment.DisplayColor{}, 0, pigment.ErrShortBuffer
	}
	if p == nil {
		p = profile.SRGB()
	}

	var device, rgb [maxColors]float64
	alpha := s.decode(src, device[:])
	if s.model.ID() == pigment.ModelAlpha {
		return pigment.DisplayColor{R: alpha, G: alpha, B: alpha}, 1, nil
	}

	if s.prof != nil {
		t, err := s.transform(p, purposeDisplay, false, cms.Perceptual, 0)
		if err == nil {
			t.Apply(device[:], rgb[:])
			return pigment.DisplayColor{R: rgb[0], G: rgb[1], B: rgb[2]}, alpha, nil
		}
	}

	rgb[0], rgb[1], rgb[2] = s.model.ToSRGB(device[:])
	if p != profile.SRGB() {
		if t, err := srgbTransform(p, false); err == nil {
			t.Apply(rgb[:3], rgb[:3])
		}
	}
	return pigment.DisplayColor{R: rgb[0], G: rgb[1], B: rgb[2]}, alpha, nil
}

// FromDisplayColor implements the [pigment.ColorSpace] interface.
// For the alpha model, the luminance of c scaled by opacity is stored.
func (s *Space[T, E]) FromDisplayColor(dst []byte, c pigment.DisplayColor, opacity float64, p *profile.Profile) error {
	if len(dst) < s.size {
		return pigment.ErrShortBuffer
	}
	if p == nil {
		p = profile.SRGB()
	}

	rgb := [maxColors]float64{c.R, c.G, c.B}
	var device [maxColors]float64

	if s.model.ID() == pigment.ModelAlpha {
		if p != profile.SRGB() {
			if t, err := srgbTransform(p, true); err == nil {
				t.Apply(rgb[:3], rgb[:3])
			}
		}
		y := colconv.SRGBToGray(rgb[0], rgb[1], rgb[2])
		s.setAlpha(dst, s.enc.FromFloat(y*opacity))
		return nil
	}

	if s.prof != nil {
		t, err := s.transform(p, purposeDisplay, true, cms.Perceptual, 0)
		if err == nil {
			t.Apply(rgb[:], device[:])
			s.encode(dst, device[:], opacity)
			return nil
		}
	}

	if p != profile.SRGB() {
		if t, err := srgbTransform(p, true); err == nil {
			t.Apply(rgb[:3], rgb[:3])
		}
	}
	s.model.FromSRGB(rgb[0], rgb[1], rgb[2], device[:])
	s.encode(dst, device[:], opacity)
	return nil
}

// srgbTransform returns a transformation between the built-in sRGB profile
// and a display profile.  If toSRGB is set, the transformation maps from p
// to sRGB.
func srgbTransform(p *profile.Profile, toSRGB bool) (*cms.Transform, error) {
	if toSRGB {
		return cms.NewTransform(p, profile.SRGB(), cms.Perceptual, 0)
	}
	return cms.NewTransform(profile.SRGB(), p, cms.Perceptual, 0)
}

// == Device independent formats ==============================================

var (
	lab16Once sync.Once
	lab16     *Space[uint16, pixel.U16]

	rgba16Once sync.Once
	rgba16     *Space[uint16, pixel.U16]
)

// Lab16 returns the colour space used by [Space.ToLab16]: 16-bit Lab with
// the built-in Lab profile.
func Lab16() *Space[uint16, pixel.U16] {
	lab16Once.Do(func() {
		var err error
		lab16, err = NewDefault[uint16, pixel.U16](labModel{}, profile.Lab())
		if err != nil {
			panic(err) // the built-in layout is always valid
		}
	})
	return lab16
}

// RGBA16 returns the colour space used by [Space.ToRGBA16]: 16-bit RGB
// with the built-in sRGB profile.
func RGBA16() *Space[uint16, pixel.U16] {
	rgba16Once.Do(func() {
		var err error
		rgba16, err = NewDefault[uint16, pixel.U16](rgbModel{}, profile.SRGB())
		if err != nil {
			panic(err)
		}
	})
	return rgba16
}

// ToLab16 implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ToLab16(src, dst []byte, n int) error {
	return s.ConvertPixelsTo(src, dst, Lab16(), n, cms.Perceptual, 0)
}

// FromLab16 implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) FromLab16(src, dst []byte, n int) error {
	return Lab16().ConvertPixelsTo(src, dst, s, n, cms.Perceptual, 0)
}

// ToRGBA16 implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ToRGBA16(src, dst []byte, n int) error {
	return s.ConvertPixelsTo(src, dst, RGBA16(), n, cms.Perceptual, 0)
}

// FromRGBA16 implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) FromRGBA16(src, dst []byte, n int) error {
	return RGBA16().ConvertPixelsTo(src, dst, s, n, cms.Perceptual, 0)
}

// == Lab helpers ==============================================================

// labOf returns the CIE Lab coordinates of a pixel together with its
// opacity.  The caller must check the buffer size.
func (s *Space[T, E]) labOf(px []byte) (cms.Lab, float64) {
	var device, lab [maxColors]float64
	alpha := s.decode(px, device[:])

	switch {
	case s.model.ID() == pigment.ModelLABA:
		return cms.Lab{L: device[0], A: device[1], B: device[2]}, alpha
	case s.model.ID() == pigment.ModelAlpha:
		return cms.Lab{L: alpha * 100}, 1
	case s.prof != nil:
		t, err := s.transform(profile.Lab(), purposeLab, false, cms.Perceptual, 0)
		if err == nil {
			t.Apply(device[:], lab[:])
			return cms.Lab{L: lab[0], A: lab[1], B: lab[2]}, alpha
		}
	}
	r, g, b := s.model.ToSRGB(device[:])
	L, A, B := colconv.SRGBToLab(r, g, b)
	return cms.Lab{L: L, A: A, B: B}, alpha
}

// setLab stores a Lab colour into a pixel.  The caller must check the
// buffer size.
func (s *Space[T, E]) setLab(px []byte, c cms.Lab, alpha float64) {
	var device [maxColors]float64
	lab := [maxColors]float64{c.L, c.A, c.B}

	switch {
	case s.model.ID() == pigment.ModelLABA:
		copy(device[:], lab[:3])
		s.encode(px, device[:], alpha)
		return
	case s.model.ID() == pigment.ModelAlpha:
		s.setAlpha(px, s.enc.FromFloat(c.L/100))
		return
	case s.prof != nil:
		t, err := s.transform(profile.Lab(), purposeLab, true, cms.Perceptual, 0)
		if err == nil {
			t.Apply(lab[:], device[:])
			s.encode(px, device[:], alpha)
			return
		}
	}
	r, g, b := colconv.LabToSRGB(c.L, c.A, c.B)
	s.model.FromSRGB(r, g, b, device[:])
	s.encode(px, device[:], alpha)
}
