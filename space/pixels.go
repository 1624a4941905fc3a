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
	"strconv"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/internal/float"
)

// alphaOf returns the alpha value of a pixel.  Pixels without alpha channel
// are opaque.
func (s *Space[T, E]) alphaOf(px []byte) T {
	if s.alpha < 0 {
		return s.enc.Unit()
	}
	return s.enc.Load(px[s.alpha:])
}

func (s *Space[T, E]) setAlpha(px []byte, v T) {
	if s.alpha >= 0 {
		s.enc.Store(px[s.alpha:], v)
	}
}

func (s *Space[T, E]) isUnit(v T) bool {
	return !s.enc.Less(v, s.enc.Unit())
}

// decode reads the colour channels of a pixel in device units.
// The caller must check the buffer sizes.
func (s *Space[T, E]) decode(px []byte, device []float64) float64 {
	var norm [maxColors]float64
	n := len(s.colorOff)
	for i, off := range s.colorOff {
		norm[i] = s.enc.Float(s.enc.Load(px[off:]))
	}
	if n > 0 {
		s.model.ToDevice(norm[:n], device)
	}
	return s.enc.Float(s.alphaOf(px))
}

func (s *Space[T, E]) encode(px []byte, device []float64, opacity float64) {
	var norm [maxColors]float64
	n := len(s.colorOff)
	if n > 0 {
		s.model.FromDevice(device, norm[:n])
	}
	for i, off := range s.colorOff {
		s.enc.Store(px[off:], s.enc.FromFloat(norm[i]))
	}
	s.setAlpha(px, s.enc.FromFloat(opacity))
}

// DecodePixel implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) DecodePixel(src []byte, color []float64) (float64, error) {
	if len(src) < s.size {
		return 0, pigment.ErrShortBuffer
	}
	if len(color) < len(s.colorOff) {
		return 0, pigment.ErrInvalidArgument
	}
	return s.decode(src, color), nil
}

// EncodePixel implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) EncodePixel(dst []byte, color []float64, opacity float64) error {
	if len(dst) < s.size {
		return pigment.ErrShortBuffer
	}
	if len(color) < len(s.colorOff) {
		return pigment.ErrInvalidArgument
	}
	s.encode(dst, color, opacity)
	return nil
}

// NormalisedChannelsValue implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) NormalisedChannelsValue(pixel []byte, values []float64) error {
	if len(pixel) < s.size {
		return pigment.ErrShortBuffer
	}
	if len(values) < len(s.chans) {
		return pigment.ErrInvalidArgument
	}
	for i, c := range s.chans {
		values[i] = s.enc.Float(s.enc.Load(pixel[c.Offset:]))
	}
	return nil
}

// FromNormalisedChannelsValue implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) FromNormalisedChannelsValue(pixel []byte, values []float64) error {
	if len(pixel) < s.size {
		return pigment.ErrShortBuffer
	}
	if len(values) < len(s.chans) {
		return pigment.ErrInvalidArgument
	}
	for i, c := range s.chans {
		s.enc.Store(pixel[c.Offset:], s.enc.FromFloat(values[i]))
	}
	return nil
}

func (s *Space[T, E]) channelValue(pixel []byte, index int) (float64, error) {
	if index < 0 || index >= len(s.chans) {
		return 0, pigment.ErrChannelIndex
	}
	if len(pixel) < s.size {
		return 0, pigment.ErrShortBuffer
	}
	return s.enc.Float(s.enc.Load(pixel[s.chans[index].Offset:])), nil
}

// ChannelValueText implements the [pigment.ColorSpace] interface.
// Integer channels are shown as raw integers, float channels as decimal
// numbers.
func (s *Space[T, E]) ChannelValueText(pixel []byte, index int) (string, error) {
	v, err := s.channelValue(pixel, index)
	if err != nil {
		return "", err
	}
	switch s.enc.ValueType() {
	case pigment.UInt8:
		return strconv.Itoa(int(math.Round(v * math.MaxUint8))), nil
	case pigment.UInt16:
		return strconv.Itoa(int(math.Round(v * math.MaxUint16))), nil
	default:
		return float.Format(v, 4), nil
	}
}

// NormalisedChannelValueText implements the [pigment.ColorSpace] interface.
// The value is shown as a percentage of the unit value.
func (s *Space[T, E]) NormalisedChannelValueText(pixel []byte, index int) (string, error) {
	v, err := s.channelValue(pixel, index)
	if err != nil {
		return "", err
	}
	return float.Percent(v, 1), nil
}

// == Opacity =================================================================

// Opacity implements the [pigment.ColorSpace] interface.
// If pixel is too short, 0 is returned.
func (s *Space[T, E]) Opacity(pixel []byte) uint8 {
	if len(pixel) < s.size {
		return 0
	}
	return s.enc.ToU8(s.alphaOf(pixel))
}

// OpacityF implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) OpacityF(pixel []byte) float64 {
	if len(pixel) < s.size {
		return 0
	}
	return s.enc.Float(s.alphaOf(pixel))
}

// SetOpacity implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) SetOpacity(pixels []byte, alpha uint8, n int) error {
	return s.SetOpacityF(pixels, float64(alpha)/math.MaxUint8, n)
}

// SetOpacityF implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) SetOpacityF(pixels []byte, alpha float64, n int) error {
	if err := s.format.Check(pixels, n); err != nil {
		return err
	}
	a := s.enc.FromFloat(alpha)
	for i := range n {
		s.setAlpha(pixels[i*s.size:], a)
	}
	return nil
}

// MultiplyAlpha implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) MultiplyAlpha(pixels []byte, alpha uint8, n int) error {
	if err := s.format.Check(pixels, n); err != nil {
		return err
	}
	if s.alpha < 0 {
		return nil
	}
	f := s.enc.FromU8(alpha)
	for i := range n {
		px := pixels[i*s.size:]
		s.setAlpha(px, s.enc.Mul(s.alphaOf(px), f))
	}
	return nil
}

// ApplyAlphaU8Mask implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ApplyAlphaU8Mask(pixels []byte, mask []uint8, n int) error {
	return s.applyMask(pixels, mask, n, false)
}

// ApplyInverseAlphaU8Mask implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ApplyInverseAlphaU8Mask(pixels []byte, mask []uint8, n int) error {
	return s.applyMask(pixels, mask, n, true)
}

func (s *Space[T, E]) applyMask(pixels []byte, mask []uint8, n int, inverse bool) error {
	if err := s.format.Check(pixels, n); err != nil {
		return err
	}
	if len(mask) < n {
		return pigment.ErrShortBuffer
	}
	if s.alpha < 0 {
		return nil
	}
	for i := range n {
		m := mask[i]
		if inverse {
			m = math.MaxUint8 - m
		}
		px := pixels[i*s.size:]
		s.setAlpha(px, s.enc.Mul(s.alphaOf(px), s.enc.FromU8(m)))
	}
	return nil
}
