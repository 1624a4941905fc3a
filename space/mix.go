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
	"seehuhn.de/go/pigment/cms"
)

// MixColors implements the [pigment.ColorSpace] interface.
//
// The weights are normally non-negative and sum to 255.  Colour channels
// are averaged with weights proportional to the weight times the alpha of
// each pixel, and the result alpha is the weighted alpha sum divided by
// 255.  If the total weight is zero, dst is set to a transparent pixel.
func (s *Space[T, E]) MixColors(colors [][]byte, weights []int16, dst []byte) error {
	if len(colors) != len(weights) {
		return pigment.ErrInvalidArgument
	}
	if len(dst) < s.size {
		return pigment.ErrShortBuffer
	}
	for _, c := range colors {
		if len(c) < s.size {
			return pigment.ErrShortBuffer
		}
	}

	totals := make([]float64, len(s.chans))
	totalAlpha := 0.0
	for k, c := range colors {
		w := s.enc.Float(s.alphaOf(c)) * float64(weights[k])
		for i, ch := range s.chans {
			if i == s.alphaPos && s.alpha >= 0 {
				continue
			}
			totals[i] += s.enc.Float(s.enc.Load(c[ch.Offset:])) * w
		}
		totalAlpha += w
	}

	if totalAlpha <= 0 {
		clear(dst[:s.size])
		return nil
	}
	for i, ch := range s.chans {
		if i == s.alphaPos && s.alpha >= 0 {
			continue
		}
		s.enc.Store(dst[ch.Offset:], s.enc.FromFloat(totals[i]/totalAlpha))
	}
	s.setAlpha(dst, s.enc.FromFloat(min(totalAlpha/math.MaxUint8, 1)))
	return nil
}

// ConvolveColors implements the [pigment.ColorSpace] interface.
//
// Each channel of dst is set to the kernel-weighted sum of the input
// channels divided by factor, plus offset.  Offset is given in normalised
// units.  Transparent input pixels do not contribute to the colour
// channels; the colour weights are rescaled instead.  If channelFlags is
// non-nil, only the channels selected by it are modified.
func (s *Space[T, E]) ConvolveColors(colors [][]byte, kernel []float64, dst []byte, factor, offset float64, channelFlags []bool) error {
	if len(colors) != len(kernel) || factor == 0 {
		return pigment.ErrInvalidArgument
	}
	if channelFlags != nil && len(channelFlags) != len(s.chans) {
		return pigment.ErrInvalidArgument
	}
	if len(dst) < s.size {
		return pigment.ErrShortBuffer
	}
	for _, c := range colors {
		if len(c) < s.size {
			return pigment.ErrShortBuffer
		}
	}

	totals := make([]float64, len(s.chans))
	var totalAlpha, totalWeight, transparentWeight float64
	for k, c := range colors {
		w := kernel[k]
		if w == 0 {
			continue
		}
		alpha := s.enc.Float(s.alphaOf(c))
		if alpha == 0 {
			transparentWeight += w
		} else {
			for i, ch := range s.chans {
				if i == s.alphaPos && s.alpha >= 0 {
					continue
				}
				totals[i] += s.enc.Float(s.enc.Load(c[ch.Offset:])) * w
			}
		}
		totalAlpha += alpha * w
		totalWeight += w
	}

	if transparentWeight != 0 && transparentWeight == totalWeight {
		// all contributing pixels are transparent
		return nil
	}

	scale := 1 / factor
	if transparentWeight != 0 {
		opaqueWeight := totalWeight - transparentWeight
		if totalWeight == factor {
			scale = 1 / opaqueWeight
		} else {
			scale = totalWeight / (factor * opaqueWeight)
		}
	}

	for i, ch := range s.chans {
		if channelFlags != nil && !channelFlags[i] {
			continue
		}
		var v float64
		if i == s.alphaPos && s.alpha >= 0 {
			v = totalAlpha/factor + offset
		} else {
			v = totals[i]*scale + offset
		}
		s.enc.Store(dst[ch.Offset:], s.enc.FromFloat(v))
	}
	return nil
}

// Darken implements the [pigment.ColorSpace] interface.
//
// The colour channels are scaled by shade/255, or by
// shade/(255*compensation) if compensate is set.  For Lab, only the
// lightness is changed.  For subtractive models the amount of ink is
// increased instead.  Alpha is copied unchanged.
func (s *Space[T, E]) Darken(src, dst []byte, shade int, compensate bool, compensation float64, n int) error {
	if err := s.format.Check(src, n); err != nil {
		return err
	}
	if err := s.format.Check(dst, n); err != nil {
		return err
	}
	if compensate && compensation <= 0 {
		return pigment.ErrInvalidArgument
	}

	f := float64(shade) / math.MaxUint8
	if compensate {
		f /= compensation
	}
	subtractive := s.model.Subtractive()
	colors := len(s.colorOff)
	if s.model.ID() == pigment.ModelLABA {
		colors = 1
	}

	for k := range n {
		sp := src[k*s.size : (k+1)*s.size]
		dp := dst[k*s.size : (k+1)*s.size]
		copy(dp, sp)
		for _, off := range s.colorOff[:colors] {
			v := s.enc.Float(s.enc.Load(sp[off:]))
			if subtractive {
				v = 1 - (1-v)*f
			} else {
				v *= f
			}
			s.enc.Store(dp[off:], s.enc.FromFloat(v))
		}
	}
	return nil
}

// InvertColor implements the [pigment.ColorSpace] interface.
//
// Colour channels are inverted in device space for RGB, CMYK and Gray,
// and through the display colour for Lab and XYZ.  For the alpha model
// the alpha channel is inverted.
func (s *Space[T, E]) InvertColor(pixels []byte, n int) error {
	if err := s.format.Check(pixels, n); err != nil {
		return err
	}
	for k := range n {
		px := pixels[k*s.size:]
		switch s.model.ID() {
		case pigment.ModelAlpha:
			s.setAlpha(px, s.enc.Inv(s.alphaOf(px)))
		case pigment.ModelLABA, pigment.ModelXYZA:
			c, alpha, err := s.ToDisplayColor(px, nil)
			if err != nil {
				return err
			}
			c = pigment.DisplayColor{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B}
			if err := s.FromDisplayColor(px, c, alpha, nil); err != nil {
				return err
			}
		default:
			for _, off := range s.colorOff {
				s.enc.Store(px[off:], s.enc.Inv(s.enc.Load(px[off:])))
			}
		}
	}
	return nil
}

// Intensity8 implements the [pigment.ColorSpace] interface.
// The intensity is computed from the sRGB display colour, using the
// weights 0.30, 0.59 and 0.11.
func (s *Space[T, E]) Intensity8(src []byte) (uint8, error) {
	if len(src) < s.size {
		return 0, pigment.ErrShortBuffer
	}
	if s.model.ID() == pigment.ModelAlpha {
		return s.enc.ToU8(s.alphaOf(src)), nil
	}
	c, _, err := s.ToDisplayColor(src, nil)
	if err != nil {
		return 0, err
	}
	y := 0.30*c.R + 0.59*c.G + 0.11*c.B
	return uint8(math.Round(min(max(y, 0), 1) * math.MaxUint8)), nil
}

// Difference implements the [pigment.ColorSpace] interface.
//
// For the alpha model, this is the absolute difference of the alpha
// values.  Otherwise the result is the larger of the CIE 1976 colour
// difference and the alpha difference scaled to [0, 255], clamped to 255.
func (s *Space[T, E]) Difference(a, b []byte) (uint8, error) {
	if len(a) < s.size || len(b) < s.size {
		return 0, pigment.ErrShortBuffer
	}
	if s.model.ID() == pigment.ModelAlpha {
		x := int(s.enc.ToU8(s.alphaOf(a)))
		y := int(s.enc.ToU8(s.alphaOf(b)))
		if x > y {
			return uint8(x - y), nil
		}
		return uint8(y - x), nil
	}

	labA, alphaA := s.labOf(a)
	labB, alphaB := s.labOf(b)
	d := max(cms.DeltaE76(labA, labB), math.Abs(alphaA-alphaB)*math.MaxUint8)
	return uint8(math.Round(min(d, math.MaxUint8))), nil
}
