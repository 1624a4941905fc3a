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
	"slices"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/cms"
)

// labRoundTrip prepares the Lab transformations for an adjustment.  A nil
// result means that the built-in colorimetry of the model is used.
func (s *Space[T, E]) labRoundTrip() *cms.LabRoundTrip {
	if s.prof == nil || s.model.ID() == pigment.ModelLABA {
		return nil
	}
	rt, err := cms.NewLabRoundTrip(s.prof, cms.Perceptual, 0)
	if err != nil {
		return nil
	}
	return rt
}

// CreateBrightnessContrastAdjustment implements the [pigment.ColorSpace]
// interface.  The transfer curve is applied to the CIE lightness of every
// pixel.
func (s *Space[T, E]) CreateBrightnessContrastAdjustment(transfer pigment.TransferCurve) (*pigment.Adjustment, error) {
	if len(s.colorOff) == 0 {
		return nil, pigment.ErrUnsupportedModel
	}
	return &pigment.Adjustment{
		Kind:      pigment.AdjustBrightnessContrast,
		SpaceID:   s.id,
		Lightness: slices.Clone(transfer),
		Lab:       s.labRoundTrip(),
	}, nil
}

// CreateDesaturateAdjustment implements the [pigment.ColorSpace] interface.
// Desaturation keeps the CIE lightness and removes the chroma.
func (s *Space[T, E]) CreateDesaturateAdjustment() (*pigment.Adjustment, error) {
	if len(s.colorOff) == 0 {
		return nil, pigment.ErrUnsupportedModel
	}
	return &pigment.Adjustment{
		Kind:    pigment.AdjustDesaturate,
		SpaceID: s.id,
		Lab:     s.labRoundTrip(),
	}, nil
}

// CreatePerChannelAdjustment implements the [pigment.ColorSpace] interface.
// There must be one transfer curve per channel, in index order.  Empty
// curves leave the corresponding channel unchanged.
func (s *Space[T, E]) CreatePerChannelAdjustment(transfers []pigment.TransferCurve) (*pigment.Adjustment, error) {
	if len(transfers) != len(s.chans) {
		return nil, pigment.ErrInvalidArgument
	}
	curves := make([]pigment.TransferCurve, len(transfers))
	for i, c := range transfers {
		curves[i] = slices.Clone(c)
	}
	return &pigment.Adjustment{
		Kind:     pigment.AdjustPerChannel,
		SpaceID:  s.id,
		Channels: curves,
	}, nil
}

// ApplyAdjustment implements the [pigment.ColorSpace] interface.
// Src and dst may be the same slice.
func (s *Space[T, E]) ApplyAdjustment(src, dst []byte, adj *pigment.Adjustment, n int) error {
	if adj == nil {
		return pigment.ErrInvalidArgument
	}
	if adj.SpaceID != s.id {
		return pigment.ErrIncompatibleSpace
	}
	if err := s.format.Check(src, n); err != nil {
		return err
	}
	if err := s.format.Check(dst, n); err != nil {
		return err
	}

	switch adj.Kind {
	case pigment.AdjustBrightnessContrast, pigment.AdjustDesaturate:
		for k := range n {
			sp := src[k*s.size : (k+1)*s.size]
			dp := dst[k*s.size : (k+1)*s.size]
			lab, alpha := s.adjustmentLab(sp, adj.Lab)
			if adj.Kind == pigment.AdjustBrightnessContrast {
				lab.L = adj.Lightness.Eval(lab.L/100) * 100
			} else {
				lab.A, lab.B = 0, 0
			}
			copy(dp, sp)
			s.setAdjustmentLab(dp, lab, alpha, adj.Lab)
		}
	case pigment.AdjustPerChannel:
		if len(adj.Channels) != len(s.chans) {
			return pigment.ErrInvalidArgument
		}
		for k := range n {
			sp := src[k*s.size:]
			dp := dst[k*s.size:]
			for i, ch := range s.chans {
				v := s.enc.Float(s.enc.Load(sp[ch.Offset:]))
				s.enc.Store(dp[ch.Offset:], s.enc.FromFloat(adj.Channels[i].Eval(v)))
			}
		}
	default:
		return pigment.ErrInvalidArgument
	}
	return nil
}

func (s *Space[T, E]) adjustmentLab(px []byte, rt *cms.LabRoundTrip) (cms.Lab, float64) {
	if rt == nil {
		return s.labOf(px)
	}
	var device, lab [maxColors]float64
	alpha := s.decode(px, device[:])
	rt.ToLab.Apply(device[:], lab[:])
	return cms.Lab{L: lab[0], A: lab[1], B: lab[2]}, alpha
}

func (s *Space[T, E]) setAdjustmentLab(px []byte, c cms.Lab, alpha float64, rt *cms.LabRoundTrip) {
	if rt == nil {
		s.setLab(px, c, alpha)
		return
	}
	var device [maxColors]float64
	rt.FromLab.Apply([]float64{c.L, c.A, c.B}, device[:])
	s.encode(px, device[:], alpha)
}
