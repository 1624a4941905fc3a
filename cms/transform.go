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

// Package cms implements colour transformations between profiles.
//
// The engine supports matrix/TRC RGB profiles, gray TRC profiles and the
// built-in Lab and XYZ identity profiles.  All transformations connect
// through D50 XYZ.  Device values are passed as float64 slices, in the
// natural units of the profile's colour space: [0, 1] for RGB and gray,
// L in [0, 100] and a, b in [-128, 127] for Lab, and Y=1 for the media
// white in XYZ.
package cms

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f64"

	"seehuhn.de/go/pigment/internal/colconv"
	"seehuhn.de/go/pigment/profile"
)

// Intent is an ICC rendering intent.
type Intent int

// These are the ICC rendering intents.
const (
	Perceptual Intent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

// Valid reports whether i is one of the four ICC rendering intents.
func (i Intent) Valid() bool {
	return i >= Perceptual && i <= AbsoluteColorimetric
}

func (i Intent) String() string {
	switch i {
	case Perceptual:
		return "perceptual"
	case RelativeColorimetric:
		return "relative colorimetric"
	case Saturation:
		return "saturation"
	case AbsoluteColorimetric:
		return "absolute colorimetric"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

// Flags modify the behaviour of a transformation.
type Flags uint32

// These are the supported flags.
const (
	// BlackPointCompensation maps the black point of the source profile
	// to the black point of the destination profile.
	BlackPointCompensation Flags = 1 << iota

	// NoOptimization disables the short cut for transformations between
	// a profile and itself.
	NoOptimization
)

var (
	// ErrUnsupportedProfile is returned for profiles which the engine
	// cannot evaluate.  Callers are expected to fall back to their own
	// colorimetry.
	ErrUnsupportedProfile = errors.New("cms: unsupported profile")

	// ErrUnsupportedIntent is returned for invalid rendering intents.
	ErrUnsupportedIntent = errors.New("cms: unsupported rendering intent")
)

// Transform converts device values from one profile to another.
// Transforms are immutable and can be shared between goroutines.
type Transform struct {
	src, dst stage
	intent   Intent
	flags    Flags

	identity bool

	// adapt scales relative XYZ values to the destination
	adapt     f64.Vec3
	useAdapt  bool
	bpcScale  f64.Vec3
	bpcOffset f64.Vec3
	useBPC    bool
}

// NewTransform prepares a transformation from src to dst.
func NewTransform(src, dst *profile.Profile, intent Intent, flags Flags) (*Transform, error) {
	if src == nil || dst == nil {
		return nil, ErrUnsupportedProfile
	}
	if !intent.Valid() {
		return nil, ErrUnsupportedIntent
	}
	s, err := newStage(src)
	if err != nil {
		return nil, err
	}
	d, err := newStage(dst)
	if err != nil {
		return nil, err
	}

	t := &Transform{
		src:    s,
		dst:    d,
		intent: intent,
		flags:  flags,
	}
	if src == dst && flags&NoOptimization == 0 {
		t.identity = true
		return t, nil
	}

	if intent == AbsoluteColorimetric {
		sw, dw := src.MediaWhite(), dst.MediaWhite()
		for i := range 3 {
			t.adapt[i] = (sw[i] / colconv.WhitePointD50[i]) / (dw[i] / colconv.WhitePointD50[i])
		}
		t.useAdapt = t.adapt != f64.Vec3{1, 1, 1}
	} else if flags&BlackPointCompensation != 0 {
		sb, db := s.black(), d.black()
		if sb != db {
			w := colconv.WhitePointD50
			for i := range 3 {
				den := w[i] - sb[i]
				if den <= 0 {
					return nil, fmt.Errorf("%w: degenerate black point", ErrUnsupportedProfile)
				}
				t.bpcScale[i] = (w[i] - db[i]) / den
				t.bpcOffset[i] = w[i] - t.bpcScale[i]*w[i]
			}
			t.useBPC = true
		}
	}
	return t, nil
}

// Intent returns the rendering intent of the transformation.
func (t *Transform) Intent() Intent {
	return t.intent
}

// Channels returns the number of input and output components.
func (t *Transform) Channels() (in, out int) {
	return t.src.channels(), t.dst.channels()
}

// Apply converts one colour.  The input slice must hold at least as many
// values as the source profile has components, and similarly for out.
func (t *Transform) Apply(in, out []float64) {
	if t.identity {
		copy(out[:t.dst.channels()], in[:t.src.channels()])
		return
	}
	v := t.src.toXYZ(in)
	if t.useAdapt {
		v = f64.Vec3{v[0] * t.adapt[0], v[1] * t.adapt[1], v[2] * t.adapt[2]}
	}
	if t.useBPC {
		for i := range 3 {
			v[i] = v[i]*t.bpcScale[i] + t.bpcOffset[i]
		}
	}
	t.dst.fromXYZ(v, out)
}

// ApplyN converts n colours, stored one after another.
func (t *Transform) ApplyN(in, out []float64, n int) {
	ni, no := t.Channels()
	for k := range n {
		t.Apply(in[k*ni:], out[k*no:])
	}
}

// LabRoundTrip holds the transformations between a profile and CIE Lab.
type LabRoundTrip struct {
	ToLab   *Transform
	FromLab *Transform
}

// NewLabRoundTrip prepares the transformations between p and the
// built-in Lab profile.
func NewLabRoundTrip(p *profile.Profile, intent Intent, flags Flags) (*LabRoundTrip, error) {
	to, err := NewTransform(p, profile.Lab(), intent, flags)
	if err != nil {
		return nil, err
	}
	from, err := NewTransform(profile.Lab(), p, intent, flags)
	if err != nil {
		return nil, err
	}
	return &LabRoundTrip{ToLab: to, FromLab: from}, nil
}
