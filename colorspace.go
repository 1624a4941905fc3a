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

package pigment

import (
	"seehuhn.de/go/pigment/cms"
	"seehuhn.de/go/pigment/profile"
)

// RenderingIntent selects how out-of-gamut colours are handled when
// converting between colour spaces.
type RenderingIntent = cms.Intent

// These are the ICC rendering intents.
const (
	IntentPerceptual           = cms.Perceptual
	IntentRelativeColorimetric = cms.RelativeColorimetric
	IntentSaturation           = cms.Saturation
	IntentAbsoluteColorimetric = cms.AbsoluteColorimetric
)

// ConversionFlags modify colour conversions.
type ConversionFlags = cms.Flags

// These are the supported conversion flags.
const (
	BlackPointCompensation = cms.BlackPointCompensation
	NoOptimization         = cms.NoOptimization
)

// ColorSpace gives meaning to the bytes of a pixel.
//
// All methods which take pixel buffers check the buffer sizes and return
// [ErrShortBuffer] instead of reading or writing out of bounds.  Channel
// values passed as []float64 are in device units of the colour model:
// RGB, CMYK and Gray use [0, 1], Lab uses L in [0, 100] and a, b in
// [-128, 127], and XYZ uses Y=1 for the media white.
type ColorSpace interface {
	// ID returns an identifier which is unique for the model and depth.
	ID() string
	Name() string
	ColorModelID() ModelID
	ColorDepthID() DepthID

	// Profile returns the attached colour profile, or nil.
	Profile() *profile.Profile

	// Equal reports whether both colour spaces have the same ID and the
	// same attached profile.
	Equal(other ColorSpace) bool

	Format() *PixelFormat
	PixelSize() int
	ChannelCount() int
	ColorChannelCount() int
	Channels() []ChannelInfo
	HasHighDynamicRange() bool

	// WillDegrade reports whether converting to the given device
	// independent format can lose information.
	WillDegrade(target Independence) bool

	// FromDisplayColor stores c, given in the display profile p, into dst.
	// If p is nil, sRGB is used.
	FromDisplayColor(dst []byte, c DisplayColor, opacity float64, p *profile.Profile) error

	// ToDisplayColor converts the pixel in src into the display profile
	// p and returns the colour together with its opacity.
	ToDisplayColor(src []byte, p *profile.Profile) (DisplayColor, float64, error)

	// DecodePixel reads the colour channels of a pixel, in model order
	// and device units, into color and returns the opacity in [0, 1].
	DecodePixel(src []byte, color []float64) (float64, error)

	// EncodePixel is the inverse of DecodePixel.
	EncodePixel(dst []byte, color []float64, opacity float64) error

	// NormalisedChannelsValue reads all channels of a pixel, in index
	// order.  Integer channels are mapped to [0, 1].
	NormalisedChannelsValue(pixel []byte, values []float64) error
	FromNormalisedChannelsValue(pixel []byte, values []float64) error

	ChannelValueText(pixel []byte, index int) (string, error)
	NormalisedChannelValueText(pixel []byte, index int) (string, error)

	// Opacity returns the alpha value of a pixel scaled to [0, 255].
	// Pixels without an alpha channel are opaque.
	Opacity(pixel []byte) uint8
	OpacityF(pixel []byte) float64
	SetOpacity(pixels []byte, alpha uint8, n int) error
	SetOpacityF(pixels []byte, alpha float64, n int) error
	MultiplyAlpha(pixels []byte, alpha uint8, n int) error
	ApplyAlphaU8Mask(pixels []byte, mask []uint8, n int) error
	ApplyInverseAlphaU8Mask(pixels []byte, mask []uint8, n int) error

	// ConvertPixelsTo converts n pixels from this colour space into
	// dstSpace.
	ConvertPixelsTo(src, dst []byte, dstSpace ColorSpace, n int, intent RenderingIntent, flags ConversionFlags) error

	ToLab16(src, dst []byte, n int) error
	FromLab16(src, dst []byte, n int) error
	ToRGBA16(src, dst []byte, n int) error
	FromRGBA16(src, dst []byte, n int) error

	CompositeOp(id CompositeOpID) (CompositeOp, bool)
	CompositeOps() []CompositeOp
	UserVisibleCompositeOps() []CompositeOp

	// BitBlt composites a rectangle of source pixels onto the destination,
	// converting the source pixels first if necessary.
	BitBlt(p *BlitParams) error

	MixColors(colors [][]byte, weights []int16, dst []byte) error
	ConvolveColors(colors [][]byte, kernel []float64, dst []byte, factor, offset float64, channelFlags []bool) error
	Darken(src, dst []byte, shade int, compensate bool, compensation float64, n int) error
	InvertColor(pixels []byte, n int) error
	Intensity8(src []byte) (uint8, error)
	Difference(a, b []byte) (uint8, error)

	CreateBrightnessContrastAdjustment(transfer TransferCurve) (*Adjustment, error)
	CreateDesaturateAdjustment() (*Adjustment, error)
	CreatePerChannelAdjustment(transfers []TransferCurve) (*Adjustment, error)
	ApplyAdjustment(src, dst []byte, adj *Adjustment, n int) error

	// ToXML serialises the colour of a pixel.  Alpha is not stored.
	ToXML(pixel []byte) ([]byte, error)
	FromXML(data []byte, dst []byte) error
}
