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
	"image/color"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/internal/colconv"
	"seehuhn.de/go/pigment/profile"
)

// Model describes a colour model: the meaning of the colour channels, how
// normalised channel values map to device values, and the colorimetry used
// when no colour profile is available.
//
// Colour channels are identified by their short names.  The "model order"
// of the colour channels is the order of [Model.ColorNames], which is
// independent of the byte layout of a pixel.
type Model interface {
	ID() pigment.ModelID

	// Signature returns the ICC colour space signature of compatible
	// profiles, or 0 if the model does not use profiles.
	Signature() icc.ColorSpace

	// ColorNames returns the short names of the colour channels, in model
	// order.
	ColorNames() []string

	// Layout returns the default channels for the given value type.
	Layout(vt pigment.ValueType) []pigment.ChannelSpec

	// Subtractive reports whether larger channel values mean darker
	// colours.
	Subtractive() bool

	// ToDevice converts normalised channel values to device values.
	ToDevice(norm, device []float64)
	FromDevice(device, norm []float64)

	// ToSRGB and FromSRGB implement the colorimetry used when no colour
	// profile is available.
	ToSRGB(device []float64) (r, g, b float64)
	FromSRGB(r, g, b float64, device []float64)

	// DefaultProfile returns the profile attached to colour spaces of
	// this model by default, or nil.
	DefaultProfile() *profile.Profile

	// XMLTag returns the element name used for colour serialisation,
	// together with the attribute names of the colour channels.
	XMLTag() (string, []string)
}

// ModelFor returns the built-in colour model with the given ID.
func ModelFor(id pigment.ModelID) (Model, bool) {
	m, ok := models[id]
	return m, ok
}

// Models returns the IDs of all built-in colour models.
func Models() []pigment.ModelID {
	return []pigment.ModelID{
		pigment.ModelRGBA,
		pigment.ModelCMYKA,
		pigment.ModelLABA,
		pigment.ModelXYZA,
		pigment.ModelGRAYA,
		pigment.ModelAlpha,
	}
}

var models = map[pigment.ModelID]Model{
	pigment.ModelRGBA:  rgbModel{},
	pigment.ModelCMYKA: cmykModel{},
	pigment.ModelLABA:  labModel{},
	pigment.ModelXYZA:  xyzModel{},
	pigment.ModelGRAYA: grayModel{},
	pigment.ModelAlpha: alphaModel{},
}

type chanDef struct {
	name, short string
	display     color.NRGBA
}

// layout assigns consecutive indices to the given channels, followed by
// an alpha channel.
func layout(vt pigment.ValueType, defs ...chanDef) []pigment.ChannelSpec {
	res := make([]pigment.ChannelSpec, 0, len(defs)+1)
	for i, d := range defs {
		res = append(res, pigment.ChannelSpec{
			Name:         d.name,
			ShortName:    d.short,
			Index:        i,
			Role:         pigment.RoleColor,
			ValueType:    vt,
			DisplayColor: d.display,
		})
	}
	return append(res, pigment.ChannelSpec{
		Name:         "Alpha",
		ShortName:    "A",
		Index:        len(defs),
		Role:         pigment.RoleAlpha,
		ValueType:    vt,
		DisplayColor: color.NRGBA{A: 0xff},
	})
}

// identityDevice is used by models where device values are the normalised
// channel values.
type identityDevice struct{}

func (identityDevice) ToDevice(norm, device []float64)   { copy(device, norm) }
func (identityDevice) FromDevice(device, norm []float64) { copy(norm, device) }

// == RGB =====================================================================

type rgbModel struct{ identityDevice }

func (rgbModel) ID() pigment.ModelID       { return pigment.ModelRGBA }
func (rgbModel) Signature() icc.ColorSpace { return icc.RGBSpace }
func (rgbModel) ColorNames() []string      { return []string{"R", "G", "B"} }
func (rgbModel) Subtractive() bool         { return false }

// Layout stores integer pixels in blue, green, red, alpha order and float
// pixels in red, green, blue, alpha order.
func (rgbModel) Layout(vt pigment.ValueType) []pigment.ChannelSpec {
	red := chanDef{"Red", "R", color.NRGBA{R: 0xff, A: 0xff}}
	green := chanDef{"Green", "G", color.NRGBA{G: 0xff, A: 0xff}}
	blue := chanDef{"Blue", "B", color.NRGBA{B: 0xff, A: 0xff}}
	if vt.IsFloat() {
		return layout(vt, red, green, blue)
	}
	return layout(vt, blue, green, red)
}

func (rgbModel) ToSRGB(d []float64) (r, g, b float64) {
	return d[0], d[1], d[2]
}

func (rgbModel) FromSRGB(r, g, b float64, d []float64) {
	d[0], d[1], d[2] = r, g, b
}

func (rgbModel) DefaultProfile() *profile.Profile { return profile.SRGB() }

func (rgbModel) XMLTag() (string, []string) {
	return "RGB", []string{"r", "g", "b"}
}

// == CMYK ====================================================================

type cmykModel struct{ identityDevice }

func (cmykModel) ID() pigment.ModelID       { return pigment.ModelCMYKA }
func (cmykModel) Signature() icc.ColorSpace { return icc.CMYKSpace }
func (cmykModel) ColorNames() []string      { return []string{"C", "M", "Y", "K"} }
func (cmykModel) Subtractive() bool         { return true }

func (cmykModel) Layout(vt pigment.ValueType) []pigment.ChannelSpec {
	return layout(vt,
		chanDef{"Cyan", "C", color.NRGBA{G: 0xff, B: 0xff, A: 0xff}},
		chanDef{"Magenta", "M", color.NRGBA{R: 0xff, B: 0xff, A: 0xff}},
		chanDef{"Yellow", "Y", color.NRGBA{R: 0xff, G: 0xff, A: 0xff}},
		chanDef{"Black", "K", color.NRGBA{A: 0xff}},
	)
}

func (cmykModel) ToSRGB(d []float64) (r, g, b float64) {
	return colconv.CMYKToRGB(d[0], d[1], d[2], d[3])
}

func (cmykModel) FromSRGB(r, g, b float64, d []float64) {
	d[0], d[1], d[2], d[3] = colconv.RGBToCMYK(r, g, b)
}

// DefaultProfile returns nil: the engine has no support for the lookup
// table based profiles used for printing.
func (cmykModel) DefaultProfile() *profile.Profile { return nil }

func (cmykModel) XMLTag() (string, []string) {
	return "CMYK", []string{"c", "m", "y", "k"}
}

// == Lab =====================================================================

// labModel stores L in [0, 100] and a, b in [-128, 127], mapped linearly to
// the normalised range [0, 1] for all encodings.
type labModel struct{}

func (labModel) ID() pigment.ModelID       { return pigment.ModelLABA }
func (labModel) Signature() icc.ColorSpace { return icc.CIELabSpace }
func (labModel) ColorNames() []string      { return []string{"L", "a", "b"} }
func (labModel) Subtractive() bool         { return false }

func (labModel) Layout(vt pigment.ValueType) []pigment.ChannelSpec {
	return layout(vt,
		chanDef{"Lightness", "L", color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}},
		chanDef{"a*", "a", color.NRGBA{R: 0xff, G: 0x00, B: 0x80, A: 0xff}},
		chanDef{"b*", "b", color.NRGBA{R: 0xff, G: 0xc0, B: 0x00, A: 0xff}},
	)
}

func (labModel) ToDevice(norm, device []float64) {
	device[0] = norm[0] * 100
	device[1] = norm[1]*255 - 128
	device[2] = norm[2]*255 - 128
}

func (labModel) FromDevice(device, norm []float64) {
	norm[0] = device[0] / 100
	norm[1] = (device[1] + 128) / 255
	norm[2] = (device[2] + 128) / 255
}

func (labModel) ToSRGB(d []float64) (r, g, b float64) {
	return colconv.LabToSRGB(d[0], d[1], d[2])
}

func (labModel) FromSRGB(r, g, b float64, d []float64) {
	d[0], d[1], d[2] = colconv.SRGBToLab(r, g, b)
}

func (labModel) DefaultProfile() *profile.Profile { return profile.Lab() }

func (labModel) XMLTag() (string, []string) {
	return "Lab", []string{"L", "a", "b"}
}

// == XYZ =====================================================================

type xyzModel struct{ identityDevice }

func (xyzModel) ID() pigment.ModelID       { return pigment.ModelXYZA }
func (xyzModel) Signature() icc.ColorSpace { return icc.CIEXYZSpace }
func (xyzModel) ColorNames() []string      { return []string{"X", "Y", "Z"} }
func (xyzModel) Subtractive() bool         { return false }

func (xyzModel) Layout(vt pigment.ValueType) []pigment.ChannelSpec {
	return layout(vt,
		chanDef{"X", "X", color.NRGBA{R: 0xff, A: 0xff}},
		chanDef{"Y", "Y", color.NRGBA{G: 0xff, A: 0xff}},
		chanDef{"Z", "Z", color.NRGBA{B: 0xff, A: 0xff}},
	)
}

func (xyzModel) ToSRGB(d []float64) (r, g, b float64) {
	r, g, b = colconv.XYZToSRGB([3]float64{d[0], d[1], d[2]})
	return colconv.Clamp01(r), colconv.Clamp01(g), colconv.Clamp01(b)
}

func (xyzModel) FromSRGB(r, g, b float64, d []float64) {
	v := colconv.SRGBToXYZ(r, g, b)
	d[0], d[1], d[2] = v[0], v[1], v[2]
}

func (xyzModel) DefaultProfile() *profile.Profile { return profile.XYZ() }

func (xyzModel) XMLTag() (string, []string) {
	return "XYZ", []string{"x", "y", "z"}
}

// == Gray ====================================================================

type grayModel struct{ identityDevice }

func (grayModel) ID() pigment.ModelID       { return pigment.ModelGRAYA }
func (grayModel) Signature() icc.ColorSpace { return icc.GraySpace }
func (grayModel) ColorNames() []string      { return []string{"Y"} }
func (grayModel) Subtractive() bool         { return false }

func (grayModel) Layout(vt pigment.ValueType) []pigment.ChannelSpec {
	return layout(vt, chanDef{"Gray", "Y", color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}})
}

func (grayModel) ToSRGB(d []float64) (r, g, b float64) {
	return d[0], d[0], d[0]
}

func (grayModel) FromSRGB(r, g, b float64, d []float64) {
	d[0] = colconv.SRGBToGray(r, g, b)
}

func (grayModel) DefaultProfile() *profile.Profile { return profile.GraySRGB() }

func (grayModel) XMLTag() (string, []string) {
	return "Gray", []string{"g"}
}

// == Alpha ===================================================================

// alphaModel has a single channel which is both the colour and the
// opacity of a pixel.
type alphaModel struct{ identityDevice }

func (alphaModel) ID() pigment.ModelID       { return pigment.ModelAlpha }
func (alphaModel) Signature() icc.ColorSpace { return 0 }
func (alphaModel) ColorNames() []string      { return nil }
func (alphaModel) Subtractive() bool         { return false }

func (alphaModel) Layout(vt pigment.ValueType) []pigment.ChannelSpec {
	return layout(vt)
}

func (alphaModel) ToSRGB([]float64) (r, g, b float64)    { return 1, 1, 1 }
func (alphaModel) FromSRGB(r, g, b float64, d []float64) {}

func (alphaModel) DefaultProfile() *profile.Profile { return nil }

func (alphaModel) XMLTag() (string, []string) { return "", nil }
