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

// Package descriptor reads colour space descriptions from YAML files.
//
// A descriptor names a colour model and lists the channels of the pixel
// format.  Example:
//
//	id: RGBAF32
//	model: RGBA
//	valueType: float32
//	name: RGB (32-bit float/channel)
//	defaultProfile: sRGB built-in
//	hdr: true
//	channels:
//	  - {name: Red,   short: R, index: 0, type: color, color: "#ff0000"}
//	  - {name: Green, short: G, index: 1, type: color, color: "#00ff00"}
//	  - {name: Blue,  short: B, index: 2, type: color, color: "#0000ff"}
//	  - {name: Alpha, short: A, index: 3, type: alpha}
//
// Channels without a valueType inherit the value type of the descriptor.
// Unknown fields are rejected.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/pigment"
)

// Descriptor describes a colour space.
type Descriptor struct {
	ID             string    `yaml:"id"`
	Model          string    `yaml:"model"`
	Depth          string    `yaml:"depth,omitempty"`
	ValueType      string    `yaml:"valueType,omitempty"`
	Bits           int       `yaml:"bits,omitempty"`
	Name           string    `yaml:"name,omitempty"`
	DefaultProfile string    `yaml:"defaultProfile,omitempty"`
	HDR            bool      `yaml:"hdr,omitempty"`
	Channels       []Channel `yaml:"channels"`
}

// Channel describes one channel of the pixel format.
type Channel struct {
	Name      string `yaml:"name"`
	Short     string `yaml:"short"`
	Index     int    `yaml:"index"`
	Type      string `yaml:"type"`
	ValueType string `yaml:"valueType,omitempty"`
	Size      int    `yaml:"size,omitempty"`
	Color     string `yaml:"color,omitempty"` // "#rrggbb"
}

var knownModels = map[pigment.ModelID]bool{
	pigment.ModelRGBA:  true,
	pigment.ModelCMYKA: true,
	pigment.ModelLABA:  true,
	pigment.ModelXYZA:  true,
	pigment.ModelGRAYA: true,
	pigment.ModelAlpha: true,
}

// Parse decodes a descriptor from YAML data and validates it.
func Parse(data []byte) (*Descriptor, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a descriptor from r and validates it.
func Read(r io.Reader) (*Descriptor, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	d := &Descriptor{}
	if err := dec.Decode(d); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, pigment.NewConfigError(pigment.InvalidDescriptor, "", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads a descriptor from a file.
func Load(path string) (*Descriptor, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	d, err := Read(fd)
	if err != nil {
		var cErr *pigment.ConfigError
		if errors.As(err, &cErr) && cErr.Subject == "" {
			cErr.Subject = path
		}
		return nil, err
	}
	return d, nil
}

// Validate checks the descriptor for consistency.
func (d *Descriptor) Validate() error {
	invalid := func(format string, args ...any) error {
		return pigment.NewConfigError(pigment.InvalidDescriptor, d.ID, fmt.Errorf(format, args...))
	}

	if d.ID == "" {
		return invalid("missing id")
	}
	if !knownModels[pigment.ModelID(d.Model)] {
		return pigment.NewConfigError(pigment.UnknownModel, d.ID, fmt.Errorf("model %q", d.Model))
	}
	if len(d.Channels) == 0 {
		return invalid("no channels")
	}
	depth, err := d.DepthID()
	if err != nil {
		return err
	}
	if d.HDR && !depth.ValueType().IsFloat() {
		return invalid("hdr requires a floating point depth, not %s", depth)
	}
	for _, c := range d.Channels {
		if c.Short == "" {
			return invalid("channel %q has no short name", c.Name)
		}
		if c.Size < 0 {
			return invalid("channel %q has negative size", c.Name)
		}
	}
	_, err = d.Format()
	return err
}

// ModelID returns the colour model of the descriptor.
func (d *Descriptor) ModelID() pigment.ModelID {
	return pigment.ModelID(d.Model)
}

// DepthID returns the colour depth.  The depth is given either directly or
// through the valueType and bits fields.
func (d *Descriptor) DepthID() (pigment.DepthID, error) {
	if d.Depth != "" {
		depth := pigment.DepthID(d.Depth)
		if !depth.ValueType().Valid() {
			return "", pigment.NewConfigError(pigment.InvalidDescriptor, d.ID,
				fmt.Errorf("unknown depth %q", d.Depth))
		}
		if d.ValueType != "" {
			vt, err := pigment.ParseValueType(d.ValueType)
			if err != nil {
				return "", err
			}
			if vt != depth.ValueType() {
				return "", pigment.NewConfigError(pigment.InvalidDescriptor, d.ID,
					fmt.Errorf("depth %s does not match value type %s", depth, vt))
			}
		}
		return depth, nil
	}
	if d.ValueType == "" {
		return "", pigment.NewConfigError(pigment.InvalidDescriptor, d.ID,
			errors.New("neither depth nor valueType given"))
	}
	vt, err := pigment.ParseValueType(d.ValueType)
	if err != nil {
		return "", err
	}
	return pigment.DepthFor(vt, d.Bits)
}

// Format constructs the pixel format described by the channel list.
func (d *Descriptor) Format() (*pigment.PixelFormat, error) {
	depth, err := d.DepthID()
	if err != nil {
		return nil, err
	}

	specs := make([]pigment.ChannelSpec, len(d.Channels))
	for i, c := range d.Channels {
		role, err := pigment.ParseChannelRole(c.Type)
		if err != nil {
			return nil, err
		}
		vt := depth.ValueType()
		if c.ValueType != "" {
			vt, err = pigment.ParseValueType(c.ValueType)
			if err != nil {
				return nil, err
			}
		}
		col, err := parseColor(c.Color)
		if err != nil {
			return nil, pigment.NewConfigError(pigment.InvalidChannel, c.Name, err)
		}
		specs[i] = pigment.ChannelSpec{
			Name:         c.Name,
			ShortName:    c.Short,
			Index:        c.Index,
			Role:         role,
			ValueType:    vt,
			Size:         c.Size,
			DisplayColor: col,
		}
	}
	return pigment.NewPixelFormat(specs...)
}

// parseColor decodes colours of the form "#rrggbb".  The empty string
// gives opaque black.
func parseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{A: 255}, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	x, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	return color.NRGBA{R: uint8(x >> 16), G: uint8(x >> 8), B: uint8(x), A: 255}, nil
}

// Marshal encodes the descriptor as YAML.
func (d *Descriptor) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
