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
	"encoding/xml"
	"fmt"
	"strconv"

	"seehuhn.de/go/pigment"
	"seehuhn.de/go/pigment/internal/float"
)

// xmlColor is the serialised form of a colour, for example
//
//	<RGB r="0.5" g="0.25" b="0.75" space="sRGB built-in"/>
//
// Colour values are in device units of the model.  The optional space
// attribute names the profile of the colour space.
type xmlColor struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

// ToXML implements the [pigment.ColorSpace] interface.
func (s *Space[T, E]) ToXML(pixel []byte) ([]byte, error) {
	if len(pixel) < s.size {
		return nil, pigment.ErrShortBuffer
	}
	tag, names := s.model.XMLTag()
	if tag == "" {
		return nil, pigment.ErrUnsupportedModel
	}

	var device [maxColors]float64
	s.decode(pixel, device[:])
	c := xmlColor{XMLName: xml.Name{Local: tag}}
	for i, name := range names {
		c.Attrs = append(c.Attrs, xml.Attr{
			Name:  xml.Name{Local: name},
			Value: float.Format(device[i], 6),
		})
	}
	if s.prof != nil {
		c.Attrs = append(c.Attrs, xml.Attr{
			Name:  xml.Name{Local: "space"},
			Value: s.prof.Name(),
		})
	}
	return xml.Marshal(c)
}

// FromXML implements the [pigment.ColorSpace] interface.
// The element name must match the colour model.  The resulting pixel is
// opaque.  The space attribute is ignored.
func (s *Space[T, E]) FromXML(data []byte, dst []byte) error {
	if len(dst) < s.size {
		return pigment.ErrShortBuffer
	}
	tag, names := s.model.XMLTag()
	if tag == "" {
		return pigment.ErrUnsupportedModel
	}

	var c xmlColor
	if err := xml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("pigment: invalid colour XML: %w", err)
	}
	if c.XMLName.Local != tag {
		return fmt.Errorf("pigment: unexpected element <%s>, expected <%s>: %w",
			c.XMLName.Local, tag, pigment.ErrIncompatibleSpace)
	}

	var device [maxColors]float64
	seen := make([]bool, len(names))
	for _, attr := range c.Attrs {
		for i, name := range names {
			if attr.Name.Local != name {
				continue
			}
			v, err := strconv.ParseFloat(attr.Value, 64)
			if err != nil {
				return fmt.Errorf("pigment: attribute %q: %w", name, err)
			}
			device[i] = v
			seen[i] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("pigment: missing attribute %q: %w", names[i], pigment.ErrInvalidArgument)
		}
	}
	s.encode(dst, device[:], 1)
	return nil
}
