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

package profile

import (
	"encoding/binary"
	"strings"

	"golang.org/x/image/math/f64"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tag signatures.
const (
	sigDesc = 0x64657363 // "desc"
	sigCprt = 0x63707274 // "cprt"
	sigWtpt = 0x77747074 // "wtpt"
	sigRXYZ = 0x7258595A // "rXYZ"
	sigGXYZ = 0x6758595A // "gXYZ"
	sigBXYZ = 0x6258595A // "bXYZ"
	sigRTRC = 0x72545243 // "rTRC"
	sigGTRC = 0x67545243 // "gTRC"
	sigBTRC = 0x62545243 // "bTRC"
	sigKTRC = 0x6B545243 // "kTRC"
)

// PreferredLanguages lists the languages used to select between the
// translations of a multi-localized profile description.
var PreferredLanguages = []language.Tag{language.English}

type tagTable map[uint32][]byte

func readTags(data []byte) (tagTable, error) {
	if len(data) < 132 {
		return nil, &MalformedError{Err: errTagSize}
	}
	n := int(be32(data[128:]))
	if n < 0 || n > (len(data)-132)/12 {
		return nil, &MalformedError{Err: errTagSize}
	}
	tags := make(tagTable, n)
	for i := range n {
		entry := data[132+12*i:]
		sig := be32(entry)
		offset := uint64(be32(entry[4:]))
		size := uint64(be32(entry[8:]))
		if offset+size > uint64(len(data)) {
			return nil, &MalformedError{Tag: sigString(sig), Err: errTagSize}
		}
		tags[sig] = data[offset : offset+size]
	}
	return tags, nil
}

// text decodes a textDescriptionType, multiLocalizedUnicodeType or textType
// tag.
func (tags tagTable) text(sig uint32) (string, error) {
	data, ok := tags[sig]
	if !ok {
		return "", errMissingTag
	}
	if len(data) < 8 {
		return "", errTagSize
	}

	var s string
	switch string(data[:4]) {
	case "desc":
		if len(data) < 12 {
			return "", errTagSize
		}
		n := uint64(be32(data[8:]))
		if 12+n > uint64(len(data)) {
			return "", errTagSize
		}
		s = string(data[12 : 12+n])
	case "text":
		s = string(data[8:])
	case "mluc":
		var err error
		s, err = decodeMLUC(data)
		if err != nil {
			return "", err
		}
	default:
		return "", errTagType
	}

	s = strings.TrimRight(s, "\x00")
	return strings.TrimSpace(norm.NFC.String(s)), nil
}

func decodeMLUC(data []byte) (string, error) {
	if len(data) < 16 {
		return "", errTagSize
	}
	n := int(be32(data[8:]))
	recSize := int(be32(data[12:]))
	if recSize < 12 || n <= 0 || n > (len(data)-16)/recSize {
		return "", errTagSize
	}

	type record struct {
		tag    language.Tag
		offset uint64
		length uint64
	}
	records := make([]record, 0, n)
	tags := make([]language.Tag, 0, n)
	for i := range n {
		rec := data[16+i*recSize:]
		lang := strings.TrimSpace(string(rec[0:2]))
		region := strings.TrimSpace(string(rec[2:4]))
		id := lang
		if region != "" {
			id += "-" + region
		}
		tag := language.Make(id)
		records = append(records, record{
			tag:    tag,
			length: uint64(be32(rec[4:])),
			offset: uint64(be32(rec[8:])),
		})
		tags = append(tags, tag)
	}

	matcher := language.NewMatcher(tags)
	_, idx, _ := matcher.Match(PreferredLanguages...)
	rec := records[idx]
	if rec.offset+rec.length > uint64(len(data)) {
		return "", errTagSize
	}

	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(data[rec.offset : rec.offset+rec.length])
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (tags tagTable) xyz(sig uint32) (f64.Vec3, error) {
	data, ok := tags[sig]
	if !ok {
		return f64.Vec3{}, errMissingTag
	}
	if len(data) < 20 {
		return f64.Vec3{}, errTagSize
	}
	if string(data[:4]) != "XYZ " {
		return f64.Vec3{}, errTagType
	}
	return f64.Vec3{
		s15Fixed16(data[8:]),
		s15Fixed16(data[12:]),
		s15Fixed16(data[16:]),
	}, nil
}

func (tags tagTable) curve(sig uint32) (*Curve, error) {
	data, ok := tags[sig]
	if !ok {
		return nil, errMissingTag
	}
	return decodeCurve(data)
}

// matrixTRC extracts the colorants and tone curves of an RGB profile.
func (tags tagTable) matrixTRC() (Kind, f64.Mat3, []*Curve) {
	var cols [3]f64.Vec3
	for i, sig := range []uint32{sigRXYZ, sigGXYZ, sigBXYZ} {
		v, err := tags.xyz(sig)
		if err != nil {
			return KindUnsupported, f64.Mat3{}, nil
		}
		cols[i] = v
	}
	curves := make([]*Curve, 3)
	for i, sig := range []uint32{sigRTRC, sigGTRC, sigBTRC} {
		c, err := tags.curve(sig)
		if err != nil {
			return KindUnsupported, f64.Mat3{}, nil
		}
		curves[i] = c
	}
	m := f64.Mat3{
		cols[0][0], cols[1][0], cols[2][0],
		cols[0][1], cols[1][1], cols[2][1],
		cols[0][2], cols[1][2], cols[2][2],
	}
	return KindMatrixTRC, m, curves
}

func be16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func be32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func s15Fixed16(b []byte) float64 {
	return float64(int32(be32(b))) / 65536
}

func sigString(sig uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], sig)
	return string(b[:])
}
