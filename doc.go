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

// Package pigment describes pixels and the colour spaces they live in.
//
// A pixel is an opaque sequence of bytes.  Its meaning is given by a
// [ColorSpace], which combines a colour model (RGB, CMYK, Lab, XYZ, Gray, or
// alpha-only), a numeric encoding of the channel values (8-bit and 16-bit
// unsigned integers, 16-bit and 32-bit floats), and an optional colour
// profile.  The byte layout of a pixel is described by a [PixelFormat], which
// is an ordered list of [ChannelInfo] values.
//
// This package only defines the contracts.  The generic implementation of
// colour spaces lives in the sub-package space, colour profiles are in
// profile, the colour management engine is in cms, and the process-wide
// mapping from (model, depth, profile) to colour space instances is in
// registry:
//
//	reg := registry.Default()
//	rgb, err := reg.GetColorSpace(pigment.SpaceID(pigment.ModelRGBA, pigment.DepthU8), "")
//	if err != nil {
//	    // handle error
//	}
//	px := make([]byte, rgb.PixelSize())
//	err = rgb.FromDisplayColor(px, pigment.DisplayColor{R: 1}, 1, nil)
//
// All operations on pixel buffers are synchronous.  A colour space instance
// may be shared between goroutines; scratch memory needed by [ColorSpace.BitBlt]
// is supplied by the caller through a [Scratch] value, which must not be
// shared.
package pigment
