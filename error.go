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
	"errors"
	"fmt"
	"strconv"

	"seehuhn.de/go/pigment/cms"
)

// ErrConfig is matched (using [errors.Is]) by every [ConfigError].
var ErrConfig = errors.New("pigment: configuration error")

// Errors returned by colour space operations.
var (
	ErrNilColorSpace     = errors.New("pigment: nil colour space")
	ErrIncompatibleSpace = errors.New("pigment: incompatible colour space")
	ErrUnsupportedIntent = cms.ErrUnsupportedIntent
	ErrChannelIndex      = errors.New("pigment: channel index out of range")
	ErrShortBuffer       = errors.New("pigment: pixel buffer too short")
	ErrInvalidOp         = errors.New("pigment: unknown composite op")
	ErrUnsupportedModel  = errors.New("pigment: colour model not supported")
	ErrInvalidArgument   = errors.New("pigment: invalid argument")
)

// ConfigErrorKind classifies configuration errors.
type ConfigErrorKind int

// These are the possible kinds of configuration errors.
const (
	DuplicateAlpha ConfigErrorKind = iota + 1
	UnknownValueType
	DuplicateIndex
	InvalidChannel
	UnknownModel
	UnknownProfile
	IncompatibleProfile
	InvalidDescriptor
)

func (k ConfigErrorKind) String() string {
	switch k {
	case DuplicateAlpha:
		return "more than one alpha channel"
	case UnknownValueType:
		return "unknown value type"
	case DuplicateIndex:
		return "duplicate channel index"
	case InvalidChannel:
		return "invalid channel"
	case UnknownModel:
		return "unknown colour model"
	case UnknownProfile:
		return "unknown profile"
	case IncompatibleProfile:
		return "incompatible profile"
	case InvalidDescriptor:
		return "invalid colour space descriptor"
	default:
		return "ConfigErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ConfigError is returned when a pixel format, colour space or profile
// cannot be constructed or looked up.  Configuration errors are never
// silently replaced by defaults.
type ConfigError struct {
	Kind ConfigErrorKind

	// Subject names the offending object, e.g. a channel or profile name.
	Subject string

	Err error
}

func (err *ConfigError) Error() string {
	msg := "pigment: " + err.Kind.String()
	if err.Subject != "" {
		msg += " " + strconv.Quote(err.Subject)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}

// Is reports whether target is [ErrConfig], or a ConfigError of the same
// kind.
func (err *ConfigError) Is(target error) bool {
	if target == ErrConfig {
		return true
	}
	other, ok := target.(*ConfigError)
	return ok && other.Kind == err.Kind
}

func newConfigError(kind ConfigErrorKind, subject string, format string, args ...any) *ConfigError {
	var inner error
	if format != "" {
		inner = fmt.Errorf(format, args...)
	}
	return &ConfigError{Kind: kind, Subject: subject, Err: inner}
}

// NewConfigError returns a configuration error of the given kind.
// This is used by the sub-packages which construct colour spaces.
func NewConfigError(kind ConfigErrorKind, subject string, err error) *ConfigError {
	return &ConfigError{Kind: kind, Subject: subject, Err: err}
}

// AllocationError is returned when a scratch buffer cannot be provided.
type AllocationError struct {
	Requested int
	Limit     int
}

func (err *AllocationError) Error() string {
	return fmt.Sprintf("pigment: cannot allocate %d bytes of scratch memory (limit %d)",
		err.Requested, err.Limit)
}
