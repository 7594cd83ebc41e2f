// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// CarState specifies the condition of a car. Although this enum is
// numeric, it is (de)serialized as an upper-case string both in the
// REST APIs and in the database car_state column.
type CarState int

// Valid values for the CarState enum.
const (
	CarStateInvalid CarState = iota // zero value is invalid

	CarStateNew
	CarStateGood
	CarStateMiddle
	CarStateOld
)

// ErrUnknownCarState indicates that a given string may not be parsed
// as a known car state. The invalid string itself is not included
// because the caller of ParseCarState already knows about it.
var ErrUnknownCarState = errors.New("unknown car state")

// CarStateError indicates an invalid numeric car state.
type CarStateError int

// Error implements the error interface.
func (e CarStateError) Error() string {
	return fmt.Sprintf("invalid car state: %d", e)
}

// Validate returns nil if CarState value is valid. For invalid
// values, an instance of the CarStateError will be returned.
func (s CarState) Validate() error {
	switch s {
	case CarStateNew, CarStateGood, CarStateMiddle, CarStateOld:
		return nil
	default:
		return CarStateError(s)
	}
}

// String converts the CarState enum to a string.
// Invalid car state causes a panic.
func (s CarState) String() string {
	switch s {
	case CarStateNew:
		return "NEW"
	case CarStateGood:
		return "GOOD"
	case CarStateMiddle:
		return "MIDDLE"
	case CarStateOld:
		return "OLD"
	default:
		panic(CarStateError(s))
	}
}

// ParseCarState parses the given string and returns a CarState.
// For invalid strings, CarStateInvalid and ErrUnknownCarState
// will be returned.
func ParseCarState(s string) (CarState, error) {
	switch s {
	case "NEW":
		return CarStateNew, nil
	case "GOOD":
		return CarStateGood, nil
	case "MIDDLE":
		return CarStateMiddle, nil
	case "OLD":
		return CarStateOld, nil
	default:
		return CarStateInvalid, ErrUnknownCarState
	}
}

// MarshalText implements encoding.TextMarshaler, so CarState values
// are encoded as strings in JSON documents.
func (s CarState) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CarState) UnmarshalText(text []byte) error {
	cs, err := ParseCarState(string(text))
	if err != nil {
		return err
	}
	*s = cs
	return nil
}
