// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer represents a released semantic version, consisting of the
// major, minor, and patch components. It versions the configuration
// file format and the database schema.
type SemVer [3]uint

// UnmarshalText parses text as major[.minor[.patch]] where missing
// components are zero. The sv is left unchanged in case of errors.
func (sv *SemVer) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ".")
	if len(parts) > len(sv) {
		return fmt.Errorf("the %q has too many components", text)
	}
	var v SemVer
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return fmt.Errorf("the %q component is not a number", p)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// MarshalText formats sv as its String representation.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

// String returns sv as major.minor.patch, e.g., 1.0.0.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
