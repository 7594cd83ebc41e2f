// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides generic helpers for the configuration
// settings, such as filling nil settings by their defaults and
// clamping a setting into its (optional) boundary values.
package settings

import (
	"strings"
	"time"
)

// Duration is a time.Duration which can be decoded from a YAML
// string, like 2m30s.
type Duration time.Duration

// UnmarshalText decodes data using the time.ParseDuration format.
// The d is left intact in case of errors.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// String formats d like time.Duration, dropping the zero trailing
// units, so 5m is returned instead of 5m0s.
func (d Duration) String() string {
	s := time.Duration(d).String()
	for _, zeros := range []string{"m0s", "h0m"} {
		if strings.HasSuffix(s, zeros) {
			s = s[:len(s)-2]
		}
	}
	return s
}
