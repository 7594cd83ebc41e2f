// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

// ZeroIfNil points a missing *s setting to a fresh zero value.
func ZeroIfNil[T any](s **T) {
	if *s == nil {
		*s = new(T)
	}
}

// DefaultIfNil points a missing *s setting to a copy of def.
// A present setting is kept, even if it holds the zero value.
func DefaultIfNil[T any](s **T, def T) {
	if *s == nil {
		*s = &def
	}
}
