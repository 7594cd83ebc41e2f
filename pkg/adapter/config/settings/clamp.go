// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// RangeError reports a setting which was out of its boundaries.
// A nil Min or Max boundary is unbounded.
type RangeError[T cmp.Ordered] struct {
	Value    T // the original (rejected) value
	Min, Max *T
}

func (e *RangeError[T]) Error() string {
	return fmt.Sprintf(
		"%v is not in [%s, %s] range",
		e.Value, bound(e.Min, "-inf"), bound(e.Max, "+inf"),
	)
}

func bound[T any](b *T, unbounded string) string {
	if b == nil {
		return unbounded
	}
	return fmt.Sprint(*b)
}

// Clamp moves the **s setting into the [minb, maxb] range and returns
// a *RangeError if it had to be moved. A nil setting is accepted as is
// because its default is chosen by the consuming component.
// Boundaries with minb greater than maxb are rejected without changing
// the setting.
func Clamp[T cmp.Ordered](s **T, minb, maxb *T) error {
	if minb != nil && maxb != nil && *minb > *maxb {
		return fmt.Errorf("empty range [%v, %v]", *minb, *maxb)
	}
	if *s == nil {
		return nil
	}
	v := **s
	switch {
	case minb != nil && v < *minb:
		**s = *minb
	case maxb != nil && v > *maxb:
		**s = *maxb
	default:
		return nil
	}
	return &RangeError[T]{Value: v, Min: minb, Max: maxb}
}
