// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"testing"
	"time"

	"github.com/momeni/car-deals/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intAddr(i int) *int {
	return &i
}

func TestClamp(t *testing.T) {
	for _, tc := range []struct {
		name       string
		value      *int
		minb, maxb *int
		expected   *int
		expErr     string
	}{
		{"nil value", nil, intAddr(1), intAddr(10), nil, ""},
		{"in range", intAddr(5), intAddr(1), intAddr(10), intAddr(5), ""},
		{"unbounded", intAddr(-5), nil, nil, intAddr(-5), ""},
		{
			"less than min", intAddr(0), intAddr(1), nil, intAddr(1),
			"0 is not in [1, +inf] range",
		},
		{
			"more than max", intAddr(11), nil, intAddr(10), intAddr(10),
			"11 is not in [-inf, 10] range",
		},
		{
			"empty range", intAddr(5), intAddr(10), intAddr(1), intAddr(5),
			"empty range [10, 1]",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := settings.Clamp(&tc.value, tc.minb, tc.maxb)
			if tc.expErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.expErr)
			}
			assert.Equal(t, tc.expected, tc.value)
		})
	}
}

func TestClampRangeError(t *testing.T) {
	v := intAddr(1000)
	err := settings.Clamp(&v, intAddr(1), intAddr(100))
	var re *settings.RangeError[int]
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1000, re.Value)
	assert.Equal(t, 100, *v)
}

func TestDefaults(t *testing.T) {
	var b *bool
	settings.ZeroIfNil(&b)
	require.NotNil(t, b)
	assert.False(t, *b)

	s := "kept"
	sp := &s
	settings.DefaultIfNil(&sp, "default")
	assert.Equal(t, "kept", *sp)
	sp = nil
	settings.DefaultIfNil(&sp, "default")
	assert.Equal(t, "default", *sp)
}

func TestDuration(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("2m30s")))
	assert.Equal(t, settings.Duration(150*time.Second), d)
	assert.Equal(t, "2m30s", d.String())
	assert.Equal(t, "5m", settings.Duration(5*time.Minute).String())
	assert.Equal(t, "2h", settings.Duration(2*time.Hour).String())
	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, settings.Duration(150*time.Second), d)
}
