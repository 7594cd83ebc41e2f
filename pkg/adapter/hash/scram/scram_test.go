// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/momeni/car-deals/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByAuthMethod(t *testing.T) {
	for method, name := range map[string]string{
		"":              "SCRAM-SHA-256",
		"scram-sha-256": "SCRAM-SHA-256",
		"scram-sha-1":   "SCRAM-SHA-1",
	} {
		m, err := scram.ByAuthMethod(method)
		require.NoError(t, err, method)
		assert.Equal(t, name, m.Name())
	}
	_, err := scram.ByAuthMethod("md5")
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	m := scram.SHA256()
	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	h1, err := m.Hash("secret", salt, scram.MinIters)
	require.NoError(t, err)
	h2, err := m.Hash("secret", salt, scram.MinIters)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "same salt must give the same hash")
	assert.True(t, strings.HasPrefix(h1, "SCRAM-SHA-256$4096:"+salt+"$"), h1)
	keys := strings.Split(h1[strings.LastIndex(h1, "$")+1:], ":")
	require.Len(t, keys, 2)
	for _, k := range keys {
		b, err := base64.StdEncoding.DecodeString(k)
		require.NoError(t, err)
		assert.Len(t, b, 32)
	}

	h3, err := m.Hash("secret", "", scram.MinIters)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3, "random salt must be used")

	h4, err := scram.SHA1().Hash("secret", salt, scram.MinIters)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h4, "SCRAM-SHA-1$"), h4)

	_, err = m.Hash("", salt, scram.MinIters)
	assert.Error(t, err, "empty password")
	_, err = m.Hash("secret", salt, scram.MinIters-1)
	assert.Error(t, err, "few iterations")
	_, err = m.Hash("secret", "not base64!", scram.MinIters)
	assert.Error(t, err, "wrong salt")
}
