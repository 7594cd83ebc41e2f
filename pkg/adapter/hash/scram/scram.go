// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram computes SCRAM-SHA-256 and SCRAM-SHA-1 verifiers
// using the github.com/xdg-go/scram module. A Mechanism implements the
// pkg/core/scram.Hasher interface.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/xdg-go/scram"
)

// MinIters is the minimum acceptable iterations count.
const MinIters = 4096

// Mechanism is a SCRAM variant having a fixed hash function.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
}

// SHA1 returns the SCRAM-SHA-1 mechanism.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
	}
}

// SHA256 returns the SCRAM-SHA-256 mechanism.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
	}
}

// ByAuthMethod returns the mechanism which matches with a PostgreSQL
// password_encryption method name. An empty method means
// scram-sha-256 which is the PostgreSQL default.
func ByAuthMethod(method string) (*Mechanism, error) {
	switch method {
	case "", "scram-sha-256":
		return SHA256(), nil
	case "scram-sha-1":
		return SHA1(), nil
	default:
		return nil, fmt.Errorf(
			"unsupported database authentication method: %q", method,
		)
	}
}

// Name returns the mechanism name, e.g., SCRAM-SHA-256.
func (m *Mechanism) Name() string {
	return m.name
}

// Hash computes the verifier of pass with the given base64 encoded
// salt (or a random one if salt is empty) and iters iterations.
// The pass is normalized by SASLprep before hashing.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < MinIters:
		return "", fmt.Errorf("iters (%d) is less than %d", iters, MinIters)
	}
	if salt == "" {
		b := make([]byte, m.outLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(b)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decoding base64 salt: %w", err)
	}
	c, err := m.hashGenerator.NewClient("cdweb", pass, "")
	if err != nil {
		return "", fmt.Errorf("creating SCRAM client: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name, iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	), nil
}
