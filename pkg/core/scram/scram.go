// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram declares the password hashing expectations of the
// database initialization use case. Role passwords are renewed by
// sending their SCRAM verifiers (not the plaintext passwords) to the
// PostgreSQL server, so DDL statements logging may not reveal them.
// The implementation lives in the pkg/adapter/hash/scram package.
package scram

// Hasher computes SCRAM verifiers for a fixed hash function, such as
// SHA-256. The username is not asked because it does not affect the
// stored and server keys.
type Hasher interface {
	// Hash returns the verifier of pass, formatted as PostgreSQL
	// expects it in its ALTER ROLE ... PASSWORD statements:
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// An empty salt asks for a random salt. Otherwise, salt must be
	// base64 encoded. The iters must not be less than 4096.
	Hash(pass, salt string, iters int) (string, error)
}
