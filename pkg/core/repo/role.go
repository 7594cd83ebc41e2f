// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role names a PostgreSQL login role. The passwords of roles are
// read from the pass files of the configured database, and a role
// suffix may be appended to them (so parallel tests can share one
// database cluster).
type Role string

const (
	// AdminRole must exist beforehand, having the super user privilege.
	// It is only used by the init-dev and init-prod commands in order
	// to recreate the cdweb schema and the NormalRole.
	AdminRole Role = "admin"

	// NormalRole owns the cars registry tables. The web server and the
	// seeding step of database initialization connect with this role.
	NormalRole Role = "cdweb"
)
