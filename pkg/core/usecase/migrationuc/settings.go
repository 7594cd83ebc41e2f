// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"

	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// SchemaSettings interface specifies the database related settings
// which are required by the InitDBUseCase.
type SchemaSettings interface {
	// ConnectionPool creates a database connection pool using the
	// connection information which are kept in the settings instance.
	// The r role is used for connecting to the database, while its
	// password is read from the pass-dir directory.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// NewSchemaRepo instantiates a schema management repository.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer returns a schema initializer for the database
	// schema version of these settings, wrapping the tx transaction.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new random passwords for the given
	// roles and calls the change function in order to update them in
	// the database. New passwords are written into a temporary file
	// and the returned finalizer function moves them to the main
	// passwords file. The finalizer must be called after committing
	// the transaction which its change function was called within.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaVersion returns the database schema semantic version.
	SchemaVersion() model.SemVer
}
