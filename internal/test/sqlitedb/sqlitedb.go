// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlitedb is an internal helper for the test packages.
// It creates a *postgres.Pool which talks to a temporary SQLite
// database file (instead of a PostgreSQL server) and creates the
// latest version tables in it. Since repositories only use the
// portable subset of SQL, they may be tested quickly without a
// container runtime.
package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// New creates an empty SQLite database in a temporary directory of t,
// creates tables in it, and returns a pool for connecting to it.
// The pool is closed automatically when t and its subtests complete.
func New(ctx context.Context, t *testing.T) *postgres.Pool {
	path := filepath.Join(t.TempDir(), "cars.db")
	pool, err := postgres.Open(ctx, sqlite.Open(path+"?_foreign_keys=on"))
	require.NoError(t, err, "opening sqlite database")
	t.Cleanup(func() {
		require.NoError(t, pool.Close(), "closing sqlite database")
	})
	err = pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return stlmig1.CreateTables(ctx, c)
	})
	require.NoError(t, err, "creating tables")
	return pool
}
