// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/momeni/car-deals/internal/test/sqlitedb"
	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertModel = `INSERT INTO models
(model_name, model_year, company, engine_power, engine_capacity)
VALUES (?, ?, ?, ?, ?)`

func countModels(ctx context.Context, t *testing.T, q repo.Queryer) int64 {
	rows, err := q.Query(ctx, "SELECT COUNT(*) FROM models")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var n int64
	require.NoError(t, rows.Scan(&n))
	return n
}

func TestExecAndQuery(t *testing.T) {
	ctx := context.Background()
	pool := sqlitedb.New(ctx, t)
	err := pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err := c.Exec(ctx, insertModel, "mazda", 2020, "Mazda", 150, 2000)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		rows, err := c.Query(
			ctx,
			"SELECT model_name, company FROM models WHERE model_year = ?",
			2020,
		)
		require.NoError(t, err)
		defer rows.Close()
		require.True(t, rows.Next())
		vals, err := rows.Values()
		require.NoError(t, err)
		require.Len(t, vals, 2)
		assert.Equal(t, "mazda", toString(vals[0]))
		assert.Equal(t, "Mazda", toString(vals[1]))
		assert.False(t, rows.Next())
		return rows.Err()
	})
	require.NoError(t, err)

	err = pool.DB.Exec(insertModel, "mazda", 2020, "Mazda", 1, 1).Error
	assert.Error(t, err, "primary key must be enforced")
}

func toString(v any) string {
	switch s := v.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	default:
		return ""
	}
}

func TestTxRollback(t *testing.T) {
	ctx := context.Background()
	pool := sqlitedb.New(ctx, t)
	errAbort := cerr.BadRequest(errors.New("abort"))
	err := pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		err := c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := tx.Exec(ctx, insertModel, "kia", 2022, "Kia", 130, 1600)
			require.NoError(t, err)
			assert.Equal(t, int64(1), countModels(ctx, t, tx))
			return errAbort
		})
		var ce *cerr.Error
		if assert.ErrorAs(t, err, &ce) {
			assert.Same(t, errAbort, ce)
		}
		assert.Equal(t, int64(0), countModels(ctx, t, c))

		err = c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := tx.Exec(ctx, insertModel, "kia", 2022, "Kia", 130, 1600)
			require.NoError(t, err)
			panic("boom")
		})
		assert.ErrorContains(t, err, "boom")
		assert.Equal(t, int64(0), countModels(ctx, t, c))

		err = c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := tx.Exec(ctx, insertModel, "kia", 2022, "Kia", 130, 1600)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), countModels(ctx, t, c))
		return nil
	})
	require.NoError(t, err)
}
