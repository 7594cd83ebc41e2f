// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/car-deals/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool is a connections pool, wrapping a *gorm.DB instance.
type Pool struct {
	*gorm.DB
}

// NewPool connects to the PostgreSQL server which is identified by
// the url connection string.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	return Open(ctx, postgres.Open(url))
}

// Open creates a Pool using the given gorm dialector, so the same
// repositories may be used with other DBMSs which understand the
// portable subset of SQL which is used by them. It is mainly used
// for running the repository tests on a SQLite database.
// GORM warnings, such as slow queries, are written to the default
// slog logger.
func Open(ctx context.Context, d gorm.Dialector) (*Pool, error) {
	gdb, err := gorm.Open(d, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	w := slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn)
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(w, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			// Set to false in order to log with replaced vars
			ParameterizedQueries: true,
		}),
	})
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, func(context.Context, repo.Conn) error {
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

// Conn acquires a connection and passes it to f. The connection
// is released after f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		return f(ctx, &Conn{DB: c})
	})
}

// Close closes all connections of p.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
