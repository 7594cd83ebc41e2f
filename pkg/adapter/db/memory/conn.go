// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"fmt"

	"github.com/momeni/car-deals/pkg/core/repo"
)

// Conn implements the repo.Conn interface for a Registry.
type Conn struct {
	r *Registry
}

// Conn calls f with a new connection to r. It implements the
// repo.Pool interface, so a Registry may be passed to use cases
// instead of a database connection pool.
func (r *Registry) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &Conn{r: r})
}

// Tx locks the registry, calls f with a new transaction, and unlocks
// the registry after f returns. If f returns an error or panics, the
// registered undo operations of the transaction run in the reverse
// order, so the registry contents are restored.
func (c *Conn) Tx(ctx context.Context, f repo.TxHandler) (err error) {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	tx := &Tx{r: c.r}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			tx.rollback()
			err = fmt.Errorf("handler: %w", err)
		}
	}()
	return f(ctx, tx)
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrSQLUnsupported
}

func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrSQLUnsupported
}

func (c *Conn) IsConn() {
}

// Tx implements the repo.Tx interface for a Registry. It may only be
// used from within its handler function.
type Tx struct {
	r    *Registry
	undo []func()
}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrSQLUnsupported
}

func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrSQLUnsupported
}

func (tx *Tx) IsTx() {
}

func (tx *Tx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}
