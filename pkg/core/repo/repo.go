// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo declares the storage expectations of the use cases.
// A Pool hands out connections (Conn) and each connection may start
// transactions (Tx). Both of the in-memory registry (adapter/db/memory)
// and the PostgreSQL database (adapter/db/postgres) implement them, so
// use cases may run their business rules in a transaction without
// knowing which backend is used.
//
// Repository interfaces, such as Cars, take a Conn or Tx and return a
// queryer which exposes the domain-level operations on them.
package repo

import "context"

// ConnHandler is called with an acquired connection. The connection
// is released when the handler returns.
type ConnHandler func(context.Context, Conn) error

// TxHandler is called within a transaction. Returning a non-nil error
// (or panicking) rolls the transaction back, otherwise, it commits.
type TxHandler func(context.Context, Tx) error

// Pool is a set of connections to one storage backend.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}

// Conn represents a connection. It is unsafe to be used concurrently.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a Tx object to mistakenly implement the
	// Conn interface.
	IsConn()
}

// Tx represents a transaction. It is unsafe to be used concurrently.
// For a PostgreSQL backend, a READ-COMMITTED isolation is expected,
// while the in-memory registry serializes its transactions.
type Tx interface {
	Queryer

	// IsTx method prevents a Conn object to mistakenly implement the
	// Tx interface.
	IsTx()
}

// Queryer runs raw SQL statements. It is used by the schema management
// and table creation code. Backends which do not understand SQL (like
// the in-memory registry) return an error.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is the result set of a Query. It must be closed.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
