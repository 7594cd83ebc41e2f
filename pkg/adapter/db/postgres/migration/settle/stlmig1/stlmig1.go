// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stlmig1 provides Settler type for database schema major
// version 1. It can be used to initialize a database with major
// version 1 schema, having development or production suitable data.
package stlmig1

import (
	"context"
	"fmt"

	"github.com/momeni/car-deals/pkg/adapter/db/seed"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// These constants indicate the major, minor, and patch components of
// the database schema which is created by this package.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// tables lists the DDL statements of the major version 1 schema.
// Statements only use the portable SQL subset which is understood by
// both of PostgreSQL and SQLite, so repository tests may create the
// same tables in a SQLite database.
// The trade_deals table has no foreign key, so the trade deals history
// is kept even after deletion of their cars or owners. Each deal keeps
// the car_id of its car, so a car number which is deleted and added
// again does not inherit the former trade deals.
var tables = []string{
	`CREATE TABLE models (
	model_name VARCHAR(100) NOT NULL,
	model_year INTEGER NOT NULL,
	company VARCHAR(100) NOT NULL,
	engine_power INTEGER NOT NULL,
	engine_capacity INTEGER NOT NULL,
	PRIMARY KEY (model_name, model_year)
)`,
	`CREATE TABLE car_owners (
	id BIGINT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	birth_date DATE NOT NULL,
	email VARCHAR(200) NOT NULL
)`,
	`CREATE TABLE cars (
	car_number VARCHAR(10) PRIMARY KEY,
	car_id UUID NOT NULL UNIQUE,
	model_name VARCHAR(100) NOT NULL,
	model_year INTEGER NOT NULL,
	owner_id BIGINT REFERENCES car_owners (id) ON DELETE SET NULL,
	color VARCHAR(50) NOT NULL,
	kilometers INTEGER NOT NULL,
	car_state VARCHAR(10) NOT NULL,
	FOREIGN KEY (model_name, model_year)
		REFERENCES models (model_name, model_year) ON DELETE CASCADE
)`,
	`CREATE INDEX cars_owner_id_idx ON cars (owner_id)`,
	`CREATE TABLE trade_deals (
	id UUID PRIMARY KEY,
	car_number VARCHAR(10) NOT NULL,
	car_id UUID NOT NULL,
	owner_id BIGINT,
	deal_date DATE NOT NULL,
	created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX trade_deals_car_number_idx ON trade_deals (car_number)`,
	`CREATE INDEX trade_deals_car_id_idx ON trade_deals (car_id)`,
}

// CreateTables creates the major version 1 tables using q.
// Tables are created in the first schema of the search_path.
func CreateTables(ctx context.Context, q repo.Queryer) error {
	for i, stmt := range tables {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("tables[%d]: %w", i, err)
		}
	}
	return nil
}

// Settler struct creates the major version 1 tables and fills them
// with the initial data rows. Check the InitDevSchema and
// InitProdSchema methods.
//
// Each instance of Settler wraps and uses a single transaction of the
// destination database, but the caller is responsible to commit that
// transaction in order to finalize the initialization results.
type Settler struct {
	tx   repo.Tx            // destination database transaction
	cars repo.CarsTxQueryer // for inserting the initial rows
}

// New creates a new Settler instance, wrapping the given `tx` database
// transaction. The settler object expects the database schema to exist
// and only tries to create relevant tables in that schema. The cars
// repository is used for filling those tables.
func New(tx repo.Tx, cars repo.Cars) *Settler {
	return &Settler{
		tx:   tx,
		cars: cars.Tx(tx),
	}
}

// InitDevSchema creates major version 1 tables in cdweb1 schema and
// fills them with the development suitable initial data.
func (sm1 *Settler) InitDevSchema(ctx context.Context) error {
	return sm1.initSchema(ctx, seed.Dev())
}

// InitProdSchema creates major version 1 tables in cdweb1 schema and
// fills them with the production suitable initial data.
func (sm1 *Settler) InitProdSchema(ctx context.Context) error {
	return sm1.initSchema(ctx, seed.Prod())
}

func (sm1 *Settler) initSchema(ctx context.Context, ds *seed.Dataset) error {
	if err := CreateTables(ctx, sm1.tx); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	if err := seed.Load(ctx, sm1.cars, ds); err != nil {
		return fmt.Errorf("loading initial data: %w", err)
	}
	return nil
}

// MajorVersion returns the major semantic version of this Settler
// instance. This value matches with the Major constant which is defined
// in this package. Indeed, this method can be called with a nil
// instance too because it only depends on the Settler type (not its
// instance).
func (sm1 *Settler) MajorVersion() uint {
	return Major
}
