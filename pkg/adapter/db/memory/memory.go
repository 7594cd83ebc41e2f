// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory provides an in-process implementation of the storage
// interfaces of the pkg/core/repo package. The Registry type plays the
// role of a connection pool (like pkg/adapter/db/postgres.Pool) and its
// Conn and Tx types play the role of a database connection and an
// ongoing transaction, so use cases may run unchanged on top of either
// of these storage backends.
//
// All data items are kept in one Registry instance which is guarded by
// a single mutex. Each method of a connection queryer locks the mutex
// for its own duration, while a transaction keeps it locked for the
// whole duration of its handler. When a transaction handler fails,
// all changes which were made by that transaction will be reverted.
package memory

import (
	"errors"
	"sync"

	"github.com/momeni/car-deals/pkg/core/model"
)

// ErrSQLUnsupported is returned by the Exec and Query methods since
// the in-memory registry does not interpret SQL statements.
var ErrSQLUnsupported = errors.New("memory registry does not support SQL")

// Registry keeps the car models, people, cars, and trade deals.
// A car entry and its owner entry reference each other. The attach
// and detach methods are the only places which change these links.
// Each trade deal keeps the car entry which was registered at the
// time of that deal, so a deleted and re-added car number does not
// inherit the trade deals of its former car.
type Registry struct {
	mu sync.Mutex

	models map[model.ModelKey]*model.CarModel
	owners map[int64]*ownerEntry
	cars   map[string]*carEntry
	deals  []dealEntry
}

type ownerEntry struct {
	person model.Person
	cars   map[string]*carEntry
}

type carEntry struct {
	car   model.Car
	owner *ownerEntry
}

type dealEntry struct {
	deal model.TradeDeal
	car  *carEntry
}

// New instantiates an empty Registry.
func New() *Registry {
	return &Registry{
		models: make(map[model.ModelKey]*model.CarModel),
		owners: make(map[int64]*ownerEntry),
		cars:   make(map[string]*carEntry),
	}
}

// attach makes o the owner of c. The c car must have no owner.
func (r *Registry) attach(c *carEntry, o *ownerEntry) {
	c.owner = o
	o.cars[c.car.Number] = c
}

// detach removes the owner of c (if any) and returns the old owner.
func (r *Registry) detach(c *carEntry) *ownerEntry {
	o := c.owner
	if o == nil {
		return nil
	}
	delete(o.cars, c.car.Number)
	c.owner = nil
	return o
}

// Close implements the repo.Pool interface. The registry contents
// are kept intact, so Close is a no-op.
func (r *Registry) Close() error {
	return nil
}
