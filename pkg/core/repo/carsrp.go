// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/car-deals/pkg/core/model"
)

// CarsConnQueryer runs the CarsQueryer methods on a connection,
// each one as a separate statement.
type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer runs the CarsQueryer methods in a transaction.
type CarsTxQueryer interface {
	CarsQueryer
}

// CarsQueryer lists the storage primitives of the cars registry.
// Lookup methods return a nil entity (and nil error) when the relevant
// row does not exist, so use cases can decide about the final error.
// Mutation methods do not check for business rules, e.g., a purchase
// is a SetCarOwner followed by an InsertTradeDeal after carsuc checks
// that the trade deal is legal.
type CarsQueryer interface {
	Person(ctx context.Context, id int64) (*model.Person, error)
	Car(ctx context.Context, number string) (*model.Car, error)
	CarModel(ctx context.Context, key model.ModelKey) (*model.CarModel, error)
	CarOwner(ctx context.Context, number string) (*model.Person, error)

	InsertPerson(ctx context.Context, p *model.Person) error
	UpdatePersonEmail(ctx context.Context, id int64, email string) error
	// DeletePerson deletes a person and detaches all of its cars.
	DeletePerson(ctx context.Context, id int64) error
	InsertModel(ctx context.Context, m *model.CarModel) error
	InsertCar(ctx context.Context, c *model.Car) error
	DeleteCar(ctx context.Context, number string) error
	SetCarOwner(ctx context.Context, number string, personID *int64) error
	// InsertTradeDeal records td for the currently registered car of
	// td.CarNumber, so it is not shared with a later car which may
	// reuse that number.
	InsertTradeDeal(ctx context.Context, td *model.TradeDeal) error

	// OwnerCars lists cars of a person, sorted by their numbers.
	OwnerCars(ctx context.Context, personID int64) ([]model.Car, error)
	// CarTradeDeals lists the trade deals of the registered number car,
	// sorted by their dates and then by their insertion order. Without
	// a registered car, deals of the deleted cars of number are listed.
	CarTradeDeals(ctx context.Context, number string) ([]model.TradeDeal, error)

	CarsReportQueryer
}

// CarsReportQueryer lists the aggregation queries of the cars registry.
// All date ranges are inclusive. Returned ModelNameAmount slices are
// sorted by descending amounts and then by ascending names.
type CarsReportQueryer interface {
	// TradeDealsPerModelName counts trade deals per model name of
	// their cars. Trade deals of deleted cars are not counted.
	TradeDealsPerModelName(ctx context.Context) ([]model.ModelNameAmount, error)
	// CarsPerModelName counts existing cars per model name, returning
	// at most limit rows.
	CarsPerModelName(ctx context.Context, limit int) ([]model.ModelNameAmount, error)
	// CarsPerModelNameByBirthDates counts cars per model name, only
	// considering cars whose owner birth date is in [from, to] range.
	CarsPerModelNameByBirthDates(
		ctx context.Context, limit int, from, to model.Date,
	) ([]model.ModelNameAmount, error)
	// CountTradeDeals counts trade deals of cars having the given
	// model name in the [from, to] range.
	CountTradeDeals(
		ctx context.Context, modelName string, from, to model.Date,
	) (int64, error)
	// MostPopularColor returns the most frequent color among cars of
	// the given model name, breaking ties by the ascending color names.
	// An empty string is returned when no car matches.
	MostPopularColor(ctx context.Context, modelName string) (string, error)
	// MinEnginePowerCapacity finds the minimum engine power and
	// capacity among models of cars which are owned by people born in
	// the [from, to] range. A nil result is returned when no car matches.
	MinEnginePowerCapacity(
		ctx context.Context, from, to model.Date,
	) (*model.EnginePowerCapacity, error)
}

type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
