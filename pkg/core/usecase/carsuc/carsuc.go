// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the
// cars registry related use cases:
//  1. Registering car models, cars, and people,
//  2. Updating and deleting people and cars,
//  3. Purchasing a car (or returning it to no owner),
//  4. Querying cars of a person and owner of a car,
//  5. Reporting statistics of cars and their trade deals.
//
// All business rules are checked in this package, so storage backends
// only need to implement the repo.Cars primitives.
package carsuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/log"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// UseCase represents a cars use case. It holds a database connection
// pool, the cars repository instance (to be guided with the DB pool),
// and the cars use case specific settings.
type UseCase struct {
	pool   repo.Pool
	carsrp repo.Cars

	ownerCarsPolicy   OwnerCarsPolicy
	now               func() time.Time
	maxReportSize     int
	defaultReportSize int
}

// Default values of the optional settings.
const (
	DefaultMaxReportSize     = 100
	DefaultDefaultReportSize = 10
)

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, c repo.Cars, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.ownerCarsPolicy == OwnerCarsInvalid {
		uc.ownerCarsPolicy = OwnerCarsNotFound
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.maxReportSize == 0 {
		uc.maxReportSize = DefaultMaxReportSize
	}
	if uc.defaultReportSize == 0 {
		uc.defaultReportSize = min(DefaultDefaultReportSize, uc.maxReportSize)
	}
	if uc.defaultReportSize > uc.maxReportSize {
		return nil, fmt.Errorf(
			"default report size (%d) is more than its maximum (%d)",
			uc.defaultReportSize, uc.maxReportSize,
		)
	}
	return uc, nil
}

func (cars *UseCase) today() model.Date {
	return model.DateOf(cars.now())
}

// tx runs f in a new transaction, so a failed use case makes no change.
func (cars *UseCase) tx(
	ctx context.Context,
	f func(ctx context.Context, q repo.CarsTxQueryer) error,
) error {
	return cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return f(ctx, cars.carsrp.Tx(tx))
		})
	})
}

// AddPerson registers p person. The p.ID must not be taken already.
func (cars *UseCase) AddPerson(ctx context.Context, p *model.Person) (*model.Person, error) {
	log.Debug(ctx, "adding person", log.Valuer("person", p))
	if err := p.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err := cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		old, err := q.Person(ctx, p.ID)
		switch {
		case err != nil:
			return err
		case old != nil:
			return cerr.BadRequest(fmt.Errorf(
				"person %d: %w", p.ID, cerr.ErrPersonExists,
			))
		}
		return q.InsertPerson(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddModel registers m car model. The name and year pair of m must
// not be taken already.
func (cars *UseCase) AddModel(ctx context.Context, m *model.CarModel) (*model.CarModel, error) {
	log.Debug(ctx, "adding model", log.Stringer("model", m.Key()))
	if err := m.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err := cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		old, err := q.CarModel(ctx, m.Key())
		switch {
		case err != nil:
			return err
		case old != nil:
			return cerr.BadRequest(fmt.Errorf(
				"model %s: %w", m.Key(), cerr.ErrModelExists,
			))
		}
		return q.InsertModel(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AddCar registers c car without an owner. Its model must be added
// beforehand. A missing car state is considered as NEW.
func (cars *UseCase) AddCar(ctx context.Context, c *model.Car) (*model.Car, error) {
	log.Debug(ctx, "adding car", log.Valuer("car", c))
	if c.State == model.CarStateInvalid {
		c.State = model.CarStateNew
	}
	if err := c.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err := cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		old, err := q.Car(ctx, c.Number)
		switch {
		case err != nil:
			return err
		case old != nil:
			return cerr.BadRequest(fmt.Errorf(
				"car %s: %w", c.Number, cerr.ErrCarExists,
			))
		}
		m, err := q.CarModel(ctx, c.ModelKey())
		switch {
		case err != nil:
			return err
		case m == nil:
			return cerr.NotFound(fmt.Errorf(
				"model %s: %w", c.ModelKey(), cerr.ErrModelNotFound,
			))
		}
		return q.InsertCar(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdatePerson replaces the email of an existing person, identified
// by p.ID. Other fields of p are validated, but are not stored.
// The updated person is returned.
func (cars *UseCase) UpdatePerson(ctx context.Context, p *model.Person) (updated *model.Person, err error) {
	log.Debug(ctx, "updating person", log.Valuer("person", p))
	if err := p.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		updated, err = q.Person(ctx, p.ID)
		switch {
		case err != nil:
			return err
		case updated == nil:
			return cerr.NotFound(fmt.Errorf(
				"person %d: %w", p.ID, cerr.ErrPersonNotFound,
			))
		}
		updated.Email = p.Email
		return q.UpdatePersonEmail(ctx, p.ID, p.Email)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePerson deletes the id person and returns it. Cars of that
// person will have no owner afterwards, but their trade deals are kept.
func (cars *UseCase) DeletePerson(ctx context.Context, id int64) (p *model.Person, err error) {
	log.Debug(ctx, "deleting person", slog.Int64("id", id))
	if err := model.ValidatePersonID(id); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		p, err = q.Person(ctx, id)
		switch {
		case err != nil:
			return err
		case p == nil:
			return cerr.NotFound(fmt.Errorf(
				"person %d: %w", id, cerr.ErrPersonNotFound,
			))
		}
		return q.DeletePerson(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteCar deletes the car with the given plate number and returns it.
// The car owner and trade deals are kept.
func (cars *UseCase) DeleteCar(ctx context.Context, number string) (c *model.Car, err error) {
	log.Debug(ctx, "deleting car", slog.String("number", number))
	if err := validateCarNumber(number); err != nil {
		return nil, err
	}
	err = cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		c, err = q.Car(ctx, number)
		switch {
		case err != nil:
			return err
		case c == nil:
			return cerr.NotFound(fmt.Errorf(
				"car %s: %w", number, cerr.ErrCarNotFound,
			))
		}
		return q.DeleteCar(ctx, number)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Purchase transfers the td.CarNumber car to the td.PersonID person,
// or returns it to no owner if td.PersonID is nil, and records td.
// A zero td.Date is replaced by the current date. Trade deals which
// do not change the car owner are rejected.
func (cars *UseCase) Purchase(ctx context.Context, td *model.TradeDeal) (*model.TradeDeal, error) {
	log.Debug(ctx, "purchasing car", log.Valuer("deal", td))
	if err := td.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if td.Date.IsZero() {
		td.Date = cars.today()
	}
	err := cars.tx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		c, err := q.Car(ctx, td.CarNumber)
		switch {
		case err != nil:
			return err
		case c == nil:
			return cerr.NotFound(fmt.Errorf(
				"car %s: %w", td.CarNumber, cerr.ErrCarNotFound,
			))
		}
		old, err := q.CarOwner(ctx, td.CarNumber)
		if err != nil {
			return err
		}
		if err := checkTradeDeal(ctx, q, td, old); err != nil {
			return err
		}
		if err := q.SetCarOwner(ctx, td.CarNumber, td.PersonID); err != nil {
			return err
		}
		return q.InsertTradeDeal(ctx, td)
	})
	if err != nil {
		return nil, err
	}
	return td, nil
}

func checkTradeDeal(
	ctx context.Context,
	q repo.CarsTxQueryer,
	td *model.TradeDeal,
	old *model.Person,
) error {
	if td.PersonID == nil {
		if old == nil {
			return cerr.BadRequest(fmt.Errorf(
				"car %s has no owner: %w",
				td.CarNumber, cerr.ErrIllegalTradeDeal,
			))
		}
		return nil
	}
	id := *td.PersonID
	p, err := q.Person(ctx, id)
	switch {
	case err != nil:
		return err
	case p == nil:
		return cerr.NotFound(fmt.Errorf(
			"person %d: %w", id, cerr.ErrPersonNotFound,
		))
	case old != nil && old.ID == id:
		return cerr.BadRequest(fmt.Errorf(
			"car %s is already owned by %d: %w",
			td.CarNumber, id, cerr.ErrIllegalTradeDeal,
		))
	}
	return nil
}

// OwnerCars lists cars of the id person, sorted by their numbers.
// For an unknown person, either a not-found error or an empty list
// is returned based on the configured OwnerCarsPolicy.
func (cars *UseCase) OwnerCars(ctx context.Context, id int64) (cs []model.Car, err error) {
	if err := model.ValidatePersonID(id); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		if cars.ownerCarsPolicy == OwnerCarsNotFound {
			p, err := q.Person(ctx, id)
			switch {
			case err != nil:
				return err
			case p == nil:
				return cerr.NotFound(fmt.Errorf(
					"person %d: %w", id, cerr.ErrPersonNotFound,
				))
			}
		}
		cs, err = q.OwnerCars(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		log.Warn(ctx, "person has no cars", slog.Int64("id", id))
		return []model.Car{}, nil
	}
	log.Debug(
		ctx, "person cars are found",
		slog.Int64("id", id), slog.Int("count", len(cs)),
	)
	return cs, nil
}

// CarOwner returns the current owner of the number car, or nil if that
// car has no owner.
func (cars *UseCase) CarOwner(ctx context.Context, number string) (p *model.Person, err error) {
	if err := validateCarNumber(number); err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		car, err := q.Car(ctx, number)
		switch {
		case err != nil:
			return err
		case car == nil:
			return cerr.NotFound(fmt.Errorf(
				"car %s: %w", number, cerr.ErrCarNotFound,
			))
		}
		p, err = q.CarOwner(ctx, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "car owner is found", log.Valuer("owner", p))
	return p, nil
}

// CarTradeDeals lists all trade deals of the number car. Trade deals
// of a deleted car are still reported, so a not-found error is only
// returned when the car does not exist and it has no trade deal.
func (cars *UseCase) CarTradeDeals(ctx context.Context, number string) (deals []model.TradeDeal, err error) {
	if err := validateCarNumber(number); err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		deals, err = q.CarTradeDeals(ctx, number)
		if err != nil || len(deals) > 0 {
			return err
		}
		car, err := q.Car(ctx, number)
		switch {
		case err != nil:
			return err
		case car == nil:
			return cerr.NotFound(fmt.Errorf(
				"car %s: %w", number, cerr.ErrCarNotFound,
			))
		}
		deals = []model.TradeDeal{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deals, nil
}

func validateCarNumber(number string) error {
	switch {
	case number == "":
		return cerr.BadRequest(model.ValidationError{
			model.MsgMissingCarNumber,
		})
	case !model.ValidCarNumber(number):
		return cerr.BadRequest(model.ValidationError{
			model.MsgWrongCarNumber,
		})
	}
	return nil
}
