// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// CarsRepo implements the repo.Cars interface for the Registry
// connections and transactions.
type CarsRepo struct{}

// NewCarsRepo instantiates a CarsRepo.
func NewCarsRepo() CarsRepo {
	return CarsRepo{}
}

// Conn takes a *memory.Conn instance as a repo.Conn interface and
// returns a queryer which locks the registry for each method call.
func (CarsRepo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*Conn)
	return queryer{r: cc.r}
}

// Tx takes a *memory.Tx instance as a repo.Tx interface and returns
// a queryer which records the undo operations in that transaction.
// The registry is already locked by the Conn.Tx method.
func (CarsRepo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	t := tx.(*Tx)
	return queryer{r: t.r, tx: t}
}

type queryer struct {
	r  *Registry
	tx *Tx
}

func (q queryer) lock() (unlock func()) {
	if q.tx != nil {
		return func() {}
	}
	q.r.mu.Lock()
	return q.r.mu.Unlock
}

func (q queryer) onRollback(f func()) {
	if q.tx != nil {
		q.tx.undo = append(q.tx.undo, f)
	}
}

func (q queryer) Person(_ context.Context, id int64) (*model.Person, error) {
	defer q.lock()()
	o, ok := q.r.owners[id]
	if !ok {
		return nil, nil
	}
	p := o.person
	return &p, nil
}

func (q queryer) Car(_ context.Context, number string) (*model.Car, error) {
	defer q.lock()()
	c, ok := q.r.cars[number]
	if !ok {
		return nil, nil
	}
	car := c.car
	return &car, nil
}

func (q queryer) CarModel(
	_ context.Context, key model.ModelKey,
) (*model.CarModel, error) {
	defer q.lock()()
	m, ok := q.r.models[key]
	if !ok {
		return nil, nil
	}
	mm := *m
	return &mm, nil
}

func (q queryer) CarOwner(
	_ context.Context, number string,
) (*model.Person, error) {
	defer q.lock()()
	c, ok := q.r.cars[number]
	if !ok || c.owner == nil {
		return nil, nil
	}
	p := c.owner.person
	return &p, nil
}

func (q queryer) InsertPerson(_ context.Context, p *model.Person) error {
	defer q.lock()()
	if _, ok := q.r.owners[p.ID]; ok {
		return cerr.BadRequest(fmt.Errorf(
			"person %d: %w", p.ID, cerr.ErrPersonExists,
		))
	}
	id := p.ID
	q.r.owners[id] = &ownerEntry{
		person: *p,
		cars:   make(map[string]*carEntry),
	}
	q.onRollback(func() {
		delete(q.r.owners, id)
	})
	return nil
}

func (q queryer) UpdatePersonEmail(
	_ context.Context, id int64, email string,
) error {
	defer q.lock()()
	o, ok := q.r.owners[id]
	if !ok {
		return cerr.NotFound(fmt.Errorf(
			"person %d: %w", id, cerr.ErrPersonNotFound,
		))
	}
	old := o.person.Email
	o.person.Email = email
	q.onRollback(func() {
		o.person.Email = old
	})
	return nil
}

func (q queryer) DeletePerson(_ context.Context, id int64) error {
	defer q.lock()()
	o, ok := q.r.owners[id]
	if !ok {
		return cerr.NotFound(fmt.Errorf(
			"person %d: %w", id, cerr.ErrPersonNotFound,
		))
	}
	cars := make([]*carEntry, 0, len(o.cars))
	for _, c := range o.cars {
		cars = append(cars, c)
	}
	for _, c := range cars {
		q.r.detach(c)
	}
	delete(q.r.owners, id)
	q.onRollback(func() {
		q.r.owners[id] = o
		for _, c := range cars {
			q.r.attach(c, o)
		}
	})
	return nil
}

func (q queryer) InsertModel(_ context.Context, m *model.CarModel) error {
	defer q.lock()()
	key := m.Key()
	if _, ok := q.r.models[key]; ok {
		return cerr.BadRequest(fmt.Errorf(
			"model %s: %w", key, cerr.ErrModelExists,
		))
	}
	mm := *m
	q.r.models[key] = &mm
	q.onRollback(func() {
		delete(q.r.models, key)
	})
	return nil
}

func (q queryer) InsertCar(_ context.Context, c *model.Car) error {
	defer q.lock()()
	if _, ok := q.r.cars[c.Number]; ok {
		return cerr.BadRequest(fmt.Errorf(
			"car %s: %w", c.Number, cerr.ErrCarExists,
		))
	}
	if _, ok := q.r.models[c.ModelKey()]; !ok {
		return cerr.NotFound(fmt.Errorf(
			"model %s: %w", c.ModelKey(), cerr.ErrModelNotFound,
		))
	}
	number := c.Number
	q.r.cars[number] = &carEntry{car: *c}
	q.onRollback(func() {
		delete(q.r.cars, number)
	})
	return nil
}

func (q queryer) DeleteCar(_ context.Context, number string) error {
	defer q.lock()()
	c, ok := q.r.cars[number]
	if !ok {
		return cerr.NotFound(fmt.Errorf(
			"car %s: %w", number, cerr.ErrCarNotFound,
		))
	}
	o := q.r.detach(c)
	delete(q.r.cars, number)
	q.onRollback(func() {
		q.r.cars[number] = c
		if o != nil {
			q.r.attach(c, o)
		}
	})
	return nil
}

func (q queryer) SetCarOwner(
	_ context.Context, number string, personID *int64,
) error {
	defer q.lock()()
	c, ok := q.r.cars[number]
	if !ok {
		return cerr.NotFound(fmt.Errorf(
			"car %s: %w", number, cerr.ErrCarNotFound,
		))
	}
	var o *ownerEntry
	if personID != nil {
		o, ok = q.r.owners[*personID]
		if !ok {
			return cerr.NotFound(fmt.Errorf(
				"person %d: %w", *personID, cerr.ErrPersonNotFound,
			))
		}
	}
	old := q.r.detach(c)
	if o != nil {
		q.r.attach(c, o)
	}
	q.onRollback(func() {
		q.r.detach(c)
		if old != nil {
			q.r.attach(c, old)
		}
	})
	return nil
}

func (q queryer) InsertTradeDeal(
	_ context.Context, td *model.TradeDeal,
) error {
	defer q.lock()()
	c, ok := q.r.cars[td.CarNumber]
	if !ok {
		return cerr.NotFound(fmt.Errorf(
			"car %s: %w", td.CarNumber, cerr.ErrCarNotFound,
		))
	}
	n := len(q.r.deals)
	q.r.deals = append(q.r.deals, dealEntry{
		deal: cloneTradeDeal(*td),
		car:  c,
	})
	q.onRollback(func() {
		q.r.deals = q.r.deals[:n]
	})
	return nil
}

func (q queryer) OwnerCars(
	_ context.Context, personID int64,
) ([]model.Car, error) {
	defer q.lock()()
	o, ok := q.r.owners[personID]
	if !ok {
		return nil, nil
	}
	cars := make([]model.Car, 0, len(o.cars))
	for _, c := range o.cars {
		cars = append(cars, c.car)
	}
	slices.SortFunc(cars, func(a, b model.Car) int {
		return strings.Compare(a.Number, b.Number)
	})
	return cars, nil
}

// CarTradeDeals lists the trade deals of the currently registered
// number car. If there is no such car, trade deals of the deleted
// cars with that number are listed instead.
func (q queryer) CarTradeDeals(
	_ context.Context, number string,
) ([]model.TradeDeal, error) {
	defer q.lock()()
	c := q.r.cars[number]
	var deals []model.TradeDeal
	for _, de := range q.r.deals {
		if de.deal.CarNumber != number || (c != nil && de.car != c) {
			continue
		}
		deals = append(deals, cloneTradeDeal(de.deal))
	}
	slices.SortStableFunc(deals, func(a, b model.TradeDeal) int {
		return a.Date.Compare(b.Date.Time)
	})
	return deals, nil
}

func cloneTradeDeal(td model.TradeDeal) model.TradeDeal {
	if td.PersonID != nil {
		id := *td.PersonID
		td.PersonID = &id
	}
	return td
}
