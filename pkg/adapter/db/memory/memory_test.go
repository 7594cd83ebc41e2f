// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momeni/car-deals/pkg/adapter/db/memory"
	"github.com/momeni/car-deals/pkg/adapter/db/seed"
	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAbort = errors.New("abort")

func newSeeded(ctx context.Context, t *testing.T) (*memory.Registry, repo.Cars) {
	r, cars := memory.New(), memory.NewCarsRepo()
	err := r.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return seed.Load(ctx, cars.Tx(tx), seed.Dev())
		})
	})
	require.NoError(t, err, "loading dev dataset")
	return r, cars
}

func conn(
	ctx context.Context, t *testing.T, r *memory.Registry, cars repo.Cars,
	f func(q repo.CarsConnQueryer),
) {
	err := r.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		f(cars.Conn(c))
		return nil
	})
	require.NoError(t, err)
}

func ownerCarNumbers(
	ctx context.Context, t *testing.T, q repo.CarsQueryer, id int64,
) []string {
	cs, err := q.OwnerCars(ctx, id)
	require.NoError(t, err)
	numbers := make([]string, 0, len(cs))
	for _, c := range cs {
		numbers = append(numbers, c.Number)
	}
	return numbers
}

func TestSeededOwners(t *testing.T) {
	ctx := context.Background()
	r, cars := newSeeded(ctx, t)
	conn(ctx, t, r, cars, func(q repo.CarsConnQueryer) {
		assert.Equal(t, []string{"111-11-111", "222-22-222"}, ownerCarNumbers(ctx, t, q, 234567))
		assert.Equal(t, []string{"333-33-333"}, ownerCarNumbers(ctx, t, q, 123456))
		assert.Equal(t, []string{"44-444-44"}, ownerCarNumbers(ctx, t, q, 345678))
		assert.Empty(t, ownerCarNumbers(ctx, t, q, 456789))

		p, err := q.CarOwner(ctx, "555-55-555")
		require.NoError(t, err)
		assert.Nil(t, p)
		p, err = q.CarOwner(ctx, "111-11-111")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Sara", p.Name)

		deals, err := q.CarTradeDeals(ctx, "111-11-111")
		require.NoError(t, err)
		require.Len(t, deals, 2)
		assert.Equal(t, int64(123456), *deals[0].PersonID)
		assert.Equal(t, int64(234567), *deals[1].PersonID)
	})
}

func TestTxRollbackOnError(t *testing.T) {
	ctx := context.Background()
	r, cars := newSeeded(ctx, t)
	err := r.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.Tx(tx)
			if err := q.DeletePerson(ctx, 234567); err != nil {
				return err
			}
			if err := q.DeleteCar(ctx, "333-33-333"); err != nil {
				return err
			}
			id := int64(456789)
			if err := q.SetCarOwner(ctx, "555-55-555", &id); err != nil {
				return err
			}
			if err := q.UpdatePersonEmail(ctx, 123456, "v@x.com"); err != nil {
				return err
			}
			if err := q.InsertTradeDeal(ctx, &model.TradeDeal{
				CarNumber: "555-55-555",
				PersonID:  &id,
				Date:      model.NewDate(2024, time.January, 1),
			}); err != nil {
				return err
			}
			return errAbort
		})
	})
	require.ErrorIs(t, err, errAbort)

	conn(ctx, t, r, cars, func(q repo.CarsConnQueryer) {
		assert.Equal(t, []string{"111-11-111", "222-22-222"}, ownerCarNumbers(ctx, t, q, 234567))
		assert.Equal(t, []string{"333-33-333"}, ownerCarNumbers(ctx, t, q, 123456))
		assert.Empty(t, ownerCarNumbers(ctx, t, q, 456789))
		p, err := q.Person(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, "Vasya@cars.example.com", p.Email)
		deals, err := q.CarTradeDeals(ctx, "555-55-555")
		require.NoError(t, err)
		assert.Empty(t, deals)
	})
}

func TestTxRollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	r, cars := newSeeded(ctx, t)
	err := r.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.Tx(tx)
			if err := q.InsertModel(ctx, &model.CarModel{
				Name: "lada", Year: 2020, Company: "AvtoVAZ",
			}); err != nil {
				return err
			}
			panic("boom")
		})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	conn(ctx, t, r, cars, func(q repo.CarsConnQueryer) {
		m, err := q.CarModel(ctx, model.ModelKey{Name: "lada", Year: 2020})
		require.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestDeletedEntities(t *testing.T) {
	ctx := context.Background()
	r, cars := newSeeded(ctx, t)
	conn(ctx, t, r, cars, func(q repo.CarsConnQueryer) {
		require.NoError(t, q.DeletePerson(ctx, 234567))
		p, err := q.CarOwner(ctx, "222-22-222")
		require.NoError(t, err)
		assert.Nil(t, p)

		require.NoError(t, q.DeleteCar(ctx, "111-11-111"))
		deals, err := q.CarTradeDeals(ctx, "111-11-111")
		require.NoError(t, err)
		assert.Len(t, deals, 2)

		rows, err := q.TradeDealsPerModelName(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.ModelNameAmount{
			{Name: "kia", Amount: 1},
			{Name: "mazda", Amount: 1},
			{Name: "toyota", Amount: 1},
		}, rows)

		err = q.DeleteCar(ctx, "111-11-111")
		assert.ErrorIs(t, err, cerr.ErrCarNotFound)
		err = q.DeletePerson(ctx, 234567)
		assert.ErrorIs(t, err, cerr.ErrPersonNotFound)
		err = q.InsertTradeDeal(ctx, &model.TradeDeal{
			CarNumber: "111-11-111",
			Date:      model.NewDate(2024, time.January, 1),
		})
		assert.ErrorIs(t, err, cerr.ErrCarNotFound)
	})
}

func TestInsertDuplicates(t *testing.T) {
	ctx := context.Background()
	r, cars := newSeeded(ctx, t)
	ds := seed.Dev()
	conn(ctx, t, r, cars, func(q repo.CarsConnQueryer) {
		assert.ErrorIs(t, q.InsertPerson(ctx, &ds.People[0]), cerr.ErrPersonExists)
		assert.ErrorIs(t, q.InsertModel(ctx, &ds.Models[0]), cerr.ErrModelExists)
		assert.ErrorIs(t, q.InsertCar(ctx, &ds.Cars[0]), cerr.ErrCarExists)
		c := ds.Cars[0]
		c.Number, c.Year = "999-99-999", 2001
		assert.ErrorIs(t, q.InsertCar(ctx, &c), cerr.ErrModelNotFound)
	})
}

func TestSQLUnsupported(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	err := r.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		_, err := c.Exec(ctx, "SELECT 1")
		assert.ErrorIs(t, err, memory.ErrSQLUnsupported)
		_, err = c.Query(ctx, "SELECT 1")
		assert.ErrorIs(t, err, memory.ErrSQLUnsupported)
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := tx.Exec(ctx, "SELECT 1")
			return err
		})
	})
	assert.ErrorIs(t, err, memory.ErrSQLUnsupported)
	assert.NoError(t, r.Close())
}
