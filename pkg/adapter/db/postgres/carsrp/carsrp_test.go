// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/momeni/car-deals/internal/test/dbcontainer"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/car-deals/pkg/adapter/db/seed"
	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type CarsRepoTestSuite struct {
	Ctx  context.Context
	Pool *postgres.Pool
	Cars *carsrp.Repo
}

func TestCarsRepoTestSuite(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.NewWithTables(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	crts := &CarsRepoTestSuite{
		Ctx:  ctx,
		Pool: pool,
		Cars: carsrp.New(),
	}
	t.Run("seeding", crts.TestSeed)
	t.Run("reports", crts.TestReports)
	t.Run("purchase and delete", crts.TestPurchaseAndDelete)
}

func (crts *CarsRepoTestSuite) conn(
	t *testing.T, f func(ctx context.Context, q repo.CarsConnQueryer),
) {
	err := crts.Pool.Conn(
		crts.Ctx, func(ctx context.Context, c repo.Conn) error {
			f(ctx, crts.Cars.Conn(c))
			return nil
		},
	)
	require.NoError(t, err)
}

func (crts *CarsRepoTestSuite) TestSeed(t *testing.T) {
	err := crts.Pool.Conn(
		crts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				return seed.Load(ctx, crts.Cars.Tx(tx), seed.Dev())
			})
		},
	)
	require.NoError(t, err, "loading dev dataset")

	crts.conn(t, func(ctx context.Context, q repo.CarsConnQueryer) {
		p, err := q.Person(ctx, 345678)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, model.NewDate(2000, time.February, 29), p.BirthDate)

		m, err := q.CarModel(ctx, model.ModelKey{Name: "kia", Year: 2022})
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "Kia", m.Company)

		c, err := q.Car(ctx, "555-55-555")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, model.CarStateGood, c.State)

		owner, err := q.CarOwner(ctx, "111-11-111")
		require.NoError(t, err)
		require.NotNil(t, owner)
		assert.Equal(t, int64(234567), owner.ID)

		cs, err := q.OwnerCars(ctx, 234567)
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, "111-11-111", cs[0].Number)
		assert.Equal(t, "222-22-222", cs[1].Number)

		deals, err := q.CarTradeDeals(ctx, "111-11-111")
		require.NoError(t, err)
		require.Len(t, deals, 2)
		assert.Equal(t, model.NewDate(2023, time.January, 10), deals[0].Date)
		assert.Equal(t, int64(234567), *deals[1].PersonID)
	})
}

func (crts *CarsRepoTestSuite) TestReports(t *testing.T) {
	crts.conn(t, func(ctx context.Context, q repo.CarsConnQueryer) {
		rows, err := q.TradeDealsPerModelName(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.ModelNameAmount{
			{Name: "mazda", Amount: 3},
			{Name: "kia", Amount: 1},
			{Name: "toyota", Amount: 1},
		}, rows)

		rows, err = q.CarsPerModelName(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []model.ModelNameAmount{
			{Name: "mazda", Amount: 2},
			{Name: "kia", Amount: 1},
			{Name: "skoda", Amount: 1},
		}, rows)

		from, to := model.NewDate(1984, time.June, 15), model.NewDate(1994, time.June, 15)
		rows, err = q.CarsPerModelNameByBirthDates(ctx, 10, from, to)
		require.NoError(t, err)
		assert.Equal(t, []model.ModelNameAmount{
			{Name: "mazda", Amount: 2},
			{Name: "toyota", Amount: 1},
		}, rows)

		epc, err := q.MinEnginePowerCapacity(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, &model.EnginePowerCapacity{Power: 150, Capacity: 2000}, epc)
		epc, err = q.MinEnginePowerCapacity(ctx, from.AddYears(-30), to.AddYears(-30))
		require.NoError(t, err)
		assert.Nil(t, epc)

		first, last := model.MonthRange(2023, time.March)
		n, err := q.CountTradeDeals(ctx, "mazda", first, last)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		color, err := q.MostPopularColor(ctx, "mazda")
		require.NoError(t, err)
		assert.Equal(t, "red", color)
		color, err = q.MostPopularColor(ctx, "lada")
		require.NoError(t, err)
		assert.Equal(t, "", color)
	})
}

func (crts *CarsRepoTestSuite) TestPurchaseAndDelete(t *testing.T) {
	crts.conn(t, func(ctx context.Context, q repo.CarsConnQueryer) {
		id := int64(456789)
		require.NoError(t, q.SetCarOwner(ctx, "555-55-555", &id))
		require.NoError(t, q.InsertTradeDeal(ctx, &model.TradeDeal{
			CarNumber: "555-55-555",
			PersonID:  &id,
			Date:      model.NewDate(2024, time.June, 15),
		}))
		require.NoError(t, q.UpdatePersonEmail(ctx, id, "rivka@example.org"))

		require.NoError(t, q.DeletePerson(ctx, id))
		owner, err := q.CarOwner(ctx, "555-55-555")
		require.NoError(t, err)
		assert.Nil(t, owner)

		require.NoError(t, q.DeleteCar(ctx, "555-55-555"))
		c, err := q.Car(ctx, "555-55-555")
		require.NoError(t, err)
		assert.Nil(t, c)
		deals, err := q.CarTradeDeals(ctx, "555-55-555")
		require.NoError(t, err)
		assert.Len(t, deals, 1)

		err = q.DeleteCar(ctx, "555-55-555")
		assert.ErrorIs(t, err, cerr.ErrCarNotFound)
		err = q.UpdatePersonEmail(ctx, id, "rivka@example.org")
		assert.ErrorIs(t, err, cerr.ErrPersonNotFound)
		err = q.SetCarOwner(ctx, "555-55-555", nil)
		assert.ErrorIs(t, err, cerr.ErrCarNotFound)
		err = q.InsertTradeDeal(ctx, &model.TradeDeal{
			CarNumber: "555-55-555",
			Date:      model.NewDate(2024, time.June, 16),
		})
		assert.ErrorIs(t, err, cerr.ErrCarNotFound)
	})
}
