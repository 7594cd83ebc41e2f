// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

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

// MostSoldModelNames returns the model names which have the maximum
// number of trade deals, sorted by their names.
func (cars *UseCase) MostSoldModelNames(ctx context.Context) (names []string, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err := cars.carsrp.Conn(c).TradeDealsPerModelName(ctx)
		if err != nil {
			return err
		}
		names = model.TopNames(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "most sold model names", slog.Any("names", names))
	return names, nil
}

// MostPopularModels returns the model names which have the maximum
// number of cars, sorted by their names.
func (cars *UseCase) MostPopularModels(ctx context.Context) (names []string, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err := cars.carsrp.Conn(c).CarsPerModelName(ctx, 0)
		if err != nil {
			return err
		}
		names = model.TopNames(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "most popular models", slog.Any("names", names))
	return names, nil
}

// MostPopularModelNames returns the n model names with the most
// number of cars. A zero n is replaced by the default report size.
func (cars *UseCase) MostPopularModelNames(ctx context.Context, n int) (rows []model.ModelNameAmount, err error) {
	if n, err = cars.reportSize(n); err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err = cars.carsrp.Conn(c).CarsPerModelName(ctx, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.ModelNameAmount{}
	}
	logModelNameAmounts(ctx, rows)
	return rows, nil
}

// CountTradeDealsAtMonthModel counts trade deals of cars having the
// modelName model name which are made in the given month of year.
func (cars *UseCase) CountTradeDealsAtMonthModel(ctx context.Context, modelName string, month, year int) (n int64, err error) {
	switch {
	case modelName == "":
		return 0, cerr.BadRequest(model.ValidationError{
			model.MsgMissingModelName,
		})
	case month < 1 || month > 12:
		return 0, cerr.BadRequest(fmt.Errorf(
			"month (%d) is not in [1, 12] range", month,
		))
	case year < 1:
		return 0, cerr.BadRequest(fmt.Errorf(
			"year (%d) is not positive", year,
		))
	}
	from, to := model.MonthRange(year, time.Month(month))
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = cars.carsrp.Conn(c).CountTradeDeals(ctx, modelName, from, to)
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Debug(
		ctx, "trade deals are counted",
		slog.String("model", modelName),
		slog.Int("year", year), slog.Int("month", month),
		slog.Int64("count", n),
	)
	return n, nil
}

// MostPopularModelNamesByOwnerAges returns the n model names with the
// most number of cars, only counting cars whose owners were born in
// the [today - ageTo years, today - ageFrom years] dates range.
// See model.BirthDateRange for the exact ages semantics.
func (cars *UseCase) MostPopularModelNamesByOwnerAges(ctx context.Context, n, ageFrom, ageTo int) (rows []model.ModelNameAmount, err error) {
	if n, err = cars.reportSize(n); err != nil {
		return nil, err
	}
	from, to, err := cars.birthDates(ageFrom, ageTo)
	if err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err = cars.carsrp.Conn(c).CarsPerModelNameByBirthDates(
			ctx, n, from, to,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.ModelNameAmount{}
	}
	logModelNameAmounts(ctx, rows)
	return rows, nil
}

// OneMostPopularColorModel returns the most frequent color of cars
// having the modelName model name. Ties are broken by color names.
func (cars *UseCase) OneMostPopularColorModel(ctx context.Context, modelName string) (color string, err error) {
	if modelName == "" {
		return "", cerr.BadRequest(model.ValidationError{
			model.MsgMissingModelName,
		})
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		color, err = cars.carsrp.Conn(c).MostPopularColor(ctx, modelName)
		return err
	})
	switch {
	case err != nil:
		return "", err
	case color == "":
		return "", cerr.NotFound(fmt.Errorf(
			"cars of %q model: %w", modelName, cerr.ErrReportEmpty,
		))
	}
	log.Debug(
		ctx, "most popular color is found",
		slog.String("model", modelName), slog.String("color", color),
	)
	return color, nil
}

// MinEnginePowerCapacityByOwnerAges returns the minimum engine power
// and capacity of cars whose owners were born in the
// [today - ageTo years, today - ageFrom years] dates range.
func (cars *UseCase) MinEnginePowerCapacityByOwnerAges(ctx context.Context, ageFrom, ageTo int) (epc *model.EnginePowerCapacity, err error) {
	from, to, err := cars.birthDates(ageFrom, ageTo)
	if err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		epc, err = cars.carsrp.Conn(c).MinEnginePowerCapacity(ctx, from, to)
		return err
	})
	switch {
	case err != nil:
		return nil, err
	case epc == nil:
		return nil, cerr.NotFound(fmt.Errorf(
			"cars of owners with ages in [%d, %d]: %w",
			ageFrom, ageTo, cerr.ErrReportEmpty,
		))
	}
	log.Debug(
		ctx, "min engine power and capacity are found",
		slog.Int("power", epc.Power), slog.Int("capacity", epc.Capacity),
		slog.Int("from", ageFrom), slog.Int("to", ageTo),
	)
	return epc, nil
}

func (cars *UseCase) reportSize(n int) (int, error) {
	switch {
	case n == 0:
		return cars.defaultReportSize, nil
	case n < 0 || n > cars.maxReportSize:
		return 0, cerr.BadRequest(fmt.Errorf(
			"report size (%d) is not in [1, %d] range",
			n, cars.maxReportSize,
		))
	}
	return n, nil
}

func (cars *UseCase) birthDates(ageFrom, ageTo int) (from, to model.Date, err error) {
	switch {
	case ageFrom < 0:
		err = cerr.BadRequest(fmt.Errorf("age (%d) is negative", ageFrom))
	case ageFrom > ageTo:
		err = cerr.BadRequest(fmt.Errorf(
			"age range [%d, %d] is empty", ageFrom, ageTo,
		))
	default:
		from, to = model.BirthDateRange(cars.today(), ageFrom, ageTo)
	}
	return
}

func logModelNameAmounts(ctx context.Context, rows []model.ModelNameAmount) {
	for _, r := range rows {
		log.Debug(
			ctx, "model name amount",
			slog.String("name", r.Name), slog.Int64("amount", r.Amount),
		)
	}
}
