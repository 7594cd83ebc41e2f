// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"fmt"

	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/core/model"
)

// TradeDealsPerModelName counts trade deals per model name of their
// cars. Since trade_deals rows have no foreign key, deals of deleted
// cars are left out by the inner join. Joining on car_id also leaves
// out deals of a former car whose number was registered again.
func TradeDealsPerModelName[Q postgres.Queryer](ctx context.Context, q Q) ([]model.ModelNameAmount, error) {
	var rows []model.ModelNameAmount
	err := q.GORM(ctx).Table("trade_deals AS td").Select(
		"c.model_name AS name, COUNT(*) AS amount",
	).Joins(
		"JOIN cars AS c ON c.car_id = td.car_id",
	).Group("c.model_name").Order("amount DESC, name").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// CarsPerModelName counts cars per model name. A non-positive limit
// returns all rows.
func CarsPerModelName[Q postgres.Queryer](ctx context.Context, q Q, limit int) ([]model.ModelNameAmount, error) {
	var rows []model.ModelNameAmount
	gdb := q.GORM(ctx).Table("cars").Select(
		"model_name AS name, COUNT(*) AS amount",
	).Group("model_name").Order("amount DESC, name")
	if limit > 0 {
		gdb = gdb.Limit(limit)
	}
	if err := gdb.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

func CarsPerModelNameByBirthDates[Q postgres.Queryer](ctx context.Context, q Q, limit int, from, to model.Date) ([]model.ModelNameAmount, error) {
	var rows []model.ModelNameAmount
	gdb := q.GORM(ctx).Table("cars AS c").Select(
		"c.model_name AS name, COUNT(*) AS amount",
	).Joins(
		"JOIN car_owners AS o ON o.id = c.owner_id",
	).Where(
		"o.birth_date BETWEEN ? AND ?", from.Time, to.Time,
	).Group("c.model_name").Order("amount DESC, name")
	if limit > 0 {
		gdb = gdb.Limit(limit)
	}
	if err := gdb.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

func CountTradeDeals[Q postgres.Queryer](ctx context.Context, q Q, modelName string, from, to model.Date) (int64, error) {
	var n int64
	err := q.GORM(ctx).Table("trade_deals AS td").Joins(
		"JOIN cars AS c ON c.car_id = td.car_id",
	).Where(
		"c.model_name = ? AND td.deal_date BETWEEN ? AND ?",
		modelName, from.Time, to.Time,
	).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return n, nil
}

func MostPopularColor[Q postgres.Queryer](ctx context.Context, q Q, modelName string) (string, error) {
	var colors []string
	err := q.GORM(ctx).Table("cars").Select("color").Where(
		"model_name = ?", modelName,
	).Group("color").Order("COUNT(*) DESC, color").Limit(1).Scan(
		&colors,
	).Error
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	if len(colors) == 0 {
		return "", nil
	}
	return colors[0], nil
}

func MinEnginePowerCapacity[Q postgres.Queryer](ctx context.Context, q Q, from, to model.Date) (*model.EnginePowerCapacity, error) {
	var row struct {
		Power    *int
		Capacity *int
	}
	err := q.GORM(ctx).Table("cars AS c").Select(
		"MIN(m.engine_power) AS power, MIN(m.engine_capacity) AS capacity",
	).Joins(
		"JOIN car_owners AS o ON o.id = c.owner_id",
	).Joins(
		"JOIN models AS m ON m.model_name = c.model_name" +
			" AND m.model_year = c.model_year",
	).Where(
		"o.birth_date BETWEEN ? AND ?", from.Time, to.Time,
	).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if row.Power == nil || row.Capacity == nil {
		return nil, nil
	}
	return &model.EnginePowerCapacity{
		Power:    *row.Power,
		Capacity: *row.Capacity,
	}, nil
}
