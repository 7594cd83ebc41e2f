// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"

	"github.com/momeni/car-deals/pkg/core/model"
)

func (q queryer) TradeDealsPerModelName(
	context.Context,
) ([]model.ModelNameAmount, error) {
	defer q.lock()()
	counts := make(map[string]int64)
	for _, de := range q.r.deals {
		if q.registered(de) {
			counts[de.car.car.Model]++
		}
	}
	return amounts(counts, 0), nil
}

func (q queryer) CarsPerModelName(
	_ context.Context, limit int,
) ([]model.ModelNameAmount, error) {
	defer q.lock()()
	counts := make(map[string]int64)
	for _, c := range q.r.cars {
		counts[c.car.Model]++
	}
	return amounts(counts, limit), nil
}

func (q queryer) CarsPerModelNameByBirthDates(
	_ context.Context, limit int, from, to model.Date,
) ([]model.ModelNameAmount, error) {
	defer q.lock()()
	counts := make(map[string]int64)
	for _, c := range q.r.cars {
		if c.owner != nil && inRange(c.owner.person.BirthDate, from, to) {
			counts[c.car.Model]++
		}
	}
	return amounts(counts, limit), nil
}

func (q queryer) CountTradeDeals(
	_ context.Context, modelName string, from, to model.Date,
) (int64, error) {
	defer q.lock()()
	var n int64
	for _, de := range q.r.deals {
		if !q.registered(de) || de.car.car.Model != modelName {
			continue
		}
		if inRange(de.deal.Date, from, to) {
			n++
		}
	}
	return n, nil
}

func (q queryer) MostPopularColor(
	_ context.Context, modelName string,
) (string, error) {
	defer q.lock()()
	counts := make(map[string]int64)
	for _, c := range q.r.cars {
		if c.car.Model == modelName {
			counts[c.car.Color]++
		}
	}
	rows := amounts(counts, 1)
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Name, nil
}

func (q queryer) MinEnginePowerCapacity(
	_ context.Context, from, to model.Date,
) (*model.EnginePowerCapacity, error) {
	defer q.lock()()
	var epc *model.EnginePowerCapacity
	for _, c := range q.r.cars {
		if c.owner == nil || !inRange(c.owner.person.BirthDate, from, to) {
			continue
		}
		m := q.r.models[c.car.ModelKey()]
		if epc == nil {
			epc = &model.EnginePowerCapacity{
				Power:    m.EnginePower,
				Capacity: m.EngineCapacity,
			}
			continue
		}
		epc.Power = min(epc.Power, m.EnginePower)
		epc.Capacity = min(epc.Capacity, m.EngineCapacity)
	}
	return epc, nil
}

// registered reports if the car of de is still registered.
// Trade deals of deleted cars are skipped by the aggregations.
func (q queryer) registered(de dealEntry) bool {
	return q.r.cars[de.car.car.Number] == de.car
}

// amounts converts the counts map to a sorted slice, keeping at most
// limit rows. A non-positive limit keeps all rows.
func amounts(counts map[string]int64, limit int) []model.ModelNameAmount {
	rows := make([]model.ModelNameAmount, 0, len(counts))
	for name, n := range counts {
		rows = append(rows, model.ModelNameAmount{Name: name, Amount: n})
	}
	model.SortModelNameAmounts(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func inRange(d, from, to model.Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}
