// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package seed provides the initial data rows of the cars registry.
// The production dataset only contains the reference car models, while
// the development dataset also contains a few people, cars, and trade
// deals which are useful for manual tests of the REST APIs.
// Datasets are loaded using the repo.CarsQueryer primitives, so they
// may be used for both of the database and in-memory storage backends.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// Dataset is a set of rows which may be loaded into an empty registry.
// Cars are loaded without owner and the Deals are applied afterwards
// in their order, so the last deal of each car determines its owner.
type Dataset struct {
	Models []model.CarModel
	People []model.Person
	Cars   []model.Car
	Deals  []model.TradeDeal
}

// Prod returns the production suitable dataset.
func Prod() *Dataset {
	return &Dataset{
		Models: models(),
	}
}

// Dev returns the development suitable dataset.
func Dev() *Dataset {
	return &Dataset{
		Models: models(),
		People: []model.Person{
			person(123456, "Vasya", model.NewDate(1990, time.May, 12)),
			person(234567, "Sara", model.NewDate(1985, time.November, 3)),
			person(345678, "Moshe", model.NewDate(2000, time.February, 29)),
			person(456789, "Rivka", model.NewDate(1970, time.July, 7)),
		},
		Cars: []model.Car{
			car("111-11-111", "mazda", 2020, "red"),
			car("222-22-222", "toyota", 2021, "black"),
			car("333-33-333", "mazda", 2021, "white"),
			car("44-444-44", "kia", 2022, "red"),
			car("555-55-555", "skoda", 2020, "silver"),
		},
		Deals: []model.TradeDeal{
			deal("111-11-111", 123456, model.NewDate(2023, time.January, 10)),
			deal("222-22-222", 234567, model.NewDate(2023, time.February, 15)),
			deal("333-33-333", 123456, model.NewDate(2023, time.March, 20)),
			deal("44-444-44", 345678, model.NewDate(2023, time.March, 25)),
			deal("111-11-111", 234567, model.NewDate(2023, time.June, 1)),
		},
	}
}

func models() []model.CarModel {
	return []model.CarModel{
		{Name: "kia", Year: 2022, Company: "Kia", EnginePower: 130, EngineCapacity: 1600},
		{Name: "mazda", Year: 2020, Company: "Mazda", EnginePower: 150, EngineCapacity: 2000},
		{Name: "mazda", Year: 2021, Company: "Mazda", EnginePower: 165, EngineCapacity: 2500},
		{Name: "skoda", Year: 2020, Company: "Skoda", EnginePower: 110, EngineCapacity: 1400},
		{Name: "toyota", Year: 2021, Company: "Toyota", EnginePower: 180, EngineCapacity: 2500},
	}
}

func person(id int64, name string, birth model.Date) model.Person {
	return model.Person{
		ID:        id,
		Name:      name,
		BirthDate: birth,
		Email:     fmt.Sprintf("%s@cars.example.com", name),
	}
}

func car(number, modelName string, year int, color string) model.Car {
	return model.Car{
		Number:     number,
		Model:      modelName,
		Year:       year,
		Color:      color,
		Kilometers: 1000,
		State:      model.CarStateGood,
	}
}

func deal(number string, personID int64, date model.Date) model.TradeDeal {
	return model.TradeDeal{
		CarNumber: number,
		PersonID:  &personID,
		Date:      date,
	}
}

// Load inserts ds rows using the q queryer. The q is expected to be
// bound to a transaction, so a failed Load leaves no partial rows.
func Load(ctx context.Context, q repo.CarsQueryer, ds *Dataset) error {
	for i := range ds.Models {
		if err := q.InsertModel(ctx, &ds.Models[i]); err != nil {
			return fmt.Errorf("models[%d]: %w", i, err)
		}
	}
	for i := range ds.People {
		if err := q.InsertPerson(ctx, &ds.People[i]); err != nil {
			return fmt.Errorf("people[%d]: %w", i, err)
		}
	}
	for i := range ds.Cars {
		if err := q.InsertCar(ctx, &ds.Cars[i]); err != nil {
			return fmt.Errorf("cars[%d]: %w", i, err)
		}
	}
	for i := range ds.Deals {
		td := &ds.Deals[i]
		if err := q.SetCarOwner(ctx, td.CarNumber, td.PersonID); err != nil {
			return fmt.Errorf("deals[%d]: setting owner: %w", i, err)
		}
		if err := q.InsertTradeDeal(ctx, td); err != nil {
			return fmt.Errorf("deals[%d]: %w", i, err)
		}
	}
	return nil
}
