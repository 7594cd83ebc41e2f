// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"log/slog"
)

// Car models a registered car, identified by its plate number.
// The current owner of a car is not a field of this struct because
// ownership is a relationship which is maintained by the storage layer
// (and changed only by the purchase and delete use cases). For the
// persisted counterpart, see the unexported gCar struct in the
// pkg/adapter/db/postgres/carsrp/query.go file.
type Car struct {
	Number     string   `json:"number"`     // plate number
	Model      string   `json:"model"`      // model name
	Year       int      `json:"year"`       // model year
	Color      string   `json:"color"`      // body color
	Kilometers int      `json:"kilometers"` // odometer reading
	State      CarState `json:"state"`      // condition of the car
}

// ModelKey returns the compound key of the CarModel which this car
// refers to.
func (c *Car) ModelKey() ModelKey {
	return ModelKey{Name: c.Model, Year: c.Year}
}

// Validate checks the car fields against the registration rules and
// returns a ValidationError listing all violated rules, or nil.
func (c *Car) Validate() error {
	var ve ValidationError
	switch {
	case c.Number == "":
		ve.add(MsgMissingCarNumber)
	case !ValidCarNumber(c.Number):
		ve.add(MsgWrongCarNumber)
	}
	if c.Model == "" {
		ve.add(MsgMissingCarModel)
	}
	switch {
	case c.Year == 0:
		ve.add(MsgMissingCarYear)
	case c.Year < MinModelYear:
		ve.add(MsgWrongMinYear)
	}
	if c.Kilometers < 0 {
		ve.add(MsgNegativeKilometers)
	}
	if err := c.State.Validate(); err != nil {
		ve.add(err.Error())
	}
	return ve.errOrNil()
}

// LogValue implements slog.LogValuer, so a car may be logged as a
// group of its identifying attributes.
func (c *Car) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("nil-car")
	}
	return slog.GroupValue(
		slog.String("number", c.Number),
		slog.String("model", c.Model),
		slog.Int("year", c.Year),
	)
}
