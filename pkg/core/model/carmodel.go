// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// ModelKey is the compound key of a CarModel.
type ModelKey struct {
	Name string
	Year int
}

// String returns the name/year representation of a model key.
func (k ModelKey) String() string {
	return fmt.Sprintf("%s/%d", k.Name, k.Year)
}

// CarModel is the reference data which describes a car make and its
// engine specification. It is keyed by the name and production year.
type CarModel struct {
	Name           string `json:"modelName"`
	Year           int    `json:"modelYear"`
	Company        string `json:"company"`
	EnginePower    int    `json:"enginePower"`
	EngineCapacity int    `json:"engineCapacity"`
}

// Key returns the compound key of m.
func (m *CarModel) Key() ModelKey {
	return ModelKey{Name: m.Name, Year: m.Year}
}

// Validate checks the model fields and returns a ValidationError
// listing all violated rules, or nil.
func (m *CarModel) Validate() error {
	var ve ValidationError
	if m.Name == "" {
		ve.add(MsgMissingModelName)
	}
	switch {
	case m.Year == 0:
		ve.add(MsgMissingModelYear)
	case m.Year < MinModelYear:
		ve.add(MsgWrongMinYear)
	}
	if m.Company == "" {
		ve.add(MsgMissingCompany)
	}
	if m.EnginePower < 0 || m.EngineCapacity < 0 {
		ve.add(MsgNegativeEngineSpec)
	}
	return ve.errOrNil()
}
