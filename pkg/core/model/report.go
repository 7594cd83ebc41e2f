// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"cmp"
	"slices"
)

// ModelNameAmount is a report row which counts the number of items,
// e.g., cars, for a model name.
type ModelNameAmount struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// EnginePowerCapacity is a report row which holds the minimum engine
// power and capacity among a set of cars.
type EnginePowerCapacity struct {
	Power    int `json:"power"`
	Capacity int `json:"capacity"`
}

// SortModelNameAmounts sorts rows by descending amount, breaking ties
// by ascending names.
func SortModelNameAmounts(rows []ModelNameAmount) {
	slices.SortFunc(rows, func(a, b ModelNameAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// TopNames returns names of those rows which have the maximum amount,
// in ascending order. The rows must be sorted by SortModelNameAmounts.
func TopNames(rows []ModelNameAmount) []string {
	names := make([]string, 0, 1)
	for _, r := range rows {
		if r.Amount != rows[0].Amount {
			break
		}
		names = append(names, r.Name)
	}
	return names
}
