// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// OwnerCarsPolicy specifies how the OwnerCars use case treats
// an unknown person identifier.
type OwnerCarsPolicy int

// Valid values for the OwnerCarsPolicy enum.
const (
	OwnerCarsInvalid OwnerCarsPolicy = iota // zero value is invalid

	OwnerCarsNotFound // return a not-found error
	OwnerCarsEmpty    // return an empty list of cars
)

// ParseOwnerCarsPolicy parses the "not-found" and "empty" strings.
func ParseOwnerCarsPolicy(s string) (OwnerCarsPolicy, error) {
	switch s {
	case "not-found":
		return OwnerCarsNotFound, nil
	case "empty":
		return OwnerCarsEmpty, nil
	default:
		return OwnerCarsInvalid, fmt.Errorf(
			"unknown owner cars policy: %q", s,
		)
	}
}

// WithOwnerCarsPolicy option configures a cars UseCase instance
// in order to treat unknown people according to the p policy in the
// OwnerCars use case. This option may be passed to the New() function.
func WithOwnerCarsPolicy(p OwnerCarsPolicy) Option {
	return func(uc *UseCase) error {
		if p != OwnerCarsNotFound && p != OwnerCarsEmpty {
			return fmt.Errorf("invalid owner cars policy: %d", p)
		}
		if uc.ownerCarsPolicy != OwnerCarsInvalid {
			return errors.New("owner cars policy is already configured")
		}
		uc.ownerCarsPolicy = p
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// finding today, e.g., for converting ages to birth dates.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithMaxReportSize option limits the maximum number of rows which
// may be requested from the top-n reports.
func WithMaxReportSize(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("max report size (%d) is not positive", n)
		}
		if uc.maxReportSize != 0 {
			return errors.New("max report size is already configured")
		}
		uc.maxReportSize = n
		return nil
	}
}

// WithDefaultReportSize option configures the number of rows which
// are returned by the top-n reports when n is not specified.
func WithDefaultReportSize(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("default report size (%d) is not positive", n)
		}
		if uc.defaultReportSize != 0 {
			return errors.New("default report size is already configured")
		}
		uc.defaultReportSize = n
		return nil
	}
}
