// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"regexp"
	"strings"
)

// Boundary values for the registered entities.
const (
	MinModelYear = 2000
	MinPersonID  = 100000
	MaxPersonID  = 999999
)

// Messages which describe violations of the registration rules.
// They are reported to the REST API clients verbatim.
const (
	MsgMissingCarNumber   = "Missing car number"
	MsgWrongCarNumber     = "Incorrect Car Number"
	MsgMissingCarModel    = "Missing car model"
	MsgMissingCarYear     = "Missing car year"
	MsgNegativeKilometers = "Kilometers cannot be negative"
	MsgMissingPersonID    = "Missing person ID"
	MsgWrongMinYear       = "year cannot be less than 2000"
	MsgMissingModelYear   = "Missing model year"
	MsgMissingModelName   = "Missing model name"
	MsgMissingCompany     = "Missing company name"
	MsgNegativeEngineSpec = "Engine power and capacity cannot be negative"
	MsgWrongMinPersonID   = "Person ID must be greater or equal 100000"
	MsgWrongMaxPersonID   = "Person ID must be less or equal 999999"
	MsgMissingPersonName  = "Missing person name"
	MsgMissingBirthDate   = "Missing person's birth date"
	MsgWrongDateFormat    = "Wrong date format, must be YYYY-MM-dd"
	MsgMissingEmail       = "Missing email address"
	MsgWrongEmail         = "Wrong email format"
)

var (
	carNumberRegexp = regexp.MustCompile(
		`^(\d{3}-\d{2}-\d{3}|\d{2}-\d{3}-\d{2})$`,
	)
	dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidCarNumber reports whether s is a well-formed plate number,
// i.e., it looks like DDD-DD-DDD or DD-DDD-DD.
func ValidCarNumber(s string) bool {
	return carNumberRegexp.MatchString(s)
}

// ValidDateFormat reports whether s looks like YYYY-MM-DD.
// It does not check the calendar validity of s.
func ValidDateFormat(s string) bool {
	return dateRegexp.MatchString(s)
}

// ValidationError lists the messages of all violated rules for one
// entity. Its Error method joins them with semicolons.
type ValidationError []string

func (ve ValidationError) Error() string {
	return strings.Join(ve, ";")
}

func (ve *ValidationError) add(msgs ...string) {
	*ve = append(*ve, msgs...)
}

func (ve ValidationError) errOrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}
