// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"log/slog"
	"net/mail"
)

// Person models a (possible) car owner. The ID is assigned externally,
// e.g., a national identification number, and must be in the
// [MinPersonID, MaxPersonID] range.
type Person struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate Date   `json:"birthDate"`
	Email     string `json:"email"`
}

// Validate checks the person fields and returns a ValidationError
// listing all violated rules, or nil.
func (p *Person) Validate() error {
	var ve ValidationError
	ve.add(validatePersonID(p.ID)...)
	if p.Name == "" {
		ve.add(MsgMissingPersonName)
	}
	if p.BirthDate.IsZero() {
		ve.add(MsgMissingBirthDate)
	}
	switch {
	case p.Email == "":
		ve.add(MsgMissingEmail)
	case !validEmail(p.Email):
		ve.add(MsgWrongEmail)
	}
	return ve.errOrNil()
}

// ValidatePersonID checks a person identifier which is received alone,
// e.g., as a path parameter.
func ValidatePersonID(id int64) error {
	var ve ValidationError
	ve.add(validatePersonID(id)...)
	return ve.errOrNil()
}

func validatePersonID(id int64) []string {
	switch {
	case id == 0:
		return []string{MsgMissingPersonID}
	case id < MinPersonID:
		return []string{MsgWrongMinPersonID}
	case id > MaxPersonID:
		return []string{MsgWrongMaxPersonID}
	}
	return nil
}

func validEmail(email string) bool {
	a, err := mail.ParseAddress(email)
	return err == nil && a.Address == email
}

// LogValue implements slog.LogValuer. The email and birth date are
// left out of the logs.
func (p *Person) LogValue() slog.Value {
	if p == nil {
		return slog.StringValue("nil-person")
	}
	return slog.GroupValue(
		slog.Int64("id", p.ID),
		slog.String("name", p.Name),
	)
}
