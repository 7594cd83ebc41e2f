// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strconv"
	"time"
)

// DateLayout is the YYYY-MM-DD layout which is used for serialization
// of Date values.
const DateLayout = time.DateOnly

// ErrWrongDateFormat indicates that a string does not follow the
// DateLayout or is not a valid calendar date.
var ErrWrongDateFormat = errors.New(MsgWrongDateFormat)

// Date is a calendar date. It embeds a time.Time which is always at
// midnight in UTC, so two dates can be compared with == and with the
// embedded Before, After, and Equal methods.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses s following the DateLayout.
func ParseDate(s string) (Date, error) {
	if !ValidDateFormat(s) {
		return Date{}, ErrWrongDateFormat
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrWrongDateFormat
	}
	return Date{t}, nil
}

// AddYears returns the date which is n years after d (or before it
// for a negative n). The February 29 dates are normalized by the
// time package rules.
func (d Date) AddYears(n int) Date {
	return DateOf(d.Time.AddDate(n, 0, 0))
}

// String formats d using the DateLayout. A zero date is formatted as
// an empty string.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty text
// produces the zero date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	dd, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}

// MarshalJSON encodes d as a JSON string, or null for a zero date.
// It shadows the time.Time method which would emit an RFC 3339 string.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes a JSON string (or null) into d.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return ErrWrongDateFormat
	}
	return d.UnmarshalText([]byte(s))
}

// MonthRange returns the first and last dates of the given month.
func MonthRange(year int, month time.Month) (first, last Date) {
	first = NewDate(year, month, 1)
	last = DateOf(first.Time.AddDate(0, 1, -1))
	return first, last
}

// BirthDateRange returns the inclusive range of birth dates from ageTo
// years before today up to ageFrom years before today. Ages are exact,
// not truncated to whole years, so the [50, 53] range keeps a person
// whose 53rd birthday is today but leaves out one who is 53 and a half.
func BirthDateRange(today Date, ageFrom, ageTo int) (from, to Date) {
	return today.AddYears(-ageTo), today.AddYears(-ageFrom)
}
