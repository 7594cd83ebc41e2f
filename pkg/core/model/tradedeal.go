// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "log/slog"

// TradeDeal records an ownership transfer of a car. A nil PersonID
// means that the car was returned to no owner.
// Trade deals are append-only and are never updated or deleted, not
// even when their car or person is deleted.
type TradeDeal struct {
	CarNumber string `json:"carNumber"`
	PersonID  *int64 `json:"personId"`
	Date      Date   `json:"date"`
}

// Validate checks the trade deal fields. The Date is not checked
// because a zero date is replaced by the current date in the purchase
// use case.
func (td *TradeDeal) Validate() error {
	var ve ValidationError
	switch {
	case td.CarNumber == "":
		ve.add(MsgMissingCarNumber)
	case !ValidCarNumber(td.CarNumber):
		ve.add(MsgWrongCarNumber)
	}
	if td.PersonID != nil {
		ve.add(validatePersonID(*td.PersonID)...)
	}
	return ve.errOrNil()
}

// LogValue implements slog.LogValuer.
func (td *TradeDeal) LogValue() slog.Value {
	if td == nil {
		return slog.StringValue("nil-trade-deal")
	}
	owner := slog.String("person", "none")
	if td.PersonID != nil {
		owner = slog.Int64("person", *td.PersonID)
	}
	return slog.GroupValue(
		slog.String("car", td.CarNumber),
		owner,
		slog.String("date", td.Date.String()),
	)
}
