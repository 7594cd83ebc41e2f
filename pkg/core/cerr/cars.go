// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import "errors"

// Sentinel errors of the cars registry. They are wrapped by an Error
// instance (and possibly with more details using fmt.Errorf and %w)
// so callers may check them using errors.Is while the REST layer
// finds the relevant HTTP status code with errors.As.
var (
	ErrPersonNotFound = errors.New("person not found")
	ErrCarNotFound    = errors.New("car not found")
	ErrModelNotFound  = errors.New("model not found")
	ErrReportEmpty    = errors.New("no matching cars")

	ErrPersonExists     = errors.New("person already exists")
	ErrCarExists        = errors.New("car already exists")
	ErrModelExists      = errors.New("model already exists")
	ErrIllegalTradeDeal = errors.New("illegal trade deal")
)
