// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr provides the core errors. An Error wraps another error
// and carries the HTTP status code which should be reported to the
// REST API clients, so use cases may choose the status code without
// depending on the restful adapters.
package cerr

import (
	"fmt"
	"net/http"
)

// Error wraps Err with the HTTPStatusCode status code.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest is used for validation errors and illegal state changes,
// such as adding a duplicate person or purchasing an owned car again.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

// NotFound is used when a person, car, or car model does not exist.
func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}
