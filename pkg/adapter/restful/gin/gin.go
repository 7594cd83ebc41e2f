// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine, so other packages (such as
// the configuration and commands) may create an engine and its common
// middlewares without importing the gin-gonic package directly.
package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/metrics"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New creates a bare gin engine and installs the given middlewares
// in their order.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// Metrics returns a middleware which records the requests count,
// their durations, and the in-flight requests into m.
// The m.Handler should be registered (e.g., at GET /metrics) in order
// to expose the collected values.
func Metrics(m *metrics.Metrics) HandlerFunc {
	return m.Middleware()
}
