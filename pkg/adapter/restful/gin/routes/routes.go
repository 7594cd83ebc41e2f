// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all use case and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/car-deals/pkg/core/log"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/momeni/car-deals/pkg/core/usecase/carsuc"
)

// UseCaseFactory is implemented by the configuration settings, so
// the use cases may be instantiated with their configured options.
type UseCaseFactory interface {
	NewCarsUseCase(p repo.Pool, r repo.Cars) (*carsuc.UseCase, error)
}

// Register instantiates relevant use cases using the f factory.
// The p connections pool and c cars repository are passed to the use
// case instances, so they may acquire/release connections and
// transactions on demand and pass them to the repository in order
// to run relevant queries. Both of the in-memory registry and the
// PostgreSQL database may provide them.
// Register instantiates a series of "resource" structs, from packages
// which are named like carsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context,
	e *gin.Engine,
	p repo.Pool,
	c repo.Cars,
	f UseCaseFactory,
) error {
	carsUseCase, err := f.NewCarsUseCase(p, c)
	if err != nil {
		return fmt.Errorf("creating cars use case: %w", err)
	}
	carsrs.Register(e, carsUseCase)
	log.Info(ctx, "cars routes are registered")
	return nil
}
