// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars
// registry REST APIs to be accepted and delegated to the cars use
// cases respectively.
package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-deals/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. POST /cars, /cars/person, and /cars/model in order to register
//     a car, a person, and a car model respectively,
//  2. PUT /cars/person in order to update email of a person,
//  3. PUT /cars/trade in order to purchase a car (or return it),
//  4. DELETE /cars/person/:id and /cars/:carNumber,
//  5. GET /cars/person/:id for cars of a person,
//  6. GET /cars/:carNumber for owner of a car (or null),
//  7. GET /cars/:carNumber/deals for trade deals of a car,
//  8. GET /cars/models and /cars/models/... reports,
//  9. GET /cars/engine for the minimum engine power and capacity.
func Register(r gin.IRouter, cars *carsuc.UseCase) {
	serdser.RegisterValidations()
	rs := &resource{cars: cars}
	r.POST("cars", rs.AddCar)
	r.POST("cars/person", rs.AddPerson)
	r.PUT("cars/person", rs.UpdatePerson)
	r.POST("cars/model", rs.AddModel)
	r.PUT("cars/trade", rs.Purchase)
	r.DELETE("cars/person/:id", rs.DeletePerson)
	r.DELETE("cars/:carNumber", rs.DeleteCar)
	r.GET("cars/person/:id", rs.OwnerCars)
	r.GET("cars/:carNumber", rs.CarOwner)
	r.GET("cars/:carNumber/deals", rs.CarTradeDeals)
	r.GET("cars/models", rs.MostPopularModels)
	r.GET("cars/models/sold", rs.MostSoldModelNames)
	r.GET("cars/models/popular", rs.MostPopularModelNames)
	r.GET("cars/models/popular/ages", rs.MostPopularModelNamesByOwnerAges)
	r.GET("cars/models/:model/deals", rs.CountTradeDealsAtMonthModel)
	r.GET("cars/models/:model/color", rs.OneMostPopularColorModel)
	r.GET("cars/engine", rs.MinEnginePowerCapacityByOwnerAges)
}

// respond serializes v with the 200 status code, or the err if it is
// not nil.
func respond(c *gin.Context, v any, err error) {
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (rs *resource) AddCar(c *gin.Context) {
	car := rs.DserCarReq(c)
	if car == nil {
		return
	}
	car, err := rs.cars.AddCar(c, car)
	respond(c, car, err)
}

func (rs *resource) AddPerson(c *gin.Context) {
	p := rs.DserPersonReq(c)
	if p == nil {
		return
	}
	p, err := rs.cars.AddPerson(c, p)
	respond(c, p, err)
}

func (rs *resource) UpdatePerson(c *gin.Context) {
	p := rs.DserPersonReq(c)
	if p == nil {
		return
	}
	p, err := rs.cars.UpdatePerson(c, p)
	respond(c, p, err)
}

func (rs *resource) AddModel(c *gin.Context) {
	m := rs.DserModelReq(c)
	if m == nil {
		return
	}
	m, err := rs.cars.AddModel(c, m)
	respond(c, m, err)
}

// Purchase records a trade deal. A null (or missing) personId returns
// the car to no owner and a missing date means today.
func (rs *resource) Purchase(c *gin.Context) {
	td := rs.DserTradeDealReq(c)
	if td == nil {
		return
	}
	td, err := rs.cars.Purchase(c, td)
	respond(c, td, err)
}

func (rs *resource) DeletePerson(c *gin.Context) {
	id, ok := rs.DserPersonID(c)
	if !ok {
		return
	}
	p, err := rs.cars.DeletePerson(c, id)
	respond(c, p, err)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	car, err := rs.cars.DeleteCar(c, c.Param("carNumber"))
	respond(c, car, err)
}

func (rs *resource) OwnerCars(c *gin.Context) {
	id, ok := rs.DserPersonID(c)
	if !ok {
		return
	}
	cars, err := rs.cars.OwnerCars(c, id)
	respond(c, cars, err)
}

// CarOwner writes the owner of a car, or null if it has no owner.
func (rs *resource) CarOwner(c *gin.Context) {
	p, err := rs.cars.CarOwner(c, c.Param("carNumber"))
	respond(c, p, err)
}

func (rs *resource) CarTradeDeals(c *gin.Context) {
	deals, err := rs.cars.CarTradeDeals(c, c.Param("carNumber"))
	respond(c, deals, err)
}

func (rs *resource) MostPopularModels(c *gin.Context) {
	names, err := rs.cars.MostPopularModels(c)
	respond(c, names, err)
}

func (rs *resource) MostSoldModelNames(c *gin.Context) {
	names, err := rs.cars.MostSoldModelNames(c)
	respond(c, names, err)
}

func (rs *resource) MostPopularModelNames(c *gin.Context) {
	req := bindQuery[reportSizeReq](c)
	if req == nil {
		return
	}
	rows, err := rs.cars.MostPopularModelNames(c, req.N)
	respond(c, rows, err)
}

func (rs *resource) MostPopularModelNamesByOwnerAges(c *gin.Context) {
	req := bindQuery[ownerAgesReq](c)
	if req == nil {
		return
	}
	rows, err := rs.cars.MostPopularModelNamesByOwnerAges(
		c, req.N, req.From, req.To,
	)
	respond(c, rows, err)
}

func (rs *resource) CountTradeDealsAtMonthModel(c *gin.Context) {
	req := bindQuery[monthReq](c)
	if req == nil {
		return
	}
	n, err := rs.cars.CountTradeDealsAtMonthModel(
		c, c.Param("model"), req.Month, req.Year,
	)
	respond(c, n, err)
}

func (rs *resource) OneMostPopularColorModel(c *gin.Context) {
	color, err := rs.cars.OneMostPopularColorModel(c, c.Param("model"))
	respond(c, color, err)
}

// MinEnginePowerCapacityByOwnerAges writes the minimum engine power
// and capacity of cars whose owners ages are in [from, to] range.
// It responds with 404 if there is no such car.
func (rs *resource) MinEnginePowerCapacityByOwnerAges(c *gin.Context) {
	req := bindQuery[ownerAgesReq](c)
	if req == nil {
		return
	}
	epc, err := rs.cars.MinEnginePowerCapacityByOwnerAges(
		c, req.From, req.To,
	)
	respond(c, epc, err)
}
