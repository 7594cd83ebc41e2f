// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-deals/pkg/core/model"
)

type personReq struct {
	ID        int64  `json:"id" binding:"required,min=100000,max=999999"`
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birthDate" binding:"required,isodate"`
	Email     string `json:"email" binding:"required,email"`
}

var personMsgs = serdser.Messages{
	"ID.required":        model.MsgMissingPersonID,
	"ID.min":             model.MsgWrongMinPersonID,
	"ID.max":             model.MsgWrongMaxPersonID,
	"Name.required":      model.MsgMissingPersonName,
	"BirthDate.required": model.MsgMissingBirthDate,
	"BirthDate.isodate":  model.MsgWrongDateFormat,
	"Email.required":     model.MsgMissingEmail,
	"Email.email":        model.MsgWrongEmail,
}

func (rs *resource) DserPersonReq(c *gin.Context) *model.Person {
	req := &personReq{}
	if ok := serdser.Bind(c, req, binding.JSON, personMsgs); !ok {
		return nil
	}
	bd, err := model.ParseDate(req.BirthDate)
	if err != nil {
		panic("isodate validation accepted " + req.BirthDate)
	}
	return &model.Person{
		ID:        req.ID,
		Name:      req.Name,
		BirthDate: bd,
		Email:     req.Email,
	}
}

type modelReq struct {
	Name           string `json:"modelName" binding:"required"`
	Year           int    `json:"modelYear" binding:"required,min=2000"`
	Company        string `json:"company" binding:"required"`
	EnginePower    int    `json:"enginePower" binding:"min=0"`
	EngineCapacity int    `json:"engineCapacity" binding:"min=0"`
}

var modelMsgs = serdser.Messages{
	"Name.required":      model.MsgMissingModelName,
	"Year.required":      model.MsgMissingModelYear,
	"Year.min":           model.MsgWrongMinYear,
	"Company.required":   model.MsgMissingCompany,
	"EnginePower.min":    model.MsgNegativeEngineSpec,
	"EngineCapacity.min": model.MsgNegativeEngineSpec,
}

func (rs *resource) DserModelReq(c *gin.Context) *model.CarModel {
	req := &modelReq{}
	if ok := serdser.Bind(c, req, binding.JSON, modelMsgs); !ok {
		return nil
	}
	return &model.CarModel{
		Name:           req.Name,
		Year:           req.Year,
		Company:        req.Company,
		EnginePower:    req.EnginePower,
		EngineCapacity: req.EngineCapacity,
	}
}

type carReq struct {
	Number     string `json:"number" binding:"required,carnumber"`
	Model      string `json:"model" binding:"required"`
	Year       int    `json:"year" binding:"required,min=2000"`
	Color      string `json:"color"`
	Kilometers int    `json:"kilometers" binding:"min=0"`
	State      string `json:"state" binding:"omitempty,oneof=NEW GOOD MIDDLE OLD"`
}

var carMsgs = serdser.Messages{
	"Number.required":  model.MsgMissingCarNumber,
	"Number.carnumber": model.MsgWrongCarNumber,
	"Model.required":   model.MsgMissingCarModel,
	"Year.required":    model.MsgMissingCarYear,
	"Year.min":         model.MsgWrongMinYear,
	"Kilometers.min":   model.MsgNegativeKilometers,
	"State.oneof":      model.ErrUnknownCarState.Error(),
}

func (rs *resource) DserCarReq(c *gin.Context) *model.Car {
	req := &carReq{}
	if ok := serdser.Bind(c, req, binding.JSON, carMsgs); !ok {
		return nil
	}
	car := &model.Car{
		Number:     req.Number,
		Model:      req.Model,
		Year:       req.Year,
		Color:      req.Color,
		Kilometers: req.Kilometers,
	}
	if req.State != "" {
		s, err := model.ParseCarState(req.State)
		if err != nil {
			panic("oneof validation accepted " + req.State)
		}
		car.State = s
	}
	return car
}

type tradeDealReq struct {
	CarNumber string `json:"carNumber" binding:"required,carnumber"`
	PersonID  *int64 `json:"personId" binding:"omitempty,min=100000,max=999999"`
	Date      string `json:"date" binding:"omitempty,isodate"`
}

var tradeDealMsgs = serdser.Messages{
	"CarNumber.required":  model.MsgMissingCarNumber,
	"CarNumber.carnumber": model.MsgWrongCarNumber,
	"PersonID.min":        model.MsgWrongMinPersonID,
	"PersonID.max":        model.MsgWrongMaxPersonID,
	"Date.isodate":        model.MsgWrongDateFormat,
}

func (rs *resource) DserTradeDealReq(c *gin.Context) *model.TradeDeal {
	req := &tradeDealReq{}
	if ok := serdser.Bind(c, req, binding.JSON, tradeDealMsgs); !ok {
		return nil
	}
	td := &model.TradeDeal{
		CarNumber: req.CarNumber,
		PersonID:  req.PersonID,
	}
	if req.Date != "" {
		d, err := model.ParseDate(req.Date)
		if err != nil {
			panic("isodate validation accepted " + req.Date)
		}
		td.Date = d
	}
	return td
}

type personIDReq struct {
	ID int64 `uri:"id" binding:"required"`
}

var personIDMsgs = serdser.Messages{
	"ID.required": model.MsgMissingPersonID,
}

// DserPersonID deserializes the :id path parameter. Its range is
// checked by the use cases, so both of the 400 and 404 responses
// have the same messages as the other person related APIs.
func (rs *resource) DserPersonID(c *gin.Context) (int64, bool) {
	req := &personIDReq{}
	if ok := serdser.BindURI(c, req, personIDMsgs); !ok {
		return 0, false
	}
	return req.ID, true
}

type reportSizeReq struct {
	N int `form:"n" binding:"omitempty,min=1"`
}

type ownerAgesReq struct {
	N    int `form:"n" binding:"omitempty,min=1"`
	From int `form:"from" binding:"min=0"`
	To   int `form:"to" binding:"gtefield=From"`
}

type monthReq struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required"`
}

var reportMsgs = serdser.Messages{
	"N.min":          "n must be a positive number",
	"From.min":       "from age cannot be negative",
	"To.gtefield":    "to age cannot be less than from age",
	"Month.required": "Missing month",
	"Month.min":      "month must be in [1, 12] range",
	"Month.max":      "month must be in [1, 12] range",
	"Year.required":  "Missing year",
}

func bindQuery[T any](c *gin.Context) *T {
	req := new(T)
	if ok := serdser.Bind(c, req, binding.Query, reportMsgs); !ok {
		return nil
	}
	return req
}
