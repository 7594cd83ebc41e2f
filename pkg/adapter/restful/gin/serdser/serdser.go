// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser provides the common serialization and
// deserialization helpers of the REST resources. Requests are bound
// and validated by the gin binding package (using the validator
// package) and all errors are serialized as a JSON object having a
// "detail" string and (for validation errors) an "errors" object which
// maps each field name to its error messages.
package serdser

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/model"
)

// Messages maps a "StructField.tag" key, such as "Number.required",
// to the message which should be reported when the tag validation
// fails for that field. Failures without a registered message are
// reported using the validator package default message.
type Messages map[string]string

func (msgs Messages) of(ferr validator.FieldError) string {
	if msg, ok := msgs[ferr.StructField()+"."+ferr.Tag()]; ok {
		return msg
	}
	return ferr.Error()
}

var registerOnce sync.Once

// RegisterValidations adds the car-deals specific validation tags to
// the gin default validator. It is safe to call it many times.
// Registered tags are:
//  1. carnumber: string must look like DDD-DD-DDD or DD-DDD-DD,
//  2. isodate: string must be a valid YYYY-MM-DD date.
//
// Field names are also taken from their json, form, or uri tags, so
// the reported errors use the same names as the request documents.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin default validator is not validator.Validate")
		}
		v.RegisterTagNameFunc(tagName)
		mustRegister(v, "carnumber", func(fl validator.FieldLevel) bool {
			return model.ValidCarNumber(fl.Field().String())
		})
		mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
			_, err := model.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("registering " + tag + " validation: " + err.Error())
	}
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
		default:
			return name
		}
	}
	return f.Name
}

// Bind deserializes the c request into req using the b binding and
// validates it. In case of errors, the relevant response is written
// and false is returned, so caller may return without writing more.
func Bind(
	c *gin.Context, req any, b binding.Binding, msgs Messages,
) bool {
	return respondBindErr(c, c.ShouldBindWith(req, b), msgs)
}

// BindURI is like Bind, but deserializes the path parameters.
func BindURI(c *gin.Context, req any, msgs Messages) bool {
	return respondBindErr(c, c.ShouldBindUri(req), msgs)
}

func respondBindErr(c *gin.Context, err error, msgs Messages) bool {
	var verrs validator.ValidationErrors
	var ierr *validator.InvalidValidationError
	switch {
	case err == nil:
		return true
	case errors.As(err, &ierr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": ierr.Error(),
		})
	case errors.As(err, &verrs):
		var nameToErrs map[string][]string
		details := make([]string, 0, len(verrs))
		for _, ferr := range verrs {
			msg := msgs.of(ferr)
			AddErr(&nameToErrs, ferr.Field(), msg)
			details = append(details, msg)
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": strings.Join(details, ";"),
			"errors": nameToErrs,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// AddErr appends msgs to the name entry of the errs map, allocating
// the map if it is nil.
func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

// SerErr serializes err as the response of c. The status code is
// taken from the cerr.Error in the err chain. Other errors are
// reported as internal server errors.
// A model.ValidationError in the chain is also reported as a list of
// messages in the "errors" object, having the "messages" key.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
		return
	}
	res := gin.H{"detail": ce.Err.Error()}
	var ve model.ValidationError
	if errors.As(ce.Err, &ve) {
		res["errors"] = map[string][]string{"messages": ve}
	}
	c.JSON(ce.HTTPStatusCode, res)
}
