// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/car-deals/pkg/adapter/config/cfg1"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

const testConfig = `
storage: memory
seed: dev
gin:
  logger: false
  recovery: true
  metrics: true
usecases:
  cars:
    max-report-size: 50
    default-report-size: 3
versions:
  database: 1.0.0
  config: 1.0.0
`

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx context.Context
	Gin *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx: context.Background(),
	})
}

// SetupTest creates a fresh engine for each test, so all tests start
// with the dev dataset in a new in-memory registry.
func (igts *IntegrationGinTestSuite) SetupTest() {
	c, err := cfg1.Load([]byte(testConfig))
	igts.Require().NoError(err, "failed to load test config")
	p, cars, err := c.CarsStorage(igts.Ctx)
	igts.Require().NoError(err, "failed to create memory storage")
	igts.Gin = c.Gin.NewEngine()
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Ctx, igts.Gin, p, cars, c)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func stringAddr(s string) *string {
	return &s
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	method, path, body string, expectedStatus int,
) any {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	resp := w.Result()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	igts.Require().NoError(err, "failed to read response body")
	igts.Require().Equal(
		expectedStatus, resp.StatusCode,
		"%s %s: unexpected status; body=%s", method, path, b,
	)
	var v any
	err = json.Unmarshal(b, &v)
	igts.Require().NoError(err, "failed to decode response: %s", b)
	return v
}

func (igts *IntegrationGinTestSuite) asObject(v any) map[string]any {
	m, ok := v.(map[string]any)
	igts.Require().True(ok, "expected a JSON object, got %#v", v)
	return m
}

// assertOptContains checks that the msg message is reported for the
// field key if msg is not nil. Otherwise, field key must be missing.
func (igts *IntegrationGinTestSuite) assertOptContains(
	errs map[string]any, key string, msg *string,
) {
	if msg == nil {
		igts.NotContains(errs, key)
		return
	}
	if igts.Contains(errs, key) {
		igts.Contains(errs[key], *msg, "errors[%q]", key)
	}
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name, method, path, body string

		id, birthDate, email, number, year, n, to *string
	}{
		{
			name:   "person empty body",
			method: http.MethodPost, path: "/cars/person", body: "{}",
			id:        stringAddr(model.MsgMissingPersonID),
			birthDate: stringAddr(model.MsgMissingBirthDate),
			email:     stringAddr(model.MsgMissingEmail),
		},
		{
			name:   "person wrong fields",
			method: http.MethodPut, path: "/cars/person",
			body: `{"id": 99, "name": "x",
"birthDate": "1990/01/01", "email": "x.example.com"}`,
			id:        stringAddr(model.MsgWrongMinPersonID),
			birthDate: stringAddr(model.MsgWrongDateFormat),
			email:     stringAddr(model.MsgWrongEmail),
		},
		{
			name:   "car wrong number and year",
			method: http.MethodPost, path: "/cars",
			body:   `{"number": "1-1", "model": "mazda", "year": 1999}`,
			number: stringAddr(model.MsgWrongCarNumber),
			year:   stringAddr(model.MsgWrongMinYear),
		},
		{
			name:   "model old year",
			method: http.MethodPost, path: "/cars/model",
			body: `{"modelName": "lada", "modelYear": 1980,
"company": "AvtoVAZ"}`,
		},
		{
			name:   "trade missing number",
			method: http.MethodPut, path: "/cars/trade",
			body: `{"personId": 123456}`,
		},
		{
			name:   "negative report size",
			method: http.MethodGet, path: "/cars/models/popular?n=-1",
			n: stringAddr("n must be a positive number"),
		},
		{
			name:   "reversed ages",
			method: http.MethodGet, path: "/cars/engine?from=40&to=30",
			to: stringAddr("to age cannot be less than from age"),
		},
		{
			name:   "thirteenth month",
			method: http.MethodGet,
			path:   "/cars/models/mazda/deals?month=13&year=2023",
		},
	} {
		igts.Run(tc.name, func() {
			resp := igts.asObject(igts.sendReqRecvResp(
				tc.method, tc.path, tc.body, http.StatusBadRequest,
			))
			igts.Contains(resp, "detail")
			errs, _ := resp["errors"].(map[string]any)
			igts.assertOptContains(errs, "id", tc.id)
			igts.assertOptContains(errs, "birthDate", tc.birthDate)
			igts.assertOptContains(errs, "email", tc.email)
			igts.assertOptContains(errs, "number", tc.number)
			igts.assertOptContains(errs, "year", tc.year)
			igts.assertOptContains(errs, "n", tc.n)
			igts.assertOptContains(errs, "to", tc.to)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestUseCaseBadRequest() {
	for _, tc := range []struct {
		method, path, body, detail string
	}{
		{http.MethodGet, "/cars/abc", "", model.MsgWrongCarNumber},
		{http.MethodDelete, "/cars/person/12", "", model.MsgWrongMinPersonID},
		{http.MethodGet, "/cars/models/popular?n=51", "", "report size (51)"},
		{
			http.MethodPost, "/cars/person",
			`{"id": 123456, "name": "Vasya", "birthDate": "1990-05-12",
"email": "vasya@example.org"}`,
			"person already exists",
		},
		{
			http.MethodPut, "/cars/trade",
			`{"carNumber": "333-33-333", "personId": 123456}`,
			"illegal trade deal",
		},
		{
			http.MethodPut, "/cars/trade",
			`{"carNumber": "555-55-555", "personId": null}`,
			"illegal trade deal",
		},
	} {
		resp := igts.asObject(igts.sendReqRecvResp(
			tc.method, tc.path, tc.body, http.StatusBadRequest,
		))
		igts.Contains(resp["detail"], tc.detail, "%s %s", tc.method, tc.path)
	}
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/cars/person/111111", ""},
		{http.MethodDelete, "/cars/person/111111", ""},
		{http.MethodGet, "/cars/999-99-999", ""},
		{http.MethodDelete, "/cars/999-99-999", ""},
		{http.MethodGet, "/cars/999-99-999/deals", ""},
		{http.MethodGet, "/cars/models/lada/color", ""},
		{http.MethodGet, "/cars/engine?from=120&to=130", ""},
		{
			http.MethodPut, "/cars/person",
			`{"id": 111111, "name": "Nobody", "birthDate": "1990-01-01",
"email": "nobody@example.org"}`,
		},
		{
			http.MethodPost, "/cars",
			`{"number": "777-77-777", "model": "lada", "year": 2020}`,
		},
		{
			http.MethodPut, "/cars/trade",
			`{"carNumber": "777-77-777", "personId": 123456}`,
		},
		{
			http.MethodPut, "/cars/trade",
			`{"carNumber": "555-55-555", "personId": 111111}`,
		},
	} {
		resp := igts.asObject(igts.sendReqRecvResp(
			tc.method, tc.path, tc.body, http.StatusNotFound,
		))
		igts.Contains(resp, "detail", "%s %s", tc.method, tc.path)
	}
}

func (igts *IntegrationGinTestSuite) TestRegisterAndPurchase() {
	p := igts.asObject(igts.sendReqRecvResp(
		http.MethodPost, "/cars/person",
		`{"id": 654321, "name": "Dana", "birthDate": "1995-04-01",
"email": "dana@example.org"}`,
		http.StatusOK,
	))
	igts.Equal("1995-04-01", p["birthDate"])
	igts.sendReqRecvResp(
		http.MethodPost, "/cars/model",
		`{"modelName": "lada", "modelYear": 2015, "company": "AvtoVAZ",
"enginePower": 90, "engineCapacity": 1600}`,
		http.StatusOK,
	)
	car := igts.asObject(igts.sendReqRecvResp(
		http.MethodPost, "/cars",
		`{"number": "12-345-67", "model": "lada", "year": 2015,
"color": "blue", "kilometers": 1000}`,
		http.StatusOK,
	))
	igts.Equal("NEW", car["state"])

	owner := igts.sendReqRecvResp(
		http.MethodGet, "/cars/12-345-67", "", http.StatusOK,
	)
	igts.Nil(owner)

	td := igts.asObject(igts.sendReqRecvResp(
		http.MethodPut, "/cars/trade",
		`{"carNumber": "12-345-67", "personId": 654321, "date": "2024-01-02"}`,
		http.StatusOK,
	))
	igts.Equal("2024-01-02", td["date"])
	igts.EqualValues(654321, td["personId"])

	owner = igts.sendReqRecvResp(
		http.MethodGet, "/cars/12-345-67", "", http.StatusOK,
	)
	igts.Equal("Dana", igts.asObject(owner)["name"])

	cars, ok := igts.sendReqRecvResp(
		http.MethodGet, "/cars/person/654321", "", http.StatusOK,
	).([]any)
	igts.Require().True(ok)
	igts.Require().Len(cars, 1)
	igts.Equal("12-345-67", igts.asObject(cars[0])["number"])

	p = igts.asObject(igts.sendReqRecvResp(
		http.MethodPut, "/cars/person",
		`{"id": 654321, "name": "Dana", "birthDate": "1995-04-01",
"email": "dana@example.com"}`,
		http.StatusOK,
	))
	igts.Equal("dana@example.com", p["email"])

	igts.sendReqRecvResp(
		http.MethodDelete, "/cars/person/654321", "", http.StatusOK,
	)
	owner = igts.sendReqRecvResp(
		http.MethodGet, "/cars/12-345-67", "", http.StatusOK,
	)
	igts.Nil(owner)

	car = igts.asObject(igts.sendReqRecvResp(
		http.MethodDelete, "/cars/12-345-67", "", http.StatusOK,
	))
	igts.Equal("lada", car["model"])
	deals, ok := igts.sendReqRecvResp(
		http.MethodGet, "/cars/12-345-67/deals", "", http.StatusOK,
	).([]any)
	igts.Require().True(ok)
	igts.Len(deals, 1)
}

func (igts *IntegrationGinTestSuite) TestReports() {
	get := func(path string) any {
		return igts.sendReqRecvResp(http.MethodGet, path, "", http.StatusOK)
	}
	igts.Equal([]any{"mazda"}, get("/cars/models"))
	igts.Equal([]any{"mazda"}, get("/cars/models/sold"))
	igts.Equal([]any{
		map[string]any{"name": "mazda", "amount": float64(2)},
		map[string]any{"name": "kia", "amount": float64(1)},
		map[string]any{"name": "skoda", "amount": float64(1)},
	}, get("/cars/models/popular"))
	igts.Equal([]any{
		map[string]any{"name": "mazda", "amount": float64(2)},
	}, get("/cars/models/popular?n=1"))
	igts.Equal([]any{
		map[string]any{"name": "mazda", "amount": float64(2)},
		map[string]any{"name": "kia", "amount": float64(1)},
		map[string]any{"name": "toyota", "amount": float64(1)},
	}, get("/cars/models/popular/ages?from=0&to=150"))
	igts.Equal(float64(1), get("/cars/models/mazda/deals?month=3&year=2023"))
	igts.Equal(float64(0), get("/cars/models/mazda/deals?month=2&year=2023"))
	igts.Equal("red", get("/cars/models/mazda/color"))
	igts.Equal(map[string]any{
		"power": float64(130), "capacity": float64(1600),
	}, get("/cars/engine?from=0&to=150"))
}

func (igts *IntegrationGinTestSuite) TestMetrics() {
	igts.sendReqRecvResp(
		http.MethodGet, "/cars/111-11-111", "", http.StatusOK,
	)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	igts.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	igts.Contains(body, `cdweb_http_requests_total{method="GET",route="/cars/:carNumber",status="200"} 1`)
	igts.Contains(body, "cdweb_http_request_duration_seconds")
	igts.NotContains(body, `route="/metrics"`)
}
