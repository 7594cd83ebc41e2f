// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCarNumber(t *testing.T) {
	for number, valid := range map[string]bool{
		"111-11-111":  true,
		"44-444-44":   true,
		"":            false,
		"111-111-11":  false,
		"11-11-111":   false,
		"aaa-aa-aaa":  false,
		"111-11-1111": false,
		" 111-11-111": false,
	} {
		assert.Equal(t, valid, model.ValidCarNumber(number), number)
	}
}

func TestPersonValidate(t *testing.T) {
	p := &model.Person{
		ID:        123456,
		Name:      "Vasya",
		BirthDate: model.NewDate(1990, time.May, 12),
		Email:     "vasya@cars.example.com",
	}
	assert.NoError(t, p.Validate())

	err := (&model.Person{ID: 99}).Validate()
	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.ValidationError{
		model.MsgWrongMinPersonID,
		model.MsgMissingPersonName,
		model.MsgMissingBirthDate,
		model.MsgMissingEmail,
	}, ve)

	p.ID, p.Email = 1000000, "not an email"
	err = p.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.ValidationError{
		model.MsgWrongMaxPersonID, model.MsgWrongEmail,
	}, ve)
	assert.Equal(t, model.MsgWrongMaxPersonID+";"+model.MsgWrongEmail, err.Error())

	err = model.ValidatePersonID(0)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.ValidationError{model.MsgMissingPersonID}, ve)
}

func TestCarValidate(t *testing.T) {
	c := &model.Car{
		Number: "111-11-111",
		Model:  "mazda",
		Year:   2020,
		State:  model.CarStateGood,
	}
	assert.NoError(t, c.Validate())

	err := (&model.Car{
		Number:     "1-1-1",
		Year:       1999,
		Kilometers: -1,
	}).Validate()
	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.ValidationError{
		model.MsgWrongCarNumber,
		model.MsgMissingCarModel,
		model.MsgWrongMinYear,
		model.MsgNegativeKilometers,
		model.CarStateError(0).Error(),
	}, ve)
}

func TestCarModelValidate(t *testing.T) {
	err := (&model.CarModel{EnginePower: -1}).Validate()
	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.ValidationError{
		model.MsgMissingModelName,
		model.MsgMissingModelYear,
		model.MsgMissingCompany,
		model.MsgNegativeEngineSpec,
	}, ve)
}

func TestTradeDealValidate(t *testing.T) {
	id := int64(5)
	err := (&model.TradeDeal{PersonID: &id}).Validate()
	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.ValidationError{
		model.MsgMissingCarNumber, model.MsgWrongMinPersonID,
	}, ve)
	assert.NoError(t, (&model.TradeDeal{CarNumber: "44-444-44"}).Validate())
}

func TestCarStateText(t *testing.T) {
	for _, s := range []string{"NEW", "GOOD", "MIDDLE", "OLD"} {
		var cs model.CarState
		require.NoError(t, cs.UnmarshalText([]byte(s)), s)
		b, err := cs.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, s, string(b))
	}
	var cs model.CarState
	assert.ErrorIs(t, cs.UnmarshalText([]byte("new")), model.ErrUnknownCarState)
	_, err := model.CarStateInvalid.MarshalText()
	assert.Error(t, err)
	assert.Panics(t, func() {
		_ = model.CarStateInvalid.String()
	})

	b, err := json.Marshal(model.Car{State: model.CarStateMiddle})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"state":"MIDDLE"`)
}

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("2000-02-29")
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2000, time.February, 29), d)
	for _, s := range []string{"2001-02-29", "2000-2-29", "29.02.2000", ""} {
		_, err := model.ParseDate(s)
		assert.ErrorIs(t, err, model.ErrWrongDateFormat, s)
	}
}

func TestDateJSON(t *testing.T) {
	p := model.Person{ID: 123456, BirthDate: model.NewDate(1985, time.November, 3)}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"birthDate":"1985-11-03"`)

	var p2 model.Person
	require.NoError(t, json.Unmarshal(b, &p2))
	assert.Equal(t, p, p2)

	var td model.TradeDeal
	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &td))
	assert.True(t, td.Date.IsZero())
	b, err = json.Marshal(td)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":null`)

	err = json.Unmarshal([]byte(`{"date":"03/11/1985"}`), &td)
	assert.ErrorIs(t, err, model.ErrWrongDateFormat)
}

func TestMonthRange(t *testing.T) {
	first, last := model.MonthRange(2024, time.February)
	assert.Equal(t, model.NewDate(2024, time.February, 1), first)
	assert.Equal(t, model.NewDate(2024, time.February, 29), last)
	first, last = model.MonthRange(2023, time.December)
	assert.Equal(t, model.NewDate(2023, time.December, 1), first)
	assert.Equal(t, model.NewDate(2023, time.December, 31), last)
}

func TestBirthDateRange(t *testing.T) {
	today := model.NewDate(2024, time.June, 15)
	from, to := model.BirthDateRange(today, 30, 40)
	assert.Equal(t, model.NewDate(1984, time.June, 15), from)
	assert.Equal(t, model.NewDate(1994, time.June, 15), to)

	// ages are exact, so 53 and a half is out of [50, 53]
	from, to = model.BirthDateRange(today, 50, 53)
	assert.Equal(t, model.NewDate(1971, time.June, 15), from)
	assert.Equal(t, model.NewDate(1974, time.June, 15), to)
	halfYearOlder := model.NewDate(1970, time.December, 15)
	assert.True(t, halfYearOlder.Before(from.Time))
}

func TestTopNames(t *testing.T) {
	rows := []model.ModelNameAmount{
		{Name: "toyota", Amount: 1},
		{Name: "mazda", Amount: 3},
		{Name: "kia", Amount: 3},
		{Name: "skoda", Amount: 2},
	}
	model.SortModelNameAmounts(rows)
	assert.Equal(t, []model.ModelNameAmount{
		{Name: "kia", Amount: 3},
		{Name: "mazda", Amount: 3},
		{Name: "skoda", Amount: 2},
		{Name: "toyota", Amount: 1},
	}, rows)
	assert.Equal(t, []string{"kia", "mazda"}, model.TopNames(rows))
	assert.Equal(t, []string{}, model.TopNames(nil))
}

func TestSemVerText(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.2.3")))
	assert.Equal(t, model.SemVer{1, 2, 3}, sv)
	require.NoError(t, sv.UnmarshalText([]byte("4")))
	assert.Equal(t, "4.0.0", sv.String())
	assert.Error(t, sv.UnmarshalText([]byte("1.x")))
	assert.Error(t, sv.UnmarshalText([]byte("1.2.3.4")))
	assert.Error(t, sv.UnmarshalText([]byte("-1")))
	assert.Equal(t, model.SemVer{4, 0, 0}, sv, "failures must keep sv")
}
