// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp provides the cars repository implementation using
// GORM. Query functions are generic over the postgres Conn and Tx
// types, so the same code serves both of the CarsConnQueryer and
// CarsTxQueryer interfaces. Statements are kept within the portable
// SQL subset, so they also run on SQLite during the unit tests.
package carsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/model"
)

type gPerson struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	Name      string    `gorm:"column:name"`
	BirthDate time.Time `gorm:"column:birth_date"`
	Email     string    `gorm:"column:email"`
}

func (gp *gPerson) TableName() string {
	return "car_owners"
}

func (gp *gPerson) Model() *model.Person {
	return &model.Person{
		ID:        gp.ID,
		Name:      gp.Name,
		BirthDate: model.DateOf(gp.BirthDate),
		Email:     gp.Email,
	}
}

type gModel struct {
	Name           string `gorm:"primaryKey;column:model_name"`
	Year           int    `gorm:"primaryKey;autoIncrement:false;column:model_year"`
	Company        string `gorm:"column:company"`
	EnginePower    int    `gorm:"column:engine_power"`
	EngineCapacity int    `gorm:"column:engine_capacity"`
}

func (gm *gModel) TableName() string {
	return "models"
}

func (gm *gModel) Model() *model.CarModel {
	return &model.CarModel{
		Name:           gm.Name,
		Year:           gm.Year,
		Company:        gm.Company,
		EnginePower:    gm.EnginePower,
		EngineCapacity: gm.EngineCapacity,
	}
}

type gCar struct {
	Number     string    `gorm:"primaryKey;column:car_number"`
	CarID      uuid.UUID `gorm:"type:uuid;column:car_id"`
	ModelName  string    `gorm:"column:model_name"`
	ModelYear  int       `gorm:"column:model_year"`
	OwnerID    *int64    `gorm:"column:owner_id"`
	Color      string    `gorm:"column:color"`
	Kilometers int       `gorm:"column:kilometers"`
	State      string    `gorm:"column:car_state"`
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) Model() (*model.Car, error) {
	s, err := model.ParseCarState(gc.State)
	if err != nil {
		return nil, fmt.Errorf("car_state=%q: %w", gc.State, err)
	}
	return &model.Car{
		Number:     gc.Number,
		Model:      gc.ModelName,
		Year:       gc.ModelYear,
		Color:      gc.Color,
		Kilometers: gc.Kilometers,
		State:      s,
	}, nil
}

type gTradeDeal struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	CarNumber string    `gorm:"column:car_number"`
	CarID     uuid.UUID `gorm:"type:uuid;column:car_id"`
	OwnerID   *int64    `gorm:"column:owner_id"`
	DealDate  time.Time `gorm:"column:deal_date"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (gtd *gTradeDeal) TableName() string {
	return "trade_deals"
}

func (gtd *gTradeDeal) Model() *model.TradeDeal {
	return &model.TradeDeal{
		CarNumber: gtd.CarNumber,
		PersonID:  gtd.OwnerID,
		Date:      model.DateOf(gtd.DealDate),
	}
}

func Person[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Person, error) {
	var gp []gPerson
	if err := q.GORM(ctx).Where("id = ?", id).Limit(1).Find(&gp).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gp) == 0 {
		return nil, nil
	}
	return gp[0].Model(), nil
}

func Car[Q postgres.Queryer](ctx context.Context, q Q, number string) (*model.Car, error) {
	var gc []gCar
	err := q.GORM(ctx).Where("car_number = ?", number).Limit(1).Find(&gc).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gc) == 0 {
		return nil, nil
	}
	return gc[0].Model()
}

func CarModel[Q postgres.Queryer](ctx context.Context, q Q, key model.ModelKey) (*model.CarModel, error) {
	var gm []gModel
	err := q.GORM(ctx).Where(
		"model_name = ? AND model_year = ?", key.Name, key.Year,
	).Limit(1).Find(&gm).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gm) == 0 {
		return nil, nil
	}
	return gm[0].Model(), nil
}

func CarOwner[Q postgres.Queryer](ctx context.Context, q Q, number string) (*model.Person, error) {
	var gp []gPerson
	err := q.GORM(ctx).Table("car_owners AS o").Select("o.*").Joins(
		"JOIN cars AS c ON c.owner_id = o.id",
	).Where("c.car_number = ?", number).Limit(1).Find(&gp).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gp) == 0 {
		return nil, nil
	}
	return gp[0].Model(), nil
}

func InsertPerson[Q postgres.Queryer](ctx context.Context, q Q, p *model.Person) error {
	gp := &gPerson{
		ID:        p.ID,
		Name:      p.Name,
		BirthDate: p.BirthDate.Time,
		Email:     p.Email,
	}
	if err := q.GORM(ctx).Create(gp).Error; err != nil {
		return fmt.Errorf("inserting person %d: %w", p.ID, err)
	}
	return nil
}

func UpdatePersonEmail[Q postgres.Queryer](ctx context.Context, q Q, id int64, email string) error {
	res := q.GORM(ctx).Model(&gPerson{}).Where("id = ?", id).Update(
		"email", email,
	)
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if res.RowsAffected != 1 {
		return cerr.NotFound(fmt.Errorf(
			"person %d: %w", id, cerr.ErrPersonNotFound,
		))
	}
	return nil
}

// DeletePerson detaches cars of the id person explicitly before
// deleting it, so the result does not depend on the ON DELETE SET NULL
// action being enforced (e.g., SQLite ignores foreign keys by default).
func DeletePerson[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	gdb := q.GORM(ctx)
	err := gdb.Model(&gCar{}).Where("owner_id = ?", id).Update(
		"owner_id", nil,
	).Error
	if err != nil {
		return fmt.Errorf("detaching cars: %w", err)
	}
	res := gdb.Where("id = ?", id).Delete(&gPerson{})
	if err := res.Error; err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	if res.RowsAffected != 1 {
		return cerr.NotFound(fmt.Errorf(
			"person %d: %w", id, cerr.ErrPersonNotFound,
		))
	}
	return nil
}

func InsertModel[Q postgres.Queryer](ctx context.Context, q Q, m *model.CarModel) error {
	gm := &gModel{
		Name:           m.Name,
		Year:           m.Year,
		Company:        m.Company,
		EnginePower:    m.EnginePower,
		EngineCapacity: m.EngineCapacity,
	}
	if err := q.GORM(ctx).Create(gm).Error; err != nil {
		return fmt.Errorf("inserting model %s: %w", m.Key(), err)
	}
	return nil
}

func InsertCar[Q postgres.Queryer](ctx context.Context, q Q, c *model.Car) error {
	gc := &gCar{
		Number:     c.Number,
		CarID:      uuid.New(),
		ModelName:  c.Model,
		ModelYear:  c.Year,
		Color:      c.Color,
		Kilometers: c.Kilometers,
		State:      c.State.String(),
	}
	if err := q.GORM(ctx).Create(gc).Error; err != nil {
		return fmt.Errorf("inserting car %s: %w", c.Number, err)
	}
	return nil
}

func DeleteCar[Q postgres.Queryer](ctx context.Context, q Q, number string) error {
	res := q.GORM(ctx).Where("car_number = ?", number).Delete(&gCar{})
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if res.RowsAffected != 1 {
		return cerr.NotFound(fmt.Errorf(
			"car %s: %w", number, cerr.ErrCarNotFound,
		))
	}
	return nil
}

func SetCarOwner[Q postgres.Queryer](ctx context.Context, q Q, number string, personID *int64) error {
	res := q.GORM(ctx).Model(&gCar{}).Where(
		"car_number = ?", number,
	).Update("owner_id", personID)
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if res.RowsAffected != 1 {
		return cerr.NotFound(fmt.Errorf(
			"car %s: %w", number, cerr.ErrCarNotFound,
		))
	}
	return nil
}

// carID finds the car_id of the currently registered number car.
// The found result is false if there is no such car.
func carID[Q postgres.Queryer](ctx context.Context, q Q, number string) (id uuid.UUID, found bool, err error) {
	var ids []uuid.UUID
	err = q.GORM(ctx).Model(&gCar{}).Where(
		"car_number = ?", number,
	).Limit(1).Pluck("car_id", &ids).Error
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("query: %w", err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

func InsertTradeDeal[Q postgres.Queryer](ctx context.Context, q Q, td *model.TradeDeal) error {
	id, found, err := carID(ctx, q, td.CarNumber)
	if err != nil {
		return err
	}
	if !found {
		return cerr.NotFound(fmt.Errorf(
			"car %s: %w", td.CarNumber, cerr.ErrCarNotFound,
		))
	}
	gtd := &gTradeDeal{
		ID:        uuid.New(),
		CarNumber: td.CarNumber,
		CarID:     id,
		OwnerID:   td.PersonID,
		DealDate:  td.Date.Time,
		CreatedAt: time.Now().UTC(),
	}
	if err := q.GORM(ctx).Create(gtd).Error; err != nil {
		return fmt.Errorf("inserting trade deal: %w", err)
	}
	return nil
}

func OwnerCars[Q postgres.Queryer](ctx context.Context, q Q, personID int64) ([]model.Car, error) {
	var gc []gCar
	err := q.GORM(ctx).Where("owner_id = ?", personID).Order(
		"car_number",
	).Find(&gc).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cars := make([]model.Car, 0, len(gc))
	for i := range gc {
		c, err := gc[i].Model()
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, nil
}

// CarTradeDeals lists the trade deals of the currently registered
// number car. If there is no such car, trade deals of the deleted
// cars with that number are listed instead.
func CarTradeDeals[Q postgres.Queryer](ctx context.Context, q Q, number string) ([]model.TradeDeal, error) {
	id, found, err := carID(ctx, q, number)
	if err != nil {
		return nil, err
	}
	gdb := q.GORM(ctx).Where("car_number = ?", number)
	if found {
		gdb = gdb.Where("car_id = ?", id)
	}
	var gtd []gTradeDeal
	err = gdb.Order("deal_date, created_at").Find(&gtd).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	deals := make([]model.TradeDeal, 0, len(gtd))
	for i := range gtd {
		deals = append(deals, *gtd[i].Model())
	}
	return deals, nil
}
