// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"

	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// Repo represents the cars repository instance. It does not keep
// any state and only implements the repo.Cars interface by adapting
// the generic query functions of this package to the postgres Conn
// and Tx types.
type Repo struct {
}

// New instantiates a cars Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a Conn interface instance, unwraps it as required,
// and returns a CarsConnQueryer interface which (with access to the
// implementation-dependent connection object) can run different
// queries on the cars, owners, models, and trade_deals tables.
func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Person(ctx context.Context, id int64) (*model.Person, error) {
	return Person(ctx, cq.Conn, id)
}

func (cq connQueryer) Car(ctx context.Context, number string) (*model.Car, error) {
	return Car(ctx, cq.Conn, number)
}

func (cq connQueryer) CarModel(ctx context.Context, key model.ModelKey) (*model.CarModel, error) {
	return CarModel(ctx, cq.Conn, key)
}

func (cq connQueryer) CarOwner(ctx context.Context, number string) (*model.Person, error) {
	return CarOwner(ctx, cq.Conn, number)
}

func (cq connQueryer) InsertPerson(ctx context.Context, p *model.Person) error {
	return InsertPerson(ctx, cq.Conn, p)
}

func (cq connQueryer) UpdatePersonEmail(ctx context.Context, id int64, email string) error {
	return UpdatePersonEmail(ctx, cq.Conn, id, email)
}

func (cq connQueryer) DeletePerson(ctx context.Context, id int64) error {
	return DeletePerson(ctx, cq.Conn, id)
}

func (cq connQueryer) InsertModel(ctx context.Context, m *model.CarModel) error {
	return InsertModel(ctx, cq.Conn, m)
}

func (cq connQueryer) InsertCar(ctx context.Context, c *model.Car) error {
	return InsertCar(ctx, cq.Conn, c)
}

func (cq connQueryer) DeleteCar(ctx context.Context, number string) error {
	return DeleteCar(ctx, cq.Conn, number)
}

func (cq connQueryer) SetCarOwner(ctx context.Context, number string, personID *int64) error {
	return SetCarOwner(ctx, cq.Conn, number, personID)
}

func (cq connQueryer) InsertTradeDeal(ctx context.Context, td *model.TradeDeal) error {
	return InsertTradeDeal(ctx, cq.Conn, td)
}

func (cq connQueryer) OwnerCars(ctx context.Context, personID int64) ([]model.Car, error) {
	return OwnerCars(ctx, cq.Conn, personID)
}

func (cq connQueryer) CarTradeDeals(ctx context.Context, number string) ([]model.TradeDeal, error) {
	return CarTradeDeals(ctx, cq.Conn, number)
}

func (cq connQueryer) TradeDealsPerModelName(ctx context.Context) ([]model.ModelNameAmount, error) {
	return TradeDealsPerModelName(ctx, cq.Conn)
}

func (cq connQueryer) CarsPerModelName(ctx context.Context, limit int) ([]model.ModelNameAmount, error) {
	return CarsPerModelName(ctx, cq.Conn, limit)
}

func (cq connQueryer) CarsPerModelNameByBirthDates(ctx context.Context, limit int, from, to model.Date) ([]model.ModelNameAmount, error) {
	return CarsPerModelNameByBirthDates(ctx, cq.Conn, limit, from, to)
}

func (cq connQueryer) CountTradeDeals(ctx context.Context, modelName string, from, to model.Date) (int64, error) {
	return CountTradeDeals(ctx, cq.Conn, modelName, from, to)
}

func (cq connQueryer) MostPopularColor(ctx context.Context, modelName string) (string, error) {
	return MostPopularColor(ctx, cq.Conn, modelName)
}

func (cq connQueryer) MinEnginePowerCapacity(ctx context.Context, from, to model.Date) (*model.EnginePowerCapacity, error) {
	return MinEnginePowerCapacity(ctx, cq.Conn, from, to)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns a CarsTxQueryer interface which runs the same queries
// as CarsConnQueryer within the ongoing transaction.
func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Person(ctx context.Context, id int64) (*model.Person, error) {
	return Person(ctx, tq.Tx, id)
}

func (tq txQueryer) Car(ctx context.Context, number string) (*model.Car, error) {
	return Car(ctx, tq.Tx, number)
}

func (tq txQueryer) CarModel(ctx context.Context, key model.ModelKey) (*model.CarModel, error) {
	return CarModel(ctx, tq.Tx, key)
}

func (tq txQueryer) CarOwner(ctx context.Context, number string) (*model.Person, error) {
	return CarOwner(ctx, tq.Tx, number)
}

func (tq txQueryer) InsertPerson(ctx context.Context, p *model.Person) error {
	return InsertPerson(ctx, tq.Tx, p)
}

func (tq txQueryer) UpdatePersonEmail(ctx context.Context, id int64, email string) error {
	return UpdatePersonEmail(ctx, tq.Tx, id, email)
}

func (tq txQueryer) DeletePerson(ctx context.Context, id int64) error {
	return DeletePerson(ctx, tq.Tx, id)
}

func (tq txQueryer) InsertModel(ctx context.Context, m *model.CarModel) error {
	return InsertModel(ctx, tq.Tx, m)
}

func (tq txQueryer) InsertCar(ctx context.Context, c *model.Car) error {
	return InsertCar(ctx, tq.Tx, c)
}

func (tq txQueryer) DeleteCar(ctx context.Context, number string) error {
	return DeleteCar(ctx, tq.Tx, number)
}

func (tq txQueryer) SetCarOwner(ctx context.Context, number string, personID *int64) error {
	return SetCarOwner(ctx, tq.Tx, number, personID)
}

func (tq txQueryer) InsertTradeDeal(ctx context.Context, td *model.TradeDeal) error {
	return InsertTradeDeal(ctx, tq.Tx, td)
}

func (tq txQueryer) OwnerCars(ctx context.Context, personID int64) ([]model.Car, error) {
	return OwnerCars(ctx, tq.Tx, personID)
}

func (tq txQueryer) CarTradeDeals(ctx context.Context, number string) ([]model.TradeDeal, error) {
	return CarTradeDeals(ctx, tq.Tx, number)
}

func (tq txQueryer) TradeDealsPerModelName(ctx context.Context) ([]model.ModelNameAmount, error) {
	return TradeDealsPerModelName(ctx, tq.Tx)
}

func (tq txQueryer) CarsPerModelName(ctx context.Context, limit int) ([]model.ModelNameAmount, error) {
	return CarsPerModelName(ctx, tq.Tx, limit)
}

func (tq txQueryer) CarsPerModelNameByBirthDates(ctx context.Context, limit int, from, to model.Date) ([]model.ModelNameAmount, error) {
	return CarsPerModelNameByBirthDates(ctx, tq.Tx, limit, from, to)
}

func (tq txQueryer) CountTradeDeals(ctx context.Context, modelName string, from, to model.Date) (int64, error) {
	return CountTradeDeals(ctx, tq.Tx, modelName, from, to)
}

func (tq txQueryer) MostPopularColor(ctx context.Context, modelName string) (string, error) {
	return MostPopularColor(ctx, tq.Tx, modelName)
}

func (tq txQueryer) MinEnginePowerCapacity(ctx context.Context, from, to model.Date) (*model.EnginePowerCapacity, error) {
	return MinEnginePowerCapacity(ctx, tq.Tx, from, to)
}
