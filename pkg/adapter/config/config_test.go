// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/momeni/car-deals/pkg/adapter/config"
	"github.com/momeni/car-deals/pkg/adapter/config/cfg1"
	"github.com/momeni/car-deals/pkg/adapter/config/settings"
	"github.com/momeni/car-deals/pkg/core/cerr"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/momeni/car-deals/pkg/core/usecase/carsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versions = `
versions:
  config: 1.0.0
  database: 1.0.0
`

func TestLoadSampleConfig(t *testing.T) {
	c, err := config.Load("../../../configs/sample-config.yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg1.StorageMemory, c.Storage)
	assert.Equal(t, cfg1.SeedDev, c.Seed)
	assert.Equal(t, "cdweb", c.Database.Name)
	assert.Equal(t, 5432, c.Database.Port)
	assert.Equal(t, ":8080", *c.Gin.Address)
	assert.Equal(t, settings.Duration(5*time.Second), *c.Gin.ShutdownTimeout)
	assert.True(t, *c.Gin.Metrics)
	assert.Equal(t, 100, *c.Usecases.Cars.MaxReportSize)
	assert.Equal(t, model.SemVer{1, 0, 0}, c.Version())
}

func TestParseDefaults(t *testing.T) {
	c, err := config.Parse([]byte(versions))
	require.NoError(t, err)
	assert.Equal(t, cfg1.StoragePostgres, c.Storage)
	assert.Equal(t, cfg1.SeedNone, c.Seed)
	assert.Nil(t, c.Seed.Dataset())
	assert.False(t, *c.Gin.Logger)
	assert.False(t, *c.Gin.Recovery)
	assert.False(t, *c.Gin.Metrics)
	assert.Equal(t, cfg1.DefaultAddress, *c.Gin.Address)
	assert.Equal(t, cfg1.DefaultShutdownTimeout, *c.Gin.ShutdownTimeout)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "text", c.Logging.Format)
	assert.Equal(t, "scram-sha-256", c.Database.AuthMethod)
	assert.Nil(t, c.Usecases.Cars.MaxReportSize)
}

func TestParseMismatchingVersions(t *testing.T) {
	for _, tc := range []struct {
		data     string
		expected cerr.MismatchingSemVerError
	}{
		{
			"versions: {config: 1.1.0, database: 1.0.0}",
			cerr.MismatchingSemVerError{cfg1.Version, {1, 1, 0}},
		},
		{
			"versions: {config: 1.0.0, database: 2.0.0}",
			cerr.MismatchingSemVerError{{1, 0, 0}, {2, 0, 0}},
		},
	} {
		_, err := config.Parse([]byte(tc.data))
		var msve *cerr.MismatchingSemVerError
		if assert.ErrorAs(t, err, &msve, tc.data) {
			assert.Equal(t, tc.expected, *msve)
		}
	}
}

func TestParseInvalidSettings(t *testing.T) {
	for _, tc := range []struct {
		data, expErr string
	}{
		{"storage: redis", `unsupported storage: "redis"`},
		{"seed: demo", `unsupported seed: "demo"`},
		{"logging: {level: loud}", "parsing log level"},
		{"logging: {format: xml}", `unsupported log format: "xml"`},
		{"database: {auth-method: md5}", "md5"},
		{"gin: {shutdown-timeout: soon}", "unmarshalling yaml"},
		{
			"usecases: {cars: {owner-cars-of-unknown-person: maybe}}",
			"maybe",
		},
		{
			`usecases:
  cars:
    max-report-size: 50
    max-report-size-minimum: 100
    max-report-size-maximum: 10`,
			"max report size: empty range [100, 10]",
		},
	} {
		_, err := config.Parse([]byte(tc.data + versions))
		if assert.Error(t, err, tc.data) {
			assert.Contains(t, err.Error(), tc.expErr)
		}
	}
}

func TestParseClampedSettings(t *testing.T) {
	for _, tc := range []struct {
		data     string
		expected int
	}{
		{"{max-report-size: 5000, max-report-size-maximum: 1000}", 1000},
		{"{max-report-size: 3, max-report-size-minimum: 10}", 10},
		{"{max-report-size: 30, max-report-size-minimum: 10}", 30},
	} {
		c, err := config.Parse(
			[]byte("usecases: {cars: " + tc.data + "}" + versions),
		)
		require.NoError(t, err, tc.data)
		assert.Equal(t, tc.expected, *c.Usecases.Cars.MaxReportSize, tc.data)
	}
}

func TestCarsUseCase(t *testing.T) {
	c, err := config.Parse([]byte(`
storage: memory
seed: dev
usecases:
  cars:
    owner-cars-of-unknown-person: empty
    default-report-size: 2
` + versions))
	require.NoError(t, err)
	ctx := context.Background()
	p, cars, err := c.CarsStorage(ctx)
	require.NoError(t, err)
	defer p.Close()
	uc, err := c.NewCarsUseCase(p, cars)
	require.NoError(t, err)

	cs, err := uc.OwnerCars(ctx, 111111)
	require.NoError(t, err, "empty policy is configured")
	assert.Empty(t, cs)
	rows, err := uc.MostPopularModelNames(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	_, err = uc.MostPopularModelNames(ctx, carsuc.DefaultMaxReportSize+1)
	assert.Error(t, err)
}

func TestCarsStorageWithoutSeed(t *testing.T) {
	c, err := cfg1.Load([]byte("storage: memory" + versions))
	require.NoError(t, err)
	ctx := context.Background()
	p, cars, err := c.CarsStorage(ctx)
	require.NoError(t, err)
	err = p.Conn(ctx, func(ctx context.Context, cn repo.Conn) error {
		names, err := cars.Conn(cn).CarsPerModelName(ctx, 0)
		assert.Empty(t, names)
		return err
	})
	assert.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := cfg1.Logging{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"msg":"shown"`)
}
