// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// Each settings section knows how to instantiate its component, e.g.,
// the Gin section creates the gin-gonic engine and the Usecases.Cars
// section creates the cars use case.
package cfg1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/car-deals/pkg/adapter/config/settings"
	"github.com/momeni/car-deals/pkg/adapter/config/vers"
	"github.com/momeni/car-deals/pkg/adapter/db/memory"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/car-deals/pkg/adapter/db/seed"
	"github.com/momeni/car-deals/pkg/adapter/hash/scram"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/car-deals/pkg/core/log"
	"github.com/momeni/car-deals/pkg/core/model"
	"github.com/momeni/car-deals/pkg/core/repo"
	scrami "github.com/momeni/car-deals/pkg/core/scram"
	"github.com/momeni/car-deals/pkg/core/usecase/carsuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Storage  Storage  // Backend of the cars registry
	Seed     Seed     // Initial data of the memory storage
	Gin      Gin      // Gin-Gonic instantiation settings
	Logging  Logging  // Default slog logger settings
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Storage names a backend for the cars registry.
type Storage string

// Supported storage backends.
const (
	StorageMemory   Storage = "memory"
	StoragePostgres Storage = "postgres"
)

// Seed names an initial dataset. It is only used with the memory
// storage because a PostgreSQL database is filled by the init-dev or
// init-prod database management commands.
type Seed string

// Supported seed datasets.
const (
	SeedNone Seed = "none"
	SeedDev  Seed = "dev"
	SeedProd Seed = "prod"
)

// Dataset returns the initial rows of the s seed, or nil for none.
func (s Seed) Dataset() *seed.Dataset {
	switch s {
	case SeedDev:
		return seed.Dev()
	case SeedProd:
		return seed.Prod()
	default:
		return nil
	}
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%#v.ConnectionPool: %w", c.Database, err,
		)
	}
	return p, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
// Role names which are passed to its methods will be suffixed by
// the configured role suffix, consistent with the ConnectionPool
// and RenewPasswords methods.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data. The
// major version of the configured database schema must be supported.
// All table creation and data insertion operations will be performed
// in the given transaction and will be persisted only if that
// transaction could commit successfully.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	if mv := c.SchemaVersion()[0]; mv != stlmig1.Major {
		return nil, fmt.Errorf("unsupported schema major version: %d", mv)
	}
	return stlmig1.New(tx, carsrp.New()), nil
}

// RenewPasswords generates new secure passwords for the given roles.
// See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
// There is no direct dependency between the configuration file and
// database schema versions.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// CarsStorage creates the connection pool and cars repository of the
// configured storage backend. For the memory storage, the configured
// seed dataset is loaded before returning. The pool must be closed by
// the caller.
func (c *Config) CarsStorage(ctx context.Context) (
	repo.Pool, repo.Cars, error,
) {
	switch c.Storage {
	case StorageMemory:
		r := memory.New()
		cars := memory.NewCarsRepo()
		if ds := c.Seed.Dataset(); ds != nil {
			err := r.Conn(ctx, func(ctx context.Context, cn repo.Conn) error {
				return cn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
					return seed.Load(ctx, cars.Tx(tx), ds)
				})
			})
			if err != nil {
				return nil, nil, fmt.Errorf("seeding %q: %w", c.Seed, err)
			}
		}
		return r, cars, nil
	case StoragePostgres:
		p, err := c.ConnectionPool(ctx, repo.NormalRole)
		if err != nil {
			return nil, nil, err
		}
		return p, carsrp.New(), nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage: %q", c.Storage)
	}
}

// NewCarsUseCase instantiates the cars use case based on the
// Usecases.Cars settings.
func (c *Config) NewCarsUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	return c.Usecases.Cars.NewUseCase(p, r)
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like cdweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database password_encryption method,
	// i.e., scram-sha-1 or scram-sha-256 (default).
	AuthMethod string `yaml:"auth-method,omitempty"`

	hasher scrami.Hasher
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// Initially, the .pgpass file in the d.PassDir folder is checked
// which should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a connection could not be established, passwords might have been
// renewed by an interrupted init-dev or init-prod command. So the
// .pgpass.new file in the same folder is checked too and when it
// works, it is moved over the .pgpass file.
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	log.Warn(
		ctx, "trying the new pass-file",
		slog.String("failed", path), slog.String("next", newPath),
		log.Err("error", err),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the postgresql scheme URL of the `r` role.
// The password is read from the `path` pgpass file, ignoring its
// empty and `#`-commented lines.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// NewSchemaRepo instantiates a fresh Schema repository which suffixes
// role names by `d.RoleSuffix` and hashes passwords as expected by the
// `d.AuthMethod`. The ValidateAndNormalize must be called beforehand.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and records them in the .pgpass.new file (in the `d.PassDir`
// directory). Then, `change` is called in order to update them in the
// database too. It may run in a transaction which is committed after
// RenewPasswords returns. After that commitment, the returned finalizer
// should be called in order to move the .pgpass.new file over the
// .pgpass file, so ConnectionPool may use the new passwords.
//
// The `d.RoleSuffix` will be appended to the role names in the pgpass
// file. The `change` function must add the same suffix to `roles`.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	lines := make([]string, len(passwords))
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		passwords[i] = base64.RawStdEncoding.EncodeToString(b)
		lines[i] = fmt.Sprintf(
			"%s:%s:%s\n", prfx, r+d.RoleSuffix, passwords[i],
		)
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	finalizer = func() error {
		return os.Rename(newPath, orgPath)
	}
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return finalizer, nil
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable. It also creates the passwords
// hasher based on the AuthMethod.
func (d *Database) ValidateAndNormalize() error {
	m, err := scram.ByAuthMethod(d.AuthMethod)
	if err != nil {
		return err
	}
	if d.AuthMethod == "" {
		d.AuthMethod = "scram-sha-256"
	}
	d.hasher = m
	return nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their defaults.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
	Metrics  *bool // Whether to collect and serve Prometheus metrics

	// Address is the TCP address to listen on, like :8080.
	Address *string
	// ShutdownTimeout bounds the graceful shutdown of the server.
	ShutdownTimeout *settings.Duration `yaml:"shutdown-timeout"`
}

// Default gin settings.
const (
	DefaultAddress         = ":8080"
	DefaultShutdownTimeout = settings.Duration(5 * time.Second)
)

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. If metrics are enabled, the metrics middleware is
// installed and its route is registered too.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	var m *metrics.Metrics
	if *g.Metrics {
		m = metrics.New()
		middlewares = append(middlewares, gin.Metrics(m))
	}
	e := gin.New(middlewares...)
	if m != nil {
		e.GET(metrics.Path, m.Handler())
	}
	return e
}

// Logging contains the default slog logger settings.
type Logging struct {
	Level  string // debug, info (default), warn, or error
	Format string // text (default) or json
}

// NewLogger creates a logger which writes into w as configured.
func (l Logging) NewLogger(w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: true}
	switch l.Format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %q", l.Format)
	}
}

// ValidateAndNormalize fills the missing logging settings.
func (l *Logging) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	_, err := l.NewLogger(io.Discard)
	return err
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Cars Cars // cars use cases related settings
}

// Cars contains the configuration settings for the cars use cases.
// A nil field is left uninitialized, so the use cases layer may
// select its default value.
type Cars struct {
	// OwnerCarsOfUnknownPerson indicates how cars of an unknown person
	// should be reported, either as a not-found error or as an empty
	// list of cars.
	OwnerCarsOfUnknownPerson *string `yaml:"owner-cars-of-unknown-person"`

	// MaxReportSize is the maximum number of rows which a report
	// may ask for.
	MaxReportSize *int `yaml:"max-report-size"`
	// MinMaxReportSize is the inclusive minimum acceptable value for
	// the MaxReportSize setting.
	// A missing value indicates that there is no lower bound.
	MinMaxReportSize *int `yaml:"max-report-size-minimum"`
	// MaxMaxReportSize is the inclusive maximum acceptable value for
	// the MaxReportSize setting.
	// A missing value indicates that there is no upper bound.
	MaxMaxReportSize *int `yaml:"max-report-size-maximum"`

	// DefaultReportSize is used when a report size is not asked.
	DefaultReportSize *int `yaml:"default-report-size"`
}

// NewUseCase instantiates a new cars use case based on the settings
// in the `c` struct.
func (c Cars) NewUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 3)
	if c.OwnerCarsOfUnknownPerson != nil {
		pol, err := carsuc.ParseOwnerCarsPolicy(*c.OwnerCarsOfUnknownPerson)
		if err != nil {
			return nil, err
		}
		opts = append(opts, carsuc.WithOwnerCarsPolicy(pol))
	}
	if c.MaxReportSize != nil {
		opts = append(opts, carsuc.WithMaxReportSize(*c.MaxReportSize))
	}
	if c.DefaultReportSize != nil {
		opts = append(
			opts, carsuc.WithDefaultReportSize(*c.DefaultReportSize),
		)
	}
	return carsuc.New(p, r, opts...)
}

// ValidateAndNormalize validates the cars settings. A MaxReportSize
// which violates its boundaries is replaced by the nearest boundary
// with a warning, while an empty boundaries range is an error.
func (c *Cars) ValidateAndNormalize() error {
	if c.OwnerCarsOfUnknownPerson != nil {
		_, err := carsuc.ParseOwnerCarsPolicy(*c.OwnerCarsOfUnknownPerson)
		if err != nil {
			return err
		}
	}
	err := settings.Clamp(
		&c.MaxReportSize, c.MinMaxReportSize, c.MaxMaxReportSize,
	)
	var re *settings.RangeError[int]
	switch {
	case errors.As(err, &re):
		log.Warn(
			context.Background(), "max report size is clamped",
			slog.Int("clamped", *c.MaxReportSize),
			log.Err("error", re),
		)
	case err != nil:
		return fmt.Errorf("max report size: %w", err)
	}
	return nil
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for example
// the major version which is reported by data settings must match
// with number 1 which is the major version of this config package).
func Load(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	switch c.Storage {
	case "":
		c.Storage = StoragePostgres
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unsupported storage: %q", c.Storage)
	}
	switch c.Seed {
	case "":
		c.Seed = SeedNone
	case SeedNone, SeedDev, SeedProd:
	default:
		return fmt.Errorf("unsupported seed: %q", c.Seed)
	}
	settings.ZeroIfNil(&c.Gin.Logger)
	settings.ZeroIfNil(&c.Gin.Recovery)
	settings.ZeroIfNil(&c.Gin.Metrics)
	settings.DefaultIfNil(&c.Gin.Address, DefaultAddress)
	settings.DefaultIfNil(&c.Gin.ShutdownTimeout, DefaultShutdownTimeout)
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Usecases.Cars.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating cars settings: %w", err)
	}
	return nil
}

// Version returns the semantic version of this Config struct contents
// which its major version is equal to 1.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}
