// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/car-deals/pkg/core/log"
	"github.com/momeni/car-deals/pkg/core/repo"
)

// InitDBUseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	settings   SchemaSettings // target settings
	schemaRepo repo.Schema    // schema management repo
}

// NewInitDB creates an InitDBUseCase instance, using the `ss` schema
// settings in order to find the target database connection information
// and also create its schema initializer based on the expected database
// semantic version.
// The `repo.Schema` repo will be taken from the `ss` in order to be
// used for dropping and (re)creating an empty schema, creating normal
// role, granting it privileges on the empty schema, and renewing the
// passwords of admin and normal roles.
func NewInitDB(ss SchemaSettings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd recreates the cdwebN schema (for the N major version of
// settings) using the admin role, renews the passwords of admin and
// normal roles, and then connects with the normal role in order to
// create the tables and fill them with car models.
// Both steps may be repeated in case of an abrupt failure because the
// new passwords are kept in a separate file until the admin
// transaction is committed.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(
		ctx,
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitProdSchema(ctx)
		},
	)
}

// InitDev is like InitProd, but fills the tables with development
// suitable data, including people, cars, and their trade deals.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(
		ctx,
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitDevSchema(ctx)
		},
	)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	fill func(ctx context.Context, si repo.SchemaInitializer) error,
) error {
	sn := SchemaName(iduc.settings.SchemaVersion()[0])
	if err := iduc.resetSchema(ctx, sn); err != nil {
		return fmt.Errorf("resetting %q schema: %w", sn, err)
	}
	log.Info(ctx, "schema is reset", slog.String("schema", sn))
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			return fill(ctx, si)
		})
	})
	if err != nil {
		return fmt.Errorf("filling %q schema: %w", sn, err)
	}
	log.Info(ctx, "schema is filled", slog.String("schema", sn))
	return nil
}

// resetSchema uses the admin role in order to recreate the sn schema
// and prepare the normal role for using it. Passwords of both roles
// are renewed in the same transaction and the new pass-file replaces
// the old one only after that transaction is committed.
func (iduc *InitDBUseCase) resetSchema(
	ctx context.Context, sn string,
) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			steps := []struct {
				name string
				run  func(ctx context.Context) error
			}{
				{"dropping schema", func(ctx context.Context) error {
					return q.DropIfExists(ctx, sn)
				}},
				{"creating schema", func(ctx context.Context) error {
					return q.CreateSchema(ctx, sn)
				}},
				{"creating normal role", func(ctx context.Context) error {
					return q.CreateRoleIfNotExists(ctx, repo.NormalRole)
				}},
				{"granting privileges", func(ctx context.Context) error {
					return q.GrantPrivileges(ctx, sn, repo.NormalRole)
				}},
				{"setting search_path", func(ctx context.Context) error {
					return q.SetSearchPath(ctx, sn, repo.NormalRole)
				}},
			}
			for _, step := range steps {
				if err := step.run(ctx); err != nil {
					return fmt.Errorf("%s: %w", step.name, err)
				}
			}
			finalizer, err = iduc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("renewing passwords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}

// SchemaName returns the target database schema name for the given
// major version. It should return cdwebN for version N.
func SchemaName(major uint) string {
	return fmt.Sprintf("cdweb%d", major)
}
