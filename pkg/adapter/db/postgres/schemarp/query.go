// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/car-deals/pkg/adapter/db/postgres"
	"github.com/momeni/car-deals/pkg/core/repo"
	"github.com/momeni/car-deals/pkg/core/scram"
)

// PasswordHashIters is the number of SCRAM iterations which are used
// for hashing the database roles passwords, as recommended by RFC 7677.
const PasswordHashIters = 15000

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(
		ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE",
	)
	return err
}

func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	r := string(role + roleSuffix)
	var n int64
	err := q.GORM(ctx).Raw(
		"SELECT COUNT(*) FROM pg_roles WHERE rolname = ?", r,
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("looking up %q role: %w", r, err)
	}
	if n > 0 {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+ident(r)+" WITH LOGIN")
	return err
}

func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL ON SCHEMA %s TO %s",
		ident(schema), ident(string(role+roleSuffix)),
	))
	return err
}

func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		ident(string(role+roleSuffix)), ident(schema),
	))
	return err
}

// ChangePasswords sends SCRAM hashes of passwords to the DBMS, so the
// plaintext passwords are never logged or stored by the server.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles and %d passwords", len(roles), len(passwords),
		)
	}
	for i, role := range roles {
		h, err := hasher.Hash(passwords[i], "", PasswordHashIters)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		if strings.ContainsAny(h, `'\`) {
			return errors.New("unexpected character in password hash")
		}
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'",
			ident(string(role+roleSuffix)), h,
		))
		if err != nil {
			return fmt.Errorf("altering %q role: %w", role, err)
		}
	}
	return nil
}
