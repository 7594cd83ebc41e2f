// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer interface is exposed by each schema version
// implementation. It provides two methods of InitDevSchema and
// InitProdSchema in order to create new tables and fill an existing
// schema with them, using the development and production suitable
// initial data rows respectively.
// Each implementation should contain the relevant information for
// finding the destination database (such as a database transaction)
// so the SchemaInitializer does not need to take any argument.
type SchemaInitializer interface {
	// InitDevSchema creates tables in an existing database schema
	// and fills them with the development suitable initial data,
	// i.e., car models, people, cars, and their trade deals.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates tables in an existing database schema
	// and fills them with the production suitable initial data,
	// i.e., only the reference car models.
	InitProdSchema(ctx context.Context) error
}

// Schema interface presents expectations from a repository which allows
// database schema and roles management. This repository creates schema
// and grant relevant privileges on them, so they may be filled by
// tables during the database initialization or queried during other
// use cases.
type Schema interface {
	// Tx takes a Tx interface instance, unwraps it as required,
	// and returns a SchemaTxQueryer interface which (with access to the
	// implementation-dependent transaction object) can manage database
	// roles, change their passwords, or perform schema-level management
	// operations.
	Tx(Tx) SchemaTxQueryer
}

// SchemaTxQueryer interface lists all operations which may be taken
// with regards to database schema having an ongoing transaction.
// Role names which are passed to these methods may be suffixed
// automatically, based on this queryer settings.
type SchemaTxQueryer interface {
	// DropIfExists drops the `schema` schema with cascading if it
	// exists. That is, if `schema` does not exist, a nil error will be
	// returned without any change. Otherwise, the schema and all of its
	// tables will be dropped.
	//
	// Caller is responsible to pass a trusted schema name string.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema tries to create the `schema` schema.
	// There must be no other schema with the `schema` name, otherwise,
	// this operation will fail.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates the `role` role if it does not
	// exist right now. Although the login option is enabled for the
	// created role, but no specific password will be set for it.
	// The ChangePasswords method may be used for setting a password.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants ALL privileges on the `schema` schema
	// to the `role` role, so it may create or access tables in that
	// schema and run relevant queries.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath alters the given database role and sets its default
	// search_path to the given schema name alone.
	SetSearchPath(ctx context.Context, schema string, role Role) error

	// ChangePasswords updates the passwords of the given roles
	// in the current transaction. The roles and passwords slices must
	// have the same number of entries, so they can be used in pair.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}
