// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database initialization use case.
// It exposes InitDBUseCase for initializing of database schema with
// initial sample data (for development or production environment).
// This package also exposes the SchemaSettings interface which
// represents the expectations of these use cases from the loaded
// configuration settings, so the use cases layer does not depend on
// the config format.
package migrationuc
