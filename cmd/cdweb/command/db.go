// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/car-deals/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used.`,
}

const credsRenewalMessage = `
The admin role password is read from the .pgpass file in the pass-dir
directory. Passwords of the admin and cdweb roles are renewed during
the initialization and are written in the .pgpass.new file at first.
After a successful commit, it is moved over the .pgpass file.`

// initDB loads the configuration file and runs one of the InitDB
// use case methods.
func initDB(
	run func(*migrationuc.InitDBUseCase, context.Context) error,
) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err = run(migrationuc.NewInitDB(c), ctx); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
