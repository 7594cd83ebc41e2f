// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"github.com/momeni/car-deals/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data
for the database schema version which is specified in the configuration
file. The database connection information are also read from the config
file. No changes will be made to the config file itself.
` + credsRenewalMessage + `

The cdwebX schema (for the X major version) is dropped if it exists
and is created again. Its tables will be filled by the reference car
models alone.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB((*migrationuc.InitDBUseCase).InitProd)
	},
	Args: cobra.NoArgs,
}

func init() {
	dbCmd.AddCommand(initProdCmd)
}
