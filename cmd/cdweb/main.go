// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// The cdweb command serves the cars registry REST APIs and manages
// its database. Run it with --help for the list of sub-commands.
package main

import "github.com/momeni/car-deals/cmd/cdweb/command"

func main() {
	command.Execute()
}
