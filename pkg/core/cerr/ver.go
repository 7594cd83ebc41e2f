// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/car-deals/pkg/core/model"
)

// MismatchingSemVerError is returned when a configuration file names
// a config or database schema version which this binary cannot serve.
// Its items are the supported and the requested versions respectively.
type MismatchingSemVerError [2]model.SemVer

func (msve *MismatchingSemVerError) Error() string {
	return fmt.Sprintf("expected v%s, but got v%s", msve[0], msve[1])
}
