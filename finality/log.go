// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	log "github.com/ChainSafe/log15"
)

var logger = log.New("pkg", "finality")
