// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"github.com/ChainSafe/gossamer/lib/common"
)

// BlockState is the block backend a finality proof provider reads from
type BlockState interface {
	// GetHighestFinalisedHeader returns the header of the highest finalised block
	GetHighestFinalisedHeader() (*Header, error)
	// GetHashByNumber returns the canonical block hash for the given number
	GetHashByNumber(num uint) (common.Hash, error)
	// GetHeaderByNumber returns the canonical header for the given number
	GetHeaderByNumber(num uint) (*Header, error)
	// GetJustifications returns the justifications stored for the given
	// block, or ErrJustificationNotFound if there are none
	GetJustifications(hash common.Hash) (Justifications, error)
	// BestJustification returns the latest justification known for the
	// current authority set, or ErrJustificationNotFound if there is none
	BestJustification() (*GrandpaJustification, error)
}

// GrandpaState is the GRANDPA backend a finality proof provider reads from
type GrandpaState interface {
	// AuthoritySetChanges returns a snapshot of the authority set change log
	AuthoritySetChanges() (AuthoritySetChanges, error)
}
