// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"golang.org/x/exp/slices"
)

// SetIDNumber records that an authority set ended at a given block
type SetIDNumber struct {
	SetID       uint64
	BlockNumber uint
}

// AuthoritySetChanges tracks the last block of every completed authority
// set. Entries are ordered by set ID and block number. The log may be
// incomplete: nodes that warp synced only know about recent sets.
type AuthoritySetChanges []SetIDNumber

// Append adds the last block of a newly completed set to the log
func (asc *AuthoritySetChanges) Append(setID uint64, blockNumber uint) {
	*asc = append(*asc, SetIDNumber{
		SetID:       setID,
		BlockNumber: blockNumber,
	})
}

// AuthoritySetChangeID is the result of resolving a block number against
// the authority set change log
type AuthoritySetChangeID interface {
	isAuthoritySetChangeID()
}

// AuthoritySetChangeIDLatest means the block is in the still-live set,
// above the last recorded set boundary
type AuthoritySetChangeIDLatest struct{}

func (AuthoritySetChangeIDLatest) isAuthoritySetChangeID() {}

// AuthoritySetChangeIDSet identifies the completed set the block belongs
// to and the last block of that set
type AuthoritySetChangeIDSet struct {
	SetID       uint64
	BlockNumber uint
}

func (AuthoritySetChangeIDSet) isAuthoritySetChangeID() {}

// AuthoritySetChangeIDUnknown means the log does not cover the block,
// so no set can be determined for it
type AuthoritySetChangeIDUnknown struct{}

func (AuthoritySetChangeIDUnknown) isAuthoritySetChangeID() {}

// GetSetID resolves the authority set the given block belongs to.
// Three outcomes are possible: the block is above the last recorded
// boundary (latest set), it falls inside a recorded set, or the log
// is too incomplete to tell.
func (asc AuthoritySetChanges) GetSetID(blockNumber uint) AuthoritySetChangeID {
	if len(asc) == 0 {
		return AuthoritySetChangeIDUnknown{}
	}

	last := asc[len(asc)-1]
	if last.BlockNumber < blockNumber {
		return AuthoritySetChangeIDLatest{}
	}

	idx, _ := slices.BinarySearchFunc(asc, blockNumber,
		func(a SetIDNumber, b uint) int {
			switch {
			case a.BlockNumber == b:
				return 0
			case a.BlockNumber > b:
				return 1
			default:
				return -1
			}
		},
	)

	if idx >= len(asc) {
		return AuthoritySetChangeIDUnknown{}
	}

	change := asc[idx]

	// if the log starts above set 0 then the preceding sets were pruned,
	// so blocks at or below the first recorded boundary cannot be placed
	if idx == 0 && change.SetID != 0 {
		return AuthoritySetChangeIDUnknown{}
	}

	return AuthoritySetChangeIDSet{
		SetID:       change.SetID,
		BlockNumber: change.BlockNumber,
	}
}
