// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/chaindb"
	"github.com/ChainSafe/gossamer/pkg/scale"

	"github.com/ChainSafe/grandpa-proofs/finality"
)

const grandpaPrefix = "grandpa"

var authoritySetChangesKey = []byte("authority_set_changes")

var (
	// ErrSetIDNotIncreasing is returned when an appended change does not
	// carry a set ID above the highest recorded one
	ErrSetIDNotIncreasing = errors.New("set id not greater than highest")

	// ErrBlockNumberNotIncreasing is returned when an appended change does
	// not end above the last recorded set boundary
	ErrBlockNumberNotIncreasing = errors.New("block number not greater than last set boundary")
)

// GrandpaState persists the authority set change log
type GrandpaState struct {
	db chaindb.Database
}

// NewGrandpaState returns a GrandpaState using the given database
func NewGrandpaState(db chaindb.Database) *GrandpaState {
	return &GrandpaState{
		db: chaindb.NewTable(db, grandpaPrefix),
	}
}

// AppendAuthoritySetChange records that the given set ended at the given
// block. Set IDs and block numbers must be strictly increasing.
func (gs *GrandpaState) AppendAuthoritySetChange(setID uint64, blockNumber uint) error {
	changes, err := gs.loadAuthoritySetChanges()
	if err != nil {
		return err
	}

	if len(changes) > 0 {
		last := changes[len(changes)-1]
		if setID <= last.SetID {
			return fmt.Errorf("%w: %d <= %d", ErrSetIDNotIncreasing, setID, last.SetID)
		}
		if blockNumber <= last.BlockNumber {
			return fmt.Errorf("%w: %d <= %d", ErrBlockNumberNotIncreasing, blockNumber, last.BlockNumber)
		}
	}

	changes.Append(setID, blockNumber)

	enc, err := scale.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encoding authority set changes: %w", err)
	}

	return gs.db.Put(authoritySetChangesKey, enc)
}

// AuthoritySetChanges returns a snapshot of the authority set change log.
// The returned value is independent of the stored log.
func (gs *GrandpaState) AuthoritySetChanges() (finality.AuthoritySetChanges, error) {
	return gs.loadAuthoritySetChanges()
}

func (gs *GrandpaState) loadAuthoritySetChanges() (finality.AuthoritySetChanges, error) {
	data, err := gs.db.Get(authoritySetChangesKey)
	if err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			return finality.AuthoritySetChanges{}, nil
		}
		return nil, err
	}

	var changes finality.AuthoritySetChanges
	err = scale.Unmarshal(data, &changes)
	if err != nil {
		return nil, fmt.Errorf("decoding authority set changes: %w", err)
	}

	return changes, nil
}
