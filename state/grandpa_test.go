// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/grandpa-proofs/finality"
)

func TestGrandpaState_AppendAuthoritySetChange(t *testing.T) {
	t.Parallel()

	gs := NewGrandpaState(newInMemoryDB(t))

	changes, err := gs.AuthoritySetChanges()
	require.NoError(t, err)
	require.Empty(t, changes)

	err = gs.AppendAuthoritySetChange(0, 41)
	require.NoError(t, err)
	err = gs.AppendAuthoritySetChange(1, 81)
	require.NoError(t, err)

	changes, err = gs.AuthoritySetChanges()
	require.NoError(t, err)
	require.Equal(t, finality.AuthoritySetChanges{
		{SetID: 0, BlockNumber: 41},
		{SetID: 1, BlockNumber: 81},
	}, changes)
}

func TestGrandpaState_AppendAuthoritySetChangeNotIncreasing(t *testing.T) {
	t.Parallel()

	gs := NewGrandpaState(newInMemoryDB(t))

	err := gs.AppendAuthoritySetChange(1, 41)
	require.NoError(t, err)

	err = gs.AppendAuthoritySetChange(1, 81)
	require.ErrorIs(t, err, ErrSetIDNotIncreasing)

	err = gs.AppendAuthoritySetChange(2, 41)
	require.ErrorIs(t, err, ErrBlockNumberNotIncreasing)

	// the rejected appends must not have been persisted
	changes, err := gs.AuthoritySetChanges()
	require.NoError(t, err)
	require.Equal(t, finality.AuthoritySetChanges{{SetID: 1, BlockNumber: 41}}, changes)
}

func TestGrandpaState_AuthoritySetChangesSnapshot(t *testing.T) {
	t.Parallel()

	gs := NewGrandpaState(newInMemoryDB(t))

	err := gs.AppendAuthoritySetChange(0, 41)
	require.NoError(t, err)

	snapshot, err := gs.AuthoritySetChanges()
	require.NoError(t, err)

	// mutating the snapshot must not affect the stored log
	snapshot.Append(9, 999)
	snapshot[0].BlockNumber = 7

	reloaded, err := gs.AuthoritySetChanges()
	require.NoError(t, err)
	require.Equal(t, finality.AuthoritySetChanges{{SetID: 0, BlockNumber: 41}}, reloaded)
}
