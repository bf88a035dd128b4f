// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"testing"

	"github.com/ChainSafe/chaindb"
	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/grandpa-proofs/finality"
)

func newInMemoryDB(t *testing.T) chaindb.Database {
	t.Helper()

	db, err := chaindb.NewBadgerDB(&chaindb.Config{
		DataDir:  t.TempDir(),
		InMemory: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		err := db.Close()
		require.NoError(t, err)
	})

	return db
}

// addTestHeaderChain stores a chain of n headers starting at block 1 and
// returns them, the header for block i at index i-1
func addTestHeaderChain(t *testing.T, bs *BlockState, n uint) []*finality.Header {
	t.Helper()

	headers := make([]*finality.Header, 0, n)
	parentHash := common.Hash{}

	for i := uint(1); i <= n; i++ {
		header := finality.NewHeader(parentHash, i,
			common.Hash{}, common.Hash{}, [][]byte{{byte(i)}})
		err := bs.SetHeader(header)
		require.NoError(t, err)

		headers = append(headers, header)
		parentHash = header.Hash()
	}

	return headers
}
