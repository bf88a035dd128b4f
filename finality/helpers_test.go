// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"errors"
	"testing"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/lib/crypto/ed25519"
	"github.com/ChainSafe/gossamer/lib/keystore"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/stretchr/testify/require"
)

// newTestHeaderChain returns the headers of a chain of length n starting
// at block 1. The header for block i is at index i-1.
func newTestHeaderChain(t *testing.T, n uint) []*Header {
	t.Helper()

	headers := make([]*Header, 0, n)
	parentHash := common.Hash{}

	for i := uint(1); i <= n; i++ {
		header := NewHeader(parentHash, i,
			common.Hash{}, common.Hash{}, [][]byte{{byte(i)}})
		headers = append(headers, header)
		parentHash = header.Hash()
	}

	return headers
}

func newTestKeyring(t *testing.T) *keystore.Ed25519Keyring {
	t.Helper()

	keyring, err := keystore.NewEd25519Keyring()
	require.NoError(t, err)
	return keyring
}

func newTestVoters(t *testing.T, keypairs ...*ed25519.Keypair) Voters {
	t.Helper()

	voters := make(Voters, len(keypairs))
	for i, kp := range keypairs {
		voters[i] = Voter{
			Key: kp.Public().(*ed25519.PublicKey),
			ID:  uint64(i),
		}
	}

	return voters
}

func signPrecommit(t *testing.T, kp *ed25519.Keypair, vote Vote, round, setID uint64) SignedVote {
	t.Helper()

	msg, err := scale.Marshal(FullVote{
		Stage: Precommit,
		Vote:  vote,
		Round: round,
		SetID: setID,
	})
	require.NoError(t, err)

	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	var signature [64]byte
	copy(signature[:], sig)

	return SignedVote{
		Vote:        vote,
		Signature:   signature,
		AuthorityID: kp.Public().(*ed25519.PublicKey).AsBytes(),
	}
}

// newTestJustification builds a justification for the given target where
// every keypair precommits the target block directly
func newTestJustification(t *testing.T, round, setID uint64, target *Header,
	keypairs ...*ed25519.Keypair) *GrandpaJustification {
	t.Helper()

	vote := *NewVote(target.Hash(), uint32(target.Number))

	precommits := make([]SignedVote, len(keypairs))
	for i, kp := range keypairs {
		precommits[i] = signPrecommit(t, kp, vote, round, setID)
	}

	return &GrandpaJustification{
		Round: round,
		Commit: Commit{
			Hash:       vote.Hash,
			Number:     vote.Number,
			Precommits: precommits,
		},
	}
}

// testBlockState is an in-memory BlockState for assembler tests
type testBlockState struct {
	finalisedHeader   *Header
	headerByNumber    map[uint]*Header
	makeHeader        func(number uint) *Header
	justifications    map[common.Hash]Justifications
	bestJustification *GrandpaJustification
}

func newTestBlockState(finalised *Header, chain []*Header) *testBlockState {
	byNumber := make(map[uint]*Header, len(chain))
	for _, header := range chain {
		byNumber[header.Number] = header
	}

	return &testBlockState{
		finalisedHeader: finalised,
		headerByNumber:  byNumber,
		justifications:  make(map[common.Hash]Justifications),
	}
}

func (bs *testBlockState) GetHighestFinalisedHeader() (*Header, error) {
	return bs.finalisedHeader, nil
}

func (bs *testBlockState) GetHeaderByNumber(num uint) (*Header, error) {
	if header, ok := bs.headerByNumber[num]; ok {
		return header, nil
	}
	if bs.makeHeader != nil {
		return bs.makeHeader(num), nil
	}
	return nil, errTestHeaderNotFound
}

func (bs *testBlockState) GetHashByNumber(num uint) (common.Hash, error) {
	header, err := bs.GetHeaderByNumber(num)
	if err != nil {
		return common.Hash{}, err
	}
	return header.Hash(), nil
}

func (bs *testBlockState) GetJustifications(hash common.Hash) (Justifications, error) {
	justifications, ok := bs.justifications[hash]
	if !ok {
		return nil, ErrJustificationNotFound
	}
	return justifications, nil
}

func (bs *testBlockState) BestJustification() (*GrandpaJustification, error) {
	if bs.bestJustification == nil {
		return nil, ErrJustificationNotFound
	}
	return bs.bestJustification, nil
}

var errTestHeaderNotFound = errors.New("test header not found")

// testGrandpaState is an in-memory GrandpaState for assembler tests
type testGrandpaState struct {
	changes AuthoritySetChanges
	err     error
}

func (gs *testGrandpaState) AuthoritySetChanges() (AuthoritySetChanges, error) {
	if gs.err != nil {
		return nil, gs.err
	}
	return gs.changes, nil
}
