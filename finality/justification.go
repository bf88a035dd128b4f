// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"fmt"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/lib/crypto/ed25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Subround subrounds in a GRANDPA round
type Subround byte

const (
	Prevote Subround = iota
	Precommit
	PrimaryProposal
)

// Vote represents a vote for a block with the given hash and number
type Vote struct {
	Hash   common.Hash
	Number uint32
}

// NewVote returns a new Vote given a block hash and number
func NewVote(hash common.Hash, number uint32) *Vote {
	return &Vote{
		Hash:   hash,
		Number: number,
	}
}

func (v Vote) String() string {
	return fmt.Sprintf("hash=%s number=%d", v.Hash, v.Number)
}

// SignedVote represents a vote, the signature of the voter over the full
// vote payload, and the ID of the voter
type SignedVote struct {
	Vote        Vote
	Signature   [64]byte
	AuthorityID ed25519.PublicKeyBytes
}

// Commit contains the target block of a finalisation round and the
// precommits that back it
type Commit struct {
	Hash       common.Hash
	Number     uint32
	Precommits []SignedVote
}

// FullVote is the payload signed by voters: the subround stage, the vote
// itself, and the round and set ID it was cast in
type FullVote struct {
	Stage Subround
	Vote  Vote
	Round uint64
	SetID uint64
}

// GrandpaJustification proves the finality of a block: a commit with
// enough precommits, plus the headers routing each precommit target
// back to the committed block
type GrandpaJustification struct {
	Round           uint64
	Commit          Commit
	VotesAncestries []Header
}

// Target returns the block the justification finalises
func (j *GrandpaJustification) Target() (hash common.Hash, number uint32) {
	return j.Commit.Hash, j.Commit.Number
}

// decodeGrandpaJustification decodes a SCALE encoded GrandpaJustification
func decodeGrandpaJustification(data []byte) (*GrandpaJustification, error) {
	justification := new(GrandpaJustification)
	err := scale.Unmarshal(data, justification)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFailedToDecodeJustification, err)
	}
	return justification, nil
}

// Verify checks the validity of the justification for the given voter set:
// the precommits must carry valid signatures from distinct voters of the
// set, represent a supermajority, and every precommit target must route
// back to the committed block through the votes ancestries.
func (j *GrandpaJustification) Verify(setID uint64, voters Voters) error {
	equivocatory, err := getEquivocatoryVoters(j.Commit.Precommits)
	if err != nil {
		return err
	}

	authorityIDs := make(map[ed25519.PublicKeyBytes]struct{}, len(voters))
	for _, voter := range voters {
		authorityIDs[voter.Key.AsBytes()] = struct{}{}
	}

	ancestry := newAncestryChain(j.VotesAncestries)
	visited := make(map[common.Hash]struct{})

	var count int
	for i := range j.Commit.Precommits {
		signedVote := &j.Commit.Precommits[i]

		if _, ok := equivocatory[signedVote.AuthorityID]; ok {
			continue
		}

		if _, ok := authorityIDs[signedVote.AuthorityID]; !ok {
			return fmt.Errorf("%w: authority ID 0x%x", ErrAuthorityNotInSet, signedVote.AuthorityID)
		}

		err := verifySignedVote(signedVote, j.Round, setID)
		if err != nil {
			return err
		}

		if signedVote.Vote.Hash != j.Commit.Hash {
			route, err := ancestry.routeTo(j.Commit.Hash, signedVote.Vote.Hash)
			if err != nil {
				return err
			}

			visited[signedVote.Vote.Hash] = struct{}{}
			for _, hash := range route {
				visited[hash] = struct{}{}
			}
		}

		count++
	}

	if count+len(equivocatory) < (2*len(voters))/3+1 {
		return ErrMinVotesNotMet
	}

	// every header supplied in the votes ancestries must have been needed
	// by some precommit ancestry proof
	for i := range j.VotesAncestries {
		hash := j.VotesAncestries[i].Hash()
		if _, ok := visited[hash]; !ok {
			return ErrUnusedVotesAncestries
		}
	}

	return nil
}

// verifySignedVote checks the ed25519 signature of a precommit over the
// full vote payload
func verifySignedVote(signedVote *SignedVote, round, setID uint64) error {
	publicKey, err := ed25519.NewPublicKey(signedVote.AuthorityID[:])
	if err != nil {
		return fmt.Errorf("creating public key: %w", err)
	}

	msg, err := scale.Marshal(FullVote{
		Stage: Precommit,
		Vote:  signedVote.Vote,
		Round: round,
		SetID: setID,
	})
	if err != nil {
		return fmt.Errorf("encoding full vote: %w", err)
	}

	ok, err := publicKey.Verify(msg, signedVote.Signature[:])
	if err != nil {
		return fmt.Errorf("verifying signature: %w", err)
	}

	if !ok {
		return fmt.Errorf("%w: for authority ID 0x%x", ErrInvalidSignature, signedVote.AuthorityID)
	}

	return nil
}

// getEquivocatoryVoters returns the authorities that voted more than once,
// whether for different blocks or duplicating the same vote. Their
// precommits are ignored, but each such authority still counts once
// towards the vote threshold.
func getEquivocatoryVoters(votes []SignedVote) (map[ed25519.PublicKeyBytes]struct{}, error) {
	equivocatory := make(map[ed25519.PublicKeyBytes]struct{})
	voted := make(map[ed25519.PublicKeyBytes]int, len(votes))

	for _, v := range votes {
		voted[v.AuthorityID]++

		switch voted[v.AuthorityID] {
		case 1:
		case 2:
			equivocatory[v.AuthorityID] = struct{}{}
		default:
			return nil, errInvalidMultiplicity
		}
	}

	return equivocatory, nil
}

// ancestryChain maps block hashes to their headers for ancestry lookups
type ancestryChain map[common.Hash]*Header

func newAncestryChain(headers []Header) ancestryChain {
	ac := make(ancestryChain, len(headers))
	for i := range headers {
		ac[headers[i].Hash()] = &headers[i]
	}
	return ac
}

// routeTo walks the parent links from block back to base and returns the
// hashes in between, excluding both endpoints. It fails if a link on the
// way is missing from the chain.
func (ac ancestryChain) routeTo(base, block common.Hash) ([]common.Hash, error) {
	var route []common.Hash
	currentHash := block

	for currentHash != base {
		header, ok := ac[currentHash]
		if !ok {
			return nil, fmt.Errorf("%w: block %s", ErrPrecommitBlockMismatch, block)
		}

		currentHash = header.ParentHash
		route = append(route, currentHash)
	}

	// the loop pushed the base hash last
	return route[:len(route)-1], nil
}
