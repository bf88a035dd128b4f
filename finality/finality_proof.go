// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package finality assembles and checks GRANDPA finality proofs.
//
// A finality proof for block B consists of a justification for some
// descendant F of B, together with the headers of the sub-chain (B; F]
// when they are unknown to the requester. A party that trusts the
// authority set active at B can check the justification and walk the
// headers to conclude that B is final.
package finality

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// MaxUnknownHeaders is the maximum number of headers a single finality
// proof carries. Proofs for blocks further below the justified block are
// truncated and the requester has to follow up from where the proof ends.
const MaxUnknownHeaders = 100_000

// FinalityProof is the finality proof for a requested block: the hash of
// the block the justification actually finalises, the encoded
// justification, and the headers between the requested block (exclusive)
// and the justified block (inclusive)
type FinalityProof struct {
	Block          common.Hash
	Justification  []byte
	UnknownHeaders []Header
}

// FinalityProofProvider assembles finality proofs on request
type FinalityProofProvider struct {
	blockState   BlockState
	grandpaState GrandpaState
}

// NewFinalityProofProvider creates a new finality proof provider.
// grandpaState may be nil, in which case the provider is disabled and
// never returns a proof.
func NewFinalityProofProvider(blockState BlockState, grandpaState GrandpaState) *FinalityProofProvider {
	return &FinalityProofProvider{
		blockState:   blockState,
		grandpaState: grandpaState,
	}
}

// ProveFinality returns the SCALE encoded finality proof for the given
// block number. A nil result with a nil error means no proof is available
// yet; the requester should retry once finality has progressed.
func (p *FinalityProofProvider) ProveFinality(block uint) ([]byte, error) {
	if p.grandpaState == nil {
		logger.Trace("unable to provide finality proof", "reason", "authority set changes are not available")
		return nil, nil
	}

	changes, err := p.grandpaState.AuthoritySetChanges()
	if err != nil {
		return nil, fmt.Errorf("getting authority set changes: %w", err)
	}

	proof, err := proveFinality(p.blockState, changes, block, true)
	if err != nil {
		return nil, err
	}

	if proof == nil {
		return nil, nil
	}

	encoded, err := scale.Marshal(*proof)
	if err != nil {
		return nil, fmt.Errorf("encoding finality proof: %w", err)
	}

	return encoded, nil
}

// proveFinality assembles a finality proof for the given block. It returns
// a nil proof when no justification covering the block is known yet.
// Collecting unknown headers may be skipped when the requester is known to
// have the headers already, as during warp sync.
func proveFinality(blockState BlockState, authoritySetChanges AuthoritySetChanges,
	block uint, collectUnknownHeaders bool) (*FinalityProof, error) {
	// early return if no finalised block covers the requested block yet
	finalisedHeader, err := blockState.GetHighestFinalisedHeader()
	if err != nil {
		return nil, fmt.Errorf("getting highest finalised header: %w", err)
	}

	if finalisedHeader.Number < block {
		logger.Trace("requested finality proof for block above the highest finalised",
			"block", block, "finalised", finalisedHeader.Number)
		return nil, fmt.Errorf(
			"%w: requested finality proof for descendant of #%d while we only have finalized #%d",
			ErrBlockNotYetFinalized, block, finalisedHeader.Number)
	}

	var justification []byte
	var justifiedBlock uint

	switch change := authoritySetChanges.GetSetID(block).(type) {
	case AuthoritySetChangeIDLatest:
		best, err := blockState.BestJustification()
		if err != nil {
			if errors.Is(err, ErrJustificationNotFound) {
				logger.Trace("no justification found for the latest finalised block, returning empty proof")
				return nil, nil
			}
			return nil, fmt.Errorf("getting best justification: %w", err)
		}

		justification, err = scale.Marshal(*best)
		if err != nil {
			return nil, fmt.Errorf("encoding justification: %w", err)
		}

		_, targetNumber := best.Target()
		justifiedBlock = uint(targetNumber)
	case AuthoritySetChangeIDSet:
		lastBlockOfSet := change.BlockNumber

		lastHash, err := blockState.GetHashByNumber(lastBlockOfSet)
		if err != nil {
			return nil, fmt.Errorf("getting hash of block %d: %w", lastBlockOfSet, err)
		}

		justifications, err := blockState.GetJustifications(lastHash)
		if err != nil {
			if errors.Is(err, ErrJustificationNotFound) {
				logger.Trace("no justification found when making finality proof, returning empty proof",
					"block", block)
				return nil, nil
			}
			return nil, fmt.Errorf("getting justifications of block %d: %w", lastBlockOfSet, err)
		}

		encoded, ok := justifications.IntoJustification(GrandpaEngineID)
		if !ok {
			logger.Trace("no GRANDPA justification found when making finality proof, returning empty proof",
				"block", block)
			return nil, nil
		}

		justification = encoded
		justifiedBlock = lastBlockOfSet
	case AuthoritySetChangeIDUnknown:
		return nil, fmt.Errorf("%w: block #%d", ErrBlockNotInAuthoritySetChanges, block)
	default:
		panic(fmt.Sprintf("unreachable authority set change ID: %T", change))
	}

	var unknownHeaders []Header
	if collectUnknownHeaders {
		for current := block + 1; current <= justifiedBlock; current++ {
			if len(unknownHeaders) >= MaxUnknownHeaders {
				break
			}

			header, err := blockState.GetHeaderByNumber(current)
			if err != nil {
				return nil, fmt.Errorf("getting header of block %d: %w", current, err)
			}

			unknownHeaders = append(unknownHeaders, *header)
		}
	}

	justifiedHash, err := blockState.GetHashByNumber(justifiedBlock)
	if err != nil {
		return nil, fmt.Errorf("getting hash of block %d: %w", justifiedBlock, err)
	}

	return &FinalityProof{
		Block:          justifiedHash,
		Justification:  justification,
		UnknownHeaders: unknownHeaders,
	}, nil
}
