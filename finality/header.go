// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"fmt"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Header is a block header as carried inside a finality proof.
// The digest items are kept as opaque encoded bytes since finality
// proofs never interpret them.
type Header struct {
	ParentHash     common.Hash
	Number         uint
	StateRoot      common.Hash
	ExtrinsicsRoot common.Hash
	Digest         [][]byte
}

// NewHeader creates a new block header
func NewHeader(parentHash common.Hash, number uint,
	stateRoot, extrinsicsRoot common.Hash, digest [][]byte) *Header {
	return &Header{
		ParentHash:     parentHash,
		Number:         number,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		Digest:         digest,
	}
}

// Hash returns the blake2b hash of the SCALE encoded header
func (h *Header) Hash() common.Hash {
	enc, err := scale.Marshal(*h)
	if err != nil {
		panic(err)
	}

	hash, err := common.Blake2bHash(enc)
	if err != nil {
		panic(err)
	}

	return hash
}

func (h *Header) String() string {
	return fmt.Sprintf("ParentHash=%s Number=%d StateRoot=%s ExtrinsicsRoot=%s",
		h.ParentHash, h.Number, h.StateRoot, h.ExtrinsicsRoot)
}
