// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package state implements the storage layer backing the finality proof
// provider, on top of a chaindb key-value store.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ChainSafe/chaindb"
	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"

	"github.com/ChainSafe/grandpa-proofs/finality"
)

const blockPrefix = "block"

var (
	headerPrefix         = []byte("hdr") // headerPrefix + hash -> header
	headerHashPrefix     = []byte("hsh") // headerHashPrefix + encoded number -> hash
	justificationPrefix  = []byte("jcp") // justificationPrefix + hash -> justifications
	finalisedHashKey     = []byte("finalised_head")
	bestJustificationKey = []byte("grandpa_best_justification")
)

// ErrHeaderNotFound is returned when the requested header is not in the database
var ErrHeaderNotFound = errors.New("header not found")

// BlockState stores block headers, the number to hash mapping of the
// canonical chain, per-block justifications and the finalised head
type BlockState struct {
	db chaindb.Database
}

// NewBlockState returns a BlockState using the given database
func NewBlockState(db chaindb.Database) *BlockState {
	return &BlockState{
		db: chaindb.NewTable(db, blockPrefix),
	}
}

// headerKey = headerPrefix + hash
func headerKey(hash common.Hash) []byte {
	return append(headerPrefix, hash.ToBytes()...)
}

// headerHashKey = headerHashPrefix + num (uint64 big endian)
func headerHashKey(number uint64) []byte {
	return append(headerHashPrefix, encodeBlockNumber(number)...)
}

// justificationKey = justificationPrefix + hash
func justificationKey(hash common.Hash) []byte {
	return append(justificationPrefix, hash.ToBytes()...)
}

func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

// SetHeader stores the given header and indexes its hash by number.
// Headers are indexed on the assumption that they extend the canonical chain.
func (bs *BlockState) SetHeader(header *finality.Header) error {
	enc, err := scale.Marshal(*header)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}

	hash := header.Hash()
	err = bs.db.Put(headerKey(hash), enc)
	if err != nil {
		return err
	}

	return bs.db.Put(headerHashKey(uint64(header.Number)), hash.ToBytes())
}

// GetHeader returns the header with the given hash
func (bs *BlockState) GetHeader(hash common.Hash) (*finality.Header, error) {
	data, err := bs.db.Get(headerKey(hash))
	if err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHeaderNotFound, hash)
		}
		return nil, err
	}

	header := new(finality.Header)
	err = scale.Unmarshal(data, header)
	if err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}

	return header, nil
}

// GetHashByNumber returns the canonical block hash for the given number
func (bs *BlockState) GetHashByNumber(num uint) (common.Hash, error) {
	data, err := bs.db.Get(headerHashKey(uint64(num)))
	if err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			return common.Hash{}, fmt.Errorf("%w: number %d", ErrHeaderNotFound, num)
		}
		return common.Hash{}, err
	}

	return common.NewHash(data), nil
}

// GetHeaderByNumber returns the canonical header for the given number
func (bs *BlockState) GetHeaderByNumber(num uint) (*finality.Header, error) {
	hash, err := bs.GetHashByNumber(num)
	if err != nil {
		return nil, err
	}

	return bs.GetHeader(hash)
}

// SetFinalisedHead marks the given block as the finalised head and stores
// the justifications that finalised it, if any
func (bs *BlockState) SetFinalisedHead(hash common.Hash, justifications finality.Justifications) error {
	has, err := bs.db.Has(headerKey(hash))
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrHeaderNotFound, hash)
	}

	// both keys land atomically so a justification is never persisted
	// for a block that was not marked finalised
	batch := bs.db.NewBatch()

	if len(justifications) > 0 {
		enc, err := scale.Marshal(justifications)
		if err != nil {
			return fmt.Errorf("encoding justifications: %w", err)
		}

		err = batch.Put(justificationKey(hash), enc)
		if err != nil {
			return err
		}
	}

	err = batch.Put(finalisedHashKey, hash.ToBytes())
	if err != nil {
		return err
	}

	return batch.Flush()
}

// GetHighestFinalisedHeader returns the header of the finalised head
func (bs *BlockState) GetHighestFinalisedHeader() (*finality.Header, error) {
	data, err := bs.db.Get(finalisedHashKey)
	if err != nil {
		return nil, fmt.Errorf("getting finalised head: %w", err)
	}

	return bs.GetHeader(common.NewHash(data))
}

// GetJustifications returns the justifications stored for the given block,
// or finality.ErrJustificationNotFound if there are none
func (bs *BlockState) GetJustifications(hash common.Hash) (finality.Justifications, error) {
	data, err := bs.db.Get(justificationKey(hash))
	if err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: block %s", finality.ErrJustificationNotFound, hash)
		}
		return nil, err
	}

	var justifications finality.Justifications
	err = scale.Unmarshal(data, &justifications)
	if err != nil {
		return nil, fmt.Errorf("decoding justifications: %w", err)
	}

	return justifications, nil
}

// SetBestJustification stores the latest justification of the current
// authority set
func (bs *BlockState) SetBestJustification(justification *finality.GrandpaJustification) error {
	enc, err := scale.Marshal(*justification)
	if err != nil {
		return fmt.Errorf("encoding justification: %w", err)
	}

	return bs.db.Put(bestJustificationKey, enc)
}

// BestJustification returns the latest justification of the current
// authority set, or finality.ErrJustificationNotFound if none was stored
func (bs *BlockState) BestJustification() (*finality.GrandpaJustification, error) {
	data, err := bs.db.Get(bestJustificationKey)
	if err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			return nil, finality.ErrJustificationNotFound
		}
		return nil, err
	}

	justification := new(finality.GrandpaJustification)
	err = scale.Unmarshal(data, justification)
	if err != nil {
		return nil, fmt.Errorf("decoding justification: %w", err)
	}

	return justification, nil
}
