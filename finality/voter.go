// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"fmt"
	"strings"

	"github.com/ChainSafe/gossamer/lib/crypto/ed25519"
)

// Voter represents a GRANDPA voter
type Voter struct {
	Key *ed25519.PublicKey
	ID  uint64
}

func (v Voter) String() string {
	return fmt.Sprintf("[key=%s id=%d]", v.Key.Hex(), v.ID)
}

// Voters is a set of GRANDPA voters
type Voters []Voter

func (v Voters) String() string {
	str := make([]string, len(v))
	for i, w := range v {
		str[i] = w.String()
	}
	return strings.Join(str, " ")
}

// AuthorityRaw is an ed25519 authority key with its voter ID, as stored
// on-chain and in warp sync fragments
type AuthorityRaw struct {
	Key ed25519.PublicKeyBytes
	ID  uint64
}

// NewVotersFromAuthoritiesRaw returns the Voters given a set of raw authorities
func NewVotersFromAuthoritiesRaw(auths []AuthorityRaw) (Voters, error) {
	voters := make(Voters, len(auths))

	for i := range auths {
		key, err := ed25519.NewPublicKey(auths[i].Key[:])
		if err != nil {
			return nil, fmt.Errorf("creating public key: %w", err)
		}

		voters[i] = Voter{
			Key: key,
			ID:  auths[i].ID,
		}
	}

	return voters, nil
}
