// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// CheckFinalityProof decodes the given finality proof and verifies the
// justification it carries against the expected authority set. The caller
// supplies the set ID and voters it believes are active; a proof produced
// under a different set fails signature verification.
func CheckFinalityProof(setID uint64, voters Voters, encodedProof []byte) (*FinalityProof, error) {
	proof := new(FinalityProof)
	err := scale.Unmarshal(encodedProof, proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFailedToDecodeProof, err)
	}

	justification, err := decodeGrandpaJustification(proof.Justification)
	if err != nil {
		return nil, err
	}

	err = justification.Verify(setID, voters)
	if err != nil {
		return nil, err
	}

	return proof, nil
}
