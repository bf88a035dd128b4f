// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"errors"
)

var (
	// ErrBlockNotYetFinalized is returned when a finality proof is requested
	// for a block above the highest finalised block
	ErrBlockNotYetFinalized = errors.New("block not yet finalized")

	// ErrBlockNotInAuthoritySetChanges is returned when the authority set change
	// log cannot place the requested block in any completed set
	ErrBlockNotInAuthoritySetChanges = errors.New("block not covered by authority set changes")

	// ErrJustificationNotFound is returned by the backend when no justification
	// is stored for the given block
	ErrJustificationNotFound = errors.New("justification not found")

	// ErrFailedToDecodeProof is returned when the finality proof bytes cannot be decoded
	ErrFailedToDecodeProof = errors.New("failed to decode finality proof")

	// ErrFailedToDecodeJustification is returned when the justification carried
	// by a finality proof cannot be decoded
	ErrFailedToDecodeJustification = errors.New("failed to decode justification")

	// ErrMinVotesNotMet is returned when a justification does not carry
	// precommits from more than two thirds of the voter set
	ErrMinVotesNotMet = errors.New("minimum number of votes not met")

	// ErrInvalidSignature is returned when a precommit signature does not
	// verify against the signed vote payload
	ErrInvalidSignature = errors.New("signature is not valid")

	// ErrAuthorityNotInSet is returned when a precommit was signed by a key
	// outside the expected voter set
	ErrAuthorityNotInSet = errors.New("authority is not in set")

	// ErrPrecommitBlockMismatch is returned when a precommit target cannot be
	// routed back to the commit target through the votes ancestries
	ErrPrecommitBlockMismatch = errors.New("precommit target is not a descendant of the commit target")

	// ErrUnusedVotesAncestries is returned when the votes ancestries contain
	// headers not used by any precommit ancestry proof
	ErrUnusedVotesAncestries = errors.New("unused headers in votes ancestries")

	errInvalidMultiplicity = errors.New("more than two votes for the same authority")
)
