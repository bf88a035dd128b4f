// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package finality

// ConsensusEngineID identifies the consensus engine a justification belongs to
type ConsensusEngineID [4]byte

// GrandpaEngineID is the consensus engine ID of GRANDPA
var GrandpaEngineID = ConsensusEngineID{'F', 'R', 'N', 'K'}

// Justification is an encoded justification tagged with the consensus
// engine that produced it
type Justification struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// Justifications is the collection of justifications stored for a single
// block, at most one per consensus engine
type Justifications []Justification

// IntoJustification returns the encoded justification for the given
// consensus engine, if any
func (js Justifications) IntoJustification(engineID ConsensusEngineID) (encoded []byte, ok bool) {
	for _, j := range js {
		if j.ConsensusEngineID == engineID {
			return j.Data, true
		}
	}
	return nil, false
}

// Append adds a justification for the given engine, replacing any
// justification the engine already has
func (js *Justifications) Append(engineID ConsensusEngineID, data []byte) {
	for i, j := range *js {
		if j.ConsensusEngineID == engineID {
			(*js)[i].Data = data
			return
		}
	}
	*js = append(*js, Justification{ConsensusEngineID: engineID, Data: data})
}
