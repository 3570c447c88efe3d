// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/merkle"
)

// Proof - inclusion of one leaf in a forest of a given size
type Proof struct {
	Leaf     uint64          `json:"leaf"`
	Leaves   uint64          `json:"leaves"`
	Siblings []merkle.Digest `json:"siblings"` // leaf to peak
	Peaks    []merkle.Digest `json:"peaks"`
}

// VerifyProof - check that data is the leaf under root
func VerifyProof(root merkle.Digest, proof *Proof, data []byte) error {
	if nil == proof {
		return fault.ErrInvalidProof
	}
	mountain, steps, ok := path(proof.Leaves, proof.Leaf)
	if !ok || len(steps) != len(proof.Siblings) {
		return fault.ErrInvalidProof
	}
	ms := mountains(proof.Leaves)
	if len(ms) != len(proof.Peaks) {
		return fault.ErrInvalidProof
	}

	position := LeafPosition(proof.Leaf)
	hash := merkle.LeafDigest(position, data)
	for i, s := range steps {
		if s.isRight {
			position += 1
			hash = merkle.NodeDigest(position, proof.Siblings[i], hash)
		} else {
			position = s.sibling + 1
			hash = merkle.NodeDigest(position, hash, proof.Siblings[i])
		}
	}

	matched := false
	for i, m := range ms {
		if m.position == mountain.position {
			matched = proof.Peaks[i] == hash
			break
		}
	}
	if !matched || merkle.BagPeaks(proof.Leaves, proof.Peaks) != root {
		return fault.ErrInvalidProof
	}
	return nil
}
