// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/storage"
	"github.com/bitmark-inc/mwledger/util"
)

// queries shared by Reader and Writer
type view struct {
	log  *logger.L
	trx  storage.Transaction
	size uint64
}

// Transaction - the underlying store transaction
//
// lets other records share the snapshot, or for a Writer be
// committed atomically with the forest
func (v *view) Transaction() storage.Transaction {
	return v.trx
}

// Size - number of leaves
func (v *view) Size() uint64 {
	return v.size
}

// MMRSize - number of nodes
func (v *view) MMRSize() uint64 {
	return MMRSize(v.size)
}

func (v *view) hashAt(position uint64) (merkle.Digest, error) {
	if nil == v.trx {
		return merkle.Digest{}, fault.ErrTransactionClosed
	}
	if position >= v.MMRSize() {
		return merkle.Digest{}, fault.ErrPositionNotFound
	}

	buffer, found, err := v.trx.Get(hashPool.NKey(position))
	if nil != err {
		return merkle.Digest{}, err
	}
	if !found {
		return merkle.Digest{}, fault.ErrPositionNotFound
	}

	var d merkle.Digest
	if err := merkle.DigestFromBytes(&d, buffer); nil != err {
		return merkle.Digest{}, fault.ErrStoreCorrupt
	}
	return d, nil
}

// Peaks - hashes of the mountain peaks, tallest first
func (v *view) Peaks() ([]merkle.Digest, error) {
	ms := mountains(v.size)
	peaks := make([]merkle.Digest, 0, len(ms))
	for _, m := range ms {
		d, err := v.hashAt(m.position)
		if nil != err {
			return nil, err
		}
		peaks = append(peaks, d)
	}
	return peaks, nil
}

// Root - the peaks bagged with the size
func (v *view) Root() (merkle.Digest, error) {
	peaks, err := v.Peaks()
	if nil != err {
		return merkle.Digest{}, err
	}
	return merkle.BagPeaks(v.size, peaks), nil
}

// IsPruned - true if the leaf has been pruned
func (v *view) IsPruned(leaf uint64) (bool, error) {
	if nil == v.trx {
		return false, fault.ErrTransactionClosed
	}
	if leaf >= v.size {
		return false, fault.ErrLeafNotFound
	}
	_, found, err := v.trx.Get(prunedPool.NKey(leaf))
	return found, err
}

// LeafData - the data appended for a leaf
//
// a pruned leaf has no data and gives fault.ErrAlreadyPruned
func (v *view) LeafData(leaf uint64) ([]byte, error) {
	pruned, err := v.IsPruned(leaf)
	if nil != err {
		return nil, err
	}
	if pruned {
		return nil, fault.ErrAlreadyPruned
	}
	data, found, err := v.trx.Get(dataPool.NKey(leaf))
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrStoreCorrupt
	}
	return data, nil
}

// SyncPeaks - tiered peak disclosure for a syncing peer
//
// the tallest mountain gives its four height-2-below subtree roots,
// the next two mountains give their two children, the rest just their
// peak; a mountain too short for its depth gives its lowest level
func (v *view) SyncPeaks() ([]merkle.Digest, error) {
	nodes := syncNodes(v.size)
	result := make([]merkle.Digest, 0, len(nodes))
	for _, n := range nodes {
		d, err := v.hashAt(n.position)
		if nil != err {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// SyncChunk - serialise the subtree below SyncPeaks()[index]
//
// structure is:
//   position ++ height ++ first leaf            (varint, byte, varint)
//   hash[0] ++ … ++ hash[2^(h+1)-2]             (post order, 32 bytes each)
//   (0x00 | 0x01 ++ length ++ data) per leaf    (pruned | live)
func (v *view) SyncChunk(index int) ([]byte, error) {
	nodes := syncNodes(v.size)
	if index < 0 || index >= len(nodes) {
		return nil, fault.ErrSyncIndexNotFound
	}
	n := nodes[index]

	buffer := util.AppendVarint64(nil, n.position)
	buffer = append(buffer, byte(n.height))
	buffer = util.AppendVarint64(buffer, n.firstLeaf)

	for p := n.start(); p <= n.position; p += 1 {
		d, err := v.hashAt(p)
		if nil != err {
			return nil, err
		}
		buffer = append(buffer, d[:]...)
	}

	for leaf := n.firstLeaf; leaf < n.firstLeaf+n.leafCount(); leaf += 1 {
		data, err := v.LeafData(leaf)
		if fault.ErrAlreadyPruned == err {
			buffer = append(buffer, chunkPruned)
			continue
		}
		if nil != err {
			return nil, err
		}
		buffer = append(buffer, chunkLive)
		buffer = util.AppendBytes(buffer, data)
	}

	v.log.Debugf("sync chunk: %d  position: %d  height: %d  bytes: %d", index, n.position, n.height, len(buffer))
	return buffer, nil
}

// Proof - inclusion proof of a leaf against the current root
func (v *view) Proof(leaf uint64) (*Proof, error) {
	_, steps, ok := path(v.size, leaf)
	if !ok {
		return nil, fault.ErrLeafNotFound
	}

	siblings := make([]merkle.Digest, 0, len(steps))
	for _, s := range steps {
		d, err := v.hashAt(s.sibling)
		if nil != err {
			return nil, err
		}
		siblings = append(siblings, d)
	}

	peaks, err := v.Peaks()
	if nil != err {
		return nil, err
	}

	return &Proof{
		Leaf:     leaf,
		Leaves:   v.size,
		Siblings: siblings,
		Peaks:    peaks,
	}, nil
}
