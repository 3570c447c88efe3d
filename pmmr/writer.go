// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/storage"
)

// Writer - the writable view
//
// nothing it does is visible to readers until Commit
type Writer struct {
	view
	owner *PMMR
}

// Append - add a leaf and merge every completed sibling pair
//
// returns the leaf index
func (w *Writer) Append(ctx *curve.Context, data []byte) (uint64, error) {
	if err := ctx.Alive(); nil != err {
		return 0, err
	}
	if nil == w.trx {
		return 0, fault.ErrTransactionClosed
	}

	leaf := w.size
	position := LeafPosition(leaf)

	if err := w.trx.Put(dataPool.NKey(leaf), data, false); nil != err {
		return 0, err
	}

	hash := merkle.LeafDigest(position, data)
	if err := w.putHash(position, hash); nil != err {
		return 0, err
	}

	for h := 1; h <= mergeCount(leaf); h += 1 {
		position += 1
		// the left sibling was completed before this leaf
		left, err := w.hashAt(position - (1 << uint(h)))
		if nil != err {
			return 0, err
		}
		hash = merkle.NodeDigest(position, left, hash)
		if err := w.putHash(position, hash); nil != err {
			return 0, err
		}
	}

	w.size = leaf + 1
	if err := storage.PutN(w.trx, sizePool.Key(nil), w.size); nil != err {
		return 0, err
	}

	w.log.Debugf("append leaf: %d  peak position: %d", leaf, position)
	return leaf, nil
}

func (w *Writer) putHash(position uint64, hash merkle.Digest) error {
	return w.trx.Put(hashPool.NKey(position), hash[:], false)
}

// Prune - mark a leaf dead and drop its data; no hash changes
func (w *Writer) Prune(ctx *curve.Context, leaf uint64) error {
	if err := ctx.Alive(); nil != err {
		return err
	}
	pruned, err := w.IsPruned(leaf)
	if nil != err {
		return err
	}
	if pruned {
		return fault.ErrAlreadyPruned
	}

	if err := w.trx.Delete(dataPool.NKey(leaf)); nil != err {
		return err
	}
	if err := w.trx.Put(prunedPool.NKey(leaf), prunedMarker, false); nil != err {
		return err
	}

	w.log.Debugf("prune leaf: %d", leaf)
	return nil
}

// Restore - undo a prune by supplying the original leaf data
//
// the data must hash to the frozen leaf slot
func (w *Writer) Restore(ctx *curve.Context, leaf uint64, data []byte) error {
	if err := ctx.Alive(); nil != err {
		return err
	}
	pruned, err := w.IsPruned(leaf)
	if nil != err {
		return err
	}
	if !pruned {
		return fault.ErrNotPruned
	}

	position := LeafPosition(leaf)
	stored, err := w.hashAt(position)
	if nil != err {
		return err
	}
	if merkle.LeafDigest(position, data) != stored {
		return fault.ErrValidationFailed
	}

	if err := w.trx.Delete(prunedPool.NKey(leaf)); nil != err {
		return err
	}
	if err := w.trx.Put(dataPool.NKey(leaf), data, false); nil != err {
		return err
	}

	w.log.Debugf("restore leaf: %d", leaf)
	return nil
}

// HardRewind - remove every leaf at or beyond target from the store
//
// leaves pruned below target stay pruned
func (w *Writer) HardRewind(target uint64) error {
	if nil == w.trx {
		return fault.ErrTransactionClosed
	}
	if target > w.size {
		return fault.ErrRewindBeyondSize
	}

	for p := MMRSize(target); p < MMRSize(w.size); p += 1 {
		if err := w.trx.Delete(hashPool.NKey(p)); nil != err {
			return err
		}
	}

	for leaf := target; leaf < w.size; leaf += 1 {
		err := w.trx.Delete(prunedPool.NKey(leaf))
		if nil == err {
			continue
		}
		if !fault.IsErrNotFound(err) {
			return err
		}
		if err := w.trx.Delete(dataPool.NKey(leaf)); nil != err {
			return err
		}
	}

	w.log.Infof("hard rewind from: %d to: %d leaves", w.size, target)

	w.size = target
	if err := storage.PutN(w.trx, sizePool.Key(nil), w.size); nil != err {
		return err
	}

	// remaining frontier must be intact
	if _, err := w.Peaks(); nil != err {
		w.log.Criticalf("frontier after rewind to: %d is incomplete: %s", target, err)
		return fault.ErrStoreCorrupt
	}
	return nil
}

// Commit - make all changes durable and release the writer
func (w *Writer) Commit() error {
	if nil == w.trx {
		return fault.ErrTransactionClosed
	}
	trx := w.trx
	w.trx = nil
	defer w.owner.releaseWriter()

	if err := trx.Commit(); nil != err {
		w.log.Errorf("commit at: %d leaves failed: %s", w.size, err)
		return err
	}
	w.log.Infof("committed: %d leaves", w.size)
	return nil
}

// Abort - discard all changes and release the writer
func (w *Writer) Abort() {
	if nil == w.trx {
		return
	}
	w.trx.Abort()
	w.trx = nil
	w.owner.releaseWriter()
}
