// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/kernel"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/pedersen"
	"github.com/bitmark-inc/mwledger/pmmr"
	"github.com/bitmark-inc/mwledger/storage"
)

// store pools
const (
	kernelPool     = storage.Pool('K')
	acceptancePool = storage.Pool('N')
	countPool      = storage.Pool('C')
)

// DefaultCacheSize - verified kernels remembered
const DefaultCacheSize = 4096

// Ledger - the output set and the kernels that justify it
type Ledger struct {
	sync.Mutex
	log      *logger.L
	ctx      *curve.Context
	mmr      *pmmr.PMMR
	verified *lru.Cache
}

// New - ledger over an opened PMMR
//
// the context is retained until Close
func New(ctx *curve.Context, mmr *pmmr.PMMR, cacheSize int) (*Ledger, error) {
	if err := ctx.Alive(); nil != err {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	verified, err := lru.New(cacheSize)
	if nil != err {
		return nil, err
	}
	return &Ledger{
		log:      logger.New("ledger"),
		ctx:      ctx.Retain(),
		mmr:      mmr,
		verified: verified,
	}, nil
}

// Close - release the context
func (l *Ledger) Close() error {
	l.Lock()
	defer l.Unlock()
	l.verified.Purge()
	return l.ctx.Close()
}

// VerifyKernels - check every kernel signature
//
// kernels already verified are remembered by digest
func (l *Ledger) VerifyKernels(kernels []kernel.Kernel) error {
	for i := range kernels {
		k := &kernels[i]
		digest := k.Digest()
		if l.verified.Contains(digest) {
			continue
		}
		if err := k.Verify(l.ctx); nil != err {
			l.log.Warnf("kernel: %s  verify error: %s", digest, err)
			return err
		}
		l.verified.Add(digest, struct{}{})
	}
	return nil
}

// Accept - validate a transaction and apply it atomically
//
// returns the leaf indexes of the new outputs
func (l *Ledger) Accept(tx *Transaction) ([]uint64, error) {
	l.Lock()
	defer l.Unlock()

	if err := l.ctx.Alive(); nil != err {
		return nil, err
	}
	if 0 == len(tx.Kernels) {
		return nil, fault.ErrValidationFailed
	}
	if err := l.VerifyKernels(tx.Kernels); nil != err {
		return nil, err
	}

	w, err := l.mmr.Writer()
	if nil != err {
		return nil, err
	}
	defer w.Abort()
	trx := w.Transaction()

	// inputs must be live outputs
	a := &acceptance{
		kernels: make([]merkle.Digest, 0, len(tx.Kernels)),
		spent:   make([]spentOutput, 0, len(tx.Inputs)),
	}
	inputs := make([]pedersen.Commitment, 0, len(tx.Inputs))
	for _, leaf := range tx.Inputs {
		data, err := w.LeafData(leaf)
		if nil != err {
			return nil, err
		}
		c, err := pedersen.CommitmentFromBytes(data)
		if nil != err {
			fault.Criticalf("leaf: %d  stored output is not a commitment: %s", leaf, err)
			return nil, fault.ErrStoreCorrupt
		}
		inputs = append(inputs, c)
		a.spent = append(a.spent, spentOutput{leaf: leaf, data: data})
	}

	fee, err := tx.Fee()
	if nil != err {
		return nil, err
	}
	balanced, err := tx.balanced(inputs, fee)
	if nil != err {
		return nil, err
	}
	if !balanced {
		return nil, fault.ErrTransactionUnbalanced
	}

	for i := range tx.Kernels {
		k := &tx.Kernels[i]
		digest := k.Digest()
		err := trx.Put(kernelPool.Key(digest[:]), k.Pack(), false)
		if fault.ErrDuplicate == err {
			l.log.Warnf("replayed kernel: %s", digest)
			return nil, fault.ErrDuplicateKernel
		}
		if nil != err {
			return nil, err
		}
		a.kernels = append(a.kernels, digest)
	}

	for _, leaf := range tx.Inputs {
		if err := w.Prune(l.ctx, leaf); nil != err {
			return nil, err
		}
	}

	a.base = w.Size()
	leaves := make([]uint64, 0, len(tx.Outputs))
	for i := range tx.Outputs {
		c := tx.Outputs[i]
		leaf, err := w.Append(l.ctx, c[:])
		if nil != err {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}

	count, _, err := storage.GetN(trx, countPool.Key(nil))
	if nil != err {
		return nil, err
	}
	a.size = w.Size()
	if err := trx.Put(acceptancePool.NKey(count), a.pack(), false); nil != err {
		return nil, err
	}
	if err := storage.PutN(trx, countPool.Key(nil), count+1); nil != err {
		return nil, err
	}

	if err := w.Commit(); nil != err {
		return nil, err
	}

	l.log.Infof("accepted: %d inputs  %d outputs  %d kernels  fee: %d", len(tx.Inputs), len(tx.Outputs), len(tx.Kernels), fee)
	return leaves, nil
}

// Rewind - undo every transaction that took the output set beyond
// target leaves, then truncate the PMMR there
//
// target must not fall inside the outputs of one transaction;
// outputs they spent below target become live again
func (l *Ledger) Rewind(target uint64) error {
	l.Lock()
	defer l.Unlock()

	if err := l.ctx.Alive(); nil != err {
		return err
	}

	w, err := l.mmr.Writer()
	if nil != err {
		return err
	}
	defer w.Abort()
	trx := w.Transaction()

	if target > w.Size() {
		return fault.ErrRewindBeyondSize
	}

	count, _, err := storage.GetN(trx, countPool.Key(nil))
	if nil != err {
		return err
	}

	undone := 0
	for count > 0 {
		buffer, found, err := trx.Get(acceptancePool.NKey(count - 1))
		if nil != err {
			return err
		}
		if !found {
			fault.Criticalf("acceptance: %d  record missing", count-1)
			return fault.ErrStoreCorrupt
		}
		a, err := unpackAcceptance(buffer)
		if nil != err {
			fault.Criticalf("acceptance: %d  record error: %s", count-1, err)
			return err
		}
		if a.size <= target {
			break
		}
		if a.base < target {
			return fault.ErrRewindMidTransaction
		}

		for _, d := range a.kernels {
			if err := trx.Delete(kernelPool.Key(d[:])); nil != err {
				return err
			}
		}
		for _, s := range a.spent {
			if s.leaf >= target {
				continue
			}
			if err := w.Restore(l.ctx, s.leaf, s.data); nil != err {
				return err
			}
		}
		if err := trx.Delete(acceptancePool.NKey(count - 1)); nil != err {
			return err
		}
		count -= 1
		undone += 1
	}

	if err := storage.PutN(trx, countPool.Key(nil), count); nil != err {
		return err
	}
	if err := w.HardRewind(target); nil != err {
		return err
	}

	if err := w.Commit(); nil != err {
		return err
	}

	l.log.Infof("rewind to: %d leaves  undone: %d transactions", target, undone)
	return nil
}

// HasKernel - true if a kernel with this digest has been accepted
func (l *Ledger) HasKernel(digest merkle.Digest) (bool, error) {
	r, err := l.mmr.Reader()
	if nil != err {
		return false, err
	}
	defer r.Close()

	_, found, err := r.Transaction().Get(kernelPool.Key(digest[:]))
	return found, err
}
