// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"github.com/bitmark-inc/mwledger/fault"
)

// Reader - a read only view
type Reader struct {
	view
}

// SoftRewind - make this view behave as if it had only target leaves
//
// nothing is written; other views and the store are unaffected
func (r *Reader) SoftRewind(target uint64) error {
	if nil == r.trx {
		return fault.ErrTransactionClosed
	}
	if target > r.size {
		return fault.ErrRewindBeyondSize
	}
	r.log.Debugf("soft rewind from: %d to: %d leaves", r.size, target)
	r.size = target
	return nil
}

// Close - release the snapshot
func (r *Reader) Close() {
	if nil != r.trx {
		r.trx.Abort()
		r.trx = nil
	}
}
