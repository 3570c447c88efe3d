// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/util"
)

// what a rewind needs to reverse one accepted transaction
//
// structure is:
//   size before outputs               varint
//   size after accept                 varint
//   kernel count ++ digests           varint ++ 32 bytes each
//   input count ++ (leaf ++ data)     varint ++ (varint ++ varint length ++ bytes)
type acceptance struct {
	base    uint64
	size    uint64
	kernels []merkle.Digest
	spent   []spentOutput
}

type spentOutput struct {
	leaf uint64
	data []byte
}

func (a *acceptance) pack() []byte {
	buffer := util.AppendVarint64(nil, a.base)
	buffer = util.AppendVarint64(buffer, a.size)
	buffer = util.AppendVarint64(buffer, uint64(len(a.kernels)))
	for _, d := range a.kernels {
		buffer = append(buffer, d[:]...)
	}
	buffer = util.AppendVarint64(buffer, uint64(len(a.spent)))
	for _, s := range a.spent {
		buffer = util.AppendVarint64(buffer, s.leaf)
		buffer = util.AppendBytes(buffer, s.data)
	}
	return buffer
}

func unpackAcceptance(buffer []byte) (*acceptance, error) {
	u := util.NewUnpacker(buffer)
	a := &acceptance{}

	var err error
	a.base, err = u.Varint64()
	if nil != err {
		return nil, fault.ErrStoreCorrupt
	}
	a.size, err = u.Varint64()
	if nil != err || a.size < a.base {
		return nil, fault.ErrStoreCorrupt
	}

	n, err := u.Varint64()
	if nil != err || n > uint64(u.Remaining()/merkle.DigestLength) {
		return nil, fault.ErrStoreCorrupt
	}
	a.kernels = make([]merkle.Digest, n)
	for i := range a.kernels {
		b, err := u.Fixed(merkle.DigestLength)
		if nil != err {
			return nil, fault.ErrStoreCorrupt
		}
		copy(a.kernels[i][:], b)
	}

	n, err = u.Varint64()
	if nil != err || n > uint64(u.Remaining()) {
		return nil, fault.ErrStoreCorrupt
	}
	a.spent = make([]spentOutput, n)
	for i := range a.spent {
		a.spent[i].leaf, err = u.Varint64()
		if nil != err {
			return nil, fault.ErrStoreCorrupt
		}
		a.spent[i].data, err = u.Bytes()
		if nil != err {
			return nil, fault.ErrStoreCorrupt
		}
	}

	if 0 != u.Remaining() {
		return nil, fault.ErrStoreCorrupt
	}
	return a, nil
}
