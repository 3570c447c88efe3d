// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

//go:generate mockgen -destination=mocks/store.go -package=mocks github.com/bitmark-inc/mwledger/storage Store,Transaction

import (
	"encoding/binary"

	"github.com/bitmark-inc/mwledger/fault"
)

// Store - a transactional key/value store
type Store interface {
	BeginWrite() (Transaction, error)
	BeginRead() (Transaction, error)
	Close() error
}

// Transaction - a view of the store
//
// Put and Delete on a transaction from BeginRead return
// fault.ErrReadOnlyTransaction
type Transaction interface {
	Get(key []byte) ([]byte, bool, error)
	Put(key []byte, value []byte, overwrite bool) error
	Delete(key []byte) error
	Commit() error
	Abort()
}

// Pool - a key space selected by a single prefix byte
type Pool byte

// Key - prepend the prefix onto the key
func (p Pool) Key(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = byte(p)
	return append(prefixedKey, key...)
}

// NKey - key from a big endian uint64
func (p Pool) NKey(n uint64) []byte {
	k := make([]byte, 9)
	k[0] = byte(p)
	binary.BigEndian.PutUint64(k[1:], n)
	return k
}

// GetN - read a record and decode it as big endian uint64
//
// second parameter is false if record was not found
func GetN(trx Transaction, key []byte) (uint64, bool, error) {
	buffer, found, err := trx.Get(key)
	if nil != err || !found {
		return 0, false, err
	}
	if 8 != len(buffer) {
		return 0, false, fault.ErrStoreCorrupt
	}
	return binary.BigEndian.Uint64(buffer), true, nil
}

// PutN - store a uint64 as 8 big endian bytes, always overwriting
func PutN(trx Transaction, key []byte, value uint64) error {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	return trx.Put(key, buffer, true)
}

// for store layout version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentVersion = 0x100

// checkVersion - tag an empty store, reject a newer one
func checkVersion(s Store) error {
	trx, err := s.BeginWrite()
	if nil != err {
		return err
	}
	defer trx.Abort()

	value, found, err := trx.Get(versionKey)
	if nil != err {
		return err
	}
	if !found {
		buffer := make([]byte, 4)
		binary.BigEndian.PutUint32(buffer, currentVersion)
		if err := trx.Put(versionKey, buffer, false); nil != err {
			return err
		}
		return trx.Commit()
	}

	if 4 != len(value) || binary.BigEndian.Uint32(value) > currentVersion {
		return fault.ErrStoreCorrupt
	}
	return nil
}
