// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/fault"
)

var boltBucket = []byte("mwledger")

// open readers block a remap, so start with room for a large ledger
const boltInitialMmapSize = 1 << 26

// Bolt - store backed by a single bbolt bucket
type Bolt struct {
	sync.Mutex
	log     *logger.L
	db      *bbolt.DB
	writing bool
}

// NewBolt - open or create a bbolt file
func NewBolt(name string, readOnly bool) (*Bolt, error) {
	options := &bbolt.Options{
		Timeout:         time.Second,
		ReadOnly:        readOnly,
		InitialMmapSize: boltInitialMmapSize,
	}
	db, err := bbolt.Open(name, 0600, options)
	if nil != err {
		return nil, err
	}

	if !readOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(boltBucket)
			return err
		})
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	s := &Bolt{
		log: logger.New("storage"),
		db:  db,
	}
	if !readOnly {
		if err := checkVersion(s); nil != err {
			db.Close()
			return nil, err
		}
	}
	s.log.Infof("opened bolt: %s", name)
	return s, nil
}

// Close - close the database file
func (s *Bolt) Close() error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// BeginRead - read only bbolt transaction
func (s *Bolt) BeginRead() (Transaction, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	tx, err := s.db.Begin(false)
	if nil != err {
		return nil, err
	}
	return &boltTransaction{
		tx: tx,
	}, nil
}

// BeginWrite - the single writable bbolt transaction
//
// bbolt would block a second writer, this returns an error instead
func (s *Bolt) BeginWrite() (Transaction, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	if s.writing {
		return nil, fault.ErrTransactionInUse
	}
	tx, err := s.db.Begin(true)
	if nil != err {
		return nil, err
	}
	s.writing = true
	return &boltTransaction{
		store:    s,
		tx:       tx,
		writable: true,
	}, nil
}

type boltTransaction struct {
	store    *Bolt
	tx       *bbolt.Tx
	writable bool
}

func (t *boltTransaction) bucket() (*bbolt.Bucket, error) {
	if nil == t.tx {
		return nil, fault.ErrTransactionClosed
	}
	b := t.tx.Bucket(boltBucket)
	if nil == b {
		return nil, fault.ErrStoreCorrupt
	}
	return b, nil
}

// values are only valid for the life of the transaction so are copied
func (t *boltTransaction) Get(key []byte) ([]byte, bool, error) {
	b, err := t.bucket()
	if nil != err {
		return nil, false, err
	}
	k, v := b.Cursor().Seek(key)
	if nil == k || !bytes.Equal(k, key) {
		return nil, false, nil
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value, true, nil
}

func (t *boltTransaction) Put(key []byte, value []byte, overwrite bool) error {
	if !t.writable {
		return fault.ErrReadOnlyTransaction
	}
	b, err := t.bucket()
	if nil != err {
		return err
	}
	if !overwrite {
		k, _ := b.Cursor().Seek(key)
		if nil != k && bytes.Equal(k, key) {
			return fault.ErrDuplicate
		}
	}

	// bbolt holds the slice until commit
	v := make([]byte, len(value))
	copy(v, value)
	return b.Put(key, v)
}

func (t *boltTransaction) Delete(key []byte) error {
	if !t.writable {
		return fault.ErrReadOnlyTransaction
	}
	b, err := t.bucket()
	if nil != err {
		return err
	}
	k, _ := b.Cursor().Seek(key)
	if nil == k || !bytes.Equal(k, key) {
		return fault.ErrNotFound
	}
	return b.Delete(key)
}

func (t *boltTransaction) Commit() error {
	if nil == t.tx {
		return fault.ErrTransactionClosed
	}
	tx := t.tx
	t.tx = nil

	if !t.writable {
		return tx.Rollback()
	}
	defer t.store.endWrite()

	if err := tx.Commit(); nil != err {
		t.store.log.Errorf("commit failed: %s", err)
		return err
	}
	return nil
}

func (t *boltTransaction) Abort() {
	if nil == t.tx {
		return
	}
	t.tx.Rollback()
	t.tx = nil
	if t.writable {
		t.store.endWrite()
	}
}

func (s *Bolt) endWrite() {
	s.Lock()
	s.writing = false
	s.Unlock()
}
