// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/fault"
)

// LevelDB - store backed by goleveldb
type LevelDB struct {
	sync.Mutex
	log     *logger.L
	db      *leveldb.DB
	writing bool
}

// NewLevelDB - open or create a LevelDB store in a directory
func NewLevelDB(name string, readOnly bool) (*LevelDB, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return newLevelDB(db, name)
}

// NewMemoryLevelDB - LevelDB store held entirely in memory
func NewMemoryLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newLevelDB(db, "memory")
}

func newLevelDB(db *leveldb.DB, name string) (*LevelDB, error) {
	s := &LevelDB{
		log: logger.New("storage"),
		db:  db,
	}
	if err := checkVersion(s); nil != err {
		db.Close()
		return nil, err
	}
	s.log.Infof("opened leveldb: %s", name)
	return s, nil
}

// Close - close the database
func (s *LevelDB) Close() error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// BeginRead - transaction reading a snapshot of the committed data
func (s *LevelDB) BeginRead() (Transaction, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	snapshot, err := s.db.GetSnapshot()
	if nil != err {
		return nil, err
	}
	return &levelRead{
		snapshot: snapshot,
	}, nil
}

// BeginWrite - the single write transaction
func (s *LevelDB) BeginWrite() (Transaction, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	if s.writing {
		return nil, fault.ErrTransactionInUse
	}

	snapshot, err := s.db.GetSnapshot()
	if nil != err {
		return nil, err
	}
	s.writing = true

	return &levelWrite{
		store: s,
		levelRead: levelRead{
			snapshot: snapshot,
		},
		batch: new(leveldb.Batch),
		cache: newCache(),
	}, nil
}

func (s *LevelDB) endWrite() {
	s.Lock()
	s.writing = false
	s.Unlock()
}

type levelRead struct {
	snapshot *leveldb.Snapshot
}

func (r *levelRead) Get(key []byte) ([]byte, bool, error) {
	if nil == r.snapshot {
		return nil, false, fault.ErrTransactionClosed
	}
	value, err := r.snapshot.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, err
	}
	return value, true, nil
}

func (r *levelRead) Put(key []byte, value []byte, overwrite bool) error {
	return fault.ErrReadOnlyTransaction
}

func (r *levelRead) Delete(key []byte) error {
	return fault.ErrReadOnlyTransaction
}

// a read transaction has nothing to commit
func (r *levelRead) Commit() error {
	if nil == r.snapshot {
		return fault.ErrTransactionClosed
	}
	r.Abort()
	return nil
}

func (r *levelRead) Abort() {
	if nil != r.snapshot {
		r.snapshot.Release()
		r.snapshot = nil
	}
}

type levelWrite struct {
	levelRead
	store *LevelDB
	batch *leveldb.Batch
	cache *dbCache
}

func (w *levelWrite) Get(key []byte) ([]byte, bool, error) {
	if nil == w.snapshot {
		return nil, false, fault.ErrTransactionClosed
	}
	value, op, found := w.cache.Get(string(key))
	if found {
		return value, dbPut == op, nil
	}
	return w.levelRead.Get(key)
}

func (w *levelWrite) Put(key []byte, value []byte, overwrite bool) error {
	if !overwrite {
		_, found, err := w.Get(key)
		if nil != err {
			return err
		}
		if found {
			return fault.ErrDuplicate
		}
	} else if nil == w.snapshot {
		return fault.ErrTransactionClosed
	}

	v := make([]byte, len(value))
	copy(v, value)

	w.batch.Put(key, v)
	w.cache.Set(dbPut, string(key), v)
	return nil
}

func (w *levelWrite) Delete(key []byte) error {
	_, found, err := w.Get(key)
	if nil != err {
		return err
	}
	if !found {
		return fault.ErrNotFound
	}
	w.batch.Delete(key)
	w.cache.Set(dbDelete, string(key), nil)
	return nil
}

func (w *levelWrite) Commit() error {
	if nil == w.snapshot {
		return fault.ErrTransactionClosed
	}
	defer w.Abort()

	err := w.store.db.Write(w.batch, &ldb_opt.WriteOptions{Sync: true})
	if nil != err {
		w.store.log.Errorf("commit of %d records failed: %s", w.batch.Len(), err)
		return err
	}
	w.store.log.Debugf("committed %d records", w.batch.Len())
	return nil
}

func (w *levelWrite) Abort() {
	if nil == w.snapshot {
		return
	}
	w.levelRead.Abort()
	w.batch.Reset()
	w.cache.Clear()
	w.store.endWrite()
}
