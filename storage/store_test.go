// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/storage"
)

const pool = storage.Pool('Z')

func TestPutGetCommit(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)

		w, err := s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)

		assert.Nil(t, w.Put(pool.Key([]byte("one")), []byte("data-one"), false), "%s: put", b.name)

		value, found, err := w.Get(pool.Key([]byte("one")))
		assert.Nil(t, err, "%s: get", b.name)
		assert.True(t, found, "%s: own write visible", b.name)
		assert.Equal(t, []byte("data-one"), value, "%s: value", b.name)

		_, found, err = w.Get(pool.Key([]byte("two")))
		assert.Nil(t, err, "%s: get missing", b.name)
		assert.False(t, found, "%s: missing key", b.name)

		assert.Nil(t, w.Commit(), "%s: commit", b.name)
		assert.Equal(t, fault.ErrTransactionClosed, w.Commit(), "%s: second commit", b.name)

		r, err := s.BeginRead()
		assert.Nil(t, err, "%s: begin read", b.name)
		value, found, err = r.Get(pool.Key([]byte("one")))
		assert.Nil(t, err, "%s: read", b.name)
		assert.True(t, found, "%s: committed", b.name)
		assert.Equal(t, []byte("data-one"), value, "%s: committed value", b.name)
		r.Abort()

		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestPutKeepsValue(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)

		w, err := s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)

		// one buffer reused for every put
		buffer := []byte("value-0")
		for i := byte(0); i < 3; i += 1 {
			buffer[6] = '0' + i
			assert.Nil(t, w.Put(pool.Key([]byte{i}), buffer, false), "%s: put %d", b.name, i)
		}
		assert.Nil(t, w.Commit(), "%s: commit", b.name)

		r, err := s.BeginRead()
		assert.Nil(t, err, "%s: begin read", b.name)
		for i := byte(0); i < 3; i += 1 {
			value, found, err := r.Get(pool.Key([]byte{i}))
			assert.Nil(t, err, "%s: get %d", b.name, i)
			assert.True(t, found, "%s: found %d", b.name, i)
			assert.Equal(t, []byte{'v', 'a', 'l', 'u', 'e', '-', '0' + i}, value, "%s: value %d", b.name, i)
		}
		r.Abort()

		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestDuplicateAndOverwrite(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)

		w, err := s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)

		k := pool.Key([]byte("k"))
		assert.Nil(t, w.Put(k, []byte{1}, false), "%s: first put", b.name)
		assert.Equal(t, fault.ErrDuplicate, w.Put(k, []byte{2}, false), "%s: duplicate", b.name)
		assert.Nil(t, w.Put(k, []byte{3}, true), "%s: overwrite", b.name)

		value, _, err := w.Get(k)
		assert.Nil(t, err, "%s: get", b.name)
		assert.Equal(t, []byte{3}, value, "%s: overwritten value", b.name)

		assert.Nil(t, w.Delete(k), "%s: delete", b.name)
		assert.Equal(t, fault.ErrNotFound, w.Delete(k), "%s: delete twice", b.name)

		_, found, err := w.Get(k)
		assert.Nil(t, err, "%s: get deleted", b.name)
		assert.False(t, found, "%s: deleted", b.name)

		assert.Nil(t, w.Put(k, []byte{4}, false), "%s: put after delete", b.name)
		assert.Nil(t, w.Commit(), "%s: commit", b.name)
		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestAbortDiscards(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)

		w, err := s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)
		assert.Nil(t, storage.PutN(w, pool.NKey(7), 42), "%s: put", b.name)
		w.Abort()
		w.Abort()

		w, err = s.BeginWrite()
		assert.Nil(t, err, "%s: writer released by abort", b.name)
		_, found, err := storage.GetN(w, pool.NKey(7))
		assert.Nil(t, err, "%s: get", b.name)
		assert.False(t, found, "%s: aborted write", b.name)
		w.Abort()

		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestSingleWriter(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)

		w, err := s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)

		_, err = s.BeginWrite()
		assert.Equal(t, fault.ErrTransactionInUse, err, "%s: second writer", b.name)
		assert.True(t, fault.IsErrState(err), "%s: state error", b.name)

		assert.Nil(t, w.Commit(), "%s: commit", b.name)

		w, err = s.BeginWrite()
		assert.Nil(t, err, "%s: writer after commit", b.name)
		w.Abort()

		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestReadOnlyTransaction(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)

		r, err := s.BeginRead()
		assert.Nil(t, err, "%s: begin read", b.name)

		err = r.Put(pool.Key([]byte("x")), []byte{1}, true)
		assert.Equal(t, fault.ErrReadOnlyTransaction, err, "%s: put", b.name)
		assert.True(t, fault.IsErrState(err), "%s: put is a state error", b.name)
		assert.Equal(t, fault.ErrReadOnlyTransaction, r.Delete(pool.Key([]byte("x"))), "%s: delete", b.name)
		assert.Nil(t, r.Commit(), "%s: commit read", b.name)

		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	for _, b := range backends {
		s := b.open(t)
		k := pool.NKey(1)

		w, err := s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)
		assert.Nil(t, storage.PutN(w, k, 1), "%s: put", b.name)
		assert.Nil(t, w.Commit(), "%s: commit", b.name)

		r, err := s.BeginRead()
		assert.Nil(t, err, "%s: begin read", b.name)

		w, err = s.BeginWrite()
		assert.Nil(t, err, "%s: begin write", b.name)
		assert.Nil(t, storage.PutN(w, k, 2), "%s: put", b.name)
		assert.Nil(t, w.Commit(), "%s: commit", b.name)

		n, found, err := storage.GetN(r, k)
		assert.Nil(t, err, "%s: get", b.name)
		assert.True(t, found, "%s: found", b.name)
		assert.Equal(t, uint64(1), n, "%s: reader sees its snapshot", b.name)
		r.Abort()

		r, err = s.BeginRead()
		assert.Nil(t, err, "%s: begin read", b.name)
		n, _, err = storage.GetN(r, k)
		assert.Nil(t, err, "%s: get", b.name)
		assert.Equal(t, uint64(2), n, "%s: new reader sees commit", b.name)
		r.Abort()

		assert.Nil(t, s.Close(), "%s: close", b.name)
	}
}

func TestCorruptNumber(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	s := backends[0].open(t)
	defer s.Close()

	w, err := s.BeginWrite()
	assert.Nil(t, err, "begin write")
	defer w.Abort()

	assert.Nil(t, w.Put(pool.NKey(3), []byte{1, 2, 3}, false), "put")
	_, _, err = storage.GetN(w, pool.NKey(3))
	assert.Equal(t, fault.ErrStoreCorrupt, err, "short record")
}

func TestPoolKeys(t *testing.T) {
	assert.Equal(t, []byte{'Z', 'a', 'b'}, pool.Key([]byte("ab")), "key")
	assert.Equal(t, []byte{'Z', 0, 0, 0, 0, 0, 0, 1, 0}, pool.NKey(256), "nkey")
}

func TestOpenByBackendName(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	assert.True(t, storage.ValidBackend("LevelDB"), "case insensitive")
	assert.False(t, storage.ValidBackend("sqlite"), "unknown backend")

	s, err := storage.Open("bolt", filepath.Join(testingDirName, "open.bolt"), false)
	assert.Nil(t, err, "open bolt")
	assert.Nil(t, s.Close(), "close bolt")

	s, err = storage.Open("leveldb", filepath.Join(testingDirName, "open.leveldb"), false)
	assert.Nil(t, err, "open leveldb")
	assert.Nil(t, s.Close(), "close leveldb")

	_, err = storage.Open("sqlite", filepath.Join(testingDirName, "open.db"), false)
	assert.Equal(t, fault.ErrInvalidBackend, err, "unknown backend")
}
