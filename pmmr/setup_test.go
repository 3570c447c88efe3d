// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/pmmr"
	"github.com/bitmark-inc/mwledger/storage"
)

const (
	testingDirName = "testing"
)

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func teardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

type fixture struct {
	ctx   *curve.Context
	store storage.Store
	mmr   *pmmr.PMMR
}

func setup(t *testing.T) *fixture {
	setupTestLogger()

	ctx, err := curve.NewSeeded([32]byte{'p', 'm', 'm', 'r'})
	if nil != err {
		t.Fatalf("context error: %s", err)
	}
	store, err := storage.NewMemoryLevelDB()
	if nil != err {
		t.Fatalf("store error: %s", err)
	}
	mmr, err := pmmr.Open(store)
	if nil != err {
		t.Fatalf("open error: %s", err)
	}
	return &fixture{
		ctx:   ctx,
		store: store,
		mmr:   mmr,
	}
}

func (f *fixture) teardown() {
	f.store.Close()
	f.ctx.Close()
	teardownTestLogger()
}

func item(i int) []byte {
	return []byte(fmt.Sprintf("output-%03d", i))
}

// append items [from, to) and commit, returning peaks after each size
func (f *fixture) appendRange(t *testing.T, from int, to int) map[uint64][]merkle.Digest {
	w, err := f.mmr.Writer()
	if nil != err {
		t.Fatalf("writer error: %s", err)
	}

	history := make(map[uint64][]merkle.Digest)
	for i := from; i < to; i += 1 {
		if _, err := w.Append(f.ctx, item(i)); nil != err {
			t.Fatalf("append: %d  error: %s", i, err)
		}
		peaks, err := w.Peaks()
		if nil != err {
			t.Fatalf("peaks: %d  error: %s", i, err)
		}
		history[w.Size()] = peaks
	}
	if err := w.Commit(); nil != err {
		t.Fatalf("commit error: %s", err)
	}
	return history
}

func (f *fixture) reader(t *testing.T) *pmmr.Reader {
	r, err := f.mmr.Reader()
	if nil != err {
		t.Fatalf("reader error: %s", err)
	}
	return r
}

func newTestContext(t *testing.T) *curve.Context {
	ctx, err := curve.NewSeeded([32]byte{'m', 'o', 'c', 'k'})
	if nil != err {
		t.Fatalf("context error: %s", err)
	}
	return ctx
}
