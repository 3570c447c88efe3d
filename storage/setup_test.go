// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"

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

// every test runs against both implementations
type backend struct {
	name string
	open func(t *testing.T) storage.Store
}

var backends = []backend{
	{
		name: "leveldb",
		open: func(t *testing.T) storage.Store {
			s, err := storage.NewMemoryLevelDB()
			if nil != err {
				t.Fatalf("leveldb open error: %s", err)
			}
			return s
		},
	},
	{
		name: "bolt",
		open: func(t *testing.T) storage.Store {
			s, err := storage.NewBolt(filepath.Join(testingDirName, "test.bolt"), false)
			if nil != err {
				t.Fatalf("bolt open error: %s", err)
			}
			return s
		},
	},
}
