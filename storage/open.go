// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"

	"github.com/bitmark-inc/mwledger/fault"
)

// backend names accepted by Open
const (
	BackendLevelDB = "leveldb"
	BackendBolt    = "bolt"
)

// ValidBackend - true if the name selects a known backend
func ValidBackend(backend string) bool {
	switch strings.ToLower(backend) {
	case BackendLevelDB, BackendBolt:
		return true
	default:
		return false
	}
}

// Open - open the named backend at the given path
func Open(backend string, name string, readOnly bool) (Store, error) {
	var s Store
	var err error
	switch strings.ToLower(backend) {
	case BackendLevelDB:
		s, err = NewLevelDB(name, readOnly)
	case BackendBolt:
		s, err = NewBolt(name, readOnly)
	default:
		return nil, fault.ErrInvalidBackend
	}
	if nil != err {
		return nil, err
	}
	return s, nil
}
