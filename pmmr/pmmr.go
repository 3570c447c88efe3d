// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/storage"
)

// store pools
const (
	hashPool   = storage.Pool('H')
	dataPool   = storage.Pool('D')
	prunedPool = storage.Pool('P')
	sizePool   = storage.Pool('S')
)

var prunedMarker = []byte{0x01}

// PMMR - a forest bound to a transactional store
type PMMR struct {
	sync.Mutex
	log        *logger.L
	store      storage.Store
	writerOpen bool
}

// Open - bind a PMMR to a store and check the stored frontier
func Open(store storage.Store) (*PMMR, error) {
	m := &PMMR{
		log:   logger.New("pmmr"),
		store: store,
	}

	r, err := m.Reader()
	if nil != err {
		return nil, err
	}
	defer r.Close()

	if 0 != r.size {
		if _, err := r.Peaks(); nil != err {
			m.log.Criticalf("stored frontier of %d leaves is incomplete: %s", r.size, err)
			return nil, fault.ErrStoreCorrupt
		}
	}

	m.log.Infof("opened with %d leaves", r.size)
	return m, nil
}

// Writer - the single writable view
func (m *PMMR) Writer() (*Writer, error) {
	m.Lock()
	defer m.Unlock()

	if m.writerOpen {
		return nil, fault.ErrWriterAlreadyOpen
	}

	trx, err := m.store.BeginWrite()
	if nil != err {
		return nil, err
	}

	size, _, err := storage.GetN(trx, sizePool.Key(nil))
	if nil != err {
		trx.Abort()
		return nil, err
	}

	m.writerOpen = true
	return &Writer{
		view: view{
			log:  m.log,
			trx:  trx,
			size: size,
		},
		owner: m,
	}, nil
}

// Reader - a read only view on a snapshot of the committed forest
func (m *PMMR) Reader() (*Reader, error) {
	trx, err := m.store.BeginRead()
	if nil != err {
		return nil, err
	}

	size, _, err := storage.GetN(trx, sizePool.Key(nil))
	if nil != err {
		trx.Abort()
		return nil, err
	}

	return &Reader{
		view: view{
			log:  m.log,
			trx:  trx,
			size: size,
		},
	}, nil
}

func (m *PMMR) releaseWriter() {
	m.Lock()
	m.writerOpen = false
	m.Unlock()
}
