// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - transactional key/value stores
//
// A store hands out one write transaction at a time and any number
// of read transactions. A read transaction sees a stable snapshot
// taken when it began, a write transaction sees its own uncommitted
// changes and nothing of it is visible to others until Commit.
//
// Keys are split into pools by a single prefix byte:
//
//   0x00 ++ "VERSION"     - store layout version (big endian uint32)
//
// the remaining prefixes are assigned by the users of the store
// (see pmmr and ledger)
//
// Two implementations are provided:
//
//   LevelDB  - goleveldb; snapshots for reads, batch + cache for writes
//   Bolt     - bbolt; native MVCC transactions in a single bucket
package storage
