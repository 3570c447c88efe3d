// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pmmr - prunable Merkle Mountain Range over transaction outputs
//
// Nodes are numbered from zero in post order, which is also the order
// they are appended. Each node is a hash slot in the store keyed by
// its position; a slot is written once and never changes until a hard
// rewind removes it.
//
//   leaf i        is at position  MMRSize(i)
//   parent of height h at p has   left = p - 2^h   right = p - 1
//
// Store layout (single byte pool prefix):
//
//   H ++ position(8 bytes BE)   - node hash (32 bytes)
//   D ++ leaf index             - leaf data, removed by prune
//   P ++ leaf index             - prune marker
//   S                           - leaf count (8 bytes BE)
//
// A PMMR hands out one Writer at a time and any number of Readers.
// A Reader works on a store snapshot and its SoftRewind only changes
// the size seen by that Reader.
package pmmr
