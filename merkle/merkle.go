// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"encoding/binary"
)

// domain tags keep leaves, nodes and roots from colliding
const (
	tagLeaf byte = 0x00
	tagNode byte = 0x01
	tagRoot byte = 0x02
)

// LeafDigest - hash of a leaf bound to its position
//
// structure is:
//   0x00 ++ position(8 bytes BE) ++ data
func LeafDigest(position uint64, data []byte) Digest {
	record := make([]byte, 9, 9+len(data))
	record[0] = tagLeaf
	binary.BigEndian.PutUint64(record[1:], position)
	return NewDigest(append(record, data...))
}

// NodeDigest - hash of an internal node bound to its position
//
// structure is:
//   0x01 ++ position(8 bytes BE) ++ left ++ right
func NodeDigest(position uint64, left Digest, right Digest) Digest {
	record := make([]byte, 9, 9+2*DigestLength)
	record[0] = tagNode
	binary.BigEndian.PutUint64(record[1:], position)
	record = append(record, left[:]...)
	return NewDigest(append(record, right[:]...))
}

// BagPeaks - single root over the peaks and the leaf count
//
// structure is:
//   0x02 ++ leaves(8 bytes BE) ++ peak[0] ++ … ++ peak[n-1]
func BagPeaks(leaves uint64, peaks []Digest) Digest {
	record := make([]byte, 9, 9+len(peaks)*DigestLength)
	record[0] = tagRoot
	binary.BigEndian.PutUint64(record[1:], leaves)
	for _, p := range peaks {
		record = append(record, p[:]...)
	}
	return NewDigest(record)
}
