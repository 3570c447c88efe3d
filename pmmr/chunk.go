// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/util"
)

// leaf liveness in a chunk
const (
	chunkPruned byte = 0x00
	chunkLive   byte = 0x01
)

// tallest subtree a chunk may describe
const maximumChunkHeight = 32

// ChunkLeaf - one leaf of a chunk
type ChunkLeaf struct {
	Pruned bool
	Data   []byte
}

// Chunk - a parsed sync chunk
type Chunk struct {
	Position  uint64
	Height    uint
	FirstLeaf uint64
	Hashes    []merkle.Digest // post order
	Leaves    []ChunkLeaf
}

// ParseChunk - decode the output of SyncChunk
func ParseChunk(buffer []byte) (*Chunk, error) {
	u := util.NewUnpacker(buffer)

	position, err := u.Varint64()
	if nil != err {
		return nil, err
	}
	height, err := u.Byte()
	if nil != err {
		return nil, err
	}
	if height > maximumChunkHeight {
		return nil, fault.ErrInvalidChunk
	}
	firstLeaf, err := u.Varint64()
	if nil != err {
		return nil, err
	}

	n := node{
		position:  position,
		height:    uint(height),
		firstLeaf: firstLeaf,
	}
	if position+2 < 2<<n.height || LeafPosition(firstLeaf) != n.start() {
		return nil, fault.ErrInvalidChunk
	}

	c := &Chunk{
		Position:  position,
		Height:    n.height,
		FirstLeaf: firstLeaf,
	}

	// each entry needs at least one byte, so a bogus height fails here
	if uint64(u.Remaining()) < n.width()*merkle.DigestLength+n.leafCount() {
		return nil, fault.ErrChunkTruncated
	}

	c.Hashes = make([]merkle.Digest, n.width())
	for i := range c.Hashes {
		b, err := u.Fixed(merkle.DigestLength)
		if nil != err {
			return nil, err
		}
		copy(c.Hashes[i][:], b)
	}

	c.Leaves = make([]ChunkLeaf, n.leafCount())
	for i := range c.Leaves {
		flag, err := u.Byte()
		if nil != err {
			return nil, err
		}
		switch flag {
		case chunkPruned:
			c.Leaves[i].Pruned = true
		case chunkLive:
			data, err := u.Bytes()
			if nil != err {
				return nil, err
			}
			c.Leaves[i].Data = data
		default:
			return nil, fault.ErrInvalidChunk
		}
	}

	if 0 != u.Remaining() {
		return nil, fault.ErrInvalidChunk
	}
	return c, nil
}

// Root - hash of the subtree root
func (c *Chunk) Root() merkle.Digest {
	return c.Hashes[len(c.Hashes)-1]
}

// Verify - recompute the subtree and check it against a sync peak
//
// every live leaf must hash to its slot and every internal node to
// its children
func (c *Chunk) Verify(expected merkle.Digest) error {
	n := node{
		position:  c.Position,
		height:    c.Height,
		firstLeaf: c.FirstLeaf,
	}
	if uint64(len(c.Hashes)) != n.width() || uint64(len(c.Leaves)) != n.leafCount() {
		return fault.ErrInvalidChunk
	}
	if c.Root() != expected {
		return fault.ErrInvalidChunk
	}
	if !c.verify(n, n.start()) {
		return fault.ErrInvalidChunk
	}
	return nil
}

func (c *Chunk) verify(n node, start uint64) bool {
	stored := c.Hashes[n.position-start]
	if 0 == n.height {
		leaf := c.Leaves[n.firstLeaf-c.FirstLeaf]
		if leaf.Pruned {
			return true
		}
		return merkle.LeafDigest(n.position, leaf.Data) == stored
	}

	left, right := n.children()
	computed := merkle.NodeDigest(n.position, c.Hashes[left.position-start], c.Hashes[right.position-start])
	if computed != stored {
		return false
	}
	return c.verify(left, start) && c.verify(right, start)
}
