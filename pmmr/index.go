// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pmmr

import (
	"math/bits"
)

// MMRSize - number of nodes in a forest of n leaves
func MMRSize(leaves uint64) uint64 {
	return 2*leaves - uint64(bits.OnesCount64(leaves))
}

// LeafPosition - position of the leaf with a given index
func LeafPosition(leaf uint64) uint64 {
	return MMRSize(leaf)
}

// number of parents completed by appending leaf index n
func mergeCount(leaf uint64) int {
	return bits.TrailingZeros64(leaf + 1)
}

// a perfect subtree of the forest
type node struct {
	position  uint64 // root of the subtree
	height    uint   // 0 for a leaf
	firstLeaf uint64 // index of its leftmost leaf
}

// first position in the subtree
func (n node) start() uint64 {
	return n.position + 2 - (2 << n.height)
}

// number of positions in the subtree
func (n node) width() uint64 {
	return (2 << n.height) - 1
}

func (n node) leafCount() uint64 {
	return 1 << n.height
}

func (n node) children() (node, node) {
	h := n.height - 1
	left := node{
		position:  n.position - (1 << n.height),
		height:    h,
		firstLeaf: n.firstLeaf,
	}
	right := node{
		position:  n.position - 1,
		height:    h,
		firstLeaf: n.firstLeaf + (1 << h),
	}
	return left, right
}

// mountains - peaks of a forest of n leaves, tallest first
func mountains(leaves uint64) []node {
	peaks := make([]node, 0, bits.OnesCount64(leaves))
	offset := uint64(0)
	firstLeaf := uint64(0)
	for h := 63; h >= 0; h -= 1 {
		if 0 == leaves&(1<<uint(h)) {
			continue
		}
		n := node{
			position:  offset + (2 << uint(h)) - 2,
			height:    uint(h),
			firstLeaf: firstLeaf,
		}
		peaks = append(peaks, n)
		offset += n.width()
		firstLeaf += n.leafCount()
	}
	return peaks
}

// expand - the 2^depth descendants at the given depth, left to right
//
// a node shorter than depth is expanded as far as it goes
func expand(n node, depth uint) []node {
	if 0 == depth || 0 == n.height {
		return []node{n}
	}
	left, right := n.children()
	return append(expand(left, depth-1), expand(right, depth-1)...)
}

// tiered sync disclosure depth by mountain rank
func syncDepth(rank int) uint {
	switch rank {
	case 0:
		return 2
	case 1, 2:
		return 1
	default:
		return 0
	}
}

// syncNodes - the subtrees whose hashes make up the sync peaks
func syncNodes(leaves uint64) []node {
	result := make([]node, 0, 8)
	for rank, m := range mountains(leaves) {
		result = append(result, expand(m, syncDepth(rank))...)
	}
	return result
}

// path - the sibling positions from a leaf up to its peak,
// and whether the running node is a right child at each step
type step struct {
	sibling uint64
	isRight bool
}

func path(leaves uint64, leaf uint64) (node, []step, bool) {
	if leaf >= leaves {
		return node{}, nil, false
	}
	for _, m := range mountains(leaves) {
		if leaf < m.firstLeaf || leaf >= m.firstLeaf+m.leafCount() {
			continue
		}
		offset := leaf - m.firstLeaf
		position := LeafPosition(leaf)
		steps := make([]step, 0, m.height)
		for h := uint(0); h < m.height; h += 1 {
			span := uint64(2<<h) - 1
			if 0 != offset&(1<<h) {
				steps = append(steps, step{sibling: position - span, isRight: true})
				position += 1
			} else {
				steps = append(steps, step{sibling: position + span, isRight: false})
				position += span + 1
			}
		}
		return m, steps, true
	}
	return node{}, nil, false
}
