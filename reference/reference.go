// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reference - embedded curve reference data
//
// The value generator H is a nothing-up-my-sleeve point whose X
// coordinate is SHA-256 of the uncompressed generator G.  The bytes
// are verified against a SHA3-256 digest the first time they are
// used; a mismatch halts the process since every commitment checked
// afterwards would be checked against the wrong generator.
package reference

import (
	"bytes"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/mwledger/fault"
)

// uncompressed encoding of generator H: 0x04 ++ X ++ Y
var generatorH = []byte{
	0x04,
	0x50, 0x92, 0x9b, 0x74, 0xc1, 0xa0, 0x49, 0x54,
	0xb7, 0x8b, 0x4b, 0x60, 0x35, 0xe9, 0x7a, 0x5e,
	0x07, 0x8a, 0x5a, 0x0f, 0x28, 0xec, 0x96, 0xd5,
	0x47, 0xbf, 0xee, 0x9a, 0xce, 0x80, 0x3a, 0xc0,
	0x31, 0xd3, 0xc6, 0x86, 0x39, 0x73, 0x92, 0x6e,
	0x04, 0x9e, 0x63, 0x7c, 0xb1, 0xb5, 0xf4, 0x0a,
	0x36, 0xda, 0xc2, 0x8a, 0xf1, 0x76, 0x69, 0x68,
	0xc3, 0x0c, 0x23, 0x13, 0xf3, 0xa3, 0x89, 0x04,
}

// SHA3-256 of generatorH
var generatorHDigest = []byte{
	0xbb, 0x4c, 0x3b, 0x22, 0x9f, 0x81, 0xe4, 0xe8,
	0x6a, 0xdb, 0x8b, 0x4e, 0x04, 0xb4, 0x9a, 0x63,
	0x08, 0x14, 0x8e, 0xfb, 0x95, 0x70, 0xaf, 0x8f,
	0xf0, 0xb9, 0x4a, 0xf8, 0xab, 0x38, 0x42, 0xe5,
}

// set once, never re-verified
var globalData struct {
	sync.Mutex
	verified bool
	h        secp256k1.JacobianPoint
}

// GeneratorH - the value generator as a Jacobian point
//
// the first call verifies the embedded data
func GeneratorH() secp256k1.JacobianPoint {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.verified {
		globalData.h = verify(generatorH, generatorHDigest)
		globalData.verified = true
	}
	return globalData.h
}

// IsVerified - true once the reference data has been checked
func IsVerified() bool {
	globalData.Lock()
	defer globalData.Unlock()
	return globalData.verified
}

// check digest and curve membership, halt on any failure
func verify(data []byte, digest []byte) secp256k1.JacobianPoint {
	actual := sha3.Sum256(data)
	if !bytes.Equal(actual[:], digest) {
		fault.Panicf("reference generator digest: %x  expected: %x", actual, digest)
	}

	pub, err := secp256k1.ParsePubKey(data)
	if nil != err {
		fault.Panicf("reference generator is not on the curve: %s", err)
	}

	var p secp256k1.JacobianPoint
	pub.AsJacobian(&p)
	return p
}
