// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ecdh - shared secrets between transaction participants
//
// The secret only protects the interactive exchange used to build a
// transaction, it never takes part in the balance proof.
package ecdh

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
)

// SharedSecretLength - bytes in a shared secret
const SharedSecretLength = 32

// SharedSecret - symmetric key from ECDH
type SharedSecret [SharedSecretLength]byte

// NewSharedSecret - SHA-256 of the compressed point local·remote
func NewSharedSecret(ctx *curve.Context, remote key.PublicKey, local key.SecretKey) (SharedSecret, error) {
	if err := ctx.Alive(); nil != err {
		return SharedSecret{}, err
	}

	p, err := remote.Point()
	if nil != err {
		return SharedSecret{}, fault.ErrOperationFailed
	}
	if local.IsZero() {
		return SharedSecret{}, fault.ErrOperationFailed
	}

	s := local.Scalar()
	var shared secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s, &p, &shared)

	compressed, err := key.PublicKeyFromPoint(&shared)
	if nil != err {
		return SharedSecret{}, fault.ErrOperationFailed
	}
	return SharedSecret(sha256.Sum256(compressed[:])), nil
}

// Equal - constant time comparison, for tests and debugging only
func (s SharedSecret) Equal(other SharedSecret) bool {
	return 1 == subtle.ConstantTimeCompare(s[:], other[:])
}

// String - never print the secret
func (s SharedSecret) String() string {
	return "<shared-secret>"
}

// GoString - never print the secret
func (s SharedSecret) GoString() string {
	return "<shared-secret>"
}

// Wipe - clear the secret
func (s *SharedSecret) Wipe() {
	for i := range s {
		s[i] = 0
	}
}
