// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kernel

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
)

// lengths
const (
	MessageLength   = 32
	SignatureLength = 64
)

// Message - the 32 byte value that is signed
type Message [MessageLength]byte

// Signature - R.x ++ s
type Signature [SignatureLength]byte

// String - hex of the signature
func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// MarshalText - hex text
func (s Signature) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(s)))
	hex.Encode(buffer, s[:])
	return buffer, nil
}

// UnmarshalText - hex text of exactly 64 bytes
func (s *Signature) UnmarshalText(text []byte) error {
	if hex.DecodedLen(len(text)) != SignatureLength {
		return fault.ErrInvalidSignature
	}
	if _, err := hex.Decode(s[:], text); nil != err {
		return fault.ErrInvalidSignature
	}
	return nil
}

// String - hex of the message
func (m Message) String() string {
	return hex.EncodeToString(m[:])
}

// Sign - Schnorr signature by secret over message
//
// the nonce is drawn from the context RNG
func Sign(ctx *curve.Context, secret key.SecretKey, message Message) (Signature, error) {
	if secret.IsZero() {
		return Signature{}, fault.ErrInvalidSecretKey
	}
	pub, err := key.PublicKeyFromSecret(ctx, secret)
	if nil != err {
		return Signature{}, err
	}

	k, err := ctx.RandomScalar()
	if nil != err {
		return Signature{}, err
	}
	defer k.Zero()

	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &r)
	r.ToAffine()
	r.X.Normalize()
	r.Y.Normalize()
	if r.Y.IsOdd() {
		k.Negate()
	}

	var rx [32]byte
	r.X.PutBytes(&rx)

	e := challenge(rx[:], pub, message)

	x := secret.Scalar()
	defer x.Zero()

	// s = k + e·x
	s := new(secp256k1.ModNScalar).Mul2(&e, &x).Add(&k)

	var sig Signature
	copy(sig[:32], rx[:])
	sb := s.Bytes()
	copy(sig[32:], sb[:])
	return sig, nil
}

// VerifySignature - check a Schnorr signature
//
// needs no RNG so it is safe to call concurrently
func VerifySignature(pub key.PublicKey, message Message, sig Signature) error {
	p, err := pub.Point()
	if nil != err {
		return fault.ErrInvalidPublicKey
	}

	var rx secp256k1.FieldVal
	if overflow := rx.SetByteSlice(sig[:32]); overflow {
		return fault.ErrInvalidSignature
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return fault.ErrInvalidSignature
	}

	e := challenge(sig[:32], pub, message)

	// R = s·G - e·P
	var sg, ep, r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s, &sg)
	secp256k1.ScalarMultNonConst(&e, &p, &ep)
	ep.ToAffine()
	ep.Y.Normalize()
	ep.Y.Negate(1).Normalize()
	secp256k1.AddNonConst(&sg, &ep, &r)

	if key.IsInfinity(&r) {
		return fault.ErrInvalidSignature
	}
	r.ToAffine()
	r.X.Normalize()
	r.Y.Normalize()

	if r.Y.IsOdd() || !r.X.Equals(&rx) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// e = SHA3-256(R.x ++ P ++ message) mod n
func challenge(rx []byte, pub key.PublicKey, message Message) secp256k1.ModNScalar {
	h := sha3.New256()
	h.Write(rx)
	h.Write(pub[:])
	h.Write(message[:])

	var e secp256k1.ModNScalar
	e.SetByteSlice(h.Sum(nil))
	return e
}
