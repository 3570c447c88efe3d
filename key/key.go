// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package key - secp256k1 secret and public keys
//
// secret keys double as blinding factors, so the scalar arithmetic
// needed to sum and negate blinding factors lives here too
package key

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
)

// lengths of serialised keys
const (
	SecretKeyLength = 32
	PublicKeyLength = 33
)

// SecretKey - a scalar modulo the group order
//
// the zero value is not a valid key
type SecretKey [SecretKeyLength]byte

// PublicKey - compressed curve point
type PublicKey [PublicKeyLength]byte

// GenerateSecretKey - draw a random secret key from the context RNG
func GenerateSecretKey(ctx *curve.Context) (SecretKey, error) {
	s, err := ctx.RandomScalar()
	if nil != err {
		return SecretKey{}, err
	}
	return secretFromScalar(&s), nil
}

// SecretKeyFromBytes - validate and convert a byte slice
func SecretKeyFromBytes(buffer []byte) (SecretKey, error) {
	if SecretKeyLength != len(buffer) {
		return SecretKey{}, fault.ErrInvalidSecretKey
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(buffer); overflow || s.IsZero() {
		return SecretKey{}, fault.ErrInvalidSecretKey
	}
	return secretFromScalar(&s), nil
}

// SecretKeyFromUint64 - small scalar, mainly for tests and values
func SecretKeyFromUint64(n uint64) SecretKey {
	var s secp256k1.ModNScalar
	var b [32]byte
	b[24] = byte(n >> 56)
	b[25] = byte(n >> 48)
	b[26] = byte(n >> 40)
	b[27] = byte(n >> 32)
	b[28] = byte(n >> 24)
	b[29] = byte(n >> 16)
	b[30] = byte(n >> 8)
	b[31] = byte(n)
	s.SetBytes(&b)
	return secretFromScalar(&s)
}

// Scalar - the key as a scalar
func (sk SecretKey) Scalar() secp256k1.ModNScalar {
	var s secp256k1.ModNScalar
	b := [32]byte(sk)
	s.SetBytes(&b)
	return s
}

// IsZero - true for the zero scalar, which is never a valid key
func (sk SecretKey) IsZero() bool {
	s := sk.Scalar()
	return s.IsZero()
}

// Add - sum of two blinding factors
func (sk SecretKey) Add(other SecretKey) SecretKey {
	a := sk.Scalar()
	b := other.Scalar()
	a.Add(&b)
	return secretFromScalar(&a)
}

// Negate - additive inverse of a blinding factor
func (sk SecretKey) Negate() SecretKey {
	a := sk.Scalar()
	a.Negate()
	return secretFromScalar(&a)
}

// Wipe - clear the key material
func (sk *SecretKey) Wipe() {
	for i := range sk {
		sk[i] = 0
	}
}

// String - never print key material
func (sk SecretKey) String() string {
	return "<secret>"
}

// GoString - never print key material
func (sk SecretKey) GoString() string {
	return "<secret>"
}

// PublicKeyFromSecret - the point secret·G
func PublicKeyFromSecret(ctx *curve.Context, sk SecretKey) (PublicKey, error) {
	if err := ctx.Alive(); nil != err {
		return PublicKey{}, err
	}
	if sk.IsZero() {
		return PublicKey{}, fault.ErrInvalidSecretKey
	}
	s := sk.Scalar()
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s, &p)
	return PublicKeyFromPoint(&p)
}

// PublicKeyFromBytes - validate and convert a compressed point
func PublicKeyFromBytes(buffer []byte) (PublicKey, error) {
	if PublicKeyLength != len(buffer) {
		return PublicKey{}, fault.ErrInvalidPublicKey
	}
	if _, err := secp256k1.ParsePubKey(buffer); nil != err {
		return PublicKey{}, fault.ErrInvalidPublicKey
	}
	var pk PublicKey
	copy(pk[:], buffer)
	return pk, nil
}

// PublicKeyFromPoint - compress a Jacobian point
func PublicKeyFromPoint(p *secp256k1.JacobianPoint) (PublicKey, error) {
	if IsInfinity(p) {
		return PublicKey{}, fault.ErrInvalidPublicKey
	}
	a := *p
	a.ToAffine()
	a.X.Normalize()
	a.Y.Normalize()
	pub := secp256k1.NewPublicKey(&a.X, &a.Y)
	var pk PublicKey
	copy(pk[:], pub.SerializeCompressed())
	return pk, nil
}

// Point - decompress to a Jacobian point
func (pk PublicKey) Point() (secp256k1.JacobianPoint, error) {
	var p secp256k1.JacobianPoint
	pub, err := secp256k1.ParsePubKey(pk[:])
	if nil != err {
		return p, fault.ErrInvalidPublicKey
	}
	pub.AsJacobian(&p)
	return p, nil
}

// String - hex of the compressed point
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// MarshalText - hex text
func (pk PublicKey) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(pk))
	buffer := make([]byte, size)
	hex.Encode(buffer, pk[:])
	return buffer, nil
}

// UnmarshalText - hex text to a validated public key
func (pk *PublicKey) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	n, err := hex.Decode(buffer, s)
	if nil != err {
		return fault.ErrInvalidPublicKey
	}
	k, err := PublicKeyFromBytes(buffer[:n])
	if nil != err {
		return err
	}
	*pk = k
	return nil
}

// IsInfinity - the point at infinity has no affine form
func IsInfinity(p *secp256k1.JacobianPoint) bool {
	x, y, z := p.X, p.Y, p.Z
	x.Normalize()
	y.Normalize()
	z.Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

func secretFromScalar(s *secp256k1.ModNScalar) SecretKey {
	return SecretKey(s.Bytes())
}
