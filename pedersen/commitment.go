// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pedersen

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
)

// lengths of the two forms
const (
	CommitmentLength   = 33
	WorkingPointLength = 64
)

// prefixes of the serialised form
const (
	prefixResidue    = 0x08
	prefixNonResidue = 0x09
)

// Commitment - serialised commitment
type Commitment [CommitmentLength]byte

// WorkingPoint - decompressed commitment used for arithmetic
type WorkingPoint [WorkingPointLength]byte

// CommitmentFromBytes - validate a byte slice as a commitment
func CommitmentFromBytes(buffer []byte) (Commitment, error) {
	if CommitmentLength != len(buffer) {
		return Commitment{}, fault.ErrInvalidCommitment
	}
	var c Commitment
	copy(c[:], buffer)
	if _, err := Decompress(c); nil != err {
		return Commitment{}, err
	}
	return c, nil
}

// Decompress - recover X and Y from the serialised form
func Decompress(c Commitment) (WorkingPoint, error) {
	p, err := c.point()
	if nil != err {
		return WorkingPoint{}, err
	}
	var w WorkingPoint
	p.X.PutBytesUnchecked(w[0:32])
	p.Y.PutBytesUnchecked(w[32:64])
	return w, nil
}

// Compress - serialise a working point
func Compress(w WorkingPoint) (Commitment, error) {
	var x, y secp256k1.FieldVal
	if overflow := x.SetByteSlice(w[0:32]); overflow {
		return Commitment{}, fault.ErrSerialisationFailed
	}
	if overflow := y.SetByteSlice(w[32:64]); overflow {
		return Commitment{}, fault.ErrSerialisationFailed
	}
	if x.IsZero() && y.IsZero() {
		return Commitment{}, fault.ErrZeroValueCommitment
	}
	if !secp256k1.NewPublicKey(&x, &y).IsOnCurve() {
		return Commitment{}, fault.ErrSerialisationFailed
	}

	var c Commitment
	c[0] = residuePrefix(&y)
	x.PutBytesUnchecked(c[1:])
	return c, nil
}

// ToPublicKey - the commitment as a signature verification key
//
// a kernel excess is a commitment to zero, i.e. excess·G, so the
// same point is the public key for the excess blinding factor
func ToPublicKey(c Commitment) (key.PublicKey, error) {
	p, err := c.point()
	if nil != err {
		return key.PublicKey{}, fault.ErrInvalidPublicKey
	}
	return key.PublicKeyFromPoint(&p)
}

// FromPublicKey - reinterpret a public key as a commitment to zero
func FromPublicKey(pk key.PublicKey) (Commitment, error) {
	p, err := pk.Point()
	if nil != err {
		return Commitment{}, err
	}
	return fromPoint(&p)
}

// String - hex of the serialised form
func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalText - hex text
func (c Commitment) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(c))
	buffer := make([]byte, size)
	hex.Encode(buffer, c[:])
	return buffer, nil
}

// UnmarshalText - hex text to a validated commitment
func (c *Commitment) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	n, err := hex.Decode(buffer, s)
	if nil != err {
		return fault.ErrInvalidCommitment
	}
	commitment, err := CommitmentFromBytes(buffer[:n])
	if nil != err {
		return err
	}
	*c = commitment
	return nil
}

// decompress into a Jacobian point
func (c Commitment) point() (secp256k1.JacobianPoint, error) {
	var p secp256k1.JacobianPoint

	if prefixResidue != c[0] && prefixNonResidue != c[0] {
		return p, fault.ErrInvalidCommitment
	}

	var x, y secp256k1.FieldVal
	if overflow := x.SetByteSlice(c[1:]); overflow {
		return p, fault.ErrInvalidCommitment
	}
	if !secp256k1.DecompressY(&x, false, &y) {
		return p, fault.ErrInvalidCommitment
	}
	y.Normalize()

	if residuePrefix(&y) != c[0] {
		y.Negate(1).Normalize()
	}

	p.X.Set(&x)
	p.Y.Set(&y)
	p.Z.SetInt(1)
	return p, nil
}

// compress a Jacobian point
func fromPoint(p *secp256k1.JacobianPoint) (Commitment, error) {
	if key.IsInfinity(p) {
		return Commitment{}, fault.ErrZeroValueCommitment
	}
	a := *p
	a.ToAffine()
	a.X.Normalize()
	a.Y.Normalize()

	var c Commitment
	c[0] = residuePrefix(&a.Y)
	a.X.PutBytesUnchecked(c[1:])
	return c, nil
}

// select the prefix for a normalised Y
func residuePrefix(y *secp256k1.FieldVal) byte {
	var root secp256k1.FieldVal
	if root.SquareRootVal(y) {
		return prefixResidue
	}
	return prefixNonResidue
}
