// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pedersen

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/reference"
)

// Commit - value·H + blind·G
func Commit(ctx *curve.Context, value uint64, blind key.SecretKey) (Commitment, error) {
	if err := ctx.Alive(); nil != err {
		return Commitment{}, err
	}
	return CommitBlind(value, blind)
}

// CommitBlind - value·H + blind·G without a context
//
// for verification paths that rebuild a known commitment
func CommitBlind(value uint64, blind key.SecretKey) (Commitment, error) {
	v := key.SecretKeyFromUint64(value).Scalar()
	b := blind.Scalar()

	var vh, bg, sum secp256k1.JacobianPoint
	h := reference.GeneratorH()
	secp256k1.ScalarMultNonConst(&v, &h, &vh)
	secp256k1.ScalarBaseMultNonConst(&b, &bg)
	secp256k1.AddNonConst(&vh, &bg, &sum)

	return fromPoint(&sum)
}

// CommitValue - value·H with no blinding
//
// used for the public fee term of a balance check
func CommitValue(value uint64) (Commitment, error) {
	v := key.SecretKeyFromUint64(value).Scalar()

	var vh secp256k1.JacobianPoint
	h := reference.GeneratorH()
	secp256k1.ScalarMultNonConst(&v, &h, &vh)

	return fromPoint(&vh)
}

// Add - homomorphic addition of two commitments
func Add(a Commitment, b Commitment) (Commitment, error) {
	pa, err := a.point()
	if nil != err {
		return Commitment{}, err
	}
	pb, err := b.point()
	if nil != err {
		return Commitment{}, err
	}

	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&pa, &pb, &sum)
	return fromPoint(&sum)
}

// Negate - the commitment to -value with -blind
//
// negating Y flips its residuosity, so only the prefix changes
func Negate(c Commitment) (Commitment, error) {
	if _, err := c.point(); nil != err {
		return Commitment{}, err
	}
	n := c
	if prefixResidue == c[0] {
		n[0] = prefixNonResidue
	} else {
		n[0] = prefixResidue
	}
	return n, nil
}

// Sum - Σpositive - Σnegative
//
// a result of the point at infinity is returned as
// ErrZeroValueCommitment, callers comparing sums should use Equal
func Sum(positive []Commitment, negative []Commitment) (Commitment, error) {
	p, err := sumPoint(positive, negative)
	if nil != err {
		return Commitment{}, err
	}
	return fromPoint(&p)
}

// Equal - check Σleft == Σright, including the case where both are zero
func Equal(left []Commitment, right []Commitment) (bool, error) {
	p, err := sumPoint(left, right)
	if nil != err {
		return false, err
	}
	return key.IsInfinity(&p), nil
}

// accumulate a signed sum as a Jacobian point
func sumPoint(positive []Commitment, negative []Commitment) (secp256k1.JacobianPoint, error) {
	var total secp256k1.JacobianPoint

	for _, c := range positive {
		p, err := c.point()
		if nil != err {
			return total, err
		}
		var next secp256k1.JacobianPoint
		secp256k1.AddNonConst(&total, &p, &next)
		total = next
	}

	for _, c := range negative {
		p, err := c.point()
		if nil != err {
			return total, err
		}
		p.Y.Negate(1).Normalize()
		var next secp256k1.JacobianPoint
		secp256k1.AddNonConst(&total, &p, &next)
		total = next
	}

	if key.IsInfinity(&total) {
		return total, nil
	}
	total.ToAffine()
	return total, nil
}
