// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kernel

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/pedersen"
)

// Features - kernel feature flags
type Features uint8

// possible features
const (
	Plain        Features = 0x00
	Coinbase     Features = 0x01
	HeightLocked Features = 0x02
)

// PackedLength - bytes in a packed kernel
const PackedLength = pedersen.CommitmentLength + SignatureLength + 8 + 1

// Kernel - the proof object of a transaction
type Kernel struct {
	Excess    pedersen.Commitment `json:"excess"`
	Signature Signature           `json:"signature"`
	Fee       uint64              `json:"fee"`
	Features  Features            `json:"features"`
}

// MessageFor - SHA3-256(excess ++ fee(8 bytes BE) ++ features)
//
// every verifier must derive the same bytes from the same kernel
func MessageFor(excess pedersen.Commitment, fee uint64, features Features) Message {
	record := make([]byte, 0, pedersen.CommitmentLength+9)
	record = append(record, excess[:]...)
	record = binary.BigEndian.AppendUint64(record, fee)
	record = append(record, byte(features))
	return Message(sha3.Sum256(record))
}

// New - build a kernel for an excess blinding factor and sign it
func New(ctx *curve.Context, excessBlind key.SecretKey, fee uint64, features Features) (*Kernel, error) {
	excess, err := pedersen.Commit(ctx, 0, excessBlind)
	if nil != err {
		return nil, err
	}

	k := &Kernel{
		Excess:   excess,
		Fee:      fee,
		Features: features,
	}
	if err := k.Sign(ctx, excessBlind); nil != err {
		return nil, err
	}
	return k, nil
}

// Message - the signing message for this kernel
func (k *Kernel) Message() Message {
	return MessageFor(k.Excess, k.Fee, k.Features)
}

// Sign - replace the signature with one by the excess blinding factor
//
// needed after Merge, which leaves the signature unchanged
func (k *Kernel) Sign(ctx *curve.Context, excessBlind key.SecretKey) error {
	sig, err := Sign(ctx, excessBlind, k.Message())
	if nil != err {
		return err
	}
	k.Signature = sig
	return nil
}

// Verify - check the signature against the excess
//
// a malformed excess is an InvalidError, a bad signature a
// ValidationError, so callers can tell a protocol violation from a
// rejected transaction
func (k *Kernel) Verify(ctx *curve.Context) error {
	if err := ctx.Alive(); nil != err {
		return err
	}
	pub, err := pedersen.ToPublicKey(k.Excess)
	if nil != err {
		return fault.ErrInvalidPublicKey
	}
	return VerifySignature(pub, k.Message(), k.Signature)
}

// Merge - add the other kernel's excess into this one
//
// fee, features and signature are left to the caller
func (k *Kernel) Merge(ctx *curve.Context, other *Kernel) error {
	if err := ctx.Alive(); nil != err {
		return err
	}
	excess, err := pedersen.Add(k.Excess, other.Excess)
	if nil != err {
		return err
	}
	k.Excess = excess
	return nil
}

// Pack - binary form of a kernel
func (k *Kernel) Pack() []byte {
	buffer := make([]byte, 0, PackedLength)
	buffer = append(buffer, k.Excess[:]...)
	buffer = append(buffer, k.Signature[:]...)
	buffer = binary.BigEndian.AppendUint64(buffer, k.Fee)
	return append(buffer, byte(k.Features))
}

// Unpack - kernel from its binary form
func Unpack(buffer []byte) (*Kernel, error) {
	if PackedLength != len(buffer) {
		return nil, fault.ErrInvalidKernelLength
	}

	excess, err := pedersen.CommitmentFromBytes(buffer[:pedersen.CommitmentLength])
	if nil != err {
		return nil, err
	}
	n := pedersen.CommitmentLength

	k := &Kernel{
		Excess: excess,
	}
	copy(k.Signature[:], buffer[n:n+SignatureLength])
	n += SignatureLength
	k.Fee = binary.BigEndian.Uint64(buffer[n : n+8])
	k.Features = Features(buffer[n+8])
	return k, nil
}

// Digest - identity of a kernel, used to detect replays
func (k *Kernel) Digest() merkle.Digest {
	return merkle.NewDigest(k.Pack())
}
