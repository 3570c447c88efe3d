// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keychain - deterministic blinding factors from a seed
//
// Seed text is base58 of:
//
//   header(0x6d 0x77) ++ version(0x01) ++ entropy(32 bytes) ++ checksum
//
// where checksum is the first 4 bytes of SHA3-256 of everything before it.
//
// Derivation is hardened only:
//
//   master        I = HMAC-SHA512("mwledger seed", entropy)
//   child index   I = HMAC-SHA512(chain, 0x00 ++ secret ++ (index | 2^31))
//   secret = IL + parent secret (mod n), chain = IR
package keychain

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
)

// Source - something that yields secret keys for a derivation path
type Source interface {
	Derive(path []uint32) (key.SecretKey, error)
}

const (
	entropyLength  = 32
	checksumLength = 4
	hardened       = uint32(1) << 31
)

var (
	seedHeader    = []byte{0x6d, 0x77, 0x01}
	masterHMACKey = []byte("mwledger seed")
)

// Seed - the root entropy of a key chain
type Seed [entropyLength]byte

// NewSeed - fresh entropy from the context RNG
func NewSeed(ctx *curve.Context) (Seed, error) {
	var s Seed
	if _, err := ctx.Read(s[:]); nil != err {
		return Seed{}, err
	}
	return s, nil
}

// String - base58 text with header and checksum
func (s Seed) String() string {
	buffer := make([]byte, 0, len(seedHeader)+entropyLength+checksumLength)
	buffer = append(buffer, seedHeader...)
	buffer = append(buffer, s[:]...)
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// GoString - never print the entropy by accident
func (s Seed) GoString() string {
	return "<seed>"
}

// SeedFromString - parse and check the base58 text
func SeedFromString(text string) (Seed, error) {
	buffer, err := base58.Decode(text)
	if nil != err {
		return Seed{}, fault.ErrInvalidSeed
	}
	if len(seedHeader)+entropyLength+checksumLength != len(buffer) {
		return Seed{}, fault.ErrInvalidSeed
	}
	if !bytes.Equal(seedHeader, buffer[:len(seedHeader)]) {
		return Seed{}, fault.ErrInvalidSeed
	}

	checksumStart := len(buffer) - checksumLength
	checksum := sha3.Sum256(buffer[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], buffer[checksumStart:]) {
		return Seed{}, fault.ErrInvalidSeed
	}

	var s Seed
	copy(s[:], buffer[len(seedHeader):checksumStart])
	return s, nil
}

// Chain - a Source built from a seed
type Chain struct {
	secret key.SecretKey
	chain  [32]byte
}

// NewFromSeed - master key of a seed
func NewFromSeed(seed Seed) (*Chain, error) {
	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed[:])
	i := mac.Sum(nil)

	secret, err := key.SecretKeyFromBytes(i[:32])
	if nil != err {
		return nil, fault.ErrInvalidSeed
	}
	c := &Chain{
		secret: secret,
	}
	copy(c.chain[:], i[32:])
	return c, nil
}

// Derive - secret key at a hardened path below the master
//
// the empty path is the master key itself
func (c *Chain) Derive(path []uint32) (key.SecretKey, error) {
	secret := c.secret
	chain := c.chain
	for _, index := range path {
		var err error
		secret, chain, err = child(secret, chain, index|hardened)
		if nil != err {
			return key.SecretKey{}, err
		}
	}
	return secret, nil
}

func child(parent key.SecretKey, chain [32]byte, index uint32) (key.SecretKey, [32]byte, error) {
	data := make([]byte, 0, 1+key.SecretKeyLength+4)
	data = append(data, 0x00)
	data = append(data, parent[:]...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, chain[:])
	mac.Write(data)
	i := mac.Sum(nil)

	var tweak secp256k1.ModNScalar
	if overflow := tweak.SetByteSlice(i[:32]); overflow {
		return key.SecretKey{}, [32]byte{}, fault.ErrInvalidSecretKey
	}
	p := parent.Scalar()
	tweak.Add(&p)
	if tweak.IsZero() {
		return key.SecretKey{}, [32]byte{}, fault.ErrInvalidSecretKey
	}

	var next [32]byte
	copy(next[:], i[32:])
	return key.SecretKey(tweak.Bytes()), next, nil
}
