// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdh

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
)

// Seal - encrypt and authenticate a slate payload
//
// result: nonce ++ ciphertext ++ tag
func Seal(ctx *curve.Context, secret SharedSecret, payload []byte, associated []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(secret[:])
	if nil != err {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(payload)+aead.Overhead())
	if _, err := ctx.Read(nonce); nil != err {
		return nil, err
	}

	return aead.Seal(nonce, nonce, payload, associated), nil
}

// Open - authenticate and decrypt a sealed payload
func Open(secret SharedSecret, sealed []byte, associated []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(secret[:])
	if nil != err {
		return nil, err
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, fault.ErrDecryptionFailed
	}

	nonce := sealed[:aead.NonceSize()]
	payload, err := aead.Open(nil, nonce, sealed[aead.NonceSize():], associated)
	if nil != err {
		return nil, fault.ErrDecryptionFailed
	}
	return payload, nil
}
