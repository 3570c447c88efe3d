// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pedersen - value commitments
//
// A commitment is value·H + blinding·G on secp256k1.  Commitments add
// homomorphically, so the sum of a transaction's outputs minus its
// inputs is a commitment to zero value whenever the transaction is
// balanced, and its blinding factor is the key that signs the kernel.
//
// Serialised form (33 bytes):
//
//   0x08 ++ X    - Y is a quadratic residue mod p
//   0x09 ++ X    - otherwise
//
// Working form (64 bytes): X ++ Y, both big endian.
package pedersen
