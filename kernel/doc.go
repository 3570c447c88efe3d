// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package kernel - transaction kernels
//
// A kernel proves that a transaction is balanced: its excess is the
// commitment to zero left over when inputs and the fee are subtracted
// from outputs, and the signature shows the signer knows the excess
// blinding factor.
//
// Packed form (106 bytes):
//
//   excess(33) ++ signature(64) ++ fee(8 bytes BE) ++ features(1)
//
// Signature (64 bytes): R.x ++ s where
//
//   R = k·G with even Y
//   e = SHA3-256(R.x ++ P ++ message) mod n
//   s = k + e·x
package kernel
