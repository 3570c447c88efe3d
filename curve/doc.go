// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package curve - the secp256k1 computation context
//
// A Context owns the random number generator used for key generation
// and signing nonces.  The curve arithmetic itself is stateless and
// provided by the decred secp256k1 package, so verification paths
// only borrow a context to check that it is still alive.
//
// A context is shared by reference counting: Retain adds an owner,
// Close drops one and the RNG state is wiped when the last owner
// closes it.  RNG use is serialised by the context; callers that
// sign from many goroutines should still give each one its own
// context to avoid contention.
package curve
