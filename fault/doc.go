// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Errors are grouped into classes so that a caller can decide what to
// do without knowing the exact error:
//
//   InvalidError       - malformed commitment, key or argument
//   ValidationError    - a cryptographic check failed, reject the object
//   SerialisationError - bytes could not be encoded or decoded
//   OperationError     - degenerate curve operation
//   StateError         - API misuse, e.g. a write through a read view
//   AllocError         - the store or allocator ran out of resources
//   TodoError          - a path that is not implemented
//   ExistsError        - duplicate key or repeated operation
//   NotFoundError      - missing key or position
package fault
