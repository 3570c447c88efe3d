// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package curve

import (
	"sync/atomic"
)

// refCount - number of owners of a context
type refCount uint64

// increment - add 1 to a counter, returns new value
func (rc *refCount) increment() uint64 {
	return atomic.AddUint64((*uint64)(rc), 1)
}

// decrement - subtract 1 from a counter, returns new value
//
// never goes below zero, a decrement of zero returns false
func (rc *refCount) decrement() (uint64, bool) {
	for {
		current := atomic.LoadUint64((*uint64)(rc))
		if 0 == current {
			return 0, false
		}
		if atomic.CompareAndSwapUint64((*uint64)(rc), current, current-1) {
			return current - 1, true
		}
	}
}

// value - returns current value
func (rc *refCount) value() uint64 {
	return atomic.LoadUint64((*uint64)(rc))
}
