// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package curve

import (
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"lukechampine.com/frand"

	"github.com/bitmark-inc/mwledger/fault"
)

// ScalarLength - bytes in a serialised scalar
const ScalarLength = 32

// number of ChaCha rounds for the seeded generator
const seededRounds = 20

// Context - shared curve context holding the RNG
type Context struct {
	sync.Mutex
	owners refCount
	rng    *frand.RNG
}

// New - create a context with an RNG seeded from the operating system
func New() (*Context, error) {
	ctx := &Context{
		rng: frand.New(),
	}
	ctx.owners.increment()
	return ctx, nil
}

// NewSeeded - create a context with a deterministic RNG
//
// only for tests and reproducible vectors
func NewSeeded(seed [32]byte) (*Context, error) {
	ctx := &Context{
		rng: frand.NewCustom(seed[:], 1024, seededRounds),
	}
	ctx.owners.increment()
	return ctx, nil
}

// Retain - add an owner to the context
func (ctx *Context) Retain() *Context {
	ctx.owners.increment()
	return ctx
}

// Close - drop an owner, release the RNG when no owners remain
func (ctx *Context) Close() error {
	remaining, ok := ctx.owners.decrement()
	if !ok {
		return fault.ErrContextReleased
	}
	if 0 == remaining {
		ctx.Lock()
		ctx.rng = nil
		ctx.Unlock()
	}
	return nil
}

// Owners - current number of owners
func (ctx *Context) Owners() uint64 {
	return ctx.owners.value()
}

// Alive - check the context can still be used
func (ctx *Context) Alive() error {
	if nil == ctx || 0 == ctx.owners.value() {
		return fault.ErrContextReleased
	}
	return nil
}

// Read - fill a buffer from the RNG
func (ctx *Context) Read(buffer []byte) (int, error) {
	if nil == ctx {
		return 0, fault.ErrContextReleased
	}
	ctx.Lock()
	defer ctx.Unlock()

	if nil == ctx.rng {
		return 0, fault.ErrContextReleased
	}
	return ctx.rng.Read(buffer)
}

// RandomScalar - a uniformly distributed non-zero scalar modulo the group order
func (ctx *Context) RandomScalar() (secp256k1.ModNScalar, error) {
	var s secp256k1.ModNScalar
	buffer := make([]byte, ScalarLength)
	defer zero(buffer)

	for {
		if _, err := ctx.Read(buffer); nil != err {
			return s, err
		}
		overflow := s.SetByteSlice(buffer)
		if !overflow && !s.IsZero() {
			return s, nil
		}
	}
}

func zero(buffer []byte) {
	for i := range buffer {
		buffer[i] = 0
	}
}
