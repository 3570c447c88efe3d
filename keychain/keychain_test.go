// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/keychain"
)

func newSeed(t *testing.T) keychain.Seed {
	ctx, err := curve.NewSeeded([32]byte{'k', 'c'})
	if nil != err {
		t.Fatalf("context error: %s", err)
	}
	defer ctx.Close()

	seed, err := keychain.NewSeed(ctx)
	if nil != err {
		t.Fatalf("seed error: %s", err)
	}
	return seed
}

func TestSeedText(t *testing.T) {
	seed := newSeed(t)

	text := seed.String()
	parsed, err := keychain.SeedFromString(text)
	assert.Nil(t, err, "parse")
	assert.Equal(t, seed, parsed, "round trip")

	assert.Equal(t, "<seed>", fmt.Sprintf("%#v", seed), "go string")
}

func TestSeedRejects(t *testing.T) {
	seed := newSeed(t)
	text := seed.String()

	// change one character without leaving the base58 alphabet
	last := text[len(text)-1]
	replacement := byte('2')
	if '2' == last {
		replacement = '3'
	}
	corrupt := text[:len(text)-1] + string(replacement)

	for _, s := range []string{"", "0OIl", text[1:], corrupt} {
		_, err := keychain.SeedFromString(s)
		assert.Equal(t, fault.ErrInvalidSeed, err, "text: %q", s)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	seed := newSeed(t)

	c1, err := keychain.NewFromSeed(seed)
	assert.Nil(t, err, "chain 1")
	c2, err := keychain.NewFromSeed(seed)
	assert.Nil(t, err, "chain 2")

	var source keychain.Source = c1

	paths := [][]uint32{
		{},
		{0},
		{1},
		{0, 0},
		{0, 1},
		{44, 0, 7},
	}
	seen := make(map[key.SecretKey]int)
	for i, p := range paths {
		k1, err := source.Derive(p)
		assert.Nil(t, err, "%d: derive 1", i)
		k2, err := c2.Derive(p)
		assert.Nil(t, err, "%d: derive 2", i)
		assert.Equal(t, k1, k2, "%d: deterministic", i)
		assert.False(t, k1.IsZero(), "%d: non zero", i)

		previous, found := seen[k1]
		assert.False(t, found, "%d: same key as path: %d", i, previous)
		seen[k1] = i
	}
}

func TestDifferentSeeds(t *testing.T) {
	var s1, s2 keychain.Seed
	s2[0] = 1

	c1, err := keychain.NewFromSeed(s1)
	assert.Nil(t, err, "chain 1")
	c2, err := keychain.NewFromSeed(s2)
	assert.Nil(t, err, "chain 2")

	k1, err := c1.Derive([]uint32{0})
	assert.Nil(t, err, "derive 1")
	k2, err := c2.Derive([]uint32{0})
	assert.Nil(t, err, "derive 2")
	assert.NotEqual(t, k1, k2, "keys differ")
}
