// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheWriteThenRead(t *testing.T) {
	c := newCache()

	key := "test"
	expected := []byte{'a', 'b', 'c', 'd'}

	_, _, found := c.Get(key)
	assert.False(t, found, "key already exists")

	c.Set(dbPut, key, expected)
	actual, op, found := c.Get(key)
	assert.True(t, found, "not found after set")
	assert.Equal(t, dbPut, op, "operation")
	assert.Equal(t, expected, actual, "value")
}

func TestCacheClear(t *testing.T) {
	c := newCache()

	c.Set(dbPut, "test", []byte{'a', 'b', 'c', 'd'})
	c.Clear()

	_, _, found := c.Get("test")
	assert.False(t, found, "found after clear")
}

func TestCacheDeleteOperation(t *testing.T) {
	c := newCache()

	c.Set(dbPut, "test", []byte{'a'})
	c.Set(dbDelete, "test", nil)

	_, op, found := c.Get("test")
	assert.True(t, found, "delete must be recorded")
	assert.Equal(t, dbDelete, op, "operation")
}
