// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/util"
)

var varint64Tests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{137, []byte{0x89, 0x01}},
	{255, []byte{0xff, 0x01}},
	{256, []byte{0x80, 0x02}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

var varint64TruncatedTests = [][]byte{
	{},
	{0x80},
	{0xff},
	{0x80, 0x80},
	{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
}

func TestToVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		if result := util.ToVarint64(item.value); !bytes.Equal(result, item.encoded) {
			t.Errorf("%d: ToVarint64(%x) -> %x  expected: %x", i, item.value, result, item.encoded)
		}
	}
}

func TestFromVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		result, count := util.FromVarint64(item.encoded)
		if result != item.value {
			t.Errorf("%d: FromVarint64(%x) -> %x  expected: %x", i, item.encoded, result, item.value)
		}
		if count != len(item.encoded) {
			t.Errorf("%d: FromVarint64(%x) read: %d  expected: %d", i, item.encoded, count, len(item.encoded))
		}
	}
}

func TestFromVarint64Truncated(t *testing.T) {
	for i, item := range varint64TruncatedTests {
		result, count := util.FromVarint64(item)
		if 0 != result || 0 != count {
			t.Errorf("%d: FromVarint64(%x) -> %x, %d  expected: 0, 0", i, item, result, count)
		}
	}
}

func TestUnpacker(t *testing.T) {
	buffer := util.AppendVarint64(nil, 300)
	buffer = append(buffer, 0x42)
	buffer = util.AppendBytes(buffer, []byte("leaf"))
	buffer = append(buffer, 1, 2, 3)

	u := util.NewUnpacker(buffer)

	v, err := u.Varint64()
	assert.Nil(t, err, "varint")
	assert.Equal(t, uint64(300), v, "varint value")

	b, err := u.Byte()
	assert.Nil(t, err, "byte")
	assert.Equal(t, byte(0x42), b, "byte value")

	s, err := u.Bytes()
	assert.Nil(t, err, "bytes")
	assert.Equal(t, []byte("leaf"), s, "bytes value")

	f, err := u.Fixed(3)
	assert.Nil(t, err, "fixed")
	assert.Equal(t, []byte{1, 2, 3}, f, "fixed value")

	assert.Equal(t, 0, u.Remaining(), "all consumed")

	_, err = u.Byte()
	assert.Equal(t, fault.ErrChunkTruncated, err, "byte past end")
	_, err = u.Varint64()
	assert.Equal(t, fault.ErrChunkTruncated, err, "varint past end")
}

func TestUnpackerShortBytes(t *testing.T) {
	buffer := util.AppendVarint64(nil, 10)
	buffer = append(buffer, 1, 2)

	_, err := util.NewUnpacker(buffer).Bytes()
	assert.Equal(t, fault.ErrChunkTruncated, err, "declared length exceeds data")

	_, err = util.NewUnpacker([]byte{1}).Fixed(2)
	assert.Equal(t, fault.ErrChunkTruncated, err, "fixed past end")
}
