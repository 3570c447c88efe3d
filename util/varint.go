// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/bitmark-inc/mwledger/fault"
)

// Varint64MaximumBytes - maximum possible number of bytes in Varint64
const Varint64MaximumBytes = 9

// ToVarint64 - convert a 64 bit unsigned integer to Varint64
//
// Structure of the result
// byte 1:  ext | B06 | B05 | B04 | B03 | B02 | B01 | B00
// byte 2:  ext | B13 | B12 | B11 | B10 | B09 | B08 | B07
// ...
// byte 8:  ext | B55 | B54 | B53 | B52 | B51 | B50 | B49
// byte 9:  B63 | B62 | B61 | B60 | B59 | B58 | B57 | B56
func ToVarint64(value uint64) []byte {
	return AppendVarint64(make([]byte, 0, Varint64MaximumBytes), value)
}

// AppendVarint64 - append the Varint64 form of a value to a buffer
func AppendVarint64(buffer []byte, value uint64) []byte {
	if value < 0x80 {
		return append(buffer, byte(value))
	}
	for i := 0; i < Varint64MaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		buffer = append(buffer, byte(value|ext))
		value >>= 7
	}
	return buffer
}

// AppendBytes - append a varint length followed by the bytes
func AppendBytes(buffer []byte, data []byte) []byte {
	buffer = AppendVarint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

// FromVarint64 - convert an array of up to Varint64MaximumBytes to a uint64
//
// also return the number of bytes used as second value
// returns 0, 0 if varint64 buffer is truncated
func FromVarint64(buffer []byte) (uint64, int) {
	result := uint64(0)

	shift := uint(0)
	count := 0

	for count < len(buffer) {
		currByte := uint64(buffer[count])
		count += 1
		if count < Varint64MaximumBytes {
			result |= currByte & 0x7f << shift
			if 0 == currByte&0x80 {
				return result, count
			}
		} else {
			result |= currByte << shift
			return result, count
		}
		shift += 7
	}
	return 0, 0
}

// Unpacker - sequential reader over varint framed data
type Unpacker struct {
	buffer []byte
	n      int
}

// NewUnpacker - start reading at the beginning of a buffer
func NewUnpacker(buffer []byte) *Unpacker {
	return &Unpacker{
		buffer: buffer,
	}
}

// Varint64 - next varint value
func (u *Unpacker) Varint64() (uint64, error) {
	value, count := FromVarint64(u.buffer[u.n:])
	if 0 == count {
		return 0, fault.ErrChunkTruncated
	}
	u.n += count
	return value, nil
}

// Byte - next single byte
func (u *Unpacker) Byte() (byte, error) {
	if u.n >= len(u.buffer) {
		return 0, fault.ErrChunkTruncated
	}
	b := u.buffer[u.n]
	u.n += 1
	return b, nil
}

// Fixed - next length bytes with no length prefix
func (u *Unpacker) Fixed(length int) ([]byte, error) {
	if length < 0 || len(u.buffer)-u.n < length {
		return nil, fault.ErrChunkTruncated
	}
	data := u.buffer[u.n : u.n+length]
	u.n += length
	return data, nil
}

// Bytes - next varint length prefixed byte string
func (u *Unpacker) Bytes() ([]byte, error) {
	length, err := u.Varint64()
	if nil != err {
		return nil, err
	}
	if length > uint64(len(u.buffer)-u.n) {
		return nil, fault.ErrChunkTruncated
	}
	return u.Fixed(int(length))
}

// Remaining - count of unread bytes
func (u *Unpacker) Remaining() int {
	return len(u.buffer) - u.n
}
