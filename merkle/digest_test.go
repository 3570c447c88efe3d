// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle_test

import (
	"fmt"
	"testing"

	"github.com/bitmark-inc/mwledger/merkle"
)

func TestDigest(t *testing.T) {
	s := []byte("hello world")
	d := merkle.NewDigest(s)

	// printf '%s' 'hello world' | sha3sum -a 256
	stringDigest := "644bcc7e564373040999aac89e7622f3ca71fba1d972fd94a31c3bfbf24e3938"

	if d.String() != stringDigest {
		t.Errorf("digest = %s expected %s", d, stringDigest)
	}

	var expected merkle.Digest
	n, err := fmt.Sscan(stringDigest, &expected)
	if nil != err {
		t.Fatalf("hex to digest error: %s", err)
	}
	if 1 != n {
		t.Fatalf("scanned %d items expected to scan 1", n)
	}
	if d != expected {
		t.Errorf("digest = %#v expected %#v", d, expected)
	}

	s2 := fmt.Sprintf("%#v", d)
	if s2 != "<SHA3-256:"+stringDigest+">" {
		t.Errorf("hash-v: digest = %s expected %s", s2, stringDigest)
	}
}

func TestText(t *testing.T) {
	d := merkle.NewDigest([]byte("text"))
	buffer, err := d.MarshalText()
	if nil != err {
		t.Fatalf("marshal error: %s", err)
	}

	var back merkle.Digest
	if err := back.UnmarshalText(buffer); nil != err {
		t.Fatalf("unmarshal error: %s", err)
	}
	if back != d {
		t.Errorf("text round trip: %s expected %s", back, d)
	}

	if err := back.UnmarshalText(buffer[:10]); nil == err {
		t.Errorf("short text must fail")
	}
}

func TestPositionBinding(t *testing.T) {
	data := []byte("output")
	if merkle.LeafDigest(0, data) == merkle.LeafDigest(1, data) {
		t.Errorf("leaf digest must depend on position")
	}

	a := merkle.LeafDigest(0, []byte("a"))
	b := merkle.LeafDigest(1, []byte("b"))
	if merkle.NodeDigest(2, a, b) == merkle.NodeDigest(2, b, a) {
		t.Errorf("node digest must depend on child order")
	}

	// a leaf can never masquerade as a node
	record := append(append([]byte{}, a[:]...), b[:]...)
	if merkle.LeafDigest(2, record) == merkle.NodeDigest(2, a, b) {
		t.Errorf("leaf and node domains must differ")
	}

	if merkle.BagPeaks(3, []merkle.Digest{a}) == merkle.BagPeaks(4, []merkle.Digest{a}) {
		t.Errorf("root must commit to leaf count")
	}
}
