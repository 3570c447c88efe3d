// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package key_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/key"
)

func newContext(t *testing.T) *curve.Context {
	ctx, err := curve.NewSeeded([32]byte{0x6b, 0x65, 0x79})
	if nil != err {
		t.Fatalf("context error: %s", err)
	}
	return ctx
}

func TestGenerateAndDerive(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	sk, err := key.GenerateSecretKey(ctx)
	assert.Nil(t, err, "generate")
	assert.False(t, sk.IsZero(), "non zero key")

	pk, err := key.PublicKeyFromSecret(ctx, sk)
	assert.Nil(t, err, "derive")

	parsed, err := key.PublicKeyFromBytes(pk[:])
	assert.Nil(t, err, "parse")
	assert.Equal(t, pk, parsed, "round trip")

	// 1·G is the generator
	one := key.SecretKeyFromUint64(1)
	g, err := key.PublicKeyFromSecret(ctx, one)
	assert.Nil(t, err)
	assert.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", g.String(), "generator")
}

func TestBlindingArithmetic(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	a, _ := key.GenerateSecretKey(ctx)
	b, _ := key.GenerateSecretKey(ctx)

	sum := a.Add(b)
	back := sum.Add(b.Negate())
	assert.Equal(t, a, back, "a + b - b == a")

	zero := a.Add(a.Negate())
	assert.True(t, zero.IsZero(), "a - a == 0")

	_, err := key.PublicKeyFromSecret(ctx, zero)
	assert.Equal(t, fault.ErrInvalidSecretKey, err, "zero key has no public key")
}

func TestInvalidKeys(t *testing.T) {
	_, err := key.SecretKeyFromBytes(make([]byte, 31))
	assert.True(t, fault.IsErrInvalid(err), "short secret")

	_, err = key.SecretKeyFromBytes(make([]byte, 32))
	assert.True(t, fault.IsErrInvalid(err), "zero secret")

	order := []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
		0xba, 0xae, 0xdc, 0xe6, 0xaf, 0x48, 0xa0, 0x3b,
		0xbf, 0xd2, 0x5e, 0x8c, 0xd0, 0x36, 0x41, 0x41,
	}
	_, err = key.SecretKeyFromBytes(order)
	assert.True(t, fault.IsErrInvalid(err), "secret equal to group order")

	bad := make([]byte, key.PublicKeyLength)
	bad[0] = 0x02
	bad[32] = 0x07 // x = 7 gives x³+7 = 350, not a square
	_, err = key.PublicKeyFromBytes(bad)
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "point not on curve")
}

func TestSecretIsNeverPrinted(t *testing.T) {
	sk := key.SecretKeyFromUint64(0x1234)
	assert.Equal(t, "<secret>", fmt.Sprintf("%v", sk))
	assert.Equal(t, "<secret>", fmt.Sprintf("%s", sk))
	assert.Equal(t, "<secret>", fmt.Sprintf("%#v", sk))
}
