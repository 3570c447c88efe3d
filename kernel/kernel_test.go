// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kernel_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/kernel"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/pedersen"
)

func newContext(t *testing.T) *curve.Context {
	ctx, err := curve.NewSeeded([32]byte{0x6b, 0x65, 0x72, 0x6e})
	if nil != err {
		t.Fatalf("context error: %s", err)
	}
	return ctx
}

func TestSignVerify(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	for i := 0; i < 20; i += 1 {
		blind, err := key.GenerateSecretKey(ctx)
		assert.Nil(t, err, "%d: blind", i)

		k, err := kernel.New(ctx, blind, uint64(i)*100, kernel.Plain)
		assert.Nil(t, err, "%d: new", i)
		assert.Nil(t, k.Verify(ctx), "%d: verify", i)
	}
}

func TestMessageDependsOnFields(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	blind := key.SecretKeyFromUint64(99)
	excess, err := pedersen.Commit(ctx, 0, blind)
	assert.Nil(t, err, "excess")

	m := kernel.MessageFor(excess, 10, kernel.Plain)
	assert.Equal(t, m, kernel.MessageFor(excess, 10, kernel.Plain), "deterministic")
	assert.NotEqual(t, m, kernel.MessageFor(excess, 11, kernel.Plain), "fee")
	assert.NotEqual(t, m, kernel.MessageFor(excess, 10, kernel.Coinbase), "features")

	other, err := pedersen.Commit(ctx, 0, key.SecretKeyFromUint64(100))
	assert.Nil(t, err, "other excess")
	assert.NotEqual(t, m, kernel.MessageFor(other, 10, kernel.Plain), "excess")
}

func TestTamperedKernelFails(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	blind, err := key.GenerateSecretKey(ctx)
	assert.Nil(t, err, "blind")
	k, err := kernel.New(ctx, blind, 25, kernel.Plain)
	assert.Nil(t, err, "new")

	for bit := 0; bit < 64; bit += 1 {
		tampered := *k
		tampered.Fee ^= 1 << bit
		assert.True(t, fault.IsErrValidation(tampered.Verify(ctx)), "fee bit: %d", bit)
	}

	features := *k
	features.Features = kernel.HeightLocked
	assert.True(t, fault.IsErrValidation(features.Verify(ctx)), "features changed")

	for bit := 0; bit < 8*kernel.SignatureLength; bit += 1 {
		tampered := *k
		tampered.Signature[bit/8] ^= 1 << (bit % 8)
		assert.NotNil(t, tampered.Verify(ctx), "signature bit: %d", bit)
	}

	// a flipped excess either fails to parse or no longer matches
	for bit := 0; bit < 8*len(k.Excess); bit += 1 {
		tampered := *k
		tampered.Excess[bit/8] ^= 1 << (bit % 8)
		assert.NotNil(t, tampered.Verify(ctx), "excess bit: %d", bit)
	}

	// unparsable excess
	broken := *k
	broken.Excess[0] = 0x02
	assert.True(t, fault.IsErrInvalid(broken.Verify(ctx)), "excess prefix")
}

func TestVerifyAfterClose(t *testing.T) {
	ctx := newContext(t)

	k, err := kernel.New(ctx, key.SecretKeyFromUint64(5), 0, kernel.Plain)
	assert.Nil(t, err, "new")

	assert.Nil(t, ctx.Close(), "close")
	assert.Equal(t, fault.ErrContextReleased, k.Verify(ctx), "released context")
}

func TestZeroExcessCannotSign(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	_, err := kernel.New(ctx, key.SecretKey{}, 0, kernel.Plain)
	assert.NotNil(t, err, "zero blinding")
}

// two parties: sender spends 5 with blind sb, receiver gets 5 with blind rb
func TestMergeAndResign(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	sb := key.SecretKeyFromUint64(11)
	rb := key.SecretKeyFromUint64(29)

	input, err := pedersen.Commit(ctx, 5, sb)
	assert.Nil(t, err, "input")
	output, err := pedersen.Commit(ctx, 5, rb)
	assert.Nil(t, err, "output")

	// each party contributes a partial excess
	senderPart := sb.Negate()
	receiverPart := rb

	sk, err := kernel.New(ctx, senderPart, 0, kernel.Plain)
	assert.Nil(t, err, "sender kernel")
	rk, err := kernel.New(ctx, receiverPart, 0, kernel.Plain)
	assert.Nil(t, err, "receiver kernel")

	merged := *sk
	assert.Nil(t, merged.Merge(ctx, rk), "merge")

	// merge keeps the sender's signature, which is not valid for the sum
	assert.Equal(t, sk.Signature, merged.Signature, "signature untouched")
	assert.True(t, fault.IsErrValidation(merged.Verify(ctx)), "stale signature")

	total := senderPart.Add(receiverPart)
	expected, err := pedersen.Commit(ctx, 0, total)
	assert.Nil(t, err, "expected excess")
	assert.Equal(t, expected, merged.Excess, "excess is the sum")

	assert.Nil(t, merged.Sign(ctx, total), "re-sign")
	assert.Nil(t, merged.Verify(ctx), "verify merged")

	// outputs - inputs == excess
	balance, err := pedersen.Sum([]pedersen.Commitment{output}, []pedersen.Commitment{input})
	assert.Nil(t, err, "balance")
	assert.Equal(t, merged.Excess, balance, "balanced")
}

// the receiver commits to +5 and the sender to -5; only the merged
// excess has the value cancelled, so only it can be signed
func TestMergeOpposingValues(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	rb := key.SecretKeyFromUint64(41)
	sb := key.SecretKeyFromUint64(13)

	received, err := pedersen.Commit(ctx, 5, rb)
	assert.Nil(t, err, "receiver commitment")
	sent, err := pedersen.Commit(ctx, 5, sb)
	assert.Nil(t, err, "sender commitment")
	minusFive, err := pedersen.Negate(sent)
	assert.Nil(t, err, "negate")

	receiver := kernel.Kernel{Excess: received, Features: kernel.Plain}
	sender := kernel.Kernel{Excess: minusFive, Features: kernel.Plain}

	merged := receiver
	assert.Nil(t, merged.Merge(ctx, &sender), "merge")

	// value 0, blinding rb - sb
	total := rb.Add(sb.Negate())
	zero, err := pedersen.Commit(ctx, 0, total)
	assert.Nil(t, err, "zero value commitment")
	assert.Equal(t, zero, merged.Excess, "values cancel")

	assert.Nil(t, merged.Sign(ctx, total), "sign merged")
	assert.Nil(t, merged.Verify(ctx), "verify merged")

	// neither half alone is a commitment to zero
	assert.Nil(t, receiver.Sign(ctx, rb), "receiver sign")
	assert.True(t, fault.IsErrValidation(receiver.Verify(ctx)), "receiver alone")
	assert.Nil(t, sender.Sign(ctx, sb.Negate()), "sender sign")
	assert.True(t, fault.IsErrValidation(sender.Verify(ctx)), "sender alone")

	packed, err := kernel.Unpack(merged.Pack())
	assert.Nil(t, err, "unpack")
	assert.Nil(t, packed.Verify(ctx), "verify unpacked")
}

func TestMergeToZero(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	b := key.SecretKeyFromUint64(77)
	k1, err := kernel.New(ctx, b, 0, kernel.Plain)
	assert.Nil(t, err, "k1")
	k2, err := kernel.New(ctx, b.Negate(), 0, kernel.Plain)
	assert.Nil(t, err, "k2")

	err = k1.Merge(ctx, k2)
	assert.Equal(t, fault.ErrZeroValueCommitment, err, "blinding sums to zero")
}

func TestPackUnpack(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	k, err := kernel.New(ctx, key.SecretKeyFromUint64(1234), 8, kernel.HeightLocked)
	assert.Nil(t, err, "new")

	packed := k.Pack()
	assert.Equal(t, kernel.PackedLength, len(packed), "packed length")

	u, err := kernel.Unpack(packed)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, k, u, "round trip")
	assert.Nil(t, u.Verify(ctx), "verify unpacked")
	assert.Equal(t, k.Digest(), u.Digest(), "digest")

	_, err = kernel.Unpack(packed[1:])
	assert.Equal(t, fault.ErrInvalidKernelLength, err, "short")

	packed[0] = 0x05
	_, err = kernel.Unpack(packed)
	assert.NotNil(t, err, "bad excess prefix")
}

func TestJSON(t *testing.T) {
	ctx := newContext(t)
	defer ctx.Close()

	k, err := kernel.New(ctx, key.SecretKeyFromUint64(99), 3, kernel.Plain)
	assert.Nil(t, err, "new")

	buffer, err := json.Marshal(k)
	assert.Nil(t, err, "marshal")
	assert.True(t, strings.Contains(string(buffer), `"signature":"`+k.Signature.String()+`"`), "hex signature")

	var u kernel.Kernel
	assert.Nil(t, json.Unmarshal(buffer, &u), "unmarshal")
	assert.Equal(t, *k, u, "decoded")
	assert.Nil(t, u.Verify(ctx), "verify decoded")

	err = json.Unmarshal([]byte(`{"signature":"abcd"}`), &u)
	assert.NotNil(t, err, "short signature")
}
