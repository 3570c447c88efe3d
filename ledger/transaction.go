// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"math/bits"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/kernel"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/pedersen"
)

// Transaction - a confidential transfer
type Transaction struct {
	Inputs  []uint64              `json:"inputs"`
	Outputs []pedersen.Commitment `json:"outputs"`
	Kernels []kernel.Kernel       `json:"kernels"`
	Offset  key.SecretKey         `json:"offset"`
}

// Fee - total of all kernel fees
//
// a total that does not fit 64 bits is a validation failure
func (tx *Transaction) Fee() (uint64, error) {
	fee := uint64(0)
	for _, k := range tx.Kernels {
		var carry uint64
		fee, carry = bits.Add64(fee, k.Fee, 0)
		if 0 != carry {
			return 0, fault.ErrValidationFailed
		}
	}
	return fee, nil
}

// Aggregate - combine two transactions into one
//
// kernels are kept separately so each signature still verifies;
// the offsets add
func Aggregate(a *Transaction, b *Transaction) (*Transaction, error) {
	spent := make(map[uint64]struct{}, len(a.Inputs)+len(b.Inputs))
	inputs := make([]uint64, 0, len(a.Inputs)+len(b.Inputs))
	for _, list := range [][]uint64{a.Inputs, b.Inputs} {
		for _, i := range list {
			if _, ok := spent[i]; ok {
				return nil, fault.ErrDuplicate
			}
			spent[i] = struct{}{}
			inputs = append(inputs, i)
		}
	}

	outputs := make([]pedersen.Commitment, 0, len(a.Outputs)+len(b.Outputs))
	outputs = append(outputs, a.Outputs...)
	outputs = append(outputs, b.Outputs...)

	kernels := make([]kernel.Kernel, 0, len(a.Kernels)+len(b.Kernels))
	kernels = append(kernels, a.Kernels...)
	kernels = append(kernels, b.Kernels...)

	return &Transaction{
		Inputs:  inputs,
		Outputs: outputs,
		Kernels: kernels,
		Offset:  a.Offset.Add(b.Offset),
	}, nil
}

// balanced - Σoutputs + fee·H - Σinputs - Σexcess - offset·G == 0
func (tx *Transaction) balanced(inputs []pedersen.Commitment, fee uint64) (bool, error) {
	positive := make([]pedersen.Commitment, 0, len(tx.Outputs)+1)
	positive = append(positive, tx.Outputs...)
	if 0 != fee {
		f, err := pedersen.CommitValue(fee)
		if nil != err {
			return false, err
		}
		positive = append(positive, f)
	}

	negative := make([]pedersen.Commitment, 0, len(inputs)+len(tx.Kernels)+1)
	negative = append(negative, inputs...)
	for _, k := range tx.Kernels {
		negative = append(negative, k.Excess)
	}
	if !tx.Offset.IsZero() {
		o, err := pedersen.CommitBlind(0, tx.Offset)
		if nil != err {
			return false, err
		}
		negative = append(negative, o)
	}

	return pedersen.Equal(positive, negative)
}
