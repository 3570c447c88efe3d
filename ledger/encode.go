// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"encoding/json"

	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/kernel"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/pedersen"
)

// the offset is published with the transaction so it is encoded
// here rather than on the key type
type transactionJSON struct {
	Inputs  []uint64              `json:"inputs"`
	Outputs []pedersen.Commitment `json:"outputs"`
	Kernels []kernel.Kernel       `json:"kernels"`
	Offset  string                `json:"offset,omitempty"`
}

// MarshalJSON - offset as hex, omitted when zero
func (tx Transaction) MarshalJSON() ([]byte, error) {
	j := transactionJSON{
		Inputs:  tx.Inputs,
		Outputs: tx.Outputs,
		Kernels: tx.Kernels,
	}
	if !tx.Offset.IsZero() {
		j.Offset = hex.EncodeToString(tx.Offset[:])
	}
	return json.Marshal(j)
}

// UnmarshalJSON - a missing offset is zero
func (tx *Transaction) UnmarshalJSON(s []byte) error {
	var j transactionJSON
	if err := json.Unmarshal(s, &j); nil != err {
		return err
	}

	offset := key.SecretKey{}
	if "" != j.Offset {
		buffer, err := hex.DecodeString(j.Offset)
		if nil != err {
			return fault.ErrInvalidBlindingFactor
		}
		offset, err = key.SecretKeyFromBytes(buffer)
		if nil != err {
			return fault.ErrInvalidBlindingFactor
		}
	}

	*tx = Transaction{
		Inputs:  j.Inputs,
		Outputs: j.Outputs,
		Kernels: j.Kernels,
		Offset:  offset,
	}
	return nil
}
