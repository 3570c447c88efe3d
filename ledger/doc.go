// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - accept transactions into the output PMMR
//
// A transaction spends existing outputs (by leaf index), creates new
// output commitments and carries one or more kernels. It is accepted
// when:
//
//   1. every kernel signature verifies
//   2. Σoutputs + Σfee·H - Σinputs == Σexcess + offset·G
//   3. no kernel has been seen before
//
// and then, in one store transaction, the inputs are pruned, the
// outputs appended and the kernels recorded.
//
// Store layout, alongside the PMMR pools:
//
//   K ++ kernel digest          - packed kernel
//   N ++ sequence(8 bytes BE)   - acceptance record (see undo.go)
//   C                           - count of acceptance records
package ledger
