// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/mwledger/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/ledger/db", util.EnsureAbsolute("/data/ledger", "db"), "relative")
	assert.Equal(t, "/var/db", util.EnsureAbsolute("/data/ledger", "/var/db"), "already absolute")
	assert.Equal(t, "/data/db", util.EnsureAbsolute("/data/ledger", "../db"), "cleaned")
}
