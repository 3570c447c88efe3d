// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.
//
// the file must end with a return statement yielding a table, the
// table fields are mapped onto a structure using "gluamapper" tags
// with field names passed through unchanged.
//
// the global "arg" table has the file name at index 0 and any
// variables supplied by the caller are set as Lua globals before the
// file is run
package configuration
