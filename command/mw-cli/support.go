// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bitmark-inc/mwledger/kernel"
	"github.com/bitmark-inc/mwledger/key"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

func checkRequired(name string, value string) (string, error) {
	if "" == value {
		return "", fmt.Errorf("missing required option: --%s", name)
	}
	return value, nil
}

// secret keys are only ever printed by an explicit call to this
func secretHex(sk key.SecretKey) string {
	return hex.EncodeToString(sk[:])
}

func parseSecretKey(name string, s string) (key.SecretKey, error) {
	if _, err := checkRequired(name, s); nil != err {
		return key.SecretKey{}, err
	}
	buffer, err := hex.DecodeString(s)
	if nil != err {
		return key.SecretKey{}, fmt.Errorf("%s: %w", name, err)
	}
	sk, err := key.SecretKeyFromBytes(buffer)
	if nil != err {
		return key.SecretKey{}, fmt.Errorf("%s: %w", name, err)
	}
	return sk, nil
}

func parsePublicKey(name string, s string) (key.PublicKey, error) {
	if _, err := checkRequired(name, s); nil != err {
		return key.PublicKey{}, err
	}
	var pk key.PublicKey
	if err := pk.UnmarshalText([]byte(s)); nil != err {
		return key.PublicKey{}, fmt.Errorf("%s: %w", name, err)
	}
	return pk, nil
}

// "0/1/7" or "0,1,7"
func parsePath(s string) ([]uint32, error) {
	if "" == s {
		return nil, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return '/' == r || ',' == r
	})
	path := make([]uint32, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 31)
		if nil != err {
			return nil, fmt.Errorf("path element: %q  error: %w", f, err)
		}
		path = append(path, uint32(n))
	}
	return path, nil
}

func parseFeatures(s string) (kernel.Features, error) {
	switch strings.ToLower(s) {
	case "", "plain":
		return kernel.Plain, nil
	case "coinbase":
		return kernel.Coinbase, nil
	case "height-locked", "height":
		return kernel.HeightLocked, nil
	default:
		return 0, fmt.Errorf("features: %q can only be plain/coinbase/height-locked", s)
	}
}
