// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/mwledger/kernel"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/ledger"
	"github.com/bitmark-inc/mwledger/pedersen"
)

type outputResult struct {
	Value      uint64              `json:"value"`
	Blind      string              `json:"blind"`
	Commitment pedersen.Commitment `json:"commitment"`
}

type transactionResult struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Outputs     []outputResult      `json:"outputs"`
}

// blind given as hex, or a fresh random one
func blindOrRandom(m *metadata, name string, s string) (key.SecretKey, error) {
	if "" == s {
		return key.GenerateSecretKey(m.ctx)
	}
	return parseSecretKey(name, s)
}

func makeOutput(m *metadata, value uint64, blind key.SecretKey) (outputResult, error) {
	c, err := pedersen.Commit(m.ctx, value, blind)
	if nil != err {
		return outputResult{}, err
	}
	return outputResult{
		Value:      value,
		Blind:      secretHex(blind),
		Commitment: c,
	}, nil
}

func runCommit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	blind, err := blindOrRandom(m, "blind", c.String("blind"))
	if nil != err {
		return err
	}
	result, err := makeOutput(m, c.Uint64("value"), blind)
	if nil != err {
		return err
	}
	return printJson(m.w, result)
}

func runKernel(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	excess, err := parseSecretKey("excess", c.String("excess"))
	if nil != err {
		return err
	}
	features, err := parseFeatures(c.String("features"))
	if nil != err {
		return err
	}

	k, err := kernel.New(m.ctx, excess, c.Uint64("fee"), features)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "message: %s\n", k.Message())
		fmt.Fprintf(m.e, "digest: %s\n", k.Digest())
	}
	return printJson(m.w, k)
}

func runVerifyKernel(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkRequired("file", c.String("file"))
	if nil != err {
		return err
	}
	buffer, err := os.ReadFile(fileName)
	if nil != err {
		return err
	}

	var k kernel.Kernel
	if err := json.Unmarshal(buffer, &k); nil != err {
		return err
	}
	if err := k.Verify(m.ctx); nil != err {
		return err
	}

	fmt.Fprintf(m.w, "verified kernel: %s\n", k.Digest())
	return nil
}

// LEAF:VALUE:BLIND
func parseInput(s string) (uint64, uint64, key.SecretKey, error) {
	fields := strings.Split(s, ":")
	if 3 != len(fields) {
		return 0, 0, key.SecretKey{}, fmt.Errorf("input: %q is not LEAF:VALUE:BLIND", s)
	}
	leaf, err := strconv.ParseUint(fields[0], 10, 64)
	if nil != err {
		return 0, 0, key.SecretKey{}, fmt.Errorf("input leaf: %q  error: %w", fields[0], err)
	}
	value, err := strconv.ParseUint(fields[1], 10, 64)
	if nil != err {
		return 0, 0, key.SecretKey{}, fmt.Errorf("input value: %q  error: %w", fields[1], err)
	}
	blind, err := parseSecretKey("input blind", fields[2])
	if nil != err {
		return 0, 0, key.SecretKey{}, err
	}
	return leaf, value, blind, nil
}

// the kernel excess is Σ output blinds − Σ input blinds − offset
func runTransaction(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	inputs := c.StringSlice("input")
	outputs := c.StringSlice("output")
	if 0 == len(inputs) {
		return fmt.Errorf("missing required option: --input")
	}
	if 0 == len(outputs) {
		return fmt.Errorf("missing required option: --output")
	}
	fee := c.Uint64("fee")

	offset, err := key.GenerateSecretKey(m.ctx)
	if nil != err {
		return err
	}
	excess := offset.Negate()

	tx := &ledger.Transaction{
		Offset: offset,
	}
	balance := -int64(fee)

	for _, s := range inputs {
		leaf, value, blind, err := parseInput(s)
		if nil != err {
			return err
		}
		tx.Inputs = append(tx.Inputs, leaf)
		excess = excess.Add(blind.Negate())
		balance += int64(value)
	}

	result := transactionResult{
		Transaction: tx,
	}
	for _, s := range outputs {
		fields := strings.SplitN(s, ":", 2)
		value, err := strconv.ParseUint(fields[0], 10, 64)
		if nil != err {
			return fmt.Errorf("output value: %q  error: %w", fields[0], err)
		}
		b := ""
		if 2 == len(fields) {
			b = fields[1]
		}
		blind, err := blindOrRandom(m, "output blind", b)
		if nil != err {
			return err
		}
		output, err := makeOutput(m, value, blind)
		if nil != err {
			return err
		}
		tx.Outputs = append(tx.Outputs, output.Commitment)
		result.Outputs = append(result.Outputs, output)
		excess = excess.Add(blind)
		balance -= int64(value)
	}

	if 0 != balance {
		return fmt.Errorf("inputs do not equal outputs plus fee, difference: %d", balance)
	}

	k, err := kernel.New(m.ctx, excess, fee, kernel.Plain)
	if nil != err {
		return err
	}
	tx.Kernels = []kernel.Kernel{*k}

	return printJson(m.w, result)
}
