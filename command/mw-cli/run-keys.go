// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/mwledger/ecdh"
	"github.com/bitmark-inc/mwledger/key"
	"github.com/bitmark-inc/mwledger/keychain"
)

type keyPairResult struct {
	Path   []uint32      `json:"path,omitempty"`
	Secret string        `json:"secret"`
	Public key.PublicKey `json:"public"`
}

func runSeed(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	seed, err := keychain.NewSeed(m.ctx)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s\n", seed)
	return nil
}

func runDerive(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	text, err := checkRequired("seed", c.String("seed"))
	if nil != err {
		return err
	}
	seed, err := keychain.SeedFromString(text)
	if nil != err {
		return err
	}
	path, err := parsePath(c.String("path"))
	if nil != err {
		return err
	}

	chain, err := keychain.NewFromSeed(seed)
	if nil != err {
		return err
	}
	secret, err := chain.Derive(path)
	if nil != err {
		return err
	}
	public, err := key.PublicKeyFromSecret(m.ctx, secret)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "path: %v\n", path)
	}

	return printJson(m.w, keyPairResult{
		Path:   path,
		Secret: secretHex(secret),
		Public: public,
	})
}

func runKeygen(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	secret, err := key.GenerateSecretKey(m.ctx)
	if nil != err {
		return err
	}
	public, err := key.PublicKeyFromSecret(m.ctx, secret)
	if nil != err {
		return err
	}

	return printJson(m.w, keyPairResult{
		Secret: secretHex(secret),
		Public: public,
	})
}

func sharedSecret(c *cli.Context, m *metadata) (ecdh.SharedSecret, error) {
	secret, err := parseSecretKey("secret", c.String("secret"))
	if nil != err {
		return ecdh.SharedSecret{}, err
	}
	public, err := parsePublicKey("public", c.String("public"))
	if nil != err {
		return ecdh.SharedSecret{}, err
	}
	return ecdh.NewSharedSecret(m.ctx, public, secret)
}

func runECDH(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	shared, err := sharedSecret(c, m)
	if nil != err {
		return err
	}
	defer shared.Wipe()

	fmt.Fprintf(m.w, "%s\n", hex.EncodeToString(shared[:]))
	return nil
}

func runSeal(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	text, err := checkRequired("text", c.String("text"))
	if nil != err {
		return err
	}
	shared, err := sharedSecret(c, m)
	if nil != err {
		return err
	}
	defer shared.Wipe()

	sealed, err := ecdh.Seal(m.ctx, shared, []byte(text), nil)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s\n", hex.EncodeToString(sealed))
	return nil
}

func runOpen(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	s, err := checkRequired("sealed", c.String("sealed"))
	if nil != err {
		return err
	}
	sealed, err := hex.DecodeString(s)
	if nil != err {
		return fmt.Errorf("sealed: %w", err)
	}
	shared, err := sharedSecret(c, m)
	if nil != err {
		return err
	}
	defer shared.Wipe()

	payload, err := ecdh.Open(shared, sealed, nil)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s\n", payload)
	return nil
}
