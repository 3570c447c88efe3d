// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/mwledger/curve"
)

type metadata struct {
	ctx     *curve.Context
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "mw-cli"
	app.Usage = "keys, commitments and kernels for a confidential ledger"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e
	app.Metadata = make(map[string]interface{})

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "seed",
			Usage:  "generate a new key chain seed",
			Action: runSeed,
		},
		{
			Name:      "derive",
			Usage:     "derive a secret key from a seed",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "seed, s",
					Value: "",
					Usage: "*key chain `SEED`",
				},
				cli.StringFlag{
					Name:  "path, p",
					Value: "",
					Usage: " hardened `PATH` of indices, e.g. 0/1/7",
				},
			},
			Action: runDerive,
		},
		{
			Name:   "keygen",
			Usage:  "generate a random key pair",
			Action: runKeygen,
		},
		{
			Name:      "ecdh",
			Usage:     "shared secret between a local secret key and a remote public key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				secretFlag,
				publicFlag,
			},
			Action: runECDH,
		},
		{
			Name:      "seal",
			Usage:     "encrypt a payload for a remote public key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				secretFlag,
				publicFlag,
				cli.StringFlag{
					Name:  "text, t",
					Value: "",
					Usage: "*payload `STRING`",
				},
			},
			Action: runSeal,
		},
		{
			Name:      "open",
			Usage:     "decrypt a payload from a remote public key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				secretFlag,
				publicFlag,
				cli.StringFlag{
					Name:  "sealed, x",
					Value: "",
					Usage: "*sealed payload `HEX`",
				},
			},
			Action: runOpen,
		},
		{
			Name:      "commit",
			Usage:     "Pedersen commitment to a value",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "value, a",
					Value: 0,
					Usage: "*`AMOUNT` to commit to",
				},
				cli.StringFlag{
					Name:  "blind, b",
					Value: "",
					Usage: " blinding factor `HEX` [random]",
				},
			},
			Action: runCommit,
		},
		{
			Name:      "kernel",
			Usage:     "sign a transaction kernel",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "excess, x",
					Value: "",
					Usage: "*excess blinding factor `HEX`",
				},
				cli.Uint64Flag{
					Name:  "fee, f",
					Value: 0,
					Usage: " `FEE` amount",
				},
				cli.StringFlag{
					Name:  "features",
					Value: "plain",
					Usage: " `FEATURES` [plain|coinbase|height-locked]",
				},
			},
			Action: runKernel,
		},
		{
			Name:      "verify-kernel",
			Usage:     "verify the signature of a JSON kernel",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*kernel JSON `FILE`",
				},
			},
			Action: runVerifyKernel,
		},
		{
			Name:      "transaction",
			Usage:     "build a single kernel transaction as JSON",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringSliceFlag{
					Name:  "input, i",
					Usage: "*spent output `LEAF:VALUE:BLIND`",
				},
				cli.StringSliceFlag{
					Name:  "output, o",
					Usage: "*new output `VALUE[:BLIND]`",
				},
				cli.Uint64Flag{
					Name:  "fee, f",
					Value: 0,
					Usage: " `FEE` amount",
				},
			},
			Action: runTransaction,
		},
		{
			Name:  "version",
			Usage: "display mw-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		ctx, err := curve.New()
		if nil != err {
			return err
		}
		c.App.Metadata["config"] = &metadata{
			ctx:     ctx,
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	// release the curve context
	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		return m.ctx.Close()
	}

	return app
}

var secretFlag = cli.StringFlag{
	Name:  "secret, s",
	Value: "",
	Usage: "*local secret key `HEX`",
}

var publicFlag = cli.StringFlag{
	Name:  "public, p",
	Value: "",
	Usage: "*remote public key `HEX`",
}
