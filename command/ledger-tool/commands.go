// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
)

// setup command handler
//
// commands that cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	case "help", "h", "?", "", " ":
		if "" == command || " " == command {
			fmt.Printf("error: missing command\n")
		}
		usage(program)
		exitwithstatus.Exit(1)

	default:
		if _, ok := dataCommands[command]; ok {
			return false // defer processing until database is opened
		}
		if "config-test" == command || "cfg" == command {
			return false // defer processing until configuration is read
		}
		fmt.Printf("error: no such command: %q\n", command)
		usage(program)
		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

func usage(program string) {
	fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [--define=NAME=VALUE...] [[command|help] arguments...]\n", program)

	fmt.Printf("supported commands:\n\n")
	fmt.Printf("  help                       (h)      - display this message\n\n")
	fmt.Printf("  version                    (v)      - display version string\n\n")
	fmt.Printf("  config-test                (cfg)    - just check the configuration file\n\n")

	fmt.Printf("  size                                - number of leaves and MMR nodes\n")
	fmt.Printf("  root                                - bagged root of the peaks\n")
	fmt.Printf("  peaks                               - peak hashes, highest mountain first\n")
	fmt.Printf("  sync-peaks                          - tiered sync peaks for chunked download\n")
	fmt.Printf("  chunk INDEX [FILE]                  - write the sync chunk for a sync peak\n")
	fmt.Printf("  verify-chunk INDEX FILE             - check a chunk against the local sync peak\n")
	fmt.Printf("  proof LEAF                          - inclusion proof of a leaf as JSON\n")
	fmt.Printf("\n")

	fmt.Printf("  append COMMITMENT...                - add outputs without a kernel (genesis)\n")
	fmt.Printf("  prune LEAF...                       - mark leaves as spent without a kernel\n")
	fmt.Printf("  accept FILE                         - validate and apply a JSON transaction\n")
	fmt.Printf("  rewind SIZE                         - undo transactions and truncate to SIZE leaves\n")
	fmt.Printf("  soft-rewind SIZE                    - show the root as of SIZE leaves, no changes\n")
	fmt.Printf("  has-kernel DIGEST                   - check if a kernel has been accepted\n")
	fmt.Printf("\n")
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}
