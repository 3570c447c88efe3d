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
	"os"
	"strconv"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/curve"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/ledger"
	"github.com/bitmark-inc/mwledger/merkle"
	"github.com/bitmark-inc/mwledger/pedersen"
	"github.com/bitmark-inc/mwledger/pmmr"
	"github.com/bitmark-inc/mwledger/storage"
)

// everything a data command can touch
type environment struct {
	log    *logger.L
	ctx    *curve.Context
	mmr    *pmmr.PMMR
	ledger *ledger.Ledger
	out    io.Writer
	quiet  bool
}

type dataCommand struct {
	minimum int // number of arguments
	usage   string
	run     func(e *environment, arguments []string) error
}

var dataCommands = map[string]dataCommand{
	"size":         {0, "", runSize},
	"root":         {0, "", runRoot},
	"peaks":        {0, "", runPeaks},
	"sync-peaks":   {0, "", runSyncPeaks},
	"chunk":        {1, "INDEX [FILE]", runChunk},
	"verify-chunk": {2, "INDEX FILE", runVerifyChunk},
	"proof":        {1, "LEAF", runProof},
	"append":       {1, "COMMITMENT...", runAppend},
	"prune":        {1, "LEAF...", runPrune},
	"accept":       {1, "FILE", runAccept},
	"rewind":       {1, "SIZE", runRewind},
	"soft-rewind":  {1, "SIZE", runSoftRewind},
	"has-kernel":   {1, "DIGEST", runHasKernel},
}

// data command handler
// the store is opened so these commands can access and/or change it
func processDataCommand(log *logger.L, arguments []string, options *Configuration, quiet bool) error {

	command, ok := dataCommands[arguments[0]]
	if !ok {
		return fault.ErrNotFound
	}
	arguments = arguments[1:]
	if len(arguments) < command.minimum {
		return fmt.Errorf("usage: %s", command.usage)
	}

	log.Infof("database: %q  backend: %s", options.Database.Name, options.Database.Backend)
	store, err := storage.Open(options.Database.Backend, options.Database.Name, false)
	if nil != err {
		log.Criticalf("storage open error: %s", err)
		return err
	}
	defer store.Close()

	ctx, err := curve.New()
	if nil != err {
		return err
	}
	defer ctx.Close()

	e, err := newEnvironment(log, ctx, store, options.KernelCache, os.Stdout)
	if nil != err {
		return err
	}
	defer e.ledger.Close()
	e.quiet = quiet

	return command.run(e, arguments)
}

func newEnvironment(log *logger.L, ctx *curve.Context, store storage.Store, cacheSize int, out io.Writer) (*environment, error) {
	mmr, err := pmmr.Open(store)
	if nil != err {
		return nil, err
	}
	l, err := ledger.New(ctx, mmr, cacheSize)
	if nil != err {
		return nil, err
	}
	return &environment{
		log:    log,
		ctx:    ctx,
		mmr:    mmr,
		ledger: l,
		out:    out,
	}, nil
}

func (e *environment) printf(format string, arguments ...interface{}) {
	fmt.Fprintf(e.out, format, arguments...)
}

// only printed without --quiet
func (e *environment) infof(format string, arguments ...interface{}) {
	if !e.quiet {
		fmt.Fprintf(e.out, format, arguments...)
	}
}

func parseNumber(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return 0, fmt.Errorf("number: %q  error: %w", s, fault.ErrInvalidNumber)
	}
	return n, nil
}

func runSize(e *environment, arguments []string) error {
	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	e.printf("leaves: %d\n", r.Size())
	e.printf("mmr size: %d\n", r.MMRSize())
	return nil
}

func runRoot(e *environment, arguments []string) error {
	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	root, err := r.Root()
	if nil != err {
		return err
	}
	e.printf("%s\n", root)
	return nil
}

func printDigests(e *environment, digests []merkle.Digest) {
	for i, d := range digests {
		e.printf("%3d: %s\n", i, d)
	}
}

func runPeaks(e *environment, arguments []string) error {
	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	peaks, err := r.Peaks()
	if nil != err {
		return err
	}
	printDigests(e, peaks)
	return nil
}

func runSyncPeaks(e *environment, arguments []string) error {
	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	peaks, err := r.SyncPeaks()
	if nil != err {
		return err
	}
	printDigests(e, peaks)
	return nil
}

func runChunk(e *environment, arguments []string) error {
	index, err := parseNumber(arguments[0])
	if nil != err {
		return err
	}

	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	chunk, err := r.SyncChunk(int(index))
	if nil != err {
		return err
	}

	if len(arguments) < 2 || "-" == arguments[1] {
		e.printf("%s\n", hex.EncodeToString(chunk))
		return nil
	}
	if err := os.WriteFile(arguments[1], chunk, 0600); nil != err {
		return err
	}
	e.infof("wrote chunk: %d  bytes: %d  to: %q\n", index, len(chunk), arguments[1])
	return nil
}

func runVerifyChunk(e *environment, arguments []string) error {
	index, err := parseNumber(arguments[0])
	if nil != err {
		return err
	}
	buffer, err := os.ReadFile(arguments[1])
	if nil != err {
		return err
	}

	chunk, err := pmmr.ParseChunk(buffer)
	if nil != err {
		return err
	}

	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	peaks, err := r.SyncPeaks()
	if nil != err {
		return err
	}
	if index >= uint64(len(peaks)) {
		return fault.ErrSyncIndexNotFound
	}
	if err := chunk.Verify(peaks[index]); nil != err {
		return err
	}

	pruned := 0
	for _, l := range chunk.Leaves {
		if l.Pruned {
			pruned += 1
		}
	}
	e.printf("chunk: %d  first leaf: %d  leaves: %d  pruned: %d  ok\n", index, chunk.FirstLeaf, len(chunk.Leaves), pruned)
	return nil
}

func runProof(e *environment, arguments []string) error {
	leaf, err := parseNumber(arguments[0])
	if nil != err {
		return err
	}

	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	proof, err := r.Proof(leaf)
	if nil != err {
		return err
	}
	root, err := r.Root()
	if nil != err {
		return err
	}

	result := struct {
		Root  merkle.Digest `json:"root"`
		Proof *pmmr.Proof   `json:"proof"`
	}{
		Root:  root,
		Proof: proof,
	}
	buffer, err := json.MarshalIndent(result, "", "  ")
	if nil != err {
		return err
	}
	e.printf("%s\n", buffer)
	return nil
}

func runAppend(e *environment, arguments []string) error {
	w, err := e.mmr.Writer()
	if nil != err {
		return err
	}
	defer w.Abort()

	leaves := make([]uint64, 0, len(arguments))
	for _, a := range arguments {
		var c pedersen.Commitment
		if err := c.UnmarshalText([]byte(a)); nil != err {
			return fmt.Errorf("commitment: %q  error: %w", a, err)
		}
		leaf, err := w.Append(e.ctx, c[:])
		if nil != err {
			return err
		}
		leaves = append(leaves, leaf)
	}
	if err := w.Commit(); nil != err {
		return err
	}
	e.log.Infof("appended leaves: %v", leaves)
	e.infof("appended leaves: %v\n", leaves)
	return nil
}

func runPrune(e *environment, arguments []string) error {
	w, err := e.mmr.Writer()
	if nil != err {
		return err
	}
	defer w.Abort()

	for _, a := range arguments {
		leaf, err := parseNumber(a)
		if nil != err {
			return err
		}
		if err := w.Prune(e.ctx, leaf); nil != err {
			return fmt.Errorf("leaf: %d  error: %w", leaf, err)
		}
	}
	if err := w.Commit(); nil != err {
		return err
	}
	e.log.Infof("pruned leaves: %v", arguments)
	e.infof("pruned: %d leaves\n", len(arguments))
	return nil
}

func runAccept(e *environment, arguments []string) error {
	buffer, err := os.ReadFile(arguments[0])
	if nil != err {
		return err
	}

	var tx ledger.Transaction
	if err := json.Unmarshal(buffer, &tx); nil != err {
		return err
	}

	leaves, err := e.ledger.Accept(&tx)
	if nil != err {
		return err
	}
	fee, _ := tx.Fee() // Accept has already checked the total
	e.infof("accepted  fee: %d  output leaves: %v\n", fee, leaves)
	return nil
}

func runRewind(e *environment, arguments []string) error {
	target, err := parseNumber(arguments[0])
	if nil != err {
		return err
	}
	if err := e.ledger.Rewind(target); nil != err {
		return err
	}
	e.infof("rewound to: %d leaves\n", target)
	return nil
}

func runSoftRewind(e *environment, arguments []string) error {
	target, err := parseNumber(arguments[0])
	if nil != err {
		return err
	}

	r, err := e.mmr.Reader()
	if nil != err {
		return err
	}
	defer r.Close()

	if err := r.SoftRewind(target); nil != err {
		return err
	}
	root, err := r.Root()
	if nil != err {
		return err
	}
	peaks, err := r.Peaks()
	if nil != err {
		return err
	}
	e.printf("leaves: %d\n", r.Size())
	e.printf("root: %s\n", root)
	printDigests(e, peaks)
	return nil
}

func runHasKernel(e *environment, arguments []string) error {
	var digest merkle.Digest
	if err := digest.UnmarshalText([]byte(arguments[0])); nil != err {
		return err
	}
	found, err := e.ledger.HasKernel(digest)
	if nil != err {
		return err
	}
	e.printf("%t\n", found)
	return nil
}
