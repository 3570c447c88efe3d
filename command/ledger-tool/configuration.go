// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/mwledger/configuration"
	"github.com/bitmark-inc/mwledger/fault"
	"github.com/bitmark-inc/mwledger/ledger"
	"github.com/bitmark-inc/mwledger/storage"
	"github.com/bitmark-inc/mwledger/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "ledger"
	defaultBackend           = storage.BackendLevelDB

	defaultLogDirectory = "log"
	defaultLogFile      = "ledger-tool.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// the decoder writes into the map it is given, so make a new one per parse
func defaultLogLevels() map[string]string {
	return map[string]string{
		logger.DefaultTag: "critical",
	}
}

// DatabaseType - where the forest is kept
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
	Backend   string `gluamapper:"backend" json:"backend"`
}

// Configuration - the decoded configuration file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Database      DatabaseType         `gluamapper:"database" json:"database"`
	KernelCache   int                  `gluamapper:"kernel_cache" json:"kernel_cache"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		KernelCache:   ledger.DefaultCacheSize,

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      "", // depends on backend
			Backend:   defaultBackend,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels(),
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	options.Database.Backend = strings.ToLower(options.Database.Backend)
	if !storage.ValidBackend(options.Database.Backend) {
		return nil, fmt.Errorf("backend: %q  error: %w", options.Database.Backend, fault.ErrInvalidBackend)
	}
	if "" == options.Database.Name {
		options.Database.Name = defaultDatabaseName + "." + options.Database.Backend
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q  error: %w", options.DataDirectory, fault.ErrInvalidDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q  error: %w", options.DataDirectory, fault.ErrInvalidDirectory)
	}

	// fail if any of these are not simple file names, then add the
	// correct directory prefix
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
		default:
			return nil, fmt.Errorf("file: %q  error: %w", *f[0], fault.ErrNotPlainFileName)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)

	return options, nil
}
