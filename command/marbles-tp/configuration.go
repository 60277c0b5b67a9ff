// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/chain"
	"github.com/bitmark-inc/marbled/configuration"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPublicKeyFile  = "marbles-tp.public"
	defaultPrivateKeyFile = "marbles-tp.private"

	defaultLogDirectory = "log"
	defaultLogFile      = "marbles-tp.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// NodeType - the dispatch endpoints of one marbled node
//
// the public key is the node's dispatch key, either the path of the
// "dispatch.public" file for a local node or the hex key itself
// (the p= value from the node's dns TXT record) for a remote one
type NodeType struct {
	PublicKey string `gluamapper:"public_key" json:"public_key"`
	Subscribe string `gluamapper:"subscribe" json:"subscribe"`
	Submit    string `gluamapper:"submit" json:"submit"`
	Register  string `gluamapper:"register" json:"register"`
}

// KeysType - the processor's own CurveZMQ keypair files
type KeysType struct {
	PublicKey  string `gluamapper:"public_key" json:"public_key"`
	PrivateKey string `gluamapper:"private_key" json:"private_key"`
}

// Configuration - the main configuration for the processor
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Chain         string               `gluamapper:"chain" json:"chain"`
	Name          string               `gluamapper:"name" json:"name"`
	Node          NodeType             `gluamapper:"node" json:"node"`
	Keys          KeysType             `gluamapper:"keys" json:"keys"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Marbles,
		Name:          "", // hostname is substituted later

		Keys: KeysType{
			PublicKey:  defaultPublicKeyFile,
			PrivateKey: defaultPrivateKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("Chain: %q is not supported", options.Chain)
	}

	if "" == options.Name {
		hostname, err := os.Hostname()
		if nil != err {
			return nil, err
		}
		options.Name = hostname + ":marbles-tp"
	}

	// all three dispatch endpoints are required
	if "" == options.Node.Subscribe || "" == options.Node.Submit || "" == options.Node.Register {
		return nil, fmt.Errorf("Node: subscribe, submit and register endpoints are all required")
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Keys.PublicKey,
		&options.Keys.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// the node public key is either a key file or the hex key itself
func readNodePublicKey(s string) ([]byte, error) {

	if util.EnsureFileExists(s) {
		return zmqutil.ReadPublicKey(s)
	}

	key, err := hex.DecodeString(strings.TrimSpace(s))
	if nil != err || 32 != len(key) {
		return nil, fmt.Errorf("Node: public_key: %q is neither a key file nor a hex key", s)
	}
	return key, nil
}
