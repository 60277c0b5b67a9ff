// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/command/marble/configuration"
	"github.com/bitmark-inc/marbled/lookup"
)

func runSetup(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)
	testnet := m.testnet

	connect := c.String("connect")
	eventsConnect := c.String("events")
	eventsKey := c.String("events-key")

	// a domain overrides unset connection settings with values
	// discovered from its TXT records
	if domain := c.String("domain"); "" != domain {
		nodes, err := lookup.Lookup(domain)
		if nil != err {
			return err
		}
		node := nodes[0]
		if "" == connect {
			connect = node.RPCConnect()
		}
		if "" == eventsConnect {
			eventsConnect = node.EventsConnect()
		}
		if "" == eventsKey {
			eventsKey = hex.EncodeToString(node.PublicKey)
		}
	}

	connect, err := checkConnect(connect)
	if nil != err {
		return err
	}

	identity := c.GlobalString("identity")

	keysDirectory := c.String("keys-dir")
	if "" == keysDirectory {
		keysDirectory, err = configuration.DefaultKeysDirectory()
		if nil != err {
			return err
		}
	}

	if m.verbose {
		fmt.Fprintf(m.e, "config: %s\n", m.file)
		fmt.Fprintf(m.e, "testnet: %t\n", testnet)
		fmt.Fprintf(m.e, "connect: %s\n", connect)
		fmt.Fprintf(m.e, "keys: %s\n", keysDirectory)
	}

	// create the folder hierarchy for configuration if not existing
	configDir := path.Dir(m.file)
	d, err := checkFileExists(configDir)
	if nil != err {
		if err := os.MkdirAll(configDir, 0o750); nil != err {
			return err
		}
	} else if !d {
		return fmt.Errorf("path: %q is not a directory", configDir)
	}

	config := &configuration.Configuration{
		DefaultIdentity: identity,
		TestNet:         testnet,
		Connect:         connect,
		KeysDirectory:   keysDirectory,
		Events: configuration.EventsType{
			Connect:   c.String("events"),
			PublicKey: c.String("events-key"),
		},
	}

	m.config = config
	m.save = true

	return nil
}
