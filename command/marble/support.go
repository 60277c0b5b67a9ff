// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/account"
)

// returns true for a directory, false for a plain file
func checkFileExists(name string) (bool, error) {
	s, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return s.IsDir(), nil
}

// read the private key of the selected identity
//
// the identity flag overrides the configured default
func loadSigner(c *cli.Context, m *metadata) (*account.PrivateKey, error) {

	name := c.GlobalString("identity")
	if "" == name {
		name = m.config.DefaultIdentity
	}

	name, err := checkName(name)
	if nil != err {
		return nil, err
	}

	return account.ReadPrivateKeyFile(m.testnet, m.config.PrivateKeyFile(name))
}
