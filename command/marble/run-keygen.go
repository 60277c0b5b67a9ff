// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/account"
)

func runKeygen(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name, err := checkName(c.Args().Get(0))
	if nil != err {
		return err
	}

	privateKeyFile := m.config.PrivateKeyFile(name)
	publicKeyFile := m.config.PublicKeyFile(name)

	if m.verbose {
		fmt.Fprintf(m.e, "name: %s\n", name)
		fmt.Fprintf(m.e, "private key: %s\n", privateKeyFile)
		fmt.Fprintf(m.e, "public key: %s\n", publicKeyFile)
	}

	if err := os.MkdirAll(m.config.KeysDirectory, 0o700); nil != err {
		return err
	}

	privateKey, err := account.MakeKeyPairFiles(m.testnet, publicKeyFile, privateKeyFile)
	if nil != err {
		return err
	}

	response := struct {
		Name           string `json:"name"`
		Account        string `json:"account"`
		PrivateKeyFile string `json:"privateKeyFile"`
		PublicKeyFile  string `json:"publicKeyFile"`
	}{
		Name:           name,
		Account:        privateKey.Account().String(),
		PrivateKeyFile: privateKeyFile,
		PublicKeyFile:  publicKeyFile,
	}

	printJson(m.w, response)

	return nil
}
