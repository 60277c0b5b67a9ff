// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/command/marble/rpccalls"
)

func runTransferColor(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	color, err := checkColor(c.Args().Get(0))
	if nil != err {
		return err
	}

	newOwner, err := checkOwner(c.Args().Get(1))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "color: %s\n", color)
		fmt.Fprintf(m.e, "new owner: %s\n", newOwner)
	}

	signer, err := loadSigner(c, m)
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.TransferMarblesByColor(signer, color, newOwner)
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
