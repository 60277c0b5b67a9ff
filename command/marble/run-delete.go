// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/command/marble/rpccalls"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

func runDelete(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name, err := checkMarbleName(c.Args().Get(0))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "name: %s\n", name)
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

	address := transactionrecord.StateAddress(name)

	response, err := client.Submit(signer, []rpccalls.Operation{{
		Payload: transactionrecord.DeleteMarblePayload(name),
		Inputs:  []string{address},
		Outputs: []string{address},
	}})
	if nil != err {
		return err
	}

	printJson(m.w, response)

	return nil
}
