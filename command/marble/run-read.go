// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/command/marble/rpccalls"
	"github.com/bitmark-inc/marbled/fault"
)

func runRead(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name, err := checkMarbleName(c.Args().Get(0))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "name: %s\n", name)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.ReadMarble(name)
	if nil != err {
		// the RPC error arrives as plain text
		if fault.DataNotFound.Error() == err.Error() {
			return fmt.Errorf("Data not found: %s", name)
		}
		return err
	}

	fmt.Fprintf(m.w, "%s Marble = %s\n", name, response.Marble.String())

	if m.verbose {
		printJson(m.w, response)
	}

	return nil
}
