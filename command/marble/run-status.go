// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/command/marble/rpccalls"
	"github.com/bitmark-inc/marbled/rpc/transaction"
)

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	var response *transaction.StatusReply

	if txId := c.String("txid"); "" != txId {
		digest, err := checkDigest(txId)
		if nil != err {
			return err
		}
		if m.verbose {
			fmt.Fprintf(m.e, "txid: %s\n", txId)
		}
		response, err = client.TransactionStatus(digest)
		if nil != err {
			return err
		}
	} else {
		digest, err := checkDigest(c.Args().Get(0))
		if nil != err {
			return err
		}
		if m.verbose {
			fmt.Fprintf(m.e, "batch id: %v\n", digest)
		}
		response, err = client.BatchStatus(digest)
		if nil != err {
			return err
		}
	}

	printJson(m.w, response)

	return nil
}
