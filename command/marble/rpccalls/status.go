// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/rpc/transaction"
)

// BatchStatus - query the status of a submitted batch
func (client *Client) BatchStatus(batchId merkle.Digest) (*transaction.StatusReply, error) {

	statusArgs := transaction.StatusArguments{
		BatchId: &batchId,
	}

	return client.status(statusArgs)
}

// TransactionStatus - query the status of a single transaction
func (client *Client) TransactionStatus(txId merkle.Digest) (*transaction.StatusReply, error) {

	statusArgs := transaction.StatusArguments{
		TxId: &txId,
	}

	return client.status(statusArgs)
}

func (client *Client) status(statusArgs transaction.StatusArguments) (*transaction.StatusReply, error) {

	client.printJson("Status Request", statusArgs)

	var reply transaction.StatusReply
	err := client.client.Call("Transaction.Status", statusArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Status Reply", reply)

	return &reply, nil
}
