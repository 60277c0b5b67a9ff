// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/rpc/marble"
	"github.com/bitmark-inc/marbled/rpc/transaction"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// TransferColorReply - result of a colour transfer
type TransferColorReply struct {
	Color    string                   `json:"color"`
	NewOwner string                   `json:"newOwner"`
	Marbles  []string                 `json:"marbles"`
	Submit   *transaction.SubmitReply `json:"submit"`
}

// TransferMarblesByColor - move every marble of one colour to a new
// owner in a single atomic batch
//
// either every marble of the colour changes hands or none does
func (client *Client) TransferMarblesByColor(signer *account.PrivateKey, color string, newOwner string) (*TransferColorReply, error) {

	names := []string{}
	start := ""
pages:
	for {
		reply, err := client.MarblesByColor(color, start, marble.MaximumListCount)
		if nil != err {
			return nil, err
		}
		for _, record := range reply.Marbles {
			if nil == record.Marble {
				continue
			}
			names = append(names, record.Marble.Name)
		}
		if len(reply.Marbles) < marble.MaximumListCount {
			break pages
		}
		start = reply.Next
	}

	if 0 == len(names) {
		return nil, fault.DataNotFound
	}

	operations := make([]Operation, len(names))
	for i, name := range names {
		address := transactionrecord.StateAddress(name)
		operations[i] = Operation{
			Payload: transactionrecord.TransferMarblePayload(name, newOwner),
			Inputs:  []string{address},
			Outputs: []string{address},
		}
	}

	submitReply, err := client.Submit(signer, operations)
	if nil != err {
		return nil, err
	}

	response := &TransferColorReply{
		Color:    color,
		NewOwner: newOwner,
		Marbles:  names,
		Submit:   submitReply,
	}

	return response, nil
}
