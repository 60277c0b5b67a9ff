// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/marble"
)

// ReadMarble - fetch the current state of one marble
func (client *Client) ReadMarble(name string) (*marble.ReadReply, error) {

	readArgs := marble.ReadArguments{
		Name: name,
	}

	client.printJson("Read Request", readArgs)

	var reply marble.ReadReply
	err := client.client.Call("Marble.Read", readArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Read Reply", reply)

	return &reply, nil
}
