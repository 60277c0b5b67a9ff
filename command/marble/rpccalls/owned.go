// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/marble"
)

// OwnedMarbles - fetch marbles held by one owner
func (client *Client) OwnedMarbles(owner string, start string, count int) (*marble.ListReply, error) {

	ownedArgs := marble.OwnedArguments{
		Owner: owner,
		Start: start,
		Count: count,
	}

	client.printJson("Owned Request", ownedArgs)

	var reply marble.ListReply
	err := client.client.Call("Marble.Owned", ownedArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Owned Reply", reply)

	return &reply, nil
}
