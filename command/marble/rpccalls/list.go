// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/marble"
)

// ListMarbles - fetch marbles in state address order
func (client *Client) ListMarbles(start string, count int) (*marble.ListReply, error) {

	listArgs := marble.ListArguments{
		Start: start,
		Count: count,
	}

	client.printJson("List Request", listArgs)

	var reply marble.ListReply
	err := client.client.Call("Marble.List", listArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("List Reply", reply)

	return &reply, nil
}
