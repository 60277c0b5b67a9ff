// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/marble"
)

// MarbleHistory - fetch the full lineage of one marble name
func (client *Client) MarbleHistory(name string) (*marble.HistoryReply, error) {

	historyArgs := marble.HistoryArguments{
		Name: name,
	}

	client.printJson("History Request", historyArgs)

	var reply marble.HistoryReply
	err := client.client.Call("Marble.History", historyArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("History Reply", reply)

	return &reply, nil
}
