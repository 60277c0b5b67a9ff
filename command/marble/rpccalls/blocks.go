// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/node"
)

// GetBlocks - fetch decoded blocks walking down from a height
//
// height zero selects the highest block
func (client *Client) GetBlocks(height uint64, count int) (*node.BlocksReply, error) {

	blocksArgs := node.BlocksArguments{
		Height: height,
		Count:  count,
	}

	client.printJson("Blocks Request", blocksArgs)

	var reply node.BlocksReply
	err := client.client.Call("Node.Blocks", blocksArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Blocks Reply", reply)

	return &reply, nil
}
