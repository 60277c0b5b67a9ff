// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/node"
)

// GetNodeInfo - request status from a node (must be matching version)
func (client *Client) GetNodeInfo() (*node.InfoReply, error) {
	var reply node.InfoReply
	if err := client.client.Call("Node.Info", node.InfoArguments{}, &reply); nil != err {
		return nil, err
	}

	return &reply, nil
}

// GetNodeInfoCompat - request status from a node (any version)
func (client *Client) GetNodeInfoCompat() (map[string]interface{}, error) {
	var reply map[string]interface{}
	if err := client.client.Call("Node.Info", node.InfoArguments{}, &reply); nil != err {
		return nil, err
	}

	return reply, nil
}

// GetProcessors - list the transaction processors registered on a node
func (client *Client) GetProcessors() (*node.ProcessorsReply, error) {
	var reply node.ProcessorsReply
	if err := client.client.Call("Node.Processors", node.ProcessorsArguments{}, &reply); nil != err {
		return nil, err
	}

	return &reply, nil
}
