// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marbled/rpc/marble"
)

// MarblesByColor - fetch marbles of one colour
func (client *Client) MarblesByColor(color string, start string, count int) (*marble.ListReply, error) {

	byColorArgs := marble.ByColorArguments{
		Color: color,
		Start: start,
		Count: count,
	}

	client.printJson("ByColor Request", byColorArgs)

	var reply marble.ListReply
	err := client.client.Call("Marble.ByColor", byColorArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("ByColor Reply", reply)

	return &reply, nil
}
