// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

func TestCheckBlockEvent(t *testing.T) {
	number := []byte{0, 0, 0, 0, 0, 0, 0, 2}
	digest := make([]byte, 32)

	item := messagebus.Message{
		Command:    "block",
		Parameters: [][]byte{number, digest},
	}
	assert.Nil(t, checkEvent(&item), "check error")

	item.Parameters = [][]byte{number}
	assert.Equal(t, fault.MissingParameters, checkEvent(&item), "wrong error")

	item.Parameters = [][]byte{number, digest[1:]}
	assert.Equal(t, fault.InvalidBufferLength, checkEvent(&item), "wrong error")
}

func TestCheckDeltaEvent(t *testing.T) {
	number := []byte{0, 0, 0, 0, 0, 0, 0, 2}
	txId := make([]byte, 32)
	address := []byte(transactionrecord.StateAddress("marble01"))
	put := []byte{0x00}
	value := []byte("marble01,red,35,alice")

	item := messagebus.Message{
		Command:    "delta",
		Parameters: [][]byte{number, txId, address, put, value},
	}
	assert.Nil(t, checkEvent(&item), "check error")

	// a delete carries an empty value frame
	item.Parameters = [][]byte{number, txId, address, {0x01}, {}}
	assert.Nil(t, checkEvent(&item), "check error")

	item.Parameters = [][]byte{number, txId, address, put}
	assert.Equal(t, fault.MissingParameters, checkEvent(&item), "wrong error")

	item.Parameters = [][]byte{number, txId, address[2:], put, value}
	assert.Equal(t, fault.InvalidBufferLength, checkEvent(&item), "wrong error")

	item.Parameters = [][]byte{number, txId, address, {0x00, 0x00}, value}
	assert.Equal(t, fault.InvalidBufferLength, checkEvent(&item), "wrong error")
}
