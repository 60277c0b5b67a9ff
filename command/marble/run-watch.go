// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	zmq "github.com/pebbe/zmq4"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

// event frame counts excluding the topic
const (
	blockEventFrames = 2 // block number, digest
	deltaEventFrames = 5 // block number, tx id, address, delete flag, value
)

type blockEvent struct {
	Event  string             `json:"event"`
	Height uint64             `json:"height,string"`
	Digest blockdigest.Digest `json:"digest"`
}

type deltaEvent struct {
	Event    string                    `json:"event"`
	Height   uint64                    `json:"height,string"`
	TxId     merkle.Digest             `json:"txId"`
	Address  string                    `json:"address"`
	IsDelete bool                      `json:"isDelete"`
	Marble   *transactionrecord.Marble `json:"marble,omitempty"`
}

func runWatch(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	connect, err := checkConnect(m.config.Events.Connect)
	if nil != err {
		return err
	}

	serverPublicKey, err := hex.DecodeString(m.config.Events.PublicKey)
	if nil != err || 32 != len(serverPublicKey) {
		return fmt.Errorf("events: public_key: %q is not a hex key", m.config.Events.PublicKey)
	}

	if m.verbose {
		fmt.Fprintf(m.e, "events: %s\n", connect)
		fmt.Fprintf(m.e, "server key: %x\n", serverPublicKey)
	}

	// a throwaway key pair is enough, the server does not
	// authenticate subscribers
	public, private, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	client, err := zmqutil.NewClient(zmq.SUB, []byte(zmq.Z85decode(private)), []byte(zmq.Z85decode(public)), 0)
	if nil != err {
		return err
	}
	defer client.Close()

	conn, err := util.NewConnection(connect)
	if nil != err {
		return err
	}

	err = client.Connect(conn, serverPublicKey, m.network)
	if nil != err {
		return err
	}

	for {
		data, err := client.Receive(0)
		if nil != err {
			return err
		}
		if len(data) < 1 {
			continue
		}

		switch string(data[0]) {

		case "block":
			if blockEventFrames != len(data)-1 ||
				8 != len(data[1]) ||
				blockdigest.Length != len(data[2]) {
				continue
			}
			var digest blockdigest.Digest
			copy(digest[:], data[2])
			printJson(m.w, blockEvent{
				Event:  "block",
				Height: binary.BigEndian.Uint64(data[1]),
				Digest: digest,
			})

		case "delta":
			if deltaEventFrames != len(data)-1 ||
				8 != len(data[1]) ||
				merkle.DigestLength != len(data[2]) ||
				1 != len(data[4]) {
				continue
			}
			var txId merkle.Digest
			copy(txId[:], data[2])
			event := deltaEvent{
				Event:    "delta",
				Height:   binary.BigEndian.Uint64(data[1]),
				TxId:     txId,
				Address:  string(data[3]),
				IsDelete: 0 != data[4][0],
			}
			if !event.IsDelete {
				marble, err := transactionrecord.MarbleFromBytes(data[5])
				if nil == err {
					event.Marble = marble
				}
			}
			printJson(m.w, event)
		}
	}
}
