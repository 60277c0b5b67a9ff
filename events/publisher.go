// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package events

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

const (
	eventsZapDomain = "events"

	// parameter counts
	blockParameters = 2 // block number, digest
	deltaParameters = 5 // block number, tx id, address, delete flag, value
)

type eventPublisher struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
}

// initialise the event publisher
func (pub *eventPublisher) initialise(privateKey []byte, publicKey []byte, publish []string) error {

	log := logger.New("broadcaster")
	pub.log = log

	log.Info("initialising…")

	c, err := util.NewConnections(publish)
	if nil != err {
		log.Errorf("ip and port error: %s", err)
		return err
	}

	// allocate IPv4 and IPv6 sockets
	pub.socket4, pub.socket6, err = zmqutil.NewBind(log, zmq.PUB, eventsZapDomain, privateKey, publicKey, c)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}

	return nil
}

// Run - relay commit events from the internal bus to subscribers
func (pub *eventPublisher) Run(args interface{}, shutdown <-chan struct{}) {

	log := pub.log

	log.Info("starting…")

	queue := messagebus.Bus.Broadcast.Chan(0)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case item := <-queue:
			log.Debugf("received: %s  parameters: %x", item.Command, item.Parameters)

			switch item.Command {
			case "block", "delta":
				err := checkEvent(&item)
				if nil != err {
					log.Errorf("event: %s error: %s", item.Command, err)
					continue loop
				}
				pub.process(pub.socket4, &item)
				pub.process(pub.socket6, &item)

				// relayed, drop so the suppression cache does not
				// grow without bound
				messagebus.DropCache(item)

			default:
				log.Warnf("ignore event: %q", item.Command)
			}
		}
	}
	if nil != pub.socket4 {
		pub.socket4.Close()
	}
	if nil != pub.socket6 {
		pub.socket6.Close()
	}
}

// structural check of an event before it reaches subscribers
func checkEvent(item *messagebus.Message) error {

	switch item.Command {

	case "block":
		if blockParameters != len(item.Parameters) {
			return fault.MissingParameters
		}
		if 8 != len(item.Parameters[0]) ||
			blockdigest.Length != len(item.Parameters[1]) {
			return fault.InvalidBufferLength
		}

	case "delta":
		if deltaParameters != len(item.Parameters) {
			return fault.MissingParameters
		}
		if 8 != len(item.Parameters[0]) ||
			merkle.DigestLength != len(item.Parameters[1]) ||
			transactionrecord.AddressLength != len(item.Parameters[2]) ||
			1 != len(item.Parameters[3]) {
			return fault.InvalidBufferLength
		}
	}

	return nil
}

// multipart send: the command as topic then each parameter frame
func (pub *eventPublisher) process(socket *zmq.Socket, item *messagebus.Message) {
	if nil == socket {
		return
	}

	_, err := socket.Send(item.Command, zmq.SNDMORE|zmq.DONTWAIT)
	if nil != err {
		pub.log.Errorf("send topic error: %s", err)
		return
	}

	last := len(item.Parameters) - 1
	for i, p := range item.Parameters {
		flags := zmq.SNDMORE | zmq.DONTWAIT
		if i == last {
			flags = zmq.DONTWAIT
		}
		_, err = socket.SendBytes(p, flags)
		if nil != err {
			pub.log.Errorf("send event error: %s", err)
			return
		}
	}
}
