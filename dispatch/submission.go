// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"

	"github.com/golang/protobuf/proto"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/cache"
	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

const (
	submissionZapDomain = "submission"
	submissionSignal    = "inproc://marbled-submission-signal"
)

type submission struct {
	log     *logger.L
	push    *zmq.Socket // signal send
	pull    *zmq.Socket // signal receive
	socket4 *zmq.Socket // IPv4 traffic
	socket6 *zmq.Socket // IPv6 traffic
}

// initialise the receipt listener
func (sub *submission) initialise(privateKey []byte, publicKey []byte, submit []string) error {

	log := logger.New("submission")
	sub.log = log

	log.Info("initialising…")

	c, err := util.NewConnections(submit)
	if nil != err {
		log.Errorf("ip and port error: %s", err)
		return err
	}

	// signalling channel
	sub.pull, sub.push, err = zmqutil.NewSignalPair(submissionSignal)
	if nil != err {
		return err
	}

	// allocate IPv4 and IPv6 sockets
	sub.socket4, sub.socket6, err = zmqutil.NewBind(log, zmq.ROUTER, submissionZapDomain, privateKey, publicKey, c)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}

	return nil
}

// Run - wait for incoming receipts, process them and reply
func (sub *submission) Run(args interface{}, shutdown <-chan struct{}) {

	log := sub.log

	log.Info("starting…")

	go func() {
		poller := zmq.NewPoller()
		if nil != sub.socket4 {
			poller.Add(sub.socket4, zmq.POLLIN)
		}
		if nil != sub.socket6 {
			poller.Add(sub.socket6, zmq.POLLIN)
		}
		poller.Add(sub.pull, zmq.POLLIN)
	loop:
		for {
			sockets, _ := poller.Poll(-1)
			for _, socket := range sockets {
				switch s := socket.Socket; s {
				case sub.socket4:
					sub.process(sub.socket4)
				case sub.socket6:
					sub.process(sub.socket6)
				case sub.pull:
					s.RecvMessageBytes(0)
					break loop
				}
			}
		}
		log.Info("shutting down")
		sub.pull.Close()
		if nil != sub.socket4 {
			sub.socket4.Close()
		}
		if nil != sub.socket6 {
			sub.socket6.Close()
		}
		log.Info("stopped")
	}()

	// wait for shutdown
	log.Info("waiting…")
	<-shutdown
	log.Info("initiate shutdown")
	sub.push.SendMessage("stop")
	sub.push.Close()
}

// process a receipt and acknowledge it
func (sub *submission) process(socket *zmq.Socket) {

	log := sub.log

	data, err := socket.RecvMessageBytes(0)
	if nil != err {
		log.Errorf("receive error: %s", err)
		return
	}

	// the router prepends the sender identity
	if 2 > len(data) {
		return
	}
	identity := data[0]
	fn := string(data[1])
	parameters := data[2:]

	log.Debugf("received message: %q: %x", fn, parameters)

	switch fn {
	case "R": // execution receipt
		if 1 != len(parameters) {
			sub.sendError(socket, identity, fault.MissingParameters)
			return
		}
		err := handleReceipt(parameters[0])
		if nil != err {
			sub.sendError(socket, identity, err)
			return
		}
	default:
		sub.sendError(socket, identity, fmt.Errorf("unknown function: %q", fn))
		return
	}

	// acknowledge
	_, err = socket.SendBytes(identity, zmq.SNDMORE)
	if nil != err {
		log.Errorf("send identity error: %s", err)
		return
	}
	_, err = socket.Send("A", 0)
	if nil != err {
		log.Errorf("send ack error: %s", err)
	}
}

// send an error packet
func (sub *submission) sendError(socket *zmq.Socket, identity []byte, e error) {
	_, err := socket.SendBytes(identity, zmq.SNDMORE)
	if nil != err {
		sub.log.Errorf("send identity error: %s", err)
		return
	}
	_, err = socket.Send("E", zmq.SNDMORE)
	if nil != err {
		sub.log.Errorf("send error header error: %s", err)
		return
	}
	_, err = socket.Send(e.Error(), 0)
	if nil != err {
		sub.log.Errorf("send error message error: %s", err)
	}
}

// validate an execution receipt and queue it for the committer
//
// only the first receipt for each batch is accepted, a repeat of an
// already accepted receipt is dropped silently so resending processors
// still get their acknowledgement, a receipt for an unknown job is
// rejected
func handleReceipt(data []byte) error {

	receipt := &messages.ExecutionReceipt{}
	err := proto.Unmarshal(data, receipt)
	if nil != err {
		return err
	}

	var batchId merkle.Digest
	if len(batchId) != len(receipt.BatchId) {
		return fault.InvalidBatch
	}
	copy(batchId[:], receipt.BatchId)

	log := globalData.log

	if _, ok := cache.Pool.ReceiptFilter.Get(batchId.String()); ok {
		log.Debugf("duplicate receipt: %s  job: %s", batchId, receipt.Job)
		return nil
	}

	if !matchToJobQueue(receipt.Job, batchId) {
		log.Warnf("stale receipt: %s  job: %s", batchId, receipt.Job)
		return fault.ReceiptNotPending
	}

	markSeen(receipt.Processor)

	cache.Pool.ReceiptFilter.Put(batchId.String(), receipt.Processor)

	if !receipt.Ok {
		log.Warnf("batch: %s  failed: %q", batchId, receipt.Message)
		pending.SetInvalid(batchId, receipt.Message)
		return nil
	}

	log.Infof("receipt for batch: %s  job: %s  processor: %q", batchId, receipt.Job, receipt.Processor)

	messagebus.Bus.Commit.Send("receipt", data)

	return nil
}
