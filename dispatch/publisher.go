// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"time"

	"github.com/golang/protobuf/proto"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/constants"
	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

const (
	publisherZapDomain = "dispatcher"

	// batches examined per rescan
	rescanBatchLimit = 100
)

type publisher struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
}

// initialise the batch publisher
func (pub *publisher) initialise(privateKey []byte, publicKey []byte, publish []string) error {

	log := logger.New("publisher")
	pub.log = log

	log.Info("initialising…")

	c, err := util.NewConnections(publish)
	if nil != err {
		log.Errorf("ip and port error: %s", err)
		return err
	}

	// allocate IPv4 and IPv6 sockets
	pub.socket4, pub.socket6, err = zmqutil.NewBind(log, zmq.PUB, publisherZapDomain, privateKey, publicKey, c)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}

	return nil
}

// Run - publish batches handed over by the dispatch queue and
// periodically republish any batch still waiting for a receipt
func (pub *publisher) Run(args interface{}, shutdown <-chan struct{}) {

	log := pub.log

	log.Info("starting…")

	queue := messagebus.Bus.Dispatch.Chan()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case item := <-queue:
			log.Debugf("received: %s  parameters: %x", item.Command, item.Parameters)
			switch item.Command {
			case "batch":
				var batchId merkle.Digest
				if 1 != len(item.Parameters) || len(batchId) != len(item.Parameters[0]) {
					log.Warnf("invalid batch parameters: %x", item.Parameters)
					continue loop
				}
				copy(batchId[:], item.Parameters[0])
				pub.publish(batchId)
			default:
				log.Warnf("ignore command: %q", item.Command)
			}

		case <-time.After(constants.RescanInterval):
			pub.rescan()
		}
	}
	if nil != pub.socket4 {
		pub.socket4.Close()
	}
	if nil != pub.socket6 {
		pub.socket6.Close()
	}
}

// republish batches whose jobs have gone unanswered
func (pub *publisher) rescan() {
	entries, err := pending.FetchPending(rescanBatchLimit)
	if nil != err {
		pub.log.Errorf("rescan error: %s", err)
		return
	}
	for _, entry := range entries {
		if needsPublish(entry.BatchId, constants.RepublishDelay) {
			pub.publishEntry(entry)
		}
	}
}

// publish one batch by id
func (pub *publisher) publish(batchId merkle.Digest) {
	entry, ok := pending.Fetch(batchId)
	if !ok {
		pub.log.Warnf("not pending: %s", batchId)
		return
	}
	pub.publishEntry(entry)
}

// pack a batch into a process request and broadcast it
func (pub *publisher) publishEntry(entry *pending.Entry) {

	job, attempts := enqueueToJobQueue(entry.BatchId)

	request, err := buildRequest(job, entry, globalData.marblesHandle)
	if nil != err {
		pub.log.Errorf("build request: %s  error: %s", entry.BatchId, err)
		removeFromJobQueue(entry.BatchId)
		pending.SetInvalid(entry.BatchId, err.Error())
		return
	}

	data, err := proto.Marshal(request)
	if nil != err {
		pub.log.Errorf("marshal request: %s  error: %s", entry.BatchId, err)
		removeFromJobQueue(entry.BatchId)
		return
	}

	pub.log.Infof("publish batch: %s  job: %s  attempt: %d", entry.BatchId, job, attempts)

	pub.send(pub.socket4, data)
	pub.send(pub.socket6, data)
}

// multipart send: family name topic then the packed request
func (pub *publisher) send(socket *zmq.Socket, data []byte) {
	if nil == socket {
		return
	}

	_, err := socket.Send(transactionrecord.FamilyName, zmq.SNDMORE|zmq.DONTWAIT)
	if nil != err {
		pub.log.Errorf("send topic error: %s", err)
		return
	}
	_, err = socket.SendBytes(data, 0|zmq.DONTWAIT)
	if nil != err {
		pub.log.Errorf("send request error: %s", err)
	}
}

// assemble the process request for a batch
//
// the context snapshots the current value of every declared input that
// exists so a processor can execute without ledger access
func buildRequest(job string, entry *pending.Entry, marblesHandle storage.Handle) (*messages.ProcessRequest, error) {

	if nil == marblesHandle {
		return nil, fault.NotInitialised
	}

	txs := make([]*messages.TransactionRequest, len(entry.Transactions))

	// unique input addresses across the whole batch
	inputs := make(map[string]struct{})

	for i, packedTx := range entry.Transactions {
		unpacked, _, err := packedTx.Unpack(mode.IsTesting())
		if nil != err {
			return nil, err
		}
		tx, ok := unpacked.(*transactionrecord.MarbleTransaction)
		if !ok {
			return nil, fault.NotTransactionPack
		}

		txs[i] = &messages.TransactionRequest{
			TxId:          entry.TxIds[i][:],
			FamilyName:    tx.FamilyName,
			FamilyVersion: tx.FamilyVersion,
			Inputs:        tx.Inputs,
			Outputs:       tx.Outputs,
			Payload:       []byte(tx.Payload),
		}

		for _, address := range tx.Inputs {
			inputs[address] = struct{}{}
		}
	}

	context := make([]*messages.StateEntry, 0, len(inputs))
	for address := range inputs {
		// GetNB strips the block number prefix from the stored record
		_, data := marblesHandle.GetNB([]byte(address))
		if nil == data {
			continue
		}
		context = append(context, &messages.StateEntry{
			Address: address,
			Value:   data,
		})
	}

	return &messages.ProcessRequest{
		Job:          job,
		BatchId:      entry.BatchId[:],
		Transactions: txs,
		Context:      context,
	}, nil
}
