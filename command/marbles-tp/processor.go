// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/counter"
	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/family"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

const (
	// sockets are abandoned if the node stays silent this long
	requestTimeout = 10 * time.Second

	// a repeat registration acts as a keep-alive so the node's
	// processor listing stays current
	registerInterval = 60 * time.Second

	// delay before a failed registration is retried
	registerRetryDelay = 15 * time.Second

	// inproc endpoint for subscriber connection state events, a
	// configuration reload runs two processors briefly so each
	// instance needs its own name
	subscriberMonitorFormat = "inproc://marbles-tp-subscriber-monitor-%d"
)

var monitorSequence counter.Counter

type processor struct {
	log  *logger.L
	name string

	serverPublicKey []byte
	publicKey       []byte
	privateKey      []byte

	subscribeConnection *util.Connection
	submitConnection    *util.Connection
	registerConnection  *util.Connection

	subscriber *zmqutil.Client // SUB:    job broadcasts
	submitter  *zmqutil.Client // DEALER: execution receipts
	registrar  *zmqutil.Client // REQ:    registration keep-alive

	monitor   *zmq.Socket   // subscriber connection state events
	connected chan struct{} // signals a fresh node connection
}

// create the three client sockets and connect them to one node
func newProcessor(log *logger.L, name string, configuration *Configuration) (*processor, error) {

	serverPublicKey, err := readNodePublicKey(configuration.Node.PublicKey)
	if nil != err {
		return nil, err
	}

	publicKey, err := zmqutil.ReadPublicKey(configuration.Keys.PublicKey)
	if nil != err {
		return nil, err
	}
	privateKey, err := zmqutil.ReadPrivateKey(configuration.Keys.PrivateKey)
	if nil != err {
		return nil, err
	}

	p := &processor{
		log:             log,
		name:            name,
		serverPublicKey: serverPublicKey,
		publicKey:       publicKey,
		privateKey:      privateKey,
		connected:       make(chan struct{}, 1),
	}

	p.subscribeConnection, err = util.NewConnection(configuration.Node.Subscribe)
	if nil != err {
		return nil, err
	}
	p.submitConnection, err = util.NewConnection(configuration.Node.Submit)
	if nil != err {
		return nil, err
	}
	p.registerConnection, err = util.NewConnection(configuration.Node.Register)
	if nil != err {
		return nil, err
	}

	p.subscriber, err = zmqutil.NewClient(zmq.SUB, privateKey, publicKey, 0)
	if nil != err {
		return nil, err
	}
	p.submitter, err = zmqutil.NewClient(zmq.DEALER, privateKey, publicKey, requestTimeout)
	if nil != err {
		return nil, err
	}
	p.registrar, err = zmqutil.NewClient(zmq.REQ, privateKey, publicKey, requestTimeout)
	if nil != err {
		return nil, err
	}

	return p, nil
}

// connect all three sockets and attach the subscriber monitor
func (p *processor) connect() error {

	chainName := mode.ChainName()

	err := p.subscriber.Connect(p.subscribeConnection, p.serverPublicKey, chainName)
	if nil != err {
		return err
	}

	// watch the subscriber so loss of the node is visible in the log
	// and a new connection re-registers without waiting a full
	// keep-alive interval
	p.monitor, err = zmqutil.NewMonitor(
		p.subscriber.GetSocket(),
		fmt.Sprintf(subscriberMonitorFormat, monitorSequence.Increment()),
		zmq.EVENT_CONNECTED|zmq.EVENT_DISCONNECTED|zmq.EVENT_CLOSED,
	)
	if nil != err {
		return err
	}

	err = p.submitter.Connect(p.submitConnection, p.serverPublicKey, chainName)
	if nil != err {
		return err
	}
	return p.registrar.Connect(p.registerConnection, p.serverPublicKey, chainName)
}

func (p *processor) close() {
	if nil != p.monitor {
		p.monitor.Close()
		p.monitor = nil
	}
	zmqutil.CloseClients([]*zmqutil.Client{
		p.subscriber,
		p.submitter,
		p.registrar,
	})
}

// announce this processor and repeat periodically
//
// a refused registration is logged with the node's reason and retried,
// the node may simply be on a different chain
func (p *processor) registerLoop(shutdown <-chan struct{}) {

	log := p.log

	delay := time.Duration(0) // register immediately on startup
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-p.connected: // fresh node connection, announce now
		case <-time.After(delay):
		}

		err := p.register()
		if nil != err {
			log.Errorf("registration failed: %s", err)
			delay = registerRetryDelay
			p.registrar.Reconnect()
			continue loop
		}
		delay = registerInterval
	}
}

// a single registration round trip
func (p *processor) register() error {

	log := p.log

	registration := &messages.Registration{
		FamilyName:    transactionrecord.FamilyName,
		FamilyVersion: transactionrecord.FamilyVersion,
		Processor:     p.name,
		Namespaces:    []string{transactionrecord.Namespace()},
	}

	data, err := proto.Marshal(registration)
	if nil != err {
		return err
	}

	err = p.registrar.Send("R", data)
	if nil != err {
		return err
	}

	reply, err := p.registrar.Receive(0)
	if nil != err {
		return err
	}
	if len(reply) < 1 {
		return fault.MissingParameters
	}

	switch string(reply[0]) {
	case "R":
		if 2 != len(reply) {
			return fault.MissingParameters
		}
		response := &messages.RegistrationResponse{}
		err = proto.Unmarshal(reply[1], response)
		if nil != err {
			return err
		}
		if !response.Ok {
			log.Warnf("node refused registration: %q", response.Error)
			return fault.InvalidFamily
		}
		if mode.ChainName() != response.Chain {
			log.Warnf("node chain: %q  expected: %q", response.Chain, mode.ChainName())
			return fault.IncorrectChain
		}
		log.Infof("registered as: %q on chain: %q", p.name, response.Chain)
		return nil

	case "E":
		if 2 == len(reply) {
			log.Warnf("node error: %q", reply[1])
		}
		return fault.InvalidBatch

	default:
		return fault.MissingParameters
	}
}

// receive jobs, execute them and submit the receipts
func (p *processor) jobLoop(shutdown <-chan struct{}) {

	log := p.log

	poller := zmqutil.NewPoller()
	p.subscriber.BeginPolling(poller, zmq.POLLIN)
	poller.Add(p.monitor, zmq.POLLIN)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		polled, _ := poller.Poll(time.Second)

		for _, zp := range polled {
			switch s := zp.Socket; s {

			case p.monitor:
				ev, addr, value, err := s.RecvEvent(0)
				if nil != err {
					log.Errorf("monitor receive error: %s", err)
					continue loop
				}
				log.Infof("subscriber event: %q  address: %q  value: %d", ev, addr, value)
				if zmq.EVENT_CONNECTED == ev {
					select {
					case p.connected <- struct{}{}:
					default: // a registration is already queued
					}
				}

			default:
				data, err := s.RecvMessageBytes(0)
				if nil != err {
					log.Errorf("receive error: %s", err)
					continue loop
				}

				// topic frame then the packed request
				if 2 != len(data) || transactionrecord.FamilyName != string(data[0]) {
					log.Debugf("ignore broadcast: %x", data)
					continue loop
				}

				receipt := p.execute(data[1])
				p.submit(receipt)
			}
		}
	}
}

// run the family rules over a process request
//
// transactions see the context left by their predecessors in the same
// batch, the first failure aborts the whole batch
func (p *processor) execute(data []byte) *messages.ExecutionReceipt {

	log := p.log

	request := &messages.ProcessRequest{}
	err := proto.Unmarshal(data, request)
	if nil != err {
		return &messages.ExecutionReceipt{
			Processor: p.name,
			Ok:        false,
			Message:   err.Error(),
		}
	}

	log.Infof("job: %s  batch: %x  transactions: %d", request.Job, request.BatchId, len(request.Transactions))

	context := make(family.Context)
	for _, entry := range request.Context {
		context[entry.Address] = entry.Value
	}

	receipts := make([]*messages.TransactionReceipt, len(request.Transactions))
	for i, tx := range request.Transactions {
		mutations, err := family.Execute(string(tx.Payload), context)
		if nil != err {
			log.Warnf("job: %s  transaction: %x  failed: %s", request.Job, tx.TxId, err)
			return &messages.ExecutionReceipt{
				Job:       request.Job,
				BatchId:   request.BatchId,
				Processor: p.name,
				Ok:        false,
				Message:   err.Error(),
			}
		}
		m := make([]*messages.StateEntry, len(mutations))
		for j, mutation := range mutations {
			m[j] = &messages.StateEntry{
				Address: mutation.Address,
				Value:   mutation.Value,
				Delete:  mutation.Delete,
			}
		}
		receipts[i] = &messages.TransactionReceipt{
			TxId:      tx.TxId,
			Mutations: m,
		}
	}

	return &messages.ExecutionReceipt{
		Job:          request.Job,
		BatchId:      request.BatchId,
		Processor:    p.name,
		Ok:           true,
		Transactions: receipts,
	}
}

// return a receipt to the node and wait for its acknowledgement
//
// a lost acknowledgement is not retried here, the node republishes an
// unanswered job and a duplicate receipt is absorbed on its side
func (p *processor) submit(receipt *messages.ExecutionReceipt) {

	log := p.log

	data, err := proto.Marshal(receipt)
	if nil != err {
		log.Errorf("marshal receipt error: %s", err)
		return
	}

	err = p.submitter.Send("R", data)
	if nil != err {
		log.Errorf("submit send error: %s", err)
		p.submitter.Reconnect()
		return
	}

	reply, err := p.submitter.Receive(0)
	if nil != err {
		log.Errorf("submit receive error: %s", err)
		p.submitter.Reconnect()
		return
	}
	if 0 == len(reply) {
		return
	}

	switch string(reply[0]) {
	case "A":
		log.Infof("job: %s acknowledged", receipt.Job)
	case "E":
		if 2 == len(reply) {
			log.Warnf("job: %s rejected: %q", receipt.Job, reply[1])
		} else {
			log.Warnf("job: %s rejected", receipt.Job)
		}
	default:
		log.Warnf("job: %s unexpected reply: %x", receipt.Job, reply)
	}
}
