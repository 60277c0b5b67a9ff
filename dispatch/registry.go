// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"sort"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/marbled/zmqutil"
)

const (
	registryZapDomain = "registry"
	registrySignal    = "inproc://marbled-registry-signal"
)

// ProcessorInfo - details of an announced transaction processor
type ProcessorInfo struct {
	FamilyName    string    `json:"familyName"`
	FamilyVersion string    `json:"familyVersion"`
	Processor     string    `json:"processor"`
	Namespaces    []string  `json:"namespaces"`
	LastSeen      time.Time `json:"lastSeen"`
}

type processorTableType struct {
	sync.RWMutex
	processors map[string]*ProcessorInfo
}

var processorTable processorTableType

func initialiseProcessorTable() {
	processorTable.Lock()
	processorTable.processors = make(map[string]*ProcessorInfo)
	processorTable.Unlock()
}

// record an announcement, a repeat announcement refreshes the entry
func addProcessor(registration *messages.Registration) {
	processorTable.Lock()
	processorTable.processors[registration.Processor] = &ProcessorInfo{
		FamilyName:    registration.FamilyName,
		FamilyVersion: registration.FamilyVersion,
		Processor:     registration.Processor,
		Namespaces:    registration.Namespaces,
		LastSeen:      time.Now(),
	}
	processorTable.Unlock()
}

// refresh the timestamp of an announced processor
func markSeen(processor string) {
	processorTable.Lock()
	if info, ok := processorTable.processors[processor]; ok {
		info.LastSeen = time.Now()
	}
	processorTable.Unlock()
}

// ReadRegistry - list the announced processors in name order
func ReadRegistry() []ProcessorInfo {
	processorTable.RLock()
	result := make([]ProcessorInfo, 0, len(processorTable.processors))
	for _, info := range processorTable.processors {
		result = append(result, *info)
	}
	processorTable.RUnlock()

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Processor < result[j].Processor
	})
	return result
}

// CountProcessors - the number of announced processors
func CountProcessors() int {
	processorTable.RLock()
	defer processorTable.RUnlock()
	return len(processorTable.processors)
}

type registry struct {
	log     *logger.L
	push    *zmq.Socket // signal send
	pull    *zmq.Socket // signal receive
	socket4 *zmq.Socket // IPv4 traffic
	socket6 *zmq.Socket // IPv6 traffic
}

// initialise the registration listener
func (reg *registry) initialise(privateKey []byte, publicKey []byte, register []string) error {

	log := logger.New("registry")
	reg.log = log

	log.Info("initialising…")

	c, err := util.NewConnections(register)
	if nil != err {
		log.Errorf("ip and port error: %s", err)
		return err
	}

	// signalling channel
	reg.pull, reg.push, err = zmqutil.NewSignalPair(registrySignal)
	if nil != err {
		return err
	}

	// allocate IPv4 and IPv6 sockets
	reg.socket4, reg.socket6, err = zmqutil.NewBind(log, zmq.REP, registryZapDomain, privateKey, publicKey, c)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}

	return nil
}

// Run - wait for processor announcements and reply
func (reg *registry) Run(args interface{}, shutdown <-chan struct{}) {

	log := reg.log

	log.Info("starting…")

	go func() {
		poller := zmq.NewPoller()
		if nil != reg.socket4 {
			poller.Add(reg.socket4, zmq.POLLIN)
		}
		if nil != reg.socket6 {
			poller.Add(reg.socket6, zmq.POLLIN)
		}
		poller.Add(reg.pull, zmq.POLLIN)
	loop:
		for {
			sockets, _ := poller.Poll(-1)
			for _, socket := range sockets {
				switch s := socket.Socket; s {
				case reg.socket4:
					reg.process(reg.socket4)
				case reg.socket6:
					reg.process(reg.socket6)
				case reg.pull:
					s.RecvMessageBytes(0)
					break loop
				}
			}
		}
		log.Info("shutting down")
		reg.pull.Close()
		if nil != reg.socket4 {
			reg.socket4.Close()
		}
		if nil != reg.socket6 {
			reg.socket6.Close()
		}
		log.Info("stopped")
	}()

	// wait for shutdown
	log.Info("waiting…")
	<-shutdown
	log.Info("initiate shutdown")
	reg.push.SendMessage("stop")
	reg.push.Close()
}

// process an announcement and return the response
func (reg *registry) process(socket *zmq.Socket) {

	log := reg.log

	data, err := socket.RecvMessageBytes(0)
	if nil != err {
		log.Errorf("receive error: %s", err)
		return
	}

	if 1 > len(data) {
		return
	}

	fn := string(data[0])
	parameters := data[1:]

	log.Debugf("received message: %q: %x", fn, parameters)

	switch fn {
	case "R": // processor registration
		if 1 != len(parameters) {
			registrySendError(socket, fault.MissingParameters)
			return
		}
		response := registerProcessor(log, parameters[0])
		result, err := proto.Marshal(response)
		if nil != err {
			registrySendError(socket, err)
			return
		}
		_, err = socket.Send(fn, zmq.SNDMORE)
		if nil != err {
			log.Errorf("send error: %s", err)
			return
		}
		_, err = socket.SendBytes(result, 0)
		if nil != err {
			log.Errorf("send error: %s", err)
		}

	default:
		registrySendError(socket, fault.MissingParameters)
	}
}

// send an error packet
func registrySendError(socket *zmq.Socket, e error) {
	_, err := socket.Send("E", zmq.SNDMORE)
	if nil != err {
		return
	}
	socket.Send(e.Error(), 0)
}

// validate an announcement and record the processor
//
// a mismatched family is reported in the response rather than as a
// transport error so the processor can log the reason
func registerProcessor(log *logger.L, data []byte) *messages.RegistrationResponse {

	registration := &messages.Registration{}
	err := proto.Unmarshal(data, registration)
	if nil != err {
		return &messages.RegistrationResponse{
			Ok:    false,
			Error: err.Error(),
		}
	}

	if "" == registration.Processor {
		return &messages.RegistrationResponse{
			Ok:    false,
			Error: fault.MissingParameters.Error(),
		}
	}

	if transactionrecord.FamilyName != registration.FamilyName ||
		transactionrecord.FamilyVersion != registration.FamilyVersion {
		log.Warnf("reject processor: %q  family: %s/%s",
			registration.Processor, registration.FamilyName, registration.FamilyVersion)
		return &messages.RegistrationResponse{
			Ok:    false,
			Error: fault.InvalidFamily.Error(),
		}
	}

	addProcessor(registration)

	log.Infof("registered processor: %q  family: %s/%s",
		registration.Processor, registration.FamilyName, registration.FamilyVersion)

	return &messages.RegistrationResponse{
		Ok:    true,
		Chain: mode.ChainName(),
	}
}
