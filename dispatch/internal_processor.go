// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"github.com/golang/protobuf/proto"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/family"
	"github.com/bitmark-inc/marbled/fault"
)

const (
	internalProcessorProtocol = zmq.PAIR
	internalProcessorName     = "internal"
)

// InternalProcessor - this in-process executor is for test usage
type InternalProcessor interface {
	Initialise() error
	Start()
}

type internalProcessor struct {
	endpointRequestStr string
	endpointReplyStr   string
	requestSocket      *zmq.Socket // receive process request
	replySocket        *zmq.Socket // send execution receipt reply
}

func (p *internalProcessor) Initialise() error {
	requestSocket, err := zmq.NewSocket(internalProcessorProtocol)
	if nil != err {
		return err
	}

	err = requestSocket.Connect(p.endpointRequestStr)
	if nil != err {
		return err
	}
	p.requestSocket = requestSocket

	replySocket, err := zmq.NewSocket(internalProcessorProtocol)
	if nil != err {
		return err
	}

	err = replySocket.Bind(p.endpointReplyStr)
	if nil != err {
		return err
	}
	p.replySocket = replySocket

	return nil
}

func (p *internalProcessor) Start() {
	go func() {
	loop:
		for {
			msg, err := p.requestSocket.RecvBytes(0)
			if nil != err {
				continue loop
			}

			replyData, err := proto.Marshal(executeRequest(msg))
			if nil != err {
				continue loop
			}

			_, err = p.replySocket.SendBytes(replyData, 0)
			if nil != err {
				continue loop
			}
		}
	}()
}

// run the family rules over a process request
//
// transactions see the context left by their predecessors in the same
// batch, the first failure aborts the whole batch
func executeRequest(data []byte) *messages.ExecutionReceipt {

	request := &messages.ProcessRequest{}
	err := proto.Unmarshal(data, request)
	if nil != err {
		return &messages.ExecutionReceipt{
			Processor: internalProcessorName,
			Ok:        false,
			Message:   err.Error(),
		}
	}

	context := make(family.Context)
	for _, entry := range request.Context {
		context[entry.Address] = entry.Value
	}

	receipts := make([]*messages.TransactionReceipt, len(request.Transactions))
	for i, tx := range request.Transactions {
		mutations, err := family.Execute(string(tx.Payload), context)
		if nil != err {
			return &messages.ExecutionReceipt{
				Job:       request.Job,
				BatchId:   request.BatchId,
				Processor: internalProcessorName,
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
		Processor:    internalProcessorName,
		Ok:           true,
		Transactions: receipts,
	}
}

// NewInternalProcessorForTest - create a processor pair endpoint
func NewInternalProcessorForTest(request, reply string) (InternalProcessor, error) {
	if request == reply {
		return nil, fault.WrongEndpointString
	}

	return &internalProcessor{
		endpointRequestStr: request,
		endpointReplyStr:   reply,
	}, nil
}
