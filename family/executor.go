// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package family

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// Context - the state visible to an executing transaction
//
// keys are state addresses, values are packed marble records
type Context map[string][]byte

// Mutation - a single state change produced by an execution
type Mutation struct {
	Address string
	Value   []byte
	Delete  bool
}

// Execute - apply a single payload to a context
//
// the context is updated in place so later transactions in the same
// batch observe earlier changes
func Execute(payload string, context Context) ([]Mutation, error) {

	p, err := transactionrecord.ParsePayload(payload)
	if nil != err {
		if fault.UnhandledAction == err {
			fields := strings.SplitN(payload, ",", 2)
			return nil, fmt.Errorf("%s: %s", fault.UnhandledAction, fields[0])
		}
		return nil, err
	}

	switch p.Action {
	case transactionrecord.ActionInitMarble:
		return initMarble(p, context)
	case transactionrecord.ActionTransferMarble:
		return transferMarble(p, context)
	case transactionrecord.ActionDeleteMarble:
		return deleteMarble(p, context)
	default:
		return nil, fmt.Errorf("%s: %s", fault.UnhandledAction, p.Action)
	}
}

func initMarble(p *transactionrecord.MarblePayload, context Context) ([]Mutation, error) {

	marble, err := transactionrecord.NewMarble(p.Args[0], p.Args[1], p.Args[2], p.Args[3])
	if nil != err {
		return nil, err
	}

	address := marble.Address()
	if _, ok := context[address]; ok {
		return nil, fault.MarbleAlreadyExists
	}

	value := marble.Pack()
	context[address] = value

	return []Mutation{{Address: address, Value: value}}, nil
}

func transferMarble(p *transactionrecord.MarblePayload, context Context) ([]Mutation, error) {

	address := p.Address()
	state, ok := context[address]
	if !ok {
		return nil, fault.MarbleDoesNotExist
	}

	marble, err := transactionrecord.MarbleFromBytes(state)
	if nil != err {
		return nil, err
	}

	err = marble.TransferTo(p.Args[1])
	if nil != err {
		return nil, err
	}

	value := marble.Pack()
	context[address] = value

	return []Mutation{{Address: address, Value: value}}, nil
}

// deleting a marble that does not exist is a no-op
// returning no mutations
func deleteMarble(p *transactionrecord.MarblePayload, context Context) ([]Mutation, error) {

	address := p.Address()
	if _, ok := context[address]; !ok {
		return nil, nil
	}

	delete(context, address)

	return []Mutation{{Address: address, Delete: true}}, nil
}
