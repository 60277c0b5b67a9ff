// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/marbled/fault"
)

// the actions of the marbles family
const (
	ActionInitMarble     = "initMarble"
	ActionTransferMarble = "transferMarble"
	ActionDeleteMarble   = "deleteMarble"
)

// field counts including the action itself
const (
	initMarbleFields     = 5
	transferMarbleFields = 3
	deleteMarbleFields   = 2
)

// MarblePayload - a decoded marbles family payload
//
// every action carries the marble name as its first argument
type MarblePayload struct {
	Action string
	Args   []string
}

// InitMarblePayload - build the payload to create a marble
func InitMarblePayload(name string, color string, size int, owner string) string {
	return strings.Join([]string{ActionInitMarble, name, color, strconv.Itoa(size), owner}, ",")
}

// TransferMarblePayload - build the payload to change a marble owner
func TransferMarblePayload(name string, owner string) string {
	return strings.Join([]string{ActionTransferMarble, name, owner}, ",")
}

// DeleteMarblePayload - build the payload to remove a marble
func DeleteMarblePayload(name string) string {
	return strings.Join([]string{ActionDeleteMarble, name}, ",")
}

// ParsePayload - split a comma separated payload and check its field count
func ParsePayload(payload string) (*MarblePayload, error) {

	if 0 == len(payload) || len(payload) > maxPayloadLength {
		return nil, fault.InvalidPayload
	}

	fields := strings.Split(payload, ",")

	p := &MarblePayload{
		Action: fields[0],
		Args:   fields[1:],
	}

	switch p.Action {
	case ActionInitMarble:
		if initMarbleFields != len(fields) {
			return nil, fault.InvalidNumberOfArgs
		}
	case ActionTransferMarble:
		if transferMarbleFields != len(fields) {
			return nil, fault.InvalidNumberOfArgs
		}
	case ActionDeleteMarble:
		if deleteMarbleFields != len(fields) {
			return nil, fault.InvalidNumberOfArgs
		}
	default:
		return nil, fault.UnhandledAction
	}

	return p, nil
}

// Name - the marble name argument common to every action
func (p *MarblePayload) Name() string {
	return p.Args[0]
}

// Address - the state address the payload operates on
func (p *MarblePayload) Address() string {
	return StateAddress(p.Name())
}
