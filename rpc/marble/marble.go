// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marble

import (
	"encoding/binary"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/ownership"
	"github.com/bitmark-inc/marbled/rpc/ratelimit"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/logger"
)

// Marble - type for the RPC
//
// the wire format uses the American spelling "color" to stay
// compatible with the payload fields
type Marble struct {
	Log         *logger.L
	Limiter     *rate.Limiter
	PoolMarbles storage.Handle
	PoolBlocks  storage.Handle
	PoolHistory storage.Handle
	Ownership   ownership.Ownership
}

const (
	MaximumListCount = 100
	rateLimitMarble  = 200
	rateBurstMarble  = 100
)

func New(
	log *logger.L,
	poolMarbles storage.Handle,
	poolBlocks storage.Handle,
	poolHistory storage.Handle,
	os ownership.Ownership,
) *Marble {
	return &Marble{
		Log:         log,
		Limiter:     rate.NewLimiter(rateLimitMarble, rateBurstMarble),
		PoolMarbles: poolMarbles,
		PoolBlocks:  poolBlocks,
		PoolHistory: poolHistory,
		Ownership:   os,
	}
}

// Marble read
// -----------

// ReadArguments - arguments for RPC
type ReadArguments struct {
	Name string `json:"name"`
}

// ReadReply - current state of a single marble
type ReadReply struct {
	Marble      *transactionrecord.Marble `json:"marble"`
	Address     string                    `json:"address"`
	BlockNumber uint64                    `json:"blockNumber,string"`
}

// Read - fetch the current state of one marble by name
func (m *Marble) Read(arguments *ReadArguments, reply *ReadReply) error {

	if err := ratelimit.Limit(m.Limiter); nil != err {
		return err
	}

	log := m.Log
	log.Infof("Marble.Read: %+v", arguments)

	if "" == arguments.Name {
		return fault.MissingParameters
	}

	address := transactionrecord.StateAddress(arguments.Name)

	blockNumber, state := m.PoolMarbles.GetNB([]byte(address))
	if nil == state {
		return fault.DataNotFound
	}

	marble, err := transactionrecord.MarbleFromBytes(state)
	if nil != err {
		return err
	}

	reply.Marble = marble
	reply.Address = address
	reply.BlockNumber = blockNumber

	return nil
}

// Marble list
// -----------

// ListArguments - arguments for RPC
//
// start is the address of the last record from the previous call,
// empty to begin at the first address
type ListArguments struct {
	Start string `json:"start"`
	Count int    `json:"count"`
}

// ListReply - result of list RPC
type ListReply struct {
	Marbles []ownership.Record `json:"marbles"`
	Next    string             `json:"next"` // start value for the next call
}

// List - list all marbles in state address order
func (m *Marble) List(arguments *ListArguments, reply *ListReply) error {

	if err := ratelimit.LimitN(m.Limiter, arguments.Count, MaximumListCount); nil != err {
		return err
	}

	log := m.Log
	log.Infof("Marble.List: %+v", arguments)

	records, err := m.Ownership.ListAll(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}

	reply.Marbles = records
	if len(records) > 0 {
		reply.Next = records[len(records)-1].Address
	}

	return nil
}

// Marble owned
// ------------

// OwnedArguments - arguments for RPC
type OwnedArguments struct {
	Owner string `json:"owner"`
	Start string `json:"start"`
	Count int    `json:"count"`
}

// Owned - list marbles belonging to one owner
func (m *Marble) Owned(arguments *OwnedArguments, reply *ListReply) error {

	if err := ratelimit.LimitN(m.Limiter, arguments.Count, MaximumListCount); nil != err {
		return err
	}

	log := m.Log
	log.Infof("Marble.Owned: %+v", arguments)

	if "" == arguments.Owner {
		return fault.MissingParameters
	}

	records, err := m.Ownership.ListOwnedBy(arguments.Owner, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}

	reply.Marbles = records
	if len(records) > 0 {
		reply.Next = records[len(records)-1].Address
	}

	return nil
}

// Marble by color
// ---------------

// ByColorArguments - arguments for RPC
type ByColorArguments struct {
	Color string `json:"color"`
	Start string `json:"start"`
	Count int    `json:"count"`
}

// ByColor - list marbles of one colour
func (m *Marble) ByColor(arguments *ByColorArguments, reply *ListReply) error {

	if err := ratelimit.LimitN(m.Limiter, arguments.Count, MaximumListCount); nil != err {
		return err
	}

	log := m.Log
	log.Infof("Marble.ByColor: %+v", arguments)

	if "" == arguments.Color {
		return fault.MissingParameters
	}

	records, err := m.Ownership.ListByColour(arguments.Color, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}

	reply.Marbles = records
	if len(records) > 0 {
		reply.Next = records[len(records)-1].Address
	}

	return nil
}

// Marble history
// --------------

// HistoryArguments - arguments for RPC
type HistoryArguments struct {
	Name string `json:"name"`
}

// HistoryReply - every committed touch of a marble oldest first
type HistoryReply struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	History []HistoryRecord `json:"history"`
}

// HistoryRecord - one committed state change
//
// a delete entry carries no marble data
type HistoryRecord struct {
	TxId        merkle.Digest             `json:"txId"`
	BlockNumber uint64                    `json:"blockNumber,string"`
	Timestamp   time.Time                 `json:"timestamp"`
	IsDelete    bool                      `json:"isDelete"`
	Marble      *transactionrecord.Marble `json:"marble,omitempty"`
}

// History - full lineage of one marble name
//
// a name that was never committed yields an empty list
func (m *Marble) History(arguments *HistoryArguments, reply *HistoryReply) error {

	if err := ratelimit.Limit(m.Limiter); nil != err {
		return err
	}

	log := m.Log
	log.Infof("Marble.History: %+v", arguments)

	if "" == arguments.Name {
		return fault.MissingParameters
	}

	address := transactionrecord.StateAddress(arguments.Name)

	reply.Name = arguments.Name
	reply.Address = address
	reply.History = []HistoryRecord{}

	count, ok := m.PoolHistory.GetN([]byte(address))
	if !ok {
		return nil
	}

	// block timestamps are looked up once per block
	timestamps := make(map[uint64]time.Time)

	history := make([]HistoryRecord, 0, count)

	for i := uint64(0); i < count; i += 1 {
		entryKey := make([]byte, 0, len(address)+8)
		entryKey = append(entryKey, address...)
		numberKey := make([]byte, 8)
		binary.BigEndian.PutUint64(numberKey, i)
		entryKey = append(entryKey, numberKey...)

		packed := m.PoolHistory.Get(entryKey)
		if len(packed) < merkle.DigestLength+8 {
			log.Criticalf("missing history entry %d for: %s", i, address)
			logger.Panicf("missing history entry %d for: %s", i, address)
		}

		var txId merkle.Digest
		copy(txId[:], packed[:merkle.DigestLength])
		blockNumber := binary.BigEndian.Uint64(packed[merkle.DigestLength : merkle.DigestLength+8])
		state := packed[merkle.DigestLength+8:]

		record := HistoryRecord{
			TxId:        txId,
			BlockNumber: blockNumber,
		}

		timestamp, ok := timestamps[blockNumber]
		if !ok {
			t, err := m.blockTime(blockNumber)
			if nil != err {
				return err
			}
			timestamps[blockNumber] = t
			timestamp = t
		}
		record.Timestamp = timestamp

		if 0 == len(state) {
			record.IsDelete = true
		} else {
			marble, err := transactionrecord.MarbleFromBytes(state)
			if nil != err {
				return err
			}
			record.Marble = marble
		}

		history = append(history, record)
	}

	reply.History = history

	return nil
}

// timestamp from the header of a stored block
func (m *Marble) blockTime(number uint64) (time.Time, error) {
	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, number)

	packed := m.PoolBlocks.Get(n)
	if nil == packed {
		return time.Time{}, fault.BlockNotFound
	}

	header, _, _, err := blockrecord.ExtractHeader(packed, number)
	if nil != err {
		return time.Time{}, err
	}

	return time.Unix(int64(header.Timestamp), 0).UTC(), nil
}
