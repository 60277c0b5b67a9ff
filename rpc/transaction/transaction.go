// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/marbled/rpc/ratelimit"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
	"github.com/bitmark-inc/logger"
)

const (
	// submission is limited by the whole batch
	MaximumTransactionCount = 100

	rateLimitTransaction = 200
	rateBurstTransaction = 100
)

// Transaction - an RPC entry for batch submission and status queries
type Transaction struct {
	Log              *logger.L
	Limiter          *rate.Limiter
	Start            time.Time
	IsNormalMode     func(mode.Mode) bool
	PoolBatches      storage.Handle
	PoolTransactions storage.Handle
}

func New(
	log *logger.L,
	start time.Time,
	isNormalMode func(mode.Mode) bool,
	poolBatches storage.Handle,
	poolTransactions storage.Handle,
) *Transaction {
	return &Transaction{
		Log:              log,
		Limiter:          rate.NewLimiter(rateLimitTransaction, rateBurstTransaction),
		Start:            start,
		IsNormalMode:     isNormalMode,
		PoolBatches:      poolBatches,
		PoolTransactions: poolTransactions,
	}
}

// Transaction submit
// ------------------

// SubmitArguments - signed transactions with their enclosing batch header
//
// the batch header must list the transaction ids in submission order
type SubmitArguments struct {
	Transactions []*transactionrecord.MarbleTransaction `json:"transactions"`
	Batch        *transactionrecord.MarbleBatch         `json:"batch"`
}

// SubmitReply - result from submitting a batch
//
// a duplicate resubmission of the identical batch is acknowledged
// with the same ids and the duplicate flag set
type SubmitReply struct {
	BatchId   merkle.Digest   `json:"batchId"`
	TxIds     []merkle.Digest `json:"txIds"`
	Duplicate bool            `json:"duplicate"`
}

// Submit - verify a signed batch and queue it for processing
func (t *Transaction) Submit(arguments *SubmitArguments, reply *SubmitReply) error {

	if err := ratelimit.LimitN(t.Limiter, len(arguments.Transactions), MaximumTransactionCount); nil != err {
		return err
	}

	log := t.Log
	log.Infof("Transaction.Submit: %+v", arguments)

	if nil == arguments.Batch {
		return fault.MissingParameters
	}

	if !t.IsNormalMode(mode.Normal) {
		return fault.NotAvailableDuringSynchronise
	}

	// pack each transaction to verify its signature
	packed := make([]transactionrecord.Packed, len(arguments.Transactions))
	for i, tx := range arguments.Transactions {
		p, err := tx.Pack(tx.Signer)
		if nil != err {
			return err
		}
		packed[i] = p
	}

	info, duplicate, err := pending.StoreBatch(arguments.Batch, packed, t.PoolBatches, t.PoolTransactions)
	if nil != err {
		return err
	}

	// announce the batch to the dispatcher
	if !duplicate {
		messagebus.Bus.Dispatch.Send("batch", info.BatchId[:])
	}

	log.Infof("batch id: %v", info.BatchId)

	reply.BatchId = info.BatchId
	reply.TxIds = info.TxIds
	reply.Duplicate = duplicate

	return nil
}

// Transaction status
// ------------------

// StatusArguments - batch id or transaction id to query
//
// the batch id takes precedence when both are supplied
type StatusArguments struct {
	BatchId *merkle.Digest `json:"batchId,omitempty"`
	TxId    *merkle.Digest `json:"txId,omitempty"`
}

// StatusReply - results from status RPC
type StatusReply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"` // reason when status is INVALID
}

// Status - query batch or transaction status
func (t *Transaction) Status(arguments *StatusArguments, reply *StatusReply) error {

	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}

	log := t.Log
	log.Infof("Transaction.Status: %+v", arguments)

	switch {
	case nil != arguments.BatchId:
		state := pending.BatchStatus(*arguments.BatchId, t.PoolBatches)
		reply.Status = state.String()
		if pending.StateInvalid == state {
			if message, ok := pending.InvalidMessage(*arguments.BatchId); ok {
				reply.Message = message
			}
		}

	case nil != arguments.TxId:
		reply.Status = pending.TransactionStatus(*arguments.TxId, t.PoolTransactions).String()

	default:
		return fault.MissingParameters
	}

	return nil
}
