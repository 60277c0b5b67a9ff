// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending

import (
	"time"

	"github.com/bitmark-inc/marbled/cache"
	"github.com/bitmark-inc/marbled/constants"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// BatchInfo - result returned by store batch
type BatchInfo struct {
	BatchId merkle.Digest            `json:"batchId"`
	TxIds   []merkle.Digest          `json:"txIds"`
	Packed  transactionrecord.Packed `json:"packed"`
}

// StoreBatch - verify a batch and store it in the pending pool
//
// returns the batch info and a duplicate flag
//
// for duplicate to be true the batch id must match a previous
// submission exactly, so a client can safely resubmit after a lost
// reply without receiving an already exists error, a batch that is
// already in a block is acknowledged the same way
func StoreBatch(
	batch *transactionrecord.MarbleBatch,
	transactions []transactionrecord.Packed,
	batchesHandle storage.Handle,
	transactionsHandle storage.Handle,
) (*BatchInfo, bool, error) {

	count := len(batch.TxIds)
	if 0 == count {
		return nil, false, fault.MissingParameters
	} else if count > maximumTransactions {
		return nil, false, fault.TransactionCountOutOfRange
	}
	if len(transactions) != count {
		return nil, false, fault.InvalidBatch
	}

	// critical code - prevent overlapping batches
	globalData.Lock()
	defer globalData.Unlock()

	// validate the header signature
	packedBatch, err := batch.Pack(batch.Signer)
	if nil != err {
		return nil, false, err
	}

	batchId := packedBatch.MakeId()

	// a batch that already made it into a block is only acknowledged
	if batchesHandle.Has(batchId[:]) {
		globalData.log.Debugf("already committed batch id: %s", batchId)
		result := &BatchInfo{
			BatchId: batchId,
			TxIds:   batch.TxIds,
			Packed:  packedBatch,
		}
		return result, true, nil
	}

	// all the tx ids corresponding to separated
	txIds := make([]merkle.Digest, count)

	// individual packed transactions
	separated := make([]transactionrecord.Packed, count)

	// this flags already stored transactions
	// used to flag an error if the batch id is different
	// as this would be an overlapping batch
	duplicate := false

	// verify each transaction
	for i, packedTx := range transactions {

		unpacked, _, err := packedTx.Unpack(mode.IsTesting())
		if nil != err {
			return nil, false, err
		}

		tx, ok := unpacked.(*transactionrecord.MarbleTransaction)
		if !ok {
			return nil, false, fault.NotTransactionPack
		}

		// validate the record signature
		_, err = tx.Pack(tx.Signer)
		if nil != err {
			return nil, false, err
		}

		txId := packedTx.MakeId()

		// the header must list the ids in submission order
		if txId != batch.TxIds[i] {
			return nil, false, fault.InvalidBatch
		}

		// a pending transaction tags the batch as possible duplicate
		// (decided by the batch id check below)
		if enclosing, ok := globalData.index[txId]; ok {
			if enclosing != batchId {
				return nil, false, fault.TransactionAlreadyExists
			}
			duplicate = true
		}

		// a single committed transaction fails the whole batch
		if transactionsHandle.Has(txId[:]) {
			return nil, false, fault.TransactionAlreadyExists
		}

		// accumulate the data
		txIds[i] = txId
		separated[i] = packedTx
	}

	result := &BatchInfo{
		BatchId: batchId,
		TxIds:   txIds,
		Packed:  packedBatch,
	}

	// if already seen just return the batch id
	if _, ok := globalData.entries[batchId]; ok {
		globalData.log.Debugf("duplicate batch id: %s", batchId)
		return result, true, nil
	}

	// if duplicates were detected, but no complete entry was present
	// then it is an error
	if duplicate {
		globalData.log.Debugf("overlapping batch id: %s", batchId)
		return nil, false, fault.BatchAlreadyExists
	}

	globalData.log.Infof("storing batch id: %s", batchId)

	expiresAt := time.Now().Add(constants.PendingTimeout)

	// create index entries
	for _, txId := range txIds {
		globalData.index[txId] = batchId
	}

	// save the batch
	entry := &batchEntry{
		batchId:      batchId,
		packed:       packedBatch,
		txIds:        txIds,
		transactions: separated,
		expires:      expiresAt,
	}
	globalData.entries[batchId] = entry

	return result, false, nil
}

// Entry - data needed to dispatch a batch for execution
type Entry struct {
	BatchId      merkle.Digest
	Packed       transactionrecord.Packed // packed batch header
	TxIds        []merkle.Digest
	Transactions []transactionrecord.Packed
}

// Fetch - get a single pending batch
func Fetch(batchId merkle.Digest) (*Entry, bool) {
	globalData.RLock()
	defer globalData.RUnlock()

	entry, ok := globalData.entries[batchId]
	if !ok {
		return nil, false
	}
	return entryToFetched(entry), true
}

// FetchPending - get a series of pending batches for dispatch
func FetchPending(count int) ([]*Entry, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	fetched := make([]*Entry, 0, count)

	globalData.RLock()
	if globalData.enabled {
		for _, entry := range globalData.entries {
			fetched = append(fetched, entryToFetched(entry))
			if len(fetched) >= count {
				break
			}
		}
	}
	globalData.RUnlock()
	return fetched, nil
}

func entryToFetched(entry *batchEntry) *Entry {
	return &Entry{
		BatchId:      entry.batchId,
		Packed:       entry.packed,
		TxIds:        entry.txIds,
		Transactions: entry.transactions,
	}
}

// DeleteByBatchId - remove a batch, used after its block is committed
func DeleteByBatchId(batchId merkle.Digest) {
	globalData.Lock()
	if entry, ok := globalData.entries[batchId]; ok {
		for _, txId := range entry.txIds {
			delete(globalData.index, txId)
		}
		delete(globalData.entries, batchId)
	}
	globalData.Unlock()
}

// SetInvalid - remove a batch that failed execution
//
// the message from the transaction processor is retained so a status
// query can report why the batch never committed
func SetInvalid(batchId merkle.Digest, message string) {
	globalData.Lock()
	if entry, ok := globalData.entries[batchId]; ok {
		for _, txId := range entry.txIds {
			delete(globalData.index, txId)
		}
		delete(globalData.entries, batchId)
	}
	globalData.Unlock()

	cache.Pool.InvalidBatches.Put(batchId.String(), message)
}
