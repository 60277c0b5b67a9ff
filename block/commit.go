// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"encoding/binary"
	"time"

	proto "github.com/golang/protobuf/proto"

	"github.com/bitmark-inc/marbled/blockheader"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/blockring"
	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/ownership"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// CommitReceipt - validate an execution receipt and commit its block
//
// the whole commit runs under the block lock so only one block is
// assembled and written at a time
func CommitReceipt(data []byte) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	log := globalData.log

	receipt := &messages.ExecutionReceipt{}
	err := proto.Unmarshal(data, receipt)
	if nil != err {
		return err
	}

	if merkle.DigestLength != len(receipt.BatchId) {
		return fault.InvalidBatch
	}
	var batchId merkle.Digest
	copy(batchId[:], receipt.BatchId)

	// a failed execution cannot produce a block, record the reason
	// for status queries and drop the batch
	if !receipt.Ok {
		pending.SetInvalid(batchId, receipt.Message)
		return fault.InvalidBatch
	}

	entry, ok := pending.Fetch(batchId)
	if !ok {
		return fault.ReceiptNotPending
	}

	err = validateReceipt(entry, receipt)
	if nil != err {
		log.Warnf("batch: %s rejected: %s", batchId, err)
		pending.SetInvalid(batchId, err.Error())
		return err
	}

	// the merkle root covers the batch id then every transaction id
	// in commit order
	ids := make([]merkle.Digest, 1, len(entry.TxIds)+1)
	ids[0] = batchId
	ids = append(ids, entry.TxIds...)

	previousBlock, blockNumber := blockheader.GetNew()

	header := &blockrecord.Header{
		Version:          blockrecord.Version,
		TransactionCount: uint16(len(ids)),
		Number:           blockNumber,
		PreviousBlock:    previousBlock,
		MerkleRoot:       merkle.Root(ids),
		Timestamp:        uint64(time.Now().Unix()),
	}

	packedHeader := header.Pack()
	digest := packedHeader.Digest()

	size := len(packedHeader) + len(entry.Packed)
	for _, packedTx := range entry.Transactions {
		size += len(packedTx)
	}
	packedBlock := make([]byte, 0, size)
	packedBlock = append(packedBlock, packedHeader[:]...)
	packedBlock = append(packedBlock, entry.Packed...)
	for _, packedTx := range entry.Transactions {
		packedBlock = append(packedBlock, packedTx...)
	}

	blockNumberKey := make([]byte, 8)
	binary.BigEndian.PutUint64(blockNumberKey, blockNumber)

	// the block, the transaction and batch records and all state
	// updates reach the disk in one batched write
	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	trx.Put(storage.Pool.Blocks, blockNumberKey, packedBlock, []byte{})
	trx.Put(storage.Pool.Batches, batchId[:], blockNumberKey, entry.Packed)

	for i, txReceipt := range receipt.Transactions {
		txId := entry.TxIds[i]
		trx.Put(storage.Pool.Transactions, txId[:], blockNumberKey, entry.Transactions[i])

		err = applyMutations(trx, txId, blockNumberKey, txReceipt.Mutations)
		if nil != err {
			trx.Abort()
			log.Criticalf("block: %d state update failed: %s", blockNumber, err)
			return err
		}
	}

	err = trx.Commit()
	if nil != err {
		log.Criticalf("block: %d store failed: %s", blockNumber, err)
		return err
	}

	blockring.Put(blockNumber, digest, packedBlock)
	blockheader.Set(blockNumber, digest, header.Version, header.Timestamp)

	log.Infof("committed block: %d  batch: %s  transactions: %d", blockNumber, batchId, len(entry.TxIds))

	pending.DeleteByBatchId(batchId)

	messagebus.Bus.Broadcast.Send("block", blockNumberKey, digest[:])
	for i, txReceipt := range receipt.Transactions {
		txId := entry.TxIds[i]
		for _, m := range txReceipt.Mutations {
			flag := []byte{0x00}
			if m.Delete {
				flag = []byte{0x01}
			}
			messagebus.Bus.Broadcast.Send("delta", blockNumberKey, txId[:], []byte(m.Address), flag, m.Value)
		}
	}

	return nil
}

// check an execution receipt against its stored pending batch
//
// the receipt must list the same transactions in the same order and
// every mutation must target a state address its transaction declared
// as an output
func validateReceipt(entry *pending.Entry, receipt *messages.ExecutionReceipt) error {

	if len(receipt.Transactions) != len(entry.TxIds) {
		return fault.ReceiptMismatch
	}

	testnet := mode.IsTesting()

	for i, txReceipt := range receipt.Transactions {

		txId := entry.TxIds[i]
		if !bytes.Equal(txReceipt.TxId, txId[:]) {
			return fault.ReceiptMismatch
		}

		unpacked, _, err := entry.Transactions[i].Unpack(testnet)
		if nil != err {
			return err
		}
		tx, ok := unpacked.(*transactionrecord.MarbleTransaction)
		if !ok {
			return fault.NotTransactionPack
		}

		outputs := make(map[string]struct{}, len(tx.Outputs))
		for _, address := range tx.Outputs {
			outputs[address] = struct{}{}
		}

		for _, m := range txReceipt.Mutations {
			if _, ok := outputs[m.Address]; !ok {
				return fault.OutputNotDeclared
			}
			err := transactionrecord.ValidateAddress(m.Address)
			if nil != err {
				return err
			}
			if !m.Delete {
				_, err := transactionrecord.MarbleFromBytes(m.Value)
				if nil != err {
					return err
				}
			}
		}
	}

	return nil
}

// write the state changes of one transaction
//
// marble state, the owner and colour indexes and the per address
// history advance together so the index database always matches the
// block being written
func applyMutations(trx storage.Transaction, txId merkle.Digest, blockNumberKey []byte, mutations []*messages.StateEntry) error {

	for _, m := range mutations {

		address := []byte(m.Address)

		// a key deleted earlier in this same commit still reads its
		// old disk value here, so a delete-then-init batch repeats the
		// index removal before writing the new owner and colour entries
		_, oldState := trx.GetNB(storage.Pool.Marbles, address)

		if m.Delete {
			if nil == oldState {
				// deleting an absent marble is not a state change
				continue
			}
			trx.Delete(storage.Pool.Marbles, address)
			err := ownership.Update(trx, m.Address, oldState, nil)
			if nil != err {
				return err
			}
			historyAppend(trx, txId, blockNumberKey, address, nil)

		} else {
			trx.Put(storage.Pool.Marbles, address, blockNumberKey, m.Value)
			err := ownership.Update(trx, m.Address, oldState, m.Value)
			if nil != err {
				return err
			}
			historyAppend(trx, txId, blockNumberKey, address, m.Value)
		}
	}

	return nil
}

// append one history record for a state address
//
// the value starts with the transaction id then the block number, a
// delete entry carries no marble data after them
func historyAppend(trx storage.Transaction, txId merkle.Digest, blockNumberKey []byte, address []byte, state []byte) {

	count, _ := trx.GetN(storage.Pool.History, address)

	countKey := make([]byte, len(address)+8)
	copy(countKey, address)
	binary.BigEndian.PutUint64(countKey[len(address):], count)

	value := make([]byte, 0, merkle.DigestLength+8+len(state))
	value = append(value, txId[:]...)
	value = append(value, blockNumberKey...)
	value = append(value, state...)

	trx.Put(storage.Pool.History, countKey, value, []byte{})
	trx.PutN(storage.Pool.History, address, count+1)
}
