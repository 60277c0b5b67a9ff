// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block - block assembly, commitment and replay
//
// a background committer consumes validated execution receipts,
// assembles each batch into the next block and writes the block
// together with all state, history and index changes in a single
// database transaction
//
// at startup the stored block log is replayed to verify the digest
// chain and, when the index database is missing, to rebuild it by
// re-executing every batch
package block

import (
	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// Block - the unpacked content of one stored block
type Block struct {
	Header       *blockrecord.Header                    `json:"header"`
	Digest       blockdigest.Digest                     `json:"digest"`
	BatchId      merkle.Digest                          `json:"batchId"`
	Batch        *transactionrecord.MarbleBatch         `json:"batch"`
	PackedBatch  transactionrecord.Packed               `json:"-"`
	TxIds        []merkle.Digest                        `json:"txIds"`
	Transactions []*transactionrecord.MarbleTransaction `json:"transactions"`
	Packed       []transactionrecord.Packed             `json:"-"`
}

// Decode - unpack a stored block and verify its internal consistency
//
// the layout is: header ++ batch record ++ transaction records, the
// merkle root must cover the batch id followed by the transaction ids
// and the batch header must list exactly those transaction ids
//
// pass zero as expectedNumber to skip the block number check
func Decode(packedBlock []byte, expectedNumber uint64) (*Block, error) {

	header, digest, data, err := blockrecord.ExtractHeader(packedBlock, expectedNumber)
	if nil != err {
		return nil, err
	}

	// the first record is the batch header
	unpacked, n, err := transactionrecord.Packed(data).Unpack(mode.IsTesting())
	if nil != err {
		return nil, err
	}
	batch, ok := unpacked.(*transactionrecord.MarbleBatch)
	if !ok {
		return nil, fault.InvalidBatch
	}
	packedBatch := transactionrecord.Packed(data[:n])
	batchId := packedBatch.MakeId()
	data = data[n:]

	// the remaining records are the transactions
	count := int(header.TransactionCount) - 1
	if count < 1 {
		return nil, fault.TransactionCountOutOfRange
	}

	ids := make([]merkle.Digest, 1, 1+count)
	ids[0] = batchId

	txIds := make([]merkle.Digest, 0, count)
	transactions := make([]*transactionrecord.MarbleTransaction, 0, count)
	packed := make([]transactionrecord.Packed, 0, count)

	for i := 0; i < count; i += 1 {
		unpacked, n, err := transactionrecord.Packed(data).Unpack(mode.IsTesting())
		if nil != err {
			return nil, err
		}
		tx, ok := unpacked.(*transactionrecord.MarbleTransaction)
		if !ok {
			return nil, fault.NotTransactionPack
		}

		packedTx := transactionrecord.Packed(data[:n])
		txId := packedTx.MakeId()

		txIds = append(txIds, txId)
		ids = append(ids, txId)
		transactions = append(transactions, tx)
		packed = append(packed, packedTx)
		data = data[n:]
	}

	if 0 != len(data) {
		return nil, fault.TransactionCountOutOfRange
	}

	// the stored merkle root must match the recomputed one
	if merkle.Root(ids) != header.MerkleRoot {
		return nil, fault.MerkleRootDoesNotMatch
	}

	// the batch header must list the transactions in block order
	if len(batch.TxIds) != len(txIds) {
		return nil, fault.InvalidBatch
	}
	for i, txId := range txIds {
		if batch.TxIds[i] != txId {
			return nil, fault.InvalidBatch
		}
	}

	return &Block{
		Header:       header,
		Digest:       digest,
		BatchId:      batchId,
		Batch:        batch,
		PackedBatch:  packedBatch,
		TxIds:        txIds,
		Transactions: transactions,
		Packed:       packed,
	}, nil
}
