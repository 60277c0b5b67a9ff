// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/blockheader"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/blockring"
	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/family"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/storage"
)

// replay - verify the stored block log and refill the block ring
//
// with reindex set the index database records are also rebuilt, each
// batch is re-executed the way its processor originally ran it so the
// indexes are derived from the block log alone
func replay(log *logger.L, reindex bool) error {

	log.Info("replaying stored blocks…")

	blockheader.SetGenesis()
	blockring.Clear(log)

	height, previousBlock, previousVersion, previousTimestamp := blockheader.Get()

	count := 0

	err := storage.Pool.Blocks.NewFetchCursor().Map(func(key []byte, value []byte) error {

		if 8 != len(key) {
			log.Criticalf("corrupt block key: %x", key)
			return fault.InvalidBufferLength
		}
		number := binary.BigEndian.Uint64(key)

		blk, err := Decode(value, number)
		if nil != err {
			log.Criticalf("block: %d decode error: %s", number, err)
			return err
		}
		header := blk.Header

		err = blockrecord.ValidBlockNumber(height, header.Number)
		if nil != err {
			log.Criticalf("block: %d  expected number: %d", header.Number, height+1)
			return err
		}
		err = blockrecord.ValidHeaderVersion(previousVersion, header.Version)
		if nil != err {
			log.Criticalf("block: %d version error: %s", header.Number, err)
			return err
		}
		err = blockrecord.ValidBlockLinkage(previousBlock, header.PreviousBlock)
		if nil != err {
			log.Criticalf("block: %d linkage error: %s", header.Number, err)
			return err
		}

		blockring.Put(header.Number, blk.Digest, value)

		if reindex {
			err = reindexBlock(blk, key)
			if nil != err {
				log.Criticalf("block: %d reindex error: %s", header.Number, err)
				return err
			}
		}

		height = header.Number
		previousBlock = blk.Digest
		previousVersion = header.Version
		previousTimestamp = header.Timestamp
		count += 1

		return nil
	})
	if nil != err {
		return err
	}

	blockheader.Set(height, previousBlock, previousVersion, previousTimestamp)

	if reindex {
		log.Infof("reindexed blocks: %d", count)
	}
	log.Infof("chain verified: height: %d", height)

	return nil
}

// rebuild the index records one block contributes
//
// the execution context is prefetched for the whole batch before any
// transaction runs, execution then updates it in place so later
// transactions observe earlier changes, exactly as the transaction
// processor originally ran the batch
func reindexBlock(blk *Block, blockNumberKey []byte) error {

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	trx.Put(storage.Pool.Batches, blk.BatchId[:], blockNumberKey, blk.PackedBatch)

	context := make(family.Context)
	for _, tx := range blk.Transactions {
		for _, address := range tx.Inputs {
			if _, ok := context[address]; ok {
				continue
			}
			_, state := trx.GetNB(storage.Pool.Marbles, []byte(address))
			if nil != state {
				context[address] = state
			}
		}
	}

	for i, tx := range blk.Transactions {
		txId := blk.TxIds[i]

		trx.Put(storage.Pool.Transactions, txId[:], blockNumberKey, blk.Packed[i])

		mutations, err := family.Execute(tx.Payload, context)
		if nil != err {
			trx.Abort()
			return err
		}

		entries := make([]*messages.StateEntry, len(mutations))
		for j, m := range mutations {
			entries[j] = &messages.StateEntry{
				Address: m.Address,
				Value:   m.Value,
				Delete:  m.Delete,
			}
		}

		err = applyMutations(trx, txId, blockNumberKey, entries)
		if nil != err {
			trx.Abort()
			return err
		}
	}

	return trx.Commit()
}
