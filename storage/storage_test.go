// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marbled/storage"
)

const (
	number = 1234

	marbleID = 5
	batchID  = 3
	blockID  = 7
	txID     = 8
	ownerID  = 9
	colourID = 6
)

var (
	packedMarble = []byte("marble01,red,35,alice")
	packedBatch  = []byte{batchID}
	packedBlock  = []byte{0, 0, 0, 0, 0, 0, 0, 0, blockID}
	packedTx     = []byte{txID}

	blockNumber []byte
)

func init() {
	blockNumber = make([]byte, 8)
	binary.BigEndian.PutUint64(blockNumber, uint64(number))
}

func setupTransaction(t *testing.T) storage.Transaction {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	return trx
}

func TestMarblesPut(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.Marbles
	trx.Put(pool, []byte{marbleID}, blockNumber, packedMarble)
	_ = trx.Commit()

	bn, data := trx.GetNB(pool, []byte{marbleID})

	assert.Equal(t, uint64(number), bn, "wrong marble block number")
	assert.Equal(t, packedMarble, data, "wrong marble data")
}

func TestTransactionsPut(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.Transactions
	trx.Put(pool, []byte{txID}, blockNumber, packedTx)
	_ = trx.Commit()

	bn, data := trx.GetNB(pool, []byte{txID})

	assert.Equal(t, uint64(number), bn, "wrong transaction block number")
	assert.Equal(t, packedTx, data, "wrong transaction data")
}

func TestBatchesPut(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.Batches
	trx.Put(pool, []byte{batchID}, blockNumber, packedBatch)
	_ = trx.Commit()

	bn, data := trx.GetNB(pool, []byte{batchID})

	assert.Equal(t, uint64(number), bn, "wrong batch block number")
	assert.Equal(t, packedBatch, data, "wrong batch data")
}

func TestBlocksPut(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.Blocks
	trx.Put(pool, blockNumber, packedBlock, []byte{})
	_ = trx.Commit()

	data := trx.Get(pool, blockNumber)

	assert.Equal(t, packedBlock, data, "wrong block data")
	assert.Equal(t, true, trx.Has(pool, blockNumber), "missing block")
}

func TestHistoryNextCount(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.History
	trx.PutN(pool, []byte{marbleID}, uint64(2))
	_ = trx.Commit()

	count, found := trx.GetN(pool, []byte{marbleID})

	assert.Equal(t, true, found, "missing history count")
	assert.Equal(t, uint64(2), count, "wrong history count")

	// unset key must return zero and not found
	count, found = trx.GetN(pool, []byte{marbleID + 1})
	assert.Equal(t, false, found, "unexpected history count")
	assert.Equal(t, uint64(0), count, "wrong empty history count")
}

func TestOwnerIndexPut(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.OwnerIndex
	trx.Put(pool, []byte{ownerID}, []byte("marble01"), []byte{})
	_ = trx.Commit()

	data := trx.Get(pool, []byte{ownerID})

	assert.Equal(t, []byte("marble01"), data, "wrong owner index data")
}

func TestColourIndexDelete(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.ColourIndex
	trx.Put(pool, []byte{colourID}, []byte("marble01"), []byte{})
	_ = trx.Commit()

	assert.Equal(t, true, trx.Has(pool, []byte{colourID}), "missing colour index entry")

	trx = setupTransaction(t)
	trx.Delete(pool, []byte{colourID})
	_ = trx.Commit()

	assert.Equal(t, false, trx.Has(pool, []byte{colourID}), "colour index entry not deleted")
	assert.Nil(t, trx.Get(pool, []byte{colourID}), "colour index data not deleted")
}

func TestPutVisibleInsideTransaction(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx := setupTransaction(t)
	pool := storage.Pool.TestData
	trx.Put(pool, []byte{'k'}, []byte{'v'}, []byte{})

	// not yet committed, the write-through cache supplies the value
	data := trx.Get(pool, []byte{'k'})
	assert.Equal(t, []byte{'v'}, data, "uncommitted data not visible")

	trx.Abort()

	// abandoned data must be gone
	assert.Nil(t, trx.Get(pool, []byte{'k'}), "aborted data still visible")
}
