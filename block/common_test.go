// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block_test

import (
	"crypto/ed25519"
	"os"
	"testing"

	proto "github.com/golang/protobuf/proto"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/block"
	"github.com/bitmark-inc/marbled/blockheader"
	"github.com/bitmark-inc/marbled/blockring"
	"github.com/bitmark-inc/marbled/cache"
	"github.com/bitmark-inc/marbled/chain"
	"github.com/bitmark-inc/marbled/dispatch/messages"
	"github.com/bitmark-inc/marbled/family"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

const (
	databaseFileName = "test-block"
	pendingFile      = "test.pending"
	loggerFile       = "test.log"
)

var (
	signer     *account.Account
	privateKey []byte
)

func init() {
	p, _ := account.NewED25519PrivateKey(true)
	privateKey = p.PrivateKeyBytes()
	signer = p.Account()
}

func removeFiles() {
	os.RemoveAll(databaseFileName + "-blocks.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll(pendingFile)
	os.RemoveAll(loggerFile)
}

// configure for testing with an empty chain
func setup(t *testing.T) {
	removeFiles()
	startDaemon(t)
}

// start every subsystem the committer depends on
//
// databases left by a previous start are reopened so a restart
// exercises the replay path
func startDaemon(t *testing.T) {

	_ = logger.Initialise(logger.Configuration{
		Directory: ".",
		File:      loggerFile,
		Size:      50000,
		Count:     10,
	})

	err := mode.Initialise(chain.Testing)
	if nil != err {
		t.Fatalf("mode initialise error: %s", err)
	}

	_, mustReindex, err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}

	err = cache.Initialise()
	if nil != err {
		t.Fatalf("cache initialise error: %s", err)
	}

	err = blockheader.Initialise()
	if nil != err {
		t.Fatalf("blockheader initialise error: %s", err)
	}

	err = blockring.Initialise()
	if nil != err {
		t.Fatalf("blockring initialise error: %s", err)
	}

	err = pending.Initialise(pendingFile)
	if nil != err {
		t.Fatalf("pending initialise error: %s", err)
	}

	err = block.Initialise(mustReindex)
	if nil != err {
		t.Fatalf("block initialise error: %s", err)
	}
}

// shut down in reverse order keeping the databases on disk
func stopDaemon(t *testing.T) {
	err := block.Finalise()
	if nil != err {
		t.Fatalf("block finalise error: %s", err)
	}
	_ = pending.Finalise()
	_ = blockring.Finalise()
	_ = blockheader.Finalise()
	cache.Finalise()
	storage.Finalise()
	_ = mode.Finalise()
	logger.Finalise()
}

// post test cleanup
func teardown(t *testing.T) {
	stopDaemon(t)
	removeFiles()
}

// create one signed marbles family transaction
func makeTransaction(t *testing.T, addresses []string, payload string, nonce uint64) (transactionrecord.Packed, merkle.Digest) {
	tx := &transactionrecord.MarbleTransaction{
		FamilyName:    transactionrecord.FamilyName,
		FamilyVersion: transactionrecord.FamilyVersion,
		Inputs:        addresses,
		Outputs:       addresses,
		Nonce:         nonce,
		Signer:        signer,
		Payload:       payload,
	}
	unsigned, err := tx.Pack(signer)
	if fault.InvalidSignature != err {
		t.Fatalf("pack unsigned transaction error: %s", err)
	}
	tx.Signature = ed25519.Sign(privateKey, unsigned)
	packed, err := tx.Pack(signer)
	if nil != err {
		t.Fatalf("pack transaction error: %s", err)
	}
	return packed, packed.MakeId()
}

// sign a batch of payloads and store it in the pending pool
//
// each payload reads and writes only the state address of its own
// marble name
func submitBatch(t *testing.T, payloads []string, nonce uint64) *pending.Entry {

	count := len(payloads)
	txIds := make([]merkle.Digest, count)
	packedTxs := make([]transactionrecord.Packed, count)

	for i, payload := range payloads {
		p, err := transactionrecord.ParsePayload(payload)
		if nil != err {
			t.Fatalf("parse payload error: %s", err)
		}
		address := p.Address()
		packed, txId := makeTransaction(t, []string{address}, payload, nonce+uint64(i)+1)
		txIds[i] = txId
		packedTxs[i] = packed
	}

	batch := &transactionrecord.MarbleBatch{
		Signer: signer,
		Nonce:  nonce,
		TxIds:  txIds,
	}
	unsigned, err := batch.Pack(signer)
	if fault.InvalidSignature != err {
		t.Fatalf("pack unsigned batch error: %s", err)
	}
	batch.Signature = ed25519.Sign(privateKey, unsigned)

	info, duplicate, err := pending.StoreBatch(batch, packedTxs, storage.Pool.Batches, storage.Pool.Transactions)
	if nil != err {
		t.Fatalf("store batch error: %s", err)
	}
	if duplicate {
		t.Fatal("store batch: unexpected duplicate")
	}

	entry, ok := pending.Fetch(info.BatchId)
	if !ok {
		t.Fatalf("batch: %s is not pending", info.BatchId)
	}
	return entry
}

// run a pending batch the way a transaction processor would
func executeBatch(t *testing.T, entry *pending.Entry) *messages.ExecutionReceipt {

	receipt := &messages.ExecutionReceipt{
		Job:          "test-job",
		BatchId:      entry.BatchId[:],
		Processor:    "test-processor",
		Ok:           true,
		Transactions: make([]*messages.TransactionReceipt, len(entry.TxIds)),
	}

	transactions := make([]*transactionrecord.MarbleTransaction, len(entry.Transactions))
	for i, packedTx := range entry.Transactions {
		unpacked, _, err := packedTx.Unpack(mode.IsTesting())
		if nil != err {
			t.Fatalf("unpack transaction error: %s", err)
		}
		tx, ok := unpacked.(*transactionrecord.MarbleTransaction)
		if !ok {
			t.Fatal("unpack transaction: not a marble transaction")
		}
		transactions[i] = tx
	}

	// prefetch the whole batch context before running any transaction
	context := make(family.Context)
	for _, tx := range transactions {
		for _, address := range tx.Inputs {
			if _, ok := context[address]; ok {
				continue
			}
			_, state := storage.Pool.Marbles.GetNB([]byte(address))
			if nil != state {
				context[address] = state
			}
		}
	}

	for i, tx := range transactions {
		mutations, err := family.Execute(tx.Payload, context)
		if nil != err {
			t.Fatalf("execute error: %s", err)
		}

		txId := entry.TxIds[i]
		txReceipt := &messages.TransactionReceipt{
			TxId:      txId[:],
			Mutations: make([]*messages.StateEntry, len(mutations)),
		}
		for j, m := range mutations {
			txReceipt.Mutations[j] = &messages.StateEntry{
				Address: m.Address,
				Value:   m.Value,
				Delete:  m.Delete,
			}
		}
		receipt.Transactions[i] = txReceipt
	}

	return receipt
}

// send a receipt through the commit path
func commitReceipt(t *testing.T, receipt *messages.ExecutionReceipt) error {
	data, err := proto.Marshal(receipt)
	if nil != err {
		t.Fatalf("marshal receipt error: %s", err)
	}
	return block.CommitReceipt(data)
}

// submit, execute and commit one batch of payloads
func commitPayloads(t *testing.T, payloads []string, nonce uint64) *pending.Entry {
	entry := submitBatch(t, payloads, nonce)
	receipt := executeBatch(t, entry)
	err := commitReceipt(t, receipt)
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}
	return entry
}
