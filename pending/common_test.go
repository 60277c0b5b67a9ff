// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending_test

import (
	"crypto/ed25519"
	"os"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/chain"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/pending/mocks"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

const (
	dataFile   = "test.cache"
	loggerFile = "test.log"
)

var (
	owner      *account.Account
	privateKey []byte
)

func init() {
	p, _ := account.NewED25519PrivateKey(true)
	privateKey = p.PrivateKeyBytes()
	owner = p.Account()
}

// remove all files created by test
func removeFiles() {
	os.RemoveAll(dataFile)
	os.RemoveAll(loggerFile)
}

// configure for testing
func setup(t *testing.T) {
	removeFiles()

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
}

// post test cleanup
func teardown(t *testing.T) {
	_ = mode.Finalise()
	logger.Finalise()
	removeFiles()
}

func setupMocks(t *testing.T) (*gomock.Controller, *mocks.MockHandle, *mocks.MockHandle) {
	ctl := gomock.NewController(t)

	mockBatches := mocks.NewMockHandle(ctl)
	mockTransactions := mocks.NewMockHandle(ctl)
	return ctl, mockBatches, mockTransactions
}

// create a signed marbles family transaction touching a single state address
func makeTransaction(t *testing.T, name string, payload string, nonce uint64) (*transactionrecord.MarbleTransaction, transactionrecord.Packed, merkle.Digest) {
	address := transactionrecord.StateAddress(name)
	tx := &transactionrecord.MarbleTransaction{
		FamilyName:    transactionrecord.FamilyName,
		FamilyVersion: transactionrecord.FamilyVersion,
		Inputs:        []string{address},
		Outputs:       []string{address},
		Nonce:         nonce,
		Signer:        owner,
		Payload:       payload,
	}
	unsigned, err := tx.Pack(owner)
	if fault.InvalidSignature != err {
		t.Fatalf("pack unsigned transaction error: %s", err)
	}
	tx.Signature = ed25519.Sign(privateKey, unsigned)
	packed, err := tx.Pack(owner)
	if nil != err {
		t.Fatalf("pack transaction error: %s", err)
	}
	return tx, packed, packed.MakeId()
}

// create a signed batch header enclosing the given transaction ids
func makeBatch(t *testing.T, txIds []merkle.Digest, nonce uint64) (*transactionrecord.MarbleBatch, transactionrecord.Packed, merkle.Digest) {
	batch := &transactionrecord.MarbleBatch{
		Signer: owner,
		Nonce:  nonce,
		TxIds:  txIds,
	}
	unsigned, err := batch.Pack(owner)
	if fault.InvalidSignature != err {
		t.Fatalf("pack unsigned batch error: %s", err)
	}
	batch.Signature = ed25519.Sign(privateKey, unsigned)
	packed, err := batch.Pack(owner)
	if nil != err {
		t.Fatalf("pack batch error: %s", err)
	}
	return batch, packed, packed.MakeId()
}
