// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"crypto/ed25519"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/cache"
	"github.com/bitmark-inc/marbled/chain"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/messagebus"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

const (
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

// configure for testing
func setup(t *testing.T) {
	os.RemoveAll(loggerFile)

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

	err = cache.Initialise()
	if nil != err {
		t.Fatalf("cache initialise error: %s", err)
	}

	initialiseJobQueue()
	initialiseProcessorTable()
	globalData.log = logger.New("dispatch")

	messagebus.Bus.Commit.Release()
}

// post test cleanup
func teardown(t *testing.T) {
	messagebus.Bus.Commit.Release()
	cache.Finalise()
	_ = mode.Finalise()
	logger.Finalise()
	os.RemoveAll(loggerFile)
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
