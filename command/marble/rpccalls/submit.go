// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"time"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/rpc/transaction"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

var (
	ErrMakeTransactionFailed = fault.ProcessError("make transaction failed")
	ErrMakeBatchFailed       = fault.ProcessError("make batch failed")
)

// Operation - one family action with its declared state addresses
type Operation struct {
	Payload string
	Inputs  []string
	Outputs []string
}

// Submit - sign the operations and submit them as one atomic batch
func (client *Client) Submit(signer *account.PrivateKey, operations []Operation) (*transaction.SubmitReply, error) {

	nonce := uint64(time.Now().UTC().UnixNano())

	txs := make([]*transactionrecord.MarbleTransaction, len(operations))
	txIds := make([]merkle.Digest, len(operations))
	for i, op := range operations {
		tx, txId, err := makeTransaction(signer, op, nonce+uint64(i))
		if nil != err {
			return nil, err
		}
		txs[i] = tx
		txIds[i] = txId
	}

	batch, err := makeBatch(signer, txIds, nonce)
	if nil != err {
		return nil, err
	}

	submitArgs := transaction.SubmitArguments{
		Transactions: txs,
		Batch:        batch,
	}

	client.printJson("Submit Request", submitArgs)

	var reply transaction.SubmitReply
	err = client.client.Call("Transaction.Submit", submitArgs, &reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Submit Reply", reply)

	return &reply, nil
}

// build a properly signed transaction
func makeTransaction(signer *account.PrivateKey, op Operation, nonce uint64) (*transactionrecord.MarbleTransaction, merkle.Digest, error) {

	signerAccount := signer.Account()

	tx := &transactionrecord.MarbleTransaction{
		FamilyName:    transactionrecord.FamilyName,
		FamilyVersion: transactionrecord.FamilyVersion,
		Inputs:        op.Inputs,
		Outputs:       op.Outputs,
		Nonce:         nonce,
		Signer:        signerAccount,
		Payload:       op.Payload,
		Signature:     nil,
	}

	// pack without signature
	packed, err := tx.Pack(signerAccount)
	if nil == err {
		return nil, merkle.Digest{}, ErrMakeTransactionFailed
	} else if fault.InvalidSignature != err {
		return nil, merkle.Digest{}, err
	}

	// manually sign the record and attach signature
	signature := ed25519.Sign(signer.PrivateKeyBytes(), packed)
	tx.Signature = signature[:]

	// re-pack to check signature and compute the id
	packed, err = tx.Pack(signerAccount)
	if nil != err {
		return nil, merkle.Digest{}, err
	}

	return tx, packed.MakeId(), nil
}

// build a properly signed batch header
func makeBatch(signer *account.PrivateKey, txIds []merkle.Digest, nonce uint64) (*transactionrecord.MarbleBatch, error) {

	signerAccount := signer.Account()

	batch := &transactionrecord.MarbleBatch{
		Signer:    signerAccount,
		Nonce:     nonce,
		TxIds:     txIds,
		Signature: nil,
	}

	// pack without signature
	packed, err := batch.Pack(signerAccount)
	if nil == err {
		return nil, ErrMakeBatchFailed
	} else if fault.InvalidSignature != err {
		return nil, err
	}

	// manually sign the record and attach signature
	signature := ed25519.Sign(signer.PrivateKeyBytes(), packed)
	batch.Signature = signature[:]

	_, err = batch.Pack(signerAccount)
	if nil != err {
		return nil, err
	}

	return batch, nil
}
