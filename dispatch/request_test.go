// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"bytes"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/marbled/pending/mocks"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

func TestBuildRequest(t *testing.T) {
	setup(t)
	defer teardown(t)

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mockMarbles := mocks.NewMockHandle(ctl)

	address := transactionrecord.StateAddress("marble01")

	// two transfers of the same marble in one batch
	_, packedOne, txIdOne := makeTransaction(t, "marble01", "transferMarble,marble01,bob", 1)
	_, packedTwo, txIdTwo := makeTransaction(t, "marble01", "transferMarble,marble01,carol", 2)

	entry := &pending.Entry{
		BatchId:      merkle.NewDigest([]byte("a batch")),
		TxIds:        []merkle.Digest{txIdOne, txIdTwo},
		Transactions: []transactionrecord.Packed{packedOne, packedTwo},
	}

	marble := transactionrecord.Marble{
		Name:  "marble01",
		Color: "red",
		Size:  35,
		Owner: "alice",
	}

	// a shared input is fetched only once
	mockMarbles.EXPECT().GetNB([]byte(address)).Return(uint64(8), marble.Pack()).Times(1)

	request, err := buildRequest("000a", entry, mockMarbles)
	if nil != err {
		t.Fatalf("build request error: %s", err)
	}

	if "000a" != request.Job {
		t.Fatalf("job: actual: %q  expected: %q", request.Job, "000a")
	}
	if !bytes.Equal(entry.BatchId[:], request.BatchId) {
		t.Fatalf("batch id: actual: %x  expected: %x", request.BatchId, entry.BatchId)
	}

	if 2 != len(request.Transactions) {
		t.Fatalf("transaction count: actual: %d  expected: 2", len(request.Transactions))
	}

	first := request.Transactions[0]
	if !bytes.Equal(txIdOne[:], first.TxId) {
		t.Fatalf("tx id: actual: %x  expected: %x", first.TxId, txIdOne)
	}
	if transactionrecord.FamilyName != first.FamilyName {
		t.Fatalf("family: actual: %q  expected: %q", first.FamilyName, transactionrecord.FamilyName)
	}
	if transactionrecord.FamilyVersion != first.FamilyVersion {
		t.Fatalf("version: actual: %q  expected: %q", first.FamilyVersion, transactionrecord.FamilyVersion)
	}
	if 1 != len(first.Inputs) || address != first.Inputs[0] {
		t.Fatalf("inputs: actual: %v", first.Inputs)
	}
	if 1 != len(first.Outputs) || address != first.Outputs[0] {
		t.Fatalf("outputs: actual: %v", first.Outputs)
	}
	if "transferMarble,marble01,bob" != string(first.Payload) {
		t.Fatalf("payload: actual: %q", first.Payload)
	}

	second := request.Transactions[1]
	if !bytes.Equal(txIdTwo[:], second.TxId) {
		t.Fatalf("tx id: actual: %x  expected: %x", second.TxId, txIdTwo)
	}
	if "transferMarble,marble01,carol" != string(second.Payload) {
		t.Fatalf("payload: actual: %q", second.Payload)
	}

	// the context snapshot holds the bare state value
	if 1 != len(request.Context) {
		t.Fatalf("context length: actual: %d  expected: 1", len(request.Context))
	}
	if address != request.Context[0].Address {
		t.Fatalf("context address: actual: %q  expected: %q", request.Context[0].Address, address)
	}
	if !bytes.Equal(marble.Pack(), request.Context[0].Value) {
		t.Fatalf("context value: actual: %q  expected: %q", request.Context[0].Value, marble.Pack())
	}
}

func TestBuildRequestAbsentInput(t *testing.T) {
	setup(t)
	defer teardown(t)

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	mockMarbles := mocks.NewMockHandle(ctl)

	addressOne := transactionrecord.StateAddress("marble01")
	addressTwo := transactionrecord.StateAddress("marble02")

	_, packedOne, txIdOne := makeTransaction(t, "marble01", "initMarble,marble01,red,35,alice", 1)
	_, packedTwo, txIdTwo := makeTransaction(t, "marble02", "initMarble,marble02,blue,50,bob", 2)

	entry := &pending.Entry{
		BatchId:      merkle.NewDigest([]byte("another batch")),
		TxIds:        []merkle.Digest{txIdOne, txIdTwo},
		Transactions: []transactionrecord.Packed{packedOne, packedTwo},
	}

	// neither marble exists yet
	mockMarbles.EXPECT().GetNB([]byte(addressOne)).Return(uint64(0), nil).Times(1)
	mockMarbles.EXPECT().GetNB([]byte(addressTwo)).Return(uint64(0), nil).Times(1)

	request, err := buildRequest("000b", entry, mockMarbles)
	if nil != err {
		t.Fatalf("build request error: %s", err)
	}

	if 0 != len(request.Context) {
		t.Fatalf("context length: actual: %d  expected: 0", len(request.Context))
	}
}
