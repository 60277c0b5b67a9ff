// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership_test

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/ownership"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// test database file
const (
	databaseFileName = "test-ownership"
)

func removeFiles() {
	os.RemoveAll(databaseFileName + "-blocks.leveldb")
	os.RemoveAll(databaseFileName + "-index.leveldb")
	os.RemoveAll("test.log")
}

func setup(t *testing.T) {
	removeFiles()

	_ = logger.Initialise(logger.Configuration{
		Directory: ".",
		File:      "test.log",
		Size:      50000,
		Count:     10,
	})

	_, mustReindex, err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
	if mustReindex {
		err = storage.ReindexDone()
		if nil != err {
			t.Fatalf("reindex done error: %s", err)
		}
	}
}

func teardown(t *testing.T) {
	storage.Finalise()
	logger.Finalise()
	removeFiles()
}

// store one marble state record and its index entries
func storeMarble(t *testing.T, name string, color string, size string, owner string) *transactionrecord.Marble {
	marble, err := transactionrecord.NewMarble(name, color, size, owner)
	if nil != err {
		t.Fatalf("new marble error: %s", err)
	}

	blockNumber := make([]byte, 8)
	binary.BigEndian.PutUint64(blockNumber, 2)

	address := marble.Address()
	state := marble.Pack()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	trx.Put(storage.Pool.Marbles, []byte(address), blockNumber, state)
	err = ownership.Update(trx, address, nil, state)
	if nil != err {
		t.Fatalf("update error: %s", err)
	}
	err = trx.Commit()
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}
	return marble
}

func TestListOwnedBy(t *testing.T) {
	setup(t)
	defer teardown(t)

	// "al" is a prefix of "alice" and "aliceb" an extension, so this
	// exercises the NUL separated key layout
	storeMarble(t, "marble01", "red", "35", "alice")
	storeMarble(t, "marble02", "blue", "50", "alice")
	storeMarble(t, "marble03", "blue", "70", "aliceb")
	storeMarble(t, "marble04", "green", "12", "al")
	storeMarble(t, "marble05", "red", "16", "bob")

	records, err := ownership.ListOwnedBy("alice", "", 100)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 2 != len(records) {
		t.Fatalf("wrong record count: actual: %d  expected: 2", len(records))
	}
	names := map[string]bool{}
	for _, r := range records {
		names[r.Name] = true
		if nil == r.Marble {
			t.Fatalf("missing marble state for: %s", r.Name)
		}
		if "alice" != r.Marble.Owner {
			t.Fatalf("wrong owner: actual: %q  expected: %q", r.Marble.Owner, "alice")
		}
		if transactionrecord.StateAddress(r.Name) != r.Address {
			t.Fatalf("wrong address for: %s", r.Name)
		}
		if 2 != r.BlockNumber {
			t.Fatalf("wrong block number: actual: %d  expected: 2", r.BlockNumber)
		}
	}
	if !names["marble01"] || !names["marble02"] {
		t.Fatalf("wrong names: %v", names)
	}

	records, err = ownership.ListOwnedBy("al", "", 100)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 1 != len(records) || "marble04" != records[0].Name {
		t.Fatalf("wrong records for short owner: %v", records)
	}

	records, err = ownership.ListOwnedBy("nobody", "", 100)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 0 != len(records) {
		t.Fatalf("unexpected records: %v", records)
	}

	_, err = ownership.ListOwnedBy("alice", "", 0)
	if nil == err {
		t.Fatal("unexpected success with zero count")
	}
}

func TestListByColour(t *testing.T) {
	setup(t)
	defer teardown(t)

	storeMarble(t, "marble01", "red", "35", "alice")
	storeMarble(t, "marble02", "blue", "50", "alice")
	storeMarble(t, "marble03", "blue", "70", "bob")

	records, err := ownership.ListByColour("blue", "", 100)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 2 != len(records) {
		t.Fatalf("wrong record count: actual: %d  expected: 2", len(records))
	}
	for _, r := range records {
		if "blue" != r.Marble.Color {
			t.Fatalf("wrong colour: actual: %q  expected: %q", r.Marble.Color, "blue")
		}
	}

	// interface form used by the query services
	records, err = ownership.Get().ListByColour("red", "", 100)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 1 != len(records) || "marble01" != records[0].Name {
		t.Fatalf("wrong records: %v", records)
	}
}

func TestListAll(t *testing.T) {
	setup(t)
	defer teardown(t)

	storeMarble(t, "marble01", "red", "35", "alice")
	storeMarble(t, "marble02", "blue", "50", "bob")
	storeMarble(t, "marble03", "green", "70", "carol")

	records, err := ownership.ListAll("", 100)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 3 != len(records) {
		t.Fatalf("wrong record count: actual: %d  expected: 3", len(records))
	}
	names := map[string]bool{}
	for _, r := range records {
		names[r.Name] = true
		if nil == r.Marble {
			t.Fatalf("missing marble state for: %s", r.Name)
		}
		if transactionrecord.StateAddress(r.Name) != r.Address {
			t.Fatalf("wrong address for: %s", r.Name)
		}
		if 2 != r.BlockNumber {
			t.Fatalf("wrong block number: actual: %d  expected: 2", r.BlockNumber)
		}
	}
	if !names["marble01"] || !names["marble02"] || !names["marble03"] {
		t.Fatalf("wrong names: %v", names)
	}

	// paginate: addresses order the scan, not names
	first, err := ownership.ListAll("", 2)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 2 != len(first) {
		t.Fatalf("wrong record count: actual: %d  expected: 2", len(first))
	}
	rest, err := ownership.ListAll(first[1].Address, 2)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 1 != len(rest) {
		t.Fatalf("wrong record count: actual: %d  expected: 1", len(rest))
	}
	if first[0].Name == rest[0].Name || first[1].Name == rest[0].Name {
		t.Fatalf("duplicated record: %s", rest[0].Name)
	}

	_, err = ownership.ListAll("", -1)
	if nil == err {
		t.Fatal("unexpected success with negative count")
	}
}

func TestListPagination(t *testing.T) {
	setup(t)
	defer teardown(t)

	storeMarble(t, "marble01", "red", "35", "carol")
	storeMarble(t, "marble02", "blue", "50", "carol")
	storeMarble(t, "marble03", "green", "70", "carol")

	first, err := ownership.ListOwnedBy("carol", "", 2)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 2 != len(first) {
		t.Fatalf("wrong record count: actual: %d  expected: 2", len(first))
	}

	rest, err := ownership.ListOwnedBy("carol", first[1].Address, 2)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	if 1 != len(rest) {
		t.Fatalf("wrong record count: actual: %d  expected: 1", len(rest))
	}
	if first[0].Name == rest[0].Name || first[1].Name == rest[0].Name {
		t.Fatalf("duplicated record: %s", rest[0].Name)
	}
}

func TestUpdateTransferAndDelete(t *testing.T) {
	setup(t)
	defer teardown(t)

	marble := storeMarble(t, "marble01", "red", "35", "alice")
	address := marble.Address()
	oldState := marble.Pack()

	// transfer to bob
	err := marble.TransferTo("bob")
	if nil != err {
		t.Fatalf("transfer error: %s", err)
	}
	newState := marble.Pack()

	blockNumber := make([]byte, 8)
	binary.BigEndian.PutUint64(blockNumber, 3)

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	trx.Put(storage.Pool.Marbles, []byte(address), blockNumber, newState)
	err = ownership.Update(trx, address, oldState, newState)
	if nil != err {
		t.Fatalf("update error: %s", err)
	}
	err = trx.Commit()
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}

	records, _ := ownership.ListOwnedBy("alice", "", 100)
	if 0 != len(records) {
		t.Fatalf("previous owner still indexed: %v", records)
	}
	records, _ = ownership.ListOwnedBy("bob", "", 100)
	if 1 != len(records) || "marble01" != records[0].Name {
		t.Fatalf("wrong records for new owner: %v", records)
	}

	// the colour entry survives a transfer
	records, _ = ownership.ListByColour("red", "", 100)
	if 1 != len(records) {
		t.Fatalf("colour entry lost: %v", records)
	}

	// delete drops both indexes
	trx, err = storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	trx.Delete(storage.Pool.Marbles, []byte(address))
	err = ownership.Update(trx, address, newState, nil)
	if nil != err {
		t.Fatalf("update error: %s", err)
	}
	err = trx.Commit()
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}

	records, _ = ownership.ListOwnedBy("bob", "", 100)
	if 0 != len(records) {
		t.Fatalf("deleted marble still indexed: %v", records)
	}
	records, _ = ownership.ListByColour("red", "", 100)
	if 0 != len(records) {
		t.Fatalf("deleted marble still indexed by colour: %v", records)
	}
}
