// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package marble_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/ownership"
	"github.com/bitmark-inc/marbled/rpc/fixtures"
	"github.com/bitmark-inc/marbled/rpc/marble"
	"github.com/bitmark-inc/marbled/rpc/mocks"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

func numberKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

func packedBlock(number uint64, transactionCount uint16, timestamp uint64) []byte {
	header := blockrecord.Header{
		Version:          blockrecord.Version,
		TransactionCount: transactionCount,
		Number:           number,
		PreviousBlock:    blockdigest.Digest{},
		MerkleRoot:       merkle.Digest{},
		Timestamp:        timestamp,
	}
	packed := header.Pack()
	return packed[:]
}

func TestMarbleRead(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	marbles := mocks.NewMockHandle(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		marbles,
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockOwnership(ctl),
	)

	address := transactionrecord.StateAddress("marble01")
	state := []byte("marble01,blue,35,alice")

	marbles.EXPECT().GetNB([]byte(address)).Return(uint64(2), state).Times(1)

	arg := marble.ReadArguments{Name: "marble01"}
	var reply marble.ReadReply
	err := m.Read(&arg, &reply)
	assert.Nil(t, err, "wrong Read")
	assert.Equal(t, address, reply.Address, "wrong address")
	assert.Equal(t, uint64(2), reply.BlockNumber, "wrong block number")
	assert.Equal(t, "marble01", reply.Marble.Name, "wrong name")
	assert.Equal(t, "blue", reply.Marble.Color, "wrong color")
	assert.Equal(t, 35, reply.Marble.Size, "wrong size")
	assert.Equal(t, "alice", reply.Marble.Owner, "wrong owner")
}

func TestMarbleReadWhenMissing(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	marbles := mocks.NewMockHandle(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		marbles,
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockOwnership(ctl),
	)

	address := transactionrecord.StateAddress("no.such.marble")

	marbles.EXPECT().GetNB([]byte(address)).Return(uint64(0), nil).Times(1)

	arg := marble.ReadArguments{Name: "no.such.marble"}
	var reply marble.ReadReply
	err := m.Read(&arg, &reply)
	assert.Equal(t, fault.DataNotFound, err, "wrong Read error")
}

func TestMarbleReadWhenEmptyName(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockOwnership(ctl),
	)

	arg := marble.ReadArguments{Name: ""}
	var reply marble.ReadReply
	err := m.Read(&arg, &reply)
	assert.Equal(t, fault.MissingParameters, err, "wrong Read error")
}

func TestMarbleList(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	os := mocks.NewMockOwnership(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		os,
	)

	r1 := ownership.Record{
		Name:        "marble01",
		Address:     transactionrecord.StateAddress("marble01"),
		BlockNumber: 2,
		Marble:      &transactionrecord.Marble{Name: "marble01", Color: "blue", Size: 35, Owner: "alice"},
	}
	r2 := ownership.Record{
		Name:        "marble02",
		Address:     transactionrecord.StateAddress("marble02"),
		BlockNumber: 3,
		Marble:      &transactionrecord.Marble{Name: "marble02", Color: "red", Size: 50, Owner: "bob"},
	}

	os.EXPECT().ListAll("", 10).Return([]ownership.Record{r1, r2}, nil).Times(1)

	arg := marble.ListArguments{Start: "", Count: 10}
	var reply marble.ListReply
	err := m.List(&arg, &reply)
	assert.Nil(t, err, "wrong List")
	assert.Equal(t, 2, len(reply.Marbles), "wrong record count")
	assert.Equal(t, r1, reply.Marbles[0], "wrong first record")
	assert.Equal(t, r2.Address, reply.Next, "wrong next")
}

func TestMarbleListWhenInvalidCount(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockOwnership(ctl),
	)

	arg := marble.ListArguments{Start: "", Count: 0}
	var reply marble.ListReply
	err := m.List(&arg, &reply)
	assert.Equal(t, fault.InvalidCount, err, "wrong List error")
}

func TestMarbleOwned(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	os := mocks.NewMockOwnership(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		os,
	)

	r := ownership.Record{
		Name:        "marble01",
		Address:     transactionrecord.StateAddress("marble01"),
		BlockNumber: 2,
		Marble:      &transactionrecord.Marble{Name: "marble01", Color: "blue", Size: 35, Owner: "alice"},
	}

	os.EXPECT().ListOwnedBy("alice", "", 10).Return([]ownership.Record{r}, nil).Times(1)

	arg := marble.OwnedArguments{Owner: "alice", Start: "", Count: 10}
	var reply marble.ListReply
	err := m.Owned(&arg, &reply)
	assert.Nil(t, err, "wrong Owned")
	assert.Equal(t, 1, len(reply.Marbles), "wrong record count")
	assert.Equal(t, r, reply.Marbles[0], "wrong record")
	assert.Equal(t, r.Address, reply.Next, "wrong next")
}

func TestMarbleOwnedWhenEmptyOwner(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockOwnership(ctl),
	)

	arg := marble.OwnedArguments{Owner: "", Start: "", Count: 10}
	var reply marble.ListReply
	err := m.Owned(&arg, &reply)
	assert.Equal(t, fault.MissingParameters, err, "wrong Owned error")
}

func TestMarbleByColor(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	os := mocks.NewMockOwnership(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		os,
	)

	r := ownership.Record{
		Name:        "marble01",
		Address:     transactionrecord.StateAddress("marble01"),
		BlockNumber: 2,
		Marble:      &transactionrecord.Marble{Name: "marble01", Color: "blue", Size: 35, Owner: "alice"},
	}

	os.EXPECT().ListByColour("blue", "", 10).Return([]ownership.Record{r}, nil).Times(1)

	arg := marble.ByColorArguments{Color: "blue", Start: "", Count: 10}
	var reply marble.ListReply
	err := m.ByColor(&arg, &reply)
	assert.Nil(t, err, "wrong ByColor")
	assert.Equal(t, 1, len(reply.Marbles), "wrong record count")
	assert.Equal(t, r, reply.Marbles[0], "wrong record")
}

func TestMarbleHistory(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	blocks := mocks.NewMockHandle(ctl)
	history := mocks.NewMockHandle(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		blocks,
		history,
		mocks.NewMockOwnership(ctl),
	)

	address := transactionrecord.StateAddress("marble01")
	txId1 := merkle.NewDigest([]byte("create marble01"))
	txId2 := merkle.NewDigest([]byte("delete marble01"))

	entry0 := append(append([]byte{}, txId1[:]...), numberKey(2)...)
	entry0 = append(entry0, []byte("marble01,blue,35,alice")...)
	entry1 := append(append([]byte{}, txId2[:]...), numberKey(3)...)

	ts2 := uint64(time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC).Unix())
	ts3 := uint64(time.Date(2020, time.March, 2, 9, 30, 0, 0, time.UTC).Unix())

	history.EXPECT().GetN([]byte(address)).Return(uint64(2), true).Times(1)
	history.EXPECT().Get(append([]byte(address), numberKey(0)...)).Return(entry0).Times(1)
	history.EXPECT().Get(append([]byte(address), numberKey(1)...)).Return(entry1).Times(1)
	blocks.EXPECT().Get(numberKey(2)).Return(packedBlock(2, 2, ts2)).Times(1)
	blocks.EXPECT().Get(numberKey(3)).Return(packedBlock(3, 2, ts3)).Times(1)

	arg := marble.HistoryArguments{Name: "marble01"}
	var reply marble.HistoryReply
	err := m.History(&arg, &reply)
	assert.Nil(t, err, "wrong History")
	assert.Equal(t, "marble01", reply.Name, "wrong name")
	assert.Equal(t, address, reply.Address, "wrong address")
	assert.Equal(t, 2, len(reply.History), "wrong entry count")

	assert.Equal(t, txId1, reply.History[0].TxId, "wrong first tx id")
	assert.Equal(t, uint64(2), reply.History[0].BlockNumber, "wrong first block number")
	assert.Equal(t, time.Unix(int64(ts2), 0).UTC(), reply.History[0].Timestamp, "wrong first timestamp")
	assert.False(t, reply.History[0].IsDelete, "wrong first delete flag")
	assert.Equal(t, "alice", reply.History[0].Marble.Owner, "wrong first owner")

	assert.Equal(t, txId2, reply.History[1].TxId, "wrong second tx id")
	assert.Equal(t, uint64(3), reply.History[1].BlockNumber, "wrong second block number")
	assert.Equal(t, time.Unix(int64(ts3), 0).UTC(), reply.History[1].Timestamp, "wrong second timestamp")
	assert.True(t, reply.History[1].IsDelete, "wrong second delete flag")
	assert.Nil(t, reply.History[1].Marble, "wrong second marble")
}

func TestMarbleHistoryWhenNeverCommitted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	history := mocks.NewMockHandle(ctl)

	m := marble.New(
		logger.New(fixtures.LogCategory),
		mocks.NewMockHandle(ctl),
		mocks.NewMockHandle(ctl),
		history,
		mocks.NewMockOwnership(ctl),
	)

	address := transactionrecord.StateAddress("no.such.marble")

	history.EXPECT().GetN([]byte(address)).Return(uint64(0), false).Times(1)

	arg := marble.HistoryArguments{Name: "no.such.marble"}
	var reply marble.HistoryReply
	err := m.History(&arg, &reply)
	assert.Nil(t, err, "wrong History")
	assert.Equal(t, 0, len(reply.History), "wrong entry count")
}
