// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package family_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marbled/family"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

func TestExecuteInitMarble(t *testing.T) {
	context := family.Context{}

	mutations, err := family.Execute("initMarble,marble01,RED,35,Alice", context)
	assert.Nil(t, err, "execute error")
	assert.Equal(t, 1, len(mutations), "wrong mutation count")

	address := transactionrecord.StateAddress("marble01")
	assert.Equal(t, address, mutations[0].Address, "wrong address")
	assert.Equal(t, []byte("marble01,red,35,alice"), mutations[0].Value, "wrong value")
	assert.False(t, mutations[0].Delete, "wrong delete flag")

	// the context sees the new marble
	assert.Equal(t, []byte("marble01,red,35,alice"), context[address], "wrong context value")
}

func TestExecuteInitMarbleDuplicate(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("initMarble,marble01,red,35,alice", context)
	assert.Nil(t, err, "execute error")

	_, err = family.Execute("initMarble,marble01,blue,40,bob", context)
	assert.Equal(t, fault.MarbleAlreadyExists, err, "wrong error")
	assert.Equal(t, "Marble already exists", err.Error(), "wrong message")
}

func TestExecuteTransferMarble(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("initMarble,marble01,red,35,alice", context)
	assert.Nil(t, err, "execute error")

	mutations, err := family.Execute("transferMarble,marble01,Bob", context)
	assert.Nil(t, err, "execute error")
	assert.Equal(t, 1, len(mutations), "wrong mutation count")
	assert.Equal(t, []byte("marble01,red,35,bob"), mutations[0].Value, "wrong value")
}

func TestExecuteTransferMissing(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("transferMarble,marble99,bob", context)
	assert.Equal(t, fault.MarbleDoesNotExist, err, "wrong error")
	assert.Equal(t, "Marble does not exist", err.Error(), "wrong message")
}

func TestExecuteTransferToCurrentOwner(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("initMarble,marble01,red,35,alice", context)
	assert.Nil(t, err, "execute error")

	// not special cased: state is rewritten
	mutations, err := family.Execute("transferMarble,marble01,alice", context)
	assert.Nil(t, err, "execute error")
	assert.Equal(t, 1, len(mutations), "wrong mutation count")
	assert.Equal(t, []byte("marble01,red,35,alice"), mutations[0].Value, "wrong value")
}

func TestExecuteDeleteMarble(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("initMarble,marble01,red,35,alice", context)
	assert.Nil(t, err, "execute error")

	address := transactionrecord.StateAddress("marble01")

	mutations, err := family.Execute("deleteMarble,marble01", context)
	assert.Nil(t, err, "execute error")
	assert.Equal(t, 1, len(mutations), "wrong mutation count")
	assert.Equal(t, address, mutations[0].Address, "wrong address")
	assert.True(t, mutations[0].Delete, "wrong delete flag")

	_, ok := context[address]
	assert.False(t, ok, "marble still in context")
}

func TestExecuteDeleteMissing(t *testing.T) {
	context := family.Context{}

	// deleting an absent marble succeeds without mutations
	mutations, err := family.Execute("deleteMarble,marble99", context)
	assert.Nil(t, err, "execute error")
	assert.Equal(t, 0, len(mutations), "wrong mutation count")
}

func TestExecuteDeleteThenInit(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("initMarble,marble01,red,35,alice", context)
	assert.Nil(t, err, "execute error")

	_, err = family.Execute("deleteMarble,marble01", context)
	assert.Nil(t, err, "execute error")

	// the name is free again inside the same batch
	mutations, err := family.Execute("initMarble,marble01,green,10,carol", context)
	assert.Nil(t, err, "execute error")
	assert.Equal(t, []byte("marble01,green,10,carol"), mutations[0].Value, "wrong value")
}

func TestExecuteInvalidPayloads(t *testing.T) {

	testData := []struct {
		payload string
		message string
	}{
		{"initMarble,marble01,red,35", "Invalid number of args"},
		{"initMarble,marble01,red,35,alice,extra", "Invalid number of args"},
		{"transferMarble,marble01", "Invalid number of args"},
		{"deleteMarble", "Invalid number of args"},
		{"makeMarble,marble01,red,35,alice", "Unhandled action: makeMarble"},
		{"initMarble,m1,red,35,alice", "Invalid name"},
		{"initMarble,marble01,red,none,alice", "Invalid size"},
		{"initMarble,marble01,red,0,alice", "Invalid size"},
		{"initMarble,marble01,red,-5,alice", "Invalid size"},
		{"initMarble,marble01,,35,alice", "Invalid color"},
		{"initMarble,marble01,red,35,", "Invalid owner"},
	}

	for i, d := range testData {
		context := family.Context{}
		_, err := family.Execute(d.payload, context)
		assert.NotNil(t, err, "no error: %d: %q", i, d.payload)
		assert.Equal(t, d.message, err.Error(), "wrong message: %d: %q", i, d.payload)
	}
}

func TestExecuteTransferEmptyOwner(t *testing.T) {
	context := family.Context{}

	_, err := family.Execute("initMarble,marble01,red,35,alice", context)
	assert.Nil(t, err, "execute error")

	_, err = family.Execute("transferMarble,marble01,", context)
	assert.Equal(t, fault.InvalidMarbleOwner, err, "wrong error")
}
