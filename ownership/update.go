// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"sync"

	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// to ensure synchronised index updates
var toLock sync.Mutex

// separator between the variable length owner or colour and the
// fixed length state address
const separator = byte(0)

// Update - replace the index entries for one marble state change
//
// runs inside the block commit transaction, oldState is nil for a
// create and newState is nil for a delete, the writes only reach the
// database when the caller commits
func Update(trx storage.Transaction, address string, oldState []byte, newState []byte) error {

	// ensure single threaded
	toLock.Lock()
	defer toLock.Unlock()

	// delete the entries for the previous state
	if nil != oldState {
		marble, err := transactionrecord.MarbleFromBytes(oldState)
		if nil != err {
			return err
		}
		trx.Delete(storage.Pool.OwnerIndex, indexKey(marble.Owner, address))
		trx.Delete(storage.Pool.ColourIndex, indexKey(marble.Color, address))
	}

	// create the entries for the new state
	// an unchanged owner or colour is simply rewritten
	if nil != newState {
		marble, err := transactionrecord.MarbleFromBytes(newState)
		if nil != err {
			return err
		}
		name := []byte(marble.Name)
		trx.Put(storage.Pool.OwnerIndex, indexKey(marble.Owner, address), name, []byte{})
		trx.Put(storage.Pool.ColourIndex, indexKey(marble.Color, address), name, []byte{})
	}

	return nil
}

// build an index key: owner or colour ++ NUL ++ address
func indexKey(field string, address string) []byte {
	key := make([]byte, 0, len(field)+1+len(address))
	key = append(key, field...)
	key = append(key, separator)
	key = append(key, address...)
	return key
}
