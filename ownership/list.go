// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"bytes"
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// Record - one marble from an index scan
//
// the marble pointer is nil if the state record disappeared between
// reading the index and dereferencing it
type Record struct {
	Name        string                    `json:"name"`
	Address     string                    `json:"address"`
	BlockNumber uint64                    `json:"blockNumber,string"`
	Marble      *transactionrecord.Marble `json:"marble"`
}

// ListOwnedBy - fetch marbles held by an owner
//
// start is the address of the last record already seen, empty to
// begin at the first entry for the owner
func ListOwnedBy(owner string, start string, count int) ([]Record, error) {
	return listIndex(storage.Pool.OwnerIndex, owner, start, count)
}

// ListByColour - fetch marbles of a colour
func ListByColour(colour string, start string, count int) ([]Record, error) {
	return listIndex(storage.Pool.ColourIndex, colour, start, count)
}

// ListAll - scan the whole marble state in address order
//
// start is the address of the last record already seen, empty to
// begin at the first address
func ListAll(start string, count int) ([]Record, error) {

	if count <= 0 {
		return nil, fault.InvalidCount
	}

	cursor := storage.Pool.Marbles.NewFetchCursor()
	if 0 != len(start) {
		// position just after the already seen address
		seekKey := make([]byte, 0, len(start)+1)
		seekKey = append(seekKey, start...)
		seekKey = append(seekKey, separator)
		cursor.Seek(seekKey)
	}

	items, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	records := make([]Record, 0, len(items))

	for _, item := range items {
		if len(item.Value) < 9 {
			logger.Panicf("ownership: corrupt state record: %x", item.Value)
		}
		marble, err := transactionrecord.MarbleFromBytes(item.Value[8:])
		if nil != err {
			return nil, err
		}
		records = append(records, Record{
			Name:        marble.Name,
			Address:     string(item.Key),
			BlockNumber: binary.BigEndian.Uint64(item.Value[:8]),
			Marble:      marble,
		})
	}

	return records, nil
}

// the owner and colour pools share one key layout:
//   field ++ NUL ++ address → marble name
func listIndex(index *storage.PoolHandle, field string, start string, count int) ([]Record, error) {

	if count <= 0 {
		return nil, fault.InvalidCount
	}

	prefix := make([]byte, 0, len(field)+1)
	prefix = append(prefix, field...)
	prefix = append(prefix, separator)

	seekKey := make([]byte, 0, len(prefix)+len(start)+1)
	seekKey = append(seekKey, prefix...)
	if 0 != len(start) {
		// position just after the already seen address
		seekKey = append(seekKey, start...)
		seekKey = append(seekKey, separator)
	}

	cursor := index.NewFetchCursor().Seek(seekKey)

	items, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	records := make([]Record, 0, len(items))

loop:
	for _, item := range items {
		if !bytes.HasPrefix(item.Key, prefix) {
			break loop
		}
		if len(item.Key) != len(prefix)+transactionrecord.AddressLength {
			logger.Panicf("ownership: corrupt index key: %x", item.Key)
		}
		address := string(item.Key[len(prefix):])

		record := Record{
			Name:    string(item.Value),
			Address: address,
		}

		blockNumber, state := storage.Pool.Marbles.GetNB([]byte(address))
		if nil != state {
			marble, err := transactionrecord.MarbleFromBytes(state)
			if nil != err {
				return nil, err
			}
			record.BlockNumber = blockNumber
			record.Marble = marble
		}

		records = append(records, record)
	}

	return records, nil
}
