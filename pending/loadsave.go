// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

type tagType byte

// record types in cache file
const (
	taggedBOF   tagType = iota
	taggedEOF   tagType = iota
	taggedBatch tagType = iota
)

// the BOF tag to check file version
// exact match is required
var bofData = []byte("marbled-cache v1.0")

// LoadFromFile - load batches from the backup file
//
// called after the storage pools are open so restored batches can be
// deduplicated against already committed data
func LoadFromFile(batchesHandle storage.Handle, transactionsHandle storage.Handle) error {
	Disable()
	defer Enable()

	log := globalData.log

	log.Info("starting…")

	f, err := os.Open(globalData.filename)
	if nil != err {
		return err
	}
	defer f.Close()

	// must have BOF record first
	tag, packed, err := readRecord(f)
	if nil != err {
		return err
	}

	if taggedBOF != tag {
		return fmt.Errorf("expected BOF: %d but read: %d", taggedBOF, tag)
	}

	if !bytes.Equal(bofData, packed) {
		return fmt.Errorf("expected BOF: %q but read: %q", bofData, packed)
	}

	log.Infof("restore from file: %s", globalData.filename)

restore_loop:
	for {
		tag, packed, err := readRecord(f)
		if nil != err {
			return err
		}
		switch tag {

		case taggedEOF:
			break restore_loop

		case taggedBatch:
			unpacked, n, err := packed.Unpack(mode.IsTesting())
			if nil != err {
				log.Errorf("unable to unpack batch header: %s", err)
				continue restore_loop
			}

			restorer, err := NewRestorer(unpacked, packed[n:], batchesHandle, transactionsHandle)
			if nil != err {
				log.Errorf("unable to create restorer: %s", err)
				continue restore_loop
			}
			if nil == restorer {
				log.Errorf("not a batch record: %+v", unpacked)
				continue restore_loop
			}

			err = restorer.Restore()
			if nil != err {
				log.Errorf("fail to restore batch: %s", err)
			}

		default:
			log.Errorf("read invalid tag: 0x%02x", tag)
			return fmt.Errorf("read invalid tag: 0x%02x", tag)
		}
	}
	log.Info("restore completed")
	return nil
}

// save batches to file
func saveToFile() error {
	globalData.Lock()
	defer globalData.Unlock()

	log := globalData.log

	if !globalData.initialised {
		log.Error("save when not initialised")
		return fault.NotInitialised
	}

	log.Info("saving…")

	f, err := os.OpenFile(globalData.filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if nil != err {
		return err
	}
	defer f.Close()

	// write beginning of file marker
	err = writeRecord(f, taggedBOF, bofData)
	if nil != err {
		return err
	}

	// pending batches
	for _, item := range globalData.entries {
		err := writeBatch(f, taggedBatch, item)
		if nil != err {
			return err
		}
	}

	// end the file
	err = writeRecord(f, taggedEOF, []byte("EOF"))
	if nil != err {
		return err
	}

	log.Info("save completed")
	return nil
}

// write one batch as a single tagged record
// the packed header followed by each packed transaction
func writeBatch(f *os.File, tag tagType, item *batchEntry) error {
	buffer := make([]byte, 0, 65535)
	buffer = append(buffer, item.packed...)
	for _, tx := range item.transactions {
		buffer = append(buffer, tx...)
	}
	return writeRecord(f, tag, buffer)
}

// write a tagged record
func writeRecord(f *os.File, tag tagType, packed []byte) error {

	if len(packed) > 65535 {
		globalData.log.Criticalf("write record packed length: %d > 65535", len(packed))
		logger.Panicf("write record packed length: %d > 65535", len(packed))
	}

	_, err := f.Write([]byte{byte(tag)})
	if nil != err {
		return err
	}

	count := make([]byte, 2)
	binary.BigEndian.PutUint16(count, uint16(len(packed)))
	_, err = f.Write(count)
	if nil != err {
		return err
	}
	_, err = f.Write(packed)
	return err
}

func readRecord(f *os.File) (tagType, transactionrecord.Packed, error) {

	tag := make([]byte, 1)
	n, err := f.Read(tag)
	if nil != err {
		return taggedEOF, []byte{}, err
	}
	if 1 != n {
		return taggedEOF, []byte{}, fmt.Errorf("read record name: read: %d, expected: %d", n, 1)
	}

	countBuffer := make([]byte, 2)
	n, err = f.Read(countBuffer)
	if nil != err {
		return taggedEOF, []byte{}, err
	}
	if 2 != n {
		return taggedEOF, []byte{}, fmt.Errorf("read record key count: read: %d, expected: %d", n, 2)
	}

	count := int(binary.BigEndian.Uint16(countBuffer))

	if count > 0 {
		buffer := make([]byte, count)
		n, err := f.Read(buffer)
		if nil != err {
			return taggedEOF, []byte{}, err
		}
		if count != n {
			return taggedEOF, []byte{}, fmt.Errorf("read record read: %d, expected: %d", n, count)
		}
		return tagType(tag[0]), buffer, nil
	}
	return tagType(tag[0]), []byte{}, nil
}
