// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"sync"
)

// Transaction - a batched write spanning both databases
//
// mutations are buffered and only reach the disk on commit, the
// blocks database batch is always written before the index one so a
// crash in between leaves an index that can be rebuilt from blocks
type Transaction interface {
	Abort()
	Begin() error
	Commit() error
	Delete(Handle, []byte)
	DumpTx() []byte
	Get(Handle, []byte) []byte
	GetN(Handle, []byte) (uint64, bool)
	GetNB(Handle, []byte) (uint64, []byte)
	Has(Handle, []byte) bool
	InUse() bool
	Put(Handle, []byte, []byte, []byte)
	PutN(Handle, []byte, uint64)
}

type TransactionData struct {
	sync.Mutex
	inUse      bool
	dataAccess []Access
}

func newTransaction(access []Access) Transaction {
	return &TransactionData{
		inUse:      false,
		dataAccess: access,
	}
}

func (t *TransactionData) Begin() error {
	t.Lock()
	defer t.Unlock()

	if t.inUse {
		return fmt.Errorf("transaction already in use")
	}

	for _, access := range t.dataAccess {
		if err := access.Begin(); nil != err {
			return err
		}
	}

	t.inUse = true
	return nil
}

func (t *TransactionData) Put(h Handle, key []byte, value []byte, additional []byte) {
	h.Put(key, value, additional)
}

func (t *TransactionData) PutN(h Handle, key []byte, value uint64) {
	h.PutN(key, value)
}

func (t *TransactionData) Delete(h Handle, key []byte) {
	h.Remove(key)
}

func (t *TransactionData) Commit() error {
	for _, access := range t.dataAccess {
		if err := access.Commit(); nil != err {
			return err
		}
	}
	t.Abort()
	return nil
}

func (t *TransactionData) Abort() {
	for _, access := range t.dataAccess {
		access.Abort()
	}

	t.Lock()
	t.inUse = false
	t.Unlock()
}

func (t *TransactionData) InUse() bool {
	t.Lock()
	defer t.Unlock()
	return t.inUse
}

func (t *TransactionData) DumpTx() []byte {
	dump := []byte{}
	for _, access := range t.dataAccess {
		dump = append(dump, access.DumpTx()...)
	}
	return dump
}

func (t *TransactionData) Get(h Handle, key []byte) []byte {
	return h.Get(key)
}

func (t *TransactionData) GetN(h Handle, key []byte) (uint64, bool) {
	return h.GetN(key)
}

func (t *TransactionData) GetNB(h Handle, key []byte) (uint64, []byte) {
	return h.GetNB(key)
}

func (t *TransactionData) Has(h Handle, key []byte) bool {
	return h.Has(key)
}
