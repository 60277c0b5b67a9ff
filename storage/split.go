// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
)

// PoolNB - handle for a pool where every record is a big endian
// uint64 followed by a byte blob
type PoolNB struct {
	pool *PoolHandle
}

// Put - store a key/value bytes pair to the database
func (p *PoolNB) Put(key []byte, nValue []byte, bValue []byte) {
	if 8 != len(nValue) {
		logger.Panic("pool.PutNB 1st parameter must be 8 bytes")
		return
	}
	p.pool.Put(key, nValue, bValue)
}

// PutN - interface only, the N value is never stored alone
func (p *PoolNB) PutN(key []byte, value uint64) {
	logger.Panic("PoolNB has no PutN method")
}

// Remove - remove a key from the current batch
func (p *PoolNB) Remove(key []byte) {
	p.pool.Remove(key)
}

// Get - interface only, use GetNB to read records
func (p *PoolNB) Get(key []byte) []byte {
	return []byte{}
}

// GetN - interface only, records always carry a byte blob
func (p *PoolNB) GetN(key []byte) (uint64, bool) {
	return uint64(0), false
}

// GetNB - read a record and decode first 8 bytes as big endian uint64
// and return the rest of the record as byte slice
//
// second parameter is nil if record was not found
// panics if not 9 (or more) bytes in the record
// this returns the actual element in the second parameter - copy the result if it must be preserved
func (p *PoolNB) GetNB(key []byte) (uint64, []byte) {
	return p.pool.GetNB(key)
}

// Has - check if a key exists
func (p *PoolNB) Has(key []byte) bool {
	return p.pool.Has(key)
}

// Begin - mark the underlying database access as busy
func (p *PoolNB) Begin() {
	p.pool.Begin()
}

// Commit - write the current batch to the database
func (p *PoolNB) Commit() error {
	return p.pool.Commit()
}

// Ready - check the pool was initialised
func (p *PoolNB) Ready() bool {
	return nil != p && p.pool.Ready()
}

// LastElement - get the last element in a pool
func (p *PoolNB) LastElement() (Element, bool) {
	return p.pool.LastElement()
}
