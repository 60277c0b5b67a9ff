// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/blockheader"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/blockring"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/genesis"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/storage"
)

// DigestForBlock - return the digest for a specific block number
func DigestForBlock(number uint64) (blockdigest.Digest, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	// valid block number
	if number <= genesis.BlockNumber {
		if mode.IsTesting() {
			return genesis.TestGenesisDigest, nil
		}
		return genesis.LiveGenesisDigest, nil
	}

	// check if in the cache
	if number <= blockheader.Height() {
		d := blockring.DigestForBlock(number)
		if nil != d {
			return *d, nil
		}
	}

	// no cache, fetch block and compute digest
	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, number)
	packed := storage.Pool.Blocks.Get(n)
	if nil == packed {
		return blockdigest.Digest{}, fault.BlockNotFound
	}

	_, digest, _, err := blockrecord.ExtractHeader(packed, number)

	return digest, err
}

// Get - fetch and decode a stored block
//
// the genesis block is not in the store so the lowest number that can
// be fetched is the one above it
func Get(number uint64) (*Block, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, number)
	packed := storage.Pool.Blocks.Get(n)
	if nil == packed {
		return nil, fault.BlockNotFound
	}

	return Decode(packed, number)
}

// LastBlockHash - hex digest of the highest stored block
//
// empty string if the store only holds the genesis block
func LastBlockHash(pool storage.Handle) string {
	last, ok := pool.LastElement()
	if !ok {
		return ""
	}

	_, digest, _, err := blockrecord.ExtractHeader(last.Value, 0)
	if nil != err {
		return ""
	}

	return digest.String()
}
