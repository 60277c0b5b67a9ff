// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockheader

import (
	"encoding/binary"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/blockring"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/genesis"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/storage"
)

// DigestForBlock - return the digest for a specific block number
//
// recent blocks come from the ring buffer, older ones are recomputed
// from the stored block
func DigestForBlock(number uint64) (blockdigest.Digest, error) {
	globalData.Lock()
	defer globalData.Unlock()

	// valid block number
	if number <= genesis.BlockNumber {
		if mode.IsTesting() {
			return genesis.TestGenesisDigest, nil
		}
		return genesis.LiveGenesisDigest, nil
	}

	// fast path: the digest is still in the ring
	if digest := blockring.DigestForBlock(number); nil != digest {
		return *digest, nil
	}

	// fetch block and compute digest
	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, number)

	packed := storage.Pool.Blocks.Get(n)
	if nil == packed {
		return blockdigest.Digest{}, fault.BlockNotFound
	}

	_, digest, _, err := blockrecord.ExtractHeader(packed, number)
	return digest, err
}
