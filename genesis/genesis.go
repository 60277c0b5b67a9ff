// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - the first block in the chain
//
// the genesis block has no predecessor and carries no marble
// transactions, just a short message whose digest stands in for the
// merkle root; the block is marked by version, transaction count and
// number all set to one
//
// the block and its digest are assembled once at startup, the digest
// algorithm is keyed so the values cannot be stored here as literals
package genesis

import (
	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/merkle"
)

// BlockNumber - the genesis block number
const BlockNumber = 1

// hold chain specific data for the genesis block
type sourceData struct {
	timestamp uint64
	message   string
}

// some data embedded into the genesis block
// for live chain
var liveNet = sourceData{
	// date -u -r $(printf '%d\n' 0x5c3ff307)
	// Thu 17 Jan 2019 03:14:15 UTC
	// date -u -r $(printf '%d\n' 0x5c3ff307) '+%FT%TZ'
	// 2019-01-17T03:14:15Z
	timestamp: 0x5c3ff307,

	message: "playing for keeps",
}

// some data embedded into the genesis block
// for test chain
var testNet = sourceData{
	// date -u -r $(printf '%d\n' 0x5b8e5b42)
	// Tue 04 Sep 2018 10:15:30 UTC
	// date -u -r $(printf '%d\n' 0x5b8e5b42) '+%FT%TZ'
	// 2018-09-04T10:15:30Z
	timestamp: 0x5b8e5b42,

	message: "Marbles Testing Genesis Block",
}

// LiveGenesisBlock - the live chain genesis block
var LiveGenesisBlock blockrecord.PackedBlock

// LiveGenesisDigest - the digest of the live genesis block header
var LiveGenesisDigest blockdigest.Digest

// TestGenesisBlock - the genesis block shared by the testing and local chains
var TestGenesisBlock blockrecord.PackedBlock

// TestGenesisDigest - the digest of the test genesis block header
var TestGenesisDigest blockdigest.Digest

func init() {
	LiveGenesisBlock, LiveGenesisDigest = assemble(liveNet)
	TestGenesisBlock, TestGenesisDigest = assemble(testNet)
}

// build one genesis block from its source data
func assemble(source sourceData) (blockrecord.PackedBlock, blockdigest.Digest) {

	message := []byte(source.message)

	h := blockrecord.Header{
		Version:          1,
		TransactionCount: 1,
		Number:           BlockNumber,
		PreviousBlock:    blockdigest.Digest{},
		MerkleRoot:       merkle.NewDigest(message),
		Timestamp:        source.timestamp,
	}

	header := h.Pack()

	block := make([]byte, 0, len(header)+len(message))
	block = append(block, header[:]...)
	block = append(block, message...)

	return block, header.Digest()
}
