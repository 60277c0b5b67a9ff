// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"
	"unicode"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/blockrecord"
	"github.com/bitmark-inc/marbled/genesis"
	"github.com/bitmark-inc/marbled/merkle"
)

// some constants embedded into the genesis block
const (
	genesisBlockNumber  = 1
	genesisBlockVersion = 1
)

// hold chain specific timestamp
type TS struct {
	timestamp uint64
	utc       string
}

// data block
type SourceData struct {
	Timestamp TS
	Message   string
}

// some data embedded into the genesis block
// for live chain
var LiveNet = SourceData{
	// date -u -r $(printf '%d\n' 0x5c3ff307)
	// Thu 17 Jan 2019 03:14:15 UTC
	// date -u -r $(printf '%d\n' 0x5c3ff307) '+%FT%TZ'
	// 2019-01-17T03:14:15Z
	Timestamp: TS{0x5c3ff307, "2019-01-17T03:14:15Z"},

	Message: "playing for keeps",
}

// some data embedded into the genesis block
// for test chain
var TestNet = SourceData{
	// date -u -r $(printf '%d\n' 0x5b8e5b42)
	// Tue 04 Sep 2018 10:15:30 UTC
	// date -u -r $(printf '%d\n' 0x5b8e5b42) '+%FT%TZ'
	// 2018-09-04T10:15:30Z
	Timestamp: TS{0x5b8e5b42, "2018-09-04T10:15:30Z"},

	Message: "Marbles Testing Genesis Block",
}

// create the live genesis block
func TestLiveGenesisAssembly(t *testing.T) {
	checkAssembly(t, "Live", LiveNet, genesis.LiveGenesisDigest, genesis.LiveGenesisBlock)
}

// create the test genesis block
func TestTestGenesisAssembly(t *testing.T) {
	checkAssembly(t, "Test", TestNet, genesis.TestGenesisDigest, genesis.TestGenesisBlock)
}

func checkAssembly(t *testing.T, title string, source SourceData, gDigest blockdigest.Digest, gBlock []byte) {

	timestamp, err := time.Parse(time.RFC3339, source.Timestamp.utc)
	if nil != err {
		t.Fatalf("failed to parse time: error: %v", err)
	}
	timeUint64 := uint64(timestamp.UTC().Unix())
	if timeUint64 != source.Timestamp.timestamp {
		t.Fatalf("time converted to: 0x%x  expected: %x", timeUint64, source.Timestamp.timestamp)
	}

	// some common static data
	previousBlock := blockdigest.Digest{}

	message := []byte(source.Message)

	// block header
	h := blockrecord.Header{
		Version:          genesisBlockVersion,
		TransactionCount: 1,
		Number:           genesisBlockNumber,
		PreviousBlock:    previousBlock,
		MerkleRoot:       merkle.NewDigest(message),
		Timestamp:        source.Timestamp.timestamp,
	}

	header := h.Pack()
	hDigest := header.Digest()

	// ok - log the header and message data
	t.Logf("Title: %s", title)
	t.Logf("header: %#v\n", h)
	t.Logf("packed header: %x\n", header)
	t.Logf("message: %q\n", message)
	t.Logf("hDigest: %#v\n", hDigest)
	t.Logf("hDigest little endian hex: %x\n", [blockdigest.Length]byte(hDigest))

	// check that it matches
	if hDigest != gDigest {
		t.Errorf("digest mismatch actual: %#v  expected: %#v", hDigest, gDigest)
	}

	// compute block size
	blockSize := len(header) + len(message)

	// pack the block
	blk := blockrecord.PackedBlock(make([]byte, 0, blockSize))
	blk = append(blk, header[:]...)
	blk = append(blk, message...)

	if !bytes.Equal(blk, gBlock) {
		t.Errorf("initial block assembly mismatch actual: %x  expected: %x", blk, gBlock)
	}

	t.Logf("packed block: %x", blk)

	for i := 0; i < len(blk); i += 16 {
		line := ""
		line += fmt.Sprintf("%08x ", i)
		text := ""
		for j := 0; j < 16; j += 1 {
			if 8 == j {
				line += " "
			}
			if i+j >= len(blk) {
				line += "   "
			} else {
				b := blk[i+j]
				line += fmt.Sprintf(" %02x", b)
				r := rune(b)
				if unicode.IsPrint(r) {
					text += string(r)
				} else {
					text += "."
				}
			}
		}

		t.Log(line + "  |" + text + "|")
	}

	// the header must unpack despite the below minimum transaction count
	unpackedHeader, digest, data, err := blockrecord.ExtractHeader(gBlock, genesisBlockNumber)
	if nil != err {
		t.Fatalf("extract header failed: error: %v", err)
	}

	if digest != gDigest {
		t.Fatalf("digest mismatch actual: %#v  expected: %#v", digest, gDigest)
	}

	if unpackedHeader.Timestamp != h.Timestamp {
		t.Fatalf("block timestamp mismatch: actual 0x%08x  expected 0x%08x", unpackedHeader.Timestamp, h.Timestamp)
	}

	if !bytes.Equal(data, message) {
		t.Fatalf("block residue mismatch: actual %q  expected %q", data, message)
	}
}

// the two chains must not share a genesis block
func TestGenesisBlocksDistinct(t *testing.T) {
	if genesis.LiveGenesisDigest == genesis.TestGenesisDigest {
		t.Fatal("live and test genesis digests are equal")
	}
	if bytes.Equal(genesis.LiveGenesisBlock, genesis.TestGenesisBlock) {
		t.Fatal("live and test genesis blocks are equal")
	}
}
