// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockring - a ring buffer of the most recent block digests
//
// committing a block appends its number, header digest and check code
// to the ring so that recent digests can be fetched without touching
// the block store
package blockring

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/genesis"
	"github.com/bitmark-inc/marbled/mode"
)

// Size - the number of entries in the ring buffer
const Size = 20

// type to hold a block's digest and its crc64 check code
type ringBuffer struct {
	number uint64             // block number
	crc    uint64             // CRC64_ECMA(block_number, complete_block_bytes)
	digest blockdigest.Digest // header digest
}

// globals for the ring
type ringData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	height uint64

	ring      [Size]ringBuffer
	ringIndex int

	// set once during initialise
	initialised bool
}

// global data
var globalData ringData

// Initialise - setup the ring with the current chain's genesis entry
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("ring")
	globalData.log = log
	log.Info("starting…")

	// zero height and fill ring with default values
	clearRingBuffer()

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - shutdown the ring
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// GetLatestCRC - fetch the check code of the most recent block
func GetLatestCRC() uint64 {
	globalData.Lock()
	i := globalData.ringIndex - 1
	if i < 0 {
		i = len(globalData.ring) - 1
	}
	crc := globalData.ring[i].crc
	globalData.Unlock()
	return crc
}

// DigestForBlock - fetch a digest from the ring if present
//
// returns nil when the block number is no longer in the ring
func DigestForBlock(number uint64) *blockdigest.Digest {
	globalData.Lock()
	defer globalData.Unlock()

	// check if in the cache
	i := globalData.height - number
	if i < Size {
		j := globalData.ringIndex - 1 - int(i)
		if j < 0 {
			j += Size
		}
		if number != globalData.ring[j].number {
			logger.Panicf("blockring.DigestForBlock: ring buffer corrupted block number, actual: %d  expected: %d", globalData.ring[j].number, number)
		}
		return &globalData.ring[j].digest
	}
	return nil
}

// Put - store a block's digest and check code
//
// block numbers must arrive strictly in sequence
func Put(number uint64, digest blockdigest.Digest, packedBlock []byte) {
	globalData.Lock()
	defer globalData.Unlock()

	globalData.log.Debugf("put block number: %d", number)

	if 0 != globalData.height && globalData.height+1 != number {
		logger.Panicf("blockring.Put: block number: actual: %d  expected: %d", number, globalData.height+1)
	}

	i := globalData.ringIndex
	globalData.ring[i].number = number
	globalData.ring[i].digest = digest
	globalData.ring[i].crc = CRC(number, packedBlock)
	i = i + 1
	if i >= len(globalData.ring) {
		i = 0
	}
	globalData.ringIndex = i

	globalData.height = number
}

// Clear - reset the ring back to the genesis entry
func Clear(log *logger.L) {
	globalData.Lock()
	defer globalData.Unlock()
	log.Info("clearing ring buffer")
	clearRingBuffer()
}

// must hold lock to call this
func clearRingBuffer() {

	// set initial crc depending on mode
	number := uint64(genesis.BlockNumber)
	digest := genesis.LiveGenesisDigest
	block := genesis.LiveGenesisBlock
	if mode.IsTesting() {
		digest = genesis.TestGenesisDigest
		block = genesis.TestGenesisBlock
	}

	// default CRC of appropriate genesis block
	crc := CRC(number, block)

	// fill ring with default values
	globalData.ringIndex = 0
	for i := 0; i < len(globalData.ring); i += 1 {
		globalData.ring[i].number = number
		globalData.ring[i].digest = digest
		globalData.ring[i].crc = crc
	}

	// zero the height so next put will succeed
	globalData.height = 0
}
