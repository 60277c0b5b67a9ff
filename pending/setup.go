// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/background"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

const (
	maximumTransactions = 256 // allowed transactions in a single batch
)

// a batch entry in the pool
type batchEntry struct {
	batchId      merkle.Digest
	packed       transactionrecord.Packed // packed batch header
	txIds        []merkle.Digest
	transactions []transactionrecord.Packed
	expires      time.Time
}

// expiry background
type expiryData struct {
	log *logger.L
}

// globals
type globalDataType struct {
	sync.RWMutex
	log         *logger.L
	initialised bool
	enabled     bool
	filename    string

	// indexed by batch id
	entries map[merkle.Digest]*batchEntry

	// indexed by transaction id so that a transaction resubmitted
	// inside a different batch can be detected
	// data is the batch id the transaction first arrived in
	index map[merkle.Digest]merkle.Digest

	expiry     expiryData
	background *background.T
}

// gobal storage
var globalData globalDataType

// Initialise - create the pool
//
// the filename is the backup file written on shutdown and restored by
// LoadFromFile
func Initialise(filename string) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("pending")
	globalData.log.Info("starting…")

	globalData.filename = filename
	globalData.entries = make(map[merkle.Digest]*batchEntry)
	globalData.index = make(map[merkle.Digest]merkle.Digest)

	globalData.enabled = true

	globalData.expiry.log = logger.New("pending-expiry")

	// all data initialised
	globalData.initialised = true

	// start background processes
	globalData.log.Info("start background…")

	processes := background.Processes{
		&globalData.expiry,
	}

	globalData.background = background.Start(processes, &globalData)

	return nil
}

// Finalise - stop background, save to the backup file
func Finalise() error {

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// stop background
	globalData.background.Stop()

	// save pending batches
	err := saveToFile()
	if nil != err {
		globalData.log.Errorf("save error: %s", err)
	}

	globalData.Lock()
	globalData.enabled = false
	globalData.initialised = false
	globalData.Unlock()

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Disable - stop fetch operations, used while a block is being stored
func Disable() {
	globalData.Lock()
	globalData.enabled = false
	globalData.Unlock()
}

// Enable - allow fetch operations again
func Enable() {
	globalData.Lock()
	globalData.enabled = true
	globalData.Unlock()
}

// ReadCounters - for statistics via node info
func ReadCounters() (int, int) {
	globalData.RLock()
	defer globalData.RUnlock()

	return len(globalData.entries), len(globalData.index)
}
