// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/background"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/storage"
)

// globals for background proccess
type blockData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	com committer // processes execution receipts into blocks

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData blockData

// Initialise - setup the block system
//
// reindex is set when the index database was missing or stale, the
// stored blocks are then re-executed to rebuild it
func Initialise(reindex bool) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("block")
	globalData.log = log
	log.Info("starting…")

	// check storage is initialised
	if nil == storage.Pool.Blocks || !storage.Pool.Blocks.Ready() {
		log.Critical("storage pool is not initialised")
		return fault.NotInitialised
	}

	err := replay(log, reindex)
	if nil != err {
		return err
	}

	if reindex {
		err = storage.ReindexDone()
		if nil != err {
			log.Criticalf("reindex completion error: %s", err)
			return err
		}
	}

	err = globalData.com.initialise()
	if nil != err {
		return err
	}

	// all data initialised
	globalData.initialised = true

	// start background processes
	log.Info("start background…")

	processes := background.Processes{
		&globalData.com,
	}

	globalData.background = background.Start(processes, &globalData)

	return nil
}

// Finalise - shutdown the block system
func Finalise() error {

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.background.Stop()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
