// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package events - publish committed blocks and state deltas
//
// every commit produces one block event and one delta event per state
// change, pushed out on an authenticated PUB socket so clients can
// follow the ledger without polling
package events

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/background"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/zmqutil"
)

// Configuration - a block of configuration data
// this is read from the configuration file
type Configuration struct {
	Publish    []string `gluamapper:"publish" json:"publish"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// globals for background process
type eventsData struct {
	sync.RWMutex

	log *logger.L

	pub eventPublisher

	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData eventsData

// Initialise - start the event publication background
func Initialise(configuration *Configuration) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("events")
	globalData.log.Info("starting…")

	// read the keys
	privateKey, err := zmqutil.ReadPrivateKey(configuration.PrivateKey)
	if nil != err {
		globalData.log.Errorf("read private key: %q  error: %s", configuration.PrivateKey, err)
		return err
	}
	publicKey, err := zmqutil.ReadPublicKey(configuration.PublicKey)
	if nil != err {
		globalData.log.Errorf("read public key: %q  error: %s", configuration.PublicKey, err)
		return err
	}

	if err := globalData.pub.initialise(privateKey, publicKey, configuration.Publish); nil != err {
		return err
	}

	// all data initialised
	globalData.initialised = true

	// start background processes
	globalData.log.Info("start background…")

	processes := background.Processes{
		&globalData.pub,
	}

	globalData.background = background.Start(processes, &globalData)

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	// stop background
	globalData.background.Stop()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
