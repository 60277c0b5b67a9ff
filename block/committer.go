// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/messagebus"
)

// committer - the background that turns execution receipts into blocks
type committer struct {
	log *logger.L
}

// initialise the committer
func (com *committer) initialise() error {
	log := logger.New("committer")
	com.log = log
	log.Info("initialising…")
	return nil
}

// Run - wait for execution receipts and commit their blocks
func (com *committer) Run(args interface{}, shutdown <-chan struct{}) {
	log := com.log

	log.Info("starting…")
	queue := messagebus.Bus.Commit.Chan()

loop:
	for {
		log.Debug("waiting…")
		select {
		case <-shutdown:
			break loop
		case item := <-queue:
			log.Infof("received: %s  parameters: %d", item.Command, len(item.Parameters))
			com.process(&item)
		}
	}
	messagebus.Bus.Commit.Release()
}

// handle a single queued item
func (com *committer) process(item *messagebus.Message) {
	log := com.log

	switch item.Command {
	case "receipt":
		if 1 != len(item.Parameters) {
			log.Warnf("ignoring: %s with: %d parameters", item.Command, len(item.Parameters))
			return
		}
		err := CommitReceipt(item.Parameters[0])
		if nil != err {
			log.Warnf("commit error: %s", err)
		}

	default:
		log.Warnf("ignoring unknown command: %q", item.Command)
	}
}
