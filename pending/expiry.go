// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending

import (
	"time"
)

// cleanup cycle time
const (
	timeout = 60 * time.Minute
)

// expiry loop
func (state *expiryData) Run(args interface{}, shutdown <-chan struct{}) {

	log := state.log
	globalData := args.(*globalDataType)

	log.Info("starting…")

loop:
	for {
		log.Info("waiting…")
		select {
		case <-shutdown:
			break loop

		case <-time.After(timeout):
			globalData.Lock()

			for batchId, item := range globalData.entries {
				if time.Since(item.expires) > 0 {
					log.Infof("expired: %#v", batchId)

					for _, txId := range item.txIds {
						delete(globalData.index, txId)
					}

					delete(globalData.entries, batchId)
				}
			}
			globalData.Unlock()
		}
	}
}
