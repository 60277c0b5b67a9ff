// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending

import (
	"github.com/bitmark-inc/marbled/cache"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/storage"
)

// State - result of a batch or transaction status query
type State int

// possible state values
const (
	StateUnknown   State = iota
	StatePending   State = iota
	StateCommitted State = iota
	StateInvalid   State = iota
)

// String - convert the state value for printf
func (state State) String() string {
	switch state {
	case StateUnknown:
		return "UNKNOWN"
	case StatePending:
		return "PENDING"
	case StateCommitted:
		return "COMMITTED"
	case StateInvalid:
		return "INVALID"
	default:
		return "*unknown*"
	}
}

// MarshalText - convert the state value for JSON
func (state State) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

// UnmarshalText - convert the state value from JSON to enumeration
func (state *State) UnmarshalText(s []byte) error {
	switch string(s) {
	case "PENDING":
		*state = StatePending
	case "COMMITTED":
		*state = StateCommitted
	case "INVALID":
		*state = StateInvalid
	default:
		*state = StateUnknown
	}
	return nil
}

// BatchStatus - current state of a batch
func BatchStatus(batchId merkle.Digest, batchesHandle storage.Handle) State {
	globalData.RLock()
	_, ok := globalData.entries[batchId]
	globalData.RUnlock()
	if ok {
		return StatePending
	}

	if batchesHandle.Has(batchId[:]) {
		return StateCommitted
	}

	if _, ok := cache.Pool.InvalidBatches.Get(batchId.String()); ok {
		return StateInvalid
	}

	return StateUnknown
}

// TransactionStatus - current state of a single transaction
func TransactionStatus(txId merkle.Digest, transactionsHandle storage.Handle) State {
	globalData.RLock()
	_, ok := globalData.index[txId]
	globalData.RUnlock()
	if ok {
		return StatePending
	}

	if transactionsHandle.Has(txId[:]) {
		return StateCommitted
	}

	return StateUnknown
}

// InvalidMessage - the processor message for an invalid batch
func InvalidMessage(batchId merkle.Digest) (string, bool) {
	if message, ok := cache.Pool.InvalidBatches.Get(batchId.String()); ok {
		return message.(string), true
	}
	return "", false
}
