// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// the time for a submitted but uncommitted batch to expire
const (
	PendingTimeout = 2 * time.Hour
)

// the time between rescans of the pending pool for batches that have
// not received an execution receipt
const (
	RescanInterval = 60 * time.Second
)

// initial delay before an unanswered batch is republished, doubles on
// each attempt up to the backoff limit
const (
	RepublishDelay = 30 * time.Second
)
