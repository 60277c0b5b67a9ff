// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - the queues joining the daemon's internal
// stages: batch verification, execution dispatch, block commit and
// event publication
package messagebus
