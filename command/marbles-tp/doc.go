// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Transaction processor for the marbles family
//
// subscribes to execution jobs broadcast by a marbled node, applies
// the family rules to the state snapshot shipped with each job and
// returns an execution receipt carrying the resulting mutations
//
// the processor holds no ledger state of its own so any number of
// them can run against the same node
package main
