// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package family - execution rules of the marbles transaction family
//
// a transaction payload is applied to a context mapping state
// addresses to packed marble records, producing the list of state
// mutations for the receipt
//
// the context is the snapshot supplied with the job so execution
// needs no access to the ledger
package family
