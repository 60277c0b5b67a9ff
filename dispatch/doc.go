// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dispatch - hand pending batches to transaction processors
//
// three sockets are maintained:
//
//   publish  (PUB)    - broadcast execution jobs to subscribed
//                       processors, topic is the family name
//   submit   (ROUTER) - receive execution receipts back
//   register (REP)    - processors announce the family they handle
//
// a job carries the batch transactions and a snapshot of the declared
// input state so the processor never touches the ledger
//
// the first receipt accepted for a batch wins, a failed receipt marks
// the batch invalid, a successful one is queued for the committer,
// unanswered jobs are republished with increasing delay
package dispatch
