// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache maintains the memory data store
//
//  ***** Data Structure *****
//
//  Pool                  Key                       Value             ExpiresAfter
//  |___ InvalidBatches   batch id (hex string)     string (message)  72h
//  |___ ReceiptFilter    batch id (hex string)     receipt digest    1h
//
//  ***** Purpose *****
//
//  InvalidBatches:
//    message from the transaction processor for a batch that failed
//    its family rules, retained so a status query can report why a
//    batch never committed
//
//  ReceiptFilter:
//    id of the first receipt accepted for a batch, later receipts for
//    the same batch from other processors are dropped
package cache
