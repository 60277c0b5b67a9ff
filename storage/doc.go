// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains two LevelDB databases, each split into a series of
// tables.  Each table is defined by a prefix byte that is obtained
// from the prefix tag in the struct defining the available tables.
//
// The blocks database holds the chain itself and is authoritative;
// every table in the index database can be rebuilt from it by
// replaying the blocks.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++            = concatenation of byte data
// 3. block number  = big endian uint64 (8 bytes)
// 4. txId, batchId = transaction digest as 32 byte SHA3-256(data)
// 5. address       = 70 byte hex state address (6 byte namespace ++ 64 byte name digest)
// 6. count         = successive index value as big endian uint64 (8 bytes)
// 7. owner, colour = lower case UTF-8 string (variable length)
// 8. *others*      = byte values of various length
//
// Blocks:
//
//   B ++ block number          - block store
//                                data: header ++ batch record ++ (concat transaction records)
//
// Transactions:
//
//   T ++ txId                  - confirmed transactions
//                                data: block number ++ packed transaction
//
//   S ++ batchId               - confirmed batches
//                                data: block number ++ packed batch record
//
// Marbles:
//
//   M ++ address               - current marble state
//                                data: block number ++ marble data ("name,colour,size,owner")
//
//   H ++ address               - next count value for appending to the history
//                                data: count
//   H ++ address ++ count      - marble history, in order of commitment
//                                data: txId ++ block number ++ marble data
//                                data: txId ++ block number                 (delete entry)
//
//     the two H key forms are distinguished by length since the
//     address is a fixed 70 bytes
//
// Indexes:
//
//   O ++ owner ++ 00 ++ address   - marbles held by an owner
//                                   data: marble name
//   C ++ colour ++ 00 ++ address  - marbles of a colour
//                                   data: marble name
//
//     a NUL never occurs in an owner or colour so the separator keeps
//     each owner's keys contiguous for range scans, the trailing
//     address is a fixed 70 bytes
//
// Testing:
//   Z ++ key                   - testing data
package storage
