// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockdigest - implementation block header hashing
//
// using a memory intensive argon2-d algorithm; each block header
// carries the digest of its predecessor so the chain can be verified
// on replay
package blockdigest
