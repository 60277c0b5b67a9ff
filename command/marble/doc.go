// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command-line client for a marbled node
//
// generates signing keys, submits marble operations over JSON-RPC and
// follows the committed event stream
package main
