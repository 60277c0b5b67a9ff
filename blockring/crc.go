// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockring

import (
	"hash/crc64"
)

// create the CRC64 table
var table = crc64.MakeTable(crc64.ECMA)

// CRC - compute the check code of a packed block
func CRC(height uint64, packed []byte) uint64 {
	return crc64.Update(height, table, packed)
}
