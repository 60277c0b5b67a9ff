// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/mr-tron/base58"
)

// ToBase58 - convert a byte slice to its base58 representation
func ToBase58(raw []byte) string {
	return base58.Encode(raw)
}

// FromBase58 - convert a base58 string to a byte slice
//
// returns an empty slice if the string is not valid base58
func FromBase58(s string) []byte {
	result, err := base58.Decode(s)
	if nil != err {
		return []byte{}
	}
	return result
}
