// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/bitmark-inc/marbled/fault"
)

// the marbles transaction family
const (
	FamilyName    = "marbles"
	FamilyVersion = "1.0"
)

// state address sizes in hex characters
const (
	NamespaceLength = 6
	AddressLength   = 70
)

// prefix for the family state addresses
// the first hex characters of SHA-512 of the family name
var namespace string

func init() {
	namespace = hexDigest(FamilyName)[:NamespaceLength]
}

// Namespace - the state address prefix of the marbles family
func Namespace() string {
	return namespace
}

// StateAddress - compute the state address of a named marble
//
// address = namespace + SHA-512(name) clipped to a 70 character hex string
func StateAddress(name string) string {
	return namespace + hexDigest(name)[:AddressLength-NamespaceLength]
}

// ValidateAddress - check the form of a state address
//
// must be lower case hex of the right length inside the family namespace
func ValidateAddress(address string) error {
	if AddressLength != len(address) {
		return fault.InvalidStateAddress
	}
	for _, c := range address {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return fault.InvalidStateAddress
		}
	}
	if namespace != address[:NamespaceLength] {
		return fault.InvalidStateAddress
	}
	return nil
}

func hexDigest(s string) string {
	digest := sha512.Sum512([]byte(s))
	return hex.EncodeToString(digest[:])
}
