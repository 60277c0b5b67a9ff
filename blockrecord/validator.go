// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/bitmark-inc/marbled/blockdigest"
	"github.com/bitmark-inc/marbled/fault"
)

// ValidHeaderVersion - check an incoming block version against the current one
func ValidHeaderVersion(currentVersion uint16, incomingVersion uint16) error {
	if incomingVersion < MinimumVersion {
		return fault.InvalidBlockHeaderVersion
	}

	// incoming block version must be the same or higher than previous version
	if currentVersion > incomingVersion {
		return fault.BlockVersionMustNotDecrease
	}

	return nil
}

// ValidBlockLinkage - check the previous digest an incoming block claims
func ValidBlockLinkage(currentDigest blockdigest.Digest, incomingDigestOfPreviousBlock blockdigest.Digest) error {
	if currentDigest != incomingDigestOfPreviousBlock {
		return fault.PreviousBlockDigestDoesNotMatch
	}

	return nil
}

// ValidBlockNumber - a replayed block must advance the height by exactly one
func ValidBlockNumber(currentHeight uint64, incomingNumber uint64) error {
	if currentHeight+1 != incomingNumber {
		return fault.HeightOutOfSequence
	}

	return nil
}
