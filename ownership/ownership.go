// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ownership - maintain and query the owner and colour indexes
//
// every committed state change updates two index pools so that
// marbles can be listed by owner or by colour without scanning the
// whole state; the index keys place a NUL between the variable
// length owner or colour and the fixed length state address to keep
// each range contiguous
package ownership

// Ownership - query interface for the marble indexes
type Ownership interface {
	ListAll(start string, count int) ([]Record, error)
	ListOwnedBy(owner string, start string, count int) ([]Record, error)
	ListByColour(colour string, start string, count int) ([]Record, error)
}

type ownership struct{}

func (ownership) ListAll(start string, count int) ([]Record, error) {
	return ListAll(start, count)
}

func (ownership) ListOwnedBy(owner string, start string, count int) ([]Record, error) {
	return ListOwnedBy(owner, start, count)
}

func (ownership) ListByColour(colour string, start string, count int) ([]Record, error) {
	return ListByColour(colour, start, count)
}

// Get - return the Ownership interface
func Get() Ownership {
	return ownership{}
}
