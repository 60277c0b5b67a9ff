// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/hex"

	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/util"
)

// TagType - type code for transactions
type TagType uint64

// enumerate the possible transaction record types
// this is encoded a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// valid record types
	MarbleTransactionTag = TagType(iota) // single signed family operation
	MarbleBatchTag       = TagType(iota) // signed group of operations committing atomically

	// this item must be last
	InvalidTag = TagType(iota)
)

// Packed - packed records are just a byte slice
type Packed []byte

// Transaction - generic transaction interface
type Transaction interface {
	Pack(account *account.Account) (Packed, error)
}

// byte sizes for various fields
const (
	minNameLength              = 3
	maxNameLength              = 64
	maxPayloadLength           = 1024
	maxSignatureLength         = 1024
	maxAddressesPerTransaction = 16
	maxTransactionsPerBatch    = 256
)

// MarbleTransaction - the unpacked marbles family operation
//
// the payload is the comma separated action, the inputs and outputs
// declare the state addresses the action may read and write
type MarbleTransaction struct {
	FamilyName    string            `json:"familyName"`    // utf-8
	FamilyVersion string            `json:"familyVersion"` // utf-8
	Inputs        []string          `json:"inputs"`        // state addresses read
	Outputs       []string          `json:"outputs"`       // state addresses written
	Nonce         uint64            `json:"nonce,string"`  // unsigned 0..N
	Signer        *account.Account  `json:"signer"`        // base58
	Payload       string            `json:"payload"`       // comma separated action
	Signature     account.Signature `json:"signature"`     // hex
}

// MarbleBatch - the unpacked batch header
//
// only ids are embedded, the packed transactions travel separately
// and are matched against the ids on submission
type MarbleBatch struct {
	Signer    *account.Account  `json:"signer"`       // base58
	Nonce     uint64            `json:"nonce,string"` // unsigned 0..N
	TxIds     []merkle.Digest   `json:"txIds"`        // ids of packed transactions in commit order
	Signature account.Signature `json:"signature"`    // hex
}

// Type - returns the record type code
func (record Packed) Type() TagType {
	recordType, n := util.FromVarint64(record)
	if 0 == n {
		return NullTag
	}
	return TagType(recordType)
}

// RecordName - returns the name of a transaction record as a string
func RecordName(record interface{}) (string, bool) {
	switch record.(type) {
	case *MarbleTransaction, MarbleTransaction:
		return "MarbleTransaction", true

	case *MarbleBatch, MarbleBatch:
		return "MarbleBatch", true

	default:
		return "*unknown*", false
	}
}

// MakeId - create the id for a packed record
//
// transaction and batch ids are the digest of the full packed record
func (record Packed) MakeId() merkle.Digest {
	return merkle.NewDigest(record)
}

// MarshalText - convert a packed to its hex JSON form
func (record Packed) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(record))
	b := make([]byte, size)
	hex.Encode(b, record)
	return b, nil
}

// UnmarshalText - convert a packed to its hex JSON form
func (record *Packed) UnmarshalText(s []byte) error {
	size := hex.DecodedLen(len(s))
	*record = make([]byte, size)
	_, err := hex.Decode(*record, s)
	return err
}
