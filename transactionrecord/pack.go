// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/util"
)

// pack MarbleTransaction
//
// Pack Varint64(tag) followed by fields in order as struct above with
// signature last
//
// NOTE: returns the "unsigned" message on signature failure - for
//       debugging/testing
func (tx *MarbleTransaction) Pack(address *account.Account) (Packed, error) {
	if len(tx.Signature) > maxSignatureLength {
		return nil, fault.SignatureTooLong
	}

	if nil == tx.Signer || nil == address {
		return nil, fault.InvalidSigner
	}

	if FamilyName != tx.FamilyName || FamilyVersion != tx.FamilyVersion {
		return nil, fault.InvalidFamily
	}

	if len(tx.Inputs) > maxAddressesPerTransaction ||
		len(tx.Outputs) > maxAddressesPerTransaction {
		return nil, fault.InvalidCount
	}
	for _, input := range tx.Inputs {
		if err := ValidateAddress(input); nil != err {
			return nil, err
		}
	}
	for _, output := range tx.Outputs {
		if err := ValidateAddress(output); nil != err {
			return nil, err
		}
	}

	if 0 == len(tx.Payload) || len(tx.Payload) > maxPayloadLength {
		return nil, fault.InvalidPayload
	}

	// concatenate bytes
	message := util.ToVarint64(uint64(MarbleTransactionTag))
	message = appendString(message, tx.FamilyName)
	message = appendString(message, tx.FamilyVersion)
	message = appendStringList(message, tx.Inputs)
	message = appendStringList(message, tx.Outputs)
	message = appendUint64(message, tx.Nonce)
	message = appendAccount(message, tx.Signer)
	message = appendString(message, tx.Payload)

	// signature
	err := address.CheckSignature(message, tx.Signature)
	if nil != err {
		return message, err
	}

	// Signature Last
	return appendBytes(message, tx.Signature), nil
}

// pack MarbleBatch
//
// Pack Varint64(tag) followed by fields in order as struct above with
// signature last
//
// NOTE: returns the "unsigned" message on signature failure - for
//       debugging/testing
func (batch *MarbleBatch) Pack(address *account.Account) (Packed, error) {
	if len(batch.Signature) > maxSignatureLength {
		return nil, fault.SignatureTooLong
	}

	if nil == batch.Signer || nil == address {
		return nil, fault.InvalidSigner
	}

	if 0 == len(batch.TxIds) || len(batch.TxIds) > maxTransactionsPerBatch {
		return nil, fault.InvalidCount
	}

	// concatenate bytes
	message := util.ToVarint64(uint64(MarbleBatchTag))
	message = appendAccount(message, batch.Signer)
	message = appendUint64(message, batch.Nonce)
	message = appendUint64(message, uint64(len(batch.TxIds)))
	for _, txId := range batch.TxIds {
		message = appendBytes(message, txId[:])
	}

	// signature
	err := address.CheckSignature(message, batch.Signature)
	if nil != err {
		return message, err
	}

	// Signature Last
	return appendBytes(message, batch.Signature), nil
}

// append a single field to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer Packed, s string) Packed {
	l := util.ToVarint64(uint64(len(s)))
	buffer = append(buffer, l...)
	return append(buffer, s...)
}

// append a list of strings to a buffer
//
// the list is prefixed by Varint64(count)
func appendStringList(buffer Packed, list []string) Packed {
	buffer = appendUint64(buffer, uint64(len(list)))
	for _, s := range list {
		buffer = appendString(buffer, s)
	}
	return buffer
}

// append an address to a buffer
//
// the field is prefixed by Varint64(length)
func appendAccount(buffer Packed, address *account.Account) Packed {
	data := address.Bytes()
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	buffer = append(buffer, data...)
	return buffer
}

// append a bytes to a buffer
//
// the field is prefixed by Varint64(length)
func appendBytes(buffer Packed, data []byte) Packed {
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	buffer = append(buffer, data...)
	return buffer
}

// append a Varint64 to buffer
func appendUint64(buffer Packed, value uint64) Packed {
	valueBytes := util.ToVarint64(value)
	buffer = append(buffer, valueBytes...)
	return buffer
}
