// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/marbled/account"
	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
	"github.com/bitmark-inc/marbled/util"
)

// Unpack - turn a byte slice into a record
//
// Note: the unpacker will access the underlying array of the packed
//       record so p[x:y].Unpack() can read past p[y] and could continue
//       up to cap(p)
//
// must cast result to correct type
//
// e.g.
//   tx, ok := result.(*transactionrecord.MarbleTransaction)
// or:
//   switch tx := result.(type) {
//   case *transactionrecord.MarbleTransaction:
func (record Packed) Unpack(testnet bool) (t Transaction, n int, e error) {

	defer func() {
		if r := recover(); nil != r {
			e = fault.NotTransactionPack
		}
	}()

	recordType, n := util.ClippedVarint64(record, 1, 8192)
	if 0 == n {
		return nil, 0, fault.NotTransactionPack
	}

unpack_switch:
	switch TagType(recordType) {

	case MarbleTransactionTag:

		// family name
		familyNameLength, familyNameOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == familyNameOffset {
			break unpack_switch
		}
		n += familyNameOffset
		familyName := string(record[n : n+familyNameLength])
		n += familyNameLength

		// family version
		familyVersionLength, familyVersionOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == familyVersionOffset {
			break unpack_switch
		}
		n += familyVersionOffset
		familyVersion := string(record[n : n+familyVersionLength])
		n += familyVersionLength

		// input addresses
		inputs, n, err := unpackAddressList(record, n)
		if nil != err {
			return nil, 0, err
		}

		// output addresses
		outputs, n, err := unpackAddressList(record, n)
		if nil != err {
			return nil, 0, err
		}

		// nonce
		nonce, nonceLength := util.FromVarint64(record[n:])
		if 0 == nonceLength {
			break unpack_switch
		}
		n += nonceLength

		// signer public key
		signerLength, signerOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == signerOffset {
			break unpack_switch
		}
		n += signerOffset
		signer, err := account.AccountFromBytes(record[n : n+signerLength])
		if nil != err {
			return nil, 0, err
		}
		if signer.IsTesting() != testnet {
			return nil, 0, fault.WrongNetworkForPublicKey
		}
		n += signerLength

		// payload
		payloadLength, payloadOffset := util.ClippedVarint64(record[n:], 1, maxPayloadLength)
		if 0 == payloadOffset {
			break unpack_switch
		}
		n += payloadOffset
		payload := string(record[n : n+payloadLength])
		n += payloadLength

		// signature is remainder of record
		signatureLength, signatureOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == signatureOffset {
			break unpack_switch
		}
		signature := make(account.Signature, signatureLength)
		n += signatureOffset
		copy(signature, record[n:n+signatureLength])
		n += signatureLength

		r := &MarbleTransaction{
			FamilyName:    familyName,
			FamilyVersion: familyVersion,
			Inputs:        inputs,
			Outputs:       outputs,
			Nonce:         nonce,
			Signer:        signer,
			Payload:       payload,
			Signature:     signature,
		}
		return r, n, nil

	case MarbleBatchTag:

		// signer public key
		signerLength, signerOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == signerOffset {
			break unpack_switch
		}
		n += signerOffset
		signer, err := account.AccountFromBytes(record[n : n+signerLength])
		if nil != err {
			return nil, 0, err
		}
		if signer.IsTesting() != testnet {
			return nil, 0, fault.WrongNetworkForPublicKey
		}
		n += signerLength

		// nonce
		nonce, nonceLength := util.FromVarint64(record[n:])
		if 0 == nonceLength {
			break unpack_switch
		}
		n += nonceLength

		// transaction ids
		txCount, txCountOffset := util.ClippedVarint64(record[n:], 1, maxTransactionsPerBatch)
		if 0 == txCountOffset {
			break unpack_switch
		}
		n += txCountOffset
		txIds := make([]merkle.Digest, txCount)
		for i := 0; i < txCount; i += 1 {
			txIdLength, txIdOffset := util.ClippedVarint64(record[n:], 1, 8192)
			if 0 == txIdOffset {
				break unpack_switch
			}
			n += txIdOffset
			err := merkle.DigestFromBytes(&txIds[i], record[n:n+txIdLength])
			if nil != err {
				return nil, 0, err
			}
			n += txIdLength
		}

		// signature is remainder of record
		signatureLength, signatureOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == signatureOffset {
			break unpack_switch
		}
		signature := make(account.Signature, signatureLength)
		n += signatureOffset
		copy(signature, record[n:n+signatureLength])
		n += signatureLength

		r := &MarbleBatch{
			Signer:    signer,
			Nonce:     nonce,
			TxIds:     txIds,
			Signature: signature,
		}
		return r, n, nil

	default: // also NullTag
	}
	return nil, 0, fault.NotTransactionPack
}

// unpack a count prefixed list of state addresses
func unpackAddressList(record []byte, n int) ([]string, int, error) {

	count, countOffset := util.ClippedVarint64(record[n:], 0, maxAddressesPerTransaction)
	if 0 == countOffset {
		return nil, 0, fault.NotTransactionPack
	}
	n += countOffset

	addresses := make([]string, count)
	for i := 0; i < count; i += 1 {
		addressLength, addressOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == addressOffset {
			return nil, 0, fault.NotTransactionPack
		}
		n += addressOffset
		addresses[i] = string(record[n : n+addressLength])
		n += addressLength
	}
	return addresses, n, nil
}
