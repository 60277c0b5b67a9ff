// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
//
// the capitalised marble rule messages are protocol strings carried
// verbatim in execution receipts and client replies
var (
	AlreadyInitialised              = ProcessError("already initialised")
	BatchAlreadyExists              = ExistsError("batch already exists")
	BatchWaitingForProcessor        = ProcessError("batch waiting for processor")
	BlockNotFound                   = NotFoundError("block not found")
	BlockVersionMustNotDecrease     = InvalidError("block version must not decrease")
	CannotDecodeAccount             = RecordError("cannot decode account")
	CannotDecodePrivateKey          = RecordError("cannot decode private key")
	CannotDecodeTxId                = RecordError("cannot decode tx id")
	CertificateFileAlreadyExists    = ExistsError("certificate file already exists")
	ChecksumMismatch                = ProcessError("checksum mismatch")
	DatabaseIsNotSet                = InvalidError("database is not set")
	DataNotFound                    = NotFoundError("data not found")
	HeightOutOfSequence             = InvalidError("height out of sequence")
	IncorrectChain                  = InvalidError("incorrect chain")
	InitialisationFailed            = ProcessError("initialisation failed")
	InvalidBatch                    = InvalidError("invalid batch")
	InvalidBlockHeaderSize          = InvalidError("invalid block header size")
	InvalidBlockHeaderTimestamp     = InvalidError("invalid block header timestamp")
	InvalidBlockHeaderVersion       = InvalidError("invalid block header version")
	InvalidBufferLength             = InvalidError("invalid buffer length")
	InvalidChain                    = InvalidError("invalid chain")
	InvalidCount                    = InvalidError("invalid count")
	InvalidCursor                   = InvalidError("invalid cursor")
	InvalidDnsTxtRecord             = InvalidError("invalid dns txt record")
	InvalidFamily                   = InvalidError("invalid transaction family")
	InvalidFingerprint              = InvalidError("invalid fingerprint")
	InvalidIpAddress                = InvalidError("invalid ip address")
	InvalidKeyLength                = LengthError("invalid key length")
	InvalidKeyType                  = InvalidError("invalid key type")
	InvalidMarbleColor              = InvalidError("Invalid color")
	InvalidMarbleName               = InvalidError("Invalid name")
	InvalidMarbleOwner              = InvalidError("Invalid owner")
	InvalidMarbleSize               = InvalidError("Invalid size")
	InvalidNodeDomain               = InvalidError("invalid node domain")
	InvalidNumberOfArgs             = InvalidError("Invalid number of args")
	InvalidPayload                  = InvalidError("invalid payload")
	InvalidPortNumber               = InvalidError("invalid port number")
	InvalidPrivateKey               = InvalidError("invalid private key")
	InvalidPrivateKeyFile           = InvalidError("invalid private key file")
	InvalidPublicKey                = InvalidError("invalid public key")
	InvalidPublicKeyFile            = InvalidError("invalid public key file")
	InvalidSignature                = InvalidError("invalid signature")
	InvalidSigner                   = InvalidError("invalid signer")
	InvalidStateAddress             = InvalidError("invalid state address")
	InvalidStructurePointer         = ProcessError("invalid structure pointer")
	KeyFileAlreadyExists            = ExistsError("key file already exists")
	KeyFileNotFound                 = NotFoundError("key file not found")
	MarbleAlreadyExists             = ExistsError("Marble already exists")
	MarbleDoesNotExist              = NotFoundError("Marble does not exist")
	MerkleRootDoesNotMatch          = InvalidError("merkle root does not match")
	MissingParameters               = LengthError("missing parameters")
	NoNameServers                   = NotFoundError("no name servers")
	NoProcessorRegistered           = ProcessError("no transaction processor registered")
	NotAvailableDuringSynchronise   = ProcessError("not available during synchronise")
	NotConnected                    = NotFoundError("not connected")
	NotInitialised                  = ProcessError("not initialised")
	NotPrivateKey                   = InvalidError("not private key")
	NotPublicKey                    = InvalidError("not public key")
	NotTransactionPack              = InvalidError("not transaction pack")
	OutputNotDeclared               = InvalidError("state address not declared as output")
	PreviousBlockDigestDoesNotMatch = InvalidError("previous block digest does not match")
	RateLimiting                    = ProcessError("rate limiting")
	ReceiptMismatch                 = InvalidError("receipt does not match the batch")
	ReceiptNotPending               = ProcessError("receipt does not match a pending batch")
	SignatureTooLong                = LengthError("signature too long")
	TransactionAlreadyExists        = ExistsError("transaction already exists")
	TransactionCountOutOfRange      = InvalidError("transaction count out of range")
	UnhandledAction                 = InvalidError("Unhandled action")
	WrongEndpointString             = InvalidError("wrong endpoint string")
	WrongKeyForIdentity             = InvalidError("wrong key for identity")
	WrongNetworkForPublicKey        = InvalidError("wrong network for public key")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
