// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/util"
)

// key files hold hex encoded data:
//   <name>.priv - the 32 byte ed25519 seed
//   <name>.pub  - the 32 byte public key

// MakeKeyPairFiles - generate a new keypair and write both key files
//
// refuses to overwrite existing files
func MakeKeyPairFiles(test bool, publicKeyFileName string, privateKeyFileName string) (*PrivateKey, error) {

	if util.EnsureFileExists(publicKeyFileName) {
		return nil, fault.KeyFileAlreadyExists
	}
	if util.EnsureFileExists(privateKeyFileName) {
		return nil, fault.KeyFileAlreadyExists
	}

	privateKey, err := NewED25519PrivateKey(test)
	if nil != err {
		return nil, err
	}

	ed := privateKey.PrivateKeyInterface.(*ED25519PrivateKey)

	priv := hex.EncodeToString(ed.Seed()) + "\n"
	pub := hex.EncodeToString(privateKey.Account().PublicKeyBytes()) + "\n"

	if err = ioutil.WriteFile(publicKeyFileName, []byte(pub), 0644); nil != err {
		return nil, err
	}
	if err = ioutil.WriteFile(privateKeyFileName, []byte(priv), 0600); nil != err {
		os.Remove(publicKeyFileName)
		return nil, err
	}

	return privateKey, nil
}

// ReadPrivateKeyFile - recreate a private key from its hex seed file
func ReadPrivateKeyFile(test bool, privateKeyFileName string) (*PrivateKey, error) {

	data, err := ioutil.ReadFile(privateKeyFileName)
	if nil != err {
		return nil, fault.KeyFileNotFound
	}

	seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if nil != err {
		return nil, fault.CannotDecodePrivateKey
	}

	return PrivateKeyFromSeed(test, seed)
}
