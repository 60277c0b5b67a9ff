// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"crypto/ed25519"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/util"
)

const (
	dir         = "testing"
	LogCategory = "testing"

	certificateFileName = "test.crt"
	keyFileName         = "test.key"
)

var (
	IssuerPublicKey    ed25519.PublicKey
	IssuerPrivateKey   ed25519.PrivateKey
	ReceiverPublicKey  ed25519.PublicKey
	ReceiverPrivateKey ed25519.PrivateKey
)

func init() {
	// fixed seeds so the test accounts and their signatures are
	// stable from run to run
	IssuerPrivateKey = ed25519.NewKeyFromSeed([]byte("0123456789abcdef0123456789abcdef"))
	IssuerPublicKey = IssuerPrivateKey.Public().(ed25519.PublicKey)

	ReceiverPrivateKey = ed25519.NewKeyFromSeed([]byte("fedcba9876543210fedcba9876543210"))
	ReceiverPublicKey = ReceiverPrivateKey.Public().(ed25519.PublicKey)
}

func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

var certificateLock sync.Mutex

// Certificate - PEM certificate for TLS listener tests
//
// a self signed pair is generated into dir on first use and reused
// by later calls so Certificate and Key always match
func Certificate(dir string) string {
	return string(certificatePair(dir, certificateFileName))
}

// Key - PEM private key matching Certificate
func Key(dir string) string {
	return string(certificatePair(dir, keyFileName))
}

func certificatePair(dir string, name string) []byte {
	certificateLock.Lock()
	defer certificateLock.Unlock()

	certificateFile := filepath.Join(dir, certificateFileName)
	keyFile := filepath.Join(dir, keyFileName)

	if !util.EnsureFileExists(certificateFile) || !util.EnsureFileExists(keyFile) {
		org := "marbled self signed cert for: testing"
		validUntil := time.Now().Add(365 * 24 * time.Hour)
		cert, key, err := certgen.NewTLSCertPair(org, validUntil, false, nil)
		if nil != err {
			panic("fixtures: certificate generate error: " + err.Error())
		}

		_ = os.MkdirAll(dir, 0700)
		if err := ioutil.WriteFile(certificateFile, cert, 0644); nil != err {
			panic("fixtures: certificate write error: " + err.Error())
		}
		if err := ioutil.WriteFile(keyFile, key, 0600); nil != err {
			panic("fixtures: key write error: " + err.Error())
		}
	}

	data, err := ioutil.ReadFile(filepath.Join(dir, name))
	if nil != err {
		panic("fixtures: " + name + " read error: " + err.Error())
	}
	return data
}
