// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfiguration = `{
  "default_identity": "jack",
  "testnet": true,
  "connect": "127.0.0.1:22130",
  "keys_directory": "/tmp/keys",
  "events": {
    "connect": "127.0.0.1:22135",
    "public_key": "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"
  }
}
`

func TestGetConfiguration(t *testing.T) {

	dir, err := ioutil.TempDir("", "marble-config")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "local-marble.json")
	err = ioutil.WriteFile(filename, []byte(sampleConfiguration), 0600)
	if nil != err {
		t.Fatalf("write error: %s", err)
	}

	config, err := GetConfiguration(filename)
	if nil != err {
		t.Fatalf("read error: %s", err)
	}

	if "jack" != config.DefaultIdentity {
		t.Errorf("default identity: actual: %q  expected: %q", config.DefaultIdentity, "jack")
	}
	if !config.TestNet {
		t.Errorf("testnet: actual: %t  expected: %t", config.TestNet, true)
	}
	if "127.0.0.1:22130" != config.Connect {
		t.Errorf("connect: actual: %q  expected: %q", config.Connect, "127.0.0.1:22130")
	}
	if "127.0.0.1:22135" != config.Events.Connect {
		t.Errorf("events connect: actual: %q  expected: %q", config.Events.Connect, "127.0.0.1:22135")
	}

	if filepath.Join("/tmp/keys", "jack.priv") != config.PrivateKeyFile("jack") {
		t.Errorf("private key file: actual: %q", config.PrivateKeyFile("jack"))
	}
	if filepath.Join("/tmp/keys", "jack.pub") != config.PublicKeyFile("jack") {
		t.Errorf("public key file: actual: %q", config.PublicKeyFile("jack"))
	}
}

func TestSave(t *testing.T) {

	dir, err := ioutil.TempDir("", "marble-config")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "local-marble.json")

	config := &Configuration{
		DefaultIdentity: "jill",
		TestNet:         true,
		Connect:         "[::1]:22130",
		KeysDirectory:   "/tmp/keys",
	}

	err = Save(filename, config)
	if nil != err {
		t.Fatalf("save error: %s", err)
	}

	// a second save keeps a backup of the previous file
	config.DefaultIdentity = "jack"
	err = Save(filename, config)
	if nil != err {
		t.Fatalf("second save error: %s", err)
	}
	if _, err := os.Stat(filename + ".bk"); nil != err {
		t.Errorf("missing backup file: %s", err)
	}

	reread, err := GetConfiguration(filename)
	if nil != err {
		t.Fatalf("read error: %s", err)
	}
	if "jack" != reread.DefaultIdentity {
		t.Errorf("default identity: actual: %q  expected: %q", reread.DefaultIdentity, "jack")
	}
	if "[::1]:22130" != reread.Connect {
		t.Errorf("connect: actual: %q  expected: %q", reread.Connect, "[::1]:22130")
	}
}
