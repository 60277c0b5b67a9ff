// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - JSON configuration for the marble client
//
// the daemons use Lua configuration, the client keeps a small JSON
// file per network under $XDG_CONFIG_HOME/marble
package configuration

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

// DefaultNetwork - the network used when the flag is not supplied
const DefaultNetwork = "testing"

// key files are compatible with the original tooling so existing
// keys keep working
const defaultKeysSubdirectory = ".sawtooth/keys"

// EventsType - connection data for the event stream
type EventsType struct {
	Connect   string `json:"connect"`    // host:port of the events PUB socket
	PublicKey string `json:"public_key"` // hex server key for CurveZMQ
}

// Configuration - configuration file data format
type Configuration struct {
	DefaultIdentity string     `json:"default_identity"`
	TestNet         bool       `json:"testnet"`
	Connect         string     `json:"connect"`
	KeysDirectory   string     `json:"keys_directory"`
	Events          EventsType `json:"events"`
}

// DefaultKeysDirectory - the keys directory used when setup does not
// override it
func DefaultKeysDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if nil != err {
		return "", err
	}
	return filepath.Join(home, defaultKeysSubdirectory), nil
}

// GetConfiguration - read the configuration file
func GetConfiguration(filename string) (*Configuration, error) {

	options := &Configuration{}

	err := readConfiguration(filename, options)
	if nil != err {
		return nil, err
	}
	return options, nil
}

// generic JSON decoder
func readConfiguration(filename string, options interface{}) error {

	filename, err := filepath.Abs(filepath.Clean(filename))
	if nil != err {
		return err
	}

	f, err := os.Open(filename)
	if nil != err {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	err = dec.Decode(options)
	if nil != err {
		return err
	}

	return nil
}

// PrivateKeyFile - the private key file for a named identity
func (config *Configuration) PrivateKeyFile(name string) string {
	return filepath.Join(config.KeysDirectory, name+".priv")
}

// PublicKeyFile - the public key file for a named identity
func (config *Configuration) PublicKeyFile(name string) string {
	return filepath.Join(config.KeysDirectory, name+".pub")
}

// Save - write the configuration file
//
// writes to a temporary file first then renames, keeping the previous
// file as a backup
func Save(filename string, configuration *Configuration) error {

	tempFile := filename + ".new"
	previousFile := filename + ".bk"

	os.Remove(tempFile)

	b, err := json.MarshalIndent(configuration, "", "  ")
	if nil != err {
		return err
	}
	b = append(b, '\n')

	err = ioutil.WriteFile(tempFile, b, 0600)
	if nil != err {
		return err
	}

	err = os.Remove(previousFile)
	if nil != err && !strings.Contains(err.Error(), "no such file") {
		return err
	}
	err = os.Rename(filename, previousFile)
	if nil != err && !strings.Contains(err.Error(), "no such file") {
		return err
	}
	err = os.Rename(tempFile, filename)
	if nil != err {
		return err
	}

	return nil
}
