// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/marbled/zmqutil"
)

const (
	publicKeyFilename  = "marbles-tp.public"
	privateKeyFilename = "marbles-tp.private"
)

// setup command handler
//
// commands that run to create key files, these commands cannot access
// any node connection or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-identity", "identity":
		publicKeyFilename := getFilenameWithDirectory(arguments, publicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, privateKeyFilename)

		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "start", "run":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help               (h)        - display this message\n\n")
		fmt.Printf("  version            (v)        - display version string\n\n")

		fmt.Printf("  gen-identity [DIR] (identity) - create private key in: %q\n", "DIR/"+privateKeyFilename)
		fmt.Printf("                                  and the public key in: %q\n", "DIR/"+publicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start              (run)      - just run the program, same as no arguments\n")
		fmt.Printf("                                  for convenience when passing script arguments\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
