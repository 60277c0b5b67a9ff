// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marbled/command/marble/configuration"
	"github.com/bitmark-inc/marbled/version"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	save    bool
	testnet bool
	network string
	verbose bool
	e       io.Writer
	w       io.Writer
}

func main() {

	app := cli.NewApp()
	app.Name = "marble"
	app.Usage = "command-line client for a marbled node"
	app.Version = version.Version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "network, n",
			Value: "",
			Usage: " connect to marble `NETWORK` [marbles|testing|local]",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "",
			Usage: " identity `NAME` [default identity]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise marble client configuration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*node RPC `HOST:PORT` (or use --domain)",
				},
				cli.StringFlag{
					Name:  "domain, D",
					Value: "",
					Usage: " discover nodes from `DOMAIN` TXT records",
				},
				cli.StringFlag{
					Name:  "events, e",
					Value: "",
					Usage: " node events `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "events-key, k",
					Value: "",
					Usage: " node events server public key `HEX`",
				},
				cli.StringFlag{
					Name:  "keys-dir, d",
					Value: "",
					Usage: " directory for signing key files `DIR`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "keygen",
			Usage:     "generate a new signing key pair",
			ArgsUsage: "NAME",
			Action:    runKeygen,
		},
		{
			Name:      "init",
			Usage:     "create a new marble",
			ArgsUsage: "NAME COLOR SIZE OWNER",
			Action:    runInit,
		},
		{
			Name:      "read",
			Usage:     "read the current state of a marble",
			ArgsUsage: "NAME",
			Action:    runRead,
		},
		{
			Name:      "transfer",
			Usage:     "transfer a marble to a new owner",
			ArgsUsage: "NAME NEW-OWNER",
			Action:    runTransfer,
		},
		{
			Name:      "delete",
			Usage:     "delete a marble",
			ArgsUsage: "NAME",
			Action:    runDelete,
		},
		{
			Name:      "transfer-color",
			Usage:     "transfer every marble of a colour in one atomic batch",
			ArgsUsage: "COLOR NEW-OWNER",
			Action:    runTransferColor,
		},
		{
			Name:  "list",
			Usage: "list marbles in state address order",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "start, s",
					Value: "",
					Usage: " address of the last marble from the previous page",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to return",
				},
			},
			Action: runList,
		},
		{
			Name:      "owned",
			Usage:     "list marbles held by one owner",
			ArgsUsage: "OWNER",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "start, s",
					Value: "",
					Usage: " address of the last marble from the previous page",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to return",
				},
			},
			Action: runOwned,
		},
		{
			Name:      "bycolor",
			Usage:     "list marbles of one colour",
			ArgsUsage: "COLOR",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "start, s",
					Value: "",
					Usage: " address of the last marble from the previous page",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to return",
				},
			},
			Action: runByColor,
		},
		{
			Name:      "history",
			Usage:     "show every committed change of a marble",
			ArgsUsage: "NAME",
			Action:    runHistory,
		},
		{
			Name:      "status",
			Usage:     "show the status of a submitted batch",
			ArgsUsage: "BATCH-ID",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "txid, t",
					Value: "",
					Usage: " query a single transaction instead `TXID`",
				},
			},
			Action: runStatus,
		},
		{
			Name:   "watch",
			Usage:  "print block and state delta events as they commit",
			Action: runWatch,
		},
		{
			Name:   "info",
			Usage:  "display node status",
			Action: runInfo,
		},
		{
			Name:   "processors",
			Usage:  "list transaction processors registered on the node",
			Action: runProcessors,
		},
		{
			Name:  "blocks",
			Usage: "fetch decoded blocks in descending height order",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "height, b",
					Value: 0,
					Usage: " height to start from, zero for the highest block",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 10,
					Usage: " maximum blocks to return",
				},
			},
			Action: runBlocks,
		},
		{
			Name:  "version",
			Usage: "display version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version.Version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file for certain commands
		command := c.Args().Get(0)
		if "version" == command {
			return nil
		}

		// only want one of these
		network := c.GlobalString("network")
		switch network {
		case "":
			network = configuration.DefaultNetwork
		case "marbles", "live":
			network = "marbles"
		case "testing", "test":
			network = "testing"
		case "local", "regression":
			network = "local"
		default:
			return fmt.Errorf("network: %q can only be marbles/testing/local", network)
		}

		p := os.Getenv("XDG_CONFIG_HOME")
		if "" == p {
			return fmt.Errorf("XDG_CONFIG_HOME environment is not set")
		}
		dir, err := checkFileExists(p)
		if nil != err {
			return err
		}
		if !dir {
			return fmt.Errorf("not a directory: %q", p)
		}
		file := path.Join(p, app.Name, network+"-"+app.Name+".json")

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				save:    false,
				testnet: network != "marbles",
				network: network,
				verbose: verbose,
				e:       e,
				w:       w,
			}

		} else {

			if verbose {
				fmt.Fprintf(e, "reading config file: %s\n", file)
			}

			configuration, err := configuration.GetConfiguration(file)
			if nil != err {
				return err
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				config:  configuration,
				save:    false,
				testnet: configuration.TestNet,
				network: network,
				verbose: verbose,
				e:       e,
				w:       w,
			}
		}

		return nil
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		e := c.App.ErrWriter
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if m.save {
			if c.GlobalBool("verbose") {
				fmt.Fprintf(e, "updating config file: %s\n", m.file)
			}
			err := configuration.Save(m.file, m.config)
			if nil != err {
				return err
			}
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
