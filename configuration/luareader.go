// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - read the Lua configuration files used by the
// marbled and marbles-tp daemons
//
// the file is a Lua program that must leave its settings in a table on
// the top of the stack; base Lua is available so a configuration can
// read certificate files into fields (the client_rpc section needs the
// PEM text, not a file name) and use getenv for deployment overrides
//
// the global arg table is primed with arg[0] = configuration file name
// so relative data directories can be derived the usual way:
//
//	local M = {}
//	M.data_directory = arg[0]:match("^(.*/)") or "./"
//	…
//	return M
package configuration

import (
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

// ParseConfigurationFile - run a Lua configuration file and assign the
// table it returns to a configuration structure
//
// fields are matched by their gluamapper tags
func ParseConfigurationFile(fileName string, config interface{}) error {
	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	// create the global "arg" table
	// arg[0] = config file
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	L.SetGlobal("arg", arg)

	// execute configuration
	if err := L.DoFile(fileName); err != nil {
		return err
	}

	mapperOption := gluamapper.Option{
		NameFunc: func(s string) string {
			return s
		},
		TagName: "gluamapper",
	}
	mapper := gluamapper.Mapper{Option: mapperOption}
	err := mapper.Map(L.Get(L.GetTop()).(*lua.LTable), config)
	return err
}
