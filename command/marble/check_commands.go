// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/merkle"
)

var (
	ErrRequiredBatchId    = fault.InvalidError("batch id is required")
	ErrRequiredColor      = fault.InvalidError("color is required")
	ErrRequiredConnect    = fault.InvalidError("connect is required")
	ErrRequiredIdentity   = fault.InvalidError("identity is required")
	ErrRequiredMarbleName = fault.InvalidError("marble name is required")
	ErrRequiredOwner      = fault.InvalidError("owner is required")
	ErrRequiredSize       = fault.InvalidError("size is required")
)

// identity is required and must be usable as a file name
func checkName(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredIdentity
	}
	if strings.ContainsAny(name, "/\\") {
		return "", ErrRequiredIdentity
	}

	return name, nil
}

// marble name is required
func checkMarbleName(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredMarbleName
	}

	return name, nil
}

// colour is required
func checkColor(color string) (string, error) {
	if "" == color {
		return "", ErrRequiredColor
	}

	return color, nil
}

// size is required and must be a positive integer
func checkSize(size string) (int, error) {
	n, err := strconv.Atoi(size)
	if nil != err || n <= 0 {
		return 0, ErrRequiredSize
	}

	return n, nil
}

// owner is required
func checkOwner(owner string) (string, error) {
	if "" == owner {
		return "", ErrRequiredOwner
	}

	return owner, nil
}

// connect is required
func checkConnect(connect string) (string, error) {
	if "" == connect {
		return "", ErrRequiredConnect
	}

	return connect, nil
}

// batch or transaction id is required and must be a hex digest
func checkDigest(s string) (merkle.Digest, error) {
	var digest merkle.Digest
	if "" == s {
		return digest, ErrRequiredBatchId
	}
	err := digest.UnmarshalText([]byte(s))
	if nil != err {
		return digest, err
	}

	return digest, nil
}
