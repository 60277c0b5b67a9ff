// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord_test

import (
	"testing"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/transactionrecord"
)

// expected values computed with: printf '%s' "<text>" | sha512sum
const (
	expectedNamespace = "b98f57"
	expectedMarble01  = "b98f57804e6b4c9075d2e513dc7a13f17699837dd57dba9c0ed60835bd147d61b52c89"
)

func TestNamespace(t *testing.T) {
	if expectedNamespace != transactionrecord.Namespace() {
		t.Fatalf("namespace: %q  expected: %q", transactionrecord.Namespace(), expectedNamespace)
	}
}

func TestStateAddress(t *testing.T) {

	address := transactionrecord.StateAddress("marble01")

	if transactionrecord.AddressLength != len(address) {
		t.Fatalf("address length: %d  expected: %d", len(address), transactionrecord.AddressLength)
	}

	if expectedMarble01 != address {
		t.Fatalf("address: %q  expected: %q", address, expectedMarble01)
	}

	// same name must always give the same address
	if address != transactionrecord.StateAddress("marble01") {
		t.Fatalf("address is not stable")
	}

	// different name must give a different address in the same namespace
	other := transactionrecord.StateAddress("marble02")
	if other == address {
		t.Fatalf("different names gave the same address")
	}
	if expectedNamespace != other[:transactionrecord.NamespaceLength] {
		t.Fatalf("address: %q  is outside the namespace", other)
	}
}

func TestValidateAddress(t *testing.T) {

	err := transactionrecord.ValidateAddress(expectedMarble01)
	if nil != err {
		t.Fatalf("validate error: %s", err)
	}

	invalid := []string{
		"",
		"b98f57",
		expectedMarble01[:69],
		expectedMarble01 + "00",
		"ffffff" + expectedMarble01[6:],                // outside the namespace
		expectedMarble01[:69] + "G",                    // not hex
		"B98F57" + expectedMarble01[6:],                // upper case
		"b98f57zz75d2e513dc7a13f17699837dd57dba9c0ed60835bd147d61b52c891898c345", // not hex
	}

	for index, address := range invalid {
		err := transactionrecord.ValidateAddress(address)
		if fault.InvalidStateAddress != err {
			t.Errorf("%d: validate: %q error: %v  expected: %v", index, address, err, fault.InvalidStateAddress)
		}
	}
}
