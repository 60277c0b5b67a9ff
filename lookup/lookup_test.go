// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lookup

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/bitmark-inc/marbled/fault"
)

const (
	publicKey   = "A1B2C3D4E5F60718293A4B5C6D7E8F90A1B2C3D4E5F60718293A4B5C6D7E8F90"
	fingerprint = "48137A7A76934CAFE7635C9AC05339C20F4C00A724D7FA1DC0DC3875476ED004"
)

func TestParse(t *testing.T) {

	type testItem struct {
		id  int
		txt string
		err error
	}

	testData := []testItem{
		{
			id:  0,
			txt: "marble=v1 a=118.163.120.178;2001:b030:2314:0200:4649:583d:0001:0120 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: nil,
		},
		{
			id:  1,
			txt: "marble=v1 a=118.163.120.178;[2001:b030:2314:0200:4649:583d:0001:0120] r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: nil,
		},
		{
			id:  2,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: nil,
		},

		// corrupt record
		{
			id:  3,
			txt: "marble=v1 a=",
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  4,
			txt: "marble=v1 a",
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  5,
			txt: "marble=v1 a=; r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidIpAddress,
		},

		// check for missing items
		{
			id:  6,
			txt: "marble=v1 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  7,
			txt: "marble=v1 a=127.0.0.1 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  8,
			txt: "marble=v1 a=127.0.0.1 r=22130 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  9,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  10,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  11,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey,
			err: fault.InvalidDnsTxtRecord,
		},

		// check for duplicated items
		{
			id:  12,
			txt: "marble=v1 a=127.0.0.1 r=22130 r=22132 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},

		// check for incorrect items
		{
			id:  13,
			txt: "marble=v1 a=300.163.120.178 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidIpAddress,
		},
		{
			id:  14,
			txt: "marble=v1 a=127.0.0.1 r=0 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidPortNumber,
		},
		{
			id:  15,
			txt: "marble=v1 a=127.0.0.1 r=221309 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidPortNumber,
		},
		{
			id:  16,
			txt: "marble=v1 a=127.0.0.1 r=22x30 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidPortNumber,
		},
		{
			id:  17,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey[2:] + " f=" + fingerprint,
			err: fault.InvalidPublicKey,
		},
		{
			id:  18,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint[2:],
			err: fault.InvalidFingerprint,
		},
		{
			id:  19,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey + " f=ZZ" + fingerprint[2:],
			err: fault.InvalidFingerprint,
		},
		{
			id:  20,
			txt: "marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 x=unknown p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},

		// invalid tags
		{
			id:  21,
			txt: "marble=v0 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
			err: fault.InvalidDnsTxtRecord,
		},
		{
			id:  22,
			txt: "hello world",
			err: fault.InvalidDnsTxtRecord,
		},
	}

	for i, item := range testData {
		_, err := Parse(item.txt)

		if item.err != err {
			t.Fatalf("Parse[%d]: %q  error: %s  expected: %v", i, item.txt, err, item.err)
		}
	}
}

func TestParseFields(t *testing.T) {

	node, err := Parse("marble=v1 a=118.163.120.178;[2001:b030:2314:0200:4649:583d:0001:0120] r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint)
	if nil != err {
		t.Fatalf("parse error: %s", err)
	}

	if "118.163.120.178" != node.IPv4.String() {
		t.Errorf("IPv4: %q", node.IPv4)
	}
	if "2001:b030:2314:200:4649:583d:1:120" != node.IPv6.String() {
		t.Errorf("IPv6: %q", node.IPv6)
	}
	if 22130 != node.RPCPort || 22131 != node.HTTPSPort || 22135 != node.EventsPort {
		t.Errorf("ports: %d %d %d", node.RPCPort, node.HTTPSPort, node.EventsPort)
	}

	k, _ := hex.DecodeString(publicKey)
	if !bytes.Equal(k, node.PublicKey) {
		t.Errorf("public key: %x", node.PublicKey)
	}
	f, _ := hex.DecodeString(fingerprint)
	if !bytes.Equal(f, node.CertificateFingerprint) {
		t.Errorf("fingerprint: %x", node.CertificateFingerprint)
	}

	if "118.163.120.178:22130" != node.RPCConnect() {
		t.Errorf("rpc connect: %q", node.RPCConnect())
	}
	if "118.163.120.178:22135" != node.EventsConnect() {
		t.Errorf("events connect: %q", node.EventsConnect())
	}
}

func TestParseConnectIPv6Only(t *testing.T) {

	node, err := Parse("marble=v1 a=[2001:b030:2314:0200:4649:583d:0001:0120] r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint)
	if nil != err {
		t.Fatalf("parse error: %s", err)
	}
	if "[2001:b030:2314:200:4649:583d:1:120]:22130" != node.RPCConnect() {
		t.Errorf("rpc connect: %q", node.RPCConnect())
	}
}

func TestLookup(t *testing.T) {

	texts := []string{
		"some unrelated record",
		"marble=v1 a=127.0.0.1 r=22130 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
		"marble=v1 a=127.0.0.2 r=99999 h=22131 e=22135 p=" + publicKey + " f=" + fingerprint,
	}

	nodes, err := lookup("nodes.test.example", func(domain string) ([]string, error) {
		if "nodes.test.example" != domain {
			t.Fatalf("domain: %q", domain)
		}
		return texts, nil
	})
	if nil != err {
		t.Fatalf("lookup error: %s", err)
	}

	if 1 != len(nodes) {
		t.Fatalf("nodes: %d  expected: 1", len(nodes))
	}
	if "127.0.0.1:22130" != nodes[0].RPCConnect() {
		t.Errorf("rpc connect: %q", nodes[0].RPCConnect())
	}
}

func TestLookupNoUsableRecords(t *testing.T) {

	_, err := lookup("nodes.test.example", func(domain string) ([]string, error) {
		return []string{"hello world"}, nil
	})
	if fault.InvalidDnsTxtRecord != err {
		t.Fatalf("error: %v  expected: %v", err, fault.InvalidDnsTxtRecord)
	}
}

func TestLookupEmptyDomain(t *testing.T) {

	_, err := lookup("", func(domain string) ([]string, error) {
		t.Fatal("query must not run")
		return nil, nil
	})
	if fault.InvalidNodeDomain != err {
		t.Fatalf("error: %v  expected: %v", err, fault.InvalidNodeDomain)
	}
}
