// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lookup

import (
	"encoding/hex"
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/marbled/fault"
)

// the tag to detect applicable TXT records from DNS
var supportedTags = map[string]struct{}{
	"marble=v1": {},
}

const (
	fingerprintLength = 2 * 32 // hex characters
	publicKeyLength   = 2 * 32 // hex characters
)

// Node - connection data decoded from a single TXT record
type Node struct {
	IPv4                   net.IP
	IPv6                   net.IP
	RPCPort                uint16
	HTTPSPort              uint16
	EventsPort             uint16
	PublicKey              []byte
	CertificateFingerprint []byte
}

// decode DNS TXT records of this form
//
//	<TAG> a=<IPv4;IPv6> r=<PORT> h=<PORT> e=<PORT> p=<ZMQ-KEY> f=<SHA3-256(cert)>
//
// other combinations or extraneous items are rejected

// Parse - decode a single TXT record
func Parse(s string) (*Node, error) {

	node := &Node{}

	countA := 0
	countE := 0
	countF := 0
	countH := 0
	countP := 0
	countR := 0

words:
	for i, w := range strings.Split(strings.TrimSpace(s), " ") {

		if 0 == i {
			if _, ok := supportedTags[w]; ok {
				continue words
			}
			return nil, fault.InvalidDnsTxtRecord
		}

		// ignore empty
		if "" == w {
			continue words
		}

		// require form: <letter>=<word>
		if len(w) < 3 || '=' != w[1] {
			return nil, fault.InvalidDnsTxtRecord
		}

		// w[0]=tag character; w[1]= char('='); w[2:]=parameter
		parameter := w[2:]
		err := error(nil)
		switch w[0] {
		case 'a':
		addresses:
			for _, address := range strings.Split(parameter, ";") {
				if "" == address {
					err = fault.InvalidIpAddress
					break addresses
				}
				if '[' == address[0] {
					end := len(address) - 1
					if ']' == address[end] {
						address = address[1:end]
					}
				}
				IP := net.ParseIP(address)
				if nil == IP {
					err = fault.InvalidIpAddress
					break addresses
				} else {
					err = nil
					if nil != IP.To4() {
						node.IPv4 = IP
					} else {
						node.IPv6 = IP
					}
				}
			}
			countA += 1

		case 'r':
			node.RPCPort, err = getPort(parameter)
			countR += 1

		case 'h':
			node.HTTPSPort, err = getPort(parameter)
			countH += 1

		case 'e':
			node.EventsPort, err = getPort(parameter)
			countE += 1

		case 'p':
			if publicKeyLength != len(parameter) {
				err = fault.InvalidPublicKey
			} else {
				node.PublicKey, err = hex.DecodeString(parameter)
				if nil != err {
					err = fault.InvalidPublicKey
				}
			}
			countP += 1

		case 'f':
			if fingerprintLength != len(parameter) {
				err = fault.InvalidFingerprint
			} else {
				node.CertificateFingerprint, err = hex.DecodeString(parameter)
				if nil != err {
					err = fault.InvalidFingerprint
				}
			}
			countF += 1

		default:
			err = fault.InvalidDnsTxtRecord
		}
		if nil != err {
			return nil, err
		}
	}

	// ensure that there is only one each of the required items
	if countA != 1 || countE != 1 || countF != 1 || countH != 1 || countP != 1 || countR != 1 {
		return nil, fault.InvalidDnsTxtRecord
	}

	return node, nil
}

func getPort(s string) (uint16, error) {

	port, err := strconv.Atoi(s)
	if nil != err {
		return 0, fault.InvalidPortNumber
	}
	if port < 1 || port > 65535 {
		return 0, fault.InvalidPortNumber
	}
	return uint16(port), nil
}

// RPCConnect - the host:port to dial for RPC, preferring IPv4
func (node Node) RPCConnect() string {
	return node.connect(node.RPCPort)
}

// EventsConnect - the host:port to dial for the event stream, preferring IPv4
func (node Node) EventsConnect() string {
	return node.connect(node.EventsPort)
}

func (node Node) connect(port uint16) string {
	if nil != node.IPv4 {
		return net.JoinHostPort(node.IPv4.String(), strconv.Itoa(int(port)))
	}
	return net.JoinHostPort(node.IPv6.String(), strconv.Itoa(int(port)))
}
