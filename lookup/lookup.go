// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package lookup - discover nodes through DNS
//
// node connection data is published as DNS TXT records:
//
//	txt-record=nodes.domain.tld,"marble=v1 a=127.0.0.1;[::1] r=22130 h=22131 e=22135 p=xxx f=xxx"
//
// the records carry everything a client needs to reach a node: the
// RPC and HTTPS ports with the certificate fingerprint to pin, and
// the event stream port with its server public key
package lookup

import (
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/bitmark-inc/marbled/fault"
)

const (
	resolvConf = "/etc/resolv.conf"
)

// Lookup - fetch and decode the TXT records for a domain
//
// records that do not carry a valid marble tag are skipped, an error
// only occurs when the query fails or no record is usable
func Lookup(domainName string) ([]Node, error) {
	return lookup(domainName, queryTXT)
}

func lookup(domainName string, f func(string) ([]string, error)) ([]Node, error) {

	if "" == domainName {
		return nil, fault.InvalidNodeDomain
	}

	texts, err := f(domainName)
	if nil != err {
		return nil, err
	}

	nodes := make([]Node, 0, len(texts))
	for _, t := range texts {
		node, err := Parse(strings.TrimSpace(t))
		if nil != err {
			continue
		}
		if nil == node.IPv4 && nil == node.IPv6 {
			continue
		}
		nodes = append(nodes, *node)
	}

	if 0 == len(nodes) {
		return nil, fault.InvalidDnsTxtRecord
	}

	return nodes, nil
}

// query the name servers from the local resolver configuration
func queryTXT(domainName string) ([]string, error) {

	conf, err := dns.ClientConfigFromFile(resolvConf)
	if nil != err {
		return nil, err
	}

	servers := conf.Servers
	if 0 == len(servers) {
		return nil, fault.NoNameServers
	}

	// limit the name servers to query
	// https://www.freebsd.org/cgi/man.cgi?resolv.conf
	if len(servers) > 3 {
		servers = servers[:3]
	}

	c := dns.Client{}
	err = fault.NoNameServers

loop:
	for _, server := range servers {

		msg := dns.Msg{}
		msg.SetQuestion(dns.Fqdn(domainName), dns.TypeTXT)

		r, _, exchangeError := c.Exchange(&msg, net.JoinHostPort(server, conf.Port))
		if nil != exchangeError {
			err = exchangeError
			continue loop
		}

		texts := []string{}
		for _, answer := range r.Answer {
			if txt, ok := answer.(*dns.TXT); ok {
				texts = append(texts, strings.Join(txt.Txt, ""))
			}
		}
		if 0 != len(texts) {
			return texts, nil
		}
		err = fault.InvalidDnsTxtRecord
	}

	return nil, err
}
