// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"

	"github.com/bitmark-inc/listener"

	"github.com/bitmark-inc/marbled/counter"

	"github.com/bitmark-inc/marbled/fault"
	"github.com/bitmark-inc/marbled/util"
	"github.com/bitmark-inc/logger"
)

const (
	logName      = "client_rpc"
	minBandwidth = 1000000 // 1Mbps
)

type rpcListener struct {
	log             *logger.L
	count           *counter.Counter
	server          *rpc.Server
	limiter         *listener.Limiter
	tlsConfig       *tls.Config
	listenIPAndPort []string
	multi           *listener.MultiListener
}

func (r *rpcListener) Serve() error {

	ml, err := listener.NewMultiListener(logName, r.listenIPAndPort, r.tlsConfig, r.limiter, r.callback)
	if nil != err {
		r.log.Errorf("rpc server listen error: %s", err)
		return err
	}
	r.multi = ml

	for _, listen := range r.listenIPAndPort {
		r.log.Infof("starting RPC server: %s", listen)
	}
	ml.Start(nil)

	return nil
}

// serve one connection, the limiter has already admitted it
func (r *rpcListener) callback(conn *listener.ClientConnection, argument interface{}) {

	r.count.Increment()
	defer r.count.Decrement()

	codec := jsonrpc.NewServerCodec(conn)
	defer codec.Close()
	r.server.ServeCodec(codec)
}

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Bandwidth          float64  `gluamapper:"bandwidth" json:"bandwidth"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
	Announce           []string `gluamapper:"announce" json:"announce"`
}

// NewRPC - create a tls listener for the json rpc services
//
// the announced addresses and the logged fingerprint are the values
// the operator places in the node's lookup TXT record
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	server *rpc.Server,
	tlsConfig *tls.Config,
	certificateFingerprint [32]byte,
) (Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}
	if configuration.Bandwidth <= minBandwidth { // fail if < 1Mbps
		log.Errorf("invalid %s bandwidth: %d bps < 1Mbps", logName, configuration.Bandwidth)
		return nil, fault.MissingParameters
	}

	r := rpcListener{
		log:             log,
		limiter:         listener.NewLimiter(int(configuration.MaximumConnections)),
		listenIPAndPort: configuration.Listen,
		server:          server,
		count:           count,
		tlsConfig:       tlsConfig,
	}

	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.MissingParameters
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", logName, certificateFingerprint)

	for _, address := range configuration.Announce {
		if "" == address {
			continue
		}
		c, err := util.NewConnection(address)
		if nil != err {
			log.Errorf("invalid %s listen announce: %q  error: %s", logName, address, err)
			return nil, err
		}
		announced, _ := c.CanonicalIPandPort("")
		log.Infof("%s: announce: %s", logName, announced)
	}

	// validate all listen addresses
	err := parseListenAddress(configuration.Listen, r.log)
	if nil != err {
		return nil, err
	}

	return &r, nil
}

func parseListenAddress(addrs []string, log *logger.L) error {
	for i, listen := range addrs {
		if '*' == listen[0] {
			// change "*:PORT" to "[::]:PORT"
			// on the assumption that this will listen on tcp4 and tcp6
			addrs[i] = "[::]" + ":" + strings.Split(listen, ":")[1]
			listen = "::"
		} else if '[' == listen[0] {
			listen = strings.Split(listen[1:], "]:")[0]
		} else {
			listen = strings.Split(listen, ":")[0]
		}

		if ip := net.ParseIP(listen); nil == ip {
			err := fault.InvalidIpAddress
			log.Errorf("rpc server listen error: %s", err)
			return err
		}
	}

	return nil
}
