// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marbled/blockheader"
	"github.com/bitmark-inc/marbled/counter"
	"github.com/bitmark-inc/marbled/dispatch"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/pending"
)

// Handler - the http request handlers
type Handler interface {
	Details(http.ResponseWriter, *http.Request)
	Processors(http.ResponseWriter, *http.Request)
	Root(http.ResponseWriter, *http.Request)
	RPC(http.ResponseWriter, *http.Request)
	SetAllow(allow map[string][]*net.IPNet)
}

// InternalConnection - type to allow rpc system to interface to http request
type InternalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *InternalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *InternalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *InternalConnection) Close() error {
	return nil
}

// the argument passed to the handlers
type httpHandler struct {
	log                *logger.L
	server             *rpc.Server
	start              time.Time
	version            string
	allow              map[string][]*net.IPNet
	maximumConnections uint64
	connectionCount    counter.Counter
}

// New - create the handler for the http endpoints
func New(
	log *logger.L,
	server *rpc.Server,
	start time.Time,
	version string,
	maximumConnections uint64,
) Handler {
	return &httpHandler{
		log:                log,
		server:             server,
		start:              start,
		version:            version,
		maximumConnections: maximumConnections,
	}
}

// SetAllow - set the IP networks allowed to access the restricted endpoints
func (s *httpHandler) SetAllow(allow map[string][]*net.IPNet) {
	s.allow = allow
}

// Root - this matches anything not matched and returns error
func (s *httpHandler) Root(w http.ResponseWriter, _ *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (s *httpHandler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if s.connectionCount.Increment() > s.maximumConnections {
		s.connectionCount.Decrement()
		sendTooManyRequests(w)
		return
	}
	defer s.connectionCount.Decrement()

	serverCodec := jsonrpc.NewServerCodec(&InternalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	err := s.server.ServeRequest(serverCodec)
	if nil != err {
		sendInternalServerError(w)
		return
	}
}

// Details - to allow a GET for the same response as Node.Info RPC
// (restricted to local_allow)
func (s *httpHandler) Details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !s.isAllowed("details", r) {
		s.log.Warnf("Deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	if s.connectionCount.Increment() > s.maximumConnections {
		s.connectionCount.Decrement()
		sendTooManyRequests(w)
		return
	}
	defer s.connectionCount.Decrement()

	type pendingCounters struct {
		Batches      int `json:"batches"`
		Transactions int `json:"transactions"`
	}
	type theReply struct {
		Chain           string          `json:"chain"`
		Mode            string          `json:"mode"`
		Block           uint64          `json:"block"`
		RPCs            uint64          `json:"rpcs"`
		Processors      int             `json:"processors"`
		PendingCounters pendingCounters `json:"pendingCounters"`
		Version         string          `json:"version"`
		Uptime          string          `json:"uptime"`
	}

	reply := theReply{
		Chain:      mode.ChainName(),
		Mode:       mode.String(),
		Block:      blockheader.Height(),
		RPCs:       s.connectionCount.Uint64(),
		Processors: dispatch.CountProcessors(),
		Version:    s.version,
		Uptime:     time.Since(s.start).String(),
	}
	reply.PendingCounters.Batches, reply.PendingCounters.Transactions = pending.ReadCounters()

	sendReply(w, reply)
}

// Processors - GET to list the registered transaction processors
// (restricted to local_allow)
func (s *httpHandler) Processors(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !s.isAllowed("processors", r) {
		s.log.Warnf("Deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	if s.connectionCount.Increment() > s.maximumConnections {
		s.connectionCount.Decrement()
		sendTooManyRequests(w)
		return
	}
	defer s.connectionCount.Decrement()

	type theReply struct {
		Processors []dispatch.ProcessorInfo `json:"processors"`
	}

	sendReply(w, theReply{
		Processors: dispatch.ReadRegistry(),
	})
}

// check if the remote address may access an endpoint
func (s *httpHandler) isAllowed(endpoint string, r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil != err {
		return false
	}

	addr := net.ParseIP(host)
	if nil == addr {
		return false
	}

	nets, ok := s.allow[endpoint]
	if !ok {
		return false
	}

	for _, n := range nets {
		if n.Contains(addr) {
			return true
		}
	}
	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, "Too Many Requests", http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}
