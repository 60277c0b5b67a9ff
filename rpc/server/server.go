// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/marbled/counter"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/ownership"
	"github.com/bitmark-inc/marbled/rpc/marble"
	"github.com/bitmark-inc/marbled/rpc/node"
	"github.com/bitmark-inc/marbled/rpc/transaction"
	"github.com/bitmark-inc/marbled/storage"
	"github.com/bitmark-inc/logger"
)

// Create - make a new rpc server with all services registered
func Create(log *logger.L, version string, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(marble.New(log, storage.Pool.Marbles, storage.Pool.Blocks, storage.Pool.History, ownership.Get()))
	_ = server.Register(transaction.New(log, start, mode.Is, storage.Pool.Batches, storage.Pool.Transactions))
	_ = server.Register(node.New(log, storage.Pool.Blocks, start, version, rpcCount))

	return server
}
