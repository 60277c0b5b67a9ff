// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/marbled/fault"

	"github.com/bitmark-inc/marbled/counter"

	"github.com/bitmark-inc/marbled/rpc/ratelimit"

	"github.com/bitmark-inc/marbled/storage"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/marbled/block"
	"github.com/bitmark-inc/marbled/blockheader"
	"github.com/bitmark-inc/marbled/blockring"
	"github.com/bitmark-inc/marbled/dispatch"
	"github.com/bitmark-inc/marbled/genesis"
	"github.com/bitmark-inc/marbled/mode"
	"github.com/bitmark-inc/marbled/pending"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	Pool    storage.Handle
	counter *counter.Counter
}

// limit for count
const maximumBlockCount = 100

func New(log *logger.L, pool storage.Handle, start time.Time, version string, counter *counter.Counter) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		Pool:    pool,
		counter: counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Chain           string    `json:"chain"`
	Mode            string    `json:"mode"`
	Block           BlockInfo `json:"block"`
	RPCs            uint64    `json:"rpcs"`
	Processors      int       `json:"processors"`
	PendingCounters Counters  `json:"pendingCounters"`
	Version         string    `json:"Version"`
	Uptime          string    `json:"uptime"`
}

// BlockInfo - the highest block held by the node
//
// the crc is the ring check code of the most recent block, a cheap
// token for a health monitor to detect a stalled or diverged node
// without fetching the block itself
type BlockInfo struct {
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
	Crc    string `json:"crc"`
}

// Counters - submitted but not yet committed items
type Counters struct {
	Batches      int `json:"batches"`
	Transactions int `json:"transactions"`
}

// Info - return some information about this node
// only enough for clients to determine node state
// for more detail information use HTTP GET requests
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	if node.Pool == nil {
		return fault.DatabaseIsNotSet
	}

	reply.Chain = mode.ChainName()
	reply.Mode = mode.String()
	reply.Block = BlockInfo{
		Height: blockheader.Height(),
		Hash:   block.LastBlockHash(node.Pool),
		Crc:    fmt.Sprintf("%016x", blockring.GetLatestCRC()),
	}
	reply.RPCs = node.counter.Uint64()
	reply.Processors = dispatch.CountProcessors()
	reply.PendingCounters.Batches, reply.PendingCounters.Transactions = pending.ReadCounters()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}

// ---

// ProcessorsArguments - empty arguments for processors request
type ProcessorsArguments struct{}

// ProcessorsReply - results from processors request
type ProcessorsReply struct {
	Processors []dispatch.ProcessorInfo `json:"processors"`
	Count      int                      `json:"count"`
}

// Processors - list the transaction processors currently registered
func (node *Node) Processors(_ *ProcessorsArguments, reply *ProcessorsReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Processors = dispatch.ReadRegistry()
	reply.Count = len(reply.Processors)
	return nil
}

// ---

// BlocksArguments - select a run of blocks walking down from a height
type BlocksArguments struct {
	Height uint64 `json:"height,string"` // zero selects the highest block
	Count  int    `json:"count"`
}

// BlocksReply - result from blocks request
type BlocksReply struct {
	Blocks []*block.Block `json:"blocks"`
}

// Blocks - fetch decoded blocks in descending height order
//
// the genesis block is synthesised rather than stored so the walk
// stops above it
func (node *Node) Blocks(arguments *BlocksArguments, reply *BlocksReply) error {

	if err := ratelimit.LimitN(node.Limiter, arguments.Count, maximumBlockCount); nil != err {
		return err
	}

	if node.Pool == nil {
		return fault.DatabaseIsNotSet
	}

	height := arguments.Height
	if 0 == height {
		height = blockheader.Height()
	}

	blocks := make([]*block.Block, 0, arguments.Count)
	for number := height; number > genesis.BlockNumber && len(blocks) < arguments.Count; number -= 1 {
		blk, err := block.Get(number)
		if nil != err {
			return err
		}
		blocks = append(blocks, blk)
	}
	reply.Blocks = blocks

	return nil
}
