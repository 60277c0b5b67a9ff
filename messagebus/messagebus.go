// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// size for a queue without a size tag
const defaultQueueSize = 1000

// Message - message to put into a queue
type Message struct {
	Command    string   // instruction for the receiver
	Parameters [][]byte // blocks of opaque data
}

// Queue - 1:1 queue
type Queue struct {
	c    chan Message
	size int
}

// BroadcastQueue - 1:M queue
// each reader registers its own channel, slow readers drop messages
type BroadcastQueue struct {
	sync.Mutex
	defaultSize int
	out         []chan Message
	cache       map[string]struct{}
}

// the set of queues
type busses struct {
	Broadcast *BroadcastQueue `size:"1000"` // block commit and state delta events
	Dispatch  *Queue          `size:"100"`  // verified batches to the dispatcher
	Commit    *Queue          `size:"100"`  // execution receipts to the committer
	TestQueue *Queue          `size:"50"`   // for testing use
}

// Bus - all available message queues
var Bus busses

// commands whose identical content only needs one broadcast
var cacheableCommands = map[string]struct{}{
	"block": {},
	"delta": {},
}

// create all queues with their preset sizes
func init() {

	busVariable := reflect.ValueOf(&Bus).Elem()
	busType := busVariable.Type()

	for i := 0; i < busType.NumField(); i += 1 {

		fieldInfo := busVariable.Field(i)
		sizeTag := busType.Field(i).Tag.Get("size")

		queueSize := defaultQueueSize
		if len(sizeTag) > 0 {
			s, err := strconv.Atoi(sizeTag)
			if nil != err {
				m := fmt.Sprintf("queue: %v has invalid size: %q", busType.Field(i).Name, sizeTag)
				panic(m)
			}
			queueSize = s
		}

		switch qt := fieldInfo.Type().String(); qt {

		case "*messagebus.BroadcastQueue":
			q := &BroadcastQueue{
				defaultSize: queueSize,
				out:         make([]chan Message, 0, 10),
				cache:       make(map[string]struct{}),
			}
			fieldInfo.Set(reflect.ValueOf(q))

		case "*messagebus.Queue":
			q := &Queue{
				c:    make(chan Message, queueSize),
				size: queueSize,
			}
			fieldInfo.Set(reflect.ValueOf(q))

		default:
			panic(fmt.Sprintf("queue type: %q is not handled", qt))
		}
	}
}

// Send - add a message to a 1:1 queue
func (queue *Queue) Send(command string, parameters ...[]byte) {
	queue.c <- Message{Command: command, Parameters: parameters}
}

// Chan - get the channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Release - drop any unprocessed messages
func (queue *Queue) Release() {
drain:
	for {
		select {
		case <-queue.c:
		default:
			break drain
		}
	}
}

// Chan - get a new channel to read from
// size: 0 selects the default buffer capacity
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size < 0 {
		panic("negative broadcast queue size")
	} else if 0 == size {
		size = queue.defaultSize
	}
	c := make(chan Message, size)
	queue.Lock()
	queue.out = append(queue.out, c)
	queue.Unlock()
	return c
}

// Send - send a message to all reader channels
//
// messages to a reader with a full buffer are dropped, identical
// cacheable messages are only delivered once until dropped from cache
func (queue *BroadcastQueue) Send(command string, parameters ...[]byte) {

	m := Message{Command: command, Parameters: parameters}

	queue.Lock()
	defer queue.Unlock()

	if _, ok := cacheableCommands[command]; ok {
		k := cacheKey(m)
		if _, seen := queue.cache[k]; seen {
			return
		}
		queue.cache[k] = struct{}{}
	}

	for _, c := range queue.out {
		select {
		case c <- m:
		default:
		}
	}
}

// Release - close all reader channels
func (queue *BroadcastQueue) Release() {
	queue.Lock()
	defer queue.Unlock()
	for _, c := range queue.out {
		close(c)
	}
	queue.out = make([]chan Message, 0, 10)
}

// DropCache - remove a message from the duplicate suppression cache
// so identical content can be broadcast again
func (queue *BroadcastQueue) DropCache(item Message) {
	queue.Lock()
	delete(queue.cache, cacheKey(item))
	queue.Unlock()
}

// DropCache - remove an entry from the broadcast queue cache
func DropCache(item Message) {
	Bus.Broadcast.DropCache(item)
}

// key over command and all parameter bytes
func cacheKey(m Message) string {
	s := make([]string, 1, len(m.Parameters)+1)
	s[0] = m.Command
	for _, p := range m.Parameters {
		s = append(s, string(p))
	}
	return strings.Join(s, "")
}
