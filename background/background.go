// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

import (
	"sync"
)

// Process - each background must implement this interface
//
// Run is called as a goroutine and must exit when the shutdown
// channel is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle type for the stop
type T struct {
	wg sync.WaitGroup
	s  []chan struct{}
}

// Start - start up the background processes
func Start(processes Processes, args interface{}) *T {

	register := new(T)
	register.s = make([]chan struct{}, 0, len(processes))

	// start each background
	for _, p := range processes {
		shutdown := make(chan struct{})
		register.s = append(register.s, shutdown)
		register.wg.Add(1)
		go func(p Process, shutdown <-chan struct{}) {
			p.Run(args, shutdown)
			register.wg.Done()
		}(p, shutdown)
	}
	return register
}

// Stop - stop all background processes and wait for them to finish
func (t *T) Stop() {

	if nil == t {
		return
	}

	// trigger shutdown of all background tasks
	for _, shutdown := range t.s {
		close(shutdown)
	}

	// wait for all backgrounds to terminate
	t.wg.Wait()
}
