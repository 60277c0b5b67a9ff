// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/marbled/merkle"
)

// limit on the republish backoff shift
const maximumBackoffShift = 4

// a published job awaiting its receipt
type jobEntry struct {
	batchId     merkle.Digest
	attempts    int
	publishedAt time.Time
}

// the queue
type jobQueueType struct {
	sync.Mutex
	entries map[string]*jobEntry        // job number → entry
	current map[merkle.Digest]string    // batch id → its live job number
	count   uint16
}

// the queue storage
var jobQueue jobQueueType

func initialiseJobQueue() {
	jobQueue.Lock()
	defer jobQueue.Unlock()
	jobQueue.entries = make(map[string]*jobEntry)
	jobQueue.current = make(map[merkle.Digest]string)
}

// create a job number for a batch
//
// any previous job for the same batch is dropped so its late receipt
// can no longer match
func enqueueToJobQueue(batchId merkle.Digest) (string, int) {
	jobQueue.Lock()
	defer jobQueue.Unlock()

	attempts := 1
	if old, ok := jobQueue.current[batchId]; ok {
		if entry, ok := jobQueue.entries[old]; ok {
			attempts = entry.attempts + 1
		}
		delete(jobQueue.entries, old)
	}

	jobQueue.count += 1 // wraps (uint16)
	job := fmt.Sprintf("%04x", jobQueue.count)

	jobQueue.entries[job] = &jobEntry{
		batchId:     batchId,
		attempts:    attempts,
		publishedAt: time.Now(),
	}
	jobQueue.current[batchId] = job

	return job, attempts
}

// match a receipt to its job
//
// a match removes the job so only the first receipt for a batch is
// accepted
func matchToJobQueue(job string, batchId merkle.Digest) bool {
	jobQueue.Lock()
	defer jobQueue.Unlock()

	entry, ok := jobQueue.entries[job]
	if !ok {
		return false
	}
	if batchId != entry.batchId {
		return false
	}

	delete(jobQueue.entries, job)
	delete(jobQueue.current, batchId)

	return true
}

// drop any live job for a batch
func removeFromJobQueue(batchId merkle.Digest) {
	jobQueue.Lock()
	defer jobQueue.Unlock()

	if job, ok := jobQueue.current[batchId]; ok {
		delete(jobQueue.entries, job)
		delete(jobQueue.current, batchId)
	}
}

// check if a batch should be published
//
// true when the batch has no live job or the job has waited past its
// backoff delay, the delay doubles with each attempt up to a limit
func needsPublish(batchId merkle.Digest, retryDelay time.Duration) bool {
	jobQueue.Lock()
	defer jobQueue.Unlock()

	job, ok := jobQueue.current[batchId]
	if !ok {
		return true
	}
	entry, ok := jobQueue.entries[job]
	if !ok {
		return true
	}

	shift := uint(entry.attempts - 1)
	if shift > maximumBackoffShift {
		shift = maximumBackoffShift
	}
	return time.Since(entry.publishedAt) > retryDelay<<shift
}

// JobCount - the number of jobs awaiting receipts
func JobCount() int {
	jobQueue.Lock()
	defer jobQueue.Unlock()
	return len(jobQueue.entries)
}
