// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pending_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marbled/pending"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", pending.StateUnknown.String(), "wrong unknown string")
	assert.Equal(t, "PENDING", pending.StatePending.String(), "wrong pending string")
	assert.Equal(t, "COMMITTED", pending.StateCommitted.String(), "wrong committed string")
	assert.Equal(t, "INVALID", pending.StateInvalid.String(), "wrong invalid string")
	assert.Equal(t, "*unknown*", pending.State(99).String(), "wrong out of range string")
}

func TestStateJSON(t *testing.T) {
	type statusReply struct {
		Status pending.State `json:"status"`
	}

	buffer, err := json.Marshal(statusReply{Status: pending.StateCommitted})
	assert.Nil(t, err, "marshal error")
	assert.Equal(t, `{"status":"COMMITTED"}`, string(buffer), "wrong JSON")

	var reply statusReply
	err = json.Unmarshal([]byte(`{"status":"PENDING"}`), &reply)
	assert.Nil(t, err, "unmarshal error")
	assert.Equal(t, pending.StatePending, reply.Status, "wrong state")

	// an unrecognised status decodes as unknown
	err = json.Unmarshal([]byte(`{"status":"SOMETHING"}`), &reply)
	assert.Nil(t, err, "unmarshal error")
	assert.Equal(t, pending.StateUnknown, reply.Status, "wrong state")
}
