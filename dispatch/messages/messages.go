// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messages - wire records exchanged with transaction processors
//
// definitions are maintained by hand to match messages.proto so the
// build does not depend on protoc
package messages

import (
	proto "github.com/golang/protobuf/proto"
)

// StateEntry - one state address and its value
type StateEntry struct {
	Address string `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Value   []byte `protobuf:"bytes,2,opt,name=value,proto3" json:"value,omitempty"`
	Delete  bool   `protobuf:"varint,3,opt,name=delete,proto3" json:"delete,omitempty"`
}

func (m *StateEntry) Reset()         { *m = StateEntry{} }
func (m *StateEntry) String() string { return proto.CompactTextString(m) }
func (*StateEntry) ProtoMessage()    {}

// GetAddress - address accessor
func (m *StateEntry) GetAddress() string {
	if m != nil {
		return m.Address
	}
	return ""
}

// GetValue - value accessor
func (m *StateEntry) GetValue() []byte {
	if m != nil {
		return m.Value
	}
	return nil
}

// GetDelete - delete flag accessor
func (m *StateEntry) GetDelete() bool {
	if m != nil {
		return m.Delete
	}
	return false
}

// TransactionRequest - a single transaction inside a job
type TransactionRequest struct {
	TxId          []byte   `protobuf:"bytes,1,opt,name=tx_id,json=txId,proto3" json:"tx_id,omitempty"`
	FamilyName    string   `protobuf:"bytes,2,opt,name=family_name,json=familyName,proto3" json:"family_name,omitempty"`
	FamilyVersion string   `protobuf:"bytes,3,opt,name=family_version,json=familyVersion,proto3" json:"family_version,omitempty"`
	Inputs        []string `protobuf:"bytes,4,rep,name=inputs,proto3" json:"inputs,omitempty"`
	Outputs       []string `protobuf:"bytes,5,rep,name=outputs,proto3" json:"outputs,omitempty"`
	Payload       []byte   `protobuf:"bytes,6,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *TransactionRequest) Reset()         { *m = TransactionRequest{} }
func (m *TransactionRequest) String() string { return proto.CompactTextString(m) }
func (*TransactionRequest) ProtoMessage()    {}

// GetTxId - transaction id accessor
func (m *TransactionRequest) GetTxId() []byte {
	if m != nil {
		return m.TxId
	}
	return nil
}

// GetFamilyName - family name accessor
func (m *TransactionRequest) GetFamilyName() string {
	if m != nil {
		return m.FamilyName
	}
	return ""
}

// GetFamilyVersion - family version accessor
func (m *TransactionRequest) GetFamilyVersion() string {
	if m != nil {
		return m.FamilyVersion
	}
	return ""
}

// GetInputs - input addresses accessor
func (m *TransactionRequest) GetInputs() []string {
	if m != nil {
		return m.Inputs
	}
	return nil
}

// GetOutputs - output addresses accessor
func (m *TransactionRequest) GetOutputs() []string {
	if m != nil {
		return m.Outputs
	}
	return nil
}

// GetPayload - payload accessor
func (m *TransactionRequest) GetPayload() []byte {
	if m != nil {
		return m.Payload
	}
	return nil
}

// ProcessRequest - a batch execution job broadcast to transaction
// processors
type ProcessRequest struct {
	Job          string                `protobuf:"bytes,1,opt,name=job,proto3" json:"job,omitempty"`
	BatchId      []byte                `protobuf:"bytes,2,opt,name=batch_id,json=batchId,proto3" json:"batch_id,omitempty"`
	Transactions []*TransactionRequest `protobuf:"bytes,3,rep,name=transactions,proto3" json:"transactions,omitempty"`
	Context      []*StateEntry         `protobuf:"bytes,4,rep,name=context,proto3" json:"context,omitempty"`
}

func (m *ProcessRequest) Reset()         { *m = ProcessRequest{} }
func (m *ProcessRequest) String() string { return proto.CompactTextString(m) }
func (*ProcessRequest) ProtoMessage()    {}

// GetJob - job number accessor
func (m *ProcessRequest) GetJob() string {
	if m != nil {
		return m.Job
	}
	return ""
}

// GetBatchId - batch id accessor
func (m *ProcessRequest) GetBatchId() []byte {
	if m != nil {
		return m.BatchId
	}
	return nil
}

// GetTransactions - transaction list accessor
func (m *ProcessRequest) GetTransactions() []*TransactionRequest {
	if m != nil {
		return m.Transactions
	}
	return nil
}

// GetContext - context entries accessor
func (m *ProcessRequest) GetContext() []*StateEntry {
	if m != nil {
		return m.Context
	}
	return nil
}

// TransactionReceipt - the mutations produced by one transaction
type TransactionReceipt struct {
	TxId      []byte        `protobuf:"bytes,1,opt,name=tx_id,json=txId,proto3" json:"tx_id,omitempty"`
	Mutations []*StateEntry `protobuf:"bytes,2,rep,name=mutations,proto3" json:"mutations,omitempty"`
}

func (m *TransactionReceipt) Reset()         { *m = TransactionReceipt{} }
func (m *TransactionReceipt) String() string { return proto.CompactTextString(m) }
func (*TransactionReceipt) ProtoMessage()    {}

// GetTxId - transaction id accessor
func (m *TransactionReceipt) GetTxId() []byte {
	if m != nil {
		return m.TxId
	}
	return nil
}

// GetMutations - mutation list accessor
func (m *TransactionReceipt) GetMutations() []*StateEntry {
	if m != nil {
		return m.Mutations
	}
	return nil
}

// ExecutionReceipt - returned by a processor after executing a job
type ExecutionReceipt struct {
	Job          string                `protobuf:"bytes,1,opt,name=job,proto3" json:"job,omitempty"`
	BatchId      []byte                `protobuf:"bytes,2,opt,name=batch_id,json=batchId,proto3" json:"batch_id,omitempty"`
	Processor    string                `protobuf:"bytes,3,opt,name=processor,proto3" json:"processor,omitempty"`
	Ok           bool                  `protobuf:"varint,4,opt,name=ok,proto3" json:"ok,omitempty"`
	Message      string                `protobuf:"bytes,5,opt,name=message,proto3" json:"message,omitempty"`
	Transactions []*TransactionReceipt `protobuf:"bytes,6,rep,name=transactions,proto3" json:"transactions,omitempty"`
}

func (m *ExecutionReceipt) Reset()         { *m = ExecutionReceipt{} }
func (m *ExecutionReceipt) String() string { return proto.CompactTextString(m) }
func (*ExecutionReceipt) ProtoMessage()    {}

// GetJob - job number accessor
func (m *ExecutionReceipt) GetJob() string {
	if m != nil {
		return m.Job
	}
	return ""
}

// GetBatchId - batch id accessor
func (m *ExecutionReceipt) GetBatchId() []byte {
	if m != nil {
		return m.BatchId
	}
	return nil
}

// GetProcessor - processor identity accessor
func (m *ExecutionReceipt) GetProcessor() string {
	if m != nil {
		return m.Processor
	}
	return ""
}

// GetOk - success flag accessor
func (m *ExecutionReceipt) GetOk() bool {
	if m != nil {
		return m.Ok
	}
	return false
}

// GetMessage - failure message accessor
func (m *ExecutionReceipt) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// GetTransactions - per transaction receipt accessor
func (m *ExecutionReceipt) GetTransactions() []*TransactionReceipt {
	if m != nil {
		return m.Transactions
	}
	return nil
}

// Registration - sent by a processor over the registration socket
type Registration struct {
	FamilyName    string   `protobuf:"bytes,1,opt,name=family_name,json=familyName,proto3" json:"family_name,omitempty"`
	FamilyVersion string   `protobuf:"bytes,2,opt,name=family_version,json=familyVersion,proto3" json:"family_version,omitempty"`
	Processor     string   `protobuf:"bytes,3,opt,name=processor,proto3" json:"processor,omitempty"`
	Namespaces    []string `protobuf:"bytes,4,rep,name=namespaces,proto3" json:"namespaces,omitempty"`
}

func (m *Registration) Reset()         { *m = Registration{} }
func (m *Registration) String() string { return proto.CompactTextString(m) }
func (*Registration) ProtoMessage()    {}

// GetFamilyName - family name accessor
func (m *Registration) GetFamilyName() string {
	if m != nil {
		return m.FamilyName
	}
	return ""
}

// GetFamilyVersion - family version accessor
func (m *Registration) GetFamilyVersion() string {
	if m != nil {
		return m.FamilyVersion
	}
	return ""
}

// GetProcessor - processor identity accessor
func (m *Registration) GetProcessor() string {
	if m != nil {
		return m.Processor
	}
	return ""
}

// GetNamespaces - namespace list accessor
func (m *Registration) GetNamespaces() []string {
	if m != nil {
		return m.Namespaces
	}
	return nil
}

// RegistrationResponse - the reply to a registration
type RegistrationResponse struct {
	Ok    bool   `protobuf:"varint,1,opt,name=ok,proto3" json:"ok,omitempty"`
	Chain string `protobuf:"bytes,2,opt,name=chain,proto3" json:"chain,omitempty"`
	Error string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
}

func (m *RegistrationResponse) Reset()         { *m = RegistrationResponse{} }
func (m *RegistrationResponse) String() string { return proto.CompactTextString(m) }
func (*RegistrationResponse) ProtoMessage()    {}

// GetOk - success flag accessor
func (m *RegistrationResponse) GetOk() bool {
	if m != nil {
		return m.Ok
	}
	return false
}

// GetChain - chain name accessor
func (m *RegistrationResponse) GetChain() string {
	if m != nil {
		return m.Chain
	}
	return ""
}

// GetError - error message accessor
func (m *RegistrationResponse) GetError() string {
	if m != nil {
		return m.Error
	}
	return ""
}

func init() {
	proto.RegisterType((*StateEntry)(nil), "messages.StateEntry")
	proto.RegisterType((*TransactionRequest)(nil), "messages.TransactionRequest")
	proto.RegisterType((*ProcessRequest)(nil), "messages.ProcessRequest")
	proto.RegisterType((*TransactionReceipt)(nil), "messages.TransactionReceipt")
	proto.RegisterType((*ExecutionReceipt)(nil), "messages.ExecutionReceipt")
	proto.RegisterType((*Registration)(nil), "messages.Registration")
	proto.RegisterType((*RegistrationResponse)(nil), "messages.RegistrationResponse")
}
