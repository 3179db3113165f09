// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/evmindex/ids"
)

// Checkpoint is the last host block whose mapping has been fully indexed.
type Checkpoint struct {
	Hash   ids.ID `json:"hash"`
	Number uint64 `json:"number"`
}

// Commitment describes the index entries of one host block.
type Commitment struct {
	HostHash      ids.ID
	ExecBlockHash common.Hash
	ExecTxHashes  []common.Hash
}

// TransactionRecord locates an execution transaction inside a host block.
type TransactionRecord struct {
	HostHash      ids.ID      `json:"hostHash"`
	ExecBlockHash common.Hash `json:"execBlockHash"`
	ExecIndex     uint32      `json:"execIndex"`
}
