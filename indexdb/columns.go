// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import "github.com/ava-labs/evmindex/database/columndb"

// Every index table lives in its own column.
const (
	// MetaColumn holds the checkpoint and the pending tips.
	MetaColumn columndb.Column = iota
	// TransactionMappingColumn maps an execution tx hash to its records.
	TransactionMappingColumn
	// BlockNumberMappingColumn maps a host block number to the host hash
	// indexed at that height.
	BlockNumberMappingColumn
	// ExecBlockMappingColumn maps an execution block hash to its host hash.
	ExecBlockMappingColumn
	// HostBlockMappingColumn maps a host hash to its execution block hash, or
	// to an empty value for host blocks without execution content.
	HostBlockMappingColumn
	// ExecBlockTxMappingColumn maps an execution block hash to the ordered
	// hashes of its transactions.
	ExecBlockTxMappingColumn

	NumColumns = iota
)

var (
	checkpointKey  = []byte("LAST_SYNCED_BLOCK")
	pendingTipsKey = []byte("CURRENT_SYNCING_TIPS")
)
