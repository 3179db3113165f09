// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/utils/json"
	"github.com/ava-labs/evmindex/utils/logging"
)

var errNotIndexed = errors.New("not indexed")

type service struct {
	log     logging.Logger
	meta    *indexdb.MetaDB
	mapping *indexdb.MappingDB
}

type GetCheckpointReply struct {
	// Synced is false if nothing has been indexed yet.
	Synced bool        `json:"synced"`
	Hash   ids.ID      `json:"hash"`
	Number json.Uint64 `json:"number"`
}

func (s *service) GetCheckpoint(_ *http.Request, _ *struct{}, reply *GetCheckpointReply) error {
	s.log.Debug("API called",
		zap.String("service", "mapping"),
		zap.String("method", "getCheckpoint"),
	)

	checkpoint, ok, err := s.meta.Checkpoint()
	if err != nil {
		return err
	}
	reply.Synced = ok
	reply.Hash = checkpoint.Hash
	reply.Number = json.Uint64(checkpoint.Number)
	return nil
}

type ExecBlockArgs struct {
	BlockHash common.Hash `json:"blockHash"`
}

type GetHostBlockReply struct {
	HostHash ids.ID `json:"hostHash"`
}

// GetHostBlock returns the host block that carried an execution block.
func (s *service) GetHostBlock(_ *http.Request, args *ExecBlockArgs, reply *GetHostBlockReply) error {
	s.log.Debug("API called",
		zap.String("service", "mapping"),
		zap.String("method", "getHostBlock"),
		zap.Stringer("blockHash", args.BlockHash),
	)

	hostHash, ok, err := s.mapping.HostBlockFor(args.BlockHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("execution block %s %w", args.BlockHash, errNotIndexed)
	}
	reply.HostHash = hostHash
	return nil
}

type HostBlockArgs struct {
	HostHash ids.ID `json:"hostHash"`
}

type GetExecBlockReply struct {
	// Empty is true if the host block is indexed as carrying no execution
	// block. BlockHash is unset in that case.
	Empty     bool         `json:"empty"`
	BlockHash *common.Hash `json:"blockHash,omitempty"`
}

// GetExecBlock returns the execution block carried by a host block.
func (s *service) GetExecBlock(_ *http.Request, args *HostBlockArgs, reply *GetExecBlockReply) error {
	s.log.Debug("API called",
		zap.String("service", "mapping"),
		zap.String("method", "getExecBlock"),
		zap.Stringer("hostHash", args.HostHash),
	)

	execHash, err := s.mapping.ExecBlockFor(args.HostHash)
	switch {
	case err == nil:
		reply.BlockHash = &execHash
		return nil
	case errors.Is(err, indexdb.ErrNoExecutionContent):
		reply.Empty = true
		return nil
	case errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("host block %s %w", args.HostHash, errNotIndexed)
	default:
		return err
	}
}

type GetExecTransactionsReply struct {
	TransactionHashes []common.Hash `json:"transactionHashes"`
}

// GetExecTransactions returns the transactions of an execution block, in
// block order. An unknown block has no transactions.
func (s *service) GetExecTransactions(_ *http.Request, args *ExecBlockArgs, reply *GetExecTransactionsReply) error {
	s.log.Debug("API called",
		zap.String("service", "mapping"),
		zap.String("method", "getExecTransactions"),
		zap.Stringer("blockHash", args.BlockHash),
	)

	txHashes, err := s.mapping.ExecTransactionsOf(args.BlockHash)
	if err != nil {
		return err
	}
	reply.TransactionHashes = txHashes
	return nil
}

type TransactionArgs struct {
	TransactionHash common.Hash `json:"transactionHash"`
}

type GetTransactionRecordsReply struct {
	Records []indexdb.TransactionRecord `json:"records"`
}

// GetTransactionRecords returns where an execution transaction was included.
// An unknown transaction has no records.
func (s *service) GetTransactionRecords(_ *http.Request, args *TransactionArgs, reply *GetTransactionRecordsReply) error {
	s.log.Debug("API called",
		zap.String("service", "mapping"),
		zap.String("method", "getTransactionRecords"),
		zap.Stringer("transactionHash", args.TransactionHash),
	)

	records, err := s.mapping.TransactionRecords(args.TransactionHash)
	if err != nil {
		return err
	}
	reply.Records = records
	return nil
}

type GetPendingTipsReply struct {
	Tips []ids.ID `json:"tips"`
}

func (s *service) GetPendingTips(_ *http.Request, _ *struct{}, reply *GetPendingTipsReply) error {
	s.log.Debug("API called",
		zap.String("service", "mapping"),
		zap.String("method", "getPendingTips"),
	)

	tips, err := s.meta.PendingTips()
	if err != nil {
		return err
	}
	reply.Tips = tips
	return nil
}
