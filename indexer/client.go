// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/utils/rpc"
)

var _ Client = (*client)(nil)

// Client for the mapping API
type Client interface {
	// GetCheckpoint returns the last indexed host block. The boolean is false
	// if nothing has been indexed.
	GetCheckpoint(context.Context, ...rpc.Option) (indexdb.Checkpoint, bool, error)
	// GetHostBlock returns the host block carrying the execution block
	// [blockHash].
	GetHostBlock(ctx context.Context, blockHash common.Hash, options ...rpc.Option) (ids.ID, error)
	// GetExecBlock returns the execution block carried by [hostHash]. The
	// boolean is false if the host block is known to carry none.
	GetExecBlock(ctx context.Context, hostHash ids.ID, options ...rpc.Option) (common.Hash, bool, error)
	// GetExecTransactions returns the transactions of the execution block
	// [blockHash], in block order.
	GetExecTransactions(ctx context.Context, blockHash common.Hash, options ...rpc.Option) ([]common.Hash, error)
	// GetTransactionRecords returns every indexed location of [txHash].
	GetTransactionRecords(ctx context.Context, txHash common.Hash, options ...rpc.Option) ([]indexdb.TransactionRecord, error)
	// GetPendingTips returns the host blocks the sync is heading towards.
	GetPendingTips(context.Context, ...rpc.Option) ([]ids.ID, error)
}

type client struct {
	requester rpc.EndpointRequester
}

// NewClient returns a client for the mapping API served by the indexer at
// [uri], for example http://localhost:9660.
func NewClient(uri string) Client {
	return &client{
		requester: rpc.NewEndpointRequester(uri + Endpoint),
	}
}

func (c *client) GetCheckpoint(ctx context.Context, options ...rpc.Option) (indexdb.Checkpoint, bool, error) {
	res := &GetCheckpointReply{}
	err := c.requester.SendRequest(ctx, "mapping.getCheckpoint", struct{}{}, res, options...)
	return indexdb.Checkpoint{
		Hash:   res.Hash,
		Number: uint64(res.Number),
	}, res.Synced, err
}

func (c *client) GetHostBlock(ctx context.Context, blockHash common.Hash, options ...rpc.Option) (ids.ID, error) {
	res := &GetHostBlockReply{}
	err := c.requester.SendRequest(ctx, "mapping.getHostBlock", &ExecBlockArgs{
		BlockHash: blockHash,
	}, res, options...)
	return res.HostHash, err
}

func (c *client) GetExecBlock(ctx context.Context, hostHash ids.ID, options ...rpc.Option) (common.Hash, bool, error) {
	res := &GetExecBlockReply{}
	err := c.requester.SendRequest(ctx, "mapping.getExecBlock", &HostBlockArgs{
		HostHash: hostHash,
	}, res, options...)
	if err != nil || res.Empty || res.BlockHash == nil {
		return common.Hash{}, false, err
	}
	return *res.BlockHash, true, nil
}

func (c *client) GetExecTransactions(ctx context.Context, blockHash common.Hash, options ...rpc.Option) ([]common.Hash, error) {
	res := &GetExecTransactionsReply{}
	err := c.requester.SendRequest(ctx, "mapping.getExecTransactions", &ExecBlockArgs{
		BlockHash: blockHash,
	}, res, options...)
	return res.TransactionHashes, err
}

func (c *client) GetTransactionRecords(ctx context.Context, txHash common.Hash, options ...rpc.Option) ([]indexdb.TransactionRecord, error) {
	res := &GetTransactionRecordsReply{}
	err := c.requester.SendRequest(ctx, "mapping.getTransactionRecords", &TransactionArgs{
		TransactionHash: txHash,
	}, res, options...)
	return res.Records, err
}

func (c *client) GetPendingTips(ctx context.Context, options ...rpc.Option) ([]ids.ID, error) {
	res := &GetPendingTipsReply{}
	err := c.requester.SendRequest(ctx, "mapping.getPendingTips", struct{}{}, res, options...)
	return res.Tips, err
}
