// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpcchain

import (
	"context"
	"math/big"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/chain/chaintest"
	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/logging"
)

// hostNode serves the host node RPC methods out of an in-memory chain.
type hostNode struct {
	chain      *chaintest.Chain
	evmAt      ids.ID
	evmGenesis *common.Hash

	headerCalls atomic.Int32
}

type chainService struct{ node *hostNode }

func (s *chainService) GetBlockHash(number uint64) *string {
	header, err := s.node.chain.HeaderByNumber(context.Background(), number)
	if err != nil {
		return nil
	}
	hash := toHex(header.Hash)
	return &hash
}

func (s *chainService) GetHeader(hash *string) (*rpcHeader, error) {
	s.node.headerCalls.Add(1)
	header := s.node.chain.Tip()
	if hash != nil {
		id, err := ids.FromHex(*hash)
		if err != nil {
			return nil, err
		}
		header, err = s.node.chain.HeaderByHash(context.Background(), id)
		if err != nil {
			return nil, nil
		}
	}

	logs := make([]hexutil.Bytes, len(header.Digest))
	for i, item := range header.Digest {
		b, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		logs[i] = b
	}
	return &rpcHeader{
		ParentHash: toHex(header.ParentHash),
		Number:     hexutil.Uint64(header.Number),
		Digest:     rpcDigest{Logs: logs},
	}, nil
}

type stateService struct{ node *hostNode }

func (s *stateService) GetRuntimeVersion(hash string) *rpcRuntimeVersion {
	version := &rpcRuntimeVersion{
		SpecName:    "host",
		SpecVersion: 1,
		APIs: []apiVersion{
			{"0xdf6acb689907609b", 4},
		},
	}
	if hash == toHex(s.node.evmAt) {
		version.APIs = append(version.APIs, apiVersion{EVMRuntimeAPIID, 4})
	}
	return version
}

type ethService struct{ node *hostNode }

func (s *ethService) GetBlockByNumber(number hexutil.Uint64, _ bool) *rpcEVMBlock {
	if number != 0 || s.node.evmGenesis == nil {
		return nil
	}
	return &rpcEVMBlock{Hash: *s.node.evmGenesis}
}

func newTestServer(t *testing.T, node *hostNode) *rpc.Server {
	require := require.New(t)

	server := rpc.NewServer()
	require.NoError(server.RegisterName("chain", &chainService{node: node}))
	require.NoError(server.RegisterName("state", &stateService{node: node}))
	require.NoError(server.RegisterName("eth", &ethService{node: node}))
	t.Cleanup(server.Stop)
	return server
}

func newTestClient(t *testing.T, node *hostNode) *Client {
	c, err := New(rpc.DialInProc(newTestServer(t, node)), logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestHeaders(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	genesis := chaintest.NewHeader(ids.Empty, 0)
	host := chaintest.New(genesis)
	headers := host.Extend(2, func(number uint64) []digest.Item {
		return []digest.Item{chaintest.LogItem(common.BigToHash(new(big.Int).SetUint64(number)))}
	})
	c := newTestClient(t, &hostNode{chain: host})

	best, err := c.BestNumber(ctx)
	require.NoError(err)
	require.Equal(uint64(2), best)

	header, err := c.HeaderByNumber(ctx, 1)
	require.NoError(err)
	require.Equal(headers[0], header)

	header, err = c.HeaderByHash(ctx, headers[1].Hash)
	require.NoError(err)
	require.Equal(headers[1], header)

	_, err = c.HeaderByNumber(ctx, 3)
	require.ErrorIs(err, chain.ErrUnknownBlock)

	_, err = c.HeaderByHash(ctx, ids.GenerateTestID())
	require.ErrorIs(err, chain.ErrUnknownBlock)
}

func TestHeaderCache(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	genesis := chaintest.NewHeader(ids.Empty, 0)
	host := chaintest.New(genesis)
	headers := host.Extend(1, nil)
	node := &hostNode{chain: host}
	c := newTestClient(t, node)

	for i := 0; i < 3; i++ {
		header, err := c.HeaderByHash(ctx, headers[0].Hash)
		require.NoError(err)
		require.Equal(headers[0], header)
	}
	require.Equal(int32(1), node.headerCalls.Load())

	// The best header is never served from the cache.
	_, err := c.BestNumber(ctx)
	require.NoError(err)
	_, err = c.BestNumber(ctx)
	require.NoError(err)
	require.Equal(int32(3), node.headerCalls.Load())

	// Unknown hashes are not cached.
	unknown := ids.GenerateTestID()
	_, err = c.HeaderByHash(ctx, unknown)
	require.ErrorIs(err, chain.ErrUnknownBlock)
	_, err = c.HeaderByHash(ctx, unknown)
	require.ErrorIs(err, chain.ErrUnknownBlock)
	require.Equal(int32(5), node.headerCalls.Load())
}

func TestDuplicateMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	server := newTestServer(t, &hostNode{chain: chaintest.New(chaintest.NewHeader(ids.Empty, 0))})

	c, err := New(rpc.DialInProc(server), logging.NoLog{}, registry)
	require.NoError(t, err)
	defer c.Close()

	duplicate := rpc.DialInProc(server)
	defer duplicate.Close()
	_, err = New(duplicate, logging.NoLog{}, registry)
	require.Error(t, err)
}

func TestRuntime(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	genesis := chaintest.NewHeader(ids.Empty, 0)
	execGenesis := common.HexToHash("0x1234")
	node := &hostNode{
		chain:      chaintest.New(genesis),
		evmAt:      genesis.Hash,
		evmGenesis: &execGenesis,
	}
	c := newTestClient(t, node)

	hasAPI, err := c.HasEVMAPI(ctx, genesis.Hash)
	require.NoError(err)
	require.True(hasAPI)

	hasAPI, err = c.HasEVMAPI(ctx, ids.GenerateTestID())
	require.NoError(err)
	require.False(hasAPI)

	hash, err := c.CurrentEVMBlockHash(ctx, genesis.Hash)
	require.NoError(err)
	require.Equal(execGenesis, hash)

	node.evmGenesis = nil
	_, err = c.CurrentEVMBlockHash(ctx, genesis.Hash)
	require.ErrorIs(err, chain.ErrUnknownBlock)
}

func TestDialHTTP(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	genesis := chaintest.NewHeader(ids.Empty, 0)
	server := httptest.NewServer(newTestServer(t, &hostNode{chain: chaintest.New(genesis)}))
	defer server.Close()

	c, err := Dial(ctx, server.URL, logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)
	defer c.Close()

	header, err := c.HeaderByNumber(ctx, 0)
	require.NoError(err)
	require.Equal(genesis.Hash, header.Hash)
}
