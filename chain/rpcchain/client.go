// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rpcchain reads the host chain over its JSON-RPC endpoint.
package rpcchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/cache"
	"github.com/ava-labs/evmindex/cache/lru"
	"github.com/ava-labs/evmindex/cache/metercacher"
	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/logging"
)

// EVMRuntimeAPIID identifies the execution layer's runtime API in the host
// runtime version.
const EVMRuntimeAPIID = "0x582211f65bb14b89"

// headerCacheSize bounds the number of headers kept by hash.
const headerCacheSize = 2048

var _ chain.Client = (*Client)(nil)

type rpcDigest struct {
	Logs []hexutil.Bytes `json:"logs"`
}

type rpcHeader struct {
	ParentHash string         `json:"parentHash"`
	Number     hexutil.Uint64 `json:"number"`
	Digest     rpcDigest      `json:"digest"`
}

type rpcRuntimeVersion struct {
	SpecName    string       `json:"specName"`
	SpecVersion uint32       `json:"specVersion"`
	APIs        []apiVersion `json:"apis"`
}

// apiVersion is encoded as a [id, version] pair.
type apiVersion [2]interface{}

type rpcEVMBlock struct {
	Hash common.Hash `json:"hash"`
}

// Client is a chain.Client backed by a host node's JSON-RPC API.
type Client struct {
	rpc *rpc.Client
	log logging.Logger

	// Headers are immutable once the hash is known.
	headers cache.Cacher[ids.ID, *chain.Header]
}

// Dial connects to the host node at [url].
func Dial(
	ctx context.Context,
	url string,
	log logging.Logger,
	registerer prometheus.Registerer,
) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("couldn't dial host node: %w", err)
	}
	client, err := New(c, log, registerer)
	if err != nil {
		c.Close()
		return nil, err
	}
	log.Info("connected to host node",
		logging.UserString("url", url),
	)
	return client, nil
}

// New wraps an already connected rpc client. Header cache metrics are
// registered with [registerer].
func New(c *rpc.Client, log logging.Logger, registerer prometheus.Registerer) (*Client, error) {
	headers, err := metercacher.New[ids.ID, *chain.Header](
		"header_cache",
		registerer,
		lru.NewCache[ids.ID, *chain.Header](headerCacheSize),
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't register header cache metrics: %w", err)
	}
	return &Client{
		rpc:     c,
		log:     log,
		headers: headers,
	}, nil
}

func (c *Client) HeaderByNumber(ctx context.Context, number uint64) (*chain.Header, error) {
	var hashStr *string
	if err := c.rpc.CallContext(ctx, &hashStr, "chain_getBlockHash", number); err != nil {
		return nil, err
	}
	if hashStr == nil {
		return nil, fmt.Errorf("%w: number %d", chain.ErrUnknownBlock, number)
	}
	hash, err := ids.FromHex(*hashStr)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse block hash %q: %w", *hashStr, err)
	}
	return c.HeaderByHash(ctx, hash)
}

func (c *Client) HeaderByHash(ctx context.Context, hash ids.ID) (*chain.Header, error) {
	if header, ok := c.headers.Get(hash); ok {
		return header, nil
	}

	var raw *rpcHeader
	if err := c.rpc.CallContext(ctx, &raw, "chain_getHeader", toHex(hash)); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: hash %s", chain.ErrUnknownBlock, hash)
	}

	parentHash, err := ids.FromHex(raw.ParentHash)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse parent hash %q: %w", raw.ParentHash, err)
	}
	var d digest.Digest
	if len(raw.Digest.Logs) > 0 {
		d = make(digest.Digest, len(raw.Digest.Logs))
	}
	for i, encodedItem := range raw.Digest.Logs {
		if err := rlp.DecodeBytes(encodedItem, &d[i]); err != nil {
			return nil, fmt.Errorf("couldn't decode digest item %d of %s: %w", i, hash, err)
		}
	}

	c.log.Verbo("fetched header",
		zap.Stringer("hash", hash),
		zap.Uint64("number", uint64(raw.Number)),
		zap.Int("numDigestItems", len(d)),
	)
	header := &chain.Header{
		Hash:       hash,
		ParentHash: parentHash,
		Number:     uint64(raw.Number),
		Digest:     d,
	}
	c.headers.Put(hash, header)
	return header, nil
}

func (c *Client) BestNumber(ctx context.Context) (uint64, error) {
	var raw *rpcHeader
	if err := c.rpc.CallContext(ctx, &raw, "chain_getHeader"); err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, fmt.Errorf("%w: best header", chain.ErrUnknownBlock)
	}
	return uint64(raw.Number), nil
}

func (c *Client) HasEVMAPI(ctx context.Context, at ids.ID) (bool, error) {
	var version *rpcRuntimeVersion
	if err := c.rpc.CallContext(ctx, &version, "state_getRuntimeVersion", toHex(at)); err != nil {
		return false, err
	}
	if version == nil {
		return false, fmt.Errorf("%w: runtime version at %s", chain.ErrUnknownBlock, at)
	}
	for _, api := range version.APIs {
		if id, ok := api[0].(string); ok && id == EVMRuntimeAPIID {
			return true, nil
		}
	}
	return false, nil
}

// CurrentEVMBlockHash returns the execution layer's genesis block hash, which
// is the current execution block at the host genesis. [at] is only used in
// errors; the block is not read at the state of [at].
func (c *Client) CurrentEVMBlockHash(ctx context.Context, at ids.ID) (common.Hash, error) {
	var block *rpcEVMBlock
	if err := c.rpc.CallContext(ctx, &block, "eth_getBlockByNumber", hexutil.Uint64(0), false); err != nil {
		return common.Hash{}, err
	}
	if block == nil {
		return common.Hash{}, fmt.Errorf("%w: no execution block at %s", chain.ErrUnknownBlock, at)
	}
	return block.Hash, nil
}

// Close terminates the connection.
func (c *Client) Close() {
	c.rpc.Close()
}

func toHex(id ids.ID) string {
	return "0x" + id.Hex()
}
