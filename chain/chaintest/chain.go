// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chaintest provides an in-memory host chain for tests.
package chaintest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
)

var _ chain.Client = (*Chain)(nil)

// Chain is a host chain held in memory. Its canonical chain can be extended
// and reorganized while a syncer reads it.
type Chain struct {
	lock sync.RWMutex

	canonical []*chain.Header
	byHash    map[ids.ID]*chain.Header

	// host blocks at which the execution API is available
	evmAPI map[ids.ID]bool
	// execution genesis hash reported by the runtime, if any
	evmGenesis *common.Hash
}

// New returns a chain holding only [genesis].
func New(genesis *chain.Header) *Chain {
	c := &Chain{
		byHash: make(map[ids.ID]*chain.Header),
		evmAPI: make(map[ids.ID]bool),
	}
	c.canonical = []*chain.Header{genesis}
	c.byHash[genesis.Hash] = genesis
	return c
}

// NewHeader returns a header at [number] on top of [parent] with a random
// hash.
func NewHeader(parent ids.ID, number uint64, items ...digest.Item) *chain.Header {
	return &chain.Header{
		Hash:       ids.GenerateTestID(),
		ParentHash: parent,
		Number:     number,
		Digest:     items,
	}
}

// LogItem returns the digest item for an execution block with the given
// transactions. It panics on encoding failures, which cannot happen for valid
// hashes.
func LogItem(blockHash common.Hash, txHashes ...common.Hash) digest.Item {
	item, err := digest.NewItem(digest.Log{
		BlockHash:         blockHash,
		TransactionHashes: txHashes,
	})
	if err != nil {
		panic(err)
	}
	return item
}

// Import appends [header] to the canonical chain. The header must extend the
// current tip.
func (c *Chain) Import(header *chain.Header) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	tip := c.canonical[len(c.canonical)-1]
	if header.Number != tip.Number+1 || header.ParentHash != tip.Hash {
		return fmt.Errorf("header %d does not extend tip %d", header.Number, tip.Number)
	}
	c.canonical = append(c.canonical, header)
	c.byHash[header.Hash] = header
	return nil
}

// Extend imports [n] blocks on top of the tip, each carrying an execution log
// produced by [newItem]. It returns the imported headers.
func (c *Chain) Extend(n int, newItem func(number uint64) []digest.Item) []*chain.Header {
	headers := make([]*chain.Header, 0, n)
	for i := 0; i < n; i++ {
		tip := c.Tip()
		var items []digest.Item
		if newItem != nil {
			items = newItem(tip.Number + 1)
		}
		header := NewHeader(tip.Hash, tip.Number+1, items...)
		if err := c.Import(header); err != nil {
			panic(err)
		}
		headers = append(headers, header)
	}
	return headers
}

// Reorg drops every canonical block at or above [fromNumber] and replaces
// them with [headers]. Dropped blocks stay retrievable by hash.
func (c *Chain) Reorg(fromNumber uint64, headers ...*chain.Header) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if fromNumber == chain.GenesisNumber || fromNumber > uint64(len(c.canonical)) {
		return fmt.Errorf("can't reorg from %d", fromNumber)
	}
	c.canonical = c.canonical[:fromNumber]
	for _, header := range headers {
		tip := c.canonical[len(c.canonical)-1]
		if header.Number != tip.Number+1 || header.ParentHash != tip.Hash {
			return fmt.Errorf("header %d does not extend tip %d", header.Number, tip.Number)
		}
		c.canonical = append(c.canonical, header)
		c.byHash[header.Hash] = header
	}
	return nil
}

// Genesis returns the first canonical header.
func (c *Chain) Genesis() *chain.Header {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.canonical[0]
}

// Tip returns the best canonical header.
func (c *Chain) Tip() *chain.Header {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.canonical[len(c.canonical)-1]
}

// EnableEVM makes the execution API available at [at] and reports
// [genesisHash] as the execution layer's current block. A nil hash makes the
// runtime claim the API while having no block.
func (c *Chain) EnableEVM(at ids.ID, genesisHash *common.Hash) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evmAPI[at] = true
	c.evmGenesis = genesisHash
}

func (c *Chain) HeaderByNumber(_ context.Context, number uint64) (*chain.Header, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if number >= uint64(len(c.canonical)) {
		return nil, fmt.Errorf("%w: number %d", chain.ErrUnknownBlock, number)
	}
	return c.canonical[number], nil
}

func (c *Chain) HeaderByHash(_ context.Context, hash ids.ID) (*chain.Header, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	header, ok := c.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%w: hash %s", chain.ErrUnknownBlock, hash)
	}
	return header, nil
}

func (c *Chain) BestNumber(context.Context) (uint64, error) {
	return c.Tip().Number, nil
}

func (c *Chain) HasEVMAPI(_ context.Context, at ids.ID) (bool, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if _, ok := c.byHash[at]; !ok {
		return false, fmt.Errorf("%w: hash %s", chain.ErrUnknownBlock, at)
	}
	return c.evmAPI[at], nil
}

func (c *Chain) CurrentEVMBlockHash(_ context.Context, at ids.ID) (common.Hash, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if !c.evmAPI[at] || c.evmGenesis == nil {
		return common.Hash{}, fmt.Errorf("%w: no execution block at %s", chain.ErrUnknownBlock, at)
	}
	return *c.evmGenesis, nil
}
