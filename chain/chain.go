// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain describes the view of the host chain that the mapping sync
// needs.
package chain

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
)

// GenesisNumber is the height of the first host block. It has no parent.
const GenesisNumber uint64 = 0

// ErrUnknownBlock is returned when the requested block is not known to the
// host chain client.
var ErrUnknownBlock = errors.New("unknown block")

// Header of a host block.
type Header struct {
	Hash       ids.ID
	ParentHash ids.ID
	Number     uint64
	Digest     digest.Digest
}

// HeaderReader reads headers of the host chain's canonical chain.
type HeaderReader interface {
	// HeaderByNumber returns the canonical header at [number], or
	// ErrUnknownBlock.
	HeaderByNumber(ctx context.Context, number uint64) (*Header, error)
	// HeaderByHash returns the header with [hash], or ErrUnknownBlock.
	HeaderByHash(ctx context.Context, hash ids.ID) (*Header, error)
	// BestNumber returns the number of the best known canonical block.
	BestNumber(ctx context.Context) (uint64, error)
}

// RuntimeReader queries the host chain's runtime.
type RuntimeReader interface {
	// HasEVMAPI reports whether the execution layer API is available at the
	// host block [at].
	HasEVMAPI(ctx context.Context, at ids.ID) (bool, error)
	// CurrentEVMBlockHash returns the hash of the execution layer's current
	// block as seen at host block [at], or ErrUnknownBlock if the runtime
	// has none.
	//
	// It is only called with [at] set to the host genesis. Implementations
	// may rely on that and answer with the execution genesis block instead of
	// reading state at [at].
	CurrentEVMBlockHash(ctx context.Context, at ids.ID) (common.Hash, error)
}

// Client is everything the sync driver reads from the host chain.
type Client interface {
	HeaderReader
	RuntimeReader
}
