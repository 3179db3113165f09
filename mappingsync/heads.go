// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mappingsync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/logging"
)

// Notifier is told about newly imported host blocks.
type Notifier interface {
	Notify(hash ids.ID)
}

// WatchHeads polls the best host block every [freq] and notifies [notifier]
// whenever it changes, until [ctx] is cancelled.
func WatchHeads(
	ctx context.Context,
	headers chain.HeaderReader,
	notifier Notifier,
	freq time.Duration,
	log logging.Logger,
) error {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	var last ids.ID
	for {
		best, err := bestHeader(ctx, headers)
		switch {
		case err != nil:
			if ctx.Err() == nil {
				log.Debug("failed to fetch best header",
					zap.Error(err),
				)
			}
		case best.Hash != last:
			last = best.Hash
			log.Verbo("new best block",
				zap.Stringer("hash", best.Hash),
				zap.Uint64("number", best.Number),
			)
			notifier.Notify(best.Hash)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func bestHeader(ctx context.Context, headers chain.HeaderReader) (*chain.Header, error) {
	number, err := headers.BestNumber(ctx)
	if err != nil {
		return nil, err
	}
	return headers.HeaderByNumber(ctx, number)
}
