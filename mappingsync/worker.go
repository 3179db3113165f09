// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mappingsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/utils/logging"
)

const (
	DefaultSyncLimit     = 8
	DefaultRetryInterval = 6 * time.Second
)

type WorkerConfig struct {
	// Limit is the number of sync steps taken per round.
	Limit int
	// RetryInterval is how long the worker waits for an import notification
	// before starting another round anyway.
	RetryInterval time.Duration
}

// Worker schedules sync rounds. A round starts when a new host block is
// notified or when the retry interval elapses. Rounds that index a block are
// followed immediately by another round.
type Worker struct {
	syncer  *Syncer
	headers chain.HeaderReader
	meta    *indexdb.MetaDB
	log     logging.Logger

	limit         int
	retryInterval time.Duration

	lock     sync.Mutex
	notified []ids.ID
	wake     chan struct{}
}

func NewWorker(
	config WorkerConfig,
	syncer *Syncer,
	headers chain.HeaderReader,
	backend *indexdb.Backend,
	log logging.Logger,
) *Worker {
	if config.Limit <= 0 {
		config.Limit = DefaultSyncLimit
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = DefaultRetryInterval
	}
	return &Worker{
		syncer:        syncer,
		headers:       headers,
		meta:          backend.Meta,
		log:           log,
		limit:         config.Limit,
		retryInterval: config.RetryInterval,
		wake:          make(chan struct{}, 1),
	}
}

// Notify records that the host chain imported the block [hash] and wakes the
// worker. It never blocks.
func (w *Worker) Notify(hash ids.ID) {
	w.lock.Lock()
	w.notified = append(w.notified, hash)
	w.lock.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run executes rounds until [ctx] is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	timer := time.NewTimer(w.retryInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.wake:
		case <-timer.C:
		}

		for w.round(ctx) && ctx.Err() == nil {
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.retryInterval)
	}
}

// round runs one batch of sync steps and returns true if a block was indexed.
// Errors are logged and left for the next round.
func (w *Worker) round(ctx context.Context) bool {
	if err := w.recordTips(); err != nil {
		w.log.Warn("failed to record syncing tips",
			zap.Error(err),
		)
	}

	synced, err := w.syncer.SyncUpTo(ctx, w.limit)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Error("mapping sync failed",
				zap.Error(err),
			)
		}
		return false
	}

	if err := w.pruneTips(ctx); err != nil {
		w.log.Warn("failed to prune syncing tips",
			zap.Error(err),
		)
	}
	return synced
}

// recordTips persists the notified blocks as syncing tips. On failure the
// notified blocks are kept for the next round.
func (w *Worker) recordTips() error {
	w.lock.Lock()
	notified := w.notified
	w.notified = nil
	w.lock.Unlock()

	if len(notified) == 0 {
		return nil
	}
	if err := w.writeTips(notified); err != nil {
		w.lock.Lock()
		w.notified = append(notified, w.notified...)
		w.lock.Unlock()
		return err
	}
	return nil
}

func (w *Worker) writeTips(notified []ids.ID) error {
	tips, err := w.meta.PendingTips()
	if err != nil {
		return err
	}
	changed := false
	for _, hash := range notified {
		if !slices.Contains(tips, hash) {
			tips = append(tips, hash)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return w.meta.SetPendingTips(tips)
}

// pruneTips drops the syncing tips the checkpoint has reached, and tips the
// host chain no longer knows about.
func (w *Worker) pruneTips(ctx context.Context) error {
	tips, err := w.meta.PendingTips()
	if err != nil || len(tips) == 0 {
		return err
	}
	checkpoint, ok, err := w.meta.Checkpoint()
	if err != nil || !ok {
		return err
	}

	remaining := make([]ids.ID, 0, len(tips))
	for _, tip := range tips {
		header, err := w.headers.HeaderByHash(ctx, tip)
		switch {
		case errors.Is(err, chain.ErrUnknownBlock):
			continue
		case err != nil:
			return err
		case header.Number <= checkpoint.Number:
			continue
		}
		remaining = append(remaining, tip)
	}
	if len(remaining) == len(tips) {
		return nil
	}
	return w.meta.SetPendingTips(remaining)
}
