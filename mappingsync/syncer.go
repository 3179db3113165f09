// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mappingsync advances the index one host block at a time and rolls
// it back when the host chain reorganizes.
package mappingsync

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/utils/logging"
)

var (
	ErrNoCheckpoint       = errors.New("no checkpoint to roll back")
	ErrMissingHeader      = errors.New("host header missing")
	ErrMissingExecGenesis = errors.New("execution genesis block not found")

	errNotSynced = errors.New("nothing indexed yet")
	errLagging   = errors.New("index is lagging behind the host chain")
)

type Config struct {
	Client     chain.Client
	Backend    *indexdb.Backend
	Log        logging.Logger
	Registerer prometheus.Registerer

	// MaxLag is the number of host blocks the checkpoint may trail the best
	// host block by before the syncer reports itself unhealthy.
	MaxLag uint64
}

// Syncer drives the index. Only one Syncer may write to a backend.
type Syncer struct {
	client  chain.Client
	meta    *indexdb.MetaDB
	mapping *indexdb.MappingDB
	log     logging.Logger
	metrics *metrics
	maxLag  uint64
}

func New(config Config) (*Syncer, error) {
	m, err := newMetrics(config.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register sync metrics: %w", err)
	}
	return &Syncer{
		client:  config.Client,
		meta:    config.Backend.Meta,
		mapping: config.Backend.Mapping,
		log:     config.Log,
		metrics: m,
		maxLag:  config.MaxLag,
	}, nil
}

// ReconcileWithCanonical walks the checkpoint back until it is on the host
// chain's canonical chain, or until nothing is indexed anymore.
//
// A checkpoint above the best host block is left in place.
func (s *Syncer) ReconcileWithCanonical(ctx context.Context) error {
	for {
		checkpoint, ok, err := s.meta.Checkpoint()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		header, err := s.client.HeaderByNumber(ctx, checkpoint.Number)
		if errors.Is(err, chain.ErrUnknownBlock) {
			return nil
		}
		if err != nil {
			return err
		}
		if header.Hash == checkpoint.Hash {
			return nil
		}

		s.log.Debug("checkpoint isn't canonical",
			zap.Uint64("number", checkpoint.Number),
			zap.Stringer("checkpoint", checkpoint.Hash),
			zap.Stringer("canonical", header.Hash),
		)
		if err := s.RollbackLastBlock(); err != nil {
			return err
		}
	}
}

// RollbackLastBlock removes the checkpoint block from the index and moves the
// checkpoint to its parent. Rolling back genesis clears the checkpoint.
func (s *Syncer) RollbackLastBlock() error {
	checkpoint, ok, err := s.meta.Checkpoint()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoCheckpoint
	}

	s.log.Debug("rolling back block",
		zap.Stringer("hash", checkpoint.Hash),
		zap.Uint64("number", checkpoint.Number),
	)
	if err := s.mapping.Rollback(checkpoint.Hash); err != nil {
		return err
	}
	if err := s.meta.ForgetIndexEntry(checkpoint.Number); err != nil {
		return err
	}
	s.metrics.blocksRolledBack.Inc()

	if checkpoint.Number == chain.GenesisNumber {
		if err := s.meta.ClearCheckpoint(); err != nil {
			return err
		}
		s.metrics.checkpointHeight.Set(0)
		return nil
	}

	parent := checkpoint.Number - 1
	hash, err := s.meta.HashAt(parent)
	if err != nil {
		return fmt.Errorf("parent of %s: %w", checkpoint.Hash, err)
	}
	if err := s.meta.SetCheckpoint(hash, parent); err != nil {
		return err
	}
	s.metrics.checkpointHeight.Set(float64(parent))
	return nil
}

// SyncGenesis indexes the host genesis block. Genesis carries no consensus log,
// so the execution genesis is read from the runtime instead.
func (s *Syncer) SyncGenesis(ctx context.Context, header *chain.Header) error {
	hasAPI, err := s.client.HasEVMAPI(ctx, header.Hash)
	if err != nil {
		return err
	}
	if !hasAPI {
		return s.writeEmpty(header.Hash)
	}

	execHash, err := s.client.CurrentEVMBlockHash(ctx, header.Hash)
	if errors.Is(err, chain.ErrUnknownBlock) {
		return fmt.Errorf("%w: %v", ErrMissingExecGenesis, err)
	}
	if err != nil {
		return err
	}
	return s.mapping.WriteHashes(indexdb.Commitment{
		HostHash:      header.Hash,
		ExecBlockHash: execHash,
	})
}

// SyncBlock indexes a non-genesis host block from its consensus log. A block
// without a log is indexed as empty. A block with more than one log can't be
// indexed.
func (s *Syncer) SyncBlock(header *chain.Header) error {
	log, err := digest.FindLog(header.Digest)
	switch {
	case err == nil:
		execHash, txHashes := log.IntoHashes()
		return s.mapping.WriteHashes(indexdb.Commitment{
			HostHash:      header.Hash,
			ExecBlockHash: execHash,
			ExecTxHashes:  txHashes,
		})
	case errors.Is(err, digest.ErrNoLog):
		return s.writeEmpty(header.Hash)
	default:
		return fmt.Errorf("host block %s at %d: %w", header.Hash, header.Number, err)
	}
}

func (s *Syncer) writeEmpty(hostHash ids.ID) error {
	if err := s.mapping.WriteEmpty(hostHash); err != nil {
		return err
	}
	s.metrics.emptyBlocks.Inc()
	return nil
}

// SyncOneStep reconciles the checkpoint with the canonical chain and then
// indexes the next host block, if there is one. Returns true if a block was
// indexed.
func (s *Syncer) SyncOneStep(ctx context.Context) (bool, error) {
	synced, err := s.syncOneStep(ctx)
	if err != nil {
		s.metrics.syncErrors.Inc()
	}
	return synced, err
}

func (s *Syncer) syncOneStep(ctx context.Context) (bool, error) {
	if err := s.ReconcileWithCanonical(ctx); err != nil {
		return false, err
	}

	checkpoint, ok, err := s.meta.Checkpoint()
	if err != nil {
		return false, err
	}
	if !ok {
		if err := s.syncGenesis(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	if checkpoint.Number == math.MaxUint64 {
		return false, nil
	}
	next := checkpoint.Number + 1
	best, err := s.client.BestNumber(ctx)
	if err != nil {
		return false, err
	}
	if best < next {
		s.log.Verbo("next block is ahead of the best block",
			zap.Uint64("next", next),
			zap.Uint64("best", best),
		)
		return false, nil
	}

	header, err := s.headerAt(ctx, next)
	if err != nil {
		return false, err
	}
	if err := s.SyncBlock(header); err != nil {
		return false, err
	}
	if err := s.meta.SetCheckpoint(header.Hash, header.Number); err != nil {
		return false, err
	}

	s.metrics.blocksSynced.Inc()
	s.metrics.checkpointHeight.Set(float64(header.Number))
	s.log.Debug("synced block",
		zap.Stringer("hash", header.Hash),
		zap.Uint64("number", header.Number),
	)
	return true, nil
}

func (s *Syncer) syncGenesis(ctx context.Context) error {
	header, err := s.headerAt(ctx, chain.GenesisNumber)
	if err != nil {
		return err
	}

	s.log.Info("syncing genesis block",
		zap.Stringer("hash", header.Hash),
	)
	if err := s.SyncGenesis(ctx, header); err != nil {
		return err
	}
	if err := s.meta.SetCheckpoint(header.Hash, header.Number); err != nil {
		return err
	}

	s.metrics.blocksSynced.Inc()
	s.metrics.checkpointHeight.Set(float64(header.Number))
	return nil
}

// headerAt returns the canonical header at [number]. The header is expected
// to exist, so its absence is an error.
func (s *Syncer) headerAt(ctx context.Context, number uint64) (*chain.Header, error) {
	header, err := s.client.HeaderByNumber(ctx, number)
	if errors.Is(err, chain.ErrUnknownBlock) {
		return nil, fmt.Errorf("%w: number %d", ErrMissingHeader, number)
	}
	return header, err
}

// SyncUpTo calls SyncOneStep [limit] times, stopping early only on error.
// Returns true if any call indexed a block.
func (s *Syncer) SyncUpTo(ctx context.Context, limit int) (bool, error) {
	syncedAny := false
	for i := 0; i < limit; i++ {
		synced, err := s.SyncOneStep(ctx)
		if err != nil {
			return syncedAny, err
		}
		syncedAny = syncedAny || synced
	}
	return syncedAny, nil
}

// HealthCheck reports the checkpoint and how far it trails the best host
// block. The syncer is unhealthy before anything is indexed and while the lag
// exceeds the configured bound.
func (s *Syncer) HealthCheck(ctx context.Context) (interface{}, error) {
	checkpoint, ok, err := s.meta.Checkpoint()
	if err != nil {
		return nil, err
	}
	best, err := s.client.BestNumber(ctx)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"bestNumber": best,
	}
	if !ok {
		return details, errNotSynced
	}

	var lag uint64
	if best > checkpoint.Number {
		lag = best - checkpoint.Number
	}
	details["checkpoint"] = checkpoint
	details["lag"] = lag
	if lag > s.maxLag {
		return details, fmt.Errorf("%w: %d blocks", errLagging, lag)
	}
	return details, nil
}
