// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/utils/logging"
	"github.com/ava-labs/evmindex/utils/units"
)

const (
	// Name is the name of this database for database switches
	Name = "pebbledb"

	// pebbleByteOverHead is the number of bytes of constant overhead that
	// should be added to a batch size per operation.
	pebbleByteOverHead = 8

	blockSize      = 64 * units.KiB
	indexBlockSize = 256 * units.KiB
	filterPolicy   = bloom.FilterPolicy(10)
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)

	ErrInvalidOperation = errors.New("invalid operation")

	DefaultConfig = Config{
		CacheSize:                   512 * units.MiB,
		BytesPerSync:                units.MiB,
		WALBytesPerSync:             units.MiB,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * units.MiB,
		MaxOpenFiles:                4 * units.KiB,
	}
)

type Database struct {
	pebbleDB *pebble.DB
	closed   atomic.Bool
}

type Config struct {
	CacheSize                   int // Byte
	BytesPerSync                int // Byte
	WALBytesPerSync             int // Byte (0 disables)
	MemTableStopWritesThreshold int // num tables
	MemTableSize                int // Byte
	MaxOpenFiles                int
}

func New(file string, cfg Config, log logging.Logger) (*Database, error) {
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    runtime.NumCPU,
		Levels:                      make([]pebble.LevelOptions, 7),
	}

	for i := 0; i < len(opts.Levels); i++ {
		l := &opts.Levels[i]
		l.BlockSize = blockSize
		l.IndexBlockSize = indexBlockSize
		l.FilterPolicy = filterPolicy
		l.FilterType = pebble.TableFilter
		if i > 0 {
			l.TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
		}
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction

	log.Info("opening pebble",
		zap.String("path", file),
		zap.Int("cacheSize", cfg.CacheSize),
	)

	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, fmt.Errorf("couldn't open pebble at %s: %w", file, err)
	}
	return &Database{pebbleDB: db}, nil
}

func (db *Database) Close() error {
	// closing pebble twice panics
	if !db.closed.CompareAndSwap(false, true) {
		return database.ErrClosed
	}

	err := updateError(db.pebbleDB.Close())
	if err != nil && strings.Contains(err.Error(), "leaked iterator") {
		return nil
	}
	return err
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	if db.closed.Load() {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	if db.closed.Load() {
		return false, database.ErrClosed
	}

	_, closer, err := db.pebbleDB.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, updateError(err)
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	if db.closed.Load() {
		return nil, database.ErrClosed
	}

	data, closer, err := db.pebbleDB.Get(key)
	if err != nil {
		return nil, updateError(err)
	}
	ret := slices.Clone(data)
	if ret == nil {
		ret = []byte{}
	}
	return ret, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	if db.closed.Load() {
		return database.ErrClosed
	}
	return updateError(db.pebbleDB.Set(key, value, pebble.Sync))
}

func (db *Database) Delete(key []byte) error {
	if db.closed.Load() {
		return database.ErrClosed
	}
	return updateError(db.pebbleDB.Delete(key, pebble.Sync))
}

// batch is a wrapper around a pebbleDB batch to contain sizes.
type batch struct {
	batch *pebble.Batch
	db    *Database
	size  int

	// pebble panics when a committed batch is committed again
	applied atomic.Bool
}

func (db *Database) NewBatch() database.Batch {
	return &batch{
		db:    db,
		batch: db.pebbleDB.NewBatch(),
	}
}

func (b *batch) Put(key, value []byte) error {
	b.size += len(key) + len(value) + pebbleByteOverHead
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key) + pebbleByteOverHead
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int { return b.size }

func (b *batch) Write() error {
	if b.db.closed.Load() {
		return database.ErrClosed
	}

	if b.applied.Load() {
		// Commit a copy on behalf of the already committed batch.
		newbatch := b.db.pebbleDB.NewBatch()
		if err := newbatch.Apply(b.batch, nil); err != nil {
			return err
		}
		return updateError(newbatch.Commit(pebble.Sync))
	}
	b.applied.Store(true)

	return updateError(b.batch.Commit(pebble.Sync))
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.size = 0
	b.applied.Store(false)
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	reader := b.batch.Reader()
	for {
		kind, k, v, ok := reader.Next()
		if !ok {
			return nil
		}
		switch kind {
		case pebble.InternalKeyKindSet:
			if err := w.Put(k, v); err != nil {
				return err
			}
		case pebble.InternalKeyKindDelete:
			if err := w.Delete(k); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v", ErrInvalidOperation, kind)
		}
	}
}

// updateError casts pebble-specific errors to the errors callers of a
// database.Database expect to see.
func updateError(err error) error {
	switch err {
	case pebble.ErrClosed:
		return database.ErrClosed
	case pebble.ErrNotFound:
		return database.ErrNotFound
	default:
		return err
	}
}
