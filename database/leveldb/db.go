// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leveldb

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/utils/logging"
	"github.com/ava-labs/evmindex/utils/units"
)

const (
	// Name is the name of this database for database switches
	Name = "leveldb"

	// levelDBByteOverhead is the number of bytes of constant overhead that
	// should be added to a batch size per operation.
	levelDBByteOverhead = 8
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)

	DefaultConfig = Config{
		BlockCacheCapacity:     12 * units.MiB,
		WriteBuffer:            6 * units.MiB,
		OpenFilesCacheCapacity: 1024,
		FilterBitsPerKey:       10,
	}
)

type Config struct {
	BlockCacheCapacity     int // Byte
	WriteBuffer            int // Byte
	OpenFilesCacheCapacity int // num files
	FilterBitsPerKey       int
}

// Database is a persistent key-value store. Apart from basic data storage
// functionality it also supports batch writes.
type Database struct {
	*leveldb.DB
	closed atomic.Bool
}

// New returns a wrapped LevelDB object.
func New(file string, cfg Config, log logging.Logger) (*Database, error) {
	db, err := leveldb.OpenFile(file, &opt.Options{
		BlockCacheCapacity:     cfg.BlockCacheCapacity,
		WriteBuffer:            cfg.WriteBuffer,
		OpenFilesCacheCapacity: cfg.OpenFilesCacheCapacity,
		Filter:                 filter.NewBloomFilter(cfg.FilterBitsPerKey),
	})
	if errors.IsCorrupted(err) {
		log.Warn("recovering corrupted leveldb",
			zap.String("path", file),
			zap.Error(err),
		)
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't open leveldb at %s: %w", file, err)
	}

	log.Info("opened leveldb",
		zap.String("path", file),
		zap.Int("blockCacheCapacity", cfg.BlockCacheCapacity),
	)
	return &Database{DB: db}, nil
}

// Has returns if the key is set in the database
func (db *Database) Has(key []byte) (bool, error) {
	has, err := db.DB.Has(key, nil)
	return has, updateError(err)
}

// Get returns the value the key maps to in the database
func (db *Database) Get(key []byte) ([]byte, error) {
	value, err := db.DB.Get(key, nil)
	if err != nil {
		return nil, updateError(err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Put sets the value of the provided key to the provided value
func (db *Database) Put(key []byte, value []byte) error {
	return updateError(db.DB.Put(key, value, &opt.WriteOptions{Sync: true}))
}

// Delete removes the key from the database
func (db *Database) Delete(key []byte) error {
	return updateError(db.DB.Delete(key, &opt.WriteOptions{Sync: true}))
}

// NewBatch creates a write/delete-only buffer that is atomically committed to
// the database when write is called
func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return database.ErrClosed
	}
	return updateError(db.DB.Close())
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	if db.closed.Load() {
		return nil, database.ErrClosed
	}
	return nil, nil
}

// batch is a wrapper around a levelDB batch to contain sizes.
type batch struct {
	leveldb.Batch
	db   *Database
	size int
}

// Put the value into the batch for later writing
func (b *batch) Put(key, value []byte) error {
	b.Batch.Put(key, value)
	b.size += len(key) + len(value) + levelDBByteOverhead
	return nil
}

// Delete the key during writing
func (b *batch) Delete(key []byte) error {
	b.Batch.Delete(key)
	b.size += len(key) + levelDBByteOverhead
	return nil
}

// Size retrieves the amount of data queued up for writing.
func (b *batch) Size() int { return b.size }

// Write flushes any accumulated data to disk.
func (b *batch) Write() error {
	return updateError(b.db.DB.Write(&b.Batch, &opt.WriteOptions{Sync: true}))
}

// Reset resets the batch for reuse.
func (b *batch) Reset() {
	b.Batch.Reset()
	b.size = 0
}

// Replay the batch contents.
func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	replay := &replayer{writerDeleter: w}
	if err := b.Batch.Replay(replay); err != nil {
		return updateError(err)
	}
	return replay.err
}

type replayer struct {
	writerDeleter database.KeyValueWriterDeleter
	err           error
}

func (r *replayer) Put(key, value []byte) {
	if r.err != nil {
		return
	}
	r.err = r.writerDeleter.Put(key, value)
}

func (r *replayer) Delete(key []byte) {
	if r.err != nil {
		return
	}
	r.err = r.writerDeleter.Delete(key)
}

func updateError(err error) error {
	switch err {
	case leveldb.ErrClosed:
		return database.ErrClosed
	case leveldb.ErrNotFound:
		return database.ErrNotFound
	default:
		return err
	}
}
