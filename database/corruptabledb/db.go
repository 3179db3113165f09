// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package corruptabledb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/evmindex/database"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
)

// Database is a wrapper around another database that rejects every call once
// the wrapped database has returned an unexpected error. Index writes are
// never retried against a store that may have half-applied state.
type Database struct {
	database.Database

	lock sync.RWMutex
	// initError is the first error other than "not found" or "closed" seen
	// from the wrapped database.
	initError error
}

// New returns a new corruptable database.
func New(db database.Database) *Database {
	return &Database{Database: db}
}

// Has returns if the key is set in the database
func (db *Database) Has(key []byte) (bool, error) {
	if err := db.corrupted(); err != nil {
		return false, err
	}
	has, err := db.Database.Has(key)
	return has, db.handleError(err)
}

// Get returns the value the key maps to in the database
func (db *Database) Get(key []byte) ([]byte, error) {
	if err := db.corrupted(); err != nil {
		return nil, err
	}
	value, err := db.Database.Get(key)
	return value, db.handleError(err)
}

// Put sets the value of the provided key to the provided value
func (db *Database) Put(key []byte, value []byte) error {
	if err := db.corrupted(); err != nil {
		return err
	}
	return db.handleError(db.Database.Put(key, value))
}

// Delete removes the key from the database
func (db *Database) Delete(key []byte) error {
	if err := db.corrupted(); err != nil {
		return err
	}
	return db.handleError(db.Database.Delete(key))
}

func (db *Database) Close() error {
	return db.handleError(db.Database.Close())
}

func (db *Database) HealthCheck(ctx context.Context) (interface{}, error) {
	if err := db.corrupted(); err != nil {
		return nil, err
	}
	return db.Database.HealthCheck(ctx)
}

func (db *Database) NewBatch() database.Batch {
	return &batch{
		Batch: db.Database.NewBatch(),
		db:    db,
	}
}

func (db *Database) corrupted() error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.initError == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", database.ErrAvoidCorruption, db.initError)
}

func (db *Database) handleError(err error) error {
	if err == nil || errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrClosed) {
		return err
	}

	db.lock.Lock()
	defer db.lock.Unlock()

	if db.initError == nil {
		db.initError = err
	}
	return err
}

// batch is a wrapper around the batch to contain sizes.
type batch struct {
	database.Batch
	db *Database
}

// Write flushes any accumulated data to disk.
func (b *batch) Write() error {
	if err := b.db.corrupted(); err != nil {
		return err
	}
	return b.db.handleError(b.Batch.Write())
}
