// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package database defines the key-value storage abstraction the index is
// built on. Implementations live in the sub-packages.
package database

import (
	"context"
	"io"
)

// KeyValueReader wraps the Has and Get method of a backing data store.
type KeyValueReader interface {
	// Has retrieves if a key is present in the key-value data store.
	Has(key []byte) (bool, error)

	// Get retrieves the given key if it's present in the key-value data store.
	// Returns ErrNotFound if the key is not present.
	// The returned byte slice is safe to read from and write to.
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the Put method of a backing data store.
type KeyValueWriter interface {
	// Put inserts the given value into the key-value data store.
	//
	// Note: [key] and [value] are safe to modify and read after calling Put.
	Put(key []byte, value []byte) error
}

// KeyValueDeleter wraps the Delete method of a backing data store.
type KeyValueDeleter interface {
	// Delete removes the key from the key-value data store. Deleting a missing
	// key is not an error.
	Delete(key []byte) error
}

type KeyValueWriterDeleter interface {
	KeyValueWriter
	KeyValueDeleter
}

// Batch is a write-only database that commits changes to its host database
// when Write is called. A batch cannot be used concurrently.
type Batch interface {
	KeyValueWriterDeleter

	// Size retrieves the amount of data queued up for writing, this includes
	// the keys, values, and deleted keys.
	Size() int

	// Write flushes any accumulated data to disk. Either every operation in
	// the batch is applied or none is.
	Write() error

	// Reset resets the batch for reuse.
	Reset()

	// Replay replays the batch contents in the same order they were written
	// to the batch.
	Replay(w KeyValueWriterDeleter) error
}

// Batcher wraps the NewBatch method of a backing data store.
type Batcher interface {
	// NewBatch creates a write-only database that buffers changes to its host
	// db until a final write is called.
	NewBatch() Batch
}

// Database contains all the methods required to allow handling different
// key-value data stores backing the index.
type Database interface {
	KeyValueReader
	KeyValueWriterDeleter
	Batcher
	io.Closer

	// HealthCheck returns nil if the database is usable.
	HealthCheck(context.Context) (interface{}, error)
}
