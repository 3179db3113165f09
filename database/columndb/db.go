// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package columndb partitions a flat key-value engine into numbered columns
// and commits multi-column changes as one atomic unit.
package columndb

import (
	"context"
	"fmt"

	"github.com/ava-labs/evmindex/database"
)

// Column identifies a logical keyspace. It is stored as a 4 byte big endian
// prefix in front of every key.
type Column uint32

type opKind byte

const (
	opSet opKind = iota
	opRemove
)

type op struct {
	kind   opKind
	column Column
	key    []byte
	value  []byte
}

// Transaction is an ordered list of writes. Operations are applied in the
// order they were added; a later operation on the same (column, key) wins.
type Transaction struct {
	ops []op
}

// NewTransaction returns an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Set queues a write of [value] under [key] in [column].
func (t *Transaction) Set(column Column, key, value []byte) {
	t.ops = append(t.ops, op{
		kind:   opSet,
		column: column,
		key:    key,
		value:  value,
	})
}

// Remove queues the deletion of [key] in [column].
func (t *Transaction) Remove(column Column, key []byte) {
	t.ops = append(t.ops, op{
		kind:   opRemove,
		column: column,
		key:    key,
	})
}

// Len returns the number of queued operations.
func (t *Transaction) Len() int {
	return len(t.ops)
}

// Database is the storage engine capability the index is written against.
type Database interface {
	// Get returns the value of [key] in [column], or database.ErrNotFound.
	Get(column Column, key []byte) ([]byte, error)

	// Commit atomically applies every operation of [tx]. Either all of them
	// become visible or none do.
	Commit(tx *Transaction) error

	HealthCheck(ctx context.Context) (interface{}, error)
	Close() error
}

var _ Database = (*db)(nil)

type db struct {
	db database.Database
}

// New returns a column view over [engine].
func New(engine database.Database) Database {
	return &db{db: engine}
}

func (d *db) Get(column Column, key []byte) ([]byte, error) {
	return d.db.Get(prefixKey(column, key))
}

func (d *db) Commit(tx *Transaction) error {
	batch := d.db.NewBatch()
	for _, op := range tx.ops {
		var err error
		switch op.kind {
		case opSet:
			err = batch.Put(prefixKey(op.column, op.key), op.value)
		case opRemove:
			err = batch.Delete(prefixKey(op.column, op.key))
		default:
			err = fmt.Errorf("unknown operation %d", op.kind)
		}
		if err != nil {
			return err
		}
	}
	return batch.Write()
}

func (d *db) HealthCheck(ctx context.Context) (interface{}, error) {
	return d.db.HealthCheck(ctx)
}

func (d *db) Close() error {
	return d.db.Close()
}

func prefixKey(column Column, key []byte) []byte {
	prefixed := make([]byte, database.Uint32Size+len(key))
	copy(prefixed, database.PackUInt32(uint32(column)))
	copy(prefixed[database.Uint32Size:], key)
	return prefixed
}
