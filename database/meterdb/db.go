// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meterdb

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/utils/wrappers"
)

const methodLabel = "method"

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)

	methodLabels = []string{methodLabel}

	hasLabel         = prometheus.Labels{methodLabel: "has"}
	getLabel         = prometheus.Labels{methodLabel: "get"}
	putLabel         = prometheus.Labels{methodLabel: "put"}
	deleteLabel      = prometheus.Labels{methodLabel: "delete"}
	newBatchLabel    = prometheus.Labels{methodLabel: "new_batch"}
	closeLabel       = prometheus.Labels{methodLabel: "close"}
	healthCheckLabel = prometheus.Labels{methodLabel: "health_check"}
	batchPutLabel    = prometheus.Labels{methodLabel: "batch_put"}
	batchDeleteLabel = prometheus.Labels{methodLabel: "batch_delete"}
	batchSizeLabel   = prometheus.Labels{methodLabel: "batch_size"}
	batchWriteLabel  = prometheus.Labels{methodLabel: "batch_write"}
	batchResetLabel  = prometheus.Labels{methodLabel: "batch_reset"}
	batchReplayLabel = prometheus.Labels{methodLabel: "batch_replay"}
)

// Database tracks the amount of time each operation takes and how many bytes
// are read/written to the underlying database instance.
type Database struct {
	db database.Database

	calls    *prometheus.CounterVec
	duration *prometheus.GaugeVec
	size     *prometheus.CounterVec
}

// New returns a new database with added metrics
func New(
	reg prometheus.Registerer,
	db database.Database,
) (*Database, error) {
	meterDB := &Database{
		db: db,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calls",
				Help: "number of calls to the database",
			},
			methodLabels,
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "duration",
				Help: "time spent in database calls (ns)",
			},
			methodLabels,
		),
		size: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "size",
				Help: "size of data passed in database calls",
			},
			methodLabels,
		),
	}
	errs := wrappers.Errs{}
	errs.Add(
		reg.Register(meterDB.calls),
		reg.Register(meterDB.duration),
		reg.Register(meterDB.size),
	)
	return meterDB, errs.Err
}

func (db *Database) Has(key []byte) (bool, error) {
	start := time.Now()
	has, err := db.db.Has(key)
	db.observe(hasLabel, start, len(key))
	return has, err
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	value, err := db.db.Get(key)
	db.observe(getLabel, start, len(key)+len(value))
	return value, err
}

func (db *Database) Put(key, value []byte) error {
	start := time.Now()
	err := db.db.Put(key, value)
	db.observe(putLabel, start, len(key)+len(value))
	return err
}

func (db *Database) Delete(key []byte) error {
	start := time.Now()
	err := db.db.Delete(key)
	db.observe(deleteLabel, start, len(key))
	return err
}

func (db *Database) NewBatch() database.Batch {
	start := time.Now()
	b := &batch{
		batch: db.db.NewBatch(),
		db:    db,
	}
	db.observe(newBatchLabel, start, 0)
	return b
}

func (db *Database) Close() error {
	start := time.Now()
	err := db.db.Close()
	db.observe(closeLabel, start, 0)
	return err
}

func (db *Database) HealthCheck(ctx context.Context) (interface{}, error) {
	start := time.Now()
	result, err := db.db.HealthCheck(ctx)
	db.observe(healthCheckLabel, start, 0)
	return result, err
}

func (db *Database) observe(labels prometheus.Labels, start time.Time, size int) {
	db.calls.With(labels).Inc()
	db.duration.With(labels).Add(float64(time.Since(start)))
	if size > 0 {
		db.size.With(labels).Add(float64(size))
	}
}

type batch struct {
	batch database.Batch
	db    *Database
}

func (b *batch) Put(key, value []byte) error {
	start := time.Now()
	err := b.batch.Put(key, value)
	b.db.observe(batchPutLabel, start, len(key)+len(value))
	return err
}

func (b *batch) Delete(key []byte) error {
	start := time.Now()
	err := b.batch.Delete(key)
	b.db.observe(batchDeleteLabel, start, len(key))
	return err
}

func (b *batch) Size() int {
	start := time.Now()
	size := b.batch.Size()
	b.db.observe(batchSizeLabel, start, 0)
	return size
}

func (b *batch) Write() error {
	start := time.Now()
	err := b.batch.Write()
	b.db.observe(batchWriteLabel, start, b.batch.Size())
	return err
}

func (b *batch) Reset() {
	start := time.Now()
	b.batch.Reset()
	b.db.observe(batchResetLabel, start, 0)
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	start := time.Now()
	err := b.batch.Replay(w)
	b.db.observe(batchReplayLabel, start, 0)
	return err
}
