// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tests is a list of all database tests
var Tests = []func(t *testing.T, db Database){
	TestSimpleKeyValue,
	TestKeyEmptyValue,
	TestSimpleKeyValueClosed,
	TestBatchPut,
	TestBatchDelete,
	TestBatchReset,
	TestBatchReuse,
	TestBatchReplay,
	TestBatchLastWriteWins,
	TestMemorySafetyDatabase,
	TestMemorySafetyBatch,
	TestHealthCheck,
}

// TestSimpleKeyValue tests to make sure that simple Put + Get + Delete + Has
// calls return the expected values.
func TestSimpleKeyValue(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Delete(key))
	require.NoError(db.Put(key, value))

	has, err = db.Has(key)
	require.NoError(err)
	require.True(has)

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)

	require.NoError(db.Delete(key))

	has, err = db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Delete(key))
}

// TestKeyEmptyValue checks that an empty value is stored and distinguishable
// from a missing key.
func TestKeyEmptyValue(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	val := []byte(nil)

	_, err := db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Put(key, val))

	value, err := db.Get(key)
	require.NoError(err)
	require.Empty(value)
}

// TestSimpleKeyValueClosed tests to make sure that Put + Get + Delete + Has
// calls return the correct error when the database has been closed.
func TestSimpleKeyValueClosed(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))
	require.NoError(db.Close())

	_, err := db.Has(key)
	require.ErrorIs(err, ErrClosed)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrClosed)

	require.ErrorIs(db.Put(key, value), ErrClosed)
	require.ErrorIs(db.Delete(key), ErrClosed)
	require.ErrorIs(db.Close(), ErrClosed)
}

// TestBatchPut tests to make sure that batched writes work as expected.
func TestBatchPut(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	batch := db.NewBatch()
	require.NotNil(batch)

	require.NoError(batch.Put(key, value))
	require.Positive(batch.Size())

	// nothing is visible before Write
	_, err := db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(batch.Write())

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)

	batch = db.NewBatch()
	require.NoError(batch.Put(key, value))
	require.NoError(db.Close())
	require.ErrorIs(batch.Write(), ErrClosed)
}

// TestBatchDelete tests to make sure that batched deletes work as expected.
func TestBatchDelete(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))

	batch := db.NewBatch()
	require.NoError(batch.Delete(key))
	require.NoError(batch.Write())

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Delete(key))
}

// TestBatchReset tests to make sure that a batch drops un-written operations
// when it is reset.
func TestBatchReset(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))

	batch := db.NewBatch()
	require.NoError(batch.Delete(key))

	batch.Reset()
	require.Zero(batch.Size())
	require.NoError(batch.Write())

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)
}

// TestBatchReuse tests to make sure that a batch can be reused once it is
// reset.
func TestBatchReuse(t *testing.T, db Database) {
	require := require.New(t)

	key1 := []byte("hello1")
	value1 := []byte("world1")

	key2 := []byte("hello2")
	value2 := []byte("world2")

	batch := db.NewBatch()

	require.NoError(batch.Put(key1, value1))
	require.NoError(batch.Write())
	require.NoError(db.Delete(key1))

	has, err := db.Has(key1)
	require.NoError(err)
	require.False(has)

	batch.Reset()

	require.NoError(batch.Put(key2, value2))
	require.NoError(batch.Write())

	has, err = db.Has(key1)
	require.NoError(err)
	require.False(has)

	has, err = db.Has(key2)
	require.NoError(err)
	require.True(has)
}

// TestBatchReplay tests to make sure that batches will correctly replay their
// contents.
func TestBatchReplay(t *testing.T, db Database) {
	require := require.New(t)

	key1 := []byte("hello1")
	value1 := []byte("world1")

	key2 := []byte("hello2")
	value2 := []byte("world2")

	batch := db.NewBatch()
	require.NoError(batch.Put(key1, value1))
	require.NoError(batch.Put(key2, value2))
	require.NoError(batch.Delete(key1))

	recorder := &recordingWriter{}
	require.NoError(batch.Replay(recorder))
	require.Equal([]string{
		"put hello1",
		"put hello2",
		"delete hello1",
	}, recorder.ops)
}

// TestBatchLastWriteWins tests that operations on the same key inside one
// batch are applied in order.
func TestBatchLastWriteWins(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, []byte("first")))
	require.NoError(batch.Delete(key))
	require.NoError(batch.Put(key, []byte("second")))
	require.NoError(batch.Write())

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal([]byte("second"), v)
}

// TestMemorySafetyDatabase ensures it is safe to modify a key or value after
// passing it to the database.
func TestMemorySafetyDatabase(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("1key")
	keyCopy := []byte("1key")
	value := []byte("value")
	valueCopy := []byte("value")

	require.NoError(db.Put(key, value))

	key[0] = '2'
	value[0] = 'x'

	got, err := db.Get(keyCopy)
	require.NoError(err)
	require.Equal(valueCopy, got)

	// the returned slice is owned by the caller
	got[0] = 'y'
	got, err = db.Get(keyCopy)
	require.NoError(err)
	require.Equal(valueCopy, got)
}

// TestMemorySafetyBatch ensures it is safe to modify a key or value after
// passing it to a batch.
func TestMemorySafetyBatch(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	keyCopy := []byte("hello")
	value := []byte("world")
	valueCopy := []byte("world")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, value))

	key[0] = 'j'
	value[0] = 'f'

	require.NoError(batch.Write())

	got, err := db.Get(keyCopy)
	require.NoError(err)
	require.Equal(valueCopy, got)
}

// TestHealthCheck checks that an open database reports healthy and a closed
// one does not.
func TestHealthCheck(t *testing.T, db Database) {
	require := require.New(t)

	_, err := db.HealthCheck(context.Background())
	require.NoError(err)

	require.NoError(db.Close())

	_, err = db.HealthCheck(context.Background())
	require.ErrorIs(err, ErrClosed)
}

type recordingWriter struct {
	ops []string
}

func (r *recordingWriter) Put(key, _ []byte) error {
	r.ops = append(r.ops, "put "+string(key))
	return nil
}

func (r *recordingWriter) Delete(key []byte) error {
	r.ops = append(r.ops, "delete "+string(key))
	return nil
}
