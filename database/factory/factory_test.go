// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/database/leveldb"
	"github.com/ava-labs/evmindex/database/memdb"
	"github.com/ava-labs/evmindex/database/pebble"
	"github.com/ava-labs/evmindex/utils/logging"
)

func TestNewDatabase(t *testing.T) {
	for _, name := range []string{memdb.Name, leveldb.Name, pebble.Name} {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			db, err := NewDatabase(
				DatabaseConfig{
					Name: name,
					Path: t.TempDir(),
				},
				prometheus.NewRegistry(),
				logging.NoLog{},
			)
			require.NoError(err)

			require.NoError(db.Put([]byte("key"), []byte("value")))
			value, err := db.Get([]byte("key"))
			require.NoError(err)
			require.Equal([]byte("value"), value)
			require.NoError(db.Close())
		})
	}
}

func TestNewDatabaseUnknownType(t *testing.T) {
	_, err := NewDatabase(
		DatabaseConfig{Name: "rocksdb"},
		prometheus.NewRegistry(),
		logging.NoLog{},
	)
	require.ErrorContains(t, err, "rocksdb")
}
