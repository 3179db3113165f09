// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/database/corruptabledb"
	"github.com/ava-labs/evmindex/database/leveldb"
	"github.com/ava-labs/evmindex/database/memdb"
	"github.com/ava-labs/evmindex/database/meterdb"
	"github.com/ava-labs/evmindex/database/pebble"
	"github.com/ava-labs/evmindex/utils/logging"
)

const metricsPrefix = "db_"

type DatabaseConfig struct {
	// Path to the database directory. Ignored by memdb.
	Path string `json:"path"`

	// Name of the database type to use
	Name string `json:"name"`
}

// NewDatabase creates the engine named by [dbConfig] and wraps it with a
// corruptable DB and a meter DB. The meter DB registers its metrics on [reg]
// under the "db_" prefix.
func NewDatabase(
	dbConfig DatabaseConfig,
	reg prometheus.Registerer,
	log logging.Logger,
) (database.Database, error) {
	var (
		db  database.Database
		err error
	)
	switch dbConfig.Name {
	case leveldb.Name:
		path := filepath.Join(dbConfig.Path, leveldb.Name)
		db, err = leveldb.New(path, leveldb.DefaultConfig, log)
		if err != nil {
			return nil, fmt.Errorf("couldn't create %s at %s: %w", leveldb.Name, path, err)
		}
	case memdb.Name:
		db = memdb.New()
	case pebble.Name:
		path := filepath.Join(dbConfig.Path, pebble.Name)
		db, err = pebble.New(path, pebble.DefaultConfig, log)
		if err != nil {
			return nil, fmt.Errorf("couldn't create %s at %s: %w", pebble.Name, path, err)
		}
	default:
		return nil, fmt.Errorf(
			"db-type was %q but should have been one of {%s, %s, %s}",
			dbConfig.Name,
			leveldb.Name,
			memdb.Name,
			pebble.Name,
		)
	}

	// Wrap with corruptable DB
	db = corruptabledb.New(db)

	meterDB, err := meterdb.New(prometheus.WrapRegistererWithPrefix(metricsPrefix, reg), db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create meterdb: %w", err)
	}

	log.Info("created database",
		zap.String("type", dbConfig.Name),
		zap.String("path", dbConfig.Path),
	)
	return meterDB, nil
}
