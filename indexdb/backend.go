// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package indexdb persists the index between host chain blocks and the
// execution layer's blocks and transactions.
package indexdb

import (
	"context"

	"github.com/ava-labs/evmindex/database/columndb"
	"github.com/ava-labs/evmindex/utils/logging"
)

// Backend groups the two stores sharing one column database.
type Backend struct {
	Meta    *MetaDB
	Mapping *MappingDB

	db columndb.Database
}

func New(db columndb.Database, log logging.Logger) *Backend {
	return &Backend{
		Meta: &MetaDB{
			db:  db,
			log: log,
		},
		Mapping: &MappingDB{
			db:  db,
			log: log,
		},
		db: db,
	}
}

func (b *Backend) HealthCheck(ctx context.Context) (interface{}, error) {
	return b.db.HealthCheck(ctx)
}

func (b *Backend) Close() error {
	return b.db.Close()
}
