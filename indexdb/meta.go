// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/database/columndb"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/logging"
)

// MetaDB stores the checkpoint, the number to hash index of indexed host
// blocks and the pending tips. Every method is a single atomic commit.
type MetaDB struct {
	db  columndb.Database
	log logging.Logger
}

// PendingTips returns the host blocks currently being tracked. Returns an
// empty list if the tips were never set.
func (m *MetaDB) PendingTips() ([]ids.ID, error) {
	b, err := m.db.Get(MetaColumn, pendingTipsKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeHashes[ids.ID](b, "pending tips")
}

func (m *MetaDB) SetPendingTips(tips []ids.ID) error {
	tx := columndb.NewTransaction()
	tx.Set(MetaColumn, pendingTipsKey, encodeHashes(tips))
	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("wrote pending tips",
		zap.Int("numTips", len(tips)),
	)
	return nil
}

// Checkpoint returns the last indexed host block. The boolean is false if
// nothing has been indexed.
func (m *MetaDB) Checkpoint() (Checkpoint, bool, error) {
	b, err := m.db.Get(MetaColumn, checkpointKey)
	if errors.Is(err, database.ErrNotFound) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		return Checkpoint{}, false, err
	}
	c, err := decodeCheckpoint(b)
	return c, err == nil, err
}

// SetCheckpoint moves the checkpoint to ([hash], [number]) and records [hash]
// as the indexed block at [number] in the same commit.
func (m *MetaDB) SetCheckpoint(hash ids.ID, number uint64) error {
	tx := columndb.NewTransaction()
	tx.Set(MetaColumn, checkpointKey, encodeCheckpoint(Checkpoint{
		Hash:   hash,
		Number: number,
	}))
	tx.Set(BlockNumberMappingColumn, encodeNumber(number), encodeHash(hash))
	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("wrote checkpoint",
		zap.Stringer("hash", hash),
		zap.Uint64("number", number),
	)
	return nil
}

// HashAt returns the host hash indexed at [number]. Returns
// database.ErrNotFound if no block is indexed at [number].
func (m *MetaDB) HashAt(number uint64) (ids.ID, error) {
	b, err := m.db.Get(BlockNumberMappingColumn, encodeNumber(number))
	if err != nil {
		return ids.Empty, fmt.Errorf("hash at %d: %w", number, err)
	}
	return decodeHash[ids.ID](b, "block number mapping")
}

// ClearCheckpoint removes the checkpoint. Number index entries are left
// untouched.
func (m *MetaDB) ClearCheckpoint() error {
	tx := columndb.NewTransaction()
	tx.Remove(MetaColumn, checkpointKey)
	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("cleared checkpoint")
	return nil
}

// ForgetIndexEntry removes the number index entry of a rolled back block.
func (m *MetaDB) ForgetIndexEntry(number uint64) error {
	tx := columndb.NewTransaction()
	tx.Remove(BlockNumberMappingColumn, encodeNumber(number))
	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("forgot index entry",
		zap.Uint64("number", number),
	)
	return nil
}
