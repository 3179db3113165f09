// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/database/columndb"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/logging"
)

// ErrNoExecutionContent is returned when looking up the execution block of a
// host block that was indexed as carrying no execution content.
var ErrNoExecutionContent = errors.New("host block has no execution content")

// MappingDB stores the mapping between host blocks and execution blocks and
// transactions.
//
// Writes are serialized by [lock]. WriteHashes reads and rewrites the record
// list of every transaction it indexes, so two unserialized writes touching
// the same transaction could drop a record. Reads don't take the lock.
type MappingDB struct {
	db  columndb.Database
	log logging.Logger

	lock sync.Mutex
}

// ExecBlockFor returns the execution block produced by the host block
// [hostHash]. Returns database.ErrNotFound if [hostHash] isn't indexed and
// ErrNoExecutionContent if it was indexed as empty.
func (m *MappingDB) ExecBlockFor(hostHash ids.ID) (common.Hash, error) {
	b, err := m.db.Get(HostBlockMappingColumn, hostHash[:])
	if err != nil {
		return common.Hash{}, fmt.Errorf("host block %s: %w", hostHash, err)
	}
	if len(b) == 0 {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrNoExecutionContent, hostHash)
	}
	return decodeHash[common.Hash](b, "host block mapping")
}

// IsKnownEmpty returns true if [hostHash] was indexed as carrying no execution
// content.
func (m *MappingDB) IsKnownEmpty(hostHash ids.ID) (bool, error) {
	b, err := m.db.Get(HostBlockMappingColumn, hostHash[:])
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(b) == 0, nil
}

// HostBlockFor returns the host block that produced the execution block
// [execHash]. The boolean is false if [execHash] isn't indexed.
func (m *MappingDB) HostBlockFor(execHash common.Hash) (ids.ID, bool, error) {
	b, err := m.db.Get(ExecBlockMappingColumn, execHash[:])
	if errors.Is(err, database.ErrNotFound) {
		return ids.Empty, false, nil
	}
	if err != nil {
		return ids.Empty, false, err
	}
	hostHash, err := decodeHash[ids.ID](b, "exec block mapping")
	return hostHash, err == nil, err
}

// ExecTransactionsOf returns the ordered transaction hashes of the execution
// block [execHash]. Returns an empty list if none are stored.
func (m *MappingDB) ExecTransactionsOf(execHash common.Hash) ([]common.Hash, error) {
	b, err := m.db.Get(ExecBlockTxMappingColumn, execHash[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeHashes[common.Hash](b, "exec block transactions")
}

// TransactionRecords returns every indexed location of the execution
// transaction [txHash]. Returns an empty list if none are stored.
func (m *MappingDB) TransactionRecords(txHash common.Hash) ([]TransactionRecord, error) {
	b, err := m.db.Get(TransactionMappingColumn, txHash[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecords(b)
}

// WriteHashes indexes the host block described by [c] in one commit. A record
// pointing at [c] is appended to the record list of every transaction of [c].
func (m *MappingDB) WriteHashes(c Commitment) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	tx := columndb.NewTransaction()
	tx.Set(ExecBlockMappingColumn, c.ExecBlockHash[:], encodeHash(c.HostHash))
	tx.Set(HostBlockMappingColumn, c.HostHash[:], encodeHash(c.ExecBlockHash))
	if len(c.ExecTxHashes) > 0 {
		tx.Set(ExecBlockTxMappingColumn, c.ExecBlockHash[:], encodeHashes(c.ExecTxHashes))
	}

	// A hash listed twice in [c] gets one record per position.
	pending := make(map[common.Hash][]TransactionRecord, len(c.ExecTxHashes))
	for i, txHash := range c.ExecTxHashes {
		records, ok := pending[txHash]
		if !ok {
			var err error
			records, err = m.TransactionRecords(txHash)
			if err != nil {
				return err
			}
		}
		pending[txHash] = append(records, TransactionRecord{
			HostHash:      c.HostHash,
			ExecBlockHash: c.ExecBlockHash,
			ExecIndex:     uint32(i),
		})
	}
	for _, txHash := range c.ExecTxHashes {
		records, ok := pending[txHash]
		if !ok {
			continue
		}
		tx.Set(TransactionMappingColumn, encodeHash(txHash), encodeRecords(records))
		delete(pending, txHash)
	}

	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("wrote mapping",
		zap.Stringer("hostHash", c.HostHash),
		zap.Stringer("execBlockHash", c.ExecBlockHash),
		zap.Int("numTxs", len(c.ExecTxHashes)),
	)
	return nil
}

// WriteEmpty indexes the host block [hostHash] as carrying no execution
// content.
func (m *MappingDB) WriteEmpty(hostHash ids.ID) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	tx := columndb.NewTransaction()
	tx.Set(HostBlockMappingColumn, encodeHash(hostHash), []byte{})
	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("wrote empty mapping",
		zap.Stringer("hostHash", hostHash),
	)
	return nil
}

// Rollback removes the index entries of the host block [hostHash]: the block
// mapping pair and the whole record list of each of its transactions. Returns
// database.ErrNotFound if [hostHash] isn't indexed.
//
// Record lists are keyed by transaction hash only. If a transaction hash is
// also indexed under another host block, that block's record is dropped too.
func (m *MappingDB) Rollback(hostHash ids.ID) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	b, err := m.db.Get(HostBlockMappingColumn, hostHash[:])
	if err != nil {
		return fmt.Errorf("rolling back host block %s: %w", hostHash, err)
	}

	tx := columndb.NewTransaction()
	tx.Remove(HostBlockMappingColumn, encodeHash(hostHash))
	if len(b) == 0 {
		if err := m.db.Commit(tx); err != nil {
			return err
		}
		m.log.Debug("rolled back empty mapping",
			zap.Stringer("hostHash", hostHash),
		)
		return nil
	}

	execHash, err := decodeHash[common.Hash](b, "host block mapping")
	if err != nil {
		return err
	}
	txHashes, err := m.ExecTransactionsOf(execHash)
	if err != nil {
		return err
	}
	for _, txHash := range txHashes {
		tx.Remove(TransactionMappingColumn, encodeHash(txHash))
	}
	tx.Remove(ExecBlockMappingColumn, encodeHash(execHash))
	if err := m.db.Commit(tx); err != nil {
		return err
	}

	m.log.Debug("rolled back mapping",
		zap.Stringer("hostHash", hostHash),
		zap.Stringer("execBlockHash", execHash),
		zap.Int("numTxs", len(txHashes)),
	)
	return nil
}
