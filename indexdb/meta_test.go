// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/database/columndb"
	"github.com/ava-labs/evmindex/database/memdb"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/logging"
)

func newTestBackend() *Backend {
	return New(columndb.New(memdb.New()), logging.NoLog{})
}

func TestCheckpoint(t *testing.T) {
	require := require.New(t)

	meta := newTestBackend().Meta

	_, ok, err := meta.Checkpoint()
	require.NoError(err)
	require.False(ok)

	hash := ids.GenerateTestID()
	require.NoError(meta.SetCheckpoint(hash, 5))

	c, ok, err := meta.Checkpoint()
	require.NoError(err)
	require.True(ok)
	require.Equal(Checkpoint{Hash: hash, Number: 5}, c)

	hashAt, err := meta.HashAt(5)
	require.NoError(err)
	require.Equal(hash, hashAt)

	require.NoError(meta.ClearCheckpoint())
	_, ok, err = meta.Checkpoint()
	require.NoError(err)
	require.False(ok)

	// Clearing the checkpoint doesn't touch the number index.
	hashAt, err = meta.HashAt(5)
	require.NoError(err)
	require.Equal(hash, hashAt)

	require.NoError(meta.ForgetIndexEntry(5))
	_, err = meta.HashAt(5)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestCheckpointReplacedWholesale(t *testing.T) {
	require := require.New(t)

	meta := newTestBackend().Meta

	first := ids.GenerateTestID()
	second := ids.GenerateTestID()
	require.NoError(meta.SetCheckpoint(first, 1))
	require.NoError(meta.SetCheckpoint(second, 2))

	c, ok, err := meta.Checkpoint()
	require.NoError(err)
	require.True(ok)
	require.Equal(Checkpoint{Hash: second, Number: 2}, c)

	hashAt, err := meta.HashAt(1)
	require.NoError(err)
	require.Equal(first, hashAt)
}

func TestCorruptCheckpoint(t *testing.T) {
	require := require.New(t)

	db := columndb.New(memdb.New())
	meta := New(db, logging.NoLog{}).Meta

	tx := columndb.NewTransaction()
	tx.Set(MetaColumn, checkpointKey, []byte{1, 2, 3})
	require.NoError(db.Commit(tx))

	_, ok, err := meta.Checkpoint()
	require.ErrorIs(err, ErrDecode)
	require.False(ok)
}

func TestPendingTips(t *testing.T) {
	require := require.New(t)

	meta := newTestBackend().Meta

	tips, err := meta.PendingTips()
	require.NoError(err)
	require.Empty(tips)

	expected := []ids.ID{ids.GenerateTestID(), ids.GenerateTestID()}
	require.NoError(meta.SetPendingTips(expected))

	tips, err = meta.PendingTips()
	require.NoError(err)
	require.Equal(expected, tips)

	require.NoError(meta.SetPendingTips(nil))
	tips, err = meta.PendingTips()
	require.NoError(err)
	require.Empty(tips)
}
