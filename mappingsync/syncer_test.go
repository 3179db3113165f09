// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mappingsync

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/chain/chaintest"
	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/database/columndb"
	"github.com/ava-labs/evmindex/database/memdb"
	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/utils/logging"
)

// countingDB counts the commits that reach the column database. Commits fail
// with [commitErr] when it is set.
type countingDB struct {
	columndb.Database
	commits   int
	commitErr error
}

func (c *countingDB) Commit(tx *columndb.Transaction) error {
	c.commits++
	if c.commitErr != nil {
		return c.commitErr
	}
	return c.Database.Commit(tx)
}

type testEnv struct {
	syncer  *Syncer
	backend *indexdb.Backend
	db      *countingDB
}

func newTestEnv(t *testing.T, client chain.Client) *testEnv {
	db := &countingDB{Database: columndb.New(memdb.New())}
	backend := indexdb.New(db, logging.NoLog{})
	syncer, err := New(Config{
		Client:     client,
		Backend:    backend,
		Log:        logging.NoLog{},
		Registerer: prometheus.NewRegistry(),
		MaxLag:     2,
	})
	require.NoError(t, err)
	return &testEnv{
		syncer:  syncer,
		backend: backend,
		db:      db,
	}
}

func newTestChain() *chaintest.Chain {
	return chaintest.New(chaintest.NewHeader(ids.Empty, chain.GenesisNumber))
}

// execItems returns a log for a fresh execution block with one transaction.
func execItems(uint64) []digest.Item {
	return []digest.Item{chaintest.LogItem(
		common.Hash(ids.GenerateTestID()),
		common.Hash(ids.GenerateTestID()),
	)}
}

func requireCheckpoint(t *testing.T, backend *indexdb.Backend, header *chain.Header) {
	checkpoint, ok, err := backend.Meta.Checkpoint()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, indexdb.Checkpoint{Hash: header.Hash, Number: header.Number}, checkpoint)
}

func requireIndexed(t *testing.T, backend *indexdb.Backend, header *chain.Header) {
	require := require.New(t)

	log, err := digest.FindLog(header.Digest)
	require.NoError(err)

	execHash, err := backend.Mapping.ExecBlockFor(header.Hash)
	require.NoError(err)
	require.Equal(log.BlockHash, execHash)

	hostHash, ok, err := backend.Mapping.HostBlockFor(log.BlockHash)
	require.NoError(err)
	require.True(ok)
	require.Equal(header.Hash, hostHash)

	for i, txHash := range log.TransactionHashes {
		records, err := backend.Mapping.TransactionRecords(txHash)
		require.NoError(err)
		require.Equal([]indexdb.TransactionRecord{{
			HostHash:      header.Hash,
			ExecBlockHash: log.BlockHash,
			ExecIndex:     uint32(i),
		}}, records)
	}
}

func requireNotIndexed(t *testing.T, backend *indexdb.Backend, header *chain.Header) {
	require := require.New(t)

	log, err := digest.FindLog(header.Digest)
	require.NoError(err)

	_, err = backend.Mapping.ExecBlockFor(header.Hash)
	require.ErrorIs(err, database.ErrNotFound)

	_, ok, err := backend.Mapping.HostBlockFor(log.BlockHash)
	require.NoError(err)
	require.False(ok)
}

func TestSyncGenesisWithoutEVM(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	env := newTestEnv(t, c)
	genesis := c.Tip()

	synced, err := env.syncer.SyncOneStep(context.Background())
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, genesis)

	empty, err := env.backend.Mapping.IsKnownEmpty(genesis.Hash)
	require.NoError(err)
	require.True(empty)

	_, err = env.backend.Mapping.ExecBlockFor(genesis.Hash)
	require.ErrorIs(err, indexdb.ErrNoExecutionContent)
	require.Equal(1.0, testutil.ToFloat64(env.syncer.metrics.emptyBlocks))
}

func TestSyncGenesisWithEVM(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	genesis := c.Tip()
	execGenesis := common.Hash(ids.GenerateTestID())
	c.EnableEVM(genesis.Hash, &execGenesis)
	env := newTestEnv(t, c)

	synced, err := env.syncer.SyncOneStep(context.Background())
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, genesis)

	execHash, err := env.backend.Mapping.ExecBlockFor(genesis.Hash)
	require.NoError(err)
	require.Equal(execGenesis, execHash)

	txHashes, err := env.backend.Mapping.ExecTransactionsOf(execGenesis)
	require.NoError(err)
	require.Empty(txHashes)
}

func TestSyncGenesisMissingExecGenesis(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	c.EnableEVM(c.Tip().Hash, nil)
	env := newTestEnv(t, c)

	synced, err := env.syncer.SyncOneStep(context.Background())
	require.ErrorIs(err, ErrMissingExecGenesis)
	require.False(synced)

	_, ok, err := env.backend.Meta.Checkpoint()
	require.NoError(err)
	require.False(ok)
	require.Equal(1.0, testutil.ToFloat64(env.syncer.metrics.syncErrors))
}

// A genesis header carrying a log must still take the genesis path.
func TestSyncGenesisIgnoresLog(t *testing.T) {
	require := require.New(t)

	genesis := chaintest.NewHeader(ids.Empty, chain.GenesisNumber, execItems(0)...)
	c := chaintest.New(genesis)
	env := newTestEnv(t, c)

	synced, err := env.syncer.SyncOneStep(context.Background())
	require.NoError(err)
	require.True(synced)

	empty, err := env.backend.Mapping.IsKnownEmpty(genesis.Hash)
	require.NoError(err)
	require.True(empty)
}

func TestSyncBlocks(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	headers := c.Extend(3, execItems)
	env := newTestEnv(t, c)

	synced, err := env.syncer.SyncUpTo(context.Background(), 10)
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, c.Tip())

	for _, header := range headers {
		requireIndexed(t, env.backend, header)

		hash, err := env.backend.Meta.HashAt(header.Number)
		require.NoError(err)
		require.Equal(header.Hash, hash)
	}
	require.Equal(4.0, testutil.ToFloat64(env.syncer.metrics.blocksSynced))
	require.Equal(3.0, testutil.ToFloat64(env.syncer.metrics.checkpointHeight))
}

func TestSyncBlockWithoutLog(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	headers := c.Extend(1, nil)
	env := newTestEnv(t, c)

	_, err := env.syncer.SyncUpTo(context.Background(), 2)
	require.NoError(err)
	requireCheckpoint(t, env.backend, headers[0])

	empty, err := env.backend.Mapping.IsKnownEmpty(headers[0].Hash)
	require.NoError(err)
	require.True(empty)
}

func TestEmptyBlocksCountedOnlyWhenWritten(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	headers := c.Extend(1, nil)
	env := newTestEnv(t, c)

	errCommit := errors.New("commit failed")
	env.db.commitErr = errCommit
	require.ErrorIs(env.syncer.SyncGenesis(context.Background(), c.Genesis()), errCommit)
	require.ErrorIs(env.syncer.SyncBlock(headers[0]), errCommit)
	require.Zero(testutil.ToFloat64(env.syncer.metrics.emptyBlocks))

	env.db.commitErr = nil
	require.NoError(env.syncer.SyncGenesis(context.Background(), c.Genesis()))
	require.NoError(env.syncer.SyncBlock(headers[0]))
	require.Equal(2.0, testutil.ToFloat64(env.syncer.metrics.emptyBlocks))
}

func TestSyncBlockAmbiguousLog(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	c.Extend(1, func(number uint64) []digest.Item {
		return append(execItems(number), execItems(number)...)
	})
	env := newTestEnv(t, c)

	synced, err := env.syncer.SyncUpTo(context.Background(), 5)
	require.ErrorIs(err, digest.ErrMultipleLogs)
	require.True(synced)

	// Only genesis made it in.
	requireCheckpoint(t, env.backend, c.Genesis())
}

func TestSyncUpToNoProgress(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	c.Extend(2, execItems)
	env := newTestEnv(t, c)

	_, err := env.syncer.SyncUpTo(context.Background(), 3)
	require.NoError(err)
	requireCheckpoint(t, env.backend, c.Tip())

	commits := env.db.commits
	for _, limit := range []int{0, 1, 5} {
		synced, err := env.syncer.SyncUpTo(context.Background(), limit)
		require.NoError(err)
		require.False(synced)
	}
	require.Equal(commits, env.db.commits)
}

func TestSyncUpToCallsLimitTimes(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	genesis := chaintest.NewHeader(ids.Empty, chain.GenesisNumber)
	client := chain.NewMockClient(ctrl)
	env := newTestEnv(t, client)
	require.NoError(env.backend.Mapping.WriteEmpty(genesis.Hash))
	require.NoError(env.backend.Meta.SetCheckpoint(genesis.Hash, genesis.Number))

	// Every step reconciles the checkpoint and then finds nothing to sync.
	const limit = 4
	client.EXPECT().HeaderByNumber(gomock.Any(), chain.GenesisNumber).Return(genesis, nil).Times(limit)
	client.EXPECT().BestNumber(gomock.Any()).Return(chain.GenesisNumber, nil).Times(limit)

	synced, err := env.syncer.SyncUpTo(context.Background(), limit)
	require.NoError(err)
	require.False(synced)
}

func TestRuntimeQueriedOnlyAtGenesis(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	genesis := chaintest.NewHeader(ids.Empty, chain.GenesisNumber)
	block := chaintest.NewHeader(genesis.Hash, 1, execItems(1)...)
	execGenesis := common.Hash(ids.GenerateTestID())

	client := chain.NewMockClient(ctrl)
	env := newTestEnv(t, client)

	gomock.InOrder(
		client.EXPECT().HeaderByNumber(gomock.Any(), chain.GenesisNumber).Return(genesis, nil),
		client.EXPECT().HasEVMAPI(gomock.Any(), genesis.Hash).Return(true, nil),
		client.EXPECT().CurrentEVMBlockHash(gomock.Any(), genesis.Hash).Return(execGenesis, nil),
	)
	synced, err := env.syncer.SyncOneStep(context.Background())
	require.NoError(err)
	require.True(synced)

	// Later blocks are read from their consensus log only.
	gomock.InOrder(
		client.EXPECT().HeaderByNumber(gomock.Any(), chain.GenesisNumber).Return(genesis, nil),
		client.EXPECT().BestNumber(gomock.Any()).Return(uint64(1), nil),
		client.EXPECT().HeaderByNumber(gomock.Any(), uint64(1)).Return(block, nil),
	)
	synced, err = env.syncer.SyncOneStep(context.Background())
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, block)
	requireIndexed(t, env.backend, block)
}

func TestSyncUpToStopsOnError(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	errTest := errors.New("non-nil error")
	genesis := chaintest.NewHeader(ids.Empty, chain.GenesisNumber)
	client := chain.NewMockClient(ctrl)
	env := newTestEnv(t, client)
	require.NoError(env.backend.Mapping.WriteEmpty(genesis.Hash))
	require.NoError(env.backend.Meta.SetCheckpoint(genesis.Hash, genesis.Number))

	client.EXPECT().HeaderByNumber(gomock.Any(), chain.GenesisNumber).Return(genesis, nil).Times(1)
	client.EXPECT().BestNumber(gomock.Any()).Return(uint64(0), errTest).Times(1)

	_, err := env.syncer.SyncUpTo(context.Background(), 10)
	require.ErrorIs(err, errTest)
}

func TestSyncMissingHeader(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	genesis := chaintest.NewHeader(ids.Empty, chain.GenesisNumber)
	client := chain.NewMockClient(ctrl)
	env := newTestEnv(t, client)
	require.NoError(env.backend.Mapping.WriteEmpty(genesis.Hash))
	require.NoError(env.backend.Meta.SetCheckpoint(genesis.Hash, genesis.Number))

	client.EXPECT().HeaderByNumber(gomock.Any(), chain.GenesisNumber).Return(genesis, nil)
	client.EXPECT().BestNumber(gomock.Any()).Return(uint64(1), nil)
	client.EXPECT().HeaderByNumber(gomock.Any(), uint64(1)).Return(nil, chain.ErrUnknownBlock)

	synced, err := env.syncer.SyncOneStep(context.Background())
	require.ErrorIs(err, ErrMissingHeader)
	require.False(synced)
	requireCheckpoint(t, env.backend, genesis)
}

func TestReorgConvergence(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	old := c.Extend(6, execItems)
	env := newTestEnv(t, c)

	// Index up to block 5, one below the tip.
	_, err := env.syncer.SyncUpTo(context.Background(), 6)
	require.NoError(err)
	requireCheckpoint(t, env.backend, old[4])

	// Replace blocks 4 to 6.
	h3 := old[2]
	h4 := chaintest.NewHeader(h3.Hash, 4, execItems(4)...)
	h5 := chaintest.NewHeader(h4.Hash, 5, execItems(5)...)
	h6 := chaintest.NewHeader(h5.Hash, 6, execItems(6)...)
	require.NoError(c.Reorg(4, h4, h5, h6))

	require.NoError(env.syncer.ReconcileWithCanonical(context.Background()))
	requireCheckpoint(t, env.backend, h3)
	requireIndexed(t, env.backend, h3)
	requireNotIndexed(t, env.backend, old[3])
	requireNotIndexed(t, env.backend, old[4])
	require.Equal(2.0, testutil.ToFloat64(env.syncer.metrics.blocksRolledBack))

	_, err = env.backend.Meta.HashAt(5)
	require.ErrorIs(err, database.ErrNotFound)

	// Reconciling again is a no-op.
	commits := env.db.commits
	require.NoError(env.syncer.ReconcileWithCanonical(context.Background()))
	require.Equal(commits, env.db.commits)

	synced, err := env.syncer.SyncUpTo(context.Background(), 5)
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, h6)
	for _, header := range []*chain.Header{h4, h5, h6} {
		requireIndexed(t, env.backend, header)
	}
}

func TestReorgAcrossEmptyBlocks(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	old := c.Extend(2, nil)
	env := newTestEnv(t, c)

	_, err := env.syncer.SyncUpTo(context.Background(), 3)
	require.NoError(err)
	requireCheckpoint(t, env.backend, old[1])

	h1 := chaintest.NewHeader(c.Genesis().Hash, 1)
	h2 := chaintest.NewHeader(h1.Hash, 2)
	require.NoError(c.Reorg(1, h1, h2))

	synced, err := env.syncer.SyncUpTo(context.Background(), 3)
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, h2)

	for _, header := range old {
		empty, err := env.backend.Mapping.IsKnownEmpty(header.Hash)
		require.NoError(err)
		require.False(empty)
	}
}

func TestRollbackLastBlock(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	headers := c.Extend(1, execItems)
	env := newTestEnv(t, c)

	_, err := env.syncer.SyncUpTo(context.Background(), 2)
	require.NoError(err)

	require.NoError(env.syncer.RollbackLastBlock())
	requireCheckpoint(t, env.backend, c.Genesis())
	requireNotIndexed(t, env.backend, headers[0])

	// Rolling back genesis leaves nothing indexed.
	require.NoError(env.syncer.RollbackLastBlock())
	_, ok, err := env.backend.Meta.Checkpoint()
	require.NoError(err)
	require.False(ok)
	_, err = env.backend.Meta.HashAt(chain.GenesisNumber)
	require.ErrorIs(err, database.ErrNotFound)

	require.ErrorIs(env.syncer.RollbackLastBlock(), ErrNoCheckpoint)
	require.Equal(0.0, testutil.ToFloat64(env.syncer.metrics.checkpointHeight))
}

func TestReorgDownToGenesis(t *testing.T) {
	require := require.New(t)

	// Start indexing a chain whose genesis the host chain later disowns.
	other := newTestChain()
	orphans := other.Extend(2, execItems)
	env := newTestEnv(t, other)
	_, err := env.syncer.SyncUpTo(context.Background(), 3)
	require.NoError(err)
	requireCheckpoint(t, env.backend, orphans[1])

	// The replacement chain has a header at every indexed height, none of
	// which match.
	c := newTestChain()
	c.Extend(2, execItems)
	env.syncer.client = c
	require.NoError(env.syncer.ReconcileWithCanonical(context.Background()))

	_, ok, err := env.backend.Meta.Checkpoint()
	require.NoError(err)
	require.False(ok)
	for _, header := range orphans {
		requireNotIndexed(t, env.backend, header)
	}
	require.Equal(3.0, testutil.ToFloat64(env.syncer.metrics.blocksRolledBack))

	// Indexing restarts from the new genesis.
	synced, err := env.syncer.SyncOneStep(context.Background())
	require.NoError(err)
	require.True(synced)
	requireCheckpoint(t, env.backend, c.Genesis())
}

func TestReconcileAboveBestNumber(t *testing.T) {
	require := require.New(t)

	other := newTestChain()
	other.Extend(3, execItems)
	env := newTestEnv(t, other)
	_, err := env.syncer.SyncUpTo(context.Background(), 4)
	require.NoError(err)

	// The host chain is shorter than the checkpoint.
	env.syncer.client = newTestChain()
	commits := env.db.commits
	require.NoError(env.syncer.ReconcileWithCanonical(context.Background()))
	require.Equal(commits, env.db.commits)
	requireCheckpoint(t, env.backend, other.Tip())
}

func TestHealthCheck(t *testing.T) {
	require := require.New(t)

	c := newTestChain()
	env := newTestEnv(t, c)

	_, err := env.syncer.HealthCheck(context.Background())
	require.ErrorIs(err, errNotSynced)

	_, err = env.syncer.SyncUpTo(context.Background(), 1)
	require.NoError(err)
	_, err = env.syncer.HealthCheck(context.Background())
	require.NoError(err)

	c.Extend(3, execItems)
	details, err := env.syncer.HealthCheck(context.Background())
	require.ErrorIs(err, errLagging)
	require.Equal(uint64(3), details.(map[string]interface{})["lag"])
}
