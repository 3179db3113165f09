// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/api/health"
	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/chain/chaintest"
	"github.com/ava-labs/evmindex/config"
	"github.com/ava-labs/evmindex/database/factory"
	"github.com/ava-labs/evmindex/database/memdb"
	"github.com/ava-labs/evmindex/digest"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/indexer"
	"github.com/ava-labs/evmindex/mappingsync"
	"github.com/ava-labs/evmindex/utils/logging"
)

func newTestConfig(t *testing.T) config.Config {
	logConfig := logging.DefaultConfig(t.TempDir())
	logConfig.DisableWriterDisplaying = true
	return config.Config{
		DatabaseConfig: factory.DatabaseConfig{
			Name: memdb.Name,
		},
		LoggingConfig: logConfig,
		WorkerConfig: mappingsync.WorkerConfig{
			Limit:         4,
			RetryInterval: 10 * time.Millisecond,
		},
		HostRPCURL:      "http://127.0.0.1:9944",
		MaxSyncLag:      1,
		HealthCheckFreq: 10 * time.Millisecond,
		HTTPHost:        "127.0.0.1",
	}
}

func TestNodeIndexesHostChain(t *testing.T) {
	require := require.New(t)

	c := chaintest.New(chaintest.NewHeader(ids.Empty, chain.GenesisNumber))
	headers := c.Extend(10, func(uint64) []digest.Item {
		return []digest.Item{chaintest.LogItem(
			common.Hash(ids.GenerateTestID()),
			common.Hash(ids.GenerateTestID()),
		)}
	})

	logFactory := logging.NewFactory(newTestConfig(t).LoggingConfig)
	defer logFactory.Close()

	n, err := New(newTestConfig(t), logFactory, prometheus.NewRegistry(), c)
	require.NoError(err)
	require.NoError(n.Start())

	uri := "http://" + n.Addr().String()
	client := indexer.NewClient(uri)
	ctx := context.Background()

	require.Eventually(func() bool {
		checkpoint, synced, err := client.GetCheckpoint(ctx)
		return err == nil && synced && checkpoint.Hash == c.Tip().Hash
	}, 10*time.Second, 10*time.Millisecond)

	log, err := digest.FindLog(headers[4].Digest)
	require.NoError(err)
	hostHash, err := client.GetHostBlock(ctx, log.BlockHash)
	require.NoError(err)
	require.Equal(headers[4].Hash, hostHash)

	awaitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	healthy, err := health.AwaitHealthy(awaitCtx, health.NewClient(uri), 10*time.Millisecond)
	require.NoError(err)
	require.True(healthy)

	resp, err := http.Get(uri + MetricsEndpoint)
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.True(strings.Contains(string(body), "sync_blocks_synced"))
	require.True(strings.Contains(string(body), "db_calls"))

	require.NoError(n.Stop())
	exitCode, err := n.ExitCode()
	require.NoError(err)
	require.Zero(exitCode)
}
