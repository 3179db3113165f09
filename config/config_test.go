// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/database/memdb"
	"github.com/ava-labs/evmindex/database/pebble"
	"github.com/ava-labs/evmindex/mappingsync"
	"github.com/ava-labs/evmindex/utils/logging"
)

func getConfig(t *testing.T, args ...string) (Config, error) {
	v, err := BuildViper(BuildFlagSet(), args)
	require.NoError(t, err)
	return GetConfig(v)
}

func TestDefaults(t *testing.T) {
	require := require.New(t)

	config, err := getConfig(t)
	require.NoError(err)

	require.Equal(pebble.Name, config.DatabaseConfig.Name)
	require.True(strings.HasSuffix(config.DatabaseConfig.Path, filepath.Join(".evmindex", "db")))
	require.False(strings.HasPrefix(config.DatabaseConfig.Path, "~"))
	require.True(strings.HasSuffix(config.LoggingConfig.Directory, filepath.Join(".evmindex", "logs")))
	require.Equal(logging.Info, config.LoggingConfig.LogLevel)
	require.Equal(logging.Info, config.LoggingConfig.DisplayLevel)
	require.Equal(mappingsync.WorkerConfig{
		Limit:         mappingsync.DefaultSyncLimit,
		RetryInterval: mappingsync.DefaultRetryInterval,
	}, config.WorkerConfig)
	require.Equal(uint16(9660), config.HTTPPort)
}

func TestFlags(t *testing.T) {
	require := require.New(t)

	dataDir := t.TempDir()
	config, err := getConfig(t,
		"--data-dir="+dataDir,
		"--db-type="+memdb.Name,
		"--log-level=debug",
		"--log-display-level=warn",
		"--sync-limit=3",
		"--sync-retry-interval=1s",
		"--max-sync-lag=7",
		"--host-rpc-url=ws://node:9944",
		"--http-port=1234",
	)
	require.NoError(err)

	require.Equal(memdb.Name, config.DatabaseConfig.Name)
	require.Equal(filepath.Join(dataDir, "db"), config.DatabaseConfig.Path)
	require.Equal(filepath.Join(dataDir, "logs"), config.LoggingConfig.Directory)
	require.Equal(logging.Debug, config.LoggingConfig.LogLevel)
	require.Equal(logging.Warn, config.LoggingConfig.DisplayLevel)
	require.Equal(3, config.WorkerConfig.Limit)
	require.Equal(time.Second, config.WorkerConfig.RetryInterval)
	require.Equal(uint64(7), config.MaxSyncLag)
	require.Equal("ws://node:9944", config.HostRPCURL)
	require.Equal(uint16(1234), config.HTTPPort)
}

func TestEnv(t *testing.T) {
	require := require.New(t)

	dbDir := t.TempDir()
	t.Setenv("EVMINDEX_DB_DIR", dbDir)
	t.Setenv("EVMINDEX_SYNC_LIMIT", "11")

	config, err := getConfig(t)
	require.NoError(err)
	require.Equal(dbDir, config.DatabaseConfig.Path)
	require.Equal(11, config.WorkerConfig.Limit)
}

func TestConfigFile(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"sync-limit": 5, "db-type": "leveldb"}`), 0o600))

	config, err := getConfig(t, "--config-file="+path, "--sync-limit=6")
	require.NoError(err)
	require.Equal("leveldb", config.DatabaseConfig.Name)
	// Flags take precedence over the config file.
	require.Equal(6, config.WorkerConfig.Limit)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr error
	}{
		{
			name:        "zero sync limit",
			args:        []string{"--sync-limit=0"},
			expectedErr: errInvalidSyncLimit,
		},
		{
			name:        "zero retry interval",
			args:        []string{"--sync-retry-interval=0s"},
			expectedErr: errInvalidRetryInterval,
		},
		{
			name:        "zero health check frequency",
			args:        []string{"--health-check-frequency=0s"},
			expectedErr: errInvalidCheckFreq,
		},
		{
			name:        "relative host url",
			args:        []string{"--host-rpc-url=node"},
			expectedErr: errInvalidHostRPCURL,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := getConfig(t, test.args...)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := getConfig(t, "--log-level=loud")
	require.Error(t, err)
}

func TestUnknownFlag(t *testing.T) {
	_, err := BuildViper(BuildFlagSet(), []string{"--unknown"})
	require.Error(t, err)
}
