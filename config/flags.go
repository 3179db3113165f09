// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/evmindex/database/pebble"
	"github.com/ava-labs/evmindex/mappingsync"
)

// EnvPrefix is prepended to every key read from the environment, e.g.
// EVMINDEX_DB_TYPE.
const EnvPrefix = "evmindex"

var defaultDataDir = filepath.Join("~", ".evmindex")

// BuildFlagSet returns the flags of the indexer.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("evmindex", pflag.ContinueOnError)

	fs.String(ConfigFileKey, "", "Specifies a config file")
	fs.String(DataDirKey, defaultDataDir, "Sets the base data directory where default sub-directories will be placed unless otherwise specified.")

	// Database
	fs.String(DBTypeKey, pebble.Name, "Database type to use. Must be one of {leveldb, memdb, pebbledb}")
	fs.String(DBDirKey, "", "Path to database directory. Defaults to the db sub-directory of the data directory")

	// Logging
	fs.String(LogsDirKey, "", "Logging directory. Defaults to the logs sub-directory of the data directory")
	fs.String(LogLevelKey, "info", "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", "The log display level. If left blank, will inherit the value of log-level. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.Bool(LogDisableDisplayKey, false, "Disables displaying logs on stdout")

	// Host chain
	fs.String(HostRPCURLKey, "http://127.0.0.1:9944", "JSON-RPC endpoint of the host chain node")

	// Sync
	fs.Int(SyncLimitKey, mappingsync.DefaultSyncLimit, "Number of sync steps taken per round")
	fs.Duration(SyncRetryIntervalKey, mappingsync.DefaultRetryInterval, "Time to wait for a new host block before starting another sync round")
	fs.Uint64(MaxSyncLagKey, 32, "Number of host blocks the index may trail the host chain by before it is reported unhealthy")

	// HTTP
	fs.Duration(HealthCheckFreqKey, 30*time.Second, "Time between health checks")
	fs.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint16(HTTPPortKey, 9660, "Port of the HTTP server")

	return fs
}

// BuildViper parses [args] into [fs] and returns the viper environment built
// from the flags, the environment and the optional config file.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if v.IsSet(ConfigFileKey) {
		path, err := expandPath(v.GetString(ConfigFileKey))
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}
