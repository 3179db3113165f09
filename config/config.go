// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config reads the indexer configuration from flags, the environment
// and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ava-labs/evmindex/database/factory"
	"github.com/ava-labs/evmindex/mappingsync"
	"github.com/ava-labs/evmindex/utils/logging"
)

var (
	errInvalidSyncLimit     = errors.New("sync limit must be positive")
	errInvalidRetryInterval = errors.New("sync retry interval must be positive")
	errInvalidCheckFreq     = errors.New("health check frequency must be positive")
	errInvalidHostRPCURL    = errors.New("invalid host rpc url")
)

type Config struct {
	DatabaseConfig  factory.DatabaseConfig   `json:"databaseConfig"`
	LoggingConfig   logging.Config           `json:"loggingConfig"`
	WorkerConfig    mappingsync.WorkerConfig `json:"workerConfig"`
	HostRPCURL      string                   `json:"hostRPCURL"`
	MaxSyncLag      uint64                   `json:"maxSyncLag"`
	HealthCheckFreq time.Duration            `json:"healthCheckFreq"`
	HTTPHost        string                   `json:"httpHost"`
	HTTPPort        uint16                   `json:"httpPort"`
}

// GetConfig builds the indexer configuration from [v].
func GetConfig(v *viper.Viper) (Config, error) {
	dataDir, err := expandPath(v.GetString(DataDirKey))
	if err != nil {
		return Config{}, err
	}

	config := Config{
		MaxSyncLag: v.GetUint64(MaxSyncLagKey),
		HTTPHost:   v.GetString(HTTPHostKey),
		HTTPPort:   uint16(v.GetUint(HTTPPortKey)),
	}

	config.DatabaseConfig, err = getDatabaseConfig(v, dataDir)
	if err != nil {
		return Config{}, err
	}
	config.LoggingConfig, err = getLoggingConfig(v, dataDir)
	if err != nil {
		return Config{}, err
	}

	config.WorkerConfig = mappingsync.WorkerConfig{
		Limit:         v.GetInt(SyncLimitKey),
		RetryInterval: v.GetDuration(SyncRetryIntervalKey),
	}
	if config.WorkerConfig.Limit <= 0 {
		return Config{}, fmt.Errorf("%w: %d", errInvalidSyncLimit, config.WorkerConfig.Limit)
	}
	if config.WorkerConfig.RetryInterval <= 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidRetryInterval, config.WorkerConfig.RetryInterval)
	}

	config.HealthCheckFreq = v.GetDuration(HealthCheckFreqKey)
	if config.HealthCheckFreq <= 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidCheckFreq, config.HealthCheckFreq)
	}

	config.HostRPCURL = v.GetString(HostRPCURLKey)
	if _, err := url.ParseRequestURI(config.HostRPCURL); err != nil {
		return Config{}, fmt.Errorf("%w %q: %v", errInvalidHostRPCURL, config.HostRPCURL, err)
	}
	return config, nil
}

func getDatabaseConfig(v *viper.Viper, dataDir string) (factory.DatabaseConfig, error) {
	path := filepath.Join(dataDir, "db")
	if v.IsSet(DBDirKey) {
		var err error
		path, err = expandPath(v.GetString(DBDirKey))
		if err != nil {
			return factory.DatabaseConfig{}, err
		}
	}
	return factory.DatabaseConfig{
		Name: v.GetString(DBTypeKey),
		Path: path,
	}, nil
}

func getLoggingConfig(v *viper.Viper, dataDir string) (logging.Config, error) {
	dir := filepath.Join(dataDir, "logs")
	if v.IsSet(LogsDirKey) {
		var err error
		dir, err = expandPath(v.GetString(LogsDirKey))
		if err != nil {
			return logging.Config{}, err
		}
	}

	config := logging.DefaultConfig(dir)
	var err error
	config.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return logging.Config{}, err
	}
	config.DisplayLevel = config.LogLevel
	if v.IsSet(LogDisplayLevelKey) {
		config.DisplayLevel, err = logging.ToLevel(v.GetString(LogDisplayLevelKey))
		if err != nil {
			return logging.Config{}, err
		}
	}
	config.DisableWriterDisplaying = v.GetBool(LogDisableDisplayKey)
	return config, nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("couldn't expand %q: %w", path, err)
	}
	return expanded, nil
}
