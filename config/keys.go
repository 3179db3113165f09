// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	ConfigFileKey        = "config-file"
	DataDirKey           = "data-dir"
	DBTypeKey            = "db-type"
	DBDirKey             = "db-dir"
	LogLevelKey          = "log-level"
	LogDisplayLevelKey   = "log-display-level"
	LogsDirKey           = "log-dir"
	LogDisableDisplayKey = "log-disable-display"
	HostRPCURLKey        = "host-rpc-url"
	SyncLimitKey         = "sync-limit"
	SyncRetryIntervalKey = "sync-retry-interval"
	MaxSyncLagKey        = "max-sync-lag"
	HealthCheckFreqKey   = "health-check-frequency"
	HTTPHostKey          = "http-host"
	HTTPPortKey          = "http-port"
)
