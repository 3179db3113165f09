// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ava-labs/evmindex/app"
	"github.com/ava-labs/evmindex/chain/rpcchain"
	"github.com/ava-labs/evmindex/config"
	"github.com/ava-labs/evmindex/node"
	"github.com/ava-labs/evmindex/utils/logging"
)

func main() {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Printf("couldn't configure flags: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.GetConfig(v)
	if err != nil {
		fmt.Printf("couldn't load config: %s\n", err)
		os.Exit(1)
	}

	logFactory := logging.NewFactory(cfg.LoggingConfig)
	os.Exit(run(cfg, logFactory))
}

func run(cfg config.Config, logFactory logging.Factory) int {
	defer logFactory.Close()

	log, err := logFactory.Make("host")
	if err != nil {
		fmt.Printf("couldn't create logger: %s\n", err)
		return 1
	}

	registry := prometheus.NewRegistry()
	client, err := rpcchain.Dial(context.Background(), cfg.HostRPCURL, log, registry)
	if err != nil {
		log.Fatal("couldn't connect to the host chain",
			zap.String("url", cfg.HostRPCURL),
			zap.Error(err),
		)
		return 1
	}
	defer client.Close()

	n, err := node.New(cfg, logFactory, registry, client)
	if err != nil {
		log.Fatal("couldn't start indexer",
			zap.Error(err),
		)
		return 1
	}
	return app.Run(n)
}
