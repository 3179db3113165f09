// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node wires the index, the sync driver and the HTTP APIs into one
// process.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/evmindex/api/health"
	"github.com/ava-labs/evmindex/app"
	"github.com/ava-labs/evmindex/chain"
	"github.com/ava-labs/evmindex/config"
	"github.com/ava-labs/evmindex/database/columndb"
	"github.com/ava-labs/evmindex/database/factory"
	"github.com/ava-labs/evmindex/indexdb"
	"github.com/ava-labs/evmindex/indexer"
	"github.com/ava-labs/evmindex/mappingsync"
	"github.com/ava-labs/evmindex/utils/logging"
	"github.com/ava-labs/evmindex/utils/wrappers"
)

const (
	HealthEndpoint  = "/ext/health"
	MetricsEndpoint = "/ext/metrics"

	headPollFrequency = time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var _ app.App = (*Node)(nil)

// Node is the indexer process.
type Node struct {
	Config     config.Config
	Log        logging.Logger
	LogFactory logging.Factory

	registry *prometheus.Registry
	backend  *indexdb.Backend
	client   chain.Client
	syncer   *mappingsync.Syncer
	worker   *mappingsync.Worker
	health   health.Health

	listener net.Listener
	server   *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	eg     *errgroup.Group

	shutdownOnce sync.Once
	shutdownErr  error
}

// New initializes every component of the indexer. [client] reads the host
// chain. Every metric, including the ones already registered by [client], is
// served from [registry].
func New(
	cfg config.Config,
	logFactory logging.Factory,
	registry *prometheus.Registry,
	client chain.Client,
) (*Node, error) {
	log, err := logFactory.Make("main")
	if err != nil {
		return nil, err
	}

	n := &Node{
		Config:     cfg,
		Log:        log,
		LogFactory: logFactory,
		registry:   registry,
		client:     client,
	}

	if err := n.initMetrics(); err != nil {
		return nil, fmt.Errorf("couldn't initialize metrics: %w", err)
	}
	if err := n.initDatabase(); err != nil {
		return nil, fmt.Errorf("couldn't initialize database: %w", err)
	}
	if err := n.initSync(); err != nil {
		n.closeDatabase()
		return nil, fmt.Errorf("couldn't initialize sync: %w", err)
	}
	if err := n.initHealth(); err != nil {
		n.closeDatabase()
		return nil, fmt.Errorf("couldn't initialize health: %w", err)
	}
	if err := n.initHTTP(); err != nil {
		n.closeDatabase()
		return nil, fmt.Errorf("couldn't initialize http server: %w", err)
	}
	return n, nil
}

func (n *Node) initMetrics() error {
	errs := wrappers.Errs{}
	errs.Add(
		n.registry.Register(collectors.NewGoCollector()),
		n.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})),
	)
	return errs.Err
}

func (n *Node) initDatabase() error {
	log, err := n.LogFactory.Make("db")
	if err != nil {
		return err
	}
	db, err := factory.NewDatabase(n.Config.DatabaseConfig, n.registry, log)
	if err != nil {
		return err
	}
	n.backend = indexdb.New(columndb.New(db), log)
	return nil
}

func (n *Node) initSync() error {
	log, err := n.LogFactory.Make("sync")
	if err != nil {
		return err
	}
	n.syncer, err = mappingsync.New(mappingsync.Config{
		Client:     n.client,
		Backend:    n.backend,
		Log:        log,
		Registerer: prometheus.WrapRegistererWithPrefix("sync_", n.registry),
		MaxLag:     n.Config.MaxSyncLag,
	})
	if err != nil {
		return err
	}
	n.worker = mappingsync.NewWorker(n.Config.WorkerConfig, n.syncer, n.client, n.backend, log)
	return nil
}

func (n *Node) initHealth() error {
	var err error
	n.health, err = health.New(n.Log, n.registry)
	if err != nil {
		return err
	}

	errs := wrappers.Errs{}
	errs.Add(
		n.health.RegisterReadinessCheck("sync", n.syncer),
		n.health.RegisterHealthCheck("sync", n.syncer),
		n.health.RegisterHealthCheck("database", n.backend),
		n.health.RegisterLivenessCheck("database", n.backend),
	)
	return errs.Err
}

func (n *Node) initHTTP() error {
	log, err := n.LogFactory.Make("http")
	if err != nil {
		return err
	}

	mappingHandler, err := indexer.NewHandler(log, n.backend)
	if err != nil {
		return err
	}
	healthHandler, err := health.NewGetAndPostHandler(log, n.health)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	router.Handle(indexer.Endpoint, mappingHandler)
	router.Handle(HealthEndpoint, healthHandler)
	router.Handle(MetricsEndpoint, promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))

	address := net.JoinHostPort(n.Config.HTTPHost, strconv.FormatUint(uint64(n.Config.HTTPPort), 10))
	n.listener, err = net.Listen("tcp", address)
	if err != nil {
		return err
	}
	n.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	n.Log.Info("HTTP API server listening",
		zap.Stringer("address", n.listener.Addr()),
	)
	return nil
}

// Addr returns the address the HTTP APIs are served on.
func (n *Node) Addr() net.Addr {
	return n.listener.Addr()
}

// Start runs the sync worker, the head watcher, the health checks and the
// HTTP server. It returns immediately.
func (n *Node) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.eg, n.ctx = errgroup.WithContext(ctx)

	n.health.Start(n.ctx, n.Config.HealthCheckFreq)

	n.eg.Go(func() error {
		return n.worker.Run(n.ctx)
	})
	n.eg.Go(func() error {
		return mappingsync.WatchHeads(n.ctx, n.client, n.worker, headPollFrequency, n.Log)
	})
	n.eg.Go(func() error {
		err := n.server.Serve(n.listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	n.eg.Go(func() error {
		<-n.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return n.server.Shutdown(shutdownCtx)
	})

	n.Log.Info("indexer started",
		zap.String("hostRPCURL", n.Config.HostRPCURL),
		zap.Int("syncLimit", n.Config.WorkerConfig.Limit),
	)
	return nil
}

// Stop asks every component to exit. It returns immediately.
func (n *Node) Stop() error {
	n.Log.Info("shutting down indexer")
	if n.cancel != nil {
		n.cancel()
	}
	return nil
}

// ExitCode blocks until the node stopped and released its resources.
func (n *Node) ExitCode() (int, error) {
	err := n.eg.Wait()
	n.health.Stop()
	if closeErr := n.closeDatabase(); err == nil {
		err = closeErr
	}
	if err != nil {
		n.Log.Error("indexer stopped with an error",
			zap.Error(err),
		)
		return 1, err
	}
	n.Log.Info("indexer stopped")
	return 0, nil
}

func (n *Node) closeDatabase() error {
	n.shutdownOnce.Do(func() {
		n.shutdownErr = n.backend.Close()
	})
	return n.shutdownErr
}
