// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mappingsync

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/evmindex/utils/wrappers"
)

type metrics struct {
	blocksSynced     prometheus.Counter
	blocksRolledBack prometheus.Counter
	emptyBlocks      prometheus.Counter
	syncErrors       prometheus.Counter
	checkpointHeight prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		blocksSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blocks_synced",
			Help: "number of host blocks indexed",
		}),
		blocksRolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blocks_rolled_back",
			Help: "number of indexed host blocks removed after a reorg",
		}),
		emptyBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "empty_blocks",
			Help: "number of host blocks indexed without execution content",
		}),
		syncErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_errors",
			Help: "number of sync steps that failed",
		}),
		checkpointHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "checkpoint_height",
			Help: "height of the last indexed host block",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.blocksSynced),
		registerer.Register(m.blocksRolledBack),
		registerer.Register(m.emptyBlocks),
		registerer.Register(m.syncErrors),
		registerer.Register(m.checkpointHeight),
	)
	return m, errs.Err
}
