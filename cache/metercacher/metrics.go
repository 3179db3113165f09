// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metercacher

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/evmindex/utils/wrappers"
)

func newCounterMetric(namespace, name string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      fmt.Sprintf("# of times a %s occurred", name),
	})
}

type metrics struct {
	hit,
	miss,
	put,
	evict prometheus.Counter

	len prometheus.Gauge
}

func (m *metrics) Initialize(
	namespace string,
	registerer prometheus.Registerer,
) error {
	m.hit = newCounterMetric(namespace, "hit")
	m.miss = newCounterMetric(namespace, "miss")
	m.put = newCounterMetric(namespace, "put")
	m.evict = newCounterMetric(namespace, "evict")
	m.len = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "len",
		Help:      "number of entries in the cache",
	})

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.hit),
		registerer.Register(m.miss),
		registerer.Register(m.put),
		registerer.Register(m.evict),
		registerer.Register(m.len),
	)
	return errs.Err
}
