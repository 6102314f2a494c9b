// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"fmt"
	"github.com/orbs-network/fundme-go/synchronization"
	"github.com/orbs-network/scribe/log"
	"sync"
	"time"
)

type Factory interface {
	NewHistogram(name string, maxValue int64) *Histogram
	NewGauge(name string) *Gauge
	NewRate(name string) *Rate
	NewText(name string, defaultValue ...string) *Text
}

type Registry interface {
	Factory
	WithChainId(chainId uint32) Registry
	WithNetwork(network string) Registry
	String() string
	ExportAll() map[string]exportedMetric
	ExportPrometheus() string
	ReportEvery(ctx context.Context, interval time.Duration, logger log.Logger) *synchronization.PeriodicalTrigger
}

type exportedMetric interface {
	LogRow() []*log.Field
	PrometheusRow() []*prometheusRow
	PrometheusType() string
	PrometheusName() string
}

type metric interface {
	fmt.Stringer
	Name() string
	Export() exportedMetric
}

type rotatingMetric interface {
	Rotate()
}

type namedMetric struct {
	name string
}

func (m *namedMetric) Name() string {
	return m.name
}

func NewRegistry() Registry {
	return &inMemoryRegistry{}
}

type inMemoryRegistry struct {
	chainId uint32
	network string
	mu      struct {
		sync.RWMutex
		metrics []metric
	}
}

func (r *inMemoryRegistry) WithChainId(chainId uint32) Registry {
	r.chainId = chainId
	return r
}

func (r *inMemoryRegistry) WithNetwork(network string) Registry {
	r.network = network
	return r
}

func (r *inMemoryRegistry) register(m metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mu.metrics = append(r.mu.metrics, m)
}

func (r *inMemoryRegistry) NewRate(name string) *Rate {
	m := newRate(name)
	r.register(m)
	return m
}

func (r *inMemoryRegistry) NewGauge(name string) *Gauge {
	g := &Gauge{namedMetric: namedMetric{name: name}}
	r.register(g)
	return g
}

func (r *inMemoryRegistry) NewHistogram(name string, maxValue int64) *Histogram {
	h := newHistogram(name, maxValue)
	r.register(h)
	return h
}

func (r *inMemoryRegistry) NewText(name string, defaultValue ...string) *Text {
	t := newText(name, defaultValue...)
	r.register(t)
	return t
}

func (r *inMemoryRegistry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s string
	for _, m := range r.mu.metrics {
		s += m.String()
	}

	return s
}

func (r *inMemoryRegistry) ExportAll() map[string]exportedMetric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[string]exportedMetric)
	for _, m := range r.mu.metrics {
		all[m.Name()] = m.Export()
	}

	return all
}

func (r *inMemoryRegistry) report(logger log.Logger) {
	for _, value := range r.ExportAll() {
		if logRow := value.LogRow(); logRow != nil {
			logger.Metric(logRow...)
		}
	}
}

func (r *inMemoryRegistry) rotate() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.mu.metrics {
		if rotating, ok := m.(rotatingMetric); ok {
			rotating.Rotate()
		}
	}
}

// ReportEvery logs every metric at the given interval, and once more when ctx ends.
func (r *inMemoryRegistry) ReportEvery(ctx context.Context, interval time.Duration, logger log.Logger) *synchronization.PeriodicalTrigger {
	return synchronization.NewPeriodicalTrigger(ctx, "metric registry report", interval, logger, func() {
		r.report(logger)
		r.rotate()
	}, func() {
		r.report(logger)
	})
}
