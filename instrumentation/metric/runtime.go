// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"github.com/orbs-network/fundme-go/synchronization"
	"github.com/orbs-network/scribe/log"
	"runtime"
	"time"
)

type runtimeMetrics struct {
	start           time.Time
	uptime          *Gauge
	heapAlloc       *Gauge
	heapSys         *Gauge
	gcCpuPercentage *Gauge
	goroutines      *Gauge
}

func NewRuntimeReporter(ctx context.Context, metricFactory Factory, logger log.Logger, interval time.Duration) *synchronization.PeriodicalTrigger {
	m := &runtimeMetrics{
		start:           time.Now(),
		uptime:          metricFactory.NewGauge("Runtime.Uptime.Seconds"),
		heapAlloc:       metricFactory.NewGauge("Runtime.HeapAlloc"),
		heapSys:         metricFactory.NewGauge("Runtime.HeapSys"),
		gcCpuPercentage: metricFactory.NewGauge("Runtime.GCCPUPercentage"),
		goroutines:      metricFactory.NewGauge("Runtime.Goroutines"),
	}

	return synchronization.NewPeriodicalTrigger(ctx, "runtime metrics reporter", interval, logger, m.report, nil)
}

func (m *runtimeMetrics) report() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m.uptime.Update(int64(time.Since(m.start).Seconds()))
	m.heapSys.UpdateUint64(mem.HeapSys)
	m.heapAlloc.UpdateUint64(mem.HeapAlloc)
	m.gcCpuPercentage.Update(int64(mem.GCCPUFraction * 100))
	m.goroutines.Update(int64(runtime.NumGoroutine()))
}
