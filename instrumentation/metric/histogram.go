// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package metric

import (
	"fmt"
	"github.com/codahale/hdrhistogram"
	"sync"
	"sync/atomic"
)

const histogramWindows = 5

// Histogram tracks integer measurements, such as gas used per transaction, over a sliding window.
type Histogram struct {
	namedMetric
	overflowCount int64

	mu    sync.Mutex
	histo *hdrhistogram.WindowedHistogram
}

func newHistogram(name string, max int64) *Histogram {
	return &Histogram{
		namedMetric: namedMetric{name: name},
		histo:       hdrhistogram.NewWindowed(histogramWindows, 0, max, 3),
	}
}

// Record counts values above the histogram's maximum as overflows instead of samples.
func (h *Histogram) Record(measurement int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.histo.Current.RecordValue(measurement); err != nil {
		atomic.AddInt64(&h.overflowCount, 1)
	}
}

func (h *Histogram) Rotate() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.histo.Rotate()
}

func (h *Histogram) CurrentSamples() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.histo.Current.TotalCount()
}

func (h *Histogram) OverflowCount() int64 {
	return atomic.LoadInt64(&h.overflowCount)
}

func (h *Histogram) String() string {
	e := h.export()
	return fmt.Sprintf("metric %s: [min=%d, p50=%d, p95=%d, p99=%d, max=%d, avg=%.1f, samples=%d, overflows=%d]\n",
		e.Name, e.Min, e.P50, e.P95, e.P99, e.Max, e.Avg, e.Samples, e.Overflows)
}

func (h *Histogram) Export() exportedMetric {
	return h.export()
}

func (h *Histogram) export() histogramExport {
	h.mu.Lock()
	merged := h.histo.Merge()
	h.mu.Unlock()

	return histogramExport{
		Name:      h.name,
		Min:       merged.Min(),
		P50:       merged.ValueAtQuantile(50),
		P95:       merged.ValueAtQuantile(95),
		P99:       merged.ValueAtQuantile(99),
		Max:       merged.Max(),
		Avg:       merged.Mean(),
		Samples:   merged.TotalCount(),
		Overflows: h.OverflowCount(),
	}
}
