// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package metric

import (
	"github.com/orbs-network/scribe/log"
	"strconv"
)

type histogramExport struct {
	Name      string
	Min       int64
	P50       int64
	P95       int64
	P99       int64
	Max       int64
	Avg       float64
	Samples   int64
	Overflows int64
}

// LogRow is empty for a window with no samples, so idle histograms stay out of the periodic report.
func (h histogramExport) LogRow() []*log.Field {
	if h.Samples == 0 {
		return nil
	}

	return []*log.Field{
		log.String("metric", h.Name),
		log.String("metric-type", "histogram"),
		log.Int64("min", h.Min),
		log.Int64("p50", h.P50),
		log.Int64("p95", h.P95),
		log.Int64("p99", h.P99),
		log.Int64("max", h.Max),
		log.Float64("avg", h.Avg),
		log.Int64("samples", h.Samples),
		log.Int64("overflows", h.Overflows),
	}
}

func (h histogramExport) PrometheusRow() []*prometheusRow {
	name := h.PrometheusName()
	rows := make([]*prometheusRow, 0, 8)
	for _, aggregation := range []struct {
		label string
		value int64
	}{
		{"min", h.Min},
		{"median", h.P50},
		{"95p", h.P95},
		{"99p", h.P99},
		{"max", h.Max},
		{"count", h.Samples},
		{"overflows", h.Overflows},
	} {
		rows = append(rows, &prometheusRow{name, aggregation.label, strconv.FormatInt(aggregation.value, 10)})
	}
	return append(rows, &prometheusRow{name, "avg", strconv.FormatFloat(h.Avg, 'f', -1, 64)})
}

func (h histogramExport) PrometheusType() string {
	return "histogram"
}

func (h histogramExport) PrometheusName() string {
	return prometheusName(h.Name)
}
