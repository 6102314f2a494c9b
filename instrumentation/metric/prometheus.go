// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"strconv"
	"strings"
)

type prometheusRow struct {
	name        string
	aggregation string
	value       string
}

func (r *prometheusRow) line(labels []string) string {
	if r.aggregation != "" {
		labels = append(append([]string{}, labels...), fmt.Sprintf("aggregation=\"%s\"", r.aggregation))
	}

	if len(labels) == 0 {
		return fmt.Sprintf("%s %s\n", r.name, r.value)
	}
	return fmt.Sprintf("%s{%s} %s\n", r.name, strings.Join(labels, ","), r.value)
}

/**
Format reference: https://prometheus.io/docs/instrumenting/exposition_formats/
For info on Prometheus labels, see: https://prometheus.io/docs/practices/naming/#labels
*/
func (r *inMemoryRegistry) ExportPrometheus() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := r.labels()

	var sb strings.Builder
	for _, m := range r.mu.metrics {
		exported := m.Export()
		rows := exported.PrometheusRow()
		if len(rows) == 0 {
			continue
		}

		sb.WriteString(prometheusType(exported.PrometheusName(), exported.PrometheusType()))
		for _, row := range rows {
			sb.WriteString(row.line(labels))
		}
	}

	return sb.String()
}

func (r *inMemoryRegistry) labels() []string {
	var labels []string
	if r.chainId > 0 {
		labels = append(labels, fmt.Sprintf("chain_id=\"%s\"", strconv.FormatUint(uint64(r.chainId), 10)))
	}
	if r.network != "" {
		labels = append(labels, fmt.Sprintf("network=\"%s\"", r.network))
	}
	return labels
}

func prometheusName(name string) string {
	return strings.Replace(name, ".", "_", -1)
}

func prometheusType(name string, typeString string) string {
	return fmt.Sprintf("# TYPE %s %s\n", name, typeString)
}
