// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/orbs-network/fundme-go/test"
	"github.com/orbs-network/fundme-go/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestPriceReporter_ReportsLatestRoundAndMinimum(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			reporter := NewPriceReporter(h.feed, h.ledger, h.registry, harness.Logger)

			reporter.Report(ctx)

			require.Equal(t, STATUS_SUCCESS, reporter.metrics.status.Value())
			require.EqualValues(t, 200000000000, reporter.metrics.answer.Value())
			require.EqualValues(t, 1, reporter.metrics.round.Value())
			require.Equal(t, minimumAtDefaultPrice.String(), reporter.metrics.requiredAmount.Value())
		})
	})
}

func TestPriceReporter_ReportsFeedFailure(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			reporter := NewPriceReporter(h.feed, h.ledger, h.registry, harness.Logger)
			reporter.Report(ctx)

			h.feed.FailWith(errors.New("aggregator unreachable"))
			reporter.Report(ctx)

			require.Equal(t, STATUS_FAILED, reporter.metrics.status.Value())
		})
	})
}

func TestPriceReporter_ReportsPeriodically(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			reporter := NewPriceReporter(h.feed, h.ledger, h.registry, harness.Logger)

			trigger := reporter.ReportEvery(ctx, time.Millisecond)
			defer trigger.Stop()

			require.True(t, test.Eventually(time.Second, func() bool {
				return reporter.metrics.status.Value() == STATUS_SUCCESS
			}), "expected reporter to read the feed")
		})
	})
}
