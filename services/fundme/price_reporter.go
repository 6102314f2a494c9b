// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/orbs-network/fundme-go/synchronization"
	"github.com/orbs-network/scribe/log"
	"time"
)

const STATUS_FAILED = "failed"
const STATUS_SUCCESS = "success"

type priceMetrics struct {
	status         *metric.Text
	answer         *metric.Gauge
	round          *metric.Gauge
	ageSeconds     *metric.Gauge
	requiredAmount *metric.Text
}

type PriceReporter struct {
	feed    adapter.PriceFeed
	ledger  *Ledger
	logger  log.Logger
	metrics *priceMetrics
}

func NewPriceReporter(feed adapter.PriceFeed, ledger *Ledger, metricFactory metric.Factory, parentLogger log.Logger) *PriceReporter {
	return &PriceReporter{
		feed:   feed,
		ledger: ledger,
		logger: parentLogger.WithTags(log.String("reporter", "price-feed"), logfields.Address("price-feed", feed.Address())),
		metrics: &priceMetrics{
			status:         metricFactory.NewText("FundMe.PriceFeed.Status", STATUS_FAILED),
			answer:         metricFactory.NewGauge("FundMe.PriceFeed.Answer"),
			round:          metricFactory.NewGauge("FundMe.PriceFeed.Round"),
			ageSeconds:     metricFactory.NewGauge("FundMe.PriceFeed.AgeSeconds"),
			requiredAmount: metricFactory.NewText("FundMe.MinimumContribution.Wei", "0"),
		},
	}
}

// Report reads the feed once. Price age is only reported, the ledger accepts any round.
func (r *PriceReporter) Report(ctx context.Context) {
	price, err := r.feed.LatestPrice(ctx)
	if err != nil {
		r.logger.Info("price feed check failed", log.Error(err))
		r.metrics.status.Update(STATUS_FAILED)
		return
	}

	r.metrics.status.Update(STATUS_SUCCESS)
	if price.Value.IsInt64() {
		r.metrics.answer.Update(price.Value.Int64())
	}
	if price.RoundId != nil && price.RoundId.IsInt64() {
		r.metrics.round.Update(price.RoundId.Int64())
	}
	if !price.UpdatedAt.IsZero() {
		r.metrics.ageSeconds.Update(int64(time.Since(price.UpdatedAt).Seconds()))
	}

	if required, err := r.ledger.RequiredNativeAmount(ctx); err != nil {
		r.logger.Info("failed computing minimum contribution", log.Error(err))
	} else {
		r.metrics.requiredAmount.Update(required.String())
	}
}

func (r *PriceReporter) ReportEvery(ctx context.Context, interval time.Duration) *synchronization.PeriodicalTrigger {
	return synchronization.NewPeriodicalTrigger(ctx, "price feed reporter", interval, r.logger, func() {
		r.Report(ctx)
	}, nil)
}
