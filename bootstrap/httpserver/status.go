// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"encoding/json"
	"github.com/orbs-network/fundme-go/config"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/scribe/log"
	"net/http"
)

type StatusResponse struct {
	Uptime int64

	Network struct {
		Name    string
		ChainId uint32
	}

	Ledger struct {
		Address   string
		Owner     string
		PriceFeed string
		Funders   int
		TotalWei  string
	}

	PriceFeed struct {
		Status                 string
		Answer                 int64
		Round                  int64
		AgeSeconds             int64
		MinimumContributionWei string
	}

	Version config.Version
}

func (s *HttpServer) getStatus(w http.ResponseWriter, r *http.Request) {
	metrics := s.metricRegistry

	status := &StatusResponse{
		Uptime:  metricGetGaugeValue(s.logger, metrics, "Runtime.Uptime.Seconds"),
		Version: config.GetVersion(),
	}
	status.Network.Name = s.config.NetworkName()
	status.Network.ChainId = s.config.ChainId()

	if address, err := s.vm.LedgerAddress(); err == nil {
		status.Ledger.Address = address.Hex()
	}
	err := s.vm.Query(func(ledger *fundme.Ledger) {
		status.Ledger.Owner = ledger.Owner().Hex()
		status.Ledger.PriceFeed = ledger.PriceFeed().Hex()
		status.Ledger.Funders = ledger.FundersCount()
		status.Ledger.TotalWei = ledger.Total().String()
	})
	if err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}

	status.PriceFeed.Status = metricGetString(s.logger, metrics, "FundMe.PriceFeed.Status")
	status.PriceFeed.Answer = metricGetGaugeValue(s.logger, metrics, "FundMe.PriceFeed.Answer")
	status.PriceFeed.Round = metricGetGaugeValue(s.logger, metrics, "FundMe.PriceFeed.Round")
	status.PriceFeed.AgeSeconds = metricGetGaugeValue(s.logger, metrics, "FundMe.PriceFeed.AgeSeconds")
	status.PriceFeed.MinimumContributionWei = metricGetString(s.logger, metrics, "FundMe.MinimumContribution.Wei")

	data, _ := json.MarshalIndent(status, "", "  ")
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

// metrics not registered on this node read as zero values
func metricGetGaugeValue(logger log.Logger, metrics metric.Registry, name string) int64 {
	exported, found := metrics.ExportAll()[name]
	if !found {
		logger.Info("could not retrieve metric", log.String("metric", name))
		return 0
	}

	rows := exported.LogRow()
	return rows[len(rows)-1].Int
}

func metricGetString(logger log.Logger, metrics metric.Registry, name string) string {
	exported, found := metrics.ExportAll()[name]
	if !found {
		logger.Info("could not retrieve metric", log.String("metric", name))
		return ""
	}

	rows := exported.LogRow()
	return rows[len(rows)-1].StringVal
}
