// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/bootstrap/httpserver"
	"github.com/orbs-network/fundme-go/config"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/orbs-network/fundme-go/services/fundme/adapter/ethereum"
	"github.com/orbs-network/fundme-go/services/fundme/adapter/memory"
	"github.com/orbs-network/fundme-go/services/virtualmachine"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"time"
)

type Node struct {
	govnr.TreeSupervisor
	logger        log.Logger
	cancelFunc    context.CancelFunc
	vm            *virtualmachine.Service
	httpServer    *httpserver.HttpServer
	rpc           *ethereum.RpcConnection
	accounts      []*DevAccount
	ledgerAddress common.Address
}

func NewNode(nodeConfig config.NodeConfig, logger log.Logger) *Node {
	ctx, cancel := context.WithCancel(context.Background())

	n, err := newNode(ctx, nodeConfig, logger)
	if err != nil {
		cancel()
		panic(err)
	}
	n.cancelFunc = cancel
	return n
}

func newNode(ctx context.Context, nodeConfig config.NodeConfig, parentLogger log.Logger) (*Node, error) {
	logger := parentLogger.WithTags(log.Uint64("chain-id", uint64(nodeConfig.ChainId())))
	n := &Node{logger: logger}

	registry := metric.NewRegistry().WithChainId(nodeConfig.ChainId()).WithNetwork(nodeConfig.NetworkName())
	n.vm = virtualmachine.NewVirtualMachine(nodeConfig, logger, registry)

	accounts, err := newDevAccounts(nodeConfig, n.vm)
	if err != nil {
		return nil, err
	}
	n.accounts = accounts
	deployer := accounts[0].Address

	feed, err := n.newPriceFeed(ctx, nodeConfig, deployer)
	if err != nil {
		return nil, err
	}

	n.ledgerAddress, err = n.vm.DeployLedger(ctx, deployer, feed)
	if err != nil {
		return nil, err
	}

	var ledger *fundme.Ledger
	if err := n.vm.Query(func(l *fundme.Ledger) { ledger = l }); err != nil {
		return nil, err
	}

	reporter := fundme.NewPriceReporter(feed, ledger, registry, logger)
	reporter.Report(ctx)
	n.Supervise(reporter.ReportEvery(ctx, nodeConfig.PriceReportInterval()))
	n.Supervise(registry.ReportEvery(ctx, nodeConfig.MetricsReportInterval(), logger))
	n.Supervise(metric.NewSystemReporter(ctx, registry, logger, nodeConfig.SystemMetricsInterval()))
	n.Supervise(metric.NewRuntimeReporter(ctx, registry, logger, nodeConfig.SystemMetricsInterval()))

	n.httpServer = httpserver.NewHttpServer(nodeConfig, logger, n.vm, newDevKeyring(accounts), registry)
	n.Supervise(n.httpServer)

	logger.Info("node started",
		log.String("network", nodeConfig.NetworkName()),
		logfields.Address("ledger", n.ledgerAddress),
		logfields.Address("owner", deployer),
		logfields.Address("price-feed", feed.Address()),
		log.Int("dev-accounts", len(accounts)),
		log.String("version", config.GetVersion().String()))

	return n, nil
}

// development networks get a mock aggregator deployed by the same account as the ledger, like the hardhat deploy scripts
func (n *Node) newPriceFeed(ctx context.Context, nodeConfig config.NodeConfig, deployer common.Address) (adapter.PriceFeed, error) {
	if nodeConfig.IsDevelopmentNetwork() {
		address := n.vm.ReserveContractAddress(deployer)
		return memory.NewMockAggregator(address, nodeConfig.MockPriceDecimals(), nodeConfig.MockPriceInitialAnswer()), nil
	}

	n.rpc = ethereum.NewRpcConnection(nodeConfig, n.logger)
	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := n.rpc.VerifyChainId(verifyCtx, nodeConfig.ChainId()); err != nil {
		return nil, errors.Wrapf(err, "ethereum endpoint is unusable for network %s", nodeConfig.NetworkName())
	}

	aggregator, err := ethereum.NewAggregator(nodeConfig.PriceFeedAddress(), n.rpc, n.logger)
	if err != nil {
		return nil, err
	}
	return aggregator, nil
}

func (n *Node) GracefulShutdown(shutdownContext context.Context) {
	n.logger.Info("shutting down")
	n.cancelFunc()
	n.httpServer.GracefulShutdown(shutdownContext)
	if n.rpc != nil {
		n.rpc.Close()
	}
}

func (n *Node) VirtualMachine() *virtualmachine.Service {
	return n.vm
}

func (n *Node) Accounts() []*DevAccount {
	return n.accounts
}

func (n *Node) LedgerAddress() common.Address {
	return n.ledgerAddress
}

func (n *Node) HttpPort() int {
	return n.httpServer.Port()
}
