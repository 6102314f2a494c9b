// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/orbs-network/fundme-go/config"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/services/fundme/adapter/memory"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

type harness struct {
	t        testing.TB
	vm       *Service
	registry metric.Registry
	feed     *memory.MockAggregator
	deployer common.Address
	ledger   common.Address
	funders  []common.Address
}

// newHarness deploys the mock price feed and then the ledger from the deployer, the way the hardhat deploy scripts do
func newHarness(ctx context.Context, tb testing.TB, logger log.Logger, funderCount int) *harness {
	registry := metric.NewRegistry()
	vm := NewVirtualMachine(config.ForLedgerTests(1), logger, registry)

	deployer := generateAddress(tb)
	vm.Alloc(deployer, ether(10000))

	var funders []common.Address
	for i := 0; i < funderCount; i++ {
		funder := generateAddress(tb)
		vm.Alloc(funder, ether(10000))
		funders = append(funders, funder)
	}

	feed := memory.NewDefaultMockAggregator(vm.ReserveContractAddress(deployer))
	ledger, err := vm.DeployLedger(ctx, deployer, feed)
	require.NoError(tb, err, "ledger deployment should succeed")

	return &harness{
		t:        tb,
		vm:       vm,
		registry: registry,
		feed:     feed,
		deployer: deployer,
		ledger:   ledger,
		funders:  funders,
	}
}

func generateAddress(tb testing.TB) common.Address {
	key, err := crypto.GenerateKey()
	require.NoError(tb, err)
	return crypto.PubkeyToAddress(key.PublicKey)
}

func (h *harness) requireFund(ctx context.Context, from common.Address, value *big.Int) *Receipt {
	receipt, err := h.vm.Fund(ctx, from, value)
	require.NoError(h.t, err, "fund should succeed")
	require.True(h.t, receipt.Succeeded())
	h.requireLedgerBalanceMatchesTotal()
	return receipt
}

func (h *harness) query(f func(ledger *fundme.Ledger)) {
	require.NoError(h.t, h.vm.Query(f))
}

func (h *harness) requireLedgerBalanceMatchesTotal() {
	balance := h.vm.BalanceOf(h.ledger)
	h.query(func(ledger *fundme.Ledger) {
		require.Zero(h.t, balance.Cmp(ledger.Total()), "ledger account holds %s wei but the ledger accounts for %s wei", balance, ledger.Total())
	})
}

func (h *harness) requireAmountFunded(funder common.Address, expected *big.Int) {
	h.query(func(ledger *fundme.Ledger) {
		actual := ledger.AddressToAmountFunded(funder)
		require.Zero(h.t, expected.Cmp(actual), "expected %s to have funded %s wei, got %s", funder.Hex(), expected, actual)
	})
}

func requireBigEqual(tb testing.TB, expected *big.Int, actual *big.Int, description string) {
	tb.Helper()
	require.Zero(tb, expected.Cmp(actual), "%s: expected %s, got %s", description, expected, actual)
}

func sum(amounts ...*big.Int) *big.Int {
	total := new(big.Int)
	for _, amount := range amounts {
		total.Add(total, amount)
	}
	return total
}

func sub(a *big.Int, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}
