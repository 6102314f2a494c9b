// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/config"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme/adapter/memory"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

var (
	ownerAddress     = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	priceFeedAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	alice            = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob              = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	carol            = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// 0.025 ETH is worth exactly 50 USD at the default mock price of 2000 USD
var minimumAtDefaultPrice = big.NewInt(25000000000000000)

type harness struct {
	t        testing.TB
	ledger   *Ledger
	feed     *memory.MockAggregator
	bank     *memory.Bank
	registry metric.Registry
}

func newHarness(tb testing.TB, logger log.Logger) *harness {
	feed := memory.NewDefaultMockAggregator(priceFeedAddress)
	bank := memory.NewBank()
	registry := metric.NewRegistry()

	return &harness{
		t:        tb,
		ledger:   NewLedger(config.ForLedgerTests(1), ownerAddress, feed, bank, logger, registry),
		feed:     feed,
		bank:     bank,
		registry: registry,
	}
}

func (h *harness) fund(ctx context.Context, sender common.Address, value *big.Int) (*FundOutput, error) {
	return h.ledger.Fund(ctx, &FundInput{Sender: sender, Value: value})
}

func (h *harness) requireFund(ctx context.Context, sender common.Address, value *big.Int) {
	_, err := h.fund(ctx, sender, value)
	require.NoError(h.t, err, "fund should succeed")
}

func (h *harness) withdraw(ctx context.Context, caller common.Address) (*WithdrawOutput, error) {
	return h.ledger.Withdraw(ctx, &WithdrawInput{Caller: caller})
}

func (h *harness) cheaperWithdraw(ctx context.Context, caller common.Address) (*WithdrawOutput, error) {
	return h.ledger.CheaperWithdraw(ctx, &WithdrawInput{Caller: caller})
}

func (h *harness) requireTotalMatchesRecords() {
	state := h.ledger.State()
	require.Zero(h.t, state.Total.Cmp(state.SumOfRecords()), "total %s should equal sum of records %s", state.Total, state.SumOfRecords())
}

func metered(ctx context.Context, limit uint64) (context.Context, gas.Meter) {
	meter := gas.NewMeter(limit)
	return gas.WithMeter(ctx, meter), meter
}
