// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/orbs-network/fundme-go/test"
	"github.com/orbs-network/fundme-go/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func TestLedger_ConstructorSetsAggregatorAndOwner(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		h := newHarness(t, harness.Logger)

		require.Equal(t, priceFeedAddress, h.ledger.PriceFeed())
		require.Equal(t, ownerAddress, h.ledger.Owner())
		require.Equal(t, "50000000000000000000", h.ledger.MinimumUsd().String())
		require.Zero(t, h.ledger.Total().Sign())
	})
}

func TestFund_FailsWithoutValue(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)

			_, err := h.fund(ctx, alice, nil)
			require.Equal(t, ErrInsufficientContribution, errors.Cause(err))
			require.Equal(t, "You need to spend more ETH!", errors.Cause(err).Error())
			require.Equal(t, 0, h.ledger.FundersCount())
		})
	})
}

func TestFund_RejectsOneWeiBelowMinimum(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			before := h.ledger.State()

			_, err := h.fund(ctx, alice, new(big.Int).Sub(minimumAtDefaultPrice, big.NewInt(1)))
			require.Equal(t, ErrInsufficientContribution, errors.Cause(err))
			test.RequireCmpEqual(t, before, h.ledger.State(), "rejected contribution must not change the ledger")
		})
	})
}

func TestFund_AcceptsExactMinimum(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)

			out, err := h.fund(ctx, alice, minimumAtDefaultPrice)
			require.NoError(t, err)
			require.True(t, out.FirstContribution)
			require.Equal(t, minimumAtDefaultPrice, out.RequiredAmount)
		})
	})
}

func TestFund_UpdatesAmountFundedDataStructure(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			h.requireFund(ctx, alice, ether(1))

			require.Equal(t, ether(1), h.ledger.AddressToAmountFunded(alice))
		})
	})
}

func TestFund_AddsFunderToArrayOfFunders(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			h.requireFund(ctx, alice, ether(1))

			funder, err := h.ledger.Funder(0)
			require.NoError(t, err)
			require.Equal(t, alice, funder)
		})
	})
}

func TestFund_AccumulatesRepeatContributionsAndListsFunderOnce(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			h.requireFund(ctx, alice, ether(1))
			h.requireFund(ctx, bob, ether(2))
			out, err := h.fund(ctx, alice, ether(3))
			require.NoError(t, err)
			require.False(t, out.FirstContribution)

			require.Equal(t, ether(4), h.ledger.AddressToAmountFunded(alice))
			require.Equal(t, ether(2), h.ledger.AddressToAmountFunded(bob))
			require.Equal(t, ether(6), h.ledger.Total())
			require.Equal(t, []common.Address{alice, bob}, h.ledger.State().Funders)
			h.requireTotalMatchesRecords()
		})
	})
}

func TestFund_PriceChangeMovesTheMinimum(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			h.feed.UpdateAnswer(big.NewInt(100000000000)) // 1000 USD

			_, err := h.fund(ctx, alice, minimumAtDefaultPrice)
			require.Equal(t, ErrInsufficientContribution, errors.Cause(err), "0.025 ETH is only 25 USD at the new price")

			h.requireFund(ctx, alice, big.NewInt(50000000000000000))
		})
	})
}

func TestFund_OracleFailureLeavesLedgerUnchanged(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			h.requireFund(ctx, alice, ether(1))
			before := h.ledger.State()

			h.feed.FailWith(errors.New("stale round"))
			_, err := h.fund(ctx, bob, ether(1))
			require.Error(t, err)
			require.Contains(t, err.Error(), "stale round")
			test.RequireCmpEqual(t, before, h.ledger.State())
		})
	})
}

func TestFund_OutOfGasRollsBack(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)
			before := h.ledger.State()

			// enough for the price read and the record read, not for appending a new funder
			meteredCtx, _ := metered(ctx, gas.ExternalCall+gas.StorageRead+gas.StorageRead)
			_, err := h.fund(meteredCtx, alice, ether(1))
			require.Equal(t, gas.ErrOutOfGas, errors.Cause(err))
			test.RequireCmpEqual(t, before, h.ledger.State())
		})
	})
}

func TestFunder_IndexOutOfRange(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(t, harness.Logger)

			_, err := h.ledger.Funder(0)
			require.Equal(t, ErrIndexOutOfRange, errors.Cause(err))

			h.requireFund(ctx, alice, ether(1))
			_, err = h.ledger.Funder(1)
			require.Equal(t, ErrIndexOutOfRange, errors.Cause(err))
		})
	})
}

func TestAddressToAmountFunded_UnknownPrincipalIsZero(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		h := newHarness(t, harness.Logger)
		require.Zero(t, h.ledger.AddressToAmountFunded(carol).Sign())
	})
}
