// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/test"
	"github.com/orbs-network/fundme-go/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

var withdrawMethods = []string{MethodWithdraw, MethodCheaperWithdraw}

func (h *harness) sendWithdraw(ctx context.Context, method string, caller common.Address) (*Receipt, error) {
	return h.vm.SendTransaction(ctx, &Transaction{From: caller, To: h.ledger, Method: method})
}

func TestWithdraw_SingleFunder(t *testing.T) {
	for _, method := range withdrawMethods {
		t.Run(method, func(t *testing.T) {
			with.Logging(t, func(parent *with.LoggingHarness) {
				test.WithContext(func(ctx context.Context) {
					h := newHarness(ctx, t, parent.Logger, 1)
					h.requireFund(ctx, h.funders[0], ether(1))

					startingLedgerBalance := h.vm.BalanceOf(h.ledger)
					startingOwnerBalance := h.vm.BalanceOf(h.deployer)

					receipt, err := h.sendWithdraw(ctx, method, h.deployer)
					require.NoError(t, err)

					requireBigEqual(t, new(big.Int), h.vm.BalanceOf(h.ledger), "ledger balance")
					requireBigEqual(t, sub(sum(startingOwnerBalance, startingLedgerBalance), receipt.GasCost()), h.vm.BalanceOf(h.deployer), "owner balance")
					h.requireLedgerBalanceMatchesTotal()
				})
			})
		})
	}
}

func TestWithdraw_MultipleFunders(t *testing.T) {
	for _, method := range withdrawMethods {
		t.Run(method, func(t *testing.T) {
			with.Logging(t, func(parent *with.LoggingHarness) {
				test.WithContext(func(ctx context.Context) {
					h := newHarness(ctx, t, parent.Logger, 5)
					for _, funder := range h.funders {
						h.requireFund(ctx, funder, ether(1))
					}

					startingLedgerBalance := h.vm.BalanceOf(h.ledger)
					startingOwnerBalance := h.vm.BalanceOf(h.deployer)

					receipt, err := h.sendWithdraw(ctx, method, h.deployer)
					require.NoError(t, err)

					output, ok := receipt.Output.(*fundme.WithdrawOutput)
					require.True(t, ok, "withdraw receipt should carry the withdraw output")
					requireBigEqual(t, ether(5), output.Amount, "withdrawn amount")

					requireBigEqual(t, new(big.Int), h.vm.BalanceOf(h.ledger), "ledger balance")
					requireBigEqual(t, sub(sum(startingOwnerBalance, startingLedgerBalance), receipt.GasCost()), h.vm.BalanceOf(h.deployer), "owner balance")

					h.query(func(ledger *fundme.Ledger) {
						_, err := ledger.Funder(0)
						require.Equal(t, fundme.ErrIndexOutOfRange, errors.Cause(err), "funders should be reset")
					})
					for _, funder := range h.funders {
						h.requireAmountFunded(funder, new(big.Int))
					}
				})
			})
		})
	}
}

func TestWithdraw_OnlyAllowsTheOwner(t *testing.T) {
	for _, method := range withdrawMethods {
		t.Run(method, func(t *testing.T) {
			with.Logging(t, func(parent *with.LoggingHarness) {
				test.WithContext(func(ctx context.Context) {
					h := newHarness(ctx, t, parent.Logger, 2)
					attacker := h.funders[1]
					h.requireFund(ctx, h.funders[0], ether(1))
					startingAttackerBalance := h.vm.BalanceOf(attacker)

					receipt, err := h.sendWithdraw(ctx, method, attacker)
					require.Equal(t, fundme.ErrNotOwner, errors.Cause(err))

					requireBigEqual(t, ether(1), h.vm.BalanceOf(h.ledger), "ledger balance")
					requireBigEqual(t, sub(startingAttackerBalance, receipt.GasCost()), h.vm.BalanceOf(attacker), "attacker pays only for gas")
					h.requireAmountFunded(h.funders[0], ether(1))
				})
			})
		})
	}
}

func TestWithdraw_RejectedTransferRevertsEverything(t *testing.T) {
	for _, method := range withdrawMethods {
		t.Run(method, func(t *testing.T) {
			with.Logging(t, func(parent *with.LoggingHarness) {
				test.WithContext(func(ctx context.Context) {
					h := newHarness(ctx, t, parent.Logger, 2)
					for _, funder := range h.funders {
						h.requireFund(ctx, funder, ether(1))
					}
					h.vm.RegisterReceiver(h.deployer, func(ctx context.Context, from common.Address, amount *big.Int) error {
						return errors.New("owner cannot receive")
					})
					startingOwnerBalance := h.vm.BalanceOf(h.deployer)

					receipt, err := h.sendWithdraw(ctx, method, h.deployer)
					require.Equal(t, fundme.ErrTransferFailed, errors.Cause(err))
					require.False(t, receipt.Succeeded())

					requireBigEqual(t, ether(2), h.vm.BalanceOf(h.ledger), "ledger balance")
					requireBigEqual(t, sub(startingOwnerBalance, receipt.GasCost()), h.vm.BalanceOf(h.deployer), "owner pays only for gas")
					h.query(func(ledger *fundme.Ledger) {
						require.Equal(t, 2, ledger.FundersCount())
					})
					for _, funder := range h.funders {
						h.requireAmountFunded(funder, ether(1))
					}
					h.requireLedgerBalanceMatchesTotal()
				})
			})
		})
	}
}

func TestCheaperWithdraw_UsesLessGasForTheSameOutcome(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			gasUsed := map[string]uint64{}
			states := map[string]*fundme.State{}

			for _, method := range withdrawMethods {
				h := newHarness(ctx, t, parent.Logger, 5)
				for _, funder := range h.funders {
					h.requireFund(ctx, funder, ether(1))
				}
				receipt, err := h.sendWithdraw(ctx, method, h.deployer)
				require.NoError(t, err)

				gasUsed[method] = receipt.GasUsed
				h.query(func(ledger *fundme.Ledger) {
					states[method] = ledger.State()
				})
			}

			require.Less(t, gasUsed[MethodCheaperWithdraw], gasUsed[MethodWithdraw], "cheaperWithdraw should use less gas")
			test.RequireCmpEqual(t, states[MethodWithdraw], states[MethodCheaperWithdraw], "both variants should leave the same state")
		})
	})
}

func TestWithdraw_OwnerReceiverObservesResetLedger(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, 2)
			for _, funder := range h.funders {
				h.requireFund(ctx, funder, ether(1))
			}

			var observedFunded *big.Int
			var observedFunders int
			var reentrantOutput interface{}
			var reentered bool
			h.vm.RegisterReceiver(h.deployer, func(ctx context.Context, from common.Address, amount *big.Int) error {
				// receivers run inside the transaction, so the ledger is read directly rather than through Query
				observedFunded = h.vm.ledger.AddressToAmountFunded(h.funders[0])
				observedFunders = h.vm.ledger.FundersCount()
				if reentered {
					return nil
				}
				reentered = true

				output, err := h.vm.Call(ctx, &Transaction{From: h.deployer, To: h.ledger, Method: MethodWithdraw})
				reentrantOutput = output
				return err
			})

			receipt, err := h.sendWithdraw(ctx, MethodWithdraw, h.deployer)
			require.NoError(t, err)
			require.True(t, receipt.Succeeded())

			requireBigEqual(t, new(big.Int), observedFunded, "records are reset before the owner is paid")
			require.Zero(t, observedFunders, "funders are cleared before the owner is paid")

			nested, ok := reentrantOutput.(*fundme.WithdrawOutput)
			require.True(t, ok)
			requireBigEqual(t, new(big.Int), nested.Amount, "reentrant withdraw finds nothing left")

			output := receipt.Output.(*fundme.WithdrawOutput)
			requireBigEqual(t, ether(2), output.Amount, "withdrawn amount")
			h.requireLedgerBalanceMatchesTotal()
		})
	})
}

func TestWithdraw_ReentrantFundIsKept(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, 1)
			h.requireFund(ctx, h.funders[0], ether(1))

			h.vm.RegisterReceiver(h.deployer, func(ctx context.Context, from common.Address, amount *big.Int) error {
				_, err := h.vm.Call(ctx, &Transaction{From: h.deployer, To: h.ledger, Value: ether(1)})
				return err
			})

			_, err := h.sendWithdraw(ctx, MethodCheaperWithdraw, h.deployer)
			require.NoError(t, err)

			h.requireAmountFunded(h.deployer, ether(1))
			h.query(func(ledger *fundme.Ledger) {
				require.Equal(t, 1, ledger.FundersCount())
				funder, err := ledger.Funder(0)
				require.NoError(t, err)
				require.Equal(t, h.deployer, funder)
			})
			h.requireLedgerBalanceMatchesTotal()
		})
	})
}
