// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"math/big"
)

var LogTag = log.Service("fundme-ledger")

type LedgerConfig interface {
	LedgerMinimumUsd() *big.Int
	LedgerNativeDecimals() uint8
}

// Transferrer moves native currency out of the ledger's custody.
type Transferrer interface {
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error
}

type FundInput struct {
	Sender common.Address
	Value  *big.Int
}

type FundOutput struct {
	AmountFunded      *big.Int
	FirstContribution bool
	RequiredAmount    *big.Int
}

type WithdrawInput struct {
	Caller common.Address
}

type WithdrawOutput struct {
	Amount         *big.Int
	FundersCleared int
}

type metrics struct {
	funders               *metric.Gauge
	total                 *metric.Text
	contributions         *metric.Rate
	rejectedContributions *metric.Gauge
	withdrawals           *metric.Gauge
}

func newMetrics(factory metric.Factory) *metrics {
	return &metrics{
		funders:               factory.NewGauge("FundMe.Ledger.Funders"),
		total:                 factory.NewText("FundMe.Ledger.Total.Wei", "0"),
		contributions:         factory.NewRate("FundMe.Ledger.Contributions.PerSecond"),
		rejectedContributions: factory.NewGauge("FundMe.Ledger.Contributions.Rejected"),
		withdrawals:           factory.NewGauge("FundMe.Ledger.Withdrawals"),
	}
}

// Ledger is the crowdfunding record: who funded how much, in which order, and the total held.
// It is not safe for concurrent use; the execution environment serializes every call.
type Ledger struct {
	logger      log.Logger
	metrics     *metrics
	owner       common.Address
	priceFeed   common.Address
	minimumUsd  *big.Int
	gate        *PriceGate
	transferrer Transferrer

	state *State
}

func NewLedger(config LedgerConfig, owner common.Address, feed adapter.PriceFeed, transferrer Transferrer, parentLogger log.Logger, metricFactory metric.Factory) *Ledger {
	logger := parentLogger.WithTags(LogTag)
	l := &Ledger{
		logger:      logger,
		metrics:     newMetrics(metricFactory),
		owner:       owner,
		priceFeed:   feed.Address(),
		minimumUsd:  new(big.Int).Set(config.LedgerMinimumUsd()),
		gate:        NewPriceGate(feed, config.LedgerNativeDecimals()),
		transferrer: transferrer,
		state:       newState(),
	}

	logger.Info("ledger created", logfields.Address("owner", owner), logfields.Address("price-feed", l.priceFeed), logfields.Amount("minimum-usd", l.minimumUsd))
	return l
}

// all-or-nothing: any error restores the records as they were before f
func (l *Ledger) atomically(f func() error) error {
	snapshot := l.state.clone()
	if err := f(); err != nil {
		l.state = snapshot
		return err
	}
	return nil
}

// RestoreState replaces the records with a copy of state. The execution environment uses it to undo ledger
// calls that completed inside a transaction which later reverted.
func (l *Ledger) RestoreState(state *State) {
	l.state = state.clone()
	l.updateMetrics()
}

func (l *Ledger) Fund(ctx context.Context, input *FundInput) (*FundOutput, error) {
	var out *FundOutput
	err := l.atomically(func() error {
		required, err := l.gate.RequiredNativeAmount(ctx, l.minimumUsd)
		if err != nil {
			return err
		}

		value := input.Value
		if value == nil {
			value = new(big.Int)
		}
		if value.Cmp(required) < 0 {
			return errors.Wrapf(ErrInsufficientContribution, "sent %s wei, minimum is %s wei", value, required)
		}

		meter := gas.MeterFrom(ctx)
		if err := meter.Consume(gas.StorageRead, "read contribution record"); err != nil {
			return err
		}

		current, funded := l.state.AddressToAmountFunded[input.Sender]
		if funded {
			if err := meter.Consume(gas.StorageUpdate, "update contribution record"); err != nil {
				return err
			}
		} else {
			if err := consumeAll(meter, "append funder", gas.StorageRead, gas.StorageSet, gas.StorageUpdate, gas.StorageSet); err != nil {
				return err
			}
			l.state.Funders = append(l.state.Funders, input.Sender)
			current = new(big.Int)
		}

		updated := new(big.Int).Add(current, value)
		l.state.AddressToAmountFunded[input.Sender] = updated
		l.state.Total.Add(l.state.Total, value)

		out = &FundOutput{
			AmountFunded:      new(big.Int).Set(updated),
			FirstContribution: !funded,
			RequiredAmount:    required,
		}
		return nil
	})

	if err != nil {
		if errors.Cause(err) == ErrInsufficientContribution {
			l.metrics.rejectedContributions.Inc()
		}
		l.logger.Info("contribution rejected", logfields.Address("funder", input.Sender), logfields.Amount("value", input.Value), log.Error(err))
		return nil, err
	}

	l.metrics.contributions.Measure(1)
	l.updateMetrics()
	l.logger.Info("contribution accepted", logfields.Address("funder", input.Sender), logfields.Amount("value", input.Value), logfields.Amount("amount-funded", out.AmountFunded))
	return out, nil
}

// Withdraw sends the whole balance to the owner, re-reading the funder sequence from storage on every iteration.
func (l *Ledger) Withdraw(ctx context.Context, input *WithdrawInput) (*WithdrawOutput, error) {
	return l.withdraw(ctx, input, "withdraw", l.resetRecordsFromStorage)
}

// CheaperWithdraw has the same effect as Withdraw but copies the funder sequence once and iterates the copy.
func (l *Ledger) CheaperWithdraw(ctx context.Context, input *WithdrawInput) (*WithdrawOutput, error) {
	return l.withdraw(ctx, input, "cheaperWithdraw", l.resetRecordsFromMemory)
}

func (l *Ledger) withdraw(ctx context.Context, input *WithdrawInput, method string, resetRecords func(meter gas.Meter) (int, error)) (*WithdrawOutput, error) {
	var out *WithdrawOutput
	err := l.atomically(func() error {
		meter := gas.MeterFrom(ctx)

		// owner is immutable, so reading it costs no storage access
		if err := meter.Consume(gas.MemoryAccess, "read owner"); err != nil {
			return err
		}
		if input.Caller != l.owner {
			return errors.Wrapf(ErrNotOwner, "%s called by %s", method, input.Caller.Hex())
		}

		cleared, err := resetRecords(meter)
		if err != nil {
			return err
		}

		for range l.state.Funders {
			if err := meter.Consume(gas.StorageReset, "clear funder slot"); err != nil {
				return err
			}
		}
		if err := meter.Consume(gas.StorageUpdate, "clear funders length"); err != nil {
			return err
		}
		l.state.Funders = []common.Address{}

		if err := meter.Consume(gas.Balance, "read balance"); err != nil {
			return err
		}
		amount := new(big.Int).Set(l.state.Total)
		l.state.Total = new(big.Int)

		// records are already reset, so anything the owner runs on receipt observes an empty ledger
		if err := meter.Consume(gas.CallValueTransfer, "transfer to owner"); err != nil {
			return err
		}
		if err := l.transferrer.Transfer(ctx, l.owner, amount); err != nil {
			return errors.Wrapf(ErrTransferFailed, "transfer of %s wei to %s: %s", amount, l.owner.Hex(), err.Error())
		}

		out = &WithdrawOutput{
			Amount:         amount,
			FundersCleared: cleared,
		}
		return nil
	})

	if err != nil {
		l.logger.Info("withdrawal rejected", log.String("method", method), logfields.Address("caller", input.Caller), log.Error(err))
		return nil, err
	}

	l.metrics.withdrawals.Inc()
	l.updateMetrics()
	l.logger.Info("withdrawal completed", log.String("method", method), logfields.Amount("amount", out.Amount), log.Int("funders-cleared", out.FundersCleared))
	return out, nil
}

func (l *Ledger) resetRecordsFromStorage(meter gas.Meter) (int, error) {
	for i := 0; ; i++ {
		if err := meter.Consume(gas.StorageRead, "read funders length"); err != nil {
			return 0, err
		}
		if i >= len(l.state.Funders) {
			return i, nil
		}
		if err := meter.Consume(gas.StorageRead, "read funder"); err != nil {
			return 0, err
		}
		if err := l.resetRecord(meter, l.state.Funders[i]); err != nil {
			return 0, err
		}
	}
}

func (l *Ledger) resetRecordsFromMemory(meter gas.Meter) (int, error) {
	if err := meter.Consume(gas.StorageRead, "read funders length"); err != nil {
		return 0, err
	}
	funders := make([]common.Address, len(l.state.Funders))
	for i := range funders {
		if err := meter.Consume(gas.StorageRead, "copy funder to memory"); err != nil {
			return 0, err
		}
		funders[i] = l.state.Funders[i]
	}

	for i := 0; ; i++ {
		if err := meter.Consume(gas.MemoryAccess, "read funders length"); err != nil {
			return 0, err
		}
		if i >= len(funders) {
			return i, nil
		}
		if err := meter.Consume(gas.MemoryAccess, "read funder"); err != nil {
			return 0, err
		}
		if err := l.resetRecord(meter, funders[i]); err != nil {
			return 0, err
		}
	}
}

// resetting an absent record is a no-op, so duplicates in the sequence are harmless
func (l *Ledger) resetRecord(meter gas.Meter, funder common.Address) error {
	if err := meter.Consume(gas.StorageReset, "reset contribution record"); err != nil {
		return err
	}
	delete(l.state.AddressToAmountFunded, funder)
	return nil
}

func consumeAll(meter gas.Meter, reason string, amounts ...uint64) error {
	for _, amount := range amounts {
		if err := meter.Consume(amount, reason); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) updateMetrics() {
	l.metrics.funders.Update(int64(len(l.state.Funders)))
	l.metrics.total.Update(l.state.Total.String())
}
