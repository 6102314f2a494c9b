// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"math/big"
)

// AddressToAmountFunded is zero for principals that have not contributed since the last withdrawal.
func (l *Ledger) AddressToAmountFunded(funder common.Address) *big.Int {
	if amount, ok := l.state.AddressToAmountFunded[funder]; ok {
		return new(big.Int).Set(amount)
	}
	return new(big.Int)
}

func (l *Ledger) Funder(index uint64) (common.Address, error) {
	if index >= uint64(len(l.state.Funders)) {
		return common.Address{}, errors.Wrapf(ErrIndexOutOfRange, "index %d, %d funders", index, len(l.state.Funders))
	}
	return l.state.Funders[index], nil
}

func (l *Ledger) FundersCount() int {
	return len(l.state.Funders)
}

func (l *Ledger) PriceFeed() common.Address {
	return l.priceFeed
}

func (l *Ledger) Owner() common.Address {
	return l.owner
}

func (l *Ledger) Total() *big.Int {
	return new(big.Int).Set(l.state.Total)
}

func (l *Ledger) MinimumUsd() *big.Int {
	return new(big.Int).Set(l.minimumUsd)
}

func (l *Ledger) State() *State {
	return l.state.clone()
}

// RequiredNativeAmount is the smallest contribution accepted at the current price.
// It only touches immutable fields, so it may be called outside the execution environment.
func (l *Ledger) RequiredNativeAmount(ctx context.Context) (*big.Int, error) {
	return l.gate.RequiredNativeAmount(ctx, l.minimumUsd)
}

func (l *Ledger) ConversionRate(ctx context.Context, nativeAmount *big.Int) (*big.Int, error) {
	return l.gate.ConversionRate(ctx, nativeAmount)
}
