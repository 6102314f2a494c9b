// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ethereum

import (
	"context"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"math/big"
	"strings"
	"sync"
	"time"
)

type latestRoundData struct {
	RoundId         *big.Int
	Answer          *big.Int
	StartedAt       *big.Int
	UpdatedAt       *big.Int
	AnsweredInRound *big.Int
}

// Aggregator reads a Chainlink price feed contract.
type Aggregator struct {
	address common.Address
	abi     abi.ABI
	caller  bind.ContractCaller
	logger  log.Logger

	mu       sync.Mutex
	decimals *uint8
}

func NewAggregator(address common.Address, caller bind.ContractCaller, logger log.Logger) (*Aggregator, error) {
	parsed, err := abi.JSON(strings.NewReader(AggregatorV3ABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed parsing aggregator abi")
	}

	return &Aggregator{
		address: address,
		abi:     parsed,
		caller:  caller,
		logger:  logger.WithTags(log.String("adapter", "chainlink-aggregator"), logfields.Address("price-feed", address)),
	}, nil
}

func (a *Aggregator) Address() common.Address {
	return a.address
}

func (a *Aggregator) call(ctx context.Context, method string, out interface{}) error {
	input, err := a.abi.Pack(method)
	if err != nil {
		return errors.Wrapf(err, "failed packing %s", method)
	}

	// we do not support pending calls, the latest block is always used
	msg := ethereum.CallMsg{To: &a.address, Data: input}
	output, err := a.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return errors.Wrapf(err, "call to %s failed", method)
	}

	if len(output) == 0 {
		// Make sure we have a contract to operate on, and bail out otherwise.
		if code, err := a.caller.CodeAt(ctx, a.address, nil); err != nil {
			return errors.Wrapf(err, "failed reading code at %s", a.address.Hex())
		} else if len(code) == 0 {
			return bind.ErrNoCode
		}
	}

	if err := a.abi.Unpack(out, method, output); err != nil {
		return errors.Wrapf(err, "failed unpacking %s", method)
	}
	return nil
}

// Decimals is read once; aggregators never change it.
func (a *Aggregator) Decimals(ctx context.Context) (uint8, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.decimals != nil {
		return *a.decimals, nil
	}

	var decimals uint8
	if err := a.call(ctx, "decimals", &decimals); err != nil {
		return 0, err
	}
	a.decimals = &decimals
	return decimals, nil
}

func (a *Aggregator) Description(ctx context.Context) (string, error) {
	var description string
	if err := a.call(ctx, "description", &description); err != nil {
		return "", err
	}
	return description, nil
}

func (a *Aggregator) LatestPrice(ctx context.Context) (*adapter.Price, error) {
	decimals, err := a.Decimals(ctx)
	if err != nil {
		return nil, err
	}

	var round latestRoundData
	if err := a.call(ctx, "latestRoundData", &round); err != nil {
		return nil, err
	}

	price := &adapter.Price{
		Value:    round.Answer,
		Decimals: decimals,
		RoundId:  round.RoundId,
	}
	if round.UpdatedAt != nil && round.UpdatedAt.Sign() > 0 {
		price.UpdatedAt = time.Unix(round.UpdatedAt.Int64(), 0)
	}

	return price, nil
}
