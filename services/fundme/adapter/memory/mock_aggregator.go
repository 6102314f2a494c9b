// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/pkg/errors"
	"math/big"
	"sync"
	"time"
)

const DefaultDecimals = 8

// 2000 USD per native unit with 8 decimals
var DefaultInitialAnswer = big.NewInt(200000000000)

// MockAggregator is an in-process price feed used on development networks and in tests.
type MockAggregator struct {
	address  common.Address
	decimals uint8

	mu struct {
		sync.RWMutex
		answer    *big.Int
		round     int64
		updatedAt time.Time
		failWith  error
	}
}

func NewMockAggregator(address common.Address, decimals uint8, initialAnswer *big.Int) *MockAggregator {
	a := &MockAggregator{
		address:  address,
		decimals: decimals,
	}
	a.UpdateAnswer(initialAnswer)
	return a
}

func NewDefaultMockAggregator(address common.Address) *MockAggregator {
	return NewMockAggregator(address, DefaultDecimals, DefaultInitialAnswer)
}

func (a *MockAggregator) UpdateAnswer(answer *big.Int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mu.answer = new(big.Int).Set(answer)
	a.mu.round++
	a.mu.updatedAt = time.Now()
}

// FailWith makes LatestPrice return err until called again with nil.
func (a *MockAggregator) FailWith(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mu.failWith = err
}

func (a *MockAggregator) LatestPrice(ctx context.Context) (*adapter.Price, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.mu.failWith != nil {
		return nil, errors.Wrap(a.mu.failWith, "mock aggregator failed")
	}

	return &adapter.Price{
		Value:     new(big.Int).Set(a.mu.answer),
		Decimals:  a.decimals,
		RoundId:   big.NewInt(a.mu.round),
		UpdatedAt: a.mu.updatedAt,
	}, nil
}

func (a *MockAggregator) Address() common.Address {
	return a.address
}
