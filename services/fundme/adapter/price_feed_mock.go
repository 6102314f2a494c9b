// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/go-mock"
)

type MockPriceFeed struct {
	mock.Mock
}

func (m *MockPriceFeed) LatestPrice(ctx context.Context) (*Price, error) {
	ret := m.Called(ctx)
	if price := ret.Get(0); price != nil {
		return price.(*Price), ret.Error(1)
	}
	return nil, ret.Error(1)
}

func (m *MockPriceFeed) Address() common.Address {
	ret := m.Called()
	return ret.Get(0).(common.Address)
}
