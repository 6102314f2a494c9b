// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var ErrNoPriceFeed = errors.New("no price feed configured")

type NopPriceFeed struct{}

func (f *NopPriceFeed) LatestPrice(ctx context.Context) (*Price, error) {
	return nil, ErrNoPriceFeed
}

func (f *NopPriceFeed) Address() common.Address {
	return common.Address{}
}
