// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"math/big"
	"time"
)

// PriceFeed is a source of the native currency price in USD, shaped after a Chainlink aggregator.
type PriceFeed interface {
	LatestPrice(ctx context.Context) (*Price, error)
	Address() common.Address
}

type Price struct {
	Value     *big.Int
	Decimals  uint8
	RoundId   *big.Int
	UpdatedAt time.Time
}

func (p *Price) String() string {
	return fmt.Sprintf("%s (%d decimals, round %s)", p.Value, p.Decimals, p.RoundId)
}
