// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"context"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/pkg/errors"
	"math/big"
)

// UsdDecimals is the fixed point precision of USD amounts.
const UsdDecimals = 18

// PriceGate converts between USD amounts and native amounts using the latest oracle price.
type PriceGate struct {
	feed           adapter.PriceFeed
	nativeDecimals uint8
}

func NewPriceGate(feed adapter.PriceFeed, nativeDecimals uint8) *PriceGate {
	return &PriceGate{feed: feed, nativeDecimals: nativeDecimals}
}

func (g *PriceGate) latestPrice(ctx context.Context) (*adapter.Price, error) {
	if err := gas.MeterFrom(ctx).Consume(gas.ExternalCall, "price feed call"); err != nil {
		return nil, err
	}

	price, err := g.feed.LatestPrice(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading price feed %s", g.feed.Address().Hex())
	}

	if price.Value == nil || price.Value.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidPrice, "price feed %s answered %v", g.feed.Address().Hex(), price.Value)
	}

	return price, nil
}

// RequiredNativeAmount returns the smallest native amount worth at least usdMinimum.
// Rounding up keeps "amount >= required" equivalent to "ConversionRate(amount) >= usdMinimum".
func (g *PriceGate) RequiredNativeAmount(ctx context.Context, usdMinimum *big.Int) (*big.Int, error) {
	price, err := g.latestPrice(ctx)
	if err != nil {
		return nil, err
	}

	numerator := new(big.Int).Mul(usdMinimum, pow10(int64(g.nativeDecimals)+int64(price.Decimals)))
	denominator := new(big.Int).Mul(price.Value, pow10(UsdDecimals))

	return ceilDiv(numerator, denominator), nil
}

// ConversionRate returns the USD value, with UsdDecimals precision, of a native amount.
func (g *PriceGate) ConversionRate(ctx context.Context, nativeAmount *big.Int) (*big.Int, error) {
	price, err := g.latestPrice(ctx)
	if err != nil {
		return nil, err
	}

	numerator := new(big.Int).Mul(nativeAmount, price.Value)
	numerator.Mul(numerator, pow10(UsdDecimals))

	return numerator.Quo(numerator, pow10(int64(g.nativeDecimals)+int64(price.Decimals))), nil
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
