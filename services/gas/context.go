// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package gas

import "context"

type meterContextKey struct{}

func WithMeter(ctx context.Context, m Meter) context.Context {
	return context.WithValue(ctx, meterContextKey{}, m)
}

// MeterFrom returns the meter attached to ctx, or a fresh unlimited meter when there is none.
func MeterFrom(ctx context.Context) Meter {
	if m, ok := ctx.Value(meterContextKey{}).(Meter); ok {
		return m
	}
	return NewMeter(0)
}
