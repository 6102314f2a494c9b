// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package test

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func WithContext(f func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f(ctx)
}

type gracefulShutdowner interface {
	govnr.ShutdownWaiter
	GracefulShutdown(shutdownContext context.Context)
}

// RequireGracefulShutdown stops s and fails tb if it is still running once timeout passes.
func RequireGracefulShutdown(tb testing.TB, s gracefulShutdowner, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.GracefulShutdown(ctx)
	s.WaitUntilShutdown(ctx)
	require.NoError(tb, ctx.Err(), "shutdown did not complete within %s", timeout)
}
