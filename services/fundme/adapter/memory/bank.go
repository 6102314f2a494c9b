// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"math/big"
	"sync"
)

var ErrRecipientRejected = errors.New("recipient rejected transfer")

// Bank records outbound payments, standing in for the execution environment when a ledger runs on its own.
type Bank struct {
	mu struct {
		sync.Mutex
		received   map[common.Address]*big.Int
		rejected   map[common.Address]bool
		onTransfer func(to common.Address, amount *big.Int)
	}
}

func NewBank() *Bank {
	b := &Bank{}
	b.mu.received = make(map[common.Address]*big.Int)
	b.mu.rejected = make(map[common.Address]bool)
	return b
}

func (b *Bank) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	b.mu.Lock()
	if b.mu.rejected[to] {
		b.mu.Unlock()
		return errors.Wrapf(ErrRecipientRejected, "transfer of %s to %s", amount, to.Hex())
	}

	current, ok := b.mu.received[to]
	if !ok {
		current = new(big.Int)
	}
	b.mu.received[to] = new(big.Int).Add(current, amount)
	hook := b.mu.onTransfer
	b.mu.Unlock()

	if hook != nil {
		hook(to, amount)
	}
	return nil
}

func (b *Bank) Reject(to common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mu.rejected[to] = true
}

// OnTransfer registers code run after every accepted transfer, outside the bank lock.
func (b *Bank) OnTransfer(f func(to common.Address, amount *big.Int)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mu.onTransfer = f
}

func (b *Bank) Received(to common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if amount, ok := b.mu.received[to]; ok {
		return new(big.Int).Set(amount)
	}
	return new(big.Int)
}
