// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/services/fundme"
	"math/big"
)

// transientState journals the balances a running transaction touched, and the ledger records as they were
// before the transaction first entered the ledger, so both can be restored on revert.
type transientState struct {
	original map[common.Address]*big.Int
	ledger   *fundme.State
	depth    int
}

func newTransientState() *transientState {
	return &transientState{
		original: make(map[common.Address]*big.Int),
	}
}

// touch keeps the first seen balance only; later writes in the same transaction do not move the restore point
func (t *transientState) touch(address common.Address, balance *big.Int) {
	if _, found := t.original[address]; found {
		return
	}
	t.original[address] = new(big.Int).Set(balance)
}

// touchLedger keeps the first snapshot only; snapshot is not called again once the frame holds one
func (t *transientState) touchLedger(snapshot func() *fundme.State) {
	if t.ledger == nil {
		t.ledger = snapshot()
	}
}

// child journals a nested call so that a failing call can be undone without reverting its caller
func (t *transientState) child() *transientState {
	c := newTransientState()
	c.depth = t.depth + 1
	return c
}

func (t *transientState) mergeInto(parent *transientState) {
	for address, balance := range t.original {
		parent.touch(address, balance)
	}
	// a parent that entered the ledger before the child already holds the earlier snapshot
	if parent.ledger == nil {
		parent.ledger = t.ledger
	}
}

func (t *transientState) forTouched(f func(address common.Address, original *big.Int)) {
	for address, balance := range t.original {
		f(address, balance)
	}
}

type transientStateContextKey struct{}

func withTransientState(ctx context.Context, t *transientState) context.Context {
	return context.WithValue(ctx, transientStateContextKey{}, t)
}

func transientStateFrom(ctx context.Context) *transientState {
	if t, ok := ctx.Value(transientStateContextKey{}).(*transientState); ok {
		return t
	}
	return nil
}
