// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import (
	"github.com/ethereum/go-ethereum/common"
	"math/big"
)

// State is a detached copy of the ledger records.
type State struct {
	AddressToAmountFunded map[common.Address]*big.Int
	Funders               []common.Address
	Total                 *big.Int
}

func newState() *State {
	return &State{
		AddressToAmountFunded: make(map[common.Address]*big.Int),
		Funders:               []common.Address{},
		Total:                 new(big.Int),
	}
}

func (s *State) clone() *State {
	c := &State{
		AddressToAmountFunded: make(map[common.Address]*big.Int, len(s.AddressToAmountFunded)),
		Funders:               make([]common.Address, len(s.Funders)),
		Total:                 new(big.Int).Set(s.Total),
	}
	for addr, amount := range s.AddressToAmountFunded {
		c.AddressToAmountFunded[addr] = new(big.Int).Set(amount)
	}
	copy(c.Funders, s.Funders)
	return c
}

// SumOfRecords adds up every contribution record; it always equals Total.
func (s *State) SumOfRecords() *big.Int {
	sum := new(big.Int)
	for _, amount := range s.AddressToAmountFunded {
		sum.Add(sum, amount)
	}
	return sum
}
