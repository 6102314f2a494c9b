// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"math/big"
)

type Receipt struct {
	TxHash            common.Hash
	From              common.Address
	To                common.Address
	Method            string
	Status            uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	Output            interface{}
}

func (r *Receipt) Succeeded() bool {
	return r.Status == types.ReceiptStatusSuccessful
}

// GasCost is what the sender paid for gas, reverted or not.
func (r *Receipt) GasCost() *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}
