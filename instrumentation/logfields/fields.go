// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/scribe/log"
	"math/big"
)

func Address(key string, address common.Address) *log.Field {
	return log.String(key, address.Hex())
}

func Amount(key string, amount *big.Int) *log.Field {
	if amount == nil {
		return log.String(key, "0")
	}
	return log.String(key, amount.String())
}

func TxHash(hash common.Hash) *log.Field {
	return log.String("tx-hash", hash.Hex())
}

func Method(name string) *log.Field {
	return log.String("method", name)
}

func ContextStringValue(ctx context.Context, key string) *log.Field {
	val := "not-found-in-context"
	if v := ctx.Value(key); v != nil {
		if vString, ok := v.(string); ok {
			val = vString
		} else {
			val = "found-in-context-but-not-string"
		}
	}
	return log.String(key, val)
}
