// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/orbs-network/scribe/log"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// minimal gas of a plain value transfer
const minimalTransactionGasLimit = 21000

type validator struct {
	logger log.Logger
}

func NewValidator(logger log.Logger) *validator {
	return &validator{logger: logger}
}

// Validate panics on a config the node cannot run with.
func (v *validator) Validate(cfg NodeConfig) {
	v.require(cfg.ChainId() > 0, "chain id must be set", log.String("network", cfg.NetworkName()))
	v.require(cfg.LedgerMinimumUsd().Sign() > 0, "minimum usd must be positive")
	v.require(cfg.TransactionGasLimit() >= minimalTransactionGasLimit, "transaction gas limit is below the cost of a plain transfer", log.Uint64("tx-gas-limit", cfg.TransactionGasLimit()))
	v.requirePositive(cfg.PriceReportInterval)
	v.requirePositive(cfg.MetricsReportInterval)
	v.requirePositive(cfg.SystemMetricsInterval)

	if cfg.IsDevelopmentNetwork() {
		v.require(cfg.DevAccountsCount() > 0, "development network needs at least one account to deploy from")
		v.require(cfg.MockPriceInitialAnswer().Sign() > 0, "mock price feed answer must be positive")
	} else {
		v.require(cfg.PriceFeedAddress() != common.Address{}, "live network requires a price feed address", log.String("network", cfg.NetworkName()))
		v.require(cfg.EthereumEndpoint() != "", "live network requires an ethereum endpoint", log.String("network", cfg.NetworkName()))
		_, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.DeployerPrivateKey(), "0x"))
		v.require(err == nil, "live network requires a valid deployer private key", log.String("network", cfg.NetworkName()))
	}
}

func (v *validator) require(condition bool, msg string, fields ...*log.Field) {
	if !condition {
		v.logger.Error(msg, fields...)
		panic(msg)
	}
}

func (v *validator) requirePositive(d func() time.Duration) {
	v.require(d() > 0, "interval must be positive", log.String("key", funcName(d)), log.Stringable("value", d()))
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
