// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

// all other configs are variations from the production one
func defaultProductionConfig() mutableNodeConfig {
	cfg := emptyConfig()

	cfg.SetUint32(MINIMUM_USD, 50)
	cfg.SetUint32(NATIVE_DECIMALS, 18)

	// chainlink ETH/USD answers with 8 decimals
	cfg.SetUint32(MOCK_PRICE_DECIMALS, 8)
	cfg.SetString(MOCK_PRICE_INITIAL_ANSWER, "200000000000")
	cfg.SetDuration(PRICE_REPORT_INTERVAL, 30*time.Second)

	// same as a fresh hardhat node
	cfg.SetUint32(DEV_ACCOUNTS_COUNT, 20)
	cfg.SetUint32(DEV_ACCOUNT_BALANCE_ETH, 10000)

	cfg.SetUint32(GAS_PRICE_GWEI, 1)
	cfg.SetUint32(TX_GAS_LIMIT, 3000000)

	cfg.SetString(HTTP_ADDRESS, ":8080")
	cfg.SetUint32(HTTP_RATE_LIMIT, 50)
	cfg.SetUint32(HTTP_RATE_BURST, 100)
	cfg.SetDuration(HTTP_SHUTDOWN_TIMEOUT, 5*time.Second)

	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)
	cfg.SetDuration(SYSTEM_METRICS_INTERVAL, 3*time.Second)
	cfg.SetBool(LOGGER_FULL_LOG, false)
	cfg.SetDuration(LOGGER_FILE_TRUNCATION_INTERVAL, 24*time.Hour)
	cfg.SetBool(PROFILING, false)

	return applyNetwork(cfg, networks[DefaultNetwork])
}

func ForNetwork(name string) (mutableNodeConfig, error) {
	n, err := LookupNetwork(name)
	if err != nil {
		return nil, err
	}
	return applyNetwork(defaultProductionConfig(), n), nil
}

// ForDevelopment is an in-process hardhat-like network with a mock price feed.
func ForDevelopment(httpAddress string) mutableNodeConfig {
	cfg := defaultProductionConfig()
	cfg.SetString(HTTP_ADDRESS, httpAddress)
	cfg.SetBool(LOGGER_FULL_LOG, true)
	return cfg
}

// ForLedgerTests keeps background intervals long so reporters stay out of the way of assertions.
func ForLedgerTests(devAccounts uint32) mutableNodeConfig {
	cfg := defaultProductionConfig()
	cfg.SetUint32(DEV_ACCOUNTS_COUNT, devAccounts)
	cfg.SetString(HTTP_ADDRESS, "127.0.0.1:0")
	cfg.SetDuration(PRICE_REPORT_INTERVAL, time.Hour)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, time.Hour)
	cfg.SetDuration(SYSTEM_METRICS_INTERVAL, time.Hour)
	cfg.SetUint32(HTTP_RATE_LIMIT, 1000)
	cfg.SetUint32(HTTP_RATE_BURST, 1000)
	cfg.SetDuration(HTTP_SHUTDOWN_TIMEOUT, time.Second)
	return cfg
}
