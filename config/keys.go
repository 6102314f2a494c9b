// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

const (
	NETWORK_NAME        = "NETWORK_NAME"
	CHAIN_ID            = "CHAIN_ID"
	DEVELOPMENT_NETWORK = "DEVELOPMENT_NETWORK"

	MINIMUM_USD     = "MINIMUM_USD"
	NATIVE_DECIMALS = "NATIVE_DECIMALS"

	PRICE_FEED_ADDRESS        = "PRICE_FEED_ADDRESS"
	MOCK_PRICE_DECIMALS       = "MOCK_PRICE_DECIMALS"
	MOCK_PRICE_INITIAL_ANSWER = "MOCK_PRICE_INITIAL_ANSWER"
	ETHEREUM_ENDPOINT         = "ETHEREUM_ENDPOINT"
	PRICE_REPORT_INTERVAL     = "PRICE_REPORT_INTERVAL"

	DEPLOYER_PRIVATE_KEY    = "DEPLOYER_PRIVATE_KEY"
	DEV_ACCOUNTS_COUNT      = "DEV_ACCOUNTS_COUNT"
	DEV_ACCOUNT_BALANCE_ETH = "DEV_ACCOUNT_BALANCE_ETH"

	GAS_PRICE_GWEI = "GAS_PRICE_GWEI"
	TX_GAS_LIMIT   = "TX_GAS_LIMIT"

	HTTP_ADDRESS          = "HTTP_ADDRESS"
	HTTP_RATE_LIMIT       = "HTTP_RATE_LIMIT"
	HTTP_RATE_BURST       = "HTTP_RATE_BURST"
	HTTP_SHUTDOWN_TIMEOUT = "HTTP_SHUTDOWN_TIMEOUT"

	METRICS_REPORT_INTERVAL         = "METRICS_REPORT_INTERVAL"
	SYSTEM_METRICS_INTERVAL         = "SYSTEM_METRICS_INTERVAL"
	LOGGER_FULL_LOG                 = "LOGGER_FULL_LOG"
	LOGGER_FILE_TRUNCATION_INTERVAL = "LOGGER_FILE_TRUNCATION_INTERVAL"
	PROFILING                       = "PROFILING"
)
