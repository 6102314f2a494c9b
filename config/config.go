// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/ethereum/go-ethereum/common"
	"math/big"
	"time"
)

type NodeConfig interface {
	// network
	NetworkName() string
	ChainId() uint32
	IsDevelopmentNetwork() bool

	// ledger
	LedgerMinimumUsd() *big.Int
	LedgerNativeDecimals() uint8

	// price feed
	PriceFeedAddress() common.Address
	MockPriceDecimals() uint8
	MockPriceInitialAnswer() *big.Int
	EthereumEndpoint() string
	PriceReportInterval() time.Duration

	// accounts
	DeployerPrivateKey() string
	DevAccountsCount() uint32
	DevAccountBalance() *big.Int

	// virtual machine
	GasPrice() *big.Int
	TransactionGasLimit() uint64

	// http
	HttpAddress() string
	HttpRateLimit() uint32
	HttpRateBurst() uint32
	HttpShutdownTimeout() time.Duration

	// instrumentation
	MetricsReportInterval() time.Duration
	SystemMetricsInterval() time.Duration
	LoggerFullLog() bool
	LoggerFileTruncationInterval() time.Duration
	Profiling() bool
}

type mutableNodeConfig interface {
	NodeConfig
	Set(key string, value NodeConfigValue) mutableNodeConfig
	SetUint32(key string, value uint32) mutableNodeConfig
	SetDuration(key string, value time.Duration) mutableNodeConfig
	SetString(key string, value string) mutableNodeConfig
	SetBool(key string, value bool) mutableNodeConfig
	Clone() mutableNodeConfig
}

type NodeConfigValue struct {
	Uint32Value   uint32
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

type config struct {
	kv map[string]NodeConfigValue
}

func emptyConfig() mutableNodeConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) mutableNodeConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetString(key string, value string) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) Clone() mutableNodeConfig {
	cloned := emptyConfig().(*config)
	for key, value := range c.kv {
		cloned.kv[key] = value
	}
	return cloned
}

// Modify overrides keys in place; used by tests and presets.
func (c *config) Modify(newValues ...NodeConfigKeyValue) {
	for _, kv := range newValues {
		c.kv[kv.Key] = kv.Value
	}
}

// bigInt reads keys that may hold values wider than uint32, which are kept as decimal strings.
func (c *config) bigInt(key string) *big.Int {
	value := c.kv[key]
	if value.StringValue != "" {
		if n, ok := new(big.Int).SetString(value.StringValue, 10); ok {
			return n
		}
		return new(big.Int)
	}
	return new(big.Int).SetUint64(uint64(value.Uint32Value))
}

func (c *config) NetworkName() string {
	return c.kv[NETWORK_NAME].StringValue
}

func (c *config) ChainId() uint32 {
	return c.kv[CHAIN_ID].Uint32Value
}

func (c *config) IsDevelopmentNetwork() bool {
	return c.kv[DEVELOPMENT_NETWORK].BoolValue
}

func (c *config) LedgerMinimumUsd() *big.Int {
	usd := c.bigInt(MINIMUM_USD)
	return usd.Mul(usd, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func (c *config) LedgerNativeDecimals() uint8 {
	return uint8(c.kv[NATIVE_DECIMALS].Uint32Value)
}

func (c *config) PriceFeedAddress() common.Address {
	return common.HexToAddress(c.kv[PRICE_FEED_ADDRESS].StringValue)
}

func (c *config) MockPriceDecimals() uint8 {
	return uint8(c.kv[MOCK_PRICE_DECIMALS].Uint32Value)
}

func (c *config) MockPriceInitialAnswer() *big.Int {
	return c.bigInt(MOCK_PRICE_INITIAL_ANSWER)
}

func (c *config) EthereumEndpoint() string {
	return c.kv[ETHEREUM_ENDPOINT].StringValue
}

func (c *config) PriceReportInterval() time.Duration {
	return c.kv[PRICE_REPORT_INTERVAL].DurationValue
}

func (c *config) DeployerPrivateKey() string {
	return c.kv[DEPLOYER_PRIVATE_KEY].StringValue
}

func (c *config) DevAccountsCount() uint32 {
	return c.kv[DEV_ACCOUNTS_COUNT].Uint32Value
}

func (c *config) DevAccountBalance() *big.Int {
	eth := c.bigInt(DEV_ACCOUNT_BALANCE_ETH)
	return eth.Mul(eth, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func (c *config) GasPrice() *big.Int {
	gwei := c.bigInt(GAS_PRICE_GWEI)
	return gwei.Mul(gwei, big.NewInt(1e9))
}

func (c *config) TransactionGasLimit() uint64 {
	return uint64(c.kv[TX_GAS_LIMIT].Uint32Value)
}

func (c *config) HttpAddress() string {
	return c.kv[HTTP_ADDRESS].StringValue
}

func (c *config) HttpRateLimit() uint32 {
	return c.kv[HTTP_RATE_LIMIT].Uint32Value
}

func (c *config) HttpRateBurst() uint32 {
	return c.kv[HTTP_RATE_BURST].Uint32Value
}

func (c *config) HttpShutdownTimeout() time.Duration {
	return c.kv[HTTP_SHUTDOWN_TIMEOUT].DurationValue
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) SystemMetricsInterval() time.Duration {
	return c.kv[SYSTEM_METRICS_INTERVAL].DurationValue
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}

func (c *config) LoggerFileTruncationInterval() time.Duration {
	return c.kv[LOGGER_FILE_TRUNCATION_INTERVAL].DurationValue
}

func (c *config) Profiling() bool {
	return c.kv[PROFILING].BoolValue
}
