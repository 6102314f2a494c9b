// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

type ServerConfig struct {
	networkName string
	chainId     uint32
	httpAddress string
	rateLimit   uint32
	rateBurst   uint32
	profiling   bool
}

// NewServerConfig is a standalone config for running the server without a full node config.
func NewServerConfig(httpAddress string, rateLimit uint32, rateBurst uint32, profiling bool) *ServerConfig {
	return &ServerConfig{
		networkName: "standalone",
		httpAddress: httpAddress,
		rateLimit:   rateLimit,
		rateBurst:   rateBurst,
		profiling:   profiling,
	}
}

func (c *ServerConfig) NetworkName() string {
	return c.networkName
}

func (c *ServerConfig) ChainId() uint32 {
	return c.chainId
}

func (c *ServerConfig) HttpAddress() string {
	return c.httpAddress
}

func (c *ServerConfig) HttpRateLimit() uint32 {
	return c.rateLimit
}

func (c *ServerConfig) HttpRateBurst() uint32 {
	return c.rateBurst
}

func (c *ServerConfig) Profiling() bool {
	return c.profiling
}
