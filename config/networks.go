// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/pkg/errors"
	"sort"
)

type Network struct {
	Name            string
	ChainId         uint32
	EthUsdPriceFeed string
	Development     bool

	// environment variables holding secrets for live networks
	RpcUrlEnv     string
	PrivateKeyEnv string
}

// development networks run against an in-process mock aggregator
var networks = map[string]Network{
	"hardhat": {
		Name:        "hardhat",
		ChainId:     31337,
		Development: true,
	},
	"localhost": {
		Name:        "localhost",
		ChainId:     31337,
		Development: true,
	},
	"sepolia": {
		Name:            "sepolia",
		ChainId:         11155111,
		EthUsdPriceFeed: "0x694AA1769357215DE4FAC081bf1f309aDC325306",
		RpcUrlEnv:       "SEPOLIA_RPC_URL",
		PrivateKeyEnv:   "SEPOLIA_PRIVATE_KEY",
	},
}

const DefaultNetwork = "hardhat"

func LookupNetwork(name string) (Network, error) {
	if n, ok := networks[name]; ok {
		return n, nil
	}
	return Network{}, errors.Errorf("unknown network %q, expected one of %v", name, NetworkNames())
}

func NetworkNames() []string {
	var names []string
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func applyNetwork(cfg mutableNodeConfig, n Network) mutableNodeConfig {
	cfg.SetString(NETWORK_NAME, n.Name)
	cfg.SetUint32(CHAIN_ID, n.ChainId)
	cfg.SetBool(DEVELOPMENT_NETWORK, n.Development)
	if n.EthUsdPriceFeed != "" {
		cfg.SetString(PRICE_FEED_ADDRESS, n.EthUsdPriceFeed)
	}
	return cfg
}
