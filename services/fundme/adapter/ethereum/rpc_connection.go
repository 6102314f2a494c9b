// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ethereum

import (
	"context"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"math/big"
	"sync"
)

type rpcConnectionConfig interface {
	EthereumEndpoint() string
}

// RpcConnection is a bind.ContractCaller that dials the configured endpoint on first use.
type RpcConnection struct {
	config rpcConnectionConfig
	logger log.Logger

	mu     sync.Mutex
	client *ethclient.Client
}

func NewRpcConnection(config rpcConnectionConfig, logger log.Logger) *RpcConnection {
	return &RpcConnection{
		config: config,
		logger: logger.WithTags(log.String("adapter", "ethereum")),
	}
}

func (rpc *RpcConnection) dial() (*ethclient.Client, error) {
	rpc.mu.Lock()
	defer rpc.mu.Unlock()

	if rpc.client != nil {
		return rpc.client, nil
	}

	client, err := ethclient.Dial(rpc.config.EthereumEndpoint())
	if err != nil {
		return nil, errors.Wrap(err, "failed dialing ethereum endpoint")
	}
	rpc.logger.Info("connected to ethereum endpoint")
	rpc.client = client
	return client, nil
}

func (rpc *RpcConnection) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	client, err := rpc.dial()
	if err != nil {
		return nil, err
	}
	return client.CodeAt(ctx, contract, blockNumber)
}

func (rpc *RpcConnection) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	client, err := rpc.dial()
	if err != nil {
		return nil, err
	}
	return client.CallContract(ctx, call, blockNumber)
}

// VerifyChainId fails when the endpoint serves a different chain than the one configured.
func (rpc *RpcConnection) VerifyChainId(ctx context.Context, expected uint32) error {
	client, err := rpc.dial()
	if err != nil {
		return err
	}

	chainId, err := client.ChainID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed reading chain id")
	}
	if chainId.Cmp(new(big.Int).SetUint64(uint64(expected))) != 0 {
		return errors.Errorf("endpoint serves chain %s, expected %d", chainId, expected)
	}
	return nil
}

func (rpc *RpcConnection) Close() {
	rpc.mu.Lock()
	defer rpc.mu.Unlock()

	if rpc.client != nil {
		rpc.client.Close()
		rpc.client = nil
	}
}
