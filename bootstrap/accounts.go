// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"crypto/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"math/big"
	"strings"
)

type DevAccount struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

type accountsConfig interface {
	DeployerPrivateKey() string
	DevAccountsCount() uint32
	DevAccountBalance() *big.Int
}

type allocator interface {
	Alloc(address common.Address, amount *big.Int)
}

// newDevAccounts funds a hardhat-like set of accounts. The first account deploys the contracts; it uses the
// configured deployer key when there is one.
func newDevAccounts(cfg accountsConfig, vm allocator) ([]*DevAccount, error) {
	count := int(cfg.DevAccountsCount())
	if count == 0 {
		count = 1
	}

	accounts := make([]*DevAccount, 0, count)
	if hexKey := cfg.DeployerPrivateKey(); hexKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "invalid deployer private key")
		}
		accounts = append(accounts, &DevAccount{Address: crypto.PubkeyToAddress(key.PublicKey), PrivateKey: key})
	}

	for len(accounts) < count {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, errors.Wrap(err, "failed generating account key")
		}
		accounts = append(accounts, &DevAccount{Address: crypto.PubkeyToAddress(key.PublicKey), PrivateKey: key})
	}

	for _, account := range accounts {
		vm.Alloc(account.Address, cfg.DevAccountBalance())
	}
	return accounts, nil
}

// devKeyring lets the http api send transactions only for accounts whose keys the node holds
type devKeyring map[common.Address]*ecdsa.PrivateKey

func newDevKeyring(accounts []*DevAccount) devKeyring {
	keyring := make(devKeyring, len(accounts))
	for _, account := range accounts {
		keyring[account.Address] = account.PrivateKey
	}
	return keyring
}

func (k devKeyring) Holds(address common.Address) bool {
	_, found := k[address]
	return found
}
