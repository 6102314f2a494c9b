// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/services/fundme/adapter"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"math/big"
	"sort"
	"sync"
)

var LogTag = log.Service("virtual-machine")

var (
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")
	ErrTransferRejected  = errors.New("recipient rejected transfer")
	ErrUnknownMethod     = errors.New("unknown method")
	ErrNonPayableMethod  = errors.New("method is not payable")
	ErrLedgerNotDeployed = errors.New("ledger is not deployed")
	ErrNoTransaction     = errors.New("call made outside of a running transaction")
	ErrCallDepthExceeded = errors.New("max call depth exceeded")
	ErrAlreadyDeployed   = errors.New("ledger is already deployed")
)

const (
	MethodFund            = "fund"
	MethodWithdraw        = "withdraw"
	MethodCheaperWithdraw = "cheaperWithdraw"

	maxCallDepth = 1024
)

type VirtualMachineConfig interface {
	fundme.LedgerConfig
	GasPrice() *big.Int
	TransactionGasLimit() uint64
}

// Receiver is code that runs whenever an account receives value. Returning an error rejects the transfer.
// Receivers run inside the transaction that paid them, so they may reenter through Call but never through
// SendTransaction or Query.
type Receiver func(ctx context.Context, from common.Address, amount *big.Int) error

type Transaction struct {
	From     common.Address
	To       common.Address
	Value    *big.Int
	Method   string
	GasLimit uint64
}

type account struct {
	balance  *big.Int
	nonce    uint64
	receiver Receiver
}

type metrics struct {
	succeeded *metric.Gauge
	reverted  *metric.Gauge
	gasUsed   map[string]*metric.Histogram
}

func newMetrics(factory metric.Factory, gasLimit uint64) *metrics {
	maxGas := int64(gasLimit)
	if maxGas <= 0 {
		maxGas = int64(gas.DefaultTransactionLimit)
	}

	return &metrics{
		succeeded: factory.NewGauge("VirtualMachine.Transactions.Succeeded"),
		reverted:  factory.NewGauge("VirtualMachine.Transactions.Reverted"),
		gasUsed: map[string]*metric.Histogram{
			MethodFund:            factory.NewHistogram("VirtualMachine.GasUsed.Fund", maxGas),
			MethodWithdraw:        factory.NewHistogram("VirtualMachine.GasUsed.Withdraw", maxGas),
			MethodCheaperWithdraw: factory.NewHistogram("VirtualMachine.GasUsed.CheaperWithdraw", maxGas),
			"":                    factory.NewHistogram("VirtualMachine.GasUsed.Transfer", maxGas),
		},
	}
}

// Service hosts a single ledger and executes transactions against it one at a time.
type Service struct {
	config        VirtualMachineConfig
	logger        log.Logger
	metricFactory metric.Factory
	metrics       *metrics

	mutex         sync.Mutex
	accounts      map[common.Address]*account
	ledger        *fundme.Ledger
	ledgerAddress common.Address
}

func NewVirtualMachine(config VirtualMachineConfig, parentLogger log.Logger, metricFactory metric.Factory) *Service {
	return &Service{
		config:        config,
		logger:        parentLogger.WithTags(LogTag),
		metricFactory: metricFactory,
		metrics:       newMetrics(metricFactory, config.TransactionGasLimit()),
		accounts:      make(map[common.Address]*account),
	}
}

// must be called with the mutex held
func (s *Service) accountOf(address common.Address) *account {
	acc, found := s.accounts[address]
	if !found {
		acc = &account{balance: new(big.Int)}
		s.accounts[address] = acc
	}
	return acc
}

// Alloc credits an account out of thin air, like a genesis allocation.
func (s *Service) Alloc(address common.Address, amount *big.Int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	acc := s.accountOf(address)
	acc.balance = new(big.Int).Add(acc.balance, amount)
	s.logger.Info("account allocated", logfields.Address("account", address), logfields.Amount("amount", amount))
}

func (s *Service) BalanceOf(address common.Address) *big.Int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if acc, found := s.accounts[address]; found {
		return new(big.Int).Set(acc.balance)
	}
	return new(big.Int)
}

func (s *Service) NonceOf(address common.Address) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if acc, found := s.accounts[address]; found {
		return acc.nonce
	}
	return 0
}

// Accounts lists every known account except the ledger, in address order.
func (s *Service) Accounts() []common.Address {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var addresses []common.Address
	for address := range s.accounts {
		if s.ledger != nil && address == s.ledgerAddress {
			continue
		}
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].Hex() < addresses[j].Hex()
	})
	return addresses
}

func (s *Service) RegisterReceiver(address common.Address, receiver Receiver) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.accountOf(address).receiver = receiver
}

// ReserveContractAddress consumes a deployer nonce and returns the address a contract created with it would get.
func (s *Service) ReserveContractAddress(deployer common.Address) common.Address {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.reserveContractAddress(deployer)
}

func (s *Service) reserveContractAddress(deployer common.Address) common.Address {
	acc := s.accountOf(deployer)
	address := crypto.CreateAddress(deployer, acc.nonce)
	acc.nonce++
	return address
}

// DeployLedger creates the ledger owned by deployer, reading prices from feed.
func (s *Service) DeployLedger(ctx context.Context, deployer common.Address, feed adapter.PriceFeed) (common.Address, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ledger != nil {
		return common.Address{}, errors.Wrapf(ErrAlreadyDeployed, "at %s", s.ledgerAddress.Hex())
	}

	address := s.reserveContractAddress(deployer)
	s.accountOf(address)
	s.ledgerAddress = address
	s.ledger = fundme.NewLedger(s.config, deployer, feed, &ledgerTransferrer{vm: s}, s.logger, s.metricFactory)

	s.logger.Info("ledger deployed", logfields.Address("ledger", address), logfields.Address("owner", deployer), logfields.Address("price-feed", feed.Address()))
	return address, nil
}

func (s *Service) LedgerAddress() (common.Address, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ledger == nil {
		return common.Address{}, ErrLedgerNotDeployed
	}
	return s.ledgerAddress, nil
}

// Query gives f exclusive access to the ledger; no transaction runs while f does.
func (s *Service) Query(f func(ledger *fundme.Ledger)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ledger == nil {
		return ErrLedgerNotDeployed
	}
	f(s.ledger)
	return nil
}

func txHash(from common.Address, nonce uint64, tx *Transaction) common.Hash {
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	return crypto.Keccak256Hash(
		from.Bytes(),
		new(big.Int).SetUint64(nonce).Bytes(),
		tx.To.Bytes(),
		value.Bytes(),
		[]byte(tx.Method),
	)
}

func receiptStatus(err error) uint64 {
	if err != nil {
		return types.ReceiptStatusFailed
	}
	return types.ReceiptStatusSuccessful
}
