// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"math/big"
)

func valueOf(amount *big.Int) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	return amount
}

// SendTransaction executes tx atomically. A reverted transaction returns its receipt together with the error,
// and its sender still pays for the gas used. Transactions rejected before execution return no receipt.
func (s *Service) SendTransaction(ctx context.Context, tx *Transaction) (*Receipt, error) {
	if transientStateFrom(ctx) != nil {
		return nil, errors.New("cannot send a transaction from within a running one, use Call")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	value := valueOf(tx.Value)
	if value.Sign() < 0 {
		return nil, errors.Errorf("negative value %s", value)
	}

	gasLimit := tx.GasLimit
	if gasLimit == 0 {
		gasLimit = s.config.TransactionGasLimit()
	}
	gasPrice := s.config.GasPrice()

	sender := s.accountOf(tx.From)
	maxCost := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)
	maxCost.Add(maxCost, value)
	if sender.balance.Cmp(maxCost) < 0 {
		return nil, errors.Wrapf(ErrInsufficientFunds, "%s has %s wei, needs %s wei", tx.From.Hex(), sender.balance, maxCost)
	}

	hash := txHash(tx.From, sender.nonce, tx)
	sender.nonce++

	meter := gas.NewMeter(gasLimit)
	state := newTransientState()
	txCtx := gas.WithMeter(withTransientState(ctx, state), meter)

	method := s.resolveMethod(tx.To, tx.Method)
	output, err := s.execute(txCtx, meter, tx.From, tx.To, value, method)
	if err != nil {
		s.revert(state)
	}

	receipt := &Receipt{
		TxHash:            hash,
		From:              tx.From,
		To:                tx.To,
		Method:            method,
		Status:            receiptStatus(err),
		GasUsed:           meter.Used(),
		EffectiveGasPrice: new(big.Int).Set(gasPrice),
		Output:            output,
	}
	sender.balance = new(big.Int).Sub(sender.balance, receipt.GasCost())

	if histogram, found := s.metrics.gasUsed[method]; found {
		histogram.Record(int64(receipt.GasUsed))
	}

	fields := []*log.Field{logfields.TxHash(hash), logfields.Method(method), logfields.Address("from", tx.From), logfields.Address("to", tx.To), logfields.Amount("value", value), log.Uint64("gas-used", receipt.GasUsed)}
	if err != nil {
		s.metrics.reverted.Inc()
		s.logger.Info("transaction reverted", append(fields, log.Error(err))...)
		return receipt, err
	}

	s.metrics.succeeded.Inc()
	s.logger.Info("transaction executed", fields...)
	return receipt, nil
}

// plain value sent to the ledger is a contribution
func (s *Service) resolveMethod(to common.Address, method string) string {
	if method == "" && s.ledger != nil && to == s.ledgerAddress {
		return MethodFund
	}
	return method
}

func (s *Service) execute(ctx context.Context, meter gas.Meter, from common.Address, to common.Address, value *big.Int, method string) (interface{}, error) {
	if err := meter.Consume(gas.TxBase, "transaction"); err != nil {
		return nil, err
	}
	return s.call(ctx, from, to, value, method)
}

// Call runs a nested message call. It is meant for receivers, which run inside a transaction and already hold
// the machine; a failing call is undone on its own and leaves the caller free to continue.
func (s *Service) Call(ctx context.Context, tx *Transaction) (interface{}, error) {
	parent := transientStateFrom(ctx)
	if parent == nil {
		return nil, ErrNoTransaction
	}
	if parent.depth >= maxCallDepth {
		return nil, ErrCallDepthExceeded
	}

	value := valueOf(tx.Value)
	meter := gas.MeterFrom(ctx)
	if err := meter.Consume(gas.ExternalCall, "call"); err != nil {
		return nil, err
	}
	if value.Sign() > 0 {
		if err := meter.Consume(gas.CallValueTransfer, "call with value"); err != nil {
			return nil, err
		}
	}

	child := parent.child()
	output, err := s.call(withTransientState(ctx, child), tx.From, tx.To, value, s.resolveMethod(tx.To, tx.Method))
	if err != nil {
		s.revert(child)
		return nil, err
	}
	child.mergeInto(parent)
	return output, nil
}

func (s *Service) call(ctx context.Context, from common.Address, to common.Address, value *big.Int, method string) (interface{}, error) {
	if s.ledger != nil && to == s.ledgerAddress {
		return s.dispatch(ctx, from, value, method)
	}

	if method != "" {
		return nil, errors.Wrapf(ErrUnknownMethod, "%s on account %s", method, to.Hex())
	}
	return nil, s.transfer(ctx, from, to, value)
}

func (s *Service) dispatch(ctx context.Context, from common.Address, value *big.Int, method string) (interface{}, error) {
	state := transientStateFrom(ctx)
	if state == nil {
		return nil, ErrNoTransaction
	}
	state.touchLedger(s.ledger.State)

	switch method {
	case MethodFund:
		// custody moves first, the ledger then accounts for it
		if err := s.move(ctx, from, s.ledgerAddress, value); err != nil {
			return nil, err
		}
		output, err := s.ledger.Fund(ctx, &fundme.FundInput{Sender: from, Value: value})
		if err != nil {
			return nil, err
		}
		return output, nil

	case MethodWithdraw, MethodCheaperWithdraw:
		if value.Sign() != 0 {
			return nil, errors.Wrapf(ErrNonPayableMethod, "%s received %s wei", method, value)
		}
		input := &fundme.WithdrawInput{Caller: from}
		var output *fundme.WithdrawOutput
		var err error
		if method == MethodWithdraw {
			output, err = s.ledger.Withdraw(ctx, input)
		} else {
			output, err = s.ledger.CheaperWithdraw(ctx, input)
		}
		if err != nil {
			return nil, err
		}
		return output, nil

	default:
		return nil, errors.Wrapf(ErrUnknownMethod, "%s on ledger", method)
	}
}

// transfer moves value and then runs the recipient's receiver, which may reject it
func (s *Service) transfer(ctx context.Context, from common.Address, to common.Address, amount *big.Int) error {
	if err := s.move(ctx, from, to, amount); err != nil {
		return err
	}

	if receiver := s.accountOf(to).receiver; receiver != nil {
		if err := receiver(ctx, from, amount); err != nil {
			return errors.Wrapf(ErrTransferRejected, "%s rejected %s wei: %s", to.Hex(), amount, err.Error())
		}
	}
	return nil
}

func (s *Service) move(ctx context.Context, from common.Address, to common.Address, amount *big.Int) error {
	state := transientStateFrom(ctx)
	if state == nil {
		return ErrNoTransaction
	}
	if amount.Sign() == 0 {
		return nil
	}

	source := s.accountOf(from)
	if source.balance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s wei, sending %s wei", from.Hex(), source.balance, amount)
	}
	destination := s.accountOf(to)

	state.touch(from, source.balance)
	state.touch(to, destination.balance)
	source.balance = new(big.Int).Sub(source.balance, amount)
	destination.balance = new(big.Int).Add(destination.balance, amount)
	return nil
}

// revert undoes everything the journal saw, including ledger calls that succeeded inside a frame that later failed
func (s *Service) revert(state *transientState) {
	state.forTouched(func(address common.Address, original *big.Int) {
		s.accountOf(address).balance = original
	})
	if state.ledger != nil {
		s.ledger.RestoreState(state.ledger)
	}
}

// ledgerTransferrer pays out of the ledger account as part of the transaction in ctx
type ledgerTransferrer struct {
	vm *Service
}

func (t *ledgerTransferrer) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	return t.vm.transfer(ctx, t.vm.ledgerAddress, to, amount)
}

func (s *Service) Fund(ctx context.Context, from common.Address, value *big.Int) (*Receipt, error) {
	to, err := s.LedgerAddress()
	if err != nil {
		return nil, err
	}
	return s.SendTransaction(ctx, &Transaction{From: from, To: to, Value: value, Method: MethodFund})
}

func (s *Service) Withdraw(ctx context.Context, caller common.Address) (*Receipt, error) {
	to, err := s.LedgerAddress()
	if err != nil {
		return nil, err
	}
	return s.SendTransaction(ctx, &Transaction{From: caller, To: to, Method: MethodWithdraw})
}

func (s *Service) CheaperWithdraw(ctx context.Context, caller common.Address) (*Receipt, error) {
	to, err := s.LedgerAddress()
	if err != nil {
		return nil, err
	}
	return s.SendTransaction(ctx, &Transaction{From: caller, To: to, Method: MethodCheaperWithdraw})
}
