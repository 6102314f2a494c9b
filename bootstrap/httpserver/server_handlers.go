// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"encoding/json"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/services/gas"
	"github.com/orbs-network/fundme-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"io/ioutil"
	"math/big"
	"net/http"
	"strconv"
)

type AddressResponse struct {
	Address string `json:"address"`
}

type MinimumResponse struct {
	Usd string `json:"usd"`
	Wei string `json:"wei"`
}

type FunderResponse struct {
	Index   uint64 `json:"index"`
	Address string `json:"address"`
}

type AmountResponse struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type FundedResponse struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Usd     string `json:"usd,omitempty"`
}

type AccountsResponse struct {
	Ledger   string           `json:"ledger"`
	Accounts []AmountResponse `json:"accounts"`
}

type TransactionRequest struct {
	From     string `json:"from"`
	Value    string `json:"value,omitempty"`
	GasLimit uint64 `json:"gasLimit,omitempty"`
}

type ReceiptResponse struct {
	TxHash            string      `json:"txHash"`
	From              string      `json:"from"`
	To                string      `json:"to"`
	Method            string      `json:"method"`
	Status            uint64      `json:"status"`
	GasUsed           uint64      `json:"gasUsed"`
	EffectiveGasPrice string      `json:"effectiveGasPrice"`
	GasCost           string      `json:"gasCost"`
	Output            interface{} `json:"output,omitempty"`
	Error             string      `json:"error,omitempty"`
}

type FundOutputResponse struct {
	AmountFunded      string `json:"amountFunded"`
	FirstContribution bool   `json:"firstContribution"`
	RequiredAmount    string `json:"requiredAmount"`
}

type WithdrawOutputResponse struct {
	Amount         string `json:"amount"`
	FundersCleared int    `json:"fundersCleared"`
}

func (s *HttpServer) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte("User-agent: *\nDisallow: /\n"))
	if err != nil {
		s.logger.Info("error writing robots.txt response", log.Error(err))
	}
}

func (s *HttpServer) filterOn(w http.ResponseWriter, r *http.Request) {
	for _, f := range s.logger.Filters() {
		if c, ok := f.(log.ConditionalFilter); ok {
			c.On()
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("filter on"))
}

func (s *HttpServer) filterOff(w http.ResponseWriter, r *http.Request) {
	for _, f := range s.logger.Filters() {
		if c, ok := f.(log.ConditionalFilter); ok {
			c.Off()
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("filter off"))
}

func (s *HttpServer) dumpMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, err := w.Write([]byte(s.metricRegistry.ExportPrometheus()))
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *HttpServer) dumpMetricsJson(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	bytes, _ := json.Marshal(s.metricRegistry.ExportAll())
	_, err := w.Write(bytes)
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *HttpServer) priceFeedHandler(w http.ResponseWriter, r *http.Request) {
	var address common.Address
	if err := s.vm.Query(func(ledger *fundme.Ledger) { address = ledger.PriceFeed() }); err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}
	s.writeJsonResponse(w, http.StatusOK, &AddressResponse{Address: address.Hex()})
}

func (s *HttpServer) ownerHandler(w http.ResponseWriter, r *http.Request) {
	var address common.Address
	if err := s.vm.Query(func(ledger *fundme.Ledger) { address = ledger.Owner() }); err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}
	s.writeJsonResponse(w, http.StatusOK, &AddressResponse{Address: address.Hex()})
}

func (s *HttpServer) minimumHandler(w http.ResponseWriter, r *http.Request) {
	var usd, wei *big.Int
	var requiredErr error
	err := s.vm.Query(func(ledger *fundme.Ledger) {
		usd = ledger.MinimumUsd()
		wei, requiredErr = ledger.RequiredNativeAmount(r.Context())
	})
	if err == nil {
		err = requiredErr
	}
	if err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}
	s.writeJsonResponse(w, http.StatusOK, &MinimumResponse{Usd: usd.String(), Wei: wei.String()})
}

func (s *HttpServer) funderHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusBadRequest, log.Error(err), "funder index must be a non-negative integer"})
		return
	}

	var funder common.Address
	var funderErr error
	err = s.vm.Query(func(ledger *fundme.Ledger) { funder, funderErr = ledger.Funder(index) })
	if err == nil {
		err = funderErr
	}
	if err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}
	s.writeJsonResponse(w, http.StatusOK, &FunderResponse{Index: index, Address: funder.Hex()})
}

func (s *HttpServer) fundedHandler(w http.ResponseWriter, r *http.Request) {
	address, e := addressParam(r, "address")
	if e != nil {
		s.writeErrorResponseAndLog(w, e)
		return
	}

	var amount, usd *big.Int
	var usdErr error
	if err := s.vm.Query(func(ledger *fundme.Ledger) {
		amount = ledger.AddressToAmountFunded(address)
		usd, usdErr = ledger.ConversionRate(r.Context(), amount)
	}); err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}

	response := &FundedResponse{Address: address.Hex(), Amount: amount.String()}
	// the recorded amount does not depend on the price feed, so a feed failure only drops the usd value
	if usdErr != nil {
		s.logger.Info("failed converting funded amount to usd", logfields.Address("funder", address), log.Error(usdErr))
	} else {
		response.Usd = usd.String()
	}
	s.writeJsonResponse(w, http.StatusOK, response)
}

func (s *HttpServer) balanceHandler(w http.ResponseWriter, r *http.Request) {
	address, e := addressParam(r, "address")
	if e != nil {
		s.writeErrorResponseAndLog(w, e)
		return
	}
	s.writeJsonResponse(w, http.StatusOK, &AmountResponse{Address: address.Hex(), Amount: s.vm.BalanceOf(address).String()})
}

func (s *HttpServer) accountsHandler(w http.ResponseWriter, r *http.Request) {
	ledger, err := s.vm.LedgerAddress()
	if err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}

	response := &AccountsResponse{Ledger: ledger.Hex(), Accounts: []AmountResponse{}}
	for _, account := range s.vm.Accounts() {
		response.Accounts = append(response.Accounts, AmountResponse{Address: account.Hex(), Amount: s.vm.BalanceOf(account).String()})
	}
	s.writeJsonResponse(w, http.StatusOK, response)
}

func (s *HttpServer) fundHandler(w http.ResponseWriter, r *http.Request) {
	request, e := readTransactionRequest(r)
	if e != nil {
		s.writeErrorResponseAndLog(w, e)
		return
	}

	value := new(big.Int)
	if request.Value != "" {
		var ok bool
		if value, ok = new(big.Int).SetString(request.Value, 10); !ok || value.Sign() < 0 {
			s.writeErrorResponseAndLog(w, &httpErr{http.StatusBadRequest, log.String("value", request.Value), "value must be a non-negative decimal amount of wei"})
			return
		}
	}

	s.sendTransaction(w, r, request, value, virtualmachine.MethodFund)
}

func (s *HttpServer) withdrawHandler(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, e := readTransactionRequest(r)
		if e != nil {
			s.writeErrorResponseAndLog(w, e)
			return
		}
		s.sendTransaction(w, r, request, new(big.Int), method)
	}
}

func (s *HttpServer) sendTransaction(w http.ResponseWriter, r *http.Request, request *TransactionRequest, value *big.Int, method string) {
	from := common.HexToAddress(request.From)
	if !s.keyring.Holds(from) {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusForbidden, log.String("from", request.From), "sender is not an account managed by this node"})
		return
	}

	ledger, err := s.vm.LedgerAddress()
	if err != nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}

	s.logger.Info("http server received transaction", log.String("method", method), log.String("from", request.From), log.String("value", value.String()))
	receipt, err := s.vm.SendTransaction(r.Context(), &virtualmachine.Transaction{
		From:     from,
		To:       ledger,
		Value:    value,
		Method:   method,
		GasLimit: request.GasLimit,
	})

	if receipt == nil {
		s.writeErrorResponseAndLog(w, errorToHttpErr(err))
		return
	}

	response := toReceiptResponse(receipt)
	code := http.StatusOK
	if err != nil {
		e := errorToHttpErr(err)
		response.Error = e.message
		code = e.code
		s.logger.Info("transaction reverted", log.String("tx-hash", response.TxHash), log.Error(err))
	}
	s.writeJsonResponse(w, code, response)
}

func toReceiptResponse(receipt *virtualmachine.Receipt) *ReceiptResponse {
	response := &ReceiptResponse{
		TxHash:            receipt.TxHash.Hex(),
		From:              receipt.From.Hex(),
		To:                receipt.To.Hex(),
		Method:            receipt.Method,
		Status:            receipt.Status,
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice.String(),
		GasCost:           receipt.GasCost().String(),
	}

	switch output := receipt.Output.(type) {
	case *fundme.FundOutput:
		response.Output = &FundOutputResponse{
			AmountFunded:      output.AmountFunded.String(),
			FirstContribution: output.FirstContribution,
			RequiredAmount:    output.RequiredAmount.String(),
		}
	case *fundme.WithdrawOutput:
		response.Output = &WithdrawOutputResponse{
			Amount:         output.Amount.String(),
			FundersCleared: output.FundersCleared,
		}
	}
	return response
}

func readTransactionRequest(r *http.Request) (*TransactionRequest, *httpErr) {
	bytes, e := readInput(r)
	if e != nil {
		return nil, e
	}

	request := &TransactionRequest{}
	if err := json.Unmarshal(bytes, request); err != nil {
		return nil, &httpErr{http.StatusBadRequest, log.Error(err), "http request is not valid json"}
	}
	if !common.IsHexAddress(request.From) {
		return nil, &httpErr{http.StatusBadRequest, log.String("from", request.From), "from must be a hex address"}
	}
	return request, nil
}

func readInput(r *http.Request) ([]byte, *httpErr) {
	if r.Body == nil {
		return nil, &httpErr{http.StatusBadRequest, nil, "http request body is empty"}
	}

	bytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, &httpErr{http.StatusBadRequest, log.Error(err), "http request body is empty"}
	}
	return bytes, nil
}

func addressParam(r *http.Request, name string) (common.Address, *httpErr) {
	value := chi.URLParam(r, name)
	if !common.IsHexAddress(value) {
		return common.Address{}, &httpErr{http.StatusBadRequest, log.String(name, value), name + " must be a hex address"}
	}
	return common.HexToAddress(value), nil
}

func errorToHttpErr(err error) *httpErr {
	return &httpErr{translateErrorToHttpCode(err), log.Error(err), err.Error()}
}

func translateErrorToHttpCode(err error) int {
	switch errors.Cause(err) {
	case fundme.ErrInsufficientContribution, virtualmachine.ErrInsufficientFunds, gas.ErrOutOfGas:
		return http.StatusBadRequest
	case fundme.ErrNotOwner:
		return http.StatusForbidden
	case fundme.ErrIndexOutOfRange:
		return http.StatusNotFound
	case fundme.ErrTransferFailed:
		return http.StatusConflict
	case virtualmachine.ErrLedgerNotDeployed:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *HttpServer) writeJsonResponse(w http.ResponseWriter, code int, response interface{}) {
	bytes, err := json.Marshal(response)
	if err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusInternalServerError, log.Error(err), "failed encoding response"})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(bytes); err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *HttpServer) writeErrorResponseAndLog(w http.ResponseWriter, m *httpErr) {
	if m.logField == nil {
		s.logger.Info(m.message)
	} else {
		s.logger.Info(m.message, m.logField)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(m.code)
	_, err := w.Write([]byte(m.message))
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}
