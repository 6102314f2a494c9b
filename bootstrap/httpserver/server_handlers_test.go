// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"context"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/test"
	"github.com/orbs-network/fundme-go/test/with"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
)

func TestHttpServerFundHandler_Succeeds(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())

			rec := h.fund(h.funder, oneEther())
			require.Equal(t, http.StatusOK, rec.Code, "should succeed: %s", rec.Body.String())

			var receipt struct {
				Status uint64             `json:"status"`
				Method string             `json:"method"`
				Output FundOutputResponse `json:"output"`
			}
			h.decode(rec, &receipt)
			require.EqualValues(t, 1, receipt.Status)
			require.Equal(t, "fund", receipt.Method)
			require.Equal(t, oneEther(), receipt.Output.AmountFunded)
			require.True(t, receipt.Output.FirstContribution)

			var funded FundedResponse
			h.decode(h.get("/api/v1/funded/"+h.funder.Hex()), &funded)
			require.Equal(t, oneEther(), funded.Amount)
			require.Equal(t, "2000000000000000000000", funded.Usd, "one ether at the mock price of 2000 usd")

			var funder FunderResponse
			h.decode(h.get("/api/v1/funders/0"), &funder)
			require.Equal(t, h.funder.Hex(), funder.Address)
		})
	})
}

func TestHttpServerFundHandler_RejectsSmallContribution(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())

			rec := h.fund(h.funder, "1")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var receipt ReceiptResponse
			h.decode(rec, &receipt)
			require.EqualValues(t, 0, receipt.Status, "reverted transactions still return a receipt")
			require.Contains(t, receipt.Error, fundme.ErrInsufficientContribution.Error())
			require.NotEqual(t, "0", receipt.GasCost, "gas is paid on revert")
		})
	})
}

func TestHttpServerFundHandler_RejectsBadRequests(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())

			require.Equal(t, http.StatusBadRequest, h.post("/api/v1/fund", &TransactionRequest{From: "bob", Value: oneEther()}).Code, "from must be an address")
			require.Equal(t, http.StatusBadRequest, h.fund(h.funder, "lots").Code, "value must be a number")
			require.Equal(t, http.StatusBadRequest, h.fund(h.funder, "-1").Code, "value must not be negative")
		})
	})
}

func TestHttpServerWithdrawHandler_RejectsSenderWithoutKey(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())
			require.Equal(t, http.StatusOK, h.fund(h.funder, oneEther()).Code)
			delete(h.keyring, h.owner)
			nonce := h.vm.NonceOf(h.owner)

			for _, path := range []string{"/api/v1/withdraw", "/api/v1/cheaper-withdraw"} {
				rec := h.post(path, &TransactionRequest{From: h.owner.Hex()})
				require.Equal(t, http.StatusForbidden, rec.Code, "%s naming the owner without holding its key should be forbidden", path)
			}
			require.Equal(t, http.StatusForbidden, h.fund(h.owner, oneEther()).Code, "fund also requires a held key")

			require.Equal(t, nonce, h.vm.NonceOf(h.owner), "no transaction should have been sent")
			ledger, err := h.vm.LedgerAddress()
			require.NoError(t, err)
			require.Equal(t, oneEther(), h.vm.BalanceOf(ledger).String(), "ledger keeps the contribution")
		})
	})
}

func TestHttpServerWithdrawHandler_OnlyOwner(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())
			require.Equal(t, http.StatusOK, h.fund(h.funder, oneEther()).Code)

			for _, path := range []string{"/api/v1/withdraw", "/api/v1/cheaper-withdraw"} {
				rec := h.post(path, &TransactionRequest{From: h.funder.Hex()})
				require.Equal(t, http.StatusForbidden, rec.Code, "%s by a funder should be forbidden", path)
			}

			rec := h.post("/api/v1/cheaper-withdraw", &TransactionRequest{From: h.owner.Hex()})
			require.Equal(t, http.StatusOK, rec.Code, "owner should withdraw: %s", rec.Body.String())

			var receipt struct {
				Output WithdrawOutputResponse `json:"output"`
			}
			h.decode(rec, &receipt)
			require.Equal(t, oneEther(), receipt.Output.Amount)
			require.Equal(t, 1, receipt.Output.FundersCleared)
		})
	})
}

func TestHttpServerFunderHandler_OutOfRange(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())

			require.Equal(t, http.StatusNotFound, h.get("/api/v1/funders/0").Code, "no funders yet")
			require.Equal(t, http.StatusBadRequest, h.get("/api/v1/funders/first").Code)
			require.Equal(t, http.StatusBadRequest, h.get("/api/v1/funded/0x123").Code)
		})
	})
}

func TestHttpServerReadHandlers(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())

			var owner AddressResponse
			h.decode(h.get("/api/v1/owner"), &owner)
			require.Equal(t, h.owner.Hex(), owner.Address)

			var feed AddressResponse
			h.decode(h.get("/api/v1/price-feed"), &feed)
			require.NotEmpty(t, feed.Address)

			var minimum MinimumResponse
			h.decode(h.get("/api/v1/minimum"), &minimum)
			require.Equal(t, "50000000000000000000", minimum.Usd)
			require.Equal(t, "25000000000000000", minimum.Wei, "50 USD at 2000 USD per ETH")

			var accounts AccountsResponse
			h.decode(h.get("/api/v1/accounts"), &accounts)
			require.Len(t, accounts.Accounts, 2, "owner and funder")

			var balance AmountResponse
			h.decode(h.get("/api/v1/balance/"+h.funder.Hex()), &balance)
			require.Equal(t, "100000000000000000000", balance.Amount)
		})
	})
}

func TestHttpServerStatusAndMetrics(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			h := newHarness(ctx, t, parent.Logger, testServerConfig())
			require.Equal(t, http.StatusOK, h.fund(h.funder, oneEther()).Code)

			var status StatusResponse
			h.decode(h.get("/api/v1/status"), &status)
			require.Equal(t, 1, status.Ledger.Funders)
			require.Equal(t, oneEther(), status.Ledger.TotalWei)
			require.Equal(t, h.owner.Hex(), status.Ledger.Owner)

			rec := h.get("/metrics")
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), "FundMe_Ledger_Funders")
			require.Contains(t, rec.Body.String(), "VirtualMachine_Transactions_Succeeded")
		})
	})
}
