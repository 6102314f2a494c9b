// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/orbs-network/fundme-go/config"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme/adapter/memory"
	"github.com/orbs-network/fundme-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
)

type harness struct {
	t        testing.TB
	server   *HttpServer
	router   http.Handler
	vm       *virtualmachine.Service
	keyring  addressKeyring
	registry metric.Registry
	owner    common.Address
	funder   common.Address
}

type addressKeyring map[common.Address]bool

func (k addressKeyring) Holds(address common.Address) bool {
	return k[address]
}

func newHarness(ctx context.Context, tb testing.TB, logger log.Logger, cfg HttpServerConfig) *harness {
	registry := metric.NewRegistry()
	vm := virtualmachine.NewVirtualMachine(config.ForLedgerTests(1), logger, registry)

	owner := generateAddress(tb)
	funder := generateAddress(tb)
	balance := new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	vm.Alloc(owner, balance)
	vm.Alloc(funder, balance)

	feed := memory.NewDefaultMockAggregator(vm.ReserveContractAddress(owner))
	_, err := vm.DeployLedger(ctx, owner, feed)
	require.NoError(tb, err)

	keyring := addressKeyring{owner: true, funder: true}
	server := newServer(cfg, logger, vm, keyring, registry)
	return &harness{
		t:        tb,
		server:   server,
		router:   server.createRouter(),
		vm:       vm,
		keyring:  keyring,
		registry: registry,
		owner:    owner,
		funder:   funder,
	}
}

func generateAddress(tb testing.TB) common.Address {
	key, err := crypto.GenerateKey()
	require.NoError(tb, err)
	return crypto.PubkeyToAddress(key.PublicKey)
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) post(path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(h.t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) fund(from common.Address, wei string) *httptest.ResponseRecorder {
	return h.post("/api/v1/fund", &TransactionRequest{From: from.Hex(), Value: wei})
}

func (h *harness) decode(rec *httptest.ResponseRecorder, into interface{}) {
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), into), "response should be json: %s", rec.Body.String())
}

func testServerConfig() *ServerConfig {
	return NewServerConfig("127.0.0.1:0", 1000, 1000, false)
}

func oneEther() string {
	return fmt.Sprintf("%d", int64(1e18))
}
