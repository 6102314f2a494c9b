// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/orbs-network/fundme-go/instrumentation/logfields"
	"github.com/orbs-network/fundme-go/instrumentation/metric"
	"github.com/orbs-network/fundme-go/services/fundme"
	"github.com/orbs-network/fundme-go/services/virtualmachine"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"golang.org/x/time/rate"
	"math/big"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

var LogTag = log.String("adapter", "http-server")

type HttpServerConfig interface {
	NetworkName() string
	ChainId() uint32
	HttpAddress() string
	HttpRateLimit() uint32
	HttpRateBurst() uint32
	Profiling() bool
}

// VirtualMachine is the part of the execution environment the API exposes.
type VirtualMachine interface {
	SendTransaction(ctx context.Context, tx *virtualmachine.Transaction) (*virtualmachine.Receipt, error)
	Query(f func(ledger *fundme.Ledger)) error
	LedgerAddress() (common.Address, error)
	BalanceOf(address common.Address) *big.Int
	Accounts() []common.Address
}

// Keyring holds the keys of the accounts the node sends transactions for.
type Keyring interface {
	Holds(address common.Address) bool
}

type httpErr struct {
	code     int
	logField *log.Field
	message  string
}

type HttpServer struct {
	httpServer     *http.Server
	logger         log.Logger
	vm             VirtualMachine
	keyring        Keyring
	metricRegistry metric.Registry
	config         HttpServerConfig
	limiter        *rate.Limiter

	port   int
	closed chan struct{}
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	err = tc.SetKeepAlive(true)
	if err != nil {
		return nil, err
	}
	err = tc.SetKeepAlivePeriod(35 * time.Second)
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func newServer(cfg HttpServerConfig, logger log.Logger, vm VirtualMachine, keyring Keyring, metricRegistry metric.Registry) *HttpServer {
	return &HttpServer{
		logger:         logger.WithTags(LogTag),
		vm:             vm,
		keyring:        keyring,
		metricRegistry: metricRegistry,
		config:         cfg,
		limiter:        rate.NewLimiter(rate.Limit(cfg.HttpRateLimit()), int(cfg.HttpRateBurst())),
		closed:         make(chan struct{}),
	}
}

func NewHttpServer(cfg HttpServerConfig, logger log.Logger, vm VirtualMachine, keyring Keyring, metricRegistry metric.Registry) *HttpServer {
	server := newServer(cfg, logger, vm, keyring, metricRegistry)

	if listener, err := server.listen(server.config.HttpAddress()); err != nil {
		panic(fmt.Sprintf("failed to start http server: %s", err.Error()))
	} else {
		server.port = listener.Addr().(*net.TCPAddr).Port
		server.httpServer = &http.Server{
			Handler: server.createRouter(),
		}

		// We prefer not to use `HttpServer.ListenAndServe` because we want to block until the socket is listening or exit immediately
		govnr.Once(logfields.GovnrErrorer(server.logger), func() {
			defer close(server.closed)
			if err := server.httpServer.Serve(tcpKeepAliveListener{listener.(*net.TCPListener)}); err != nil && err != http.ErrServerClosed {
				server.logger.Error("http server stopped serving", log.Error(err))
			}
		})
	}

	server.logger.Info("started http server", log.String("address", server.config.HttpAddress()), log.Int("port", server.port))

	return server
}

func (s *HttpServer) Port() int {
	return s.port
}

func (s *HttpServer) listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

func (s *HttpServer) GracefulShutdown(shutdownContext context.Context) {
	if err := s.httpServer.Shutdown(shutdownContext); err != nil {
		s.logger.Error("failed to stop http server gracefully", log.Error(err))
	}
}

func (s *HttpServer) WaitUntilShutdown(shutdownContext context.Context) {
	select {
	case <-s.closed:
	case <-shutdownContext.Done():
		s.logger.Error("http server did not shut down in time")
	}
}

func (s *HttpServer) createRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, wrapHandlerWithCORS)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/price-feed", s.priceFeedHandler)
		r.Get("/owner", s.ownerHandler)
		r.Get("/minimum", s.minimumHandler)
		r.Get("/funders/{index}", s.funderHandler)
		r.Get("/funded/{address}", s.fundedHandler)
		r.Get("/balance/{address}", s.balanceHandler)
		r.Get("/accounts", s.accountsHandler)
		r.Get("/status", s.getStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimited)
			r.Post("/fund", s.fundHandler)
			r.Post("/withdraw", s.withdrawHandler(virtualmachine.MethodWithdraw))
			r.Post("/cheaper-withdraw", s.withdrawHandler(virtualmachine.MethodCheaperWithdraw))
		})
	})

	router.Get("/metrics", s.dumpMetrics)
	router.Get("/metrics.json", s.dumpMetricsJson)
	router.Get("/robots.txt", s.robots)
	router.Post("/debug/logs/filter-on", s.filterOn)
	router.Post("/debug/logs/filter-off", s.filterOff)

	if s.config.Profiling() {
		registerPprof(router)
	}

	return router
}

func (s *HttpServer) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeErrorResponseAndLog(w, &httpErr{http.StatusTooManyRequests, log.String("path", r.URL.Path), "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func registerPprof(router chi.Router) {
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// Allows handler to be called via XHR requests from any host
func wrapHandlerWithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}
