// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves committee, reward and fee queries over http.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/kaiacore/api/fees"
	"github.com/vechain/kaiacore/api/rewards"
	"github.com/vechain/kaiacore/api/transactions"
	"github.com/vechain/kaiacore/api/validators"
	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/metrics"
	"github.com/vechain/kaiacore/reward"
	"github.com/vechain/kaiacore/staking"
	"github.com/vechain/kaiacore/txpool"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins   string
	PprofOn          bool
	EnableReqLogger  bool
	EnableMetrics    bool
	RewardRangeLimit uint64
}

// Backend is what the api answers from.
type Backend struct {
	Ledger      staking.Ledger
	Selector    *committee.Selector
	Distributor *reward.Distributor
	Blocks      reward.BlockSource // optional
	Oracle      *fee.Oracle
	Policy      *fee.Policy
	Forks       kaia.ForkConfig
	Pool        *txpool.Pool // optional
}

// New return api router
func New(b Backend, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	validators.New(b.Selector, b.Ledger).
		Mount(router)
	rewards.New(b.Distributor, b.Blocks, opts.RewardRangeLimit).
		Mount(router, "/rewards")
	fees.New(b.Oracle, b.Policy, b.Forks).
		Mount(router, "/fees")
	if b.Pool != nil {
		transactions.New(b.Pool).
			Mount(router, "/transactions")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
