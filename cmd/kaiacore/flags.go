// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	nodeFlag = cli.StringFlag{
		Name:   "node",
		Value:  "http://localhost:8551",
		Usage:  "JSON-RPC endpoint of the kaia node",
		EnvVar: "KAIACORE_NODE",
	}
	networkFlag = cli.StringFlag{
		Name:   "network",
		Usage:  "path to a network file (yaml), the chain config of the node is used if not set",
		EnvVar: "KAIACORE_NETWORK",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Usage:  "directory to persist committee snapshots, kept in memory if not set",
		EnvVar: "KAIACORE_DATA_DIR",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "KAIACORE_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiRewardRangeFlag = cli.Uint64Flag{
		Name:  "api-reward-range-limit",
		Value: 604_800,
		Usage: "limit the number of blocks /rewards/accumulated may sum",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "KAIACORE_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	stakingCacheFlag = cli.IntFlag{
		Name:  "staking-cache",
		Value: 1024,
		Usage: "number of staking infos cached",
	}
	retentionFlag = cli.Uint64Flag{
		Name:  "retention",
		Value: 128,
		Usage: "staking intervals whose committee snapshots are kept",
	}
	activationModeFlag = cli.StringFlag{
		Name:  "activation-mode",
		Usage: "boundary rule switch at the kaia fork (fork-pinned|interval-aligned), overrides the network file",
	}
	pollIntervalFlag = cli.DurationFlag{
		Name:  "poll-interval",
		Value: 0,
		Usage: "interval between two polls of the node head (1s if zero)",
	}
	backfillFlag = cli.Uint64Flag{
		Name:  "backfill",
		Value: 1024,
		Usage: "blocks below the head ingested at start for fee suggestions",
	}

	txPoolLimitFlag = cli.IntFlag{
		Name:  "txpool-limit",
		Value: 10000,
		Usage: "set tx limit in pool",
	}
	txPoolLimitPerAccountFlag = cli.IntFlag{
		Name:  "txpool-limit-per-account",
		Value: 64,
		Usage: "set tx limit per account in pool",
	}

	// replay only flags
	fromFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "first block to replay",
	}
	toFlag = cli.Uint64Flag{
		Name:  "to",
		Usage: "last block to replay, the node head if zero",
	}
	concurrencyFlag = cli.IntFlag{
		Name:  "concurrency",
		Value: 0,
		Usage: "blocks computed in parallel (GOMAXPROCS if zero)",
	}
	verifyFlag = cli.BoolFlag{
		Name:  "verify",
		Usage: "compare every block with the rewards reported by the node",
	}
	noProgressFlag = cli.BoolFlag{
		Name:  "no-progress",
		Usage: "do not draw a progress bar",
	}
)
