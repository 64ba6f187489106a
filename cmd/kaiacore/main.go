// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// kaiacore serves committee, reward and fee decisions of a kaia chain followed over JSON-RPC.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/kaiacore/admin"
	"github.com/vechain/kaiacore/api"
	"github.com/vechain/kaiacore/cmd/kaiacore/follower"
	"github.com/vechain/kaiacore/co"
	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/health"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/metrics"
	"github.com/vechain/kaiacore/nodeclient"
	"github.com/vechain/kaiacore/reward"
	"github.com/vechain/kaiacore/staking"
	"github.com/vechain/kaiacore/txpool"
)

var (
	version   string
	gitCommit string
	gitTag    string

	commonFlags = []cli.Flag{
		nodeFlag,
		networkFlag,
		dataDirFlag,
		verbosityFlag,
		jsonLogsFlag,
		stakingCacheFlag,
		retentionFlag,
		activationModeFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func loadEnv() error {
	path := os.Getenv("KAIACORE_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "load env file [%v]", path)
	}
	return nil
}

func main() {
	if err := loadEnv(); err != nil {
		fatal(err)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "KaiaCore",
		Usage:     "Committee, reward and fee service of a Kaia network",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: append(append([]cli.Flag{}, commonFlags...),
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiRewardRangeFlag,
			enableAPILogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			pollIntervalFlag,
			backfillFlag,
			txPoolLimitFlag,
			txPoolLimitPerAccountFlag,
		),
		Action: serveAction,
		Commands: []cli.Command{
			{
				Name:  "replay",
				Usage: "recompute and sum the rewards of a block range",
				Flags: append(append([]cli.Flag{}, commonFlags...),
					fromFlag,
					toFlag,
					concurrencyFlag,
					verifyFlag,
					noProgressFlag,
				),
				Action: replayAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// core is the domain stack shared by every action.
type core struct {
	client      *nodeclient.Client
	net         *network
	ledger      *staking.NodeLedger
	selector    *committee.Selector
	distributor *reward.Distributor
	opts        committee.Options
	close       func()
}

func newCore(exitCtx context.Context, ctx *cli.Context) (*core, error) {
	client, err := nodeclient.Dial(exitCtx, ctx.String(nodeFlag.Name))
	if err != nil {
		return nil, err
	}

	var net *network
	if path := ctx.String(networkFlag.Name); path != "" {
		net, err = loadNetwork(path)
	} else {
		net, err = networkFromNode(exitCtx, client)
	}
	if err != nil {
		client.Close()
		return nil, err
	}
	opts, err := net.apply(ctx.String(activationModeFlag.Name))
	if err != nil {
		client.Close()
		return nil, err
	}
	kaia.LockConfig()
	if ctx.IsSet(retentionFlag.Name) || opts.Retention == 0 {
		opts.Retention = ctx.Uint64(retentionFlag.Name)
	}

	store, closeStore, err := openSnapshotStore(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}
	opts.Store = store

	closeAll := func() {
		closeStore()
		client.Close()
	}

	ledger, err := staking.NewNodeLedger(client, net.Forks, net.Genesis, ctx.Int(stakingCacheFlag.Name))
	if err != nil {
		closeAll()
		return nil, err
	}
	selector, err := committee.NewSelector(ledger, net.Forks, opts)
	if err != nil {
		closeAll()
		return nil, err
	}
	distributor, err := reward.NewDistributor(selector, net.Forks, net.Reward)
	if err != nil {
		closeAll()
		return nil, err
	}

	log.Info("network loaded",
		"forks", net.Forks,
		"interval", opts.Interval,
		"mode", opts.Mode,
		"minStake", opts.MinStake,
		"retention", opts.Retention)

	return &core{
		client:      client,
		net:         net,
		ledger:      ledger,
		selector:    selector,
		distributor: distributor,
		opts:        opts,
		close:       closeAll,
	}, nil
}

func serveAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	c, err := newCore(exitSignal, ctx)
	if err != nil {
		return err
	}
	defer c.close()

	oracle := fee.NewOracle(c.net.Forks, nil, fee.OracleConfig{})
	policy := fee.NewPolicy(nil, c.client)
	pool := txpool.New(policy, c.net.Forks, txpool.Options{
		Limit:           ctx.Int(txPoolLimitFlag.Name),
		LimitPerAccount: ctx.Int(txPoolLimitPerAccountFlag.Name),
	})

	interval := ctx.Duration(pollIntervalFlag.Name)
	if interval <= 0 {
		interval = time.Second
	}
	h := health.New(interval)

	apiHandler := api.New(api.Backend{
		Ledger:      c.ledger,
		Selector:    c.selector,
		Distributor: c.distributor,
		Blocks:      c.client,
		Oracle:      oracle,
		Policy:      policy,
		Forks:       c.net.Forks,
		Pool:        pool,
	}, api.Options{
		AllowedOrigins:   ctx.String(apiCorsFlag.Name),
		PprofOn:          ctx.Bool(pprofFlag.Name),
		EnableReqLogger:  ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:    enableMetrics,
		RewardRangeLimit: ctx.Uint64(apiRewardRangeFlag.Name),
	})

	apiURL, srvCloser, err := startAPIServer(ctx, apiHandler)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	if enableMetrics {
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
		log.Info("metrics server started", "url", url)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel, h)
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
		log.Info("admin server started", "url", url)
	}

	f := follower.New(c.client, oracle, c.selector, h, follower.Options{
		Interval: interval,
		Backfill: ctx.Uint64(backfillFlag.Name),
		Pool:     pool,
	})
	var goes co.Goes
	goes.Go(func() { f.Run(exitSignal) })
	defer goes.Wait()

	printStartupMessage(c, apiURL, ctx.String(dataDirFlag.Name))

	<-exitSignal.Done()
	return nil
}

func printStartupMessage(c *core, apiURL, dataDir string) {
	if dataDir == "" {
		dataDir = "Memory"
	}
	fmt.Printf(`Starting %v
    Forks        [ %v ]
    Interval     [ %v %v ]
    Min stake    [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		"KaiaCore "+fullVersion(),
		c.net.Forks,
		c.opts.Interval, c.opts.Mode,
		c.opts.MinStake,
		dataDir,
		apiURL)
}
