// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/kaiacore/co"
	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/lvldb"
	"github.com/vechain/kaiacore/metrics"
)

func fatal(args ...any) {
	var w io.Writer
	outf, _ := os.Stdout.Stat()
	errf, _ := os.Stderr.Stat()
	if outf != nil && errf != nil && os.SameFile(outf, errf) {
		w = os.Stderr
	} else {
		w = io.MultiWriter(os.Stdout, os.Stderr)
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("value %d exceeds the maximum int value", val)
	}
	return int(val), nil
}

// initLogger installs the root logger and returns its level for the admin server.
func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler, level := log.NewHandler(os.Stderr, log.FromLegacyLevel(lvl), ctx.Bool(jsonLogsFlag.Name), color)
	log.SetDefault(log.NewLogger(handler))
	return level, nil
}

// handleExitSignal returns a context canceled on the first interrupt or terminate signal.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// openSnapshotStore opens the committee snapshot store under the data dir.
// It returns nil when no data dir is set and snapshots are kept in memory only.
func openSnapshotStore(ctx *cli.Context) (*committee.Store, func(), error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return nil, func() {}, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, errors.Wrapf(err, "create data dir [%v]", dir)
	}
	path := filepath.Join(dir, "committee.db")
	db, err := lvldb.New(path, lvldb.Options{CacheSize: 16, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open snapshot database [%v]", path)
	}
	return committee.NewStore(db), func() {
		log.Info("closing snapshot database...")
		if err := db.Close(); err != nil {
			log.Warn("failed to close snapshot database", "err", err)
		}
	}, nil
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	timeout := ctx.Uint64(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, time.Duration(timeout)*time.Millisecond, `{"error":"request timeout"}`)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
