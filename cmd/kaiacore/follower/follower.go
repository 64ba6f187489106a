// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package follower tracks the head of a node and feeds every new block to the fee oracle.
package follower

import (
	"context"
	"time"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/health"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/metrics"
	"github.com/vechain/kaiacore/txpool"
)

var (
	logger = log.WithContext("pkg", "follower")

	metricHead      = metrics.LazyLoadGauge("follower_head_block")
	metricIngested  = metrics.LazyLoadCounter("follower_ingested_block_count")
	metricPollError = metrics.LazyLoadCounter("follower_poll_error_count")
)

// Source reads the node head and the fees of committed blocks.
type Source interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockFees(ctx context.Context, blockNum uint64) (*fee.BlockFees, error)
}

// Options tunes a Follower. Zero values pick defaults.
type Options struct {
	Interval time.Duration // poll interval, 1s if zero
	Backfill uint64        // blocks ingested below the head at start, 128 if zero
	Pool     *txpool.Pool  // optional, repriced for every new pending block
}

// Follower polls the node and pushes each new block into the oracle.
// When a selector is set, the committee of the next block is built ahead of its first query.
type Follower struct {
	src      Source
	oracle   *fee.Oracle
	selector *committee.Selector // optional
	health   *health.Health      // optional
	opts     Options

	next    uint64
	started bool
}

func New(src Source, oracle *fee.Oracle, selector *committee.Selector, h *health.Health, opts Options) *Follower {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Backfill == 0 {
		opts.Backfill = 128
	}
	return &Follower{src: src, oracle: oracle, selector: selector, health: h, opts: opts}
}

// Run polls until ctx is done.
func (f *Follower) Run(ctx context.Context) {
	ticker := time.NewTicker(f.opts.Interval)
	defer ticker.Stop()

	for {
		if err := f.poll(ctx); err != nil && ctx.Err() == nil {
			metricPollError().Add(1)
			logger.Warn("failed to follow node", "next", f.next, "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll ingests every block from the next expected one up to the current head.
func (f *Follower) poll(ctx context.Context) error {
	head, err := f.src.BlockNumber(ctx)
	if err != nil {
		return err
	}
	metricHead().Set(int64(head))

	if !f.started {
		if head >= f.opts.Backfill {
			f.next = head - f.opts.Backfill + 1
		}
		f.started = true
	}

	from := f.next
	for f.next <= head {
		if err := ctx.Err(); err != nil {
			return err
		}
		bf, err := f.src.BlockFees(ctx, f.next)
		if err != nil {
			return err
		}
		f.oracle.Push(*bf)
		metricIngested().Add(1)
		if f.health != nil {
			f.health.NewBlock(f.next)
		}
		if f.selector != nil {
			if _, err := f.selector.CommitteeAt(ctx, f.next+1); err != nil {
				logger.Debug("committee not prepared", "block", f.next+1, "err", err)
			}
		}
		f.next++
	}
	if f.opts.Pool != nil && f.next > from {
		if number, baseFee, ok := f.oracle.PendingBaseFee(); ok {
			dropped, err := f.opts.Pool.Reprice(ctx, number, baseFee)
			if err != nil {
				return err
			}
			if dropped > 0 {
				logger.Debug("txs dropped from pool", "pending", number, "count", dropped)
			}
		}
	}
	if f.health != nil {
		f.health.BootstrapStatus(true)
	}
	logger.Trace("followed node", "head", head)
	return nil
}
