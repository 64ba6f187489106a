// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"context"
	"math/big"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/kaiacore/kaia"
)

// Block is what the split of a committed block depends on besides the snapshot.
type Block struct {
	Number   uint64
	Proposer kaia.Address
	Fees     Fees
}

// BlockSource reads committed blocks.
type BlockSource interface {
	Block(ctx context.Context, blockNum uint64) (*Block, error)
}

// AccumulateOptions tunes Accumulate.
type AccumulateOptions struct {
	Concurrency int            // GOMAXPROCS if zero
	OnBlock     func(s *Split) // called once per block, from any goroutine
}

// Accumulated sums the splits of a block range.
type Accumulated struct {
	From     uint64
	To       uint64
	Minted   *big.Int
	TotalFee *big.Int
	BurntFee *big.Int
	Proposer *big.Int
	Stakers  *big.Int
	KIF      *big.Int
	KEF      *big.Int
	Rewards  map[kaia.Address]*big.Int
}

func (a *Accumulated) add(s *Split) {
	a.Minted.Add(a.Minted, s.Minted)
	a.TotalFee.Add(a.TotalFee, s.TotalFee)
	a.BurntFee.Add(a.BurntFee, s.BurntFee)
	a.Proposer.Add(a.Proposer, s.Proposer)
	a.Stakers.Add(a.Stakers, s.Stakers)
	a.KIF.Add(a.KIF, s.KIF)
	a.KEF.Add(a.KEF, s.KEF)
	for addr, amount := range s.Rewards {
		if cur, ok := a.Rewards[addr]; ok {
			cur.Add(cur, amount)
		} else {
			a.Rewards[addr] = new(big.Int).Set(amount)
		}
	}
}

// Accumulate sums the splits of blocks from to to, both included.
// Blocks are computed in parallel, each against its own snapshot.
func (d *Distributor) Accumulate(ctx context.Context, src BlockSource, from, to uint64, opts AccumulateOptions) (*Accumulated, error) {
	if from > to {
		return nil, errors.Errorf("invalid range [%d, %d]", from, to)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	splits := make([]*Split, to-from+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for n := from; n <= to; n++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := src.Block(gctx, n)
			if err != nil {
				return errors.WithMessagef(err, "read block %d", n)
			}
			s, err := d.Distribute(gctx, n, b.Proposer, b.Fees)
			if err != nil {
				return errors.WithMessagef(err, "block %d", n)
			}
			splits[n-from] = s
			metricAccumulated().Add(1)
			if opts.OnBlock != nil {
				opts.OnBlock(s)
			}
			return nil
		})
		if n == to {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := &Accumulated{
		From:     from,
		To:       to,
		Minted:   new(big.Int),
		TotalFee: new(big.Int),
		BurntFee: new(big.Int),
		Proposer: new(big.Int),
		Stakers:  new(big.Int),
		KIF:      new(big.Int),
		KEF:      new(big.Int),
		Rewards:  make(map[kaia.Address]*big.Int),
	}
	for _, s := range splits {
		acc.add(s)
	}
	logger.Debug("rewards accumulated", "from", from, "to", to, "minted", acc.Minted, "burnt", acc.BurntFee)
	return acc, nil
}
