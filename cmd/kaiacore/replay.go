// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/kaiacore/api/rewards"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/nodeclient"
	"github.com/vechain/kaiacore/reward"
)

// mismatch is a block whose computed split differs from the node's report.
type mismatch struct {
	BlockNum uint64   `json:"blockNumber"`
	Fields   []string `json:"fields"`
}

type replayResult struct {
	*rewards.Accumulated
	Mismatches []mismatch `json:"mismatches,omitempty"`
}

func replayAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	if _, err := initLogger(ctx); err != nil {
		return err
	}

	c, err := newCore(exitSignal, ctx)
	if err != nil {
		return err
	}
	defer c.close()

	from, to := ctx.Uint64(fromFlag.Name), ctx.Uint64(toFlag.Name)
	if to == 0 {
		if to, err = c.client.BlockNumber(exitSignal); err != nil {
			return errors.Wrap(err, "get head")
		}
	}
	if from > to {
		return errors.Errorf("invalid range [%d, %d]", from, to)
	}
	log.Info("replaying rewards", "range", fmt.Sprintf("[%d, %d]", from, to))

	var bar *pb.ProgressBar
	if !ctx.Bool(noProgressFlag.Name) && from != to {
		bar = pb.New64(int64(to - from + 1)).
			Set64(0).
			SetMaxWidth(90)
		bar.Output = os.Stderr
		bar.Start()
		defer func() { bar.NotPrint = true }()
	}

	var (
		verify     = ctx.Bool(verifyFlag.Name)
		mu         sync.Mutex
		mismatches []mismatch
	)
	acc, err := c.distributor.Accumulate(exitSignal, c.client, from, to, reward.AccumulateOptions{
		Concurrency: ctx.Int(concurrencyFlag.Name),
		OnBlock: func(s *reward.Split) {
			if bar != nil {
				bar.Increment()
			}
			if !verify {
				return
			}
			reported, err := c.client.GetRewards(exitSignal, s.BlockNum)
			if err != nil {
				log.Warn("failed to get node rewards", "block", s.BlockNum, "err", err)
				return
			}
			if fields := diffRewards(s, reported); len(fields) > 0 {
				log.Debug("rewards mismatch", "block", s.BlockNum, "fields", fields)
				mu.Lock()
				mismatches = append(mismatches, mismatch{s.BlockNum, fields})
				mu.Unlock()
			}
		},
	})
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].BlockNum < mismatches[j].BlockNum })
	out, err := json.MarshalIndent(replayResult{rewards.ConvertAccumulated(acc), mismatches}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if len(mismatches) > 0 {
		return errors.Errorf("%d of %d blocks differ from the node", len(mismatches), to-from+1)
	}
	return nil
}

func sameAmount(a, b *big.Int) bool {
	if a == nil {
		a = new(big.Int)
	}
	if b == nil {
		b = new(big.Int)
	}
	return a.Cmp(b) == 0
}

// diffRewards returns the names of the fields where the split and the node report disagree.
func diffRewards(s *reward.Split, r *nodeclient.Rewards) []string {
	var fields []string
	for _, f := range []struct {
		name string
		a, b *big.Int
	}{
		{"minted", s.Minted, r.Minted},
		{"totalFee", s.TotalFee, r.TotalFee},
		{"burntFee", s.BurntFee, r.BurntFee},
		{"proposer", s.Proposer, r.Proposer},
		{"stakers", s.Stakers, r.Stakers},
		{"kif", s.KIF, r.KIF},
		{"kef", s.KEF, r.KEF},
	} {
		if !sameAmount(f.a, f.b) {
			fields = append(fields, f.name)
		}
	}

	addrs := make(map[kaia.Address]struct{}, len(s.Rewards))
	for addr := range s.Rewards {
		addrs[addr] = struct{}{}
	}
	for addr := range r.Rewards {
		addrs[addr] = struct{}{}
	}
	var differ []string
	for addr := range addrs {
		if !sameAmount(s.Rewards[addr], r.Rewards[addr]) {
			differ = append(differ, "rewards."+addr.String())
		}
	}
	sort.Strings(differ)
	return append(fields, differ...)
}
