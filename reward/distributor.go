// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward splits the minted subsidy and the transaction fees of a block
// between the proposer, the stakers, the funds and the burn.
package reward

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
)

var logger = log.WithContext("pkg", "reward")

// Distributor computes block rewards against the committee snapshot of each block.
type Distributor struct {
	selector *committee.Selector
	forks    kaia.ForkConfig
	config   Config
}

// NewDistributor creates a distributor.
func NewDistributor(selector *committee.Selector, forks kaia.ForkConfig, config Config) (*Distributor, error) {
	if err := forks.Validate(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, errors.WithMessage(err, "reward config")
	}
	return &Distributor{
		selector: selector,
		forks:    forks,
		config:   config,
	}, nil
}

// Config returns the reward parameters.
func (d *Distributor) Config() Config { return d.config }

// Distribute computes the split of block blockNum proposed by proposer.
func (d *Distributor) Distribute(ctx context.Context, blockNum uint64, proposer kaia.Address, fees Fees) (*Split, error) {
	snap, err := d.selector.SnapshotAt(ctx, blockNum)
	if err != nil {
		return nil, err
	}

	fork := d.forks.StateAt(blockNum)
	split, err := Calculate(&d.config, Input{
		BlockNum: blockNum,
		Fork:     fork,
		Proposer: proposer,
		Fees:     fees,
		Snapshot: snap,
	})
	if err != nil {
		if IsFatal(err) {
			metricDistributeCount().AddWithLabel(1, map[string]string{"result": "fatal"})
			logger.Error("reward desync", "block", blockNum, "proposer", proposer, "boundary", snap.Boundary())
		}
		return nil, err
	}
	metricDistributeCount().AddWithLabel(1, map[string]string{"result": "ok"})
	metricBurntFee().Observe(toGkei(split.BurntFee))
	logger.Trace("reward distributed", "block", blockNum, "fork", fork, "proposer", split.Proposer,
		"stakers", split.Stakers, "burnt", split.BurntFee)
	return split, nil
}
