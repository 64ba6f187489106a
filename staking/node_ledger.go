// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"context"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/vechain/kaiacore/kaia"
)

// Source is the subset of the node's RPC surface a NodeLedger reads from.
type Source interface {
	BlockNumber(ctx context.Context) (uint64, error)
	GetStakingInfo(ctx context.Context, blockNum uint64) (*StakingInfo, error)
}

// NodeLedger is a Ledger answered by a running node.
// Staking info of committed blocks never changes, so answers are cached by block number.
type NodeLedger struct {
	src     Source
	forks   kaia.ForkConfig
	genesis uint64
	cache   *lru.Cache
	group   singleflight.Group
}

var _ Ledger = (*NodeLedger)(nil)

// NewNodeLedger creates a ledger over src keeping up to cacheSize staking infos.
func NewNodeLedger(src Source, forks kaia.ForkConfig, genesis uint64, cacheSize int) (*NodeLedger, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "staking info cache")
	}
	return &NodeLedger{
		src:     src,
		forks:   forks,
		genesis: genesis,
		cache:   cache,
	}, nil
}

// Head implements Ledger.
func (l *NodeLedger) Head(ctx context.Context) (uint64, error) {
	return l.src.BlockNumber(ctx)
}

// StakingInfo implements Ledger.
func (l *NodeLedger) StakingInfo(ctx context.Context, blockNum uint64) (*StakingInfo, error) {
	if blockNum < l.genesis {
		return nil, ErrNotFound
	}
	if cached, ok := l.cache.Get(blockNum); ok {
		return cached.(*StakingInfo).Copy(), nil
	}

	head, err := l.src.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	if blockNum > head {
		return nil, errors.Wrapf(ErrNotYetAvailable, "block %d, head %d", blockNum, head)
	}

	v, err, _ := l.group.Do(strconv.FormatUint(blockNum, 10), func() (any, error) {
		info, err := l.src.GetStakingInfo(ctx, blockNum)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, ErrNotFound
		}
		info.BlockNum = blockNum
		l.normalize(info)
		l.cache.Add(blockNum, info)
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*StakingInfo).Copy(), nil
}

// normalize makes the pool list follow the fork rule even if the node omits or adds it.
func (l *NodeLedger) normalize(info *StakingInfo) {
	if !l.forks.StateAt(info.BlockNum).AtLeast(kaia.Prague) {
		if info.CLStakingInfos != nil {
			logger.Debug("dropping pool info before prague", "block", info.BlockNum)
		}
		info.CLStakingInfos = nil
		for _, c := range info.Candidates {
			c.CL = nil
		}
		return
	}
	if info.CLStakingInfos == nil {
		info.CLStakingInfos = []*CLStakingInfo{}
	}
	info.LinkCLs()
}
