// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"context"
	"errors"
	"math/big"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
)

var logger = log.WithContext("pkg", "staking")

var (
	// ErrNotFound is returned for a block before the ledger genesis. It is permanent.
	ErrNotFound = errors.New("staking info not found")
	// ErrNotYetAvailable is returned for a block above the committed head.
	ErrNotYetAvailable = errors.New("block not yet available")
	// ErrUnknownCandidate is returned when a node address is not in the council.
	ErrUnknownCandidate = errors.New("unknown candidate")
)

// IsNotFound reports whether err means the block precedes the ledger genesis.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNotYetAvailable reports whether err means the block is not committed yet.
func IsNotYetAvailable(err error) bool { return errors.Is(err, ErrNotYetAvailable) }

// Ledger is a read-only, point-in-time projection of staking balances.
// A read at block N reflects every stake change included up to and including block N, and none after.
// Implementations must be safe for concurrent use with distinct block numbers.
type Ledger interface {
	// StakingInfo returns the council at blockNum. The result is owned by the caller.
	StakingInfo(ctx context.Context, blockNum uint64) (*StakingInfo, error)
	// Head returns the highest committed block.
	Head(ctx context.Context) (uint64, error)
}

// Stake returns the staked amount of the node at blockNum, without any linked pool.
func Stake(ctx context.Context, l Ledger, node kaia.Address, blockNum uint64) (*big.Int, error) {
	info, err := l.StakingInfo(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	c, ok := info.Candidate(node)
	if !ok {
		return nil, ErrUnknownCandidate
	}
	return c.StakingAmount, nil
}

// Candidates returns every registered candidate at blockNum in registration order.
func Candidates(ctx context.Context, l Ledger, blockNum uint64) ([]*Candidate, error) {
	info, err := l.StakingInfo(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	return info.Candidates, nil
}
