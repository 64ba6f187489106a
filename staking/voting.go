// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/kaiacore/kaia"
)

// VotingPower returns the governance votes backed by amount, one vote per full minStake.
// Votes are capped at numEligible-1, or at 1 when there is at most one eligible member.
func VotingPower(amount, minStake *big.Int, numEligible int) uint64 {
	if minStake.Sign() <= 0 || amount.Sign() <= 0 {
		return 0
	}
	limit := int64(1)
	if numEligible > 1 {
		limit = int64(numEligible - 1)
	}
	votes := new(big.Int).Quo(amount, minStake)
	if votes.Cmp(big.NewInt(limit)) > 0 {
		return uint64(limit)
	}
	return votes.Uint64()
}

// Votes returns the voting power of each candidate at or above minStake, keyed by node address.
func (si *StakingInfo) Votes(minStake *big.Int, forks kaia.ForkConfig) map[kaia.Address]uint64 {
	withCL := forks.StateAt(si.BlockNum).AtLeast(kaia.Prague)

	eligible := 0
	for _, c := range si.Candidates {
		if c.EffectiveAmount(withCL).Cmp(minStake) >= 0 {
			eligible++
		}
	}
	votes := make(map[kaia.Address]uint64, eligible)
	for _, c := range si.Candidates {
		amount := c.EffectiveAmount(withCL)
		if amount.Cmp(minStake) >= 0 {
			votes[c.NodeAddr] = VotingPower(amount, minStake, eligible)
		}
	}
	return votes
}
