// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/kaia"
)

// stakerShares splits pool among the validators in proportion to their stake above minStake.
// It returns nothing when no validator has excess stake.
func stakerShares(members []committee.Member, minStake, pool *big.Int) (map[kaia.Address]*big.Int, *big.Int) {
	var (
		excess      = make(map[kaia.Address]*big.Int)
		totalExcess = new(big.Int)
	)
	for _, m := range members {
		if m.Demoted || m.Effective.Cmp(minStake) <= 0 {
			continue
		}
		e := new(big.Int).Sub(m.Effective, minStake)
		excess[m.NodeAddr] = e
		totalExcess.Add(totalExcess, e)
	}

	distributed := new(big.Int)
	if totalExcess.Sign() == 0 {
		return nil, distributed
	}

	shares := make(map[kaia.Address]*big.Int, len(excess))
	for node, e := range excess {
		share := new(big.Int).Mul(pool, e)
		share.Div(share, totalExcess)
		shares[node] = share
		distributed.Add(distributed, share)
	}
	return shares, distributed
}

// splitWithCL shares amount between a council node and its linked pool.
// cl is nil when the member has no pool in the snapshot.
func splitWithCL(mode CLSplit, m committee.Member, amount *big.Int) (cn, cl *big.Int) {
	if m.CL == nil {
		return amount, nil
	}
	switch mode {
	case CLSplitByStake:
		total := new(big.Int).Add(m.Stake, m.CL.Amount)
		if total.Sign() == 0 {
			cl = new(big.Int)
		} else {
			cl = new(big.Int).Mul(amount, m.CL.Amount)
			cl.Div(cl, total)
		}
	default:
		cl = new(big.Int).Rsh(amount, 1)
	}
	return new(big.Int).Sub(amount, cl), cl
}
