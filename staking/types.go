// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/kaiacore/kaia"
)

// CLStakingInfo is a community staking pool linked to a council node.
type CLStakingInfo struct {
	NodeAddr   kaia.Address // node id of the paired council node
	GCID       uint64
	PoolAddr   kaia.Address
	RewardAddr kaia.Address
	Amount     *big.Int // in kei
}

// Candidate is one registered council member as of a block.
type Candidate struct {
	NodeAddr      kaia.Address
	StakingAddr   kaia.Address
	RewardAddr    kaia.Address
	StakingAmount *big.Int       // in kei
	CL            *CLStakingInfo `rlp:"nil"` // linked pool, set from prague only
}

// EffectiveAmount returns the stake counted for eligibility and reward weighting.
// The linked pool amount is added only when withCL is set.
func (c *Candidate) EffectiveAmount(withCL bool) *big.Int {
	amount := new(big.Int).Set(c.StakingAmount)
	if withCL && c.CL != nil && c.CL.Amount != nil {
		amount.Add(amount, c.CL.Amount)
	}
	return amount
}

// Copy returns a deep copy of the candidate.
func (c *Candidate) Copy() *Candidate {
	cpy := *c
	cpy.StakingAmount = new(big.Int).Set(c.StakingAmount)
	if c.CL != nil {
		cl := c.CL.Copy()
		cpy.CL = cl
	}
	return &cpy
}

// Copy returns a deep copy of the pool info.
func (cl *CLStakingInfo) Copy() *CLStakingInfo {
	cpy := *cl
	cpy.Amount = new(big.Int).Set(cl.Amount)
	return &cpy
}

// StakingInfo is the point-in-time view of the council at a block.
type StakingInfo struct {
	BlockNum   uint64
	Candidates []*Candidate // registration order

	// CLStakingInfos is nil strictly before prague and non-nil (maybe empty) from it.
	CLStakingInfos []*CLStakingInfo

	KEFAddr kaia.Address // ecosystem fund
	KIFAddr kaia.Address // infrastructure fund
}

// Copy returns a deep copy of the staking info.
func (si *StakingInfo) Copy() *StakingInfo {
	cpy := &StakingInfo{
		BlockNum:   si.BlockNum,
		Candidates: make([]*Candidate, 0, len(si.Candidates)),
		KEFAddr:    si.KEFAddr,
		KIFAddr:    si.KIFAddr,
	}
	for _, c := range si.Candidates {
		cpy.Candidates = append(cpy.Candidates, c.Copy())
	}
	if si.CLStakingInfos != nil {
		cpy.CLStakingInfos = make([]*CLStakingInfo, 0, len(si.CLStakingInfos))
		for _, cl := range si.CLStakingInfos {
			cpy.CLStakingInfos = append(cpy.CLStakingInfos, cl.Copy())
		}
		cpy.LinkCLs()
	}
	return cpy
}

// Candidate returns the candidate registered with the given node address.
func (si *StakingInfo) Candidate(node kaia.Address) (*Candidate, bool) {
	for _, c := range si.Candidates {
		if c.NodeAddr == node {
			return c, true
		}
	}
	return nil, false
}

// LinkCLs attaches each pool to the candidate sharing its node address.
// Pools whose node address matches no candidate stay unlinked.
func (si *StakingInfo) LinkCLs() {
	for _, c := range si.Candidates {
		c.CL = nil
	}
	for _, cl := range si.CLStakingInfos {
		if c, ok := si.Candidate(cl.NodeAddr); ok && c.CL == nil {
			c.CL = cl
		}
	}
}

// TotalStake sums the effective amounts of all candidates.
func (si *StakingInfo) TotalStake(withCL bool) *big.Int {
	total := new(big.Int)
	for _, c := range si.Candidates {
		total.Add(total, c.EffectiveAmount(withCL))
	}
	return total
}
