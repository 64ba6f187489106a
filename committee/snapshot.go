// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"math/big"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/staking"
)

// Member is one council member as seen by a snapshot.
type Member struct {
	NodeAddr    kaia.Address
	StakingAddr kaia.Address
	RewardAddr  kaia.Address
	Stake       *big.Int               // council node stake
	CL          *staking.CLStakingInfo // linked pool, counted only when the snapshot counts pools
	Effective   *big.Int               // stake used for eligibility and rewards
	Demoted     bool
}

func (m Member) copy() Member {
	cpy := m
	cpy.Stake = new(big.Int).Set(m.Stake)
	cpy.Effective = new(big.Int).Set(m.Effective)
	if m.CL != nil {
		cpy.CL = m.CL.Copy()
	}
	return cpy
}

// Snapshot is the committee decision derived from the staking info at one boundary block.
// A snapshot is never modified once built; accessors return copies.
type Snapshot struct {
	boundary uint64
	minStake *big.Int
	withCL   bool
	gov      kaia.Address
	members  []Member // registration order
	total    *big.Int
	info     *staking.StakingInfo
}

// NewSnapshot derives the committee at boundary from info.
// A zero gov picks the first registered candidate as governing node.
func NewSnapshot(boundary uint64, info *staking.StakingInfo, minStake *big.Int, withCL bool, gov kaia.Address) *Snapshot {
	info = info.Copy()
	if !withCL {
		for _, c := range info.Candidates {
			c.CL = nil
		}
	}
	if gov.IsZero() && len(info.Candidates) > 0 {
		gov = info.Candidates[0].NodeAddr
	}

	s := &Snapshot{
		boundary: boundary,
		minStake: new(big.Int).Set(minStake),
		withCL:   withCL,
		gov:      gov,
		members:  make([]Member, 0, len(info.Candidates)),
		total:    new(big.Int),
		info:     info,
	}

	qualified := 0
	for _, c := range info.Candidates {
		m := Member{
			NodeAddr:    c.NodeAddr,
			StakingAddr: c.StakingAddr,
			RewardAddr:  c.RewardAddr,
			Stake:       c.StakingAmount,
			CL:          c.CL,
			Effective:   c.EffectiveAmount(withCL),
		}
		if m.NodeAddr != gov {
			if m.Effective.Cmp(minStake) < 0 {
				m.Demoted = true
			} else {
				qualified++
			}
		}
		s.total.Add(s.total, m.Effective)
		s.members = append(s.members, m)
	}
	// nobody is demoted when no one but the governing node would remain
	if qualified == 0 {
		for i := range s.members {
			s.members[i].Demoted = false
		}
	}
	return s
}

// Boundary returns the block number whose staking info the snapshot reflects.
func (s *Snapshot) Boundary() uint64 { return s.boundary }

// MinStake returns the eligibility threshold used.
func (s *Snapshot) MinStake() *big.Int { return new(big.Int).Set(s.minStake) }

// WithCL reports whether linked pool stakes are counted.
func (s *Snapshot) WithCL() bool { return s.withCL }

// GovNode returns the governing node, which is never demoted.
func (s *Snapshot) GovNode() kaia.Address { return s.gov }

// Total returns the sum of effective stakes of the whole council.
func (s *Snapshot) Total() *big.Int { return new(big.Int).Set(s.total) }

// Funds returns the ecosystem and infrastructure fund addresses.
func (s *Snapshot) Funds() (kef, kif kaia.Address) { return s.info.KEFAddr, s.info.KIFAddr }

// StakingInfo returns a copy of the staking info the snapshot was built from.
func (s *Snapshot) StakingInfo() *staking.StakingInfo { return s.info.Copy() }

// Members returns every council member in registration order.
func (s *Snapshot) Members() []Member {
	out := make([]Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.copy())
	}
	return out
}

// Member returns the member with the given node address.
func (s *Snapshot) Member(node kaia.Address) (Member, bool) {
	for _, m := range s.members {
		if m.NodeAddr == node {
			return m.copy(), true
		}
	}
	return Member{}, false
}

// Council returns the node addresses of all council members.
func (s *Snapshot) Council() []kaia.Address {
	out := make([]kaia.Address, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.NodeAddr)
	}
	return out
}

// Committee returns the node addresses of members that are not demoted.
func (s *Snapshot) Committee() []kaia.Address {
	var out []kaia.Address
	for _, m := range s.members {
		if !m.Demoted {
			out = append(out, m.NodeAddr)
		}
	}
	return out
}

// Demoted returns the node addresses of members below the threshold.
func (s *Snapshot) Demoted() []kaia.Address {
	out := []kaia.Address{}
	for _, m := range s.members {
		if m.Demoted {
			out = append(out, m.NodeAddr)
		}
	}
	return out
}
