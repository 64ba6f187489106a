// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/staking"
)

func TestNewSnapshot(t *testing.T) {
	info := &staking.StakingInfo{
		BlockNum: 100,
		Candidates: []*staking.Candidate{
			{NodeAddr: node(1), StakingAmount: kaiaOf(1)},
			{NodeAddr: node(2), StakingAmount: kaiaOf(4_000_000)},
			{NodeAddr: node(3), StakingAmount: kaiaOf(5_000_000)},
		},
		CLStakingInfos: []*staking.CLStakingInfo{{NodeAddr: node(2), Amount: kaiaOf(2_000_000)}},
	}
	info.LinkCLs()

	withoutCL := NewSnapshot(100, info, minStake, false, kaia.Address{})
	assert.Equal(t, node(1), withoutCL.GovNode())
	assert.Equal(t, []kaia.Address{node(1), node(3)}, withoutCL.Committee())
	assert.Equal(t, []kaia.Address{node(2)}, withoutCL.Demoted())
	m, ok := withoutCL.Member(node(2))
	require.True(t, ok)
	assert.Nil(t, m.CL)

	withCL := NewSnapshot(100, info, minStake, true, kaia.Address{})
	assert.Equal(t, []kaia.Address{node(1), node(2), node(3)}, withCL.Committee())
	assert.Empty(t, withCL.Demoted())
	assert.Equal(t, uint64(100), withCL.Boundary())
	assert.Equal(t, minStake.String(), withCL.MinStake().String())
}

func TestSnapshotIsImmutable(t *testing.T) {
	info := &staking.StakingInfo{
		Candidates: []*staking.Candidate{
			{NodeAddr: node(1), StakingAmount: kaiaOf(6_000_000)},
			{NodeAddr: node(2), StakingAmount: kaiaOf(8_000_000)},
		},
	}
	snap := NewSnapshot(1, info, minStake, false, kaia.Address{})

	info.Candidates[1].StakingAmount.SetInt64(0)
	members := snap.Members()
	members[0].Effective.SetInt64(0)
	snap.Total().SetInt64(0)
	snap.StakingInfo().Candidates[0].StakingAmount.SetInt64(0)

	m, _ := snap.Member(node(2))
	assert.Equal(t, kaiaOf(8_000_000).String(), m.Stake.String())
	m, _ = snap.Member(node(1))
	assert.Equal(t, kaiaOf(6_000_000).String(), m.Effective.String())
	assert.Equal(t, kaiaOf(14_000_000).String(), snap.Total().String())
	assert.Equal(t, kaiaOf(6_000_000).String(), snap.StakingInfo().Candidates[0].StakingAmount.String())
}

func TestSnapshotEmptyCouncil(t *testing.T) {
	snap := NewSnapshot(0, &staking.StakingInfo{}, minStake, false, kaia.Address{})
	assert.Empty(t, snap.Committee())
	assert.Empty(t, snap.Council())
	assert.Equal(t, "0", snap.Total().String())
}
