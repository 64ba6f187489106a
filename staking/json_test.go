// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakingInfoJSON_PoolListNullability(t *testing.T) {
	info := &StakingInfo{
		BlockNum: 7,
		Candidates: []*Candidate{
			{NodeAddr: node(1), StakingAddr: stakeOf(1), RewardAddr: reward(1), StakingAmount: kaiaOf(6_000_000)},
		},
	}
	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"clStakingInfos":null`)
	assert.Contains(t, string(data), `"councilStakingAmounts":[6000000]`)

	info.CLStakingInfos = []*CLStakingInfo{}
	data, err = json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"clStakingInfos":[]`)

	var decoded StakingInfo
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotNil(t, decoded.CLStakingInfos)
	assert.Equal(t, kaiaOf(6_000_000).String(), decoded.Candidates[0].StakingAmount.String())
}

func TestStakingInfoJSON_LinksPools(t *testing.T) {
	raw := `{
		"blockNum": 12,
		"councilNodeAddrs": ["0x0000000000000000000000000000000000000a01", "0x0000000000000000000000000000000000000a02"],
		"councilStakingAddrs": ["0x0000000000000000000000000000000000000b01", "0x0000000000000000000000000000000000000b02"],
		"councilRewardAddrs": ["0x0000000000000000000000000000000000000c01", "0x0000000000000000000000000000000000000c02"],
		"councilStakingAmounts": [10000000, 5000000],
		"clStakingInfos": [
			{"clNodeId": "0x0000000000000000000000000000000000000a02", "gcId": 2,
			 "clPoolAddr": "0x0000000000000000000000000000000000000d02",
			 "clRewardAddr": "0x0000000000000000000000000000000000000e02", "clStakingAmount": 5000000}
		]
	}`
	var info StakingInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))
	require.Len(t, info.Candidates, 2)
	assert.Nil(t, info.Candidates[0].CL)
	require.NotNil(t, info.Candidates[1].CL)
	assert.Equal(t, uint64(2), info.Candidates[1].CL.GCID)
	assert.Equal(t, kaiaOf(10_000_000).String(), info.Candidates[1].EffectiveAmount(true).String())
}

func TestStakingInfoJSON_LengthMismatch(t *testing.T) {
	raw := `{"councilNodeAddrs": ["0x0000000000000000000000000000000000000a01"], "councilStakingAddrs": [],
		"councilRewardAddrs": [], "councilStakingAmounts": []}`
	var info StakingInfo
	assert.ErrorContains(t, json.Unmarshal([]byte(raw), &info), "council arrays length mismatch")
}
