// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/kaia"
)

// The node reports staking amounts in whole KAIA, in parallel arrays.

type jsonCLStakingInfo struct {
	CLNodeID        kaia.Address `json:"clNodeId"`
	GCID            uint64       `json:"gcId"`
	CLPoolAddr      kaia.Address `json:"clPoolAddr"`
	CLRewardAddr    kaia.Address `json:"clRewardAddr"`
	CLStakingAmount uint64       `json:"clStakingAmount"`
}

type jsonStakingInfo struct {
	BlockNum              uint64              `json:"blockNum"`
	CouncilNodeAddrs      []kaia.Address      `json:"councilNodeAddrs"`
	CouncilStakingAddrs   []kaia.Address      `json:"councilStakingAddrs"`
	CouncilRewardAddrs    []kaia.Address      `json:"councilRewardAddrs"`
	CouncilStakingAmounts []uint64            `json:"councilStakingAmounts"`
	KEFAddr               kaia.Address        `json:"kefAddr"`
	KIFAddr               kaia.Address        `json:"kifAddr"`
	CLStakingInfos        []jsonCLStakingInfo `json:"clStakingInfos"`
}

var token = big.NewInt(kaia.Token)

func toToken(kei *big.Int) uint64 {
	if kei == nil {
		return 0
	}
	return new(big.Int).Div(kei, token).Uint64()
}

func fromToken(amount uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(amount), token)
}

// MarshalJSON implements json.Marshaler.
func (si *StakingInfo) MarshalJSON() ([]byte, error) {
	out := jsonStakingInfo{
		BlockNum:              si.BlockNum,
		CouncilNodeAddrs:      make([]kaia.Address, 0, len(si.Candidates)),
		CouncilStakingAddrs:   make([]kaia.Address, 0, len(si.Candidates)),
		CouncilRewardAddrs:    make([]kaia.Address, 0, len(si.Candidates)),
		CouncilStakingAmounts: make([]uint64, 0, len(si.Candidates)),
		KEFAddr:               si.KEFAddr,
		KIFAddr:               si.KIFAddr,
	}
	for _, c := range si.Candidates {
		out.CouncilNodeAddrs = append(out.CouncilNodeAddrs, c.NodeAddr)
		out.CouncilStakingAddrs = append(out.CouncilStakingAddrs, c.StakingAddr)
		out.CouncilRewardAddrs = append(out.CouncilRewardAddrs, c.RewardAddr)
		out.CouncilStakingAmounts = append(out.CouncilStakingAmounts, toToken(c.StakingAmount))
	}
	if si.CLStakingInfos != nil {
		out.CLStakingInfos = make([]jsonCLStakingInfo, 0, len(si.CLStakingInfos))
		for _, cl := range si.CLStakingInfos {
			out.CLStakingInfos = append(out.CLStakingInfos, jsonCLStakingInfo{
				CLNodeID:        cl.NodeAddr,
				GCID:            cl.GCID,
				CLPoolAddr:      cl.PoolAddr,
				CLRewardAddr:    cl.RewardAddr,
				CLStakingAmount: toToken(cl.Amount),
			})
		}
	}
	return json.Marshal(&out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (si *StakingInfo) UnmarshalJSON(data []byte) error {
	var in jsonStakingInfo
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	n := len(in.CouncilNodeAddrs)
	if len(in.CouncilStakingAddrs) != n || len(in.CouncilRewardAddrs) != n || len(in.CouncilStakingAmounts) != n {
		return errors.Errorf("council arrays length mismatch: nodes=%d staking=%d reward=%d amounts=%d",
			n, len(in.CouncilStakingAddrs), len(in.CouncilRewardAddrs), len(in.CouncilStakingAmounts))
	}

	*si = StakingInfo{
		BlockNum:   in.BlockNum,
		Candidates: make([]*Candidate, 0, n),
		KEFAddr:    in.KEFAddr,
		KIFAddr:    in.KIFAddr,
	}
	for i := range n {
		si.Candidates = append(si.Candidates, &Candidate{
			NodeAddr:      in.CouncilNodeAddrs[i],
			StakingAddr:   in.CouncilStakingAddrs[i],
			RewardAddr:    in.CouncilRewardAddrs[i],
			StakingAmount: fromToken(in.CouncilStakingAmounts[i]),
		})
	}
	if in.CLStakingInfos != nil {
		si.CLStakingInfos = make([]*CLStakingInfo, 0, len(in.CLStakingInfos))
		for _, cl := range in.CLStakingInfos {
			si.CLStakingInfos = append(si.CLStakingInfos, &CLStakingInfo{
				NodeAddr:   cl.CLNodeID,
				GCID:       cl.GCID,
				PoolAddr:   cl.CLPoolAddr,
				RewardAddr: cl.CLRewardAddr,
				Amount:     fromToken(cl.CLStakingAmount),
			})
		}
		si.LinkCLs()
	}
	return nil
}
