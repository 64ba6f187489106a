// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/reward"
)

// BlockRewards is laid out like the kaia_getRewards report, amounts in kei.
type BlockRewards struct {
	BlockNum uint64                    `json:"blockNum"`
	Minted   *big.Int                  `json:"minted"`
	TotalFee *big.Int                  `json:"totalFee"`
	BurntFee *big.Int                  `json:"burntFee"`
	Proposer *big.Int                  `json:"proposer"`
	Stakers  *big.Int                  `json:"stakers"`
	KIF      *big.Int                  `json:"kif"`
	KEF      *big.Int                  `json:"kef"`
	Rewards  map[kaia.Address]*big.Int `json:"rewards"`
}

type Accumulated struct {
	From     uint64                    `json:"firstBlock"`
	To       uint64                    `json:"lastBlock"`
	Minted   *big.Int                  `json:"totalMinted"`
	TotalFee *big.Int                  `json:"totalTxFee"`
	BurntFee *big.Int                  `json:"totalBurntTxFee"`
	Proposer *big.Int                  `json:"totalProposerRewards"`
	Stakers  *big.Int                  `json:"totalStakingRewards"`
	KIF      *big.Int                  `json:"totalKIFRewards"`
	KEF      *big.Int                  `json:"totalKEFRewards"`
	Rewards  map[kaia.Address]*big.Int `json:"rewards"`
}

func convertSplit(s *reward.Split) *BlockRewards {
	return &BlockRewards{
		BlockNum: s.BlockNum,
		Minted:   s.Minted,
		TotalFee: s.TotalFee,
		BurntFee: s.BurntFee,
		Proposer: s.Proposer,
		Stakers:  s.Stakers,
		KIF:      s.KIF,
		KEF:      s.KEF,
		Rewards:  s.Rewards,
	}
}

// ConvertAccumulated returns the json form of a range sum.
func ConvertAccumulated(a *reward.Accumulated) *Accumulated {
	return &Accumulated{
		From:     a.From,
		To:       a.To,
		Minted:   a.Minted,
		TotalFee: a.TotalFee,
		BurntFee: a.BurntFee,
		Proposer: a.Proposer,
		Stakers:  a.Stakers,
		KIF:      a.KIF,
		KEF:      a.KEF,
		Rewards:  a.Rewards,
	}
}
