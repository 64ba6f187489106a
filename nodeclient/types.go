// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nodeclient

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/reward"
)

// Rewards is the reward report of a block as computed by the node.
type Rewards struct {
	Minted   *big.Int                  `json:"minted"`
	TotalFee *big.Int                  `json:"totalFee"`
	BurntFee *big.Int                  `json:"burntFee"`
	Proposer *big.Int                  `json:"proposer"`
	Stakers  *big.Int                  `json:"stakers"`
	KIF      *big.Int                  `json:"kif"`
	KEF      *big.Int                  `json:"kef"`
	Rewards  map[kaia.Address]*big.Int `json:"rewards"`
}

type rpcAccountKey struct {
	KeyType uint8 `json:"keyType"`
}

type rpcAccount struct {
	AccType uint8 `json:"accType"`
	Account struct {
		Key rpcAccountKey `json:"key"`
	} `json:"account"`
}

type rpcHeader struct {
	Number  hexutil.Uint64 `json:"number"`
	Miner   kaia.Address   `json:"miner"`
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	BaseFee *hexutil.Big   `json:"baseFeePerGas"`
}

type rpcReceipt struct {
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
}

type rpcRewardConfig struct {
	MintingAmount *big.Int `json:"mintingAmount"`
	Ratio         string   `json:"ratio"`
	Kip82Ratio    string   `json:"kip82ratio"`
	DeferredTxFee bool     `json:"deferredTxFee"`
	MinimumStake  *big.Int `json:"minimumStake"`
	StakingUpdate uint64   `json:"stakingUpdateInterval"`
}

// ChainConfig is the part of the node chain config this module depends on.
type ChainConfig struct {
	ChainID                  *big.Int `json:"chainId"`
	EthTxTypeCompatibleBlock *big.Int `json:"ethTxTypeCompatibleBlock"`
	MagmaCompatibleBlock     *big.Int `json:"magmaCompatibleBlock"`
	KoreCompatibleBlock      *big.Int `json:"koreCompatibleBlock"`
	KaiaCompatibleBlock      *big.Int `json:"kaiaCompatibleBlock"`
	PragueCompatibleBlock    *big.Int `json:"pragueCompatibleBlock"`
	UnitPrice                uint64   `json:"unitPrice"`
	Governance               *struct {
		Reward *rpcRewardConfig `json:"reward"`
	} `json:"governance"`
}

func forkBlock(b *big.Int) uint64 {
	if b == nil || !b.IsUint64() {
		return math.MaxUint64
	}
	return b.Uint64()
}

// Forks returns the fork activation table. Unset forks never activate.
func (c *ChainConfig) Forks() kaia.ForkConfig {
	return kaia.ForkConfig{
		ETHTXTYPE: forkBlock(c.EthTxTypeCompatibleBlock),
		MAGMA:     forkBlock(c.MagmaCompatibleBlock),
		KORE:      forkBlock(c.KoreCompatibleBlock),
		KAIA:      forkBlock(c.KaiaCompatibleBlock),
		PRAGUE:    forkBlock(c.PragueCompatibleBlock),
	}
}

// Reward returns the reward parameters, starting from the defaults for anything unset.
func (c *ChainConfig) Reward() (reward.Config, error) {
	cfg := reward.DefaultConfig()
	if c.Governance == nil || c.Governance.Reward == nil {
		return cfg, nil
	}
	r := c.Governance.Reward
	if r.MintingAmount != nil {
		cfg.MintingAmount = new(big.Int).Set(r.MintingAmount)
	}
	if r.Ratio != "" {
		ratio, err := reward.ParseRatio(r.Ratio, 3)
		if err != nil {
			return cfg, err
		}
		cfg.Ratio = ratio
	}
	if r.Kip82Ratio != "" {
		ratio, err := reward.ParseRatio(r.Kip82Ratio, 2)
		if err != nil {
			return cfg, err
		}
		cfg.Kip82Ratio = ratio
	}
	cfg.DeferredTxFee = r.DeferredTxFee
	if r.MinimumStake != nil {
		cfg.MinStake = new(big.Int).Mul(r.MinimumStake, big.NewInt(kaia.Token))
	}
	return cfg, nil
}

// Kaia returns the chain-wide tunables reported by the node.
func (c *ChainConfig) Kaia() kaia.Config {
	var cfg kaia.Config
	cfg.UnitPrice = c.UnitPrice
	if c.Governance != nil && c.Governance.Reward != nil {
		r := c.Governance.Reward
		cfg.StakingUpdateInterval = r.StakingUpdate
		if r.MinimumStake != nil {
			cfg.MinimumStake = new(big.Int).Mul(r.MinimumStake, big.NewInt(kaia.Token))
		}
	}
	return cfg
}
