// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kaia

import "math/big"

// Config is the configurable parameters of the chain. Most of the parameters have default values and
// will be 'locked' for production networks. For testing purposes or custom networks, the parameters can be updated.

var (
	stakingUpdateInterval uint64 = 86400 // 86400 blocks, 1 day
	minimumStake                 = new(big.Int).Mul(big.NewInt(5_000_000), big.NewInt(Token))
	unitPrice             uint64 = UnitPrice

	locked bool
)

type Config struct {
	StakingUpdateInterval uint64   `json:"stakingUpdateInterval" yaml:"stakingUpdateInterval"` // blocks between two staking info snapshots.
	MinimumStake          *big.Int `json:"minimumStake" yaml:"minimumStake"`                   // minimum stake of a committee member, in kei.
	UnitPrice             uint64   `json:"unitPrice" yaml:"unitPrice"`                         // fixed gas price before magma.
}

// SetConfig sets the config.
// If the config is not set, the default values will be used.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	if cfg.StakingUpdateInterval != 0 {
		stakingUpdateInterval = cfg.StakingUpdateInterval
	}

	if cfg.MinimumStake != nil && cfg.MinimumStake.Sign() > 0 {
		minimumStake = new(big.Int).Set(cfg.MinimumStake)
	}

	if cfg.UnitPrice != 0 {
		unitPrice = cfg.UnitPrice
	}
}

// LockConfig locks the config, preventing any further changes.
// Required for mainnet and kairos.
func LockConfig() {
	locked = true
}

func StakingUpdateInterval() uint64 {
	return stakingUpdateInterval
}

// MinimumStake returns a copy of the minimum stake.
func MinimumStake() *big.Int {
	return new(big.Int).Set(minimumStake)
}

func UnitGasPrice() *big.Int {
	return new(big.Int).SetUint64(unitPrice)
}
