// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kaia

// Denominations.
const (
	Kei   int64 = 1
	Gkei  int64 = 1e9
	Token int64 = 1e18 // 1 KAIA
)

// Constants of block chain.
const (
	UnitPrice uint64 = 25 * uint64(Gkei) // fixed gas price before magma.

	// magma dynamic base fee
	LowerBoundBaseFee        uint64 = 25 * uint64(Gkei)
	UpperBoundBaseFee        uint64 = 750 * uint64(Gkei)
	GasTarget                uint64 = 30_000_000
	MaxBlockGasUsedForBase   uint64 = 60_000_000
	BaseFeeChangeDenominator uint64 = 20

	// kaia reward defaults
	DefaultMintingAmount = "9600000000000000000" // 9.6 KAIA per block
	DefaultRewardRatio   = "34/54/12"            // GC / KIF / KEF
	DefaultKip82Ratio    = "20/80"               // proposer / stakers
)
