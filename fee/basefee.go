// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/kaiacore/kaia"
)

// ParentBlock is the part of a block header the next base fee depends on.
type ParentBlock struct {
	Number  uint64
	BaseFee *big.Int // nil before magma
	GasUsed uint64
}

var (
	lowerBoundBaseFee = new(big.Int).SetUint64(kaia.LowerBoundBaseFee)
	upperBoundBaseFee = new(big.Int).SetUint64(kaia.UpperBoundBaseFee)
)

// CalcBaseFee calculates the base fee of the next block with the given parent block.
// Before magma the unit price is returned.
func CalcBaseFee(parent ParentBlock, forks kaia.ForkConfig, unitPrice *big.Int) *big.Int {
	next := parent.Number + 1
	if next < forks.MAGMA {
		return new(big.Int).Set(unitPrice)
	} else if next == forks.MAGMA || parent.BaseFee == nil {
		// first magma block starts from the lower bound.
		return new(big.Int).Set(lowerBoundBaseFee)
	}

	var (
		gasTarget                = kaia.GasTarget
		gasTargetBig             = new(big.Int).SetUint64(gasTarget)
		baseFeeChangeDenominator = new(big.Int).SetUint64(kaia.BaseFeeChangeDenominator)
	)
	gasUsed := min(parent.GasUsed, kaia.MaxBlockGasUsedForBase)

	var baseFee *big.Int
	switch {
	case gasUsed == gasTarget:
		baseFee = new(big.Int).Set(parent.BaseFee)
	case gasUsed > gasTarget:
		// parentBaseFee + max(1, parentBaseFee * (gasUsed - gasTarget) / gasTarget / denominator)
		gasUsedDelta := new(big.Int).SetUint64(gasUsed - gasTarget)
		x := new(big.Int).Mul(parent.BaseFee, gasUsedDelta)
		y := x.Div(x, gasTargetBig)
		baseFeeDelta := x.Div(y, baseFeeChangeDenominator)
		if baseFeeDelta.Cmp(common.Big1) < 0 {
			baseFeeDelta = common.Big1
		}
		baseFee = x.Add(parent.BaseFee, baseFeeDelta)
	default:
		// parentBaseFee - parentBaseFee * (gasTarget - gasUsed) / gasTarget / denominator
		gasUsedDelta := new(big.Int).SetUint64(gasTarget - gasUsed)
		x := new(big.Int).Mul(parent.BaseFee, gasUsedDelta)
		y := x.Div(x, gasTargetBig)
		baseFeeDelta := x.Div(y, baseFeeChangeDenominator)
		baseFee = x.Sub(parent.BaseFee, baseFeeDelta)
	}

	if baseFee.Cmp(lowerBoundBaseFee) < 0 {
		return new(big.Int).Set(lowerBoundBaseFee)
	}
	if baseFee.Cmp(upperBoundBaseFee) > 0 {
		return new(big.Int).Set(upperBoundBaseFee)
	}
	return baseFee
}
