// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"math/big"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/kaia"
)

// TxTip is the effective tip paid by one included transaction.
type TxTip struct {
	Tip     *big.Int
	GasUsed uint64
}

// BlockFees summarizes the fees of one committed block.
type BlockFees struct {
	Number  uint64
	BaseFee *big.Int
	GasUsed uint64
	Tips    []TxTip
}

// OracleConfig tunes an Oracle. Zero values pick defaults.
type OracleConfig struct {
	Blocks     int      // blocks kept, 1024 if zero
	Lookback   int      // blocks sampled by SuggestTipCap, 20 if zero
	Percentile int      // tip percentile suggested, 60 if zero
	MinTip     *big.Int // floor of the suggested tip once tips are observed, 0 if nil
}

// FeeHistory is the per block fee report of a range.
type FeeHistory struct {
	OldestBlock   uint64
	BaseFees      []*big.Int
	GasUsedRatios []float64
	Rewards       [][]*big.Int // per block, one entry per requested percentile
}

// Oracle suggests gas prices from recently committed blocks.
type Oracle struct {
	forks     kaia.ForkConfig
	unitPrice *big.Int
	cfg       OracleConfig

	mu     sync.RWMutex
	blocks []BlockFees // ascending, contiguous
}

// NewOracle creates an oracle. A nil unitPrice uses the configured unit price.
func NewOracle(forks kaia.ForkConfig, unitPrice *big.Int, cfg OracleConfig) *Oracle {
	if unitPrice == nil {
		unitPrice = kaia.UnitGasPrice()
	}
	if cfg.Blocks <= 0 {
		cfg.Blocks = 1024
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 20
	}
	if cfg.Percentile <= 0 || cfg.Percentile > 100 {
		cfg.Percentile = 60
	}
	if cfg.MinTip == nil {
		cfg.MinTip = new(big.Int)
	}
	return &Oracle{forks: forks, unitPrice: unitPrice, cfg: cfg}
}

// Push records a committed block. A block that does not extend the last one restarts the record.
func (o *Oracle) Push(b BlockFees) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if n := len(o.blocks); n > 0 && o.blocks[n-1].Number+1 != b.Number {
		o.blocks = o.blocks[:0]
	}
	o.blocks = append(o.blocks, b)
	if extra := len(o.blocks) - o.cfg.Blocks; extra > 0 {
		o.blocks = slices.Delete(o.blocks, 0, extra)
	}
}

func (o *Oracle) last() (BlockFees, bool) {
	if len(o.blocks) == 0 {
		return BlockFees{}, false
	}
	return o.blocks[len(o.blocks)-1], true
}

// PendingBaseFee returns the base fee of the block after the last recorded one.
func (o *Oracle) PendingBaseFee() (uint64, *big.Int, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	last, ok := o.last()
	if !ok {
		return 0, nil, false
	}
	return last.Number + 1, CalcBaseFee(ParentBlock{last.Number, last.BaseFee, last.GasUsed}, o.forks, o.unitPrice), true
}

// SuggestTipCap returns the tip to offer for the pending block.
// Tips are ignored before kaia, so zero is returned there.
func (o *Oracle) SuggestTipCap() *big.Int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.suggestTipCap()
}

func (o *Oracle) suggestTipCap() *big.Int {
	last, ok := o.last()
	if !ok || !o.forks.StateAt(last.Number+1).AtLeast(kaia.Kaia) {
		return new(big.Int)
	}

	var tips []*big.Int
	for _, b := range o.blocks[max(0, len(o.blocks)-o.cfg.Lookback):] {
		for _, t := range b.Tips {
			tips = append(tips, t.Tip)
		}
	}
	tip := new(big.Int).Set(o.cfg.MinTip)
	if len(tips) > 0 {
		slices.SortFunc(tips, func(a, b *big.Int) int { return a.Cmp(b) })
		if entry := tips[(len(tips)-1)*o.cfg.Percentile/100]; entry.Cmp(tip) > 0 {
			tip.Set(entry)
		}
	}
	return tip
}

// SuggestGasPrice returns the gas price to offer for the pending block:
// the unit price before magma, twice the base fee until kaia and twice the base fee plus the tip after.
func (o *Oracle) SuggestGasPrice() *big.Int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	last, ok := o.last()
	if !ok {
		return new(big.Int).Set(o.unitPrice)
	}
	next := last.Number + 1
	state := o.forks.StateAt(next)
	if !state.AtLeast(kaia.Magma) {
		return new(big.Int).Set(o.unitPrice)
	}
	baseFee := CalcBaseFee(ParentBlock{last.Number, last.BaseFee, last.GasUsed}, o.forks, o.unitPrice)
	price := new(big.Int).Lsh(baseFee, 1)
	if state.AtLeast(kaia.Kaia) {
		price.Add(price, o.suggestTipCap())
	}
	return price
}

// FeeHistory reports up to count blocks ending at newest, with gas weighted tip percentiles.
func (o *Oracle) FeeHistory(count int, newest uint64, percentiles []float64) (*FeeHistory, error) {
	if count <= 0 {
		return nil, errors.New("invalid block count, it should not be 0")
	}
	for i, p := range percentiles {
		if p < 0 || p > 100 || (i > 0 && p < percentiles[i-1]) {
			return nil, errors.Errorf("invalid reward percentile %v", p)
		}
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(o.blocks) == 0 {
		return nil, errors.New("no fee history")
	}
	first, last := o.blocks[0].Number, o.blocks[len(o.blocks)-1].Number
	if newest < first || newest > last {
		return nil, errors.Errorf("newest block %d out of range [%d, %d]", newest, first, last)
	}
	end := int(newest-first) + 1
	start := max(0, end-count)

	h := &FeeHistory{OldestBlock: o.blocks[start].Number}
	for _, b := range o.blocks[start:end] {
		h.BaseFees = append(h.BaseFees, baseFeeOrZero(b.BaseFee))
		h.GasUsedRatios = append(h.GasUsedRatios, float64(b.GasUsed)/float64(kaia.MaxBlockGasUsedForBase))
		if percentiles != nil {
			h.Rewards = append(h.Rewards, blockRewards(b, percentiles))
		}
	}
	return h, nil
}

func baseFeeOrZero(baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(baseFee)
}

func blockRewards(b BlockFees, percentiles []float64) []*big.Int {
	rewards := make([]*big.Int, len(percentiles))
	if len(b.Tips) == 0 {
		for i := range rewards {
			rewards[i] = new(big.Int)
		}
		return rewards
	}

	items := slices.Clone(b.Tips)
	slices.SortStableFunc(items, func(a, b TxTip) int { return a.Tip.Cmp(b.Tip) })

	var totalGasUsed uint64
	for _, it := range items {
		totalGasUsed += it.GasUsed
	}

	idx := 0
	cumulativeGasUsed := items[0].GasUsed
	for i, p := range percentiles {
		threshold := uint64(float64(totalGasUsed) * p / 100)
		for cumulativeGasUsed < threshold && idx < len(items)-1 {
			idx++
			cumulativeGasUsed += items[idx].GasUsed
		}
		rewards[i] = new(big.Int).Set(items[idx].Tip)
	}
	return rewards
}
