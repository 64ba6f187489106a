// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/metrics"
)

var (
	metricDistributeCount = metrics.LazyLoadCounterVec("reward_distribute_count", []string{"result"})
	metricBurntFee        = metrics.LazyLoadHistogram("reward_burnt_fee_gkei", []int64{0, 1_000, 10_000, 100_000, 1_000_000, 10_000_000})
	metricAccumulated     = metrics.LazyLoadCounter("reward_accumulated_block_count")
)

var gkei = big.NewInt(kaia.Gkei)

func toGkei(amount *big.Int) int64 {
	x := new(big.Int).Div(amount, gkei)
	if !x.IsInt64() {
		return 1<<63 - 1
	}
	return x.Int64()
}
