// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/vechain/kaiacore/metrics"

var (
	metricTxCount = metrics.LazyLoadGauge("txpool_current_tx_count")
	metricDropped = metrics.LazyLoadCounter("txpool_dropped_tx_count")
)
