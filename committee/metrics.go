// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import "github.com/vechain/kaiacore/metrics"

var (
	metricSnapshotBuildDuration = metrics.LazyLoadHistogram("snapshot_build_duration_ms", metrics.BucketMillis)
	metricSnapshotCount         = metrics.LazyLoadGauge("snapshot_retained_count")
	metricCacheHitMiss          = metrics.LazyLoadCounterVec("committee_cache_hit_miss_count", []string{"event"})
)
