// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	server := httptest.NewServer(m.GetOrCreateHandler())
	t.Cleanup(server.Close)

	m.GetOrCreateCountMeter("snapshot_builds_count").Add(1)
	m.GetOrCreateCountVecMeter("fee_rejections_count", []string{"reason"}).
		AddWithLabel(1, map[string]string{"unknown": "label"})
	m.GetOrCreateGaugeVecMeter("committee_size", []string{"kind"}).
		SetWithLabel(4, map[string]string{"kind": "committee"})
	m.GetOrCreateHistogramMeter("snapshot_build_duration_ms", nil).Observe(3)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 1, get())
	assert.Equal(t, 1, get())
	assert.Equal(t, 1, calls)
}
