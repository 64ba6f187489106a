// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/reward"
	"github.com/vechain/kaiacore/staking"
)

// kaiaOf parses an amount of KAIA with up to 18 decimals into kei.
func kaiaOf(s string) *big.Int {
	whole, frac, _ := strings.Cut(s, ".")
	frac += strings.Repeat("0", 18-len(frac))
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		panic("bad amount " + s)
	}
	return v
}

func node(i byte) kaia.Address     { return kaia.BytesToAddress([]byte{0x0a, i}) }
func rewardOf(i byte) kaia.Address { return kaia.BytesToAddress([]byte{0x0c, i}) }

var kifAddr = kaia.BytesToAddress([]byte{0x0e, 0x01})

// newDistributor registers 10M, 10M, 20M and 20M at block 1 and commits up to block 8.
func newDistributor(t *testing.T) *reward.Distributor {
	l := staking.NewMemLedger(kaia.AllForks, 0)
	l.SetFunds(kaia.BytesToAddress([]byte{0x0e, 0x0f}), kifAddr)
	require.NoError(t, l.Commit(0))
	for i, s := range []string{"10000000", "10000000", "20000000", "20000000"} {
		id := byte(i + 1)
		require.NoError(t, l.Register(1, node(id), kaia.BytesToAddress([]byte{0x0b, id}), rewardOf(id), kaiaOf(s)))
	}
	for n := uint64(1); n <= 8; n++ {
		require.NoError(t, l.Commit(n))
	}
	sel, err := committee.NewSelector(l, kaia.AllForks, committee.Options{Interval: 1, MinStake: kaiaOf("5000000")})
	require.NoError(t, err)
	d, err := reward.NewDistributor(sel, kaia.AllForks, reward.DefaultConfig())
	require.NoError(t, err)
	return d
}

type blocks struct{}

func (blocks) Block(_ context.Context, n uint64) (*reward.Block, error) {
	return &reward.Block{
		Number:   n,
		Proposer: node(byte(n%4) + 1),
		Fees:     reward.Fees{Total: kaiaOf("1.1056")},
	}, nil
}

func newServer(t *testing.T, src reward.BlockSource, rangeLimit uint64) *httptest.Server {
	router := mux.NewRouter()
	New(newDistributor(t), src, rangeLimit).Mount(router, "/rewards")
	return httptest.NewServer(router)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestGetRewards(t *testing.T) {
	ts := newServer(t, nil, 0)
	defer ts.Close()

	body, code := httpGet(t, ts.URL+"/rewards/2?proposer="+node(1).String()+"&fee=1105600000000000000")
	require.Equal(t, http.StatusOK, code, string(body))

	var r BlockRewards
	require.NoError(t, json.Unmarshal(body, &r))
	assert.Equal(t, uint64(2), r.BlockNum)
	assert.Equal(t, kaiaOf("9.6"), r.Minted)
	assert.Equal(t, kaiaOf("0.6528"), r.Proposer)
	assert.Equal(t, kaiaOf("2.6112"), r.Stakers)
	assert.Equal(t, kaiaOf("1.1056"), r.BurntFee)
	assert.Equal(t, kaiaOf("5.184"), r.KIF)
	assert.Equal(t, kaiaOf("5.184"), r.Rewards[kifAddr])
	assert.Equal(t, kaiaOf("0.9792"), r.Rewards[rewardOf(1)])

	// the part paid at the base fee is burnt in full, the tips go to the proposer path
	body, code = httpGet(t, ts.URL+"/rewards/2?proposer="+node(1).String()+"&fee=0x10&baseFeePart=0xa")
	require.Equal(t, http.StatusOK, code, string(body))
	var burnt BlockRewards
	require.NoError(t, json.Unmarshal(body, &burnt))
	assert.Equal(t, int64(16), burnt.TotalFee.Int64())
	assert.Equal(t, int64(16), burnt.BurntFee.Int64())

	tests := []struct {
		name string
		path string
		code int
	}{
		{"no source", "/rewards/2", http.StatusBadRequest},
		{"bad block", "/rewards/latest?proposer=" + node(1).String(), http.StatusBadRequest},
		{"bad proposer", "/rewards/2?proposer=0x01", http.StatusBadRequest},
		{"bad fee", "/rewards/2?proposer=" + node(1).String() + "&fee=-5", http.StatusBadRequest},
		{"not in committee", "/rewards/2?proposer=" + node(9).String(), http.StatusInternalServerError},
		{"not yet", "/rewards/20?proposer=" + node(1).String(), http.StatusTooEarly},
		{"accumulated", "/rewards/accumulated?from=2&to=5", http.StatusNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, code := httpGet(t, ts.URL+tt.path)
			assert.Equal(t, tt.code, code, string(body))
		})
	}
}

func TestGetRewardsFromSource(t *testing.T) {
	ts := newServer(t, blocks{}, 0)
	defer ts.Close()

	body, code := httpGet(t, ts.URL+"/rewards/4")
	require.Equal(t, http.StatusOK, code, string(body))
	var r BlockRewards
	require.NoError(t, json.Unmarshal(body, &r))
	assert.Equal(t, kaiaOf("0.6528"), r.Proposer)
	// block 4 is proposed by node 1
	assert.Equal(t, kaiaOf("0.9792"), r.Rewards[rewardOf(1)])
}

func TestGetAccumulated(t *testing.T) {
	ts := newServer(t, blocks{}, 10)
	defer ts.Close()

	body, code := httpGet(t, ts.URL+"/rewards/accumulated?from=2&to=5")
	require.Equal(t, http.StatusOK, code, string(body))

	var acc Accumulated
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, uint64(2), acc.From)
	assert.Equal(t, uint64(5), acc.To)
	assert.Equal(t, kaiaOf("38.4"), acc.Minted)
	assert.Equal(t, kaiaOf("4.4224"), acc.TotalFee)
	assert.Equal(t, kaiaOf("4.4224"), acc.BurntFee)
	assert.Equal(t, kaiaOf("2.6112"), acc.Proposer)
	assert.Equal(t, kaiaOf("10.4448"), acc.Stakers)
	// every node proposed once
	assert.Equal(t, kaiaOf("1.9584"), acc.Rewards[rewardOf(1)])
	assert.Equal(t, kaiaOf("4.5696"), acc.Rewards[rewardOf(3)])

	tests := []struct {
		name string
		path string
		code int
	}{
		{"inverted", "/rewards/accumulated?from=5&to=2", http.StatusBadRequest},
		{"missing", "/rewards/accumulated?from=2", http.StatusBadRequest},
		{"too wide", "/rewards/accumulated?from=1&to=11", http.StatusBadRequest},
		{"not yet", "/rewards/accumulated?from=2&to=10", http.StatusTooEarly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, code := httpGet(t, ts.URL+tt.path)
			assert.Equal(t, tt.code, code, string(body))
		})
	}
}
