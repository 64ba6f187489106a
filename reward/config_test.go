// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vechain/kaiacore/kaia"
)

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in      string
		parts   int
		want    Ratio
		wantErr bool
	}{
		{"34/54/12", 3, Ratio{34, 54, 12}, false},
		{"20/80", 2, Ratio{20, 80}, false},
		{" 50 / 50 ", 2, Ratio{50, 50}, false},
		{"100", 1, Ratio{100}, false},
		{"34/54/11", 3, nil, true},
		{"20/80", 3, nil, true},
		{"a/100", 2, nil, true},
		{"-1/101", 2, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRatio(tt.in, tt.parts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	m := cfg.Mint()
	assert.Equal(t, dec("9.6").String(), m.Minted.String())
	assert.Equal(t, dec("3.264").String(), m.GC.String())
	assert.Equal(t, dec("5.184").String(), m.KIF.String())
	assert.Equal(t, dec("1.152").String(), m.KEF.String())
	assert.Equal(t, m.GC.String(), cfg.Subsidy().String())

	proposer, stakers := cfg.Nominal(kaia.Magma, m.GC)
	assert.Equal(t, m.GC.String(), proposer.String())
	assert.Zero(t, stakers.Sign())

	proposer, stakers = cfg.Nominal(kaia.Kore, m.GC)
	assert.Equal(t, dec("0.6528").String(), proposer.String())
	assert.Equal(t, dec("2.6112").String(), stakers.String())
}

func TestMintRemainderToKEF(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MintingAmount.SetInt64(101)

	m := cfg.Mint()
	assert.Equal(t, int64(34), m.GC.Int64())
	assert.Equal(t, int64(54), m.KIF.Int64())
	assert.Equal(t, int64(13), m.KEF.Int64())
}

func TestConfigYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(`
mintingAmount: 6400000000000000000
ratio: 50/40/10
kip82Ratio: 10/90
deferredTxFee: true
clSplit: stake
`), &cfg))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "6400000000000000000", cfg.MintingAmount.String())
	assert.Equal(t, Ratio{50, 40, 10}, cfg.Ratio)
	assert.Equal(t, Ratio{10, 90}, cfg.Kip82Ratio)
	assert.Equal(t, CLSplitByStake, cfg.CLSplit)

	out, err := yaml.Marshal(&cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "ratio: 50/40/10")

	assert.Error(t, yaml.Unmarshal([]byte("ratio: 50/40"), &cfg))
	assert.Error(t, yaml.Unmarshal([]byte("clSplit: thirds"), &cfg))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ratio = Ratio{50, 50}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Kip82Ratio = Ratio{100}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MintingAmount = nil
	assert.Error(t, cfg.Validate())
}
