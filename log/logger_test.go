// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureRoot(t *testing.T, asJSON bool, lvl slog.Level) *bytes.Buffer {
	var buf bytes.Buffer
	old := Root()
	h, _ := NewHandler(&buf, lvl, asJSON, false)
	SetDefault(NewLogger(h))
	t.Cleanup(func() { SetDefault(old) })
	return &buf
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "committee")

	buf := captureRoot(t, false, LevelInfo)
	pkgLogger.Info("snapshot built", "boundary", 128)
	pkgLogger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "snapshot built")
	assert.Contains(t, out, "pkg=committee")
	assert.Contains(t, out, "boundary=128")
	assert.NotContains(t, out, "hidden")
}

func TestJSONHandlerFormatsAmounts(t *testing.T) {
	buf := captureRoot(t, true, LevelTrace)

	fee, _ := new(big.Int).SetString("1105600000000000000", 10)
	WithContext("pkg", "reward").Trace("split", "fee", fee, "tip", uint256.NewInt(7))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "trace", rec["lvl"])
	assert.Equal(t, "reward", rec["pkg"])
	assert.Equal(t, "1105600000000000000", rec["fee"])
	assert.Equal(t, "7", rec["tip"])
}

func TestTerminalFormatsBigInt(t *testing.T) {
	buf := captureRoot(t, false, LevelInfo)

	Info("minted", "amount", new(big.Int).Mul(big.NewInt(96), big.NewInt(1e17)))
	assert.True(t, strings.Contains(buf.String(), "amount=9,600,000,000,000,000,000"), buf.String())
}

func TestLvlFromString(t *testing.T) {
	lvl, ok := LvlFromString("dbug")
	assert.True(t, ok)
	assert.Equal(t, LevelDebug, lvl)

	_, ok = LvlFromString("loud")
	assert.False(t, ok)

	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}
