// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/reward"
	"github.com/vechain/kaiacore/staking"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", BadRequest(errors.New("x")), http.StatusBadRequest},
		{"custom", HTTPError(errors.New("x"), http.StatusForbidden), http.StatusForbidden},
		{"not found", errors.Wrap(staking.ErrNotFound, "block 1"), http.StatusNotFound},
		{"stale", errors.Wrap(committee.ErrStaleQuery, "block 1"), http.StatusGone},
		{"not yet", errors.Wrap(staking.ErrNotYetAvailable, "block 9"), http.StatusTooEarly},
		{"fatal", reward.ErrProposerNotInCommittee, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestWrapHandlerFunc(t *testing.T) {
	h := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return errors.Wrap(staking.ErrNotYetAvailable, "block 9")
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooEarly, rec.Code)
	assert.Contains(t, rec.Body.String(), "block not yet available")

	h = WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestParseBlockNumber(t *testing.T) {
	n, err := ParseBlockNumber("100")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), n)

	n, err = ParseBlockNumber("0x64")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), n)

	_, err = ParseBlockNumber("latest")
	assert.Error(t, err)
	_, err = ParseBlockNumber("-1")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	v, err = ParseAmount("0x3e8")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), v.Int64())

	v, err = ParseAmount("1000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), v.Int64())

	_, err = ParseAmount("-1")
	assert.Error(t, err)
	_, err = ParseAmount("abc")
	assert.Error(t, err)
}
