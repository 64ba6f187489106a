// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
)

// Height tracks the highest committed block number and lets callers wait for it to advance.
// The zero value starts at height 0 with nothing committed.
type Height struct {
	committed atomic.Bool
	n         atomic.Uint64
	sig       Signal
}

// Advance raises the height to n. Lower or equal values are ignored.
func (h *Height) Advance(n uint64) {
	for {
		cur := h.n.Load()
		if h.committed.Load() && n <= cur {
			return
		}
		if h.n.CompareAndSwap(cur, n) {
			h.committed.Store(true)
			h.sig.Broadcast()
			return
		}
	}
}

// Load returns the current height and whether any height was committed.
func (h *Height) Load() (uint64, bool) {
	return h.n.Load(), h.committed.Load()
}

// Wait blocks until the height reaches n or ctx is done.
func (h *Height) Wait(ctx context.Context, n uint64) error {
	w := h.sig.NewWaiter()
	for {
		if cur, ok := h.Load(); ok && cur >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.C():
		}
	}
}
