// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type BlockIngestion struct {
	Number    *uint64    `json:"number"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy           bool            `json:"healthy"`
	BlockIngestion    *BlockIngestion `json:"blockIngestion"`
	ChainBootstrapped bool            `json:"chainBootstrapped"`
}

// Health tracks whether the node follower keeps up with the chain.
type Health struct {
	lock              sync.RWMutex
	newBlock          time.Time
	blockNum          *uint64
	bootstrapStatus   bool
	timeBetweenBlocks time.Duration
}

const delayBuffer = 5 * time.Second

func New(timeBetweenBlocks time.Duration) *Health {
	return &Health{timeBetweenBlocks: timeBetweenBlocks + delayBuffer}
}

// NewBlock records that block n was ingested now.
func (h *Health) NewBlock(n uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBlock = time.Now()
	h.blockNum = &n
}

// BootstrapStatus records whether the follower caught up with the node head.
func (h *Health) BootstrapStatus(bootstrapStatus bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.bootstrapStatus = bootstrapStatus
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &BlockIngestion{Number: h.blockNum}
	if h.blockNum != nil {
		ts := h.newBlock
		ingestion.Timestamp = &ts
	}

	healthy := h.blockNum != nil &&
		time.Since(h.newBlock) <= h.timeBetweenBlocks &&
		h.bootstrapStatus

	return &Status{
		Healthy:           healthy,
		BlockIngestion:    ingestion,
		ChainBootstrapped: h.bootstrapStatus,
	}, nil
}
