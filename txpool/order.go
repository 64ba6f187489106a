// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"container/heap"
	"sort"

	"github.com/vechain/kaiacore/kaia"
)

type item struct {
	*Entry
	pos int // arrival rank
}

// heads is a max-heap of the next entry of every sender.
// Higher effective price first, earlier arrival on equal price.
type heads []item

func (h heads) Len() int { return len(h) }

func (h heads) Less(i, j int) bool {
	if c := h[i].Price.EffectiveGasPrice.Cmp(h[j].Price.EffectiveGasPrice); c != 0 {
		return c > 0
	}
	return h[i].pos < h[j].pos
}

func (h heads) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *heads) Push(x any) { *h = append(*h, x.(item)) }

func (h *heads) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Order returns entries in block order, reading the input order as arrival order.
// Entries are taken by descending effective gas price, earlier arrival first on equal price,
// while the entries of one sender keep ascending nonce order whatever their prices.
// The input is left untouched.
func Order(entries []*Entry) []*Entry {
	bySender := make(map[kaia.Address][]item)
	for i, e := range entries {
		bySender[e.Tx.From] = append(bySender[e.Tx.From], item{e, i})
	}

	h := make(heads, 0, len(bySender))
	for sender, list := range bySender {
		// stable, so equal nonces keep arrival order
		sort.SliceStable(list, func(i, j int) bool { return list[i].Tx.Nonce < list[j].Tx.Nonce })
		bySender[sender] = list
		h = append(h, list[0])
	}
	heap.Init(&h)

	ordered := make([]*Entry, 0, len(entries))
	for h.Len() > 0 {
		next := heap.Pop(&h).(item)
		ordered = append(ordered, next.Entry)

		rest := bySender[next.Tx.From][1:]
		bySender[next.Tx.From] = rest
		if len(rest) > 0 {
			heap.Push(&h, rest[0])
		}
	}
	return ordered
}
