// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package txpool keeps priced transactions for the pending block and hands them out in block order.
package txpool

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
)

var logger = log.WithContext("pkg", "txpool")

// Entry is an admitted transaction.
type Entry struct {
	Hash  kaia.Bytes32
	Tx    *fee.TxFeeSpec
	Price *fee.Price

	arrival uint64
}

// Options tunes a Pool. Zero values pick defaults.
type Options struct {
	Limit           int // 10000 if zero
	LimitPerAccount int // 64 if zero
}

type pending struct {
	number  uint64
	fork    kaia.ForkState
	baseFee *big.Int
}

// Pool admits transactions through the fee policy and reprices them on every new head.
// It is safe for concurrent use.
type Pool struct {
	policy *fee.Policy
	forks  kaia.ForkConfig
	opts   Options

	mu       sync.RWMutex
	head     *pending
	seq      uint64
	all      map[kaia.Bytes32]*Entry
	bySender map[kaia.Address]map[uint64]*Entry
}

func New(policy *fee.Policy, forks kaia.ForkConfig, opts Options) *Pool {
	if opts.Limit <= 0 {
		opts.Limit = 10000
	}
	if opts.LimitPerAccount <= 0 {
		opts.LimitPerAccount = 64
	}
	return &Pool{
		policy:   policy,
		forks:    forks,
		opts:     opts,
		all:      make(map[kaia.Bytes32]*Entry),
		bySender: make(map[kaia.Address]map[uint64]*Entry),
	}
}

// Len returns the number of pooled transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.all)
}

// Pending returns the block the pool prices for and its base fee.
func (p *Pool) Pending() (uint64, *big.Int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.head == nil {
		return 0, nil, false
	}
	return p.head.number, p.head.baseFee, true
}

// Add prices tx for the pending block and keeps it.
// A tx reusing the nonce of a pooled one replaces it only with a strictly higher effective price.
func (p *Pool) Add(ctx context.Context, hash kaia.Bytes32, tx *fee.TxFeeSpec) (*Entry, error) {
	p.mu.RLock()
	head := p.head
	_, known := p.all[hash]
	p.mu.RUnlock()

	if head == nil {
		return nil, errNoHead
	}
	if known {
		return nil, errKnownTx
	}

	spec := *tx
	spec.Fork = head.fork
	spec.BaseFee = head.baseFee
	price, err := p.policy.PriceAndValidate(ctx, &spec)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Hash: hash, Tx: &spec, Price: price}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.all[hash]; ok {
		return nil, errKnownTx
	}
	nonces := p.bySender[spec.From]
	if old, ok := nonces[spec.Nonce]; ok {
		if price.EffectiveGasPrice.Cmp(old.Price.EffectiveGasPrice) <= 0 {
			return nil, errors.Wrapf(errUnderpriced, "pooled %v", old.Price.EffectiveGasPrice)
		}
		p.remove(old)
		logger.Debug("tx replaced", "from", spec.From, "nonce", spec.Nonce, "old", old.Hash, "new", hash)
	} else {
		if len(p.all) >= p.opts.Limit {
			return nil, errPoolFull
		}
		if len(nonces) >= p.opts.LimitPerAccount {
			return nil, errAccountQuota
		}
	}

	p.seq++
	entry.arrival = p.seq
	p.put(entry)
	metricTxCount().Set(int64(len(p.all)))
	return entry, nil
}

func (p *Pool) put(e *Entry) {
	p.all[e.Hash] = e
	nonces := p.bySender[e.Tx.From]
	if nonces == nil {
		nonces = make(map[uint64]*Entry)
		p.bySender[e.Tx.From] = nonces
	}
	nonces[e.Tx.Nonce] = e
}

func (p *Pool) remove(e *Entry) {
	delete(p.all, e.Hash)
	nonces := p.bySender[e.Tx.From]
	delete(nonces, e.Tx.Nonce)
	if len(nonces) == 0 {
		delete(p.bySender, e.Tx.From)
	}
}

// Remove drops the given transactions, typically once they are included, and returns how many were pooled.
func (p *Pool) Remove(hashes ...kaia.Bytes32) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var n int
	for _, h := range hashes {
		if e, ok := p.all[h]; ok {
			p.remove(e)
			n++
		}
	}
	metricTxCount().Set(int64(len(p.all)))
	return n
}

// Executables returns every pooled transaction in block order.
func (p *Pool) Executables() []*Entry {
	p.mu.RLock()
	entries := make([]*Entry, 0, len(p.all))
	for _, e := range p.all {
		entries = append(entries, e)
	}
	p.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].arrival < entries[j].arrival })
	return Order(entries)
}

// Reprice moves the pool to a new pending block. Every pooled tx is priced again under the
// fork and base fee of that block, rejected ones are dropped and their count returned.
func (p *Pool) Reprice(ctx context.Context, number uint64, baseFee *big.Int) (int, error) {
	head := &pending{number: number, fork: p.forks.StateAt(number), baseFee: baseFee}

	p.mu.Lock()
	p.head = head
	entries := make([]*Entry, 0, len(p.all))
	for _, e := range p.all {
		entries = append(entries, e)
	}
	p.mu.Unlock()

	type repriced struct {
		prev, next *Entry
	}
	var (
		updates []repriced
		dropped []*Entry
	)
	for _, e := range entries {
		spec := *e.Tx
		spec.Fork = head.fork
		spec.BaseFee = baseFee
		price, err := p.policy.PriceAndValidate(ctx, &spec)
		if err != nil {
			if !fee.IsRejected(err) {
				return 0, errors.WithMessagef(err, "reprice %v", e.Hash)
			}
			logger.Debug("tx dropped on reprice", "hash", e.Hash, "block", number, "reason", fee.ReasonOf(err))
			dropped = append(dropped, e)
			continue
		}
		updates = append(updates, repriced{e, &Entry{Hash: e.Hash, Tx: &spec, Price: price, arrival: e.arrival}})
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var n int
	for _, e := range dropped {
		if p.all[e.Hash] == e {
			p.remove(e)
			n++
		}
	}
	for _, u := range updates {
		if p.all[u.prev.Hash] == u.prev {
			p.put(u.next)
		}
	}
	if n > 0 {
		metricDropped().Add(int64(n))
	}
	metricTxCount().Set(int64(len(p.all)))
	return n, nil
}
