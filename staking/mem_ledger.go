// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/co"
	"github.com/vechain/kaiacore/kaia"
)

var (
	errCommitted         = errors.New("block already committed")
	errDuplicate         = errors.New("already registered")
	errNegativeAmount    = errors.New("missing or negative amount")
	errInsufficientStake = errors.New("insufficient stake")
)

// change is a balance that takes effect from block on.
type change struct {
	block  uint64
	amount *big.Int
}

// history is a list of changes sorted by block.
type history []change

// at returns the amount in effect at block n, or nil if nothing was set yet.
func (h history) at(n uint64) *big.Int {
	i := sort.Search(len(h), func(i int) bool { return h[i].block > n })
	if i == 0 {
		return nil
	}
	return h[i-1].amount
}

func (h history) latest() *big.Int {
	if len(h) == 0 {
		return new(big.Int)
	}
	return h[len(h)-1].amount
}

func (h history) set(block uint64, amount *big.Int) history {
	if len(h) > 0 && h[len(h)-1].block == block {
		h[len(h)-1].amount = amount
		return h
	}
	return append(h, change{block, amount})
}

type memCandidate struct {
	registered uint64
	cand       Candidate
	stakes     history
}

type memCL struct {
	registered uint64
	info       CLStakingInfo
	stakes     history
}

// MemLedger is an in-memory Ledger fed by the staking contract events of each block.
// Writes target the pending block (head+1 or later) and become visible once committed.
type MemLedger struct {
	mu      sync.RWMutex
	forks   kaia.ForkConfig
	genesis uint64
	cands   []*memCandidate
	cls     []*memCL
	kef     kaia.Address
	kif     kaia.Address
	height  co.Height
}

var _ Ledger = (*MemLedger)(nil)

// NewMemLedger creates a ledger whose history starts at genesis.
// Nothing is readable until the genesis block is committed.
func NewMemLedger(forks kaia.ForkConfig, genesis uint64) *MemLedger {
	return &MemLedger{forks: forks, genesis: genesis}
}

// SetFunds sets the fund addresses reported with every staking info.
func (l *MemLedger) SetFunds(kef, kif kaia.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kef, l.kif = kef, kif
}

func (l *MemLedger) checkWritable(block uint64) error {
	if block < l.genesis {
		return ErrNotFound
	}
	if head, ok := l.height.Load(); ok && block <= head {
		return errors.Wrapf(errCommitted, "block %d", block)
	}
	return nil
}

func (l *MemLedger) find(node kaia.Address) *memCandidate {
	for _, c := range l.cands {
		if c.cand.NodeAddr == node {
			return c
		}
	}
	return nil
}

func (l *MemLedger) findCL(node kaia.Address) *memCL {
	for _, cl := range l.cls {
		if cl.info.NodeAddr == node {
			return cl
		}
	}
	return nil
}

// Register adds a council candidate at block with an initial stake.
func (l *MemLedger) Register(block uint64, node, stakingAddr, rewardAddr kaia.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkWritable(block); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return errNegativeAmount
	}
	if l.find(node) != nil {
		return errors.Wrapf(errDuplicate, "node %v", node)
	}
	l.cands = append(l.cands, &memCandidate{
		registered: block,
		cand: Candidate{
			NodeAddr:    node,
			StakingAddr: stakingAddr,
			RewardAddr:  rewardAddr,
		},
		stakes: history{{block, new(big.Int).Set(amount)}},
	})
	logger.Debug("candidate registered", "block", block, "node", node, "amount", amount)
	return nil
}

// RegisterCL links a community pool to a council node at block.
// A pool may be registered before its council node, it stays unlinked until the node appears.
func (l *MemLedger) RegisterCL(block uint64, info CLStakingInfo) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkWritable(block); err != nil {
		return err
	}
	if info.Amount == nil || info.Amount.Sign() < 0 {
		return errNegativeAmount
	}
	if l.findCL(info.NodeAddr) != nil {
		return errors.Wrapf(errDuplicate, "pool for node %v", info.NodeAddr)
	}
	amount := new(big.Int).Set(info.Amount)
	info.Amount = nil
	l.cls = append(l.cls, &memCL{
		registered: block,
		info:       info,
		stakes:     history{{block, amount}},
	})
	return nil
}

func (l *MemLedger) adjust(block uint64, h *history, delta *big.Int) error {
	if err := l.checkWritable(block); err != nil {
		return err
	}
	next := new(big.Int).Add(h.latest(), delta)
	if next.Sign() < 0 {
		return errInsufficientStake
	}
	*h = h.set(block, next)
	return nil
}

// Deposit adds amount to the node's stake at block.
func (l *MemLedger) Deposit(block uint64, node kaia.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.find(node)
	if c == nil {
		return ErrUnknownCandidate
	}
	return l.adjust(block, &c.stakes, amount)
}

// Withdraw takes amount out of the node's stake at block.
func (l *MemLedger) Withdraw(block uint64, node kaia.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.find(node)
	if c == nil {
		return ErrUnknownCandidate
	}
	return l.adjust(block, &c.stakes, new(big.Int).Neg(amount))
}

// WithdrawAll empties the node's stake at block.
func (l *MemLedger) WithdrawAll(block uint64, node kaia.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.find(node)
	if c == nil {
		return ErrUnknownCandidate
	}
	return l.adjust(block, &c.stakes, new(big.Int).Neg(c.stakes.latest()))
}

// SetCLAmount sets the balance of the pool linked to node at block.
func (l *MemLedger) SetCLAmount(block uint64, node kaia.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errNegativeAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cl := l.findCL(node)
	if cl == nil {
		return ErrUnknownCandidate
	}
	if err := l.checkWritable(block); err != nil {
		return err
	}
	cl.stakes = cl.stakes.set(block, new(big.Int).Set(amount))
	return nil
}

// Commit makes every write up to and including block visible and wakes waiters.
func (l *MemLedger) Commit(block uint64) error {
	l.mu.Lock()
	if block < l.genesis {
		l.mu.Unlock()
		return ErrNotFound
	}
	if head, ok := l.height.Load(); ok && block <= head {
		l.mu.Unlock()
		return errors.Wrapf(errCommitted, "block %d", block)
	}
	l.height.Advance(block)
	l.mu.Unlock()

	logger.Trace("ledger committed", "block", block)
	return nil
}

// Head implements Ledger.
func (l *MemLedger) Head(_ context.Context) (uint64, error) {
	head, ok := l.height.Load()
	if !ok {
		return 0, ErrNotYetAvailable
	}
	return head, nil
}

// WaitForHeight blocks until block n is committed or ctx is done.
func (l *MemLedger) WaitForHeight(ctx context.Context, n uint64) error {
	return l.height.Wait(ctx, n)
}

// StakingInfo implements Ledger.
func (l *MemLedger) StakingInfo(_ context.Context, blockNum uint64) (*StakingInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if blockNum < l.genesis {
		return nil, ErrNotFound
	}
	if head, ok := l.height.Load(); !ok || blockNum > head {
		return nil, errors.Wrapf(ErrNotYetAvailable, "block %d", blockNum)
	}

	info := &StakingInfo{
		BlockNum:   blockNum,
		Candidates: make([]*Candidate, 0, len(l.cands)),
		KEFAddr:    l.kef,
		KIFAddr:    l.kif,
	}
	for _, c := range l.cands {
		if c.registered > blockNum {
			continue
		}
		cand := c.cand
		cand.StakingAmount = new(big.Int).Set(c.stakes.at(blockNum))
		info.Candidates = append(info.Candidates, &cand)
	}

	if l.forks.StateAt(blockNum).AtLeast(kaia.Prague) {
		info.CLStakingInfos = make([]*CLStakingInfo, 0, len(l.cls))
		for _, cl := range l.cls {
			if cl.registered > blockNum {
				continue
			}
			pool := cl.info
			pool.Amount = new(big.Int).Set(cl.stakes.at(blockNum))
			info.CLStakingInfos = append(info.CLStakingInfos, &pool)
		}
		info.LinkCLs()
	}
	return info, nil
}
