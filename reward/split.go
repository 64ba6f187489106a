// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/kaia"
)

var (
	// ErrProposerNotInCommittee means the proposer is not a validator at the block.
	// The ledger and the chain disagree, the caller cannot recover locally.
	ErrProposerNotInCommittee = errors.New("proposer not in committee")

	errNegativeFee = errors.New("negative fee")
)

// IsFatal reports whether err must stop block processing.
func IsFatal(err error) bool { return errors.Is(err, ErrProposerNotInCommittee) }

// Fees are the transaction fees collected by a block.
type Fees struct {
	Total *big.Int
	// BaseFeePart is the part of Total charged at the base fee, burnt in full from kaia.
	// Nil burns half of Total instead.
	BaseFeePart *big.Int
}

// Split is the reward decision of one block.
// Proposer + Stakers + BurntFee == TotalFee + GC, and Minted == GC + KIF + KEF.
type Split struct {
	BlockNum uint64
	Proposer *big.Int // proposer path, cn and cl shares included
	Stakers  *big.Int // distributed staker shares
	BurntFee *big.Int
	TotalFee *big.Int
	Minted   *big.Int
	GC       *big.Int
	KIF      *big.Int
	KEF      *big.Int

	Rewards map[kaia.Address]*big.Int // by reward address
}

func (s *Split) credit(addr kaia.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	if cur, ok := s.Rewards[addr]; ok {
		cur.Add(cur, amount)
		return
	}
	s.Rewards[addr] = new(big.Int).Set(amount)
}

// Input is everything a split depends on.
type Input struct {
	BlockNum uint64
	Fork     kaia.ForkState
	Proposer kaia.Address // node address
	Fees     Fees
	Snapshot *committee.Snapshot
}

// Calculate computes the reward split of one block. It reads nothing but its arguments.
func Calculate(cfg *Config, in Input) (*Split, error) {
	totalFee := new(big.Int)
	if in.Fees.Total != nil {
		if in.Fees.Total.Sign() < 0 {
			return nil, errNegativeFee
		}
		totalFee.Set(in.Fees.Total)
	}

	proposer, ok := in.Snapshot.Member(in.Proposer)
	if !ok || proposer.Demoted {
		return nil, errors.Wrapf(ErrProposerNotInCommittee, "block %d, proposer %v", in.BlockNum, in.Proposer)
	}

	mint := cfg.Mint()
	split := &Split{
		BlockNum: in.BlockNum,
		TotalFee: totalFee,
		Minted:   mint.Minted,
		GC:       mint.GC,
		KIF:      mint.KIF,
		KEF:      mint.KEF,
		Rewards:  make(map[kaia.Address]*big.Int),
	}

	nominal, pool := cfg.Nominal(in.Fork, mint.GC)
	burnt, remaining := burnFee(cfg, in.Fork, in.Fees, totalFee, nominal)
	proposerPath := new(big.Int).Add(nominal, remaining)

	minStake := cfg.MinStake
	if minStake == nil {
		minStake = in.Snapshot.MinStake()
	}
	shares, distributed := stakerShares(in.Snapshot.Members(), minStake, pool)
	if len(shares) == 0 {
		proposerPath.Add(proposerPath, pool)
	} else {
		burnt.Add(burnt, new(big.Int).Sub(pool, distributed))
	}

	split.Proposer = proposerPath
	split.Stakers = distributed
	split.BurntFee = burnt

	byNode := make(map[kaia.Address]*big.Int, len(shares)+1)
	byNode[proposer.NodeAddr] = new(big.Int).Set(proposerPath)
	if !cfg.DeferredTxFee && !in.Fork.AtLeast(kaia.Magma) {
		// paid to the proposer on execution, never shared with a pool
		byNode[proposer.NodeAddr].Sub(byNode[proposer.NodeAddr], remaining)
		split.credit(proposer.RewardAddr, remaining)
	}
	for node, share := range shares {
		if cur, ok := byNode[node]; ok {
			cur.Add(cur, share)
		} else {
			byNode[node] = share
		}
	}
	for _, m := range in.Snapshot.Members() {
		amount, ok := byNode[m.NodeAddr]
		if !ok {
			continue
		}
		cn, cl := splitWithCL(cfg.CLSplit, m, amount)
		split.credit(m.RewardAddr, cn)
		if cl != nil {
			split.credit(m.CL.RewardAddr, cl)
		}
	}

	kef, kif := in.Snapshot.Funds()
	split.credit(kif, mint.KIF)
	split.credit(kef, mint.KEF)
	return split, nil
}

// burnFee returns the burnt part of the fee and the part left to the proposer.
func burnFee(cfg *Config, fork kaia.ForkState, fees Fees, totalFee, nominal *big.Int) (burnt, remaining *big.Int) {
	if !fork.AtLeast(kaia.Magma) {
		return new(big.Int), new(big.Int).Set(totalFee)
	}

	if fork.AtLeast(kaia.Kaia) && fees.BaseFeePart != nil && fees.BaseFeePart.Sign() >= 0 {
		burnt = minAmount(fees.BaseFeePart, totalFee)
	} else {
		// the odd kei is burnt
		half := new(big.Int).Rsh(totalFee, 1)
		burnt = new(big.Int).Sub(totalFee, half)
	}
	remaining = new(big.Int).Sub(totalFee, burnt)

	if fork.AtLeast(kaia.Kore) {
		// the fee pays for the proposer's minted cut, up to what is left
		covered := minAmount(remaining, nominal)
		burnt.Add(burnt, covered)
		remaining.Sub(remaining, covered)
	}
	return burnt, remaining
}

// minAmount returns a copy of the smaller of a and b.
func minAmount(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
