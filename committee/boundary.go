// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/kaia"
)

// ActivationMode decides from which block the kaia boundary rule takes over.
type ActivationMode int

const (
	// ForkPinned applies the kaia rule from the fork block itself.
	ForkPinned ActivationMode = iota
	// IntervalAligned keeps the legacy rule until the first interval boundary at or after the fork.
	IntervalAligned
)

func (m ActivationMode) String() string {
	switch m {
	case ForkPinned:
		return "fork-pinned"
	case IntervalAligned:
		return "interval-aligned"
	default:
		return "unknown"
	}
}

// ParseActivationMode parses the flag form of an ActivationMode.
func ParseActivationMode(s string) (ActivationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fork-pinned":
		return ForkPinned, nil
	case "interval-aligned":
		return IntervalAligned, nil
	}
	return 0, errors.Errorf("unknown activation mode %q", s)
}

// Anchor picks the block the kaia rule aligns down from.
type Anchor int

const (
	// AnchorBlock resolves a block to the last interval boundary at or below it.
	AnchorBlock Anchor = iota
	// AnchorParent resolves a block to the last interval boundary at or below its parent,
	// so the staking info is committed before the block is produced.
	AnchorParent
)

func (a Anchor) String() string {
	switch a {
	case AnchorBlock:
		return "block"
	case AnchorParent:
		return "parent"
	default:
		return "unknown"
	}
}

// ParseAnchor parses the config form of an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return AnchorBlock, nil
	case "parent":
		return AnchorParent, nil
	}
	return 0, errors.Errorf("unknown boundary anchor %q", s)
}

// Boundary maps a block number to the block whose staking info decides its committee.
type Boundary struct {
	Forks    kaia.ForkConfig
	Interval uint64
	Mode     ActivationMode
	Anchor   Anchor
}

// At returns the staking boundary for blockNum.
func (b Boundary) At(blockNum uint64) uint64 {
	interval := max(b.Interval, 1)
	if b.kaiaRuleAt(blockNum, interval) {
		n := blockNum
		if b.Anchor == AnchorParent && n > 0 {
			n--
		}
		return alignDown(n, interval)
	}
	return legacyBoundary(blockNum, interval)
}

// KaiaRuleFrom returns the first block resolved with the kaia rule, or math.MaxUint64 if none is.
func (b Boundary) KaiaRuleFrom() uint64 {
	fork := b.Forks.KAIA
	if fork == math.MaxUint64 || b.Mode == ForkPinned {
		return fork
	}
	interval := max(b.Interval, 1)
	if rem := fork % interval; rem != 0 {
		if fork > math.MaxUint64-(interval-rem) {
			return math.MaxUint64
		}
		return fork + interval - rem
	}
	return fork
}

func (b Boundary) kaiaRuleAt(blockNum, interval uint64) bool {
	from := b.KaiaRuleFrom()
	return from != math.MaxUint64 && blockNum >= from
}

// legacyBoundary keeps the staking info of two intervals back, so every node has it well before use.
func legacyBoundary(n, interval uint64) uint64 {
	switch {
	case n <= 2*interval:
		return 0
	case n%interval == 0:
		return n - 2*interval
	default:
		return n - interval - n%interval
	}
}

func alignDown(n, interval uint64) uint64 {
	return n - n%interval
}
