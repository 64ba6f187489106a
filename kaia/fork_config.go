// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kaia

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ForkConfig config for a fork. A block number of math.MaxUint64 means the fork is never activated.
type ForkConfig struct {
	ETHTXTYPE uint64 `json:"ethTxTypeCompatibleBlock" yaml:"ethTxTypeCompatibleBlock"`
	MAGMA     uint64 `json:"magmaCompatibleBlock" yaml:"magmaCompatibleBlock"`
	KORE      uint64 `json:"koreCompatibleBlock" yaml:"koreCompatibleBlock"`
	KAIA      uint64 `json:"kaiaCompatibleBlock" yaml:"kaiaCompatibleBlock"`
	PRAGUE    uint64 `json:"pragueCompatibleBlock" yaml:"pragueCompatibleBlock"`
}

func (fc ForkConfig) String() string {
	var strs []string
	push := func(name string, blockNum uint64) {
		if blockNum != math.MaxUint64 {
			strs = append(strs, fmt.Sprintf("%v: #%v", name, blockNum))
		}
	}

	push("ETHTXTYPE", fc.ETHTXTYPE)
	push("MAGMA", fc.MAGMA)
	push("KORE", fc.KORE)
	push("KAIA", fc.KAIA)
	push("PRAGUE", fc.PRAGUE)

	return strings.Join(strs, ", ")
}

// Validate checks that activation blocks are in fork order.
// A later fork may share the block of an earlier one but never precede it.
func (fc ForkConfig) Validate() error {
	ordered := []struct {
		name string
		num  uint64
	}{
		{"ETHTXTYPE", fc.ETHTXTYPE},
		{"MAGMA", fc.MAGMA},
		{"KORE", fc.KORE},
		{"KAIA", fc.KAIA},
		{"PRAGUE", fc.PRAGUE},
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].num < ordered[i-1].num {
			return errors.Errorf("fork %v (#%v) activates before %v (#%v)",
				ordered[i].name, ordered[i].num, ordered[i-1].name, ordered[i-1].num)
		}
	}
	return nil
}

// StateAt returns the fork state in effect at the given block number.
func (fc ForkConfig) StateAt(blockNum uint64) ForkState {
	switch {
	case blockNum >= fc.PRAGUE:
		return Prague
	case blockNum >= fc.KAIA:
		return Kaia
	case blockNum >= fc.KORE:
		return Kore
	case blockNum >= fc.MAGMA:
		return Magma
	case blockNum >= fc.ETHTXTYPE:
		return EthTx
	default:
		return PreEthTx
	}
}

// ActivationOf returns the block number at which the given state starts.
func (fc ForkConfig) ActivationOf(state ForkState) uint64 {
	switch state {
	case EthTx:
		return fc.ETHTXTYPE
	case Magma:
		return fc.MAGMA
	case Kore:
		return fc.KORE
	case Kaia:
		return fc.KAIA
	case Prague:
		return fc.PRAGUE
	default:
		return 0
	}
}

// NoFork a special config without any forks.
var NoFork = ForkConfig{
	ETHTXTYPE: math.MaxUint64,
	MAGMA:     math.MaxUint64,
	KORE:      math.MaxUint64,
	KAIA:      math.MaxUint64,
	PRAGUE:    math.MaxUint64,
}

// AllForks a config with every fork active from genesis.
var AllForks = ForkConfig{}

// ForkState is the set of protocol rules in effect at a block.
// States are ordered, a later state always includes the rules enabled by the earlier ones.
type ForkState uint8

const (
	PreEthTx ForkState = iota
	EthTx
	Magma
	Kore
	Kaia
	Prague
)

func (s ForkState) String() string {
	switch s {
	case PreEthTx:
		return "pre-ethtx"
	case EthTx:
		return "ethtx"
	case Magma:
		return "magma"
	case Kore:
		return "kore"
	case Kaia:
		return "kaia"
	case Prague:
		return "prague"
	default:
		return fmt.Sprintf("forkstate(%d)", uint8(s))
	}
}

// AtLeast reports whether s includes the rules of other.
func (s ForkState) AtLeast(other ForkState) bool {
	return s >= other
}
