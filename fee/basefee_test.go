// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"math/big"
	"testing"

	"github.com/vechain/kaiacore/kaia"
)

func TestCalcBaseFee(t *testing.T) {
	forks := kaia.NoFork
	forks.ETHTXTYPE, forks.MAGMA = 0, 10

	tests := []struct {
		name     string
		parent   ParentBlock
		expected *big.Int
	}{
		{"before magma", ParentBlock{Number: 5, GasUsed: 60_000_000}, gkei(25)},
		{"first magma block", ParentBlock{Number: 9, GasUsed: 60_000_000}, gkei(25)},
		{"target used", ParentBlock{Number: 20, BaseFee: gkei(100), GasUsed: kaia.GasTarget}, gkei(100)},
		{"full block", ParentBlock{Number: 20, BaseFee: gkei(100), GasUsed: 60_000_000}, gkei(105)},
		{"over max counted", ParentBlock{Number: 20, BaseFee: gkei(100), GasUsed: 90_000_000}, gkei(105)},
		{"empty block", ParentBlock{Number: 20, BaseFee: gkei(100), GasUsed: 0}, gkei(95)},
		{"lower bound", ParentBlock{Number: 20, BaseFee: gkei(25), GasUsed: 0}, gkei(25)},
		{"upper bound", ParentBlock{Number: 20, BaseFee: gkei(750), GasUsed: 60_000_000}, gkei(750)},
		{"small increase", ParentBlock{Number: 20, BaseFee: gkei(25), GasUsed: kaia.GasTarget + 1}, new(big.Int).Add(gkei(25), big.NewInt(41))},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CalcBaseFee(test.parent, forks, gkei(25)); got.Cmp(test.expected) != 0 {
				t.Errorf("expected %s, got %s", test.expected, got)
			}
		})
	}
}
