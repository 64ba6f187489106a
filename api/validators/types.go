// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/vechain/kaiacore/kaia"
)

type Committee struct {
	BlockNum   uint64         `json:"blockNum"`
	Boundary   uint64         `json:"boundary"`
	Validators []kaia.Address `json:"validators"`
	Demoted    []kaia.Address `json:"demoted"`
}

type Members struct {
	BlockNum uint64         `json:"blockNum"`
	Members  []kaia.Address `json:"members"`
}

type Size struct {
	BlockNum uint64 `json:"blockNum"`
	Size     int    `json:"size"`
}
