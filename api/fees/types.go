// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/kaia"
)

type FeesHistory struct {
	OldestBlock   hexutil.Uint64   `json:"oldestBlock"`
	BaseFeePerGas []*hexutil.Big   `json:"baseFeePerGas"`
	GasUsedRatios []float64        `json:"gasUsedRatio"`
	Reward        [][]*hexutil.Big `json:"reward,omitempty"`
}

type FeesPriority struct {
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas"`
}

type GasPrice struct {
	GasPrice *hexutil.Big `json:"gasPrice"`
}

type PendingBaseFee struct {
	Number  hexutil.Uint64 `json:"number"`
	BaseFee *hexutil.Big   `json:"baseFeePerGas"`
}

type Authorization struct {
	ChainID   *hexutil.Big   `json:"chainId"`
	Address   kaia.Address   `json:"address"`
	Nonce     hexutil.Uint64 `json:"nonce"`
	Authority kaia.Address   `json:"authority"`
}

type Tx struct {
	Type                 hexutil.Uint64  `json:"type"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	From                 kaia.Address    `json:"from"`
	To                   *kaia.Address   `json:"to"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	AuthorizationList    []Authorization `json:"authorizationList"`
}

// ValidateRequest prices txs for the pending block unless Block and BaseFee are given.
type ValidateRequest struct {
	Block   *hexutil.Uint64 `json:"blockNumber"`
	BaseFee *hexutil.Big    `json:"baseFeePerGas"`
	Txs     []Tx            `json:"txs"`
}

type ValidateResult struct {
	Accepted          bool         `json:"accepted"`
	Reason            string       `json:"reason,omitempty"`
	EffectiveGasPrice *hexutil.Big `json:"effectiveGasPrice,omitempty"`
	EffectiveTip      *hexutil.Big `json:"effectiveTip,omitempty"`
	Authorizations    int          `json:"appliedAuthorizations"`
}

func toBig(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

// Spec returns the fee view of tx priced for a block in fork with baseFee.
func (tx *Tx) Spec(fork kaia.ForkState, baseFee *big.Int) *fee.TxFeeSpec {
	spec := &fee.TxFeeSpec{
		Type:      fee.TxType(tx.Type),
		Nonce:     uint64(tx.Nonce),
		From:      tx.From,
		To:        tx.To,
		GasPrice:  toBig(tx.GasPrice),
		GasFeeCap: toBig(tx.MaxFeePerGas),
		GasTipCap: toBig(tx.MaxPriorityFeePerGas),
		Fork:      fork,
		BaseFee:   baseFee,
	}
	for _, a := range tx.AuthorizationList {
		spec.Authorizations = append(spec.Authorizations, fee.Authorization{
			ChainID:   toBig(a.ChainID),
			Address:   a.Address,
			Nonce:     uint64(a.Nonce),
			Authority: a.Authority,
		})
	}
	return spec
}

func convertHistory(h *fee.FeeHistory) *FeesHistory {
	out := &FeesHistory{
		OldestBlock:   hexutil.Uint64(h.OldestBlock),
		BaseFeePerGas: make([]*hexutil.Big, 0, len(h.BaseFees)),
		GasUsedRatios: h.GasUsedRatios,
	}
	for _, b := range h.BaseFees {
		out.BaseFeePerGas = append(out.BaseFeePerGas, (*hexutil.Big)(b))
	}
	for _, rewards := range h.Rewards {
		row := make([]*hexutil.Big, 0, len(rewards))
		for _, r := range rewards {
			row = append(row, (*hexutil.Big)(r))
		}
		out.Reward = append(out.Reward, row)
	}
	return out
}
