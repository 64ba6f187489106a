// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/kaiacore/api/fees"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/txpool"
)

// SendTx submits a transaction identified by the hash computed by the caller.
type SendTx struct {
	ID kaia.Bytes32 `json:"id"`
	Tx fees.Tx      `json:"tx"`
}

type Pooled struct {
	ID                kaia.Bytes32   `json:"id"`
	Type              hexutil.Uint64 `json:"type"`
	From              kaia.Address   `json:"from"`
	Nonce             hexutil.Uint64 `json:"nonce"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
	EffectiveTip      *hexutil.Big   `json:"effectiveTip"`
}

// Pending lists pooled transactions in block order.
type Pending struct {
	BlockNum hexutil.Uint64 `json:"blockNumber"`
	BaseFee  *hexutil.Big   `json:"baseFeePerGas"`
	Txs      []*Pooled      `json:"txs"`
}

func convertEntry(e *txpool.Entry) *Pooled {
	return &Pooled{
		ID:                e.Hash,
		Type:              hexutil.Uint64(e.Tx.Type),
		From:              e.Tx.From,
		Nonce:             hexutil.Uint64(e.Tx.Nonce),
		EffectiveGasPrice: (*hexutil.Big)(e.Price.EffectiveGasPrice),
		EffectiveTip:      (*hexutil.Big)(e.Price.EffectiveTip),
	}
}
