// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"fmt"
	"math/big"

	"github.com/vechain/kaiacore/kaia"
)

// TxType is the wire type of a transaction.
type TxType uint16

// native types, fee delegated variants follow their base type by one and two.
const (
	TxTypeLegacy TxType = 0x00

	TxTypeValueTransfer                      TxType = 0x08
	TxTypeFeeDelegatedValueTransfer          TxType = 0x09
	TxTypeFeeDelegatedValueTransferWithRatio TxType = 0x0a

	TxTypeValueTransferMemo                      TxType = 0x10
	TxTypeFeeDelegatedValueTransferMemo          TxType = 0x11
	TxTypeFeeDelegatedValueTransferMemoWithRatio TxType = 0x12

	TxTypeAccountUpdate                      TxType = 0x20
	TxTypeFeeDelegatedAccountUpdate          TxType = 0x21
	TxTypeFeeDelegatedAccountUpdateWithRatio TxType = 0x22

	TxTypeSmartContractDeploy                      TxType = 0x28
	TxTypeFeeDelegatedSmartContractDeploy          TxType = 0x29
	TxTypeFeeDelegatedSmartContractDeployWithRatio TxType = 0x2a

	TxTypeSmartContractExecution                      TxType = 0x30
	TxTypeFeeDelegatedSmartContractExecution          TxType = 0x31
	TxTypeFeeDelegatedSmartContractExecutionWithRatio TxType = 0x32

	TxTypeCancel                      TxType = 0x38
	TxTypeFeeDelegatedCancel          TxType = 0x39
	TxTypeFeeDelegatedCancelWithRatio TxType = 0x3a

	TxTypeChainDataAnchoring                      TxType = 0x48
	TxTypeFeeDelegatedChainDataAnchoring          TxType = 0x49
	TxTypeFeeDelegatedChainDataAnchoringWithRatio TxType = 0x4a
)

// ethereum typed transactions, wrapped in the 0x78 envelope.
const (
	TxTypeEthereumAccessList TxType = 0x7801
	TxTypeEthereumDynamicFee TxType = 0x7802
	TxTypeEthereumSetCode    TxType = 0x7804
)

var txTypeNames = map[TxType]string{
	TxTypeLegacy:                                      "TxTypeLegacyTransaction",
	TxTypeValueTransfer:                               "TxTypeValueTransfer",
	TxTypeFeeDelegatedValueTransfer:                   "TxTypeFeeDelegatedValueTransfer",
	TxTypeFeeDelegatedValueTransferWithRatio:          "TxTypeFeeDelegatedValueTransferWithRatio",
	TxTypeValueTransferMemo:                           "TxTypeValueTransferMemo",
	TxTypeFeeDelegatedValueTransferMemo:               "TxTypeFeeDelegatedValueTransferMemo",
	TxTypeFeeDelegatedValueTransferMemoWithRatio:      "TxTypeFeeDelegatedValueTransferMemoWithRatio",
	TxTypeAccountUpdate:                               "TxTypeAccountUpdate",
	TxTypeFeeDelegatedAccountUpdate:                   "TxTypeFeeDelegatedAccountUpdate",
	TxTypeFeeDelegatedAccountUpdateWithRatio:          "TxTypeFeeDelegatedAccountUpdateWithRatio",
	TxTypeSmartContractDeploy:                         "TxTypeSmartContractDeploy",
	TxTypeFeeDelegatedSmartContractDeploy:             "TxTypeFeeDelegatedSmartContractDeploy",
	TxTypeFeeDelegatedSmartContractDeployWithRatio:    "TxTypeFeeDelegatedSmartContractDeployWithRatio",
	TxTypeSmartContractExecution:                      "TxTypeSmartContractExecution",
	TxTypeFeeDelegatedSmartContractExecution:          "TxTypeFeeDelegatedSmartContractExecution",
	TxTypeFeeDelegatedSmartContractExecutionWithRatio: "TxTypeFeeDelegatedSmartContractExecutionWithRatio",
	TxTypeCancel:                                  "TxTypeCancel",
	TxTypeFeeDelegatedCancel:                      "TxTypeFeeDelegatedCancel",
	TxTypeFeeDelegatedCancelWithRatio:             "TxTypeFeeDelegatedCancelWithRatio",
	TxTypeChainDataAnchoring:                      "TxTypeChainDataAnchoring",
	TxTypeFeeDelegatedChainDataAnchoring:          "TxTypeFeeDelegatedChainDataAnchoring",
	TxTypeFeeDelegatedChainDataAnchoringWithRatio: "TxTypeFeeDelegatedChainDataAnchoringWithRatio",
	TxTypeEthereumAccessList:                      "TxTypeEthereumAccessList",
	TxTypeEthereumDynamicFee:                      "TxTypeEthereumDynamicFee",
	TxTypeEthereumSetCode:                         "TxTypeEthereumSetCode",
}

func (t TxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TxType(%#x)", uint16(t))
}

// Known reports whether t is a defined transaction type.
func (t TxType) Known() bool {
	_, ok := txTypeNames[t]
	return ok
}

// base strips the fee delegation variant.
func (t TxType) base() TxType {
	if t.IsEthereum() {
		return t
	}
	return t &^ 0x07
}

// IsEthereum reports whether t is one of the ethereum compatible types, legacy included.
func (t TxType) IsEthereum() bool {
	switch t {
	case TxTypeLegacy, TxTypeEthereumAccessList, TxTypeEthereumDynamicFee, TxTypeEthereumSetCode:
		return true
	}
	return false
}

// IsEthTyped reports whether t needs the ethereum typed transaction envelope.
func (t TxType) IsEthTyped() bool {
	return t.IsEthereum() && t != TxTypeLegacy
}

// IsDynamicFee reports whether t carries a fee cap and tip cap instead of a gas price.
func (t TxType) IsDynamicFee() bool {
	return t == TxTypeEthereumDynamicFee || t == TxTypeEthereumSetCode
}

// IsFeeDelegated reports whether the fee of t is paid by a fee payer.
func (t TxType) IsFeeDelegated() bool {
	return !t.IsEthereum() && t&0x07 != 0
}

func (t TxType) isValueTransfer() bool {
	b := t.base()
	return b == TxTypeValueTransfer || b == TxTypeValueTransferMemo
}

func (t TxType) isAccountUpdate() bool {
	return t.base() == TxTypeAccountUpdate
}

func (t TxType) isContractExecution() bool {
	return t.base() == TxTypeSmartContractExecution
}

// Authorization is one delegation entry of a SetCode transaction.
// Authority is the recovered signer, the account whose code is set.
type Authorization struct {
	ChainID   *big.Int
	Address   kaia.Address // delegate
	Nonce     uint64
	Authority kaia.Address
}

// TxFeeSpec holds what fee validation needs to know about a transaction.
type TxFeeSpec struct {
	Type  TxType
	Nonce uint64
	From  kaia.Address
	To    *kaia.Address // nil for deployments

	GasPrice  *big.Int // every type but the dynamic fee ones
	GasFeeCap *big.Int // dynamic fee types only
	GasTipCap *big.Int // dynamic fee types only

	Authorizations []Authorization

	Fork    kaia.ForkState
	BaseFee *big.Int // required from magma
}

// Price is the outcome of pricing an accepted transaction.
type Price struct {
	EffectiveGasPrice *big.Int
	EffectiveTip      *big.Int
	Authorizations    []Authorization // entries that will be applied
}
