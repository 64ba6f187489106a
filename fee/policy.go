// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fee validates the fee fields of incoming transactions and prices them
// according to the fork active at the pending block.
package fee

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
)

var logger = log.WithContext("pkg", "fee")

var errBaseFeeRequired = errors.New("base fee required from magma")

// Policy decides whether a transaction is admissible and at what price.
// It holds no mutable state and is safe for concurrent use.
type Policy struct {
	unitPrice *big.Int
	accounts  AccountReader
}

// NewPolicy creates a policy. A nil unitPrice uses the configured unit price.
// A nil accounts reader skips the account rules.
func NewPolicy(unitPrice *big.Int, accounts AccountReader) *Policy {
	if unitPrice == nil {
		unitPrice = kaia.UnitGasPrice()
	}
	return &Policy{
		unitPrice: new(big.Int).Set(unitPrice),
		accounts:  accounts,
	}
}

// PriceAndValidate checks tx against the rules of tx.Fork and returns its price.
// A *RejectedError is returned for an inadmissible transaction, any other error
// comes from the account reader or a missing base fee.
func (p *Policy) PriceAndValidate(ctx context.Context, tx *TxFeeSpec) (*Price, error) {
	price, err := p.priceAndValidate(ctx, tx)
	if err != nil {
		if reason := ReasonOf(err); reason != "" {
			metricRejected().AddWithLabel(1, map[string]string{"reason": reason})
			logger.Trace("tx rejected", "type", tx.Type, "from", tx.From, "nonce", tx.Nonce, "reason", reason)
		}
		return nil, err
	}
	return price, nil
}

func (p *Policy) priceAndValidate(ctx context.Context, tx *TxFeeSpec) (*Price, error) {
	if err := checkType(tx); err != nil {
		return nil, err
	}
	if err := checkShape(tx); err != nil {
		return nil, err
	}

	var (
		price *Price
		err   error
	)
	switch {
	case tx.Fork.AtLeast(kaia.Kaia):
		price, err = priceKaia(tx)
	case tx.Fork.AtLeast(kaia.Magma):
		price, err = priceMagma(tx)
	default:
		price, err = p.priceUnit(tx)
	}
	if err != nil {
		return nil, err
	}

	price.Authorizations, err = p.checkAccounts(ctx, tx)
	if err != nil {
		return nil, err
	}
	return price, nil
}

func checkType(tx *TxFeeSpec) error {
	if !tx.Type.Known() {
		return rejected(ReasonTxTypeNotSupported)
	}
	if !tx.Fork.AtLeast(kaia.EthTx) && (tx.Type.IsEthTyped() || tx.GasFeeCap != nil || tx.GasTipCap != nil) {
		return rejected(ReasonTxTypeNotSupported)
	}
	if tx.Type == TxTypeEthereumSetCode && !tx.Fork.AtLeast(kaia.Prague) {
		return rejected(ReasonTxTypeNotSupported)
	}
	return nil
}

// checkShape enforces that exactly one of the gas price or the fee cap pair is set.
func checkShape(tx *TxFeeSpec) error {
	if tx.Type.IsDynamicFee() {
		if tx.GasPrice != nil || tx.GasFeeCap == nil || tx.GasTipCap == nil {
			return rejected(ReasonMalformedFeeFields)
		}
		if tx.GasFeeCap.Sign() < 0 || tx.GasTipCap.Sign() < 0 {
			return rejected(ReasonMalformedFeeFields)
		}
		return nil
	}
	if tx.GasPrice == nil || tx.GasFeeCap != nil || tx.GasTipCap != nil || tx.GasPrice.Sign() < 0 {
		return rejected(ReasonMalformedFeeFields)
	}
	return nil
}

// priceUnit prices before magma, every fee field is pinned to the unit price.
func (p *Policy) priceUnit(tx *TxFeeSpec) (*Price, error) {
	if tx.Type.IsDynamicFee() {
		if tx.GasFeeCap.Cmp(p.unitPrice) != 0 || tx.GasTipCap.Cmp(p.unitPrice) != 0 {
			return nil, rejected(ReasonNotUnitPrice)
		}
	} else if tx.GasPrice.Cmp(p.unitPrice) != 0 {
		return nil, rejected(ReasonNotUnitPrice)
	}
	return &Price{
		EffectiveGasPrice: new(big.Int).Set(p.unitPrice),
		EffectiveTip:      new(big.Int),
	}, nil
}

func feeCap(tx *TxFeeSpec) *big.Int {
	if tx.Type.IsDynamicFee() {
		return tx.GasFeeCap
	}
	return tx.GasPrice
}

// priceMagma charges exactly the base fee, tips are ignored.
func priceMagma(tx *TxFeeSpec) (*Price, error) {
	if tx.BaseFee == nil {
		return nil, errBaseFeeRequired
	}
	if feeCap(tx).Cmp(tx.BaseFee) < 0 {
		return nil, rejected(ReasonFeeCapBelowBaseFeeMagma)
	}
	return &Price{
		EffectiveGasPrice: new(big.Int).Set(tx.BaseFee),
		EffectiveTip:      new(big.Int),
	}, nil
}

// priceKaia charges the base fee plus the tip, up to the fee cap.
func priceKaia(tx *TxFeeSpec) (*Price, error) {
	if tx.BaseFee == nil {
		return nil, errBaseFeeRequired
	}
	if !tx.Type.IsDynamicFee() {
		if tx.GasPrice.Cmp(tx.BaseFee) < 0 {
			return nil, rejected(ReasonFeeCapBelowBaseFee)
		}
		return &Price{
			EffectiveGasPrice: new(big.Int).Set(tx.GasPrice),
			EffectiveTip:      new(big.Int).Sub(tx.GasPrice, tx.BaseFee),
		}, nil
	}

	if tx.GasTipCap.Cmp(tx.GasFeeCap) > 0 {
		return nil, rejected(ReasonTipAboveFeeCap)
	}
	if tx.GasFeeCap.Cmp(tx.BaseFee) < 0 {
		return nil, rejected(ReasonFeeCapBelowBaseFee)
	}
	effective := new(big.Int).Add(tx.BaseFee, tx.GasTipCap)
	if tx.GasFeeCap.Cmp(effective) < 0 {
		effective.Set(tx.GasFeeCap)
	}
	return &Price{
		EffectiveGasPrice: new(big.Int).Set(effective),
		EffectiveTip:      new(big.Int).Sub(effective, tx.BaseFee),
	}, nil
}

type accountCache struct {
	reader AccountReader
	seen   map[kaia.Address]*Account
}

func (c *accountCache) get(ctx context.Context, addr kaia.Address) (*Account, error) {
	if acc, ok := c.seen[addr]; ok {
		return acc, nil
	}
	acc, err := c.reader.Account(ctx, addr)
	if err != nil {
		return nil, errors.WithMessagef(err, "read account %v", addr)
	}
	c.seen[addr] = acc
	return acc, nil
}

// checkAccounts applies the rules depending on sender and recipient state and
// returns the authorizations that survive.
func (p *Policy) checkAccounts(ctx context.Context, tx *TxFeeSpec) ([]Authorization, error) {
	if p.accounts == nil {
		return append([]Authorization(nil), tx.Authorizations...), nil
	}
	accounts := &accountCache{p.accounts, make(map[kaia.Address]*Account)}

	if tx.Type.IsEthereum() {
		from, err := accounts.get(ctx, tx.From)
		if err != nil {
			return nil, err
		}
		if !from.KeyType.IsLegacy() {
			return nil, rejected(ReasonLegacyKeyRequired)
		}
	}

	switch {
	case tx.Type.isValueTransfer():
		to, err := recipient(ctx, accounts, tx)
		if err != nil {
			return nil, err
		}
		if to.Type == AccountTypeSCA || to.HasCode() {
			return nil, rejected(ReasonToEOAWithoutCode)
		}
	case tx.Type.isContractExecution():
		to, err := recipient(ctx, accounts, tx)
		if err != nil {
			return nil, err
		}
		if to.Type != AccountTypeSCA && !to.HasCode() {
			return nil, rejected(ReasonToEOAWithCodeOrSCA)
		}
	case tx.Type.isAccountUpdate():
		from, err := accounts.get(ctx, tx.From)
		if err != nil {
			return nil, err
		}
		if from.HasCode() {
			return nil, rejected(ReasonFromEOAWithoutCode)
		}
	case tx.Type == TxTypeEthereumSetCode:
		return checkAuthorizations(ctx, accounts, tx.Authorizations)
	}
	return nil, nil
}

func recipient(ctx context.Context, accounts *accountCache, tx *TxFeeSpec) (*Account, error) {
	if tx.To == nil {
		return nil, rejected(ReasonRecipientRequired)
	}
	return accounts.get(ctx, *tx.To)
}

// checkAuthorizations drops entries whose authority moved to a non legacy key,
// and rejects the transaction if an authority cannot receive a delegation.
func checkAuthorizations(ctx context.Context, accounts *accountCache, auths []Authorization) ([]Authorization, error) {
	kept := make([]Authorization, 0, len(auths))
	for _, auth := range auths {
		acc, err := accounts.get(ctx, auth.Authority)
		if err != nil {
			return nil, err
		}
		if !acc.KeyType.IsLegacy() {
			logger.Debug("authorization ignored", "authority", auth.Authority, "keyType", acc.KeyType)
			continue
		}
		if acc.Type == AccountTypeSCA || (acc.HasCode() && !acc.IsDelegated()) {
			return nil, rejected(ReasonToEOAWithoutCode)
		}
		kept = append(kept, auth)
	}
	return kept, nil
}

// Result is the outcome of one transaction of a batch.
type Result struct {
	Price *Price
	Err   error // always a rejection
}

// ValidateBatch prices every transaction independently. A rejection stays in its
// result, any other error aborts the batch.
func (p *Policy) ValidateBatch(ctx context.Context, txs []*TxFeeSpec) ([]Result, error) {
	results := make([]Result, len(txs))
	for i, tx := range txs {
		price, err := p.PriceAndValidate(ctx, tx)
		if err != nil && !IsRejected(err) {
			return nil, errors.WithMessagef(err, "tx %d", i)
		}
		results[i] = Result{price, err}
	}
	return results, nil
}
