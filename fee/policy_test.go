// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/kaiacore/kaia"
)

func gkei(n int64) *big.Int { return new(big.Int).Mul(big.NewInt(n), big.NewInt(kaia.Gkei)) }

func addr(i byte) kaia.Address { return kaia.BytesToAddress([]byte{0xaa, i}) }

func ptr(a kaia.Address) *kaia.Address { return &a }

type fakeAccounts struct {
	accounts map[kaia.Address]*Account
	err      error
}

func (f *fakeAccounts) Account(_ context.Context, a kaia.Address) (*Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	if acc, ok := f.accounts[a]; ok {
		return acc, nil
	}
	return &Account{Type: AccountTypeEOA, KeyType: AccountKeyTypeLegacy}, nil
}

var (
	eoa          = addr(1)
	eoaWithCode  = addr(2)
	sca          = addr(3)
	upgradedEOA  = addr(4)
	delegateCode = append([]byte{0xef, 0x01, 0x00}, addr(9).Bytes()...)
)

func newAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[kaia.Address]*Account{
		eoaWithCode: {Type: AccountTypeEOA, KeyType: AccountKeyTypeLegacy, Code: delegateCode},
		sca:         {Type: AccountTypeSCA, KeyType: AccountKeyTypeNil, Code: []byte{0x60, 0x80}},
		upgradedEOA: {Type: AccountTypeEOA, KeyType: AccountKeyTypePublic},
	}}
}

func legacyTx(fork kaia.ForkState, gasPrice *big.Int) *TxFeeSpec {
	return &TxFeeSpec{Type: TxTypeLegacy, From: eoa, To: ptr(eoa), GasPrice: gasPrice, Fork: fork, BaseFee: gkei(25)}
}

func dynamicTx(fork kaia.ForkState, feeCap, tipCap *big.Int) *TxFeeSpec {
	return &TxFeeSpec{Type: TxTypeEthereumDynamicFee, From: eoa, To: ptr(eoa), GasFeeCap: feeCap, GasTipCap: tipCap, Fork: fork, BaseFee: gkei(25)}
}

func TestPolicy_UnitPriceBeforeEthTx(t *testing.T) {
	p := NewPolicy(gkei(25), nil)
	ctx := context.Background()

	price, err := p.PriceAndValidate(ctx, legacyTx(kaia.PreEthTx, gkei(25)))
	require.NoError(t, err)
	assert.Equal(t, gkei(25).String(), price.EffectiveGasPrice.String())
	assert.Equal(t, 0, price.EffectiveTip.Sign())

	_, err = p.PriceAndValidate(ctx, legacyTx(kaia.PreEthTx, gkei(30)))
	assert.Equal(t, ReasonNotUnitPrice, ReasonOf(err))

	_, err = p.PriceAndValidate(ctx, dynamicTx(kaia.PreEthTx, gkei(25), gkei(25)))
	assert.Equal(t, ReasonTxTypeNotSupported, ReasonOf(err))

	tx := legacyTx(kaia.PreEthTx, gkei(25))
	tx.GasTipCap = gkei(1)
	_, err = p.PriceAndValidate(ctx, tx)
	assert.Equal(t, ReasonTxTypeNotSupported, ReasonOf(err), "dynamic fee fields on a legacy type")
}

func TestPolicy_PerFork(t *testing.T) {
	p := NewPolicy(gkei(25), nil)
	tests := []struct {
		name   string
		tx     *TxFeeSpec
		price  *big.Int
		tip    *big.Int
		reason string
	}{
		{"ethtx legacy", legacyTx(kaia.EthTx, gkei(25)), gkei(25), gkei(0), ""},
		{"ethtx legacy off price", legacyTx(kaia.EthTx, gkei(26)), nil, nil, ReasonNotUnitPrice},
		{"ethtx dynamic", dynamicTx(kaia.EthTx, gkei(25), gkei(25)), gkei(25), gkei(0), ""},
		{"ethtx dynamic low tip", dynamicTx(kaia.EthTx, gkei(25), gkei(1)), nil, nil, ReasonNotUnitPrice},
		{"ethtx dynamic high cap", dynamicTx(kaia.EthTx, gkei(50), gkei(25)), nil, nil, ReasonNotUnitPrice},
		{"magma dynamic", dynamicTx(kaia.Magma, gkei(100), gkei(30)), gkei(25), gkei(0), ""},
		{"magma legacy", legacyTx(kaia.Magma, gkei(50)), gkei(25), gkei(0), ""},
		{"magma cap below base", dynamicTx(kaia.Magma, gkei(24), gkei(0)), nil, nil, ReasonFeeCapBelowBaseFeeMagma},
		{"kore legacy below base", legacyTx(kaia.Kore, gkei(24)), nil, nil, ReasonFeeCapBelowBaseFeeMagma},
		{"kaia dynamic", dynamicTx(kaia.Kaia, gkei(27), gkei(1)), gkei(26), gkei(1), ""},
		{"kaia dynamic capped", dynamicTx(kaia.Kaia, gkei(27), gkei(5)), gkei(27), gkei(2), ""},
		{"kaia tip above cap", dynamicTx(kaia.Kaia, gkei(27), gkei(28)), nil, nil, ReasonTipAboveFeeCap},
		{"kaia cap below base", dynamicTx(kaia.Kaia, gkei(24), gkei(1)), nil, nil, ReasonFeeCapBelowBaseFee},
		{"kaia legacy", legacyTx(kaia.Kaia, gkei(30)), gkei(30), gkei(5), ""},
		{"kaia legacy at base", legacyTx(kaia.Kaia, gkei(25)), gkei(25), gkei(0), ""},
		{"kaia legacy below base", legacyTx(kaia.Kaia, gkei(20)), nil, nil, ReasonFeeCapBelowBaseFee},
		{"prague dynamic", dynamicTx(kaia.Prague, gkei(5000), gkei(4975)), gkei(5000), gkei(4975), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := p.PriceAndValidate(context.Background(), tt.tx)
			if tt.reason != "" {
				assert.True(t, IsRejected(err))
				assert.Equal(t, tt.reason, ReasonOf(err))
				assert.Nil(t, price)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.price.String(), price.EffectiveGasPrice.String())
			assert.Equal(t, tt.tip.String(), price.EffectiveTip.String())
		})
	}
}

func TestPolicy_Shape(t *testing.T) {
	p := NewPolicy(gkei(25), nil)
	ctx := context.Background()

	tests := []*TxFeeSpec{
		{Type: TxTypeEthereumDynamicFee, GasPrice: gkei(25), Fork: kaia.Kaia, BaseFee: gkei(25)},
		{Type: TxTypeEthereumDynamicFee, GasFeeCap: gkei(25), Fork: kaia.Kaia, BaseFee: gkei(25)},
		{Type: TxTypeLegacy, Fork: kaia.Kaia, BaseFee: gkei(25)},
		{Type: TxTypeValueTransfer, GasPrice: gkei(25), GasFeeCap: gkei(25), Fork: kaia.Kaia, BaseFee: gkei(25)},
		{Type: TxTypeLegacy, GasPrice: big.NewInt(-1), Fork: kaia.Kaia, BaseFee: gkei(25)},
		{Type: TxTypeEthereumDynamicFee, GasFeeCap: gkei(25), GasTipCap: big.NewInt(-1), Fork: kaia.Kaia, BaseFee: gkei(25)},
	}
	for i, tx := range tests {
		_, err := p.PriceAndValidate(ctx, tx)
		assert.Equal(t, ReasonMalformedFeeFields, ReasonOf(err), "case %d", i)
	}

	_, err := p.PriceAndValidate(ctx, &TxFeeSpec{Type: TxType(0x99), GasPrice: gkei(25), Fork: kaia.Kaia, BaseFee: gkei(25)})
	assert.Equal(t, ReasonTxTypeNotSupported, ReasonOf(err))

	_, err = p.PriceAndValidate(ctx, &TxFeeSpec{Type: TxTypeLegacy, GasPrice: gkei(25), Fork: kaia.Kaia})
	assert.Error(t, err)
	assert.False(t, IsRejected(err), "missing base fee is not the submitter's fault")
}

func TestPolicy_DeterministicAndForkGated(t *testing.T) {
	p := NewPolicy(gkei(25), nil)
	ctx := context.Background()
	setCode := &TxFeeSpec{
		Type: TxTypeEthereumSetCode, From: eoa, To: ptr(eoa),
		GasFeeCap: gkei(30), GasTipCap: gkei(1), BaseFee: gkei(25),
	}

	for _, fork := range []kaia.ForkState{kaia.PreEthTx, kaia.EthTx, kaia.Magma, kaia.Kore, kaia.Kaia} {
		tx := *setCode
		tx.Fork = fork
		_, err := p.PriceAndValidate(ctx, &tx)
		assert.Equal(t, ReasonTxTypeNotSupported, ReasonOf(err), "fork %v", fork)
	}

	tx := *setCode
	tx.Fork = kaia.Prague
	first, err := p.PriceAndValidate(ctx, &tx)
	require.NoError(t, err)
	for range 3 {
		again, err := p.PriceAndValidate(ctx, &tx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	dyn := dynamicTx(kaia.PreEthTx, gkei(25), gkei(25))
	_, err = p.PriceAndValidate(ctx, dyn)
	assert.True(t, IsRejected(err))
	dyn.Fork = kaia.EthTx
	_, err = p.PriceAndValidate(ctx, dyn)
	assert.NoError(t, err)
}

func TestPolicy_AccountRules(t *testing.T) {
	p := NewPolicy(gkei(25), newAccounts())
	ctx := context.Background()
	base := func(typ TxType, from kaia.Address, to *kaia.Address) *TxFeeSpec {
		return &TxFeeSpec{Type: typ, From: from, To: to, GasPrice: gkei(25), Fork: kaia.Prague, BaseFee: gkei(25)}
	}

	tests := []struct {
		name   string
		tx     *TxFeeSpec
		reason string
	}{
		{"value transfer to eoa", base(TxTypeValueTransfer, eoa, ptr(eoa)), ""},
		{"value transfer to delegated eoa", base(TxTypeValueTransfer, eoa, ptr(eoaWithCode)), ReasonToEOAWithoutCode},
		{"fd memo to sca", base(TxTypeFeeDelegatedValueTransferMemoWithRatio, eoa, ptr(sca)), ReasonToEOAWithoutCode},
		{"value transfer without recipient", base(TxTypeValueTransfer, eoa, nil), ReasonRecipientRequired},
		{"value transfer from delegated eoa", base(TxTypeValueTransfer, eoaWithCode, ptr(eoa)), ""},
		{"account update", base(TxTypeAccountUpdate, eoa, nil), ""},
		{"account update from delegated eoa", base(TxTypeFeeDelegatedAccountUpdate, eoaWithCode, nil), ReasonFromEOAWithoutCode},
		{"execution on sca", base(TxTypeSmartContractExecution, eoa, ptr(sca)), ""},
		{"execution on delegated eoa", base(TxTypeFeeDelegatedSmartContractExecutionWithRatio, eoa, ptr(eoaWithCode)), ""},
		{"execution on plain eoa", base(TxTypeSmartContractExecution, eoa, ptr(eoa)), ReasonToEOAWithCodeOrSCA},
		{"legacy from upgraded key", base(TxTypeLegacy, upgradedEOA, ptr(eoa)), ReasonLegacyKeyRequired},
		{"native type from upgraded key", base(TxTypeValueTransfer, upgradedEOA, ptr(eoa)), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.PriceAndValidate(ctx, tt.tx)
			if tt.reason == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.reason, ReasonOf(err))
			}
		})
	}
}

func TestPolicy_SetCodeAuthorizations(t *testing.T) {
	p := NewPolicy(gkei(25), newAccounts())
	ctx := context.Background()
	tx := &TxFeeSpec{
		Type: TxTypeEthereumSetCode, From: eoa, To: ptr(eoa),
		GasFeeCap: gkei(30), GasTipCap: gkei(1), Fork: kaia.Prague, BaseFee: gkei(25),
		Authorizations: []Authorization{
			{Address: addr(9), Authority: eoa},
			{Address: addr(9), Authority: upgradedEOA},
			{Address: addr(8), Authority: eoaWithCode},
		},
	}
	price, err := p.PriceAndValidate(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, []Authorization{tx.Authorizations[0], tx.Authorizations[2]}, price.Authorizations)

	tx.Authorizations = append(tx.Authorizations, Authorization{Address: addr(9), Authority: sca})
	_, err = p.PriceAndValidate(ctx, tx)
	assert.Equal(t, ReasonToEOAWithoutCode, ReasonOf(err))

	tx.Authorizations = nil
	tx.From = upgradedEOA
	_, err = p.PriceAndValidate(ctx, tx)
	assert.Equal(t, ReasonLegacyKeyRequired, ReasonOf(err))
}

func TestPolicy_ValidateBatch(t *testing.T) {
	ctx := context.Background()
	p := NewPolicy(gkei(25), newAccounts())
	txs := []*TxFeeSpec{
		dynamicTx(kaia.Kaia, gkei(27), gkei(1)),
		dynamicTx(kaia.Kaia, gkei(27), gkei(28)),
		legacyTx(kaia.Kaia, gkei(30)),
	}
	results, err := p.ValidateBatch(ctx, txs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, ReasonTipAboveFeeCap, ReasonOf(results[1].Err))
	assert.Nil(t, results[1].Price)
	assert.Equal(t, gkei(30).String(), results[2].Price.EffectiveGasPrice.String())

	failing := NewPolicy(gkei(25), &fakeAccounts{err: errors.New("node down")})
	_, err = failing.ValidateBatch(ctx, txs)
	assert.ErrorContains(t, err, "node down")
}

func TestTxType(t *testing.T) {
	assert.True(t, TxTypeFeeDelegatedValueTransferMemoWithRatio.isValueTransfer())
	assert.True(t, TxTypeFeeDelegatedAccountUpdateWithRatio.isAccountUpdate())
	assert.True(t, TxTypeFeeDelegatedSmartContractExecution.isContractExecution())
	assert.False(t, TxTypeSmartContractDeploy.isContractExecution())
	assert.True(t, TxTypeFeeDelegatedCancel.IsFeeDelegated())
	assert.False(t, TxTypeEthereumSetCode.IsFeeDelegated())
	assert.True(t, TxTypeEthereumSetCode.IsDynamicFee())
	assert.False(t, TxTypeLegacy.IsEthTyped())
	assert.Equal(t, "TxTypeEthereumSetCode", TxTypeEthereumSetCode.String())
	assert.Equal(t, uint16(30724), uint16(TxTypeEthereumSetCode))
	assert.Equal(t, "TxType(0x99)", TxType(0x99).String())
}
