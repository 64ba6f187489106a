// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/kaia"
)

func gkei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e9))
}

func addr(b byte) kaia.Address { return kaia.BytesToAddress([]byte{b}) }

func hash(b byte) kaia.Bytes32 { return kaia.BytesToBytes32([]byte{b}) }

func legacy(from kaia.Address, nonce uint64, price int64) *fee.TxFeeSpec {
	to := addr(0xff)
	return &fee.TxFeeSpec{Type: fee.TxTypeLegacy, From: from, To: &to, Nonce: nonce, GasPrice: gkei(price)}
}

func dynamic(from kaia.Address, nonce uint64, feeCap, tip int64) *fee.TxFeeSpec {
	to := addr(0xff)
	return &fee.TxFeeSpec{
		Type:      fee.TxTypeEthereumDynamicFee,
		From:      from,
		To:        &to,
		Nonce:     nonce,
		GasFeeCap: gkei(feeCap),
		GasTipCap: gkei(tip),
	}
}

func entry(from kaia.Address, nonce uint64, price int64) *Entry {
	return &Entry{
		Tx:    &fee.TxFeeSpec{From: from, Nonce: nonce},
		Price: &fee.Price{EffectiveGasPrice: gkei(price)},
	}
}

func TestOrder(t *testing.T) {
	a0 := entry(addr(1), 0, 30)
	a1 := entry(addr(1), 1, 100)
	b0 := entry(addr(2), 0, 50)
	c0 := entry(addr(3), 0, 50)
	a2 := entry(addr(1), 2, 10)

	tests := []struct {
		name string
		in   []*Entry
		want []*Entry
	}{
		{"empty", nil, []*Entry{}},
		{"price desc, arrival on ties", []*Entry{b0, c0}, []*Entry{b0, c0}},
		{"arrival breaks ties", []*Entry{c0, b0}, []*Entry{c0, b0}},
		{"nonce order beats price", []*Entry{a1, a0, b0, c0}, []*Entry{b0, c0, a0, a1}},
		{"sender chain", []*Entry{a2, a1, a0}, []*Entry{a0, a1, a2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]*Entry(nil), tt.in...)
			assert.Equal(t, tt.want, Order(tt.in))
			assert.Equal(t, in, tt.in, "input untouched")
		})
	}
}

func newPool(t *testing.T, opts Options) *Pool {
	p := New(fee.NewPolicy(gkei(25), nil), kaia.AllForks, opts)
	_, err := p.Reprice(context.Background(), 1, gkei(25))
	require.NoError(t, err)
	return p
}

func TestPool_NoHead(t *testing.T) {
	p := New(fee.NewPolicy(gkei(25), nil), kaia.AllForks, Options{})
	_, err := p.Add(context.Background(), hash(1), legacy(addr(1), 0, 30))
	assert.True(t, IsErrNoHead(err))

	_, _, ok := p.Pending()
	assert.False(t, ok)
}

func TestPool_Add(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, Options{LimitPerAccount: 2})

	e, err := p.Add(ctx, hash(1), dynamic(addr(1), 0, 100, 2))
	require.NoError(t, err)
	assert.Equal(t, gkei(27), e.Price.EffectiveGasPrice)
	assert.Equal(t, kaia.Prague, e.Tx.Fork)

	_, err = p.Add(ctx, hash(1), dynamic(addr(1), 0, 100, 2))
	assert.True(t, IsErrKnownTx(err))

	_, err = p.Add(ctx, hash(2), legacy(addr(1), 0, 27))
	assert.True(t, IsErrUnderpriced(err), "equal price does not replace")

	_, err = p.Add(ctx, hash(3), legacy(addr(1), 0, 20))
	assert.True(t, fee.IsRejected(err))

	_, err = p.Add(ctx, hash(4), legacy(addr(1), 0, 30))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len(), "replaced")

	_, err = p.Add(ctx, hash(5), legacy(addr(1), 1, 30))
	require.NoError(t, err)
	_, err = p.Add(ctx, hash(6), legacy(addr(1), 2, 30))
	assert.True(t, IsErrLimit(err))

	assert.Equal(t, 1, p.Remove(hash(4), hash(1)))
	assert.Equal(t, 1, p.Len())
}

func TestPool_PoolFull(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, Options{Limit: 1})

	_, err := p.Add(ctx, hash(1), legacy(addr(1), 0, 30))
	require.NoError(t, err)
	_, err = p.Add(ctx, hash(2), legacy(addr(2), 0, 30))
	assert.True(t, IsErrLimit(err))

	_, err = p.Add(ctx, hash(3), legacy(addr(1), 0, 31))
	assert.NoError(t, err, "replacement does not need a free slot")
}

func TestPool_Reprice(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, Options{})

	_, err := p.Add(ctx, hash(1), legacy(addr(1), 0, 30))
	require.NoError(t, err)
	_, err = p.Add(ctx, hash(2), dynamic(addr(2), 0, 100, 2))
	require.NoError(t, err)
	_, err = p.Add(ctx, hash(3), legacy(addr(3), 0, 60))
	require.NoError(t, err)

	ordered := p.Executables()
	require.Len(t, ordered, 3)
	assert.Equal(t, []kaia.Bytes32{hash(3), hash(1), hash(2)}, []kaia.Bytes32{ordered[0].Hash, ordered[1].Hash, ordered[2].Hash})

	dropped, err := p.Reprice(ctx, 2, gkei(40))
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 2, p.Len())

	n, baseFee, ok := p.Pending()
	assert.True(t, ok)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, gkei(40), baseFee)

	ordered = p.Executables()
	require.Len(t, ordered, 2)
	assert.Equal(t, hash(3), ordered[0].Hash)
	assert.Equal(t, hash(2), ordered[1].Hash)
	assert.Equal(t, gkei(42), ordered[1].Price.EffectiveGasPrice)
}
