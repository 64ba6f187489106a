// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/kaiacore/kaia"
)

func kaiaOf(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(kaia.Token))
}

func node(i byte) kaia.Address    { return kaia.BytesToAddress([]byte{0x0a, i}) }
func stakeOf(i byte) kaia.Address { return kaia.BytesToAddress([]byte{0x0b, i}) }
func reward(i byte) kaia.Address  { return kaia.BytesToAddress([]byte{0x0c, i}) }

func newTestLedger(t *testing.T, forks kaia.ForkConfig) *MemLedger {
	l := NewMemLedger(forks, 1)
	for i, amount := range []int64{6_000_000, 8_000_000, 16_000_000, 24_000_000} {
		id := byte(i + 1)
		require.NoError(t, l.Register(1, node(id), stakeOf(id), reward(id), kaiaOf(amount)))
	}
	require.NoError(t, l.Commit(1))
	return l
}

func TestMemLedger_PointInTime(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, kaia.NoFork)

	require.NoError(t, l.Withdraw(5, node(2), kaiaOf(4_000_000)))
	require.NoError(t, l.Commit(5))
	require.NoError(t, l.Deposit(9, node(2), kaiaOf(4_000_000)))
	require.NoError(t, l.Commit(9))

	tests := []struct {
		block uint64
		want  *big.Int
	}{
		{1, kaiaOf(8_000_000)},
		{4, kaiaOf(8_000_000)},
		{5, kaiaOf(4_000_000)},
		{8, kaiaOf(4_000_000)},
		{9, kaiaOf(8_000_000)},
	}
	for _, tt := range tests {
		got, err := Stake(ctx, l, node(2), tt.block)
		require.NoError(t, err)
		assert.Equal(t, tt.want.String(), got.String(), "block %d", tt.block)
	}

	cands, err := Candidates(ctx, l, 5)
	require.NoError(t, err)
	require.Len(t, cands, 4)
	for i, c := range cands {
		assert.Equal(t, node(byte(i+1)), c.NodeAddr, "registration order")
	}
}

func TestMemLedger_Errors(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, kaia.NoFork)

	_, err := l.StakingInfo(ctx, 0)
	assert.True(t, IsNotFound(err))

	_, err = l.StakingInfo(ctx, 2)
	assert.True(t, IsNotYetAvailable(err))

	_, err = Stake(ctx, l, node(9), 1)
	assert.ErrorIs(t, err, ErrUnknownCandidate)

	assert.ErrorIs(t, l.Deposit(1, node(1), kaiaOf(1)), errCommitted, "committed blocks are immutable")
	assert.ErrorIs(t, l.Withdraw(2, node(1), kaiaOf(7_000_000)), errInsufficientStake)
	assert.ErrorIs(t, l.Register(2, node(1), stakeOf(1), reward(1), kaiaOf(1)), errDuplicate)
	assert.ErrorIs(t, l.Commit(1), errCommitted)
}

func TestMemLedger_InvalidAmount(t *testing.T) {
	l := newTestLedger(t, kaia.AllForks)
	require.NoError(t, l.RegisterCL(2, CLStakingInfo{NodeAddr: node(1), GCID: 1, Amount: kaiaOf(1)}))

	tests := []struct {
		name  string
		write func(*big.Int) error
	}{
		{"register", func(a *big.Int) error { return l.Register(2, node(7), stakeOf(7), reward(7), a) }},
		{"register pool", func(a *big.Int) error { return l.RegisterCL(2, CLStakingInfo{NodeAddr: node(2), GCID: 2, Amount: a}) }},
		{"deposit", func(a *big.Int) error { return l.Deposit(2, node(1), a) }},
		{"withdraw", func(a *big.Int) error { return l.Withdraw(2, node(1), a) }},
		{"set pool amount", func(a *big.Int) error { return l.SetCLAmount(2, node(1), a) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.write(nil), errNegativeAmount)
			assert.ErrorIs(t, tt.write(big.NewInt(-1)), errNegativeAmount)
		})
	}
}

func TestMemLedger_UncommittedInvisible(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, kaia.NoFork)

	require.NoError(t, l.WithdrawAll(2, node(4)))
	_, err := l.StakingInfo(ctx, 2)
	assert.True(t, IsNotYetAvailable(err))

	got, err := Stake(ctx, l, node(4), 1)
	require.NoError(t, err)
	assert.Equal(t, kaiaOf(24_000_000).String(), got.String())

	require.NoError(t, l.Commit(2))
	got, err = Stake(ctx, l, node(4), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())
}

func TestMemLedger_LateRegistration(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, kaia.NoFork)

	require.NoError(t, l.Register(3, node(5), stakeOf(5), reward(5), kaiaOf(5_000_000)))
	require.NoError(t, l.Commit(3))

	cands, err := Candidates(ctx, l, 2)
	require.NoError(t, err)
	assert.Len(t, cands, 4)

	cands, err = Candidates(ctx, l, 3)
	require.NoError(t, err)
	assert.Len(t, cands, 5)
}

func TestMemLedger_CLBeforeAndAfterPrague(t *testing.T) {
	ctx := context.Background()
	forks := kaia.NoFork
	forks.PRAGUE = 4
	l := newTestLedger(t, forks)

	require.NoError(t, l.RegisterCL(2, CLStakingInfo{
		NodeAddr:   node(1),
		GCID:       1,
		PoolAddr:   kaia.BytesToAddress([]byte{0x0d, 1}),
		RewardAddr: kaia.BytesToAddress([]byte{0x0e, 1}),
		Amount:     kaiaOf(10_000_000),
	}))
	// no council node with this id
	require.NoError(t, l.RegisterCL(2, CLStakingInfo{
		NodeAddr: node(9),
		Amount:   kaiaOf(5_000_000),
	}))
	require.NoError(t, l.Commit(4))

	info, err := l.StakingInfo(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, info.CLStakingInfos, "no pool info before prague")
	assert.Nil(t, info.Candidates[0].CL)

	info, err = l.StakingInfo(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, info.CLStakingInfos)
	assert.Len(t, info.CLStakingInfos, 2)
	require.NotNil(t, info.Candidates[0].CL)
	assert.Equal(t, kaiaOf(16_000_000).String(), info.Candidates[0].EffectiveAmount(true).String())
	assert.Equal(t, kaiaOf(6_000_000).String(), info.Candidates[0].EffectiveAmount(false).String())
	for _, c := range info.Candidates[1:] {
		assert.Nil(t, c.CL)
	}

	require.NoError(t, l.SetCLAmount(5, node(1), kaiaOf(1)))
	require.NoError(t, l.Commit(5))
	info, err = l.StakingInfo(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, kaiaOf(1).String(), info.Candidates[0].CL.Amount.String())
}

func TestMemLedger_WaitForHeight(t *testing.T) {
	l := newTestLedger(t, kaia.NoFork)

	done := make(chan error, 1)
	go func() {
		done <- l.WaitForHeight(context.Background(), 3)
	}()
	require.NoError(t, l.Commit(2))
	require.NoError(t, l.Commit(3))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestStakingInfo_CopyIsDeep(t *testing.T) {
	forks := kaia.AllForks
	l := newTestLedger(t, forks)
	require.NoError(t, l.RegisterCL(2, CLStakingInfo{NodeAddr: node(2), Amount: kaiaOf(3)}))
	require.NoError(t, l.Commit(2))

	info, err := l.StakingInfo(context.Background(), 2)
	require.NoError(t, err)

	cpy := info.Copy()
	cpy.Candidates[1].StakingAmount.SetInt64(0)
	cpy.Candidates[1].CL.Amount.SetInt64(0)

	assert.Equal(t, kaiaOf(8_000_000).String(), info.Candidates[1].StakingAmount.String())
	assert.Equal(t, kaiaOf(3).String(), info.Candidates[1].CL.Amount.String())
	assert.Same(t, cpy.CLStakingInfos[0], cpy.Candidates[1].CL)
}
