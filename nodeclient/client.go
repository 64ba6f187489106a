// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nodeclient reads chain state from a running node over JSON-RPC.
package nodeclient

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/log"
	"github.com/vechain/kaiacore/reward"
	"github.com/vechain/kaiacore/staking"
)

var logger = log.WithContext("pkg", "nodeclient")

// ErrNotFound is returned when the node has no answer for the requested block.
var ErrNotFound = errors.New("not found")

const latest = "latest"

// Client is a JSON-RPC client of a node.
type Client struct {
	rpc *rpc.Client
}

var (
	_ staking.Source     = (*Client)(nil)
	_ fee.AccountReader  = (*Client)(nil)
	_ reward.BlockSource = (*Client)(nil)
)

// Dial connects to the node at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	return &Client{rpc: c}, nil
}

// NewWithRPC wraps an established rpc client.
func NewWithRPC(c *rpc.Client) *Client {
	return &Client{rpc: c}
}

// Close closes the connection.
func (c *Client) Close() { c.rpc.Close() }

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	start := time.Now()
	err := c.rpc.CallContext(ctx, result, method, args...)
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"method": method})
	if err != nil {
		logger.Debug("call failed", "method", method, "err", err)
		return errors.Wrap(err, method)
	}
	return nil
}

func blockArg(n uint64) hexutil.Uint64 { return hexutil.Uint64(n) }

// BlockNumber returns the number of the latest committed block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// GetStakingInfo returns the staking info the node uses at blockNum, nil if it has none.
func (c *Client) GetStakingInfo(ctx context.Context, blockNum uint64) (*staking.StakingInfo, error) {
	var info *staking.StakingInfo
	if err := c.call(ctx, &info, "kaia_getStakingInfo", blockArg(blockNum)); err != nil {
		return nil, err
	}
	return info, nil
}

// Account implements fee.AccountReader against the latest state.
// An account the node does not know is a fresh EOA with a legacy key.
func (c *Client) Account(ctx context.Context, addr kaia.Address) (*fee.Account, error) {
	var acc *rpcAccount
	if err := c.call(ctx, &acc, "kaia_getAccount", addr, latest); err != nil {
		return nil, err
	}
	code, err := c.GetCode(ctx, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return &fee.Account{Type: fee.AccountTypeEOA, KeyType: fee.AccountKeyTypeLegacy, Code: code}, nil
	}
	return &fee.Account{
		Type:    fee.AccountType(acc.AccType),
		KeyType: fee.AccountKeyType(acc.Account.Key.KeyType),
		Code:    code,
	}, nil
}

// GetCode returns the code of addr at the latest state.
func (c *Client) GetCode(ctx context.Context, addr kaia.Address) ([]byte, error) {
	var code hexutil.Bytes
	if err := c.call(ctx, &code, "eth_getCode", addr, latest); err != nil {
		return nil, err
	}
	return code, nil
}

// GetBalance returns the balance of addr at blockNum.
func (c *Client) GetBalance(ctx context.Context, addr kaia.Address, blockNum uint64) (*big.Int, error) {
	var balance hexutil.Big
	if err := c.call(ctx, &balance, "eth_getBalance", addr, blockArg(blockNum)); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}

// IsContractAccount reports whether addr holds code at the latest state.
func (c *Client) IsContractAccount(ctx context.Context, addr kaia.Address) (bool, error) {
	var ok bool
	if err := c.call(ctx, &ok, "kaia_isContractAccount", addr, latest); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *Client) addresses(ctx context.Context, method string, arg any) ([]kaia.Address, error) {
	var addrs []kaia.Address
	if err := c.call(ctx, &addrs, method, arg); err != nil {
		return nil, err
	}
	return addrs, nil
}

// GetCommittee returns the validators of blockNum as the node sees them.
func (c *Client) GetCommittee(ctx context.Context, blockNum uint64) ([]kaia.Address, error) {
	return c.addresses(ctx, "kaia_getCommittee", blockArg(blockNum))
}

// GetCommitteeAtHash returns the validators of the block with the given hash.
func (c *Client) GetCommitteeAtHash(ctx context.Context, hash kaia.Bytes32) ([]kaia.Address, error) {
	return c.addresses(ctx, "kaia_getCommittee", hash.String())
}

// GetCouncil returns the council of blockNum as the node sees it.
func (c *Client) GetCouncil(ctx context.Context, blockNum uint64) ([]kaia.Address, error) {
	return c.addresses(ctx, "kaia_getCouncil", blockArg(blockNum))
}

// GetCouncilAtHash returns the council of the block with the given hash.
func (c *Client) GetCouncilAtHash(ctx context.Context, hash kaia.Bytes32) ([]kaia.Address, error) {
	return c.addresses(ctx, "kaia_getCouncil", hash.String())
}

// GetRewards returns the node's reward report of blockNum.
func (c *Client) GetRewards(ctx context.Context, blockNum uint64) (*Rewards, error) {
	var r *Rewards
	if err := c.call(ctx, &r, "kaia_getRewards", blockArg(blockNum)); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.Wrapf(ErrNotFound, "rewards of block %d", blockNum)
	}
	return r, nil
}

// GetChainConfig returns the chain config of the node.
func (c *Client) GetChainConfig(ctx context.Context) (*ChainConfig, error) {
	var cfg *ChainConfig
	if err := c.call(ctx, &cfg, "kaia_getChainConfig"); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.Wrap(ErrNotFound, "chain config")
	}
	return cfg, nil
}

func (c *Client) header(ctx context.Context, blockNum uint64) (*rpcHeader, error) {
	var h *rpcHeader
	if err := c.call(ctx, &h, "eth_getBlockByNumber", blockArg(blockNum), false); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.Wrapf(ErrNotFound, "block %d", blockNum)
	}
	return h, nil
}

func (c *Client) receipts(ctx context.Context, blockNum uint64) ([]rpcReceipt, error) {
	var receipts []rpcReceipt
	if err := c.call(ctx, &receipts, "eth_getBlockReceipts", blockArg(blockNum)); err != nil {
		return nil, err
	}
	return receipts, nil
}

// BlockFees returns the fee summary of blockNum for the gas price oracle.
func (c *Client) BlockFees(ctx context.Context, blockNum uint64) (*fee.BlockFees, error) {
	h, err := c.header(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	receipts, err := c.receipts(ctx, blockNum)
	if err != nil {
		return nil, err
	}

	bf := &fee.BlockFees{
		Number:  blockNum,
		GasUsed: uint64(h.GasUsed),
		Tips:    make([]fee.TxTip, 0, len(receipts)),
	}
	if h.BaseFee != nil {
		bf.BaseFee = h.BaseFee.ToInt()
	}
	for _, r := range receipts {
		tip := new(big.Int)
		if r.EffectiveGasPrice != nil {
			tip.Set(r.EffectiveGasPrice.ToInt())
			if bf.BaseFee != nil {
				tip.Sub(tip, bf.BaseFee)
			}
			if tip.Sign() < 0 {
				tip.SetInt64(0)
			}
		}
		bf.Tips = append(bf.Tips, fee.TxTip{Tip: tip, GasUsed: uint64(r.GasUsed)})
	}
	return bf, nil
}

// Block implements reward.BlockSource from the block header and receipts.
func (c *Client) Block(ctx context.Context, blockNum uint64) (*reward.Block, error) {
	h, err := c.header(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	receipts, err := c.receipts(ctx, blockNum)
	if err != nil {
		return nil, err
	}

	var (
		total   = new(big.Int)
		gasUsed uint64
	)
	for _, r := range receipts {
		if r.EffectiveGasPrice == nil {
			continue
		}
		total.Add(total, new(big.Int).Mul(r.EffectiveGasPrice.ToInt(), new(big.Int).SetUint64(uint64(r.GasUsed))))
		gasUsed += uint64(r.GasUsed)
	}

	b := &reward.Block{
		Number:   blockNum,
		Proposer: h.Miner,
		Fees:     reward.Fees{Total: total},
	}
	if h.BaseFee != nil {
		b.Fees.BaseFeePart = new(big.Int).Mul(h.BaseFee.ToInt(), new(big.Int).SetUint64(gasUsed))
	}
	return b, nil
}
