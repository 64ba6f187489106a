// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/kaia"
)

// Ratio is a list of percentages summing to 100, written as "34/54/12".
type Ratio []uint64

// ParseRatio parses s into a ratio of exactly parts entries.
func ParseRatio(s string, parts int) (Ratio, error) {
	fields := strings.Split(s, "/")
	if len(fields) != parts {
		return nil, errors.Errorf("ratio %q: want %d parts, got %d", s, parts, len(fields))
	}
	var (
		r   = make(Ratio, 0, parts)
		sum uint64
	)
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "ratio %q", s)
		}
		r = append(r, v)
		sum += v
	}
	if sum != 100 {
		return nil, errors.Errorf("ratio %q: parts sum to %d, want 100", s, sum)
	}
	return r, nil
}

func (r Ratio) String() string {
	fields := make([]string, 0, len(r))
	for _, v := range r {
		fields = append(fields, strconv.FormatUint(v, 10))
	}
	return strings.Join(fields, "/")
}

// MarshalText implements encoding.TextMarshaler.
func (r Ratio) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. The part count is checked by Config.Validate.
func (r *Ratio) UnmarshalText(text []byte) error {
	parsed, err := ParseRatio(string(text), strings.Count(string(text), "/")+1)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// of returns amount * r[i] / 100.
func (r Ratio) of(i int, amount *big.Int) *big.Int {
	x := new(big.Int).Mul(amount, new(big.Int).SetUint64(r[i]))
	return x.Div(x, big100)
}

// CLSplit decides how the reward credited to a node is shared with its linked pool.
type CLSplit uint8

const (
	// CLSplitEqual gives each side half, the odd kei goes to the council node.
	CLSplitEqual CLSplit = iota
	// CLSplitByStake shares in proportion to the node and pool stakes.
	CLSplitByStake
)

func (m CLSplit) String() string {
	if m == CLSplitByStake {
		return "stake"
	}
	return "equal"
}

// MarshalText implements encoding.TextMarshaler.
func (m CLSplit) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CLSplit) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "equal":
		*m = CLSplitEqual
	case "stake":
		*m = CLSplitByStake
	default:
		return errors.Errorf("unknown cl split %q", text)
	}
	return nil
}

// Config holds the reward parameters of a network.
type Config struct {
	MintingAmount *big.Int `json:"mintingAmount" yaml:"mintingAmount"` // kei minted per block
	Ratio         Ratio    `json:"ratio" yaml:"ratio"`                 // gc/kif/kef
	Kip82Ratio    Ratio    `json:"kip82Ratio" yaml:"kip82Ratio"`       // proposer/stakers, from kore
	DeferredTxFee bool     `json:"deferredTxFee" yaml:"deferredTxFee"`
	MinStake      *big.Int `json:"minStake,omitempty" yaml:"minStake,omitempty"` // snapshot threshold if nil
	CLSplit       CLSplit  `json:"clSplit" yaml:"clSplit"`
}

var big100 = big.NewInt(100)

// DefaultConfig returns the mainnet reward parameters.
func DefaultConfig() Config {
	minted, _ := new(big.Int).SetString(kaia.DefaultMintingAmount, 10)
	ratio, _ := ParseRatio(kaia.DefaultRewardRatio, 3)
	kip82, _ := ParseRatio(kaia.DefaultKip82Ratio, 2)
	return Config{
		MintingAmount: minted,
		Ratio:         ratio,
		Kip82Ratio:    kip82,
		DeferredTxFee: true,
	}
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	if c.MintingAmount == nil || c.MintingAmount.Sign() < 0 {
		return errors.New("minting amount must be non-negative")
	}
	if len(c.Ratio) != 3 {
		return errors.Errorf("ratio %q: want gc/kif/kef", c.Ratio)
	}
	if len(c.Kip82Ratio) != 2 {
		return errors.Errorf("kip82 ratio %q: want proposer/stakers", c.Kip82Ratio)
	}
	if c.MinStake != nil && c.MinStake.Sign() < 0 {
		return errors.New("min stake must be non-negative")
	}
	return nil
}

// Minting is the per block minted amount split between its recipients.
type Minting struct {
	Minted *big.Int
	GC     *big.Int // council subsidy
	KIF    *big.Int
	KEF    *big.Int
}

// Mint splits the minting amount. The floor division remainder goes to the KEF.
func (c *Config) Mint() Minting {
	m := Minting{
		Minted: new(big.Int).Set(c.MintingAmount),
		GC:     c.Ratio.of(0, c.MintingAmount),
		KIF:    c.Ratio.of(1, c.MintingAmount),
	}
	m.KEF = new(big.Int).Sub(m.Minted, m.GC)
	m.KEF.Sub(m.KEF, m.KIF)
	return m
}

// Subsidy returns the council share of the minting amount.
func (c *Config) Subsidy() *big.Int { return c.Mint().GC }

// Nominal splits the subsidy into the proposer cut and the staker pool.
// Before kore the whole subsidy is the proposer cut.
func (c *Config) Nominal(fork kaia.ForkState, subsidy *big.Int) (proposer, stakers *big.Int) {
	if !fork.AtLeast(kaia.Kore) {
		return new(big.Int).Set(subsidy), new(big.Int)
	}
	proposer = c.Kip82Ratio.of(0, subsidy)
	return proposer, new(big.Int).Sub(subsidy, proposer)
}
