// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"bytes"
	"context"

	"github.com/vechain/kaiacore/kaia"
)

// AccountType distinguishes externally owned accounts from smart contract accounts.
type AccountType uint8

const (
	AccountTypeEOA AccountType = 1
	AccountTypeSCA AccountType = 2
)

// AccountKeyType is the key type attached to an account.
type AccountKeyType uint8

const (
	AccountKeyTypeNil AccountKeyType = iota
	AccountKeyTypeLegacy
	AccountKeyTypePublic
	AccountKeyTypeFail
	AccountKeyTypeWeightedMultiSig
	AccountKeyTypeRoleBased
)

// IsLegacy reports whether the key is derived from the address, the default of every new account.
func (k AccountKeyType) IsLegacy() bool {
	return k == AccountKeyTypeNil || k == AccountKeyTypeLegacy
}

// delegationPrefix starts the code of an EOA delegated by a SetCode transaction.
var delegationPrefix = []byte{0xef, 0x01, 0x00}

// Account is the state of an account as seen by fee validation.
type Account struct {
	Type    AccountType
	KeyType AccountKeyType
	Code    []byte
}

// HasCode reports whether the account carries code, a delegation included.
func (a *Account) HasCode() bool { return len(a.Code) > 0 }

// IsDelegated reports whether the code is a delegation designator.
func (a *Account) IsDelegated() bool {
	return len(a.Code) == len(delegationPrefix)+20 && bytes.HasPrefix(a.Code, delegationPrefix)
}

// AccountReader reads account state at the pending block.
type AccountReader interface {
	Account(ctx context.Context, addr kaia.Address) (*Account, error)
}
