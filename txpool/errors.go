// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/pkg/errors"

var (
	errKnownTx      = errors.New("known transaction")
	errUnderpriced  = errors.New("replacement transaction underpriced")
	errPoolFull     = errors.New("tx pool is full")
	errAccountQuota = errors.New("account quota exceeds limit")
	errNoHead       = errors.New("pending block unknown")
)

func IsErrKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

func IsErrUnderpriced(err error) bool {
	return errors.Is(err, errUnderpriced)
}

// IsErrLimit reports whether the pool refused a tx for capacity reasons.
func IsErrLimit(err error) bool {
	return errors.Is(err, errPoolFull) || errors.Is(err, errAccountQuota)
}

// IsErrNoHead reports whether the pool was used before its first Reprice.
func IsErrNoHead(err error) bool {
	return errors.Is(err, errNoHead)
}
