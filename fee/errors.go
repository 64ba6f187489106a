// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"github.com/pkg/errors"
)

// rejection reasons, as reported to the submitter.
const (
	ReasonTxTypeNotSupported      = "transaction type not supported"
	ReasonNotUnitPrice            = "invalid gas tip/fee cap: must equal unit price"
	ReasonFeeCapBelowBaseFeeMagma = "invalid gas fee cap: must be >= baseFee"
	ReasonTipAboveFeeCap          = "tip exceeds fee cap"
	ReasonFeeCapBelowBaseFee      = "fee cap below base fee"
	ReasonMalformedFeeFields      = "malformed fee fields"
	ReasonRecipientRequired       = "recipient required"
	ReasonToEOAWithoutCode        = "recipient must be an EOA without code"
	ReasonFromEOAWithoutCode      = "sender must be an EOA without code"
	ReasonToEOAWithCodeOrSCA      = "recipient must be an EOA with code or an SCA"
	ReasonLegacyKeyRequired       = "a legacy transaction must be with a legacy account key"
)

// RejectedError is returned for a transaction that violates the fee or account rules.
// It concerns one transaction only and is never retried.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func rejected(reason string) error {
	return &RejectedError{reason}
}

// IsRejected reports whether err is a rejection.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

// ReasonOf returns the rejection reason carried by err, or "" if err is not a rejection.
func ReasonOf(err error) string {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}
