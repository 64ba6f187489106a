// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/reward"
	"github.com/vechain/kaiacore/staking"
	"github.com/vechain/kaiacore/txpool"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// StatusOf maps a domain error to the status it is responded with.
func StatusOf(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.status
	case fee.IsRejected(err),
		txpool.IsErrKnownTx(err),
		txpool.IsErrUnderpriced(err):
		return http.StatusBadRequest
	case txpool.IsErrLimit(err):
		return http.StatusServiceUnavailable
	case staking.IsNotFound(err):
		return http.StatusNotFound
	case committee.IsStaleQuery(err):
		return http.StatusGone
	case staking.IsNotYetAvailable(err), txpool.IsErrNoHead(err):
		return http.StatusTooEarly
	case reward.IsFatal(err):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
// The status responded for the error is picked by StatusOf.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			var he *httpError
			if errors.As(err, &he) && he.cause == nil {
				w.WriteHeader(he.status)
				return
			}
			http.Error(w, err.Error(), StatusOf(err))
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
