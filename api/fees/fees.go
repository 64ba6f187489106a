// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/api/utils"
	"github.com/vechain/kaiacore/fee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/staking"
)

// MaxBatch is the most transactions a validate request may carry.
const MaxBatch = 256

type Fees struct {
	oracle *fee.Oracle
	policy *fee.Policy
	forks  kaia.ForkConfig
}

func New(oracle *fee.Oracle, policy *fee.Policy, forks kaia.ForkConfig) *Fees {
	return &Fees{oracle, policy, forks}
}

func (f *Fees) handleGetGasPrice(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &GasPrice{(*hexutil.Big)(f.oracle.SuggestGasPrice())})
}

func (f *Fees) handleGetPriority(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &FeesPriority{(*hexutil.Big)(f.oracle.SuggestTipCap())})
}

func (f *Fees) handleGetBaseFee(w http.ResponseWriter, _ *http.Request) error {
	next, baseFee, ok := f.oracle.PendingBaseFee()
	if !ok {
		return errors.Wrap(staking.ErrNotYetAvailable, "no block observed")
	}
	return utils.WriteJSON(w, &PendingBaseFee{hexutil.Uint64(next), (*hexutil.Big)(baseFee)})
}

func parsePercentiles(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	percentiles := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Errorf("invalid reward percentile %q", p)
		}
		percentiles = append(percentiles, v)
	}
	return percentiles, nil
}

func (f *Fees) handleGetFeesHistory(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	blockCount, err := strconv.ParseUint(query.Get("blockCount"), 10, 32)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "invalid blockCount, it should represent an integer"))
	}

	var newest uint64
	switch s := query.Get("newestBlock"); s {
	case "", "latest":
		next, _, ok := f.oracle.PendingBaseFee()
		if !ok {
			return errors.Wrap(staking.ErrNotYetAvailable, "no block observed")
		}
		newest = next - 1
	default:
		if newest, err = utils.ParseBlockNumber(s); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "newestBlock"))
		}
	}

	percentiles, err := parsePercentiles(query.Get("rewardPercentiles"))
	if err != nil {
		return utils.BadRequest(err)
	}

	history, err := f.oracle.FeeHistory(int(blockCount), newest, percentiles)
	if err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, convertHistory(history))
}

// target resolves the block and base fee the request is priced against.
func (f *Fees) target(body *ValidateRequest) (kaia.ForkState, *big.Int, error) {
	if body.Block == nil {
		next, baseFee, ok := f.oracle.PendingBaseFee()
		if !ok {
			return 0, nil, errors.Wrap(staking.ErrNotYetAvailable, "no block observed")
		}
		if body.BaseFee != nil {
			baseFee = toBig(body.BaseFee)
		}
		return f.forks.StateAt(next), baseFee, nil
	}

	fork := f.forks.StateAt(uint64(*body.Block))
	if fork.AtLeast(kaia.Magma) && body.BaseFee == nil {
		return 0, nil, utils.BadRequest(errors.New("baseFeePerGas: required from magma"))
	}
	return fork, toBig(body.BaseFee), nil
}

func (f *Fees) handleValidate(w http.ResponseWriter, req *http.Request) error {
	var body ValidateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Txs) > MaxBatch {
		return utils.BadRequest(errors.Errorf("txs: at most %d per request", MaxBatch))
	}

	fork, baseFee, err := f.target(&body)
	if err != nil {
		return err
	}
	specs := make([]*fee.TxFeeSpec, 0, len(body.Txs))
	for i := range body.Txs {
		specs = append(specs, body.Txs[i].Spec(fork, baseFee))
	}

	results, err := f.policy.ValidateBatch(req.Context(), specs)
	if err != nil {
		return err
	}
	out := make([]ValidateResult, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			out = append(out, ValidateResult{Reason: fee.ReasonOf(r.Err)})
			continue
		}
		out = append(out, ValidateResult{
			Accepted:          true,
			EffectiveGasPrice: (*hexutil.Big)(r.Price.EffectiveGasPrice),
			EffectiveTip:      (*hexutil.Big)(r.Price.EffectiveTip),
			Authorizations:    len(r.Price.Authorizations),
		})
	}
	return utils.WriteJSON(w, out)
}

func (f *Fees) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/gas-price").
		Methods(http.MethodGet).
		Name("GET /fees/gas-price").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetGasPrice))
	sub.Path("/priority").
		Methods(http.MethodGet).
		Name("GET /fees/priority").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPriority))
	sub.Path("/base-fee").
		Methods(http.MethodGet).
		Name("GET /fees/base-fee").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetBaseFee))
	sub.Path("/history").
		Methods(http.MethodGet).
		Name("GET /fees/history").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetFeesHistory))
	sub.Path("/validate").
		Methods(http.MethodPost).
		Name("POST /fees/validate").
		HandlerFunc(utils.WrapHandlerFunc(f.handleValidate))
}
