// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/api/utils"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/reward"
)

// DefaultRangeLimit is the widest range /rewards/accumulated accepts unless configured.
const DefaultRangeLimit = 604_800

var errNoSource = errors.New("block source not configured")

type Rewards struct {
	distributor *reward.Distributor
	src         reward.BlockSource // optional
	rangeLimit  uint64
}

// New creates the rewards api. Without src, every block must come with its proposer and fees.
func New(distributor *reward.Distributor, src reward.BlockSource, rangeLimit uint64) *Rewards {
	if rangeLimit == 0 {
		rangeLimit = DefaultRangeLimit
	}
	return &Rewards{distributor, src, rangeLimit}
}

func (r *Rewards) blockOf(req *http.Request, n uint64) (*reward.Block, error) {
	query := req.URL.Query()
	proposer := query.Get("proposer")
	if proposer == "" {
		if r.src == nil {
			return nil, utils.BadRequest(errors.New("proposer: required without block source"))
		}
		return r.src.Block(req.Context(), n)
	}

	addr, err := kaia.ParseAddress(proposer)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "proposer"))
	}
	total, err := utils.ParseAmount(query.Get("fee"))
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "fee"))
	}
	blk := &reward.Block{Number: n, Proposer: addr, Fees: reward.Fees{Total: total}}
	if s := query.Get("baseFeePart"); s != "" {
		if blk.Fees.BaseFeePart, err = utils.ParseAmount(s); err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "baseFeePart"))
		}
	}
	return blk, nil
}

func (r *Rewards) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	n, err := utils.ParseBlockNumber(mux.Vars(req)["block"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "block"))
	}
	blk, err := r.blockOf(req, n)
	if err != nil {
		return err
	}
	split, err := r.distributor.Distribute(req.Context(), n, blk.Proposer, blk.Fees)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSplit(split))
}

func (r *Rewards) handleGetAccumulated(w http.ResponseWriter, req *http.Request) error {
	if r.src == nil {
		return utils.HTTPError(errNoSource, http.StatusNotImplemented)
	}
	query := req.URL.Query()
	from, err := utils.ParseBlockNumber(query.Get("from"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "from"))
	}
	to, err := utils.ParseBlockNumber(query.Get("to"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "to"))
	}
	if from > to {
		return utils.BadRequest(errors.New("from: must not exceed to"))
	}
	if to-from >= r.rangeLimit {
		return utils.BadRequest(errors.Errorf("range: at most %d blocks", r.rangeLimit))
	}

	acc, err := r.distributor.Accumulate(req.Context(), r.src, from, to, reward.AccumulateOptions{})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertAccumulated(acc))
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/accumulated").
		Methods(http.MethodGet).
		Name("GET /rewards/accumulated").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetAccumulated))
	sub.Path("/{block}").
		Methods(http.MethodGet).
		Name("GET /rewards/{block}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRewards))
}
