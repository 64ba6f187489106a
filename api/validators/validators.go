// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/api/utils"
	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/staking"
)

type Validators struct {
	selector *committee.Selector
	ledger   staking.Ledger
}

func New(selector *committee.Selector, ledger staking.Ledger) *Validators {
	return &Validators{selector, ledger}
}

func blockParam(req *http.Request) (uint64, error) {
	n, err := utils.ParseBlockNumber(mux.Vars(req)["block"])
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "block"))
	}
	return n, nil
}

func (v *Validators) handleGetCommittee(w http.ResponseWriter, req *http.Request) error {
	n, err := blockParam(req)
	if err != nil {
		return err
	}
	c, err := v.selector.CommitteeAt(req.Context(), n)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Committee{
		BlockNum:   c.BlockNum,
		Boundary:   c.Boundary,
		Validators: c.Validators,
		Demoted:    c.Demoted,
	})
}

func (v *Validators) handleGetCommitteeSize(w http.ResponseWriter, req *http.Request) error {
	n, err := blockParam(req)
	if err != nil {
		return err
	}
	size, err := v.selector.CommitteeSize(req.Context(), n)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Size{n, size})
}

func (v *Validators) handleGetCouncil(w http.ResponseWriter, req *http.Request) error {
	n, err := blockParam(req)
	if err != nil {
		return err
	}
	council, err := v.selector.CouncilAt(req.Context(), n)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Members{n, council})
}

func (v *Validators) handleGetCouncilSize(w http.ResponseWriter, req *http.Request) error {
	n, err := blockParam(req)
	if err != nil {
		return err
	}
	size, err := v.selector.CouncilSize(req.Context(), n)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Size{n, size})
}

func (v *Validators) handleGetDemoted(w http.ResponseWriter, req *http.Request) error {
	n, err := blockParam(req)
	if err != nil {
		return err
	}
	demoted, err := v.selector.DemotedAt(req.Context(), n)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Members{n, demoted})
}

func (v *Validators) handleGetStakingInfo(w http.ResponseWriter, req *http.Request) error {
	n, err := blockParam(req)
	if err != nil {
		return err
	}
	info, err := v.ledger.StakingInfo(req.Context(), n)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

// Mount registers the committee, council, demoted and staking routes on root.
func (v *Validators) Mount(root *mux.Router) {
	root.
		Path("/committee/{block}").
		Methods(http.MethodGet).
		Name("GET /committee/{block}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetCommittee))
	root.
		Path("/committee/{block}/size").
		Methods(http.MethodGet).
		Name("GET /committee/{block}/size").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetCommitteeSize))
	root.
		Path("/council/{block}").
		Methods(http.MethodGet).
		Name("GET /council/{block}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetCouncil))
	root.
		Path("/council/{block}/size").
		Methods(http.MethodGet).
		Name("GET /council/{block}/size").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetCouncilSize))
	root.
		Path("/demoted/{block}").
		Methods(http.MethodGet).
		Name("GET /demoted/{block}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetDemoted))
	root.
		Path("/staking/{block}").
		Methods(http.MethodGet).
		Name("GET /staking/{block}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetStakingInfo))
}
