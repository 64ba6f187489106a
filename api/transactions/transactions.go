// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/kaiacore/api/utils"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/txpool"
)

type Transactions struct {
	pool *txpool.Pool
}

func New(pool *txpool.Pool) *Transactions {
	return &Transactions{pool}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body SendTx
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.ID.IsZero() {
		return utils.BadRequest(errors.New("body: id required"))
	}
	// fork and base fee are set by the pool
	entry, err := t.pool.Add(req.Context(), body.ID, body.Tx.Spec(kaia.PreEthTx, nil))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertEntry(entry))
}

func (t *Transactions) handleGetPending(w http.ResponseWriter, _ *http.Request) error {
	number, baseFee, ok := t.pool.Pending()
	if !ok {
		return utils.HTTPError(errors.New("pending block unknown"), http.StatusTooEarly)
	}
	entries := t.pool.Executables()
	out := &Pending{
		BlockNum: hexutil.Uint64(number),
		BaseFee:  (*hexutil.Big)(baseFee),
		Txs:      make([]*Pooled, 0, len(entries)),
	}
	for _, e := range entries {
		out.Txs = append(out.Txs, convertEntry(e))
	}
	return utils.WriteJSON(w, out)
}

func (t *Transactions) handleDeleteTransaction(w http.ResponseWriter, req *http.Request) error {
	id, err := kaia.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	if t.pool.Remove(id) == 0 {
		return utils.HTTPError(errors.New("transaction not pooled"), http.StatusNotFound)
	}
	return utils.WriteJSON(w, utils.M{"id": id})
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/pending").
		Methods(http.MethodGet).
		Name("GET /transactions/pending").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetPending))
	sub.Path("/{id}").
		Methods(http.MethodDelete).
		Name("DELETE /transactions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleDeleteTransaction))
}
