// Package public maintains the group of handlers for operator access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/gossipchain/business/sys/validate"
	v1 "github.com/ardanlabs/gossipchain/business/web/v1"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/state"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// Mine forges a new block from the mempool and shares it with the peers.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		return fmt.Errorf("mining block: %w", err)
	}

	h.State.Worker.SignalShareEvent(gossip.NewBlock(block))

	resp := mined{
		Message: "New Block Forged",
		Block:   block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new signed transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx database.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(signedTx); err != nil {
		return err
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", signedTx)

	index, err := h.State.SubmitTransaction(signedTx)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidSignature):
			return v1.NewRequestError(err, http.StatusForbidden)
		case errors.Is(err, state.ErrInsufficientBalance):
			return v1.NewRequestError(err, http.StatusPaymentRequired)
		}
		return err
	}

	resp := submitted{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Transactions returns the sent and received transactions for an address
// along with its balance.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := database.AccountID(web.Param(r, "address"))
	if acct := h.NS.Resolve(string(address)); acct != "" {
		address = acct
	}

	sent, recv := h.State.QueryTransactions(address)

	info := txInfo{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.State.Balance(address),
		Sent:    h.toTxs(sent),
		Recv:    h.toTxs(recv),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// Mempool returns the set of transactions waiting for a block.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pending := h.State.QueryMempool()

	trans := make([]tx, len(pending))
	for i, tran := range pending {
		trans[i] = h.toTx(state.TxStatus{Tx: tran, Status: state.StatusPending})
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, state.NewChainResponse(h.State.RetrieveChain()), http.StatusOK)
}

// Block returns the block at the 1-based index.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	block, exists := h.State.QueryBlock(index)
	if !exists {
		return v1.NewRequestError(fmt.Errorf("block %d not found", index), http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Peers returns the known peers of this node.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	known := h.State.RetrieveKnownPeers()

	resp := peers{
		Nodes: make([]string, len(known)),
	}
	for i, p := range known {
		resp.Nodes[i] = p.Host
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resolve runs the consensus algorithm against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := resolved{
		Message: "Our chain is authoritative",
	}

	if h.State.ResolveConflicts(ctx) {
		resp.Message = "Our chain was replaced"
	}
	resp.Chain = h.State.RetrieveChain()

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Save writes the chain to the configured storage.
func (h Handlers) Save(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.Save(); err != nil {
		return fmt.Errorf("saving chain: %w", err)
	}

	resp := saved{
		Message: "Chain saved",
		Length:  len(h.State.RetrieveChain()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

func (h Handlers) toTxs(txs []state.TxStatus) []tx {
	trans := make([]tx, len(txs))
	for i, tran := range txs {
		trans[i] = h.toTx(tran)
	}
	return trans
}

func (h Handlers) toTx(tran state.TxStatus) tx {
	return tx{
		Sender:        tran.Sender,
		SenderName:    h.NS.Lookup(tran.Sender),
		Recipient:     tran.Recipient,
		RecipientName: h.NS.Lookup(tran.Recipient),
		Amount:        tran.Amount,
		Status:        tran.Status,
		Block:         tran.Block,
	}
}
