// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/gossipchain/business/sys/validate"
	v1 "github.com/ardanlabs/gossipchain/business/web/v1"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/state"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// AddPeer registers the calling node and returns the known peer set.
func (h Handlers) AddPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req state.AddPeerRequest
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	resp := state.AddPeerResponse{
		Nodes: h.State.AddPeer(req.Node),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// BroadcastEvent queues a gossip envelope received from a peer. The event
// is processed and re-broadcast in the background so the sender is never
// held up by the rest of the flood.
func (h Handlers) BroadcastEvent(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var env gossip.Envelope
	if err := web.Decode(r, &env); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(env); err != nil {
		return err
	}

	if err := env.Event.Validate(); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("receive event", "traceid", v.TraceID, "event", env.Event, "from", env.NodeFrom)

	h.State.Worker.SignalReceiveEvent(env)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "OK",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain for a peer running conflict resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, state.NewChainResponse(h.State.RetrieveChain()), http.StatusOK)
}
