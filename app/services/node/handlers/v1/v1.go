// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api. The paths carry no version prefix since the
// private paths are the protocol every node speaks to its peers.
package v1

import (
	"net/http"

	"github.com/ardanlabs/gossipchain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/gossipchain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/state"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = ""

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/mine", pbl.Mine)
	app.Handle(http.MethodPost, version, "/transactions/new", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/transactions/get/:address", pbl.Transactions)
	app.Handle(http.MethodGet, version, "/transactions/pending", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/block/:index", pbl.Block)
	app.Handle(http.MethodGet, version, "/nodes/list", pbl.Peers)
	app.Handle(http.MethodGet, version, "/nodes/resolve", pbl.Resolve)
	app.Handle(http.MethodGet, version, "/save", pbl.Save)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, version, "/nodes/add", prv.AddPeer)
	app.Handle(http.MethodPost, version, "/broadcast/event", prv.BroadcastEvent)
	app.Handle(http.MethodGet, version, "/chain", prv.Chain)
}
