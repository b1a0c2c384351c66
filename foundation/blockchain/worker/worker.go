// Package worker implements mining, event sharing, event processing, and
// conflict resolution for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/state"
)

// maxEventRequests represents the max number of pending events, in each
// direction, that can be outstanding before new events are dropped. If a
// channel does become full, the event won't be shared or processed.
const maxEventRequests = 100

// Config represents the scheduling of the background work. A zero interval
// turns the related periodic operation off.
type Config struct {
	AutoMine        bool
	MineInterval    time.Duration
	ResolveInterval time.Duration
}

// =============================================================================

// Worker manages the POW workflows and the gossip queues for the blockchain.
type Worker struct {
	state         *state.State
	autoMine      bool
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	mineTicker    *time.Ticker
	resolveTicker *time.Ticker
	shut          chan struct{}
	startMining   chan bool
	cancelMining  chan chan struct{}
	shareEvents   chan share
	recvEvents    chan gossip.Envelope
	evHandler     state.EventHandler
}

// share is an event this node originated along with the hosts that must
// not be targeted.
type share struct {
	event   gossip.Event
	visited []string
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	w := Worker{
		state:        st,
		autoMine:     cfg.AutoMine,
		ctx:          ctx,
		cancel:       cancel,
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan chan struct{}, 1),
		shareEvents:  make(chan share, maxEventRequests),
		recvEvents:   make(chan gossip.Envelope, maxEventRequests),
		evHandler:    ev,
	}

	if cfg.AutoMine && cfg.MineInterval > 0 {
		w.mineTicker = time.NewTicker(cfg.MineInterval)
	}
	if cfg.ResolveInterval > 0 {
		w.resolveTicker = time.NewTicker(cfg.ResolveInterval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.shareOperations,
		w.eventOperations,
		w.consensusOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	if cfg.AutoMine {
		w.SignalStartMining()
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop tickers")
	if w.mineTicker != nil {
		w.mineTicker.Stop()
	}
	if w.resolveTicker != nil {
		w.resolveTicker.Stop()
	}

	w.evHandler("worker: shutdown: signal cancel mining")
	done := w.SignalCancelMining()
	done()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.cancel()
	w.wg.Wait()
}

// SignalStartMining starts a mining operation when the node mines
// automatically. If there is already a signal pending in the channel, just
// return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	if !w.autoMine {
		return
	}

	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately. That G will not return from the function until done
// is called. This allows the caller to complete any state changes before a new
// mining operation takes place.
func (w *Worker) SignalCancelMining() (done func()) {
	wait := make(chan struct{})

	select {
	case w.cancelMining <- wait:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")

	return func() { close(wait) }
}

// SignalShareEvent queues an event this node originated for broadcast. The
// visited hosts are never targeted. If maxEventRequests signals exist in
// the channel, the event won't be shared.
func (w *Worker) SignalShareEvent(event gossip.Event, visited ...string) {
	select {
	case w.shareEvents <- share{event: event, visited: visited}:
		w.evHandler("worker: SignalShareEvent: share %s signaled", event)
	default:
		w.evHandler("worker: SignalShareEvent: queue full, %s won't be shared.", event)
	}
}

// SignalReceiveEvent queues an event received from a peer for processing.
// If maxEventRequests signals exist in the channel, the event is dropped.
func (w *Worker) SignalReceiveEvent(env gossip.Envelope) {
	select {
	case w.recvEvents <- env:
		w.evHandler("worker: SignalReceiveEvent: %s from %s signaled", env.Event, env.NodeFrom)
	default:
		w.evHandler("worker: SignalReceiveEvent: queue full, %s from %s dropped.", env.Event, env.NodeFrom)
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// tick returns the ticker channel, or nil when the ticker is off so
// a select on it blocks forever.
func tick(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
