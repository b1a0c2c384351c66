package worker

import (
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
)

// eventOperations handles the events received from peers.
func (w *Worker) eventOperations() {
	w.evHandler("worker: eventOperations: G started")
	defer w.evHandler("worker: eventOperations: G completed")

	for {
		select {
		case env := <-w.recvEvents:
			if !w.isShutdown() {
				w.runEventOperation(env)
			}
		case <-w.shut:
			w.evHandler("worker: eventOperations: received shut signal")
			return
		}
	}
}

// runEventOperation applies the event and continues its flood.
func (w *Worker) runEventOperation(env gossip.Envelope) {
	w.evHandler("worker: runEventOperation: started: %s", env.Event)
	defer w.evHandler("worker: runEventOperation: completed: %s", env.Event)

	if err := w.state.ReceiveEvent(w.ctx, env); err != nil {
		w.evHandler("worker: runEventOperation: ERROR: %s", err)
	}
}
