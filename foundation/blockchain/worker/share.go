package worker

import (
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
)

// shareOperations handles broadcasting the events this node originated.
func (w *Worker) shareOperations() {
	w.evHandler("worker: shareOperations: G started")
	defer w.evHandler("worker: shareOperations: G completed")

	for {
		select {
		case sh := <-w.shareEvents:
			if !w.isShutdown() {
				w.runShareOperation(sh)
			}
		case <-w.shut:
			w.evHandler("worker: shareOperations: received shut signal")
			return
		}
	}
}

// runShareOperation starts a flood of the event across the network.
func (w *Worker) runShareOperation(sh share) {
	w.evHandler("worker: runShareOperation: started: %s", sh.event)
	defer w.evHandler("worker: runShareOperation: completed: %s", sh.event)

	w.state.Broadcast(w.ctx, sh.event, gossip.NewVisited(sh.visited...))
}
