package worker

// consensusOperations handles the periodic conflict resolution.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	for {
		select {
		case <-tick(w.resolveTicker):
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation adopts the longest valid chain of the network.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	if w.state.ResolveConflicts(w.ctx) {
		w.evHandler("worker: runConsensusOperation: chain replaced: blocks[%d]", w.state.RetrieveLatestBlock().Index)
		w.SignalStartMining()
	}
}

// Sync adopts the longest valid chain of the known peers before the node
// starts its background work.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	if len(w.state.RetrieveKnownPeers()) == 0 {
		w.evHandler("worker: sync: no known peers")
		return
	}

	w.state.ResolveConflicts(w.ctx)
}
