// Package mempool maintains the pool of transactions accepted by the node
// but not yet included in a block.
package mempool

import (
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// Mempool represents the pending transactions in the order they were
// accepted. The order is kept since it becomes the order of the
// transactions in the next mined block.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool and returns the new count.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns the pending transactions in the order they were added.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)
	return trans
}

// PickAll returns every pending transaction and clears the pool.
func (mp *Mempool) PickAll() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	if trans == nil {
		trans = []database.Tx{}
	}
	return trans
}
