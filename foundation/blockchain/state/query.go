package state

import (
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
)

// Set of status values for a queried transaction.
const (
	StatusValidated = "validated"
	StatusPending   = "pending"
)

// TxStatus is a transaction along with where it currently lives.
type TxStatus struct {
	database.Tx
	Status string `json:"status"`
	Block  uint64 `json:"block,omitempty"`
}

// =============================================================================

// Balance computes the balance of the account across the chain and the
// mempool.
func (s *State) Balance(accountID database.AccountID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.Balance(accountID, s.db.Copy(), s.mempool.Copy())
}

// QueryTransactions returns the transactions sent and received by the
// account, chained transactions first in chain order.
func (s *State) QueryTransactions(accountID database.AccountID) (sent []TxStatus, received []TxStatus) {
	s.mu.RLock()
	chain := s.db.Copy()
	pending := s.mempool.Copy()
	s.mu.RUnlock()

	add := func(tx database.Tx, status string, index uint64) {
		txs := TxStatus{Tx: tx, Status: status, Block: index}
		if tx.Sender == accountID {
			sent = append(sent, txs)
		}
		if tx.Recipient == accountID {
			received = append(received, txs)
		}
	}

	for _, block := range chain {
		for _, tx := range block.Transactions {
			add(tx, StatusValidated, block.Index)
		}
	}

	for _, tx := range pending {
		add(tx, StatusPending, 0)
	}

	return sent, received
}

// QueryBlock returns the block at the specified 1-based index.
func (s *State) QueryBlock(index uint64) (database.Block, bool) {
	return s.db.GetBlock(index)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryMempool returns a copy of the pending transactions.
func (s *State) QueryMempool() []database.Tx {
	return s.mempool.Copy()
}

// =============================================================================

// RetrieveChain returns a copy of the chain.
func (s *State) RetrieveChain() []database.Block {
	return s.db.Copy()
}

// RetrieveLatestBlock returns a copy of the latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveKnownPeers retrieves a copy of the known peer list, excluding
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}
