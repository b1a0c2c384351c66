package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
)

// ErrInsufficientBalance is returned when the sender's balance across the
// chain and the mempool can't cover the transaction amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// SubmitTransaction accepts a transaction from a local client and shares it
// with the network. It returns the index of the block the transaction is
// expected to land in.
func (s *State) SubmitTransaction(signedTx database.SignedTx) (uint64, error) {
	index, err := s.acceptTransaction(signedTx)
	if err != nil {
		return 0, err
	}

	if s.Worker != nil {
		s.Worker.SignalShareEvent(gossip.NewTransaction(signedTx))
		s.Worker.SignalStartMining()
	}

	return index, nil
}

// acceptTransaction verifies the signed transaction and the sender's balance
// before adding the transaction to the mempool.
func (s *State) acceptTransaction(signedTx database.SignedTx) (uint64, error) {
	if err := signedTx.Validate(); err != nil {
		return 0, err
	}

	tx := signedTx.Transaction

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := database.Balance(tx.Sender, s.db.Copy(), s.mempool.Copy())
	if balance < tx.Amount {
		return 0, fmt.Errorf("%w: account %s has %d, needs %d", ErrInsufficientBalance, tx.Sender, balance, tx.Amount)
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: acceptTransaction: tx[%s]: mempool[%d]", tx, n)

	return uint64(s.db.Length() + 1), nil
}
