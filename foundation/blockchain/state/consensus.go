package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// ValidateChain reports if every block of the chain follows the block before
// it. The first block is trusted unless the node runs with strict genesis.
func (s *State) ValidateChain(chain []database.Block) bool {
	if err := database.ValidateChain(chain, s.genesis.Difficulty, s.evHandler); err != nil {
		s.evHandler("state: ValidateChain: invalid chain: %s", err)
		return false
	}

	if s.strictGenesis {
		genesisBlock, _ := s.db.GetBlock(1)
		if chain[0].Hash() != genesisBlock.Hash() {
			s.evHandler("state: ValidateChain: invalid chain: first block is not our genesis")
			return false
		}
	}

	return true
}

// ResolveConflicts queries every known peer for its chain and replaces the
// local chain with the longest valid chain that is longer than ours. Peers
// that can't be reached are skipped. The mempool is left untouched.
func (s *State) ResolveConflicts(ctx context.Context) bool {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	peers := s.knownPeers.Copy(s.host)
	responses := make([]*ChainResponse, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()

			resp, err := s.transport.QueryChain(ctx, pr.Host)
			if err != nil {
				s.evHandler("state: ResolveConflicts: QueryChain: %s: WARNING: %s", pr.Host, err)
				return
			}

			responses[i] = &resp
		}()
	}

	wg.Wait()

	maxLength := s.db.Length()
	var newChain []database.Block

	for i, resp := range responses {
		if resp == nil {
			continue
		}

		if resp.Length != len(resp.Chain) {
			s.evHandler("state: ResolveConflicts: %s: length[%d] doesn't match chain[%d]", peers[i].Host, resp.Length, len(resp.Chain))
			continue
		}

		if resp.Length <= maxLength {
			continue
		}

		if !s.ValidateChain(resp.Chain) {
			s.evHandler("state: ResolveConflicts: %s: invalid chain received", peers[i].Host)
			continue
		}

		maxLength = resp.Length
		newChain = resp.Chain
	}

	if newChain == nil {
		return false
	}

	if s.Worker != nil {
		done := s.Worker.SignalCancelMining()
		defer done()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The chain may have grown while the peers were queried.
	if len(newChain) <= s.db.Length() {
		return false
	}

	if err := s.db.Replace(newChain); err != nil {
		s.evHandler("state: ResolveConflicts: ERROR: %s", err)
		return false
	}

	s.evHandler("state: ResolveConflicts: chain replaced: blocks[%d]", len(newChain))

	return true
}
