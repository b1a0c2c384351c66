package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// MineNewBlock solves the proof of work against the latest block and appends
// a new block carrying every pending transaction. The search runs without
// holding the lock. If the chain moved while searching the search restarts
// against the new latest block. The only error is the context being done.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	for {
		prevBlock := s.db.LatestBlock()
		prevHash := prevBlock.Hash()

		s.evHandler("state: MineNewBlock: MINING: perform POW: prevBlk[%d]", prevBlock.Index)

		proof, err := database.ProofOfWork(ctx, s.genesis.Difficulty, prevBlock.Proof, prevHash, s.evHandler)
		if err != nil {
			return database.Block{}, err
		}

		block, appended := s.appendMinedBlock(prevHash, prevBlock, proof)
		if !appended {
			s.evHandler("state: MineNewBlock: MINING: chain moved during POW: restarting")
			continue
		}

		s.evHandler("state: MineNewBlock: MINING: blk[%d]: numTrans[%d]", block.Index, len(block.Transactions))
		s.blockEvent(block)

		return block, nil
	}
}

// appendMinedBlock builds and appends the block if the latest block is still
// the one the proof was solved against.
func (s *State) appendMinedBlock(prevHash string, prevBlock database.Block, proof uint64) (database.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.LatestBlock().Hash() != prevHash {
		return database.Block{}, false
	}

	trans := s.mempool.PickAll()
	if s.genesis.MiningReward > 0 {
		trans = append(trans, database.NewTx(database.CoinbaseID, s.beneficiary, s.genesis.MiningReward))
	}

	block := database.NewBlock(prevBlock, proof, trans)
	s.db.Append(block)

	return block, true
}

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, clears the mempool and adds the block to the local chain.
// A rejected block leaves the state untouched.
func (s *State) ProcessProposedBlock(block database.Block) bool {
	s.evHandler("state: ProcessProposedBlock: started: blk[%d]: prevBlk[%s]: numTrans[%d]", block.Index, block.PreviousHash, len(block.Transactions))
	defer s.evHandler("state: ProcessProposedBlock: completed: blk[%d]", block.Index)

	// Stale and duplicate blocks are rejected before mining is interrupted.
	if err := s.validateProposedBlock(block); err != nil {
		s.evHandler("state: ProcessProposedBlock: REJECTED: blk[%d]: %s", block.Index, err)
		return false
	}

	// If the runMiningOperation function is being executed it needs to stop
	// immediately. The G executing runMiningOperation will not return from the
	// function until done is called. That allows this function to complete
	// its state changes before a new mining operation takes place.
	if s.Worker != nil {
		done := s.Worker.SignalCancelMining()
		defer func() {
			s.evHandler("state: ProcessProposedBlock: signal runMiningOperation to terminate")
			done()
		}()
	}

	if !s.appendProposedBlock(block) {
		return false
	}

	s.blockEvent(block)

	return true
}

// validateProposedBlock checks the block follows the latest block.
func (s *State) validateProposedBlock(block database.Block) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return block.ValidateBlock(s.db.LatestBlock(), s.genesis.Difficulty, s.evHandler)
}

// appendProposedBlock validates the block against the latest block and
// appends it when valid. The chain may have moved since the first check.
func (s *State) appendProposedBlock(block database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := block.ValidateBlock(s.db.LatestBlock(), s.genesis.Difficulty, s.evHandler); err != nil {
		s.evHandler("state: ProcessProposedBlock: REJECTED: blk[%d]: %s", block.Index, err)
		return false
	}

	s.mempool.Truncate()
	s.db.Append(block)

	return true
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}
