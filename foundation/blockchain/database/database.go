// Package database handles the ledger entities, the rules that decide if a
// block or chain is valid, and the in memory chain backed by storage.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
)

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	ForEach() Iterator
	Reset() error
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// Database manages the chain of blocks held by the node. The chain is
// never empty, it always starts with a genesis block.
type Database struct {
	mu sync.RWMutex

	genesis    genesis.Genesis
	chain      []Block
	serializer Serializer
}

// New constructs a new database. Blocks found in storage are loaded and
// validated, otherwise the chain starts with the genesis block.
func New(gen genesis.Genesis, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis:    gen,
		serializer: serializer,
	}

	iter := serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}

		db.chain = append(db.chain, block)
	}

	if len(db.chain) == 0 {
		evHandler("database: New: no stored blocks: starting from genesis")
		db.chain = []Block{GenesisBlock(gen)}
		return &db, nil
	}

	if err := ValidateChain(db.chain, gen.Difficulty, evHandler); err != nil {
		return nil, fmt.Errorf("stored chain is invalid: %w", err)
	}

	evHandler("database: New: loaded blocks[%d]", len(db.chain))

	return &db, nil
}

// Close closes the storage.
func (db *Database) Close() error {
	return db.serializer.Close()
}

// Genesis returns the genesis information the chain was started from.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1]
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Append adds a new block to the end of the chain.
func (db *Database) Append(block Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = append(db.chain, block)
}

// Replace swaps the whole chain for the specified chain.
func (db *Database) Replace(chain []Block) error {
	if len(chain) == 0 {
		return errors.New("can't replace with an empty chain")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = make([]Block, len(chain))
	copy(db.chain, chain)

	return nil
}

// Copy returns a copy of the chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	chain := make([]Block, len(db.chain))
	copy(chain, db.chain)
	return chain
}

// GetBlock returns the block at the specified 1-based index.
func (db *Database) GetBlock(index uint64) (Block, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index == 0 || index > uint64(len(db.chain)) {
		return Block{}, false
	}

	return db.chain[index-1], true
}

// Save replaces what is in storage with the current chain.
func (db *Database) Save() error {
	chain := db.Copy()

	if err := db.serializer.Reset(); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}

	for _, block := range chain {
		if err := db.serializer.Write(NewBlockData(block)); err != nil {
			return fmt.Errorf("write block[%d]: %w", block.Index, err)
		}
	}

	return nil
}
