package database

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
)

// Block represents a group of transactions batched together. As with Tx, the
// fields are declared in lexicographic order of their JSON names so the JSON
// encoding is the canonical serialization.
type Block struct {
	Index        uint64 `json:"index"`         // 1-based position of the block in the chain.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	Proof        uint64 `json:"proof"`         // Value identified to solve the proof of work.
	TimeStamp    uint64 `json:"timestamp"`     // Time the block was created.
	Transactions []Tx   `json:"transactions"`  // Transactions in the order they were accepted.
}

// GenesisBlock constructs the first block of the chain from the genesis
// information. Every node started from the same genesis produces the same
// block. Initial allocations are recorded as coinbase transactions sorted
// by recipient.
func GenesisBlock(gen genesis.Genesis) Block {
	trans := make([]Tx, 0, len(gen.Balances))
	for account, balance := range gen.Balances {
		trans = append(trans, NewTx(CoinbaseID, AccountID(account), balance))
	}
	sort.Slice(trans, func(i, j int) bool {
		return trans[i].Recipient < trans[j].Recipient
	})

	return Block{
		Index:        1,
		PreviousHash: signature.ZeroHash,
		Proof:        gen.Proof,
		TimeStamp:    uint64(gen.Date.UTC().Unix()),
		Transactions: trans,
	}
}

// NewBlock constructs the block that follows the previous block with the
// specified proof and transactions.
func NewBlock(prevBlock Block, proof uint64, trans []Tx) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        prevBlock.Index + 1,
		PreviousHash: prevBlock.Hash(),
		Proof:        proof,
		TimeStamp:    uint64(time.Now().UTC().Unix()),
		Transactions: trans,
	}
}

// Encode returns the canonical serialization of the block.
func (b Block) Encode() ([]byte, error) {
	return signature.Encode(b)
}

// DecodeBlock reconstructs a block from its canonical serialization.
func DecodeBlock(data []byte) (Block, error) {
	var block Block
	if err := json.Unmarshal(data, &block); err != nil {
		return Block{}, err
	}

	return block, nil
}

// Hash returns the unique hash for the Block. Every field, including the
// order of the transactions, is part of the hash.
func (b Block) Hash() string {
	return signature.Hash(b)
}

// ValidateBlock takes a block and validates it can follow the previous block
// in the chain.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint16, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Index)

	prevHash := previousBlock.Hash()
	if b.PreviousHash != prevHash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.PreviousHash, prevHash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: proof of work is valid", b.Index)

	if !IsValidProof(difficulty, previousBlock.Proof, b.Proof, prevHash) {
		return fmt.Errorf("invalid proof %d for parent proof %d", b.Proof, previousBlock.Proof)
	}

	return nil
}

// ValidateChain walks the chain and validates every block against the block
// before it. The first block is taken as given.
func ValidateChain(chain []Block, difficulty uint16, evHandler func(v string, args ...any)) error {
	if len(chain) == 0 {
		return fmt.Errorf("empty chain")
	}

	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1], difficulty, evHandler); err != nil {
			return fmt.Errorf("block[%d]: %w", i+1, err)
		}
	}

	return nil
}

// =============================================================================

// BlockData represents what is written to storage.
type BlockData struct {
	Hash  string `json:"hash"`
	Block Block  `json:"block"`
}

// NewBlockData constructs the value to serialize to storage.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:  block.Hash(),
		Block: block,
	}
}

// ToBlock converts a BlockData into a Block, checking the stored hash still
// matches the block.
func ToBlock(blockData BlockData) (Block, error) {
	if hash := blockData.Block.Hash(); hash != blockData.Hash {
		return Block{}, fmt.Errorf("block[%d] hash mismatch, got %s, exp %s", blockData.Block.Index, hash, blockData.Hash)
	}

	return blockData.Block, nil
}
