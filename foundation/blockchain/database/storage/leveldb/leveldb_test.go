package leveldb_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage/leveldb"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
)

func Test_WriteReadReset(t *testing.T) {
	path := t.TempDir()

	ldb, err := leveldb.New(path)
	if err != nil {
		t.Fatalf("Should be able to open the leveldb storage: %s", err)
	}

	// Write more than 255 blocks so the key encoding has to keep the order.
	chain := []database.Block{database.GenesisBlock(genesis.Default())}
	for i := 0; i < 300; i++ {
		chain = append(chain, database.NewBlock(chain[len(chain)-1], uint64(i), nil))
	}

	for _, block := range chain {
		if err := ldb.Write(database.NewBlockData(block)); err != nil {
			t.Fatalf("Should be able to write block %d: %s", block.Index, err)
		}
	}

	if err := ldb.Close(); err != nil {
		t.Fatalf("Should be able to close the storage: %s", err)
	}

	ldb, err = leveldb.New(path)
	if err != nil {
		t.Fatalf("Should be able to reopen the leveldb storage: %s", err)
	}
	defer ldb.Close()

	var index uint64
	iter := ldb.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			t.Fatalf("Should be able to iterate the blocks: %s", err)
		}

		index++
		if blockData.Block.Index != index {
			t.Fatalf("Should iterate in index order, got %d, exp %d", blockData.Block.Index, index)
		}
	}

	if index != uint64(len(chain)) {
		t.Fatalf("Should read back every block, got %d, exp %d", index, len(chain))
	}

	blockData, err := ldb.GetBlock(2)
	if err != nil || blockData.Hash != chain[1].Hash() {
		t.Fatalf("Should get block 2 back by index: %v", err)
	}

	if err := ldb.Reset(); err != nil {
		t.Fatalf("Should be able to reset the storage: %s", err)
	}

	iter = ldb.ForEach()
	if _, err := iter.Next(); !iter.Done() {
		t.Fatalf("Should have no blocks after a reset: %v", err)
	}
}
