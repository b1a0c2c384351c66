package disk_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage/disk"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
)

func Test_WriteReadReset(t *testing.T) {
	d, err := disk.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to open the disk storage: %s", err)
	}
	defer d.Close()

	b1 := database.GenesisBlock(genesis.Default())
	b2 := database.NewBlock(b1, 42, []database.Tx{database.NewTx("alice", "bob", 3)})

	for _, block := range []database.Block{b1, b2} {
		if err := d.Write(database.NewBlockData(block)); err != nil {
			t.Fatalf("Should be able to write block %d: %s", block.Index, err)
		}
	}

	var got []database.Block
	iter := d.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			t.Fatalf("Should be able to iterate the blocks: %s", err)
		}

		block, err := database.ToBlock(blockData)
		if err != nil {
			t.Fatalf("Should be able to convert the block: %s", err)
		}
		got = append(got, block)
	}

	if len(got) != 2 || got[1].Hash() != b2.Hash() {
		t.Fatalf("Should read back the blocks that were written, got %d", len(got))
	}

	if err := d.Reset(); err != nil {
		t.Fatalf("Should be able to reset the storage: %s", err)
	}

	iter = d.ForEach()
	if _, err := iter.Next(); !iter.Done() {
		t.Fatalf("Should have no blocks after a reset: %v", err)
	}
}
