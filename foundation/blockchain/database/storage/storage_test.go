package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Backends(t *testing.T) {
	gen := genesis.Default()
	block := database.GenesisBlock(gen)

	t.Log("Given the need to store blocks in every backend.")
	{
		for testID, kind := range []string{storage.Disk, storage.LevelDB, storage.Memory} {
			f := func(t *testing.T) {
				strg, err := storage.Open(kind, filepath.Join(t.TempDir(), "blocks"))
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to open the storage: %s", failed, testID, err)
				}
				defer strg.Close()

				if err := strg.Write(database.NewBlockData(block)); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write a block: %s", failed, testID, err)
				}

				iter := strg.ForEach()
				var count int
				for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to iterate: %s", failed, testID, err)
					}
					if blockData.Hash != block.Hash() {
						t.Fatalf("\t%s\tTest %d:\tShould read back the block that was written.", failed, testID)
					}
					count++
				}
				if count != 1 {
					t.Fatalf("\t%s\tTest %d:\tShould iterate one block, got %d", failed, testID, count)
				}
				t.Logf("\t%s\tTest %d:\tShould read back the block that was written.", success, testID)

				if err := strg.Reset(); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to reset the storage: %s", failed, testID, err)
				}
				iter = strg.ForEach()
				if iter.Next(); !iter.Done() {
					t.Fatalf("\t%s\tTest %d:\tShould not find a block after a reset.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to reset the storage.", success, testID)
			}

			t.Run(kind, f)
		}
	}

	if _, err := storage.Open("tape", ""); err == nil {
		t.Fatal("Should reject an unknown backend.")
	}
}
