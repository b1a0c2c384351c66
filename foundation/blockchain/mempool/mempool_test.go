package mempool_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				database.NewTx("alice", "bob", 2),
				database.NewTx("carol", "bob", 50),
				database.NewTx("alice", "dave", 1),
				database.NewTx("alice", "bob", 2),
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the new count, got %d.", failed, testID, n)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add transactions.", success, testID)

					cpy := mp.Copy()
					for i := range tst.txs {
						if cpy[i] != tst.txs[i] {
							t.Fatalf("\t%s\tTest %d:\tShould keep the insertion order at %d.", failed, testID, i)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep the insertion order.", success, testID)

					picked := mp.PickAll()
					if len(picked) != len(tst.txs) || mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould pick everything and empty the pool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould pick everything and empty the pool.", success, testID)

					mp.Add(tst.txs[0])
					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be empty after truncate.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be empty after truncate.", success, testID)

					if picked := mp.PickAll(); picked == nil || len(picked) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould pick an empty, non nil set.", failed, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}
