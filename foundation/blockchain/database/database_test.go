package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey   = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	difficulty = 2
)

func noop(v string, args ...any) {}

func testGenesis() genesis.Genesis {
	gen := genesis.Default()
	gen.Difficulty = difficulty
	return gen
}

// mine builds the block that follows prev with a solved proof.
func mine(t *testing.T, prev database.Block, trans []database.Tx) database.Block {
	t.Helper()

	proof, err := database.ProofOfWork(context.Background(), difficulty, prev.Proof, prev.Hash(), noop)
	if err != nil {
		t.Fatalf("Should be able to find a proof: %v", err)
	}

	return database.NewBlock(prev, proof, trans)
}

// =============================================================================

func Test_ProofOfWork(t *testing.T) {
	t.Log("Given the need to find and validate proofs of work.")
	{
		tt := []struct {
			name       string
			difficulty uint16
			prevProof  uint64
			prevHash   string
		}{
			{"genesis-difficulty-4", 4, 100, database.GenesisBlock(genesis.Default()).Hash()},
			{"difficulty-2", 2, 35293, "0xabc"},
			{"difficulty-0", 0, 1, "0x00"},
		}

		for testID, tst := range tt {
			f := func(t *testing.T) {
				proof, err := database.ProofOfWork(context.Background(), tst.difficulty, tst.prevProof, tst.prevHash, noop)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to find a proof: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to find a proof.", success, testID)

				if !database.IsValidProof(tst.difficulty, tst.prevProof, proof, tst.prevHash) {
					t.Fatalf("\t%s\tTest %d:\tShould validate the proof that was found.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould validate the proof that was found.", success, testID)

				again, _ := database.ProofOfWork(context.Background(), tst.difficulty, tst.prevProof, tst.prevHash, noop)
				if again != proof {
					t.Fatalf("\t%s\tTest %d:\tShould find the same proof for the same inputs: got %d, exp %d", failed, testID, again, proof)
				}
				t.Logf("\t%s\tTest %d:\tShould find the same proof for the same inputs.", success, testID)

				if proof > 0 && database.IsValidProof(tst.difficulty, tst.prevProof, proof-1, tst.prevHash) {
					t.Fatalf("\t%s\tTest %d:\tShould have returned the first solving proof.", failed, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ProofOfWorkCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// A difficulty of 64 can't be solved so only the cancel can end the search.
	_, err := database.ProofOfWork(ctx, 64, 1, "0x00", noop)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Should get a deadline error from a cancelled search, got %v", err)
	}
}

func Test_TxValidation(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to load the private key: %s", err)
	}
	sender := database.PublicKeyToAccountID(pk.PublicKey)

	tt := []struct {
		name   string
		tx     database.Tx
		forge  func(tx database.SignedTx) database.SignedTx
		expErr error
	}{
		{"valid", database.NewTx(sender, "bob", 10), nil, nil},
		{"zero-amount", database.NewTx(sender, "bob", 0), nil, database.ErrInvalidAmount},
		{"negative-amount", database.NewTx(sender, "bob", -5), nil, database.ErrInvalidAmount},
		{"wrong-sender", database.NewTx("mallory", "bob", 10), nil, database.ErrSenderMismatch},
		{"tampered-amount", database.NewTx(sender, "bob", 10), func(tx database.SignedTx) database.SignedTx {
			tx.Transaction.Amount = 1000
			return tx
		}, database.ErrInvalidSignature},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			signedTx, err := tst.tx.Sign(pk)
			if err != nil {
				t.Fatalf("Should be able to sign the transaction: %s", err)
			}

			if tst.forge != nil {
				signedTx = tst.forge(signedTx)
			}

			err = signedTx.Validate()
			switch {
			case tst.expErr == nil && err != nil:
				t.Fatalf("Should be a valid transaction: %s", err)
			case tst.expErr != nil && !errors.Is(err, tst.expErr):
				t.Fatalf("Should fail with %v, got %v", tst.expErr, err)
			case tst.expErr != nil && !errors.Is(err, database.ErrInvalidSignature):
				t.Fatalf("Should report every failure as an invalid signature, got %v", err)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_AmountInvariant(t *testing.T) {
	for _, amount := range []int64{0, -1, -100} {
		tx := database.NewTx("anyone", "bob", amount)
		if err := tx.Validate("0x00"); !errors.Is(err, database.ErrInvalidAmount) {
			t.Fatalf("Should reject amount %d regardless of the key, got %v", amount, err)
		}
	}
}

func Test_CanonicalEncoding(t *testing.T) {
	tx := database.NewTx("alice", "bob", 10)

	data, err := tx.Encode()
	if err != nil {
		t.Fatalf("Should be able to encode the transaction: %s", err)
	}

	exp := `{"amount":10,"recipient":"bob","sender":"alice"}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get back a key sorted encoding.")
	}

	block := database.Block{
		Index:        2,
		PreviousHash: "0x01",
		Proof:        7,
		TimeStamp:    1700000000,
		Transactions: []database.Tx{tx, database.NewTx("bob", "carol", 3)},
	}

	data, err = block.Encode()
	if err != nil {
		t.Fatalf("Should be able to encode the block: %s", err)
	}

	exp = `{"index":2,"previous_hash":"0x01","proof":7,"timestamp":1700000000,"transactions":[` +
		`{"amount":10,"recipient":"bob","sender":"alice"},{"amount":3,"recipient":"carol","sender":"bob"}]}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get back a key sorted encoding.")
	}

	data, err = database.NewTx("<alice>", "bob&carol", 1).Encode()
	if err != nil {
		t.Fatalf("Should be able to encode the transaction: %s", err)
	}

	exp = `{"amount":1,"recipient":"bob&carol","sender":"<alice>"}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get back an encoding without html escaping.")
	}

	data, err = block.Encode()
	if err != nil {
		t.Fatalf("Should be able to encode the block: %s", err)
	}

	decoded, err := database.DecodeBlock(data)
	if err != nil {
		t.Fatalf("Should be able to decode the block: %s", err)
	}

	if decoded.Hash() != block.Hash() {
		t.Fatalf("Should get the same hash after a round trip.")
	}

	swapped := block
	swapped.Transactions = []database.Tx{block.Transactions[1], block.Transactions[0]}
	if swapped.Hash() == block.Hash() {
		t.Fatalf("Should get a different hash when the transaction order changes.")
	}
}

func Test_ValidateChain(t *testing.T) {
	gen := testGenesis()
	b1 := database.GenesisBlock(gen)
	b2 := mine(t, b1, nil)

	t.Log("Given the need to validate a chain of blocks.")
	{
		if err := database.ValidateChain([]database.Block{b1, b2}, difficulty, noop); err != nil {
			t.Fatalf("\t%s\tShould accept a properly linked chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a properly linked chain.", success)

		bad := b2
		bad.PreviousHash = "0x1234"
		if err := database.ValidateChain([]database.Block{b1, bad}, difficulty, noop); err == nil {
			t.Fatalf("\t%s\tShould reject a block with the wrong previous hash.", failed)
		}
		t.Logf("\t%s\tShould reject a block with the wrong previous hash.", success)

		bad = b2
		for database.IsValidProof(difficulty, b1.Proof, bad.Proof, b1.Hash()) {
			bad.Proof++
		}
		if err := database.ValidateChain([]database.Block{b1, bad}, difficulty, noop); err == nil {
			t.Fatalf("\t%s\tShould reject a block with an invalid proof.", failed)
		}
		t.Logf("\t%s\tShould reject a block with an invalid proof.", success)

		fixed := bad
		fixed.PreviousHash = b1.Hash()
		proof, _ := database.ProofOfWork(context.Background(), difficulty, b1.Proof, b1.Hash(), noop)
		fixed.Proof = proof
		if err := database.ValidateChain([]database.Block{b1, fixed}, difficulty, noop); err != nil {
			t.Fatalf("\t%s\tShould accept the chain once fixed with a recomputed proof: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept the chain once fixed with a recomputed proof.", success)

		if err := database.ValidateChain(nil, difficulty, noop); err == nil {
			t.Fatalf("\t%s\tShould reject an empty chain.", failed)
		}
		t.Logf("\t%s\tShould reject an empty chain.", success)
	}
}

func Test_Balance(t *testing.T) {
	gen := testGenesis()
	b1 := database.GenesisBlock(gen)
	b2 := mine(t, b1, []database.Tx{database.NewTx("bob", "alice", 10)})

	pending := []database.Tx{database.NewTx("alice", "carol", 4)}

	if bal := database.Balance("alice", []database.Block{b1, b2}, pending); bal != 6 {
		t.Fatalf("Should get a balance of 6 for alice, got %d", bal)
	}

	if bal := database.Balance("carol", []database.Block{b1, b2}, pending); bal != 4 {
		t.Fatalf("Should count pending transactions for carol, got %d", bal)
	}
}

func Test_GenesisBlock(t *testing.T) {
	gen := testGenesis()
	gen.Balances = map[string]int64{"zed": 5, "amy": 7}

	b1 := database.GenesisBlock(gen)
	b2 := database.GenesisBlock(gen)

	if b1.Hash() != b2.Hash() {
		t.Fatalf("Should build the same genesis block every time.")
	}

	if b1.Index != 1 || b1.Proof != gen.Proof {
		t.Fatalf("Should start at index 1 with the seed proof, got %d/%d", b1.Index, b1.Proof)
	}

	if b1.Transactions[0].Recipient != "amy" || b1.Transactions[0].Sender != database.CoinbaseID {
		t.Fatalf("Should record allocations as sorted coinbase transactions, got %v", b1.Transactions)
	}
}

func Test_DatabaseSaveLoad(t *testing.T) {
	gen := testGenesis()

	strg, err := memory.New()
	if err != nil {
		t.Fatalf("Should be able to construct memory storage: %s", err)
	}

	db, err := database.New(gen, strg, noop)
	if err != nil {
		t.Fatalf("Should be able to open the database: %s", err)
	}

	if db.Length() != 1 {
		t.Fatalf("Should start with the genesis block, got %d blocks", db.Length())
	}

	db.Append(mine(t, db.LatestBlock(), []database.Tx{database.NewTx("bob", "alice", 1)}))
	db.Append(mine(t, db.LatestBlock(), nil))

	if err := db.Save(); err != nil {
		t.Fatalf("Should be able to save the chain: %s", err)
	}

	db2, err := database.New(gen, strg, noop)
	if err != nil {
		t.Fatalf("Should be able to load the saved chain: %s", err)
	}

	if db2.Length() != 3 || db2.LatestBlock().Hash() != db.LatestBlock().Hash() {
		t.Fatalf("Should load the same chain that was saved.")
	}

	if _, exists := db2.GetBlock(4); exists {
		t.Fatalf("Should not find a block past the end of the chain.")
	}

	block, exists := db2.GetBlock(2)
	if !exists || block.Index != 2 {
		t.Fatalf("Should find block 2.")
	}
}
