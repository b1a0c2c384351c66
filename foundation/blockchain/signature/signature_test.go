package signature_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	pkHexKey    = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	otherHexKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}
	pub := signature.PublicKeyString(&pk.PublicKey)

	sig, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if err := signature.Verify(value, sig, pub); err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}

	sig2, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if sig != sig2 {
		t.Logf("got: %s", sig2[:10])
		t.Logf("exp: %s", sig[:10])
		t.Fatalf("Should get back the same signature for the same data.")
	}
}

func Test_VerifyFailures(t *testing.T) {
	type named struct {
		Name string
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	other, err := crypto.HexToECDSA(otherHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	sig, err := signature.Sign(named{Name: "Bill"}, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	raw, err := hexutil.Decode(sig)
	if err != nil {
		t.Fatalf("Should be able to decode the signature: %s", err)
	}
	raw[10] ^= 0xff
	flipped := hexutil.Encode(raw)

	tt := []struct {
		name  string
		value named
		sig   string
		pub   string
	}{
		{"changed-data", named{Name: "Jill"}, sig, signature.PublicKeyString(&pk.PublicKey)},
		{"changed-signature", named{Name: "Bill"}, flipped, signature.PublicKeyString(&pk.PublicKey)},
		{"other-public-key", named{Name: "Bill"}, sig, signature.PublicKeyString(&other.PublicKey)},
		{"short-signature", named{Name: "Bill"}, sig[:40], signature.PublicKeyString(&pk.PublicKey)},
		{"bad-public-key", named{Name: "Bill"}, sig, "0x1234"},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			if err := signature.Verify(tst.value, tst.sig, tst.pub); err == nil {
				t.Fatalf("Test %s:\tShould fail to verify the signature.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0x0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}

	if signature.HashString(`{"Name":"Bill"}`) != hash {
		t.Fatalf("Should get the same hash for the raw encoding.")
	}
}

func Test_GenerateKey(t *testing.T) {
	pk, err := signature.GenerateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}

	pub := signature.PublicKeyString(&pk.PublicKey)
	if _, err := signature.PublicKeyBytes(pub); err != nil {
		t.Fatalf("Should be able to decode the public key: %s", err)
	}
}

func Test_EncodeNoEscaping(t *testing.T) {
	value := struct {
		Note string `json:"note"`
	}{
		Note: "<a&b>",
	}

	data, err := signature.Encode(value)
	if err != nil {
		t.Fatalf("Should be able to encode the value: %s", err)
	}

	exp := `{"note":"<a&b>"}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should encode without html escaping or a trailing newline.")
	}

	if signature.Hash(value) != signature.HashBytes([]byte(exp)) {
		t.Fatalf("Should hash the canonical encoding.")
	}
}
