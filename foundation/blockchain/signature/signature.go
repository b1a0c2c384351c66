// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Encode returns the canonical JSON encoding of the value: struct fields in
// declaration order, no HTML escaping and no trailing newline.
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Hash returns a unique string for the value. The value is encoded with
// Encode first, so the value's encoding decides what is being hashed.
func Hash(value any) string {
	data, err := Encode(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// HashBytes returns the sha256 hash of the data as a 0x prefixed hex string.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// HashString returns the sha256 hash of the string.
func HashString(s string) string {
	return HashBytes([]byte(s))
}

// =============================================================================

// GenerateKey generates a new private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// PublicKeyString returns the hex encoding of the uncompressed public key.
func PublicKeyString(publicKey *ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(publicKey))
}

// PublicKeyBytes decodes the hex encoding of a public key and makes sure it
// is a valid point on the curve.
func PublicKeyBytes(publicKey string) ([]byte, error) {
	pub, err := hexutil.Decode(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}

	if _, err := crypto.UnmarshalPubkey(pub); err != nil {
		return nil, fmt.Errorf("unmarshal public key: %w", err)
	}

	return pub, nil
}

// Sign uses the specified private key to sign the value. The signature is
// returned in the hex encoded [R|S|V] format.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return "", errors.New("invalid signature")
	}

	return hexutil.Encode(sig), nil
}

// Verify checks the signature was produced over the value by the private key
// belonging to the specified public key.
func Verify(value any, sig string, publicKey string) error {
	pub, err := PublicKeyBytes(publicKey)
	if err != nil {
		return err
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	if len(sigBytes) != crypto.SignatureLength {
		return fmt.Errorf("invalid signature length, got %d, exp %d", len(sigBytes), crypto.SignatureLength)
	}

	// Check the recovery id is either 0 or 1 and the signature values are
	// in range.
	v := sigBytes[crypto.RecoveryIDOffset]
	r := new(big.Int).SetBytes(sigBytes[:32])
	s := new(big.Int).SetBytes(sigBytes[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, false) {
		return errors.New("invalid signature values")
	}

	data, err := stamp(value)
	if err != nil {
		return err
	}

	if !crypto.VerifySignature(pub, data, sigBytes[:crypto.RecoveryIDOffset]) {
		return errors.New("signature does not match data and public key")
	}

	return nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the ledger stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// Marshal the data.
	v, err := Encode(value)
	if err != nil {
		return nil, err
	}

	// Hash the data data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := crypto.Keccak256(v)

	// The stamp keeps signatures produced here from being replayed as
	// signatures over an Ethereum message.
	stamp := []byte("\x19Gossipchain Signed Message:\n32")

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	data := crypto.Keccak256(stamp, txHash)

	return data, nil
}
