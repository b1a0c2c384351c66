package database

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// CoinbaseID is the sender used for value created by the chain itself, such
// as genesis allocations and mining rewards.
const CoinbaseID AccountID = "0"

// =============================================================================

// AccountID represents the identity of a party on the blockchain. For a
// sender it is the hash of the public key that signs its transactions.
type AccountID string

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(signature.HashBytes(crypto.FromECDSAPub(&pk)))
}

// ToAccountID converts a hex encoded public key into the account it
// identifies.
func ToAccountID(publicKey string) (AccountID, error) {
	pub, err := signature.PublicKeyBytes(publicKey)
	if err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}

	return AccountID(signature.HashBytes(pub)), nil
}
