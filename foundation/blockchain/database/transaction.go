package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
)

// Set of errors returned when a transaction can't be accepted.
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrSenderMismatch   = errors.New("sender does not match the public key")
)

// =============================================================================

// Tx is the transactional information between two parties. The fields are
// declared in lexicographic order of their JSON names so the JSON encoding
// is the canonical, key sorted, serialization used for hashing and signing.
type Tx struct {
	Amount    int64     `json:"amount"`                        // Value moved from the sender to the recipient.
	Recipient AccountID `json:"recipient" validate:"required"` // Identity receiving the value.
	Sender    AccountID `json:"sender" validate:"required"`    // Hash of the public key signing the transaction.
}

// NewTx constructs a new transaction.
func NewTx(sender AccountID, recipient AccountID, amount int64) Tx {
	return Tx{
		Amount:    amount,
		Recipient: recipient,
		Sender:    sender,
	}
}

// Encode returns the canonical serialization of the transaction.
func (tx Tx) Encode() ([]byte, error) {
	return signature.Encode(tx)
}

// Hash returns the unique hash for the transaction.
func (tx Tx) Hash() string {
	return signature.Hash(tx)
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {
	sig, err := signature.Sign(tx, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		PublicKey:   signature.PublicKeyString(&privateKey.PublicKey),
		Signature:   sig,
		Transaction: tx,
	}

	return signedTx, nil
}

// Validate checks the amount is positive and the sender is the identity of
// the specified public key.
func (tx Tx) Validate(publicKey string) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidAmount, tx.Amount)
	}

	accountID, err := ToAccountID(publicKey)
	if err != nil {
		return err
	}

	if tx.Sender != accountID {
		return fmt.Errorf("%w, got %s, exp %s", ErrSenderMismatch, tx.Sender, accountID)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", short(tx.Sender), short(tx.Recipient), tx.Amount)
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	PublicKey   string `json:"public_key" validate:"required"`
	Signature   string `json:"signature" validate:"required"`
	Transaction Tx     `json:"transaction"`
}

// Validate verifies the signature was produced over the transaction by the
// embedded public key and that the transaction holds its own invariants.
// Any failure is reported as an ErrInvalidSignature.
func (tx SignedTx) Validate() error {
	if err := signature.Verify(tx.Transaction, tx.Signature, tx.PublicKey); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if err := tx.Transaction.Validate(tx.PublicKey); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	return tx.Transaction.String()
}

// =============================================================================

// short trims long hex identities for log output.
func short(id AccountID) string {
	if len(id) > 10 {
		return string(id[:10])
	}
	return string(id)
}
