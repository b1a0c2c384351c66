package database

import (
	"context"
	"strconv"
	"strings"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
)

// ProofOfWork searches the non-negative integers in order for the first
// proof that solves the puzzle for the previous proof and hash. The search
// checks the context between attempts so it can be cancelled.
func ProofOfWork(ctx context.Context, difficulty uint16, previousProof uint64, previousHash string, ev func(v string, args ...any)) (uint64, error) {
	ev("database: ProofOfWork: MINING: started: prevProof[%d]", previousProof)
	defer ev("database: ProofOfWork: MINING: completed")

	var proof uint64
	for {
		if proof > 0 && proof%1_000_000 == 0 {
			ev("database: ProofOfWork: MINING: attempts[%d]", proof)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: ProofOfWork: MINING: CANCELLED")
			return 0, ctx.Err()
		}

		if IsValidProof(difficulty, previousProof, proof, previousHash) {
			ev("database: ProofOfWork: MINING: SOLVED: proof[%d]", proof)
			return proof, nil
		}

		proof++
	}
}

// IsValidProof checks the hash of the previous proof, the proof and the
// previous hash has the required number of leading zeros.
func IsValidProof(difficulty uint16, previousProof uint64, proof uint64, previousHash string) bool {
	return isHashSolved(difficulty, proofHash(previousProof, proof, previousHash))
}

// proofHash hashes the concatenation of the previous proof, the proof and
// the previous hash.
func proofHash(previousProof uint64, proof uint64, previousHash string) string {
	var b strings.Builder
	b.Grow(40 + len(previousHash))
	b.WriteString(strconv.FormatUint(previousProof, 10))
	b.WriteString(strconv.FormatUint(proof, 10))
	b.WriteString(previousHash)

	return signature.HashString(b.String())
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint16, hash string) bool {
	hash = strings.TrimPrefix(hash, "0x")
	if len(hash) != 64 || int(difficulty) > len(hash) {
		return false
	}

	for i := range int(difficulty) {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
