// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time        `json:"date"`          // Timestamp recorded in the genesis block.
	Difficulty   uint16           `json:"difficulty"`    // Number of leading hex zeros a proof hash needs.
	Proof        uint64           `json:"proof"`         // Seed proof of the genesis block.
	MiningReward int64            `json:"mining_reward"` // Reward for mining a block, zero disables it.
	Balances     map[string]int64 `json:"balances"`      // Initial allocations recorded in the genesis block.
}

// Default returns the genesis used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: 4,
		Proof:      100,
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
