// Package commands contains the functionality for the admin commands.
package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// Balances writes the balance of every account found in the chain, or only
// the specified account.
func Balances(w io.Writer, chain []database.Block, acct database.AccountID) error {
	if len(chain) == 0 {
		return fmt.Errorf("empty chain")
	}

	fmt.Fprintf(w, "LatestBlock: %d  Hash: %s\n\n", chain[len(chain)-1].Index, chain[len(chain)-1].Hash())

	accounts := []database.AccountID{acct}
	if acct == "" {
		accounts = accountsOf(chain)
	}

	for _, account := range accounts {
		fmt.Fprintf(w, "Account: %s  Balance: %d\n", account, database.Balance(account, chain, nil))
	}

	return nil
}

// accountsOf returns the sorted accounts that appear in the chain. The
// coinbase sender is left out.
func accountsOf(chain []database.Block) []database.AccountID {
	seen := make(map[database.AccountID]struct{})
	for _, block := range chain {
		for _, tx := range block.Transactions {
			seen[tx.Recipient] = struct{}{}
			if tx.Sender != database.CoinbaseID {
				seen[tx.Sender] = struct{}{}
			}
		}
	}

	accounts := make([]database.AccountID, 0, len(seen))
	for account := range seen {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	return accounts
}
