package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// Transactions writes the transactions of the chain in chain order. With
// an account only the transactions it sent or received are written.
func Transactions(w io.Writer, chain []database.Block, acct database.AccountID) error {
	for _, block := range chain {
		for _, tx := range block.Transactions {
			if acct != "" && tx.Sender != acct && tx.Recipient != acct {
				continue
			}

			fmt.Fprintf(w, "Block: %d  Sender: %s  Recipient: %s  Amount: %d\n",
				block.Index, tx.Sender, tx.Recipient, tx.Amount)
		}
	}

	return nil
}
