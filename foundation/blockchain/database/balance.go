package database

// Balance sums the amounts the account received minus the amounts it sent
// across the chain and the pending transactions.
func Balance(accountID AccountID, chain []Block, pending []Tx) int64 {
	var balance int64

	apply := func(tx Tx) {
		if tx.Recipient == accountID {
			balance += tx.Amount
		}
		if tx.Sender == accountID {
			balance -= tx.Amount
		}
	}

	for _, block := range chain {
		for _, tx := range block.Transactions {
			apply(tx)
		}
	}

	for _, tx := range pending {
		apply(tx)
	}

	return balance
}
