// This program is a wallet for creating keys, sending signed transactions
// and checking balances against a node.
package main

import "github.com/ardanlabs/gossipchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
