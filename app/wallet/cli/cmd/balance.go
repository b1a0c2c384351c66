package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type tx struct {
	Sender        string `json:"sender"`
	SenderName    string `json:"sender_name"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Block         uint64 `json:"block"`
}

type txInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	Sent    []tx   `json:"sent"`
	Recv    []tx   `json:"received"`
}

var address string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance and transactions.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&address, "address", "d", "", "Address to query instead of the wallet account.")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	if address == "" {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			return err
		}
		address = string(database.PublicKeyToAccountID(privateKey.PublicKey))
	}

	resp, err := http.Get(fmt.Sprintf("%s/transactions/get/%s", url, address))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var info txInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	title := info.Address
	if info.Name != "" {
		title = fmt.Sprintf("%s (%s)", info.Name, info.Address)
	}
	pterm.DefaultBox.WithTitle(title).Println(pterm.Sprintf("Balance: %d", info.Balance))

	data := pterm.TableData{
		{"Direction", "Counterparty", "Amount", "Status", "Block"},
	}
	for _, t := range info.Sent {
		data = append(data, row("sent", t.Recipient, t.RecipientName, t))
	}
	for _, t := range info.Recv {
		data = append(data, row("received", t.Sender, t.SenderName, t))
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func row(direction string, account string, name string, t tx) []string {
	if name != "" {
		account = name
	}

	block := "-"
	if t.Block > 0 {
		block = strconv.FormatUint(t.Block, 10)
	}

	return []string{direction, account, strconv.FormatInt(t.Amount, 10), t.Status, block}
}
