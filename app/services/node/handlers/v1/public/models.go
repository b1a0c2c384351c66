package public

import "github.com/ardanlabs/gossipchain/foundation/blockchain/database"

type tx struct {
	Sender        database.AccountID `json:"sender"`
	SenderName    string             `json:"sender_name,omitempty"`
	Recipient     database.AccountID `json:"recipient"`
	RecipientName string             `json:"recipient_name,omitempty"`
	Amount        int64              `json:"amount"`
	Status        string             `json:"status,omitempty"`
	Block         uint64             `json:"block,omitempty"`
}

type txInfo struct {
	Address database.AccountID `json:"address"`
	Name    string             `json:"name,omitempty"`
	Balance int64              `json:"balance"`
	Sent    []tx               `json:"sent"`
	Recv    []tx               `json:"received"`
}

type mined struct {
	Message string         `json:"message"`
	Block   database.Block `json:"block"`
}

type submitted struct {
	Message string `json:"message"`
}

type resolved struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}

type peers struct {
	Nodes []string `json:"nodes"`
}

type saved struct {
	Message string `json:"message"`
	Length  int    `json:"length"`
}
