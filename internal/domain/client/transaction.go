package client

import (
	"cmp"
	"slices"
)

// Transaction is one renewal seen from the global payment history.
type Transaction struct {
	ClientID   string
	ClientName string
	Renewal    Renewal
}

// Transactions flattens every client's renewal history, newest first.
func Transactions(clients []*Client) []Transaction {
	var txs []Transaction
	for _, c := range clients {
		for _, r := range c.renewalHistory {
			txs = append(txs, Transaction{ClientID: c.id, ClientName: c.name, Renewal: r})
		}
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return cmp.Compare(b.Renewal.createdAt.UnixNano(), a.Renewal.createdAt.UnixNano())
	})
	return txs
}
