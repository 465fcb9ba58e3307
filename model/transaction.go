package model

// NETWORK_SENDER is the sender of the reward transaction synthesized at mining time.
const NETWORK_SENDER = "network"

type Transaction struct {
	// Identifier of the party sending value.
	Sender string
	// Identifier of the party receiving value.
	Receiver string
	// How much value to transfer.
	Amount float64
}

type TransactionPool struct {
	// Pending transactions that haven't been sealed into a block, in arrival order.
	Txs []Transaction
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() TransactionPool {
	return TransactionPool{
		Txs: []Transaction{},
	}
}
