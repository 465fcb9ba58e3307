package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/Luismorlan/pow_ledger/model"
)

// Concat sender, receiver and amount raw data in byte slices.
func GetTransactionBytes(t *model.Transaction) []byte {
	var data []byte
	data = append(data, StringToBytes(t.Sender)...)
	data = append(data, StringToBytes(t.Receiver)...)
	data = append(data, Float64ToBytes(t.Amount)...)
	return data
}

// A transaction is valid if:
// 1. Sender is not empty.
// 2. Receiver is not empty.
// 3. Amount is a finite positive number.
func IsValidTransaction(t *model.Transaction) error {
	if t.Sender == "" {
		return errors.New("transaction sender is empty")
	}
	if t.Receiver == "" {
		return errors.New("transaction receiver is empty")
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount <= 0 {
		return fmt.Errorf("transaction amount must be positive, got %v", t.Amount)
	}
	return nil
}

// IsValidReward checks a reward is a finite non-negative number.
func IsValidReward(reward float64) error {
	if math.IsNaN(reward) || math.IsInf(reward, 0) || reward < 0 {
		return fmt.Errorf("reward must be non-negative, got %v", reward)
	}
	return nil
}

// Create the reward transaction that credits the miner.
func CreateCoinbaseTx(reward float64, miner string) model.Transaction {
	return model.Transaction{
		Sender:   model.NETWORK_SENDER,
		Receiver: miner,
		Amount:   reward,
	}
}

// A coinbase is sent by the network to a non-empty miner address. A zero
// reward is allowed.
func IsValidCoinbase(t *model.Transaction) error {
	if t.Sender != model.NETWORK_SENDER {
		return fmt.Errorf("coinbase sender must be %q, got %q", model.NETWORK_SENDER, t.Sender)
	}
	if t.Receiver == "" {
		return errors.New("coinbase receiver is empty")
	}
	return IsValidReward(t.Amount)
}
