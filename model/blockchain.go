package model

import "strings"

// Previous hash of the genesis block, all zeros in hex.
var GENESIS_PREV_HASH = strings.Repeat("0", 64)

type Block struct {
	// Position of this block in the chain, 0 for genesis.
	Index int64
	// Creation time in unix seconds, captured once before mining starts.
	Timestamp int64
	// Transactions for this block. The first transaction is the reward transaction.
	Txs []Transaction
	// Proof is the miner's nonce that makes the hash meet the difficulty.
	Proof int64
	// Hash of the previous block in the hex format.
	PrevHash string
	// Hash of this entire block in the hex string format.
	Hash string
	// Difficulty in effect when this block was mined. Not part of the hash.
	Difficulty int
}

type Blockchain struct {
	// Sealed blocks, Blocks[i].Index == i.
	Blocks []Block
}

// Create a new blockchain holding only the given genesis block.
func NewBlockChain(genesis Block) Blockchain {
	return Blockchain{
		Blocks: []Block{genesis},
	}
}

// Tail returns the last block of the chain, nil if the chain is empty.
func (bc *Blockchain) Tail() *Block {
	if len(bc.Blocks) == 0 {
		return nil
	}
	return &bc.Blocks[len(bc.Blocks)-1]
}
