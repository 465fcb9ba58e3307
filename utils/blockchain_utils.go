package utils

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/model"
)

const (
	// Fewest leading zero hex digits a mined block may carry.
	MIN_DIFFICULTY = 1
	// A SHA256 digest has 64 hex digits, no difficulty above that can be met.
	MAX_SUPPORTED_DIFFICULTY = 64
)

// Create the genesis block: index 0, no transactions, proof 0 and the all-zero previous hash.
// Genesis isn't mined, its hash is only computed.
func CreateGenesisBlock(timestamp int64) (*model.Block, error) {
	block := model.Block{
		Index:     0,
		Timestamp: timestamp,
		Txs:       []model.Transaction{},
		Proof:     0,
		PrevHash:  model.GENESIS_PREV_HASH,
	}
	hash, err := HashBlock(&block)
	if err != nil {
		return nil, err
	}
	block.Hash = hash
	return &block, nil
}

// Create a block on top of prev from the provided transactions:
// 1. Create coinbase transaction as the miner's reward.
// 2. Fill in the coinbase followed by the transactions provided.
// 3. Fill in previous hash and index.
// 4. Mine the block.
// ctl is passed through to Mine, a nil ctl never interrupts.
func CreateNewBlock(prev *model.Block, txs []model.Transaction, reward float64, miner string, timestamp int64, difficulty int, ctl <-chan commands.Command) (*model.Block, commands.Command, error) {
	if prev == nil {
		return nil, commands.NewDefaultCommand(), errors.New("no previous block to build on")
	}
	if err := IsValidDifficulty(difficulty); err != nil {
		return nil, commands.NewDefaultCommand(), err
	}

	blockTxs := make([]model.Transaction, 0, len(txs)+1)
	blockTxs = append(blockTxs, CreateCoinbaseTx(reward, miner))
	blockTxs = append(blockTxs, txs...)

	block := model.Block{
		Index:      prev.Index + 1,
		Timestamp:  timestamp,
		Txs:        blockTxs,
		PrevHash:   prev.Hash,
		Difficulty: difficulty,
	}

	c, err := Mine(&block, difficulty, ctl)
	if err != nil {
		return nil, c, err
	}
	return &block, c, nil
}

// Mine a block, fill the proof and hash given the current difficulty setting.
// difficulty - how many leading zero hex digits
// The search can be stopped by sending any command on ctl, which is then returned.
func Mine(block *model.Block, difficulty int, ctl <-chan commands.Command) (commands.Command, error) {
	for i := int64(0); i < math.MaxInt64; i++ {
		select {
		case c := <-ctl:
			return c, errors.New("mining interrupted")
		default:
		}
		block.Proof = i
		isMatched, digest := MatchDifficulty(block, difficulty)
		if isMatched {
			block.Hash = digest
			return commands.NewDefaultCommand(), nil
		}
	}
	return commands.NewDefaultCommand(), errors.New("failed to find any proof")
}

// Get block in bytes format: index, timestamp, transactions, previous hash and proof.
func GetBlockBytes(block *model.Block) ([]byte, error) {
	var rawBlock []byte

	rawBlock = append(rawBlock, Int64ToBytes(block.Index)...)
	rawBlock = append(rawBlock, Int64ToBytes(block.Timestamp)...)

	// convert transactions to bytes
	rawBlock = append(rawBlock, Int64ToBytes(int64(len(block.Txs)))...)
	for i := 0; i < len(block.Txs); i++ {
		rawBlock = append(rawBlock, GetTransactionBytes(&block.Txs[i])...)
	}

	// convert preHash to bytes
	preHashBytes, err := HexToBytes(block.PrevHash)
	if err != nil {
		return nil, err
	}
	rawBlock = append(rawBlock, preHashBytes...)

	rawBlock = append(rawBlock, Int64ToBytes(block.Proof)...)

	return rawBlock, nil
}

// HashBlock recomputes the hex digest of a block from its stored fields.
func HashBlock(block *model.Block) (string, error) {
	blockBytes, err := GetBlockBytes(block)
	if err != nil {
		return "", err
	}
	return BytesToHex(SHA256(blockBytes)), nil
}

func MatchDifficulty(block *model.Block, difficulty int) (bool, string) {
	blockBytes, err := GetBlockBytes(block)
	if err != nil {
		log.Println(err)
		return false, ""
	}
	digest := SHA256(blockBytes)
	return HexHasLeadingZeros(digest, difficulty), BytesToHex(digest)
}

// HexHasLeadingZeros reports whether the hex form of bytes starts with difficulty zeros.
func HexHasLeadingZeros(bytes []byte, difficulty int) bool {
	return ByteHasLeadingZeros(bytes, difficulty*4)
}

func ByteHasLeadingZeros(bytes []byte, difficulty int) bool {
	numOfZeroBytes := difficulty / 8
	numOfZeroBits := difficulty % 8

	totalBytes := numOfZeroBytes
	if numOfZeroBits > 0 {
		totalBytes += 1
	}
	if totalBytes > len(bytes) {
		return false
	}
	for i := 0; i < numOfZeroBytes; i++ {
		if bytes[i] != 0 {
			return false
		}
	}
	if numOfZeroBits == 0 {
		return true
	}
	nextByte := bytes[numOfZeroBytes]

	return nextByte>>byte(8-numOfZeroBits) == 0
}

func IsValidDifficulty(difficulty int) error {
	if difficulty < MIN_DIFFICULTY || difficulty > MAX_SUPPORTED_DIFFICULTY {
		return fmt.Errorf("difficulty must be within [%d, %d], got %d", MIN_DIFFICULTY, MAX_SUPPORTED_DIFFICULTY, difficulty)
	}
	return nil
}

// Genesis must sit at index 0 with proof 0, the all-zero previous hash and a consistent hash.
func IsValidGenesisBlock(block *model.Block) error {
	if block.Index != 0 {
		return fmt.Errorf("genesis index must be 0, got %d", block.Index)
	}
	if block.PrevHash != model.GENESIS_PREV_HASH {
		return errors.New("genesis previous hash is not the zero hash")
	}
	if block.Proof != 0 {
		return fmt.Errorf("genesis proof must be 0, got %d", block.Proof)
	}
	expectedHash, err := HashBlock(block)
	if err != nil {
		return err
	}
	if block.Hash != expectedHash {
		return fmt.Errorf("invalid hash: expected %s, got %s", expectedHash, block.Hash)
	}
	return nil
}

// Validate a block against its predecessor:
// 1. Index follows the previous index.
// 2. Previous hash links to the previous block.
// 3. Hash matches the block's own fields.
// 4. Hash meets the difficulty recorded in the block.
// 5. The first transaction is the coinbase, the rest are valid transactions.
// The chain's current difficulty is never consulted.
func IsValidBlock(block *model.Block, prev *model.Block) error {
	if block.Index != prev.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", prev.Index+1, block.Index)
	}
	if block.PrevHash != prev.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", prev.Hash, block.PrevHash)
	}

	blockBytes, err := GetBlockBytes(block)
	if err != nil {
		return err
	}
	digest := SHA256(blockBytes)
	if BytesToHex(digest) != block.Hash {
		return errors.New("block hash is invalid")
	}

	if err := IsValidDifficulty(block.Difficulty); err != nil {
		return err
	}
	if !HexHasLeadingZeros(digest, block.Difficulty) {
		return fmt.Errorf("block does not meet difficulty %d, hash: %s", block.Difficulty, block.Hash)
	}

	if len(block.Txs) == 0 {
		return errors.New("block has no coinbase transaction")
	}
	if err := IsValidCoinbase(&block.Txs[0]); err != nil {
		return err
	}
	for i := 1; i < len(block.Txs); i++ {
		if err := IsValidTransaction(&block.Txs[i]); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

// VerifyChain checks the genesis block and every block against its predecessor.
func VerifyChain(blocks []model.Block) error {
	if len(blocks) == 0 {
		return errors.New("empty blockchain")
	}
	if err := IsValidGenesisBlock(&blocks[0]); err != nil {
		return fmt.Errorf("block 0 invalid: %w", err)
	}
	for i := 1; i < len(blocks); i++ {
		if err := IsValidBlock(&blocks[i], &blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}
