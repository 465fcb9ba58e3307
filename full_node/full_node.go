package full_node

import (
	"errors"
	"log"
	"time"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/config"
	"github.com/Luismorlan/pow_ledger/model"
	"github.com/Luismorlan/pow_ledger/utils"
	"github.com/jinzhu/copier"
	uuid "github.com/satori/go.uuid"
)

// A full node maintains the blockchain, the pool of pending transactions and
// the mining parameters. It has no internal locking: a single caller drives it.
type FullNode struct {
	// The blockchain it needs to maintain.
	blockchain *model.Blockchain
	// Transaction pool it need to maintain. Incoming transaction are added to this pool.
	txPool *model.TransactionPool
	// How many leading 0 hex digits the next mined block needs.
	difficulty int
	// Reward credited to the miner for each mined block.
	reward float64
	// Address credited with mining rewards.
	minerAddress string
	// Blockchain config.
	config config.AppConfig
	// A unique indentifier of this Fullnode, used in logs and file names.
	uuid string
}

// Create a brand new full node, which contains a genesis block in the chain.
func NewFullNode(c config.AppConfig) (*FullNode, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	myuuid := uuid.NewV4().String()
	miner := c.MINER_ADDRESS
	if miner == "" {
		miner = "miner-" + myuuid
	}

	genesis, err := utils.CreateGenesisBlock(time.Now().Unix())
	if err != nil {
		return nil, err
	}
	bc := model.NewBlockChain(*genesis)
	pool := model.NewTransactionPool()
	log.Printf("full node %s created genesis block %s", myuuid, genesis.Hash)

	return &FullNode{
		blockchain:   &bc,
		txPool:       &pool,
		difficulty:   c.DIFFICULTY,
		reward:       c.COINBASE_REWARD,
		minerAddress: miner,
		config:       c,
		uuid:         myuuid,
	}, nil
}

// Validate the transaction and append it to the pool. An invalid transaction
// is dropped and the pool stays as it was. Duplicates are accepted.
func (f *FullNode) SubmitTransaction(sender string, receiver string, amount float64) bool {
	tx := model.Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
	if err := utils.IsValidTransaction(&tx); err != nil {
		log.Println("rejected transaction:", err)
		return false
	}
	f.txPool.Txs = append(f.txPool.Txs, tx)
	return true
}

// Mine seals all pending transactions into a new block on top of the tail.
// It blocks until a proof is found, there is no way to cancel it.
func (f *FullNode) Mine() bool {
	_, ok := f.MineWithControl(nil)
	return ok
}

// MineWithControl is Mine with an escape hatch: any command received on ctl
// stops the search and is returned. An interrupted mine leaves the chain and
// the pool untouched.
func (f *FullNode) MineWithControl(ctl <-chan commands.Command) (commands.Command, bool) {
	tail := f.blockchain.Tail()
	if tail == nil {
		log.Println("cannot mine: blockchain has no tail")
		return commands.NewDefaultCommand(), false
	}
	if err := f.checkDifficulty(f.difficulty); err != nil {
		log.Println("cannot mine:", err)
		return commands.NewDefaultCommand(), false
	}

	txs := make([]model.Transaction, len(f.txPool.Txs))
	copy(txs, f.txPool.Txs)
	// The timestamp is captured once so the hashed fields stay fixed during the search.
	timestamp := time.Now().Unix()
	block, c, err := utils.CreateNewBlock(tail, txs, f.reward, f.minerAddress, timestamp, f.difficulty, ctl)
	if err != nil {
		log.Println("mining stopped:", err)
		return c, false
	}

	f.blockchain.Blocks = append(f.blockchain.Blocks, *block)
	f.txPool.Txs = []model.Transaction{}
	log.Printf("mined block %d with proof %d, hash: %s", block.Index, block.Proof, block.Hash)
	return c, true
}

// SetDifficulty takes effect from the next mined block. Blocks already in the
// chain keep the difficulty they were mined with.
func (f *FullNode) SetDifficulty(difficulty int) bool {
	if err := f.checkDifficulty(difficulty); err != nil {
		log.Println("rejected difficulty:", err)
		return false
	}
	f.difficulty = difficulty
	return true
}

// SetReward takes effect from the next mined block.
func (f *FullNode) SetReward(reward float64) bool {
	if err := utils.IsValidReward(reward); err != nil {
		log.Println("rejected reward:", err)
		return false
	}
	f.reward = reward
	return true
}

// Verify recomputes every block hash and checks linkage and proof of work.
// Each block is checked against the difficulty it was mined with.
func (f *FullNode) Verify() error {
	return utils.VerifyChain(f.blockchain.Blocks)
}

func (f *FullNode) checkDifficulty(difficulty int) error {
	if err := utils.IsValidDifficulty(difficulty); err != nil {
		return err
	}
	if difficulty > f.config.MAX_DIFFICULTY {
		return errors.New("difficulty is above the configured MAX_DIFFICULTY")
	}
	return nil
}

// Return a deep copy of all blocks.
func (f *FullNode) GetBlocks() []model.Block {
	blocks := []model.Block{}
	copier.CopyWithOption(&blocks, f.blockchain.Blocks, copier.Option{DeepCopy: true})
	return blocks
}

// Return a deep copy of the last d+1 blocks, ending at the tail.
func (f *FullNode) GetRecentBlocks(d int) []model.Block {
	start := len(f.blockchain.Blocks) - d - 1
	if start < 0 {
		start = 0
	}
	blocks := []model.Block{}
	copier.CopyWithOption(&blocks, f.blockchain.Blocks[start:], copier.Option{DeepCopy: true})
	return blocks
}

// Return a deep copy of the tail block.
func (f *FullNode) GetTail() model.Block {
	b := model.Block{}
	copier.CopyWithOption(&b, f.blockchain.Tail(), copier.Option{DeepCopy: true})
	return b
}

// Return a copy of the pending transactions in arrival order.
func (f *FullNode) GetPendingTransactions() []model.Transaction {
	txs := []model.Transaction{}
	copier.Copy(&txs, f.txPool.Txs)
	return txs
}

// Height of the tail, genesis is at height 0.
func (f *FullNode) GetHeight() int64 {
	return f.blockchain.Tail().Index
}

func (f *FullNode) GetDifficulty() int {
	return f.difficulty
}

func (f *FullNode) GetReward() float64 {
	return f.reward
}

func (f *FullNode) GetMinerAddress() string {
	return f.minerAddress
}

func (f *FullNode) GetID() string {
	return f.uuid
}
