package full_node

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/visualize"
)

// Execute runs one session command against the full node and returns the text
// to show the operator. ctl is the mining control channel, see MineWithControl.
func (f *FullNode) Execute(c commands.Command, ctl <-chan commands.Command) string {
	switch c.Op {
	case commands.TRANSFER:
		amount, _ := strconv.ParseFloat(c.Args[2], 64)
		if f.SubmitTransaction(c.Args[0], c.Args[1], amount) {
			return "transaction added"
		}
		return "transaction failed"
	case commands.MINE:
		// A stop sent while nothing was mining must not cancel this run.
		drain(ctl)
		res, ok := f.MineWithControl(ctl)
		if ok {
			tail := f.GetTail()
			return fmt.Sprintf("block %d generated successfully, hash: %s", tail.Index, tail.Hash)
		}
		if res.Op == commands.STOP {
			return "block generation stopped"
		}
		return "block generation failed"
	case commands.STOP:
		drain(ctl)
		return "no running mining task to stop"
	case commands.DIFFICULTY:
		d, _ := strconv.Atoi(c.Args[0])
		if f.SetDifficulty(d) {
			return fmt.Sprintf("updated difficulty to %d", d)
		}
		return fmt.Sprintf("failed to update difficulty, must be within [1, %d]", f.config.MAX_DIFFICULTY)
	case commands.REWARD:
		r, _ := strconv.ParseFloat(c.Args[0], 64)
		if f.SetReward(r) {
			return fmt.Sprintf("updated reward to %v", r)
		}
		return "failed to update reward, must be non-negative"
	case commands.SHOW:
		d, _ := strconv.Atoi(c.Args[0])
		buf := &bytes.Buffer{}
		if err := visualize.Dump(f.GetRecentBlocks(d), buf); err != nil {
			return "failed to show blocks: " + err.Error()
		}
		return strings.TrimSuffix(buf.String(), "\n")
	case commands.GRAPH:
		d, _ := strconv.Atoi(c.Args[0])
		path := c.Args[1]
		file, err := os.Create(path)
		if err != nil {
			return "failed to write graph: " + err.Error()
		}
		defer file.Close()
		visualize.Render(f.GetRecentBlocks(d), file)
		return "graph written to " + path
	case commands.VERIFY:
		if err := f.Verify(); err != nil {
			return "blockchain is invalid: " + err.Error()
		}
		return fmt.Sprintf("blockchain is valid, %d blocks checked", f.GetHeight()+1)
	case commands.STATUS:
		return fmt.Sprintf("node: %s\nheight: %d\ndifficulty: %d\nreward: %v\nminer: %s\npending: %d",
			f.uuid, f.GetHeight(), f.difficulty, f.reward, f.minerAddress, len(f.txPool.Txs))
	case commands.PENDING:
		if len(f.txPool.Txs) == 0 {
			return "no pending transactions"
		}
		lines := make([]string, 0, len(f.txPool.Txs))
		for i, tx := range f.txPool.Txs {
			lines = append(lines, fmt.Sprintf("%d: %s -> %s %v", i, tx.Sender, tx.Receiver, tx.Amount))
		}
		return strings.Join(lines, "\n")
	case commands.HELP:
		return USAGE
	default:
		return fmt.Sprintf("Unimplemented command: %d", c.Op)
	}
}

func drain(ctl <-chan commands.Command) {
	for {
		select {
		case <-ctl:
		default:
			return
		}
	}
}

const USAGE = `transfer <sender> <receiver> <amount>  add a transaction to the pending pool
mine                                   seal pending transactions into a new block
stop                                   stop the running mine
difficulty <n>                         set leading zero hex digits for new blocks
reward <amount>                        set the reward for new blocks
show <depth>                           print the last blocks as JSON
graph <depth> <path>                   write the last blocks as a dot graph
verify                                 check hashes, links and proofs of the chain
status                                 print node, height, difficulty, reward and miner
pending                                list pending transactions
help                                   print this text`
