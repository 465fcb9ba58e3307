package visualize

import (
	"fmt"
	"io"

	"github.com/Luismorlan/pow_ledger/model"
	"github.com/bradleyjkemp/memviz"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// We re-define the visualize model here so the graph only carries what a
// reader cares about, with long hashes shortened.
type transaction struct {
	sender   string
	receiver string
	amount   float64
}

type block struct {
	index      int64
	hash       string
	prevHash   string
	proof      int64
	difficulty int
	timestamp  int64
	txs        []transaction
	next       *block
}

// The hash string is just too long to render, instead we take only first 3 and last 3
// characters and replace the middle part with '...'. E.g. "abcdefghi" will be rendered as "abc...ghi"
func shortenString(s string) string {
	if len(s) < 9 {
		return s
	}
	return fmt.Sprintf("%s...%s", s[0:3], s[len(s)-3:])
}

func blockToblock(b *model.Block) *block {
	n := &block{
		index:      b.Index,
		hash:       shortenString(b.Hash),
		prevHash:   shortenString(b.PrevHash),
		proof:      b.Proof,
		difficulty: b.Difficulty,
		timestamp:  b.Timestamp,
	}
	for i := 0; i < len(b.Txs); i++ {
		tx := b.Txs[i]
		n.txs = append(n.txs, transaction{sender: tx.Sender, receiver: tx.Receiver, amount: tx.Amount})
	}
	return n
}

// Link the blocks oldest first, returns the head of the list.
func constructData(blocks []model.Block) *block {
	var head, last *block
	for i := 0; i < len(blocks); i++ {
		n := blockToblock(&blocks[i])
		if head == nil {
			head = n
		} else {
			last.next = n
		}
		last = n
	}
	return head
}

// Render writes the blocks as a Graphviz dot graph, e.g. for `dot -Tpng`.
func Render(blocks []model.Block, w io.Writer) {
	chain := constructData(blocks)
	memviz.Map(w, chain)
}

// Dump writes the blocks as indented JSON.
func Dump(blocks []model.Block, w io.Writer) error {
	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
