package utils

import (
	"strings"
	"testing"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBlock() model.Block {
	return model.Block{
		Index:     1,
		Timestamp: 1700000000,
		PrevHash:  "00ab",
		Txs: []model.Transaction{
			CreateCoinbaseTx(10, "miner"),
			{Sender: "alice", Receiver: "bob", Amount: 3},
		},
		Proof:      3,
		Difficulty: 1,
	}
}

// Build a valid chain of n mined blocks on top of genesis.
func createTestChain(t *testing.T, n int) []model.Block {
	genesis, err := CreateGenesisBlock(1700000000)
	require.Nil(t, err)
	blocks := []model.Block{*genesis}
	for i := 0; i < n; i++ {
		txs := []model.Transaction{{Sender: "alice", Receiver: "bob", Amount: float64(i + 1)}}
		b, _, err := CreateNewBlock(&blocks[len(blocks)-1], txs, 10, "miner", 1700000001+int64(i), 1, nil)
		require.Nil(t, err)
		blocks = append(blocks, *b)
	}
	return blocks
}

func TestGetBlockBytes(t *testing.T) {
	testBlock := createTestBlock()

	var expectedBlockBytes []byte

	actualBlockBytes, err := GetBlockBytes(&testBlock)
	assert.Nil(t, err)

	expectedBlockBytes = append(expectedBlockBytes, Int64ToBytes(testBlock.Index)...)
	expectedBlockBytes = append(expectedBlockBytes, Int64ToBytes(testBlock.Timestamp)...)
	expectedBlockBytes = append(expectedBlockBytes, Int64ToBytes(2)...)
	expectedBlockBytes = append(expectedBlockBytes, GetTransactionBytes(&testBlock.Txs[0])...)
	expectedBlockBytes = append(expectedBlockBytes, GetTransactionBytes(&testBlock.Txs[1])...)
	preHashBytes, _ := HexToBytes(testBlock.PrevHash)
	expectedBlockBytes = append(expectedBlockBytes, preHashBytes...)
	expectedBlockBytes = append(expectedBlockBytes, Int64ToBytes(testBlock.Proof)...)
	assert.Equal(t, expectedBlockBytes, actualBlockBytes)
}

func TestGetBlockBytesInvalidPrevHash(t *testing.T) {
	testBlock := createTestBlock()
	testBlock.PrevHash = "not hex"
	_, err := GetBlockBytes(&testBlock)
	assert.NotNil(t, err)
}

func TestHashBlockIsDeterministic(t *testing.T) {
	testBlock := createTestBlock()
	first, err := HashBlock(&testBlock)
	assert.Nil(t, err)
	second, err := HashBlock(&testBlock)
	assert.Nil(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	// Difficulty and the stored hash are not hash inputs.
	testBlock.Difficulty = 5
	testBlock.Hash = "ffff"
	third, _ := HashBlock(&testBlock)
	assert.Equal(t, first, third)

	// Every hashed field changes the digest.
	testBlock.Proof++
	fourth, _ := HashBlock(&testBlock)
	assert.NotEqual(t, first, fourth)
}

func TestMine(t *testing.T) {
	testDifficulty := 1
	testBlock := createTestBlock()
	testBlock.Proof = 0

	c, actualErr := Mine(&testBlock, testDifficulty, nil)
	assert.Nil(t, actualErr)
	assert.True(t, c.IsDefault())
	expectedMatched, digest := MatchDifficulty(&testBlock, testDifficulty)
	assert.True(t, expectedMatched)
	assert.Equal(t, digest, testBlock.Hash)
	assert.Equal(t, "0", testBlock.Hash[:1])
}

func TestMineFindsSmallestProof(t *testing.T) {
	testBlock := createTestBlock()
	_, err := Mine(&testBlock, 1, nil)
	assert.Nil(t, err)

	probe := testBlock
	for p := int64(0); p < testBlock.Proof; p++ {
		probe.Proof = p
		matched, _ := MatchDifficulty(&probe, 1)
		assert.False(t, matched)
	}
}

func TestMineInterruption(t *testing.T) {
	// Make a really difficult hash difficulty that's impossible to solve.
	testDifficulty := MAX_SUPPORTED_DIFFICULTY
	testBlock := createTestBlock()
	testChan := make(chan commands.Command)

	go func() {
		testChan <- commands.Command{
			Op: commands.STOP,
		}
	}()

	c, actualErr := Mine(&testBlock, testDifficulty, testChan)
	assert.NotNil(t, actualErr)
	assert.Equal(t, c, commands.Command{
		Op: commands.STOP,
	})
	assert.Equal(t, "", testBlock.Hash)
}

func TestMatchDifficulty(t *testing.T) {
	testDifficulty := 2
	testBlock := createTestBlock()
	actualMatched, actualDigest := MatchDifficulty(&testBlock, testDifficulty)
	blockBytes, expectedErr := GetBlockBytes(&testBlock)
	assert.Nil(t, expectedErr)
	digestBytes := SHA256(blockBytes)
	expectedDigest := BytesToHex(digestBytes)

	expectedRes := HexHasLeadingZeros(digestBytes, testDifficulty)
	assert.Equal(t, expectedRes, actualMatched)
	assert.Equal(t, expectedDigest, actualDigest)
}

func TestByteHasLeadingZeros(t *testing.T) {
	testByte := []byte{2, 45, 40}
	assert.True(t, ByteHasLeadingZeros(testByte, 6))
	assert.False(t, ByteHasLeadingZeros(testByte, 9))
	assert.False(t, ByteHasLeadingZeros(testByte, 25))
	assert.True(t, ByteHasLeadingZeros([]byte{0, 0}, 16))
	assert.True(t, ByteHasLeadingZeros(testByte, 0))
}

func TestHexHasLeadingZeros(t *testing.T) {
	// "000f..." has three leading zero hex digits.
	digest := []byte{0x00, 0x0f, 0xff}
	assert.True(t, HexHasLeadingZeros(digest, 1))
	assert.True(t, HexHasLeadingZeros(digest, 3))
	assert.False(t, HexHasLeadingZeros(digest, 4))
	assert.False(t, HexHasLeadingZeros([]byte{0x10}, 1))
	assert.False(t, HexHasLeadingZeros(make([]byte, 32), 65))
	assert.True(t, HexHasLeadingZeros(make([]byte, 32), 64))
}

func TestIsValidDifficulty(t *testing.T) {
	assert.NotNil(t, IsValidDifficulty(0))
	assert.NotNil(t, IsValidDifficulty(-3))
	assert.Nil(t, IsValidDifficulty(1))
	assert.Nil(t, IsValidDifficulty(MAX_SUPPORTED_DIFFICULTY))
	assert.NotNil(t, IsValidDifficulty(MAX_SUPPORTED_DIFFICULTY+1))
}

func TestCreateGenesisBlock(t *testing.T) {
	genesis, err := CreateGenesisBlock(1700000000)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), genesis.Index)
	assert.Equal(t, int64(0), genesis.Proof)
	assert.Equal(t, model.GENESIS_PREV_HASH, genesis.PrevHash)
	assert.Empty(t, genesis.Txs)

	expected, _ := HashBlock(&model.Block{Index: 0, Timestamp: 1700000000, PrevHash: model.GENESIS_PREV_HASH})
	assert.Equal(t, expected, genesis.Hash)
	assert.Nil(t, IsValidGenesisBlock(genesis))
}

func TestCreateNewBlock(t *testing.T) {
	genesis, _ := CreateGenesisBlock(1700000000)
	txs := []model.Transaction{{Sender: "a", Receiver: "b", Amount: 3}}

	b, c, err := CreateNewBlock(genesis, txs, 10, "m", 1700000001, 1, nil)
	assert.Nil(t, err)
	assert.True(t, c.IsDefault())
	assert.Equal(t, int64(1), b.Index)
	assert.Equal(t, genesis.Hash, b.PrevHash)
	assert.Equal(t, 1, b.Difficulty)
	assert.Equal(t, []model.Transaction{
		{Sender: model.NETWORK_SENDER, Receiver: "m", Amount: 10},
		{Sender: "a", Receiver: "b", Amount: 3},
	}, b.Txs)
	assert.Nil(t, IsValidBlock(b, genesis))

	_, _, err = CreateNewBlock(genesis, txs, 10, "m", 1700000001, 0, nil)
	assert.NotNil(t, err)
	_, _, err = CreateNewBlock(nil, txs, 10, "m", 1700000001, 1, nil)
	assert.NotNil(t, err)
}

func TestIsValidBlock(t *testing.T) {
	blocks := createTestChain(t, 1)
	genesis := blocks[0]

	tests := []struct {
		name   string
		tamper func(b *model.Block)
	}{
		{"wrong index", func(b *model.Block) { b.Index = 5 }},
		{"wrong prev hash", func(b *model.Block) { b.PrevHash = model.GENESIS_PREV_HASH }},
		{"changed amount", func(b *model.Block) { b.Txs[1].Amount = 1000 }},
		{"changed proof", func(b *model.Block) { b.Proof++ }},
		{"forged hash", func(b *model.Block) { b.Hash = strings.Repeat("0", 64) }},
		{"zero difficulty", func(b *model.Block) { b.Difficulty = 0 }},
		{"difficulty above the proof", func(b *model.Block) { b.Difficulty = MAX_SUPPORTED_DIFFICULTY }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := blocks[1]
			b.Txs = append([]model.Transaction{}, blocks[1].Txs...)
			tt.tamper(&b)
			assert.NotNil(t, IsValidBlock(&b, &genesis))
		})
	}

	original := blocks[1]
	assert.Nil(t, IsValidBlock(&original, &genesis))
}

func TestIsValidBlockRejectsBadTransactions(t *testing.T) {
	genesis, _ := CreateGenesisBlock(1700000000)

	// A block whose first transaction isn't a coinbase, properly mined.
	b := model.Block{
		Index:      1,
		Timestamp:  1700000001,
		Txs:        []model.Transaction{{Sender: "alice", Receiver: "bob", Amount: 1}},
		PrevHash:   genesis.Hash,
		Difficulty: 1,
	}
	_, err := Mine(&b, 1, nil)
	require.Nil(t, err)
	assert.NotNil(t, IsValidBlock(&b, genesis))

	// A mined block carrying an invalid transaction after the coinbase.
	b = model.Block{
		Index:      1,
		Timestamp:  1700000001,
		Txs:        []model.Transaction{CreateCoinbaseTx(1, "m"), {Sender: "", Receiver: "bob", Amount: 1}},
		PrevHash:   genesis.Hash,
		Difficulty: 1,
	}
	_, err = Mine(&b, 1, nil)
	require.Nil(t, err)
	assert.NotNil(t, IsValidBlock(&b, genesis))
}

func TestVerifyChain(t *testing.T) {
	blocks := createTestChain(t, 3)
	assert.Nil(t, VerifyChain(blocks))
	// Verification doesn't change anything.
	assert.Nil(t, VerifyChain(blocks))

	assert.NotNil(t, VerifyChain(nil))

	broken := append([]model.Block{}, blocks...)
	broken[2].Timestamp++
	err := VerifyChain(broken)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "block 2 invalid")

	badGenesis := append([]model.Block{}, blocks...)
	badGenesis[0].Proof = 1
	err = VerifyChain(badGenesis)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "block 0 invalid")
}
