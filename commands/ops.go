package commands

import (
	"errors"
	"strconv"
	"strings"
)

type Operation int

const (
	DEFAULT = iota
	// Submit a transaction to the pending pool.
	TRANSFER
	// Mine one block from the pending pool.
	MINE
	// Stop the running mining task.
	STOP
	// Change the mining difficulty.
	DIFFICULTY
	// Change the mining reward.
	REWARD
	// Show the last blocks of the blockchain.
	SHOW
	// Render the last blocks of the blockchain as a graph.
	GRAPH
	// Verify the integrity of the whole blockchain.
	VERIFY
	// Print difficulty, reward, miner and height.
	STATUS
	// List pending transactions.
	PENDING
	// Print the usage.
	HELP
)

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

// IsValid only checks the shape of the arguments. Whether a value is
// acceptable (positive amount, difficulty in range) is decided by the full node.
func (c Command) IsValid() bool {
	switch c.Op {
	case MINE, STOP, VERIFY, STATUS, PENDING, HELP:
		return len(c.Args) == 0
	case TRANSFER:
		if len(c.Args) != 3 {
			return false
		}
		_, err := strconv.ParseFloat(c.Args[2], 64)
		return err == nil
	case DIFFICULTY:
		if len(c.Args) != 1 {
			return false
		}
		_, err := strconv.Atoi(c.Args[0])
		return err == nil
	case REWARD:
		if len(c.Args) != 1 {
			return false
		}
		_, err := strconv.ParseFloat(c.Args[0], 64)
		return err == nil
	case SHOW:
		if len(c.Args) != 1 {
			return false
		}
		// depth must be a non-negative number.
		d, err := strconv.Atoi(c.Args[0])
		return err == nil && d >= 0
	case GRAPH:
		if len(c.Args) != 2 {
			return false
		}
		d, err := strconv.Atoi(c.Args[0])
		return err == nil && d >= 0 && c.Args[1] != ""
	default:
		return false
	}
}

// From string, create
func CreateCommand(s string) (Command, error) {
	// split command by whitespace.
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	switch ss[0] {
	case "transfer":
		cmd.Op = TRANSFER
	case "mine":
		cmd.Op = MINE
	case "stop":
		cmd.Op = STOP
	case "difficulty":
		cmd.Op = DIFFICULTY
	case "reward":
		cmd.Op = REWARD
	case "show":
		cmd.Op = SHOW
	case "graph":
		cmd.Op = GRAPH
	case "verify":
		cmd.Op = VERIFY
	case "status":
		cmd.Op = STATUS
	case "pending":
		cmd.Op = PENDING
	case "help":
		cmd.Op = HELP
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}

// Route hands a parsed command to the handler without blocking the input side.
// STOP bypasses the command queue so it can reach a mining task that is
// keeping the handler busy.
func Route(c Command, cmd chan<- Command, ctl chan<- Command) error {
	if c.Op == STOP {
		select {
		case ctl <- c:
			return nil
		default:
			return errors.New("a stop is already pending")
		}
	}
	select {
	case cmd <- c:
		return nil
	default:
		return errors.New("command queue is full, try again later")
	}
}

// Create a brand new command with default operation.
func NewDefaultCommand() Command {
	return Command{
		Op: DEFAULT,
	}
}

func (c Command) IsDefault() bool {
	return c.Op == DEFAULT
}
