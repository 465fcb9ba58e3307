package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/config"
	"github.com/Luismorlan/pow_ledger/full_node"
	"github.com/Luismorlan/pow_ledger/layout"
	"github.com/jroimartin/gocui"
	"github.com/urfave/cli/v2"
)

// How many parsed commands may wait while the handler is busy mining.
const COMMAND_QUEUE_SIZE = 16

func addFlags(flags []cli.Flag) []cli.Flag {
	return append(flags,
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the full node yaml config",
		},
		&cli.StringFlag{
			Name:    "miner",
			Aliases: []string{"m"},
			Usage:   "Address credited with mining rewards",
		},
		&cli.IntFlag{
			Name:    "difficulty",
			Aliases: []string{"d"},
			Usage:   "Leading zero hex digits required of a block hash",
		},
		&cli.Float64Flag{
			Name:  "reward",
			Usage: "Reward credited to the miner per block",
		},
		&cli.BoolFlag{
			Name:  "debug_mode",
			Usage: "Using debug mode will disable fancy GUI.",
		},
	)
}

// Flags given on the command line override the config file.
func loadAppConfig(c *cli.Context) (config.AppConfig, error) {
	cfg := config.DefaultAppConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.ParseAppConfig(path)
		if err != nil {
			return config.AppConfig{}, fmt.Errorf("could not load config %s: %w", path, err)
		}
	}
	if c.IsSet("miner") {
		cfg.MINER_ADDRESS = c.String("miner")
	}
	if c.IsSet("difficulty") {
		cfg.DIFFICULTY = c.Int("difficulty")
	}
	if c.IsSet("reward") {
		cfg.COINBASE_REWARD = c.Float64("reward")
	}
	return cfg, cfg.Validate()
}

// Parse command from stdio.
func ParseCommand(cmd chan<- commands.Command, ctl chan<- commands.Command) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			log.Println("stdin closed, exiting")
			os.Exit(0)
		}
		// convert CRLF to LF
		text = strings.TrimRight(text, "\r\n")
		c, err := commands.CreateCommand(text)
		if err != nil {
			log.Println(err)
			continue
		}
		if err := commands.Route(c, cmd, ctl); err != nil {
			log.Println(err)
		}
	}
}

// The only goroutine touching the full node. Commands run one at a time, a
// running mine is interrupted through ctl.
func HandleCommand(cmd <-chan commands.Command, ctl <-chan commands.Command, node *full_node.FullNode) {
	for c := range cmd {
		if c.Op == commands.MINE {
			log.Println("Generating block")
		}
		log.Println(node.Execute(c, ctl))
	}
}

// Return a gui handle if not in debug mode.
func ListenOnInput(cmd chan<- commands.Command, ctl chan<- commands.Command, debugMode bool) (*gocui.Gui, error) {
	if debugMode {
		go ParseCommand(cmd, ctl)
		return nil, nil
	}
	g, err := layout.CreateGui(cmd, ctl, full_node.USAGE)
	if err != nil {
		return nil, err
	}
	log.SetOutput(layout.ViewWriter{G: g, View: layout.LOGGER_VIEW})
	return g, nil
}

func run(c *cli.Context) error {
	cfg, err := loadAppConfig(c)
	if err != nil {
		return err
	}

	cmd := make(chan commands.Command, COMMAND_QUEUE_SIZE)
	ctl := make(chan commands.Command, 1)

	g, err := ListenOnInput(cmd, ctl, c.Bool("debug_mode"))
	if err != nil {
		return err
	}

	log.Println("Generating genesis block!")
	node, err := full_node.NewFullNode(cfg)
	if err != nil {
		if g != nil {
			g.Close()
		}
		return err
	}
	log.Printf("miner: %s, difficulty: %d, reward: %v", node.GetMinerAddress(), node.GetDifficulty(), node.GetReward())

	if g == nil {
		HandleCommand(cmd, ctl, node)
		return nil
	}

	go HandleCommand(cmd, ctl, node)
	defer g.Close()
	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:   "pow_ledger",
		Usage:  "single node proof-of-work ledger",
		Flags:  addFlags(nil),
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
