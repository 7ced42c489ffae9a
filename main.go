package main

import (
	"log"
	"os"
	"path"
	"time"

	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/cmd"
)

const defaultConfigPath = "./configs/config.toml"

var (
	configPath string
	apiURL     string
)

func main() {
	app := cli.NewApp()
	app.Name = path.Base(os.Args[0])
	app.Usage = "CLI for a blockchain ledger node API"
	app.Compiled = time.Now()
	app.Authors = []cli.Author{
		{
			Name:  "Keep Network",
			Email: "info@keep.network",
		},
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config,c",
			Value:       defaultConfigPath,
			Destination: &configPath,
			Usage:       "full path to the configuration file",
		},
		cli.StringFlag{
			Name:        "api-url",
			Destination: &apiURL,
			Usage:       "base URL of the ledger API, overrides API.URL",
		},
	}
	app.Commands = []cli.Command{
		cmd.AddTransactionCommand,
		cmd.ConnectNodeCommand,
		cmd.SearchCommand,
		cmd.ChainCommand,
		cmd.MineCommand,
		cmd.ValidateCommand,
		cmd.ConsensusCommand,
		cmd.NetworkChainCommand,
		cmd.ConsoleCommand,
	}

	err := app.Run(os.Args)

	if err != nil {
		log.Fatal(err)
	}
}
