package cmd

import (
	"context"

	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
)

// Chain query commands. None of them takes arguments.
var (
	ChainCommand        cli.Command
	MineCommand         cli.Command
	ValidateCommand     cli.Command
	ConsensusCommand    cli.Command
	NetworkChainCommand cli.Command
)

func init() {
	ChainCommand = queryCommand(
		"chain",
		"Show the full chain of the node",
		(*console.Console).Chain,
	)
	MineCommand = queryCommand(
		"mine",
		"Mine a block with the pending transactions",
		(*console.Console).Mine,
	)
	ValidateCommand = queryCommand(
		"validate",
		"Check whether the chain of the node is valid",
		(*console.Console).Validate,
	)
	ConsensusCommand = queryCommand(
		"consensus",
		"Replace the chain of the node with the longest valid chain of its peers",
		(*console.Console).Consensus,
	)
	NetworkChainCommand = queryCommand(
		"network-chain",
		"Show the authoritative chain across the network",
		(*console.Console).NetworkChain,
	)
}

func queryCommand(
	name string,
	usage string,
	query func(*console.Console, context.Context) <-chan dispatch.Outcome,
) cli.Command {
	return cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			return runAction(
				c,
				func(ctx context.Context, ledger *console.Console) <-chan dispatch.Outcome {
					return query(ledger, ctx)
				},
			)
		},
	}
}
