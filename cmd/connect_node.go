package cmd

import (
	"context"

	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

// ConnectNodeCommand contains the definition of the connect-node
// command-line subcommand.
var ConnectNodeCommand cli.Command

const connectNodeDescription = `The connect-node command registers a peer node
address with the ledger node.

   $ ledger-console connect-node 127.0.0.1:5001`

func init() {
	ConnectNodeCommand = cli.Command{
		Name:        "connect-node",
		Usage:       "Connect a peer node",
		Description: connectNodeDescription,
		ArgsUsage:   "<address>",
		Action:      ConnectNode,
	}
}

// ConnectNode registers the node address given on the command line.
func ConnectNode(c *cli.Context) error {
	address := display.NewField(c.Args().First())

	return runAction(
		c,
		func(ctx context.Context, ledger *console.Console) <-chan dispatch.Outcome {
			return ledger.ConnectNode(ctx, address)
		},
	)
}
