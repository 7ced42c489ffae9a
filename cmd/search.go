package cmd

import (
	"context"
	"strings"

	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

// SearchCommand contains the definition of the search command-line
// subcommand.
var SearchCommand cli.Command

const searchDescription = `The search command looks for transactions holding
a value equal to the term anywhere in their content.

   $ ledger-console search "converter task"`

func init() {
	SearchCommand = cli.Command{
		Name:        "search",
		Usage:       "Search ledger transactions",
		Description: searchDescription,
		ArgsUsage:   "<term>",
		Action:      Search,
	}
}

// Search looks up the term given on the command line.
func Search(c *cli.Context) error {
	term := display.NewField(strings.Join(c.Args(), " "))

	return runAction(
		c,
		func(ctx context.Context, ledger *console.Console) <-chan dispatch.Outcome {
			return ledger.Search(ctx, term)
		},
	)
}
