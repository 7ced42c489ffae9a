package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

// AddTransactionCommand contains the definition of the add-transaction
// command-line subcommand.
var AddTransactionCommand cli.Command

const addTransactionDescription = `The add-transaction command submits a JSON
document to the ledger as a single transaction. The document is given as the
command argument or read from a file with --file.

   $ ledger-console add-transaction '{"id": 1, "name": "task"}'`

func init() {
	AddTransactionCommand = cli.Command{
		Name:        "add-transaction",
		Usage:       "Submit a transaction to the ledger",
		Description: addTransactionDescription,
		ArgsUsage:   "[json]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "file,f",
				Usage: "read the JSON payload from the file",
			},
		},
		Action: AddTransaction,
	}
}

// AddTransaction submits the transaction payload given on the command line.
func AddTransaction(c *cli.Context) error {
	payload := strings.Join(c.Args(), " ")

	if file := c.String("file"); file != "" {
		if c.NArg() > 0 {
			return fmt.Errorf(
				"payload given both as argument and with --file [%s]; use only one",
				file,
			)
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read payload file [%s]: [%v]", file, err)
		}
		payload = string(content)
	}

	return runAction(
		c,
		func(ctx context.Context, ledger *console.Console) <-chan dispatch.Outcome {
			return ledger.AddTransaction(ctx, display.NewField(payload))
		},
	)
}
