package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

// ConsoleCommand contains the definition of the console command-line
// subcommand.
var ConsoleCommand cli.Command

const consoleDescription = `The console command starts an interactive session
reading one command per line from the standard input. Every command runs in the
background; the output shows the result of the most recently issued one.`

// Lines longer than this are rejected by the session; transaction payloads are
// the only long input.
const maxSessionLineLength = 1024 * 1024

var sessionCommands = []string{
	"tx <json>       submit a transaction",
	"node <address>  connect a peer node",
	"search <term>   search transactions",
	"chain           show the chain",
	"mine            mine a block",
	"valid           check the chain",
	"consensus       resolve conflicts with peers",
	"network         show the network chain",
	"help            show this list",
	"quit            leave the console",
}

func init() {
	ConsoleCommand = cli.Command{
		Name:        "console",
		Usage:       "Start an interactive ledger session",
		Description: consoleDescription,
		Action:      Console,
	}
}

// Console runs an interactive session on the standard input.
func Console(c *cli.Context) error {
	writer := &lockedWriter{writer: c.App.Writer}

	env, err := setUp(c, writer)
	if err != nil {
		return err
	}

	consoleHeader(writer, env.apiURL, sessionCommands)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return runSession(ctx, os.Stdin, writer, env.console)
}

// session keeps the input fields between commands. A command given without an
// argument reuses what its field currently holds.
type session struct {
	ledger *console.Console
	writer io.Writer

	payload     *display.Field
	nodeAddress *display.Field
	searchTerm  *display.Field

	pending sync.WaitGroup
}

func runSession(
	ctx context.Context,
	reader io.Reader,
	writer io.Writer,
	ledger *console.Console,
) error {
	s := &session{
		ledger:      ledger,
		writer:      writer,
		payload:     display.NewField(""),
		nodeAddress: display.NewField(""),
		searchTerm:  display.NewField(""),
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxSessionLineLength)

	for scanner.Scan() {
		if !s.execute(ctx, scanner.Text()) {
			break
		}
	}

	s.pending.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read console input: [%v]", err)
	}

	return nil
}

// execute runs a single session line and reports whether the session should
// continue.
func (s *session) execute(ctx context.Context, line string) bool {
	name, argument := splitCommand(line)

	switch name {
	case "":
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprintln(s.writer, strings.Join(sessionCommands, "\n"))
	case "tx":
		s.track(s.ledger.AddTransaction(ctx, fill(s.payload, argument)))
	case "node":
		s.track(s.ledger.ConnectNode(ctx, fill(s.nodeAddress, argument)))
	case "search":
		s.track(s.ledger.Search(ctx, fill(s.searchTerm, argument)))
	case "chain":
		s.track(s.ledger.Chain(ctx))
	case "mine":
		s.track(s.ledger.Mine(ctx))
	case "valid":
		s.track(s.ledger.Validate(ctx))
	case "consensus":
		s.track(s.ledger.Consensus(ctx))
	case "network":
		s.track(s.ledger.NetworkChain(ctx))
	default:
		fmt.Fprintf(s.writer, "unknown command [%s]; type help for the list of commands\n", name)
	}

	return true
}

func (s *session) track(done <-chan dispatch.Outcome) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		outcome := <-done
		logger.Debugf("session command finished with [%v]", outcome.Kind)
	}()
}

func fill(field *display.Field, argument string) *display.Field {
	if argument != "" {
		field.Set(argument)
	}

	return field
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)

	index := strings.IndexAny(line, " \t")
	if index < 0 {
		return line, ""
	}

	return line[:index], strings.TrimSpace(line[index+1:])
}
