package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ipfs/go-log"
	"github.com/keep-network/keep-common/pkg/logging"
	"github.com/urfave/cli"

	"github.com/keep-network/ledger-console/internal/config"
	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

var logger = log.Logger("ledger-cmd")

// environment holds everything a command needs to run ledger actions.
type environment struct {
	console *console.Console
	apiURL  string
}

// setUp reads the configuration pointed by the global flags, applies the log
// level spec and builds a console rendering to the writer.
func setUp(c *cli.Context, writer io.Writer) (*environment, error) {
	cfg, err := config.ReadConfig(c.GlobalString("config"))
	if err != nil {
		return nil, fmt.Errorf("failed while reading config file: [%v]", err)
	}

	if apiURL := c.GlobalString("api-url"); apiURL != "" {
		cfg.API.URL = apiURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: [%v]", err)
	}

	if err := logging.Configure(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf(
			"failed to configure logging with [%s]: [%v]",
			cfg.Log.Level,
			err,
		)
	}

	dispatcher := dispatch.NewDispatcher(&cfg.API)
	surface := display.NewSurface(writer, &cfg.Display)

	logger.Debugf("using ledger api at [%s]", dispatcher.APIURL())

	return &environment{
		console: console.New(dispatcher, surface),
		apiURL:  dispatcher.APIURL(),
	}, nil
}

// runAction runs a single console action and waits for its outcome. A failed
// outcome has already been rendered, so it only sets the exit status.
func runAction(
	c *cli.Context,
	action func(context.Context, *console.Console) <-chan dispatch.Outcome,
) error {
	env, err := setUp(c, c.App.Writer)
	if err != nil {
		return err
	}

	outcome := <-action(context.Background(), env.console)
	if outcome.Failed() {
		return cli.NewExitError("", 1)
	}

	return nil
}

// lockedWriter serializes writes coming from concurrent actions and the
// interactive session.
type lockedWriter struct {
	mutex  sync.Mutex
	writer io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mutex.Lock()
	defer lw.mutex.Unlock()

	return lw.writer.Write(p)
}

// consoleHeader prints a boxed banner listing the API URL and the session
// commands.
func consoleHeader(writer io.Writer, apiURL string, commands []string) {
	const (
		border      = "| "
		apiLabel    = "API      : "
		commandsTag = "Commands : "
	)

	rows := []string{"Ledger Console", "", apiLabel + apiURL}
	for i, command := range commands {
		label := strings.Repeat(" ", len(commandsTag))
		if i == 0 {
			label = commandsTag
		}
		rows = append(rows, label+command)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	width += 6

	var banner strings.Builder
	dashes := strings.Repeat("-", width+2*len(border))
	banner.WriteString(dashes + "\n")
	for _, row := range rows {
		fmt.Fprintf(&banner, "%s%-*s%s\n", border, width, row, " |")
	}
	banner.WriteString(dashes + "\n\n")

	fmt.Fprint(writer, banner.String())
}
