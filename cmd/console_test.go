package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/keep-network/ledger-console/internal/testhelper"
	"github.com/keep-network/ledger-console/pkg/console"
	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

func TestRunSession(t *testing.T) {
	ledger := testhelper.NewFakeLedger()
	defer ledger.Close()

	output := &bytes.Buffer{}
	ledgerConsole, surface, writer := newSessionConsole(ledger, output)

	input := strings.Join([]string{
		"help",
		`tx {"id": 1, "name": "alpha"}`,
		"",
		"bogus command",
		"node",
		"quit",
		"chain",
	}, "\n")

	err := runSession(
		context.Background(),
		strings.NewReader(input),
		writer,
		ledgerConsole,
	)
	if err != nil {
		t.Fatal(err)
	}

	requests := ledger.Requests()
	if len(requests) != 1 {
		t.Fatalf("unexpected number of requests\nexpected: 1\nactual:   %d", len(requests))
	}
	if requests[0].Method != http.MethodPost || requests[0].Path != console.AddTransactionEndpoint {
		t.Errorf("unexpected request: %v %v", requests[0].Method, requests[0].Path)
	}

	// The rejected node command is the latest issued one.
	if surface.Text() != console.EmptyNodeAddressMessage {
		t.Errorf(
			"unexpected display\nexpected: %v\nactual:   %v",
			console.EmptyNodeAddressMessage,
			surface.Text(),
		)
	}

	for _, expected := range []string{
		sessionCommands[0],
		"unknown command [bogus]; type help for the list of commands",
		dispatch.LoadingText,
	} {
		if !strings.Contains(output.String(), expected) {
			t.Errorf("output should contain [%v]:\n%v", expected, output.String())
		}
	}
}

func TestRunSession_FieldReuse(t *testing.T) {
	testData := map[string]struct {
		input                []string
		expectedRequestCount int
		expectedBody         string
		expectedDisplay      string
	}{
		"transaction payload is kept": {
			[]string{`tx {"id": 2}`, "tx"},
			2,
			`{"transactions":[{"id":2}]}`,
			"",
		},
		"node address is cleared": {
			[]string{"node 127.0.0.1:5001", "node"},
			1,
			`{"nodes":["127.0.0.1:5001"]}`,
			console.EmptyNodeAddressMessage,
		},
	}

	for testName, testData := range testData {
		t.Run(testName, func(t *testing.T) {
			ledger := testhelper.NewFakeLedger()
			defer ledger.Close()

			output := &bytes.Buffer{}
			ledgerConsole, surface, writer := newSessionConsole(ledger, output)

			err := runSession(
				context.Background(),
				strings.NewReader(strings.Join(testData.input, "\n")),
				writer,
				ledgerConsole,
			)
			if err != nil {
				t.Fatal(err)
			}

			requests := ledger.Requests()
			if len(requests) != testData.expectedRequestCount {
				t.Fatalf(
					"unexpected number of requests\nexpected: %d\nactual:   %d",
					testData.expectedRequestCount,
					len(requests),
				)
			}
			for _, request := range requests {
				if string(request.Body) != testData.expectedBody {
					t.Errorf(
						"unexpected body\nexpected: %s\nactual:   %s",
						testData.expectedBody,
						request.Body,
					)
				}
			}

			if testData.expectedDisplay != "" && surface.Text() != testData.expectedDisplay {
				t.Errorf(
					"unexpected display\nexpected: %v\nactual:   %v",
					testData.expectedDisplay,
					surface.Text(),
				)
			}
		})
	}
}

func TestSplitCommand(t *testing.T) {
	testData := map[string]struct {
		line             string
		expectedName     string
		expectedArgument string
	}{
		"empty":           {"   ", "", ""},
		"no argument":     {"chain", "chain", ""},
		"argument":        {"search  foo bar ", "search", "foo bar"},
		"tab separated":   {"node\t127.0.0.1:5001", "node", "127.0.0.1:5001"},
		"json argument":   {`tx {"a": [1, 2]}`, "tx", `{"a": [1, 2]}`},
		"leading spacing": {"  mine", "mine", ""},
	}

	for testName, testData := range testData {
		t.Run(testName, func(t *testing.T) {
			name, argument := splitCommand(testData.line)
			if name != testData.expectedName {
				t.Errorf("unexpected name\nexpected: %q\nactual:   %q", testData.expectedName, name)
			}
			if argument != testData.expectedArgument {
				t.Errorf(
					"unexpected argument\nexpected: %q\nactual:   %q",
					testData.expectedArgument,
					argument,
				)
			}
		})
	}
}

func TestConsoleHeader(t *testing.T) {
	output := &bytes.Buffer{}

	consoleHeader(output, "http://localhost:5000", sessionCommands)

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	for _, line := range lines {
		if len(line) != len(lines[0]) {
			t.Errorf("header lines should be aligned:\n%v", output.String())
			break
		}
	}
	if !strings.Contains(output.String(), "API      : http://localhost:5000") {
		t.Errorf("header should show the api url:\n%v", output.String())
	}
}

func newSessionConsole(
	ledger *testhelper.FakeLedger,
	output *bytes.Buffer,
) (*console.Console, *display.Surface, io.Writer) {
	writer := &lockedWriter{writer: output}

	dispatcher := dispatch.NewDispatcher(&dispatch.Config{URL: ledger.URL()})
	surface := display.NewSurface(writer, &display.Config{})

	return console.New(dispatcher, surface), surface, writer
}
