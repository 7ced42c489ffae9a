// Package display holds the console's single output region and its input
// fields.
package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/TwinProduction/go-color"
	"github.com/ipfs/go-log"

	"github.com/keep-network/ledger-console/pkg/dispatch"
)

var logger = log.Logger("display")

// Surface is the single output region shared by all console actions. Every
// render replaces the whole text and is written to the underlying writer.
//
// Each dispatch gets a token from Loading. An outcome is shown only if its
// token is still the most recently issued one, so a slow response can never
// overwrite the result of an action started after it. Surface is safe for
// concurrent use.
type Surface struct {
	writer io.Writer
	color  bool

	mutex  sync.Mutex
	latest uint64
	text   string
}

// NewSurface creates a surface writing renders to the given writer.
func NewSurface(writer io.Writer, config *Config) *Surface {
	return &Surface{
		writer: writer,
		color:  config.Color,
	}
}

// Loading issues a new token and shows the loading text.
func (s *Surface) Loading() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.latest++
	s.show(dispatch.LoadingText, false)

	return s.latest
}

// Render shows the outcome if the token is the latest one issued. Outcomes
// of superseded dispatches are dropped.
func (s *Surface) Render(token uint64, outcome dispatch.Outcome) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if token != s.latest {
		logger.Debugf(
			"dropping stale outcome [%v] of dispatch [%d]; latest is [%d]",
			outcome.Kind,
			token,
			s.latest,
		)
		return
	}

	s.show(outcome.Text(), outcome.Failed())
}

// Reject shows an outcome produced without a dispatch, e.g. a local
// validation failure. It supersedes every dispatch still in flight.
func (s *Surface) Reject(outcome dispatch.Outcome) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.latest++
	s.show(outcome.Text(), outcome.Failed())
}

// Text returns what the surface currently shows.
func (s *Surface) Text() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.text
}

// must be called with the mutex held
func (s *Surface) show(text string, failed bool) {
	s.text = text

	if failed && s.color {
		text = color.Red + text + color.Reset
	}

	if _, err := fmt.Fprintln(s.writer, text); err != nil {
		logger.Warningf("could not write to the output: [%v]", err)
	}
}
