package dispatch

import (
	configtime "github.com/keep-network/ledger-console/internal/config/time"
)

// Config contains configuration of the ledger API connection.
type Config struct {
	// Base URL of the ledger API, e.g. http://localhost:5000.
	URL string

	// Client timeout for a single request. Zero leaves completion to the
	// transport.
	Timeout configtime.Duration

	// Upper bound of requests sent per second. Zero disables the limit.
	RequestsPerSecond float64
}
