package config

import (
	"fmt"
	"net/url"

	"github.com/BurntSushi/toml"

	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

const defaultLogLevel = "info"

// Config is the top level config structure.
type Config struct {
	API     dispatch.Config
	Display display.Config
	Log     Log
}

// Log contains logging configuration.
type Log struct {
	// Level spec for the loggers: a single level such as info or debug, or
	// per-logger entries such as "info dispatch=debug".
	Level string
}

// ReadConfig reads in the configuration file in .toml format.
func ReadConfig(filePath string) (*Config, error) {
	config := &Config{}
	if _, err := toml.DecodeFile(filePath, config); err != nil {
		return nil, fmt.Errorf("unable to decode .toml file [%s] error [%s]", filePath, err)
	}

	if config.Log.Level == "" {
		config.Log.Level = defaultLogLevel
	}

	return config, nil
}

// Validate checks the configuration is complete enough to reach the ledger
// API.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("missing value for API.URL; provide it in the config file or with --api-url")
	}

	apiURL, err := url.Parse(c.API.URL)
	if err != nil {
		return fmt.Errorf("invalid API.URL [%s]: [%v]", c.API.URL, err)
	}
	if apiURL.Scheme != "http" && apiURL.Scheme != "https" {
		return fmt.Errorf(
			"invalid API.URL [%s]: scheme must be http or https",
			c.API.URL,
		)
	}

	if c.API.Timeout.ToDuration() < 0 {
		return fmt.Errorf("API.Timeout must not be negative")
	}

	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("API.RequestsPerSecond must not be negative")
	}

	return nil
}
