package time

import (
	"time"
)

// Duration lets configuration files express durations as strings such as
// "30s" or "1m30s". BurntSushi/toml decodes it through UnmarshalText since it
// has no native support for time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText parses the textual form accepted by time.ParseDuration.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = parsed
	return nil
}

// ToDuration returns the wrapped value as a plain time.Duration.
func (d *Duration) ToDuration() time.Duration {
	return d.Duration
}
