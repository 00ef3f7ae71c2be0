package store

import (
	"os"
	"strconv"
)

// Config holds the connection and verification settings for the record
// store.
type Config struct {
	Endpoint string
	Token    string
	Entity   string

	TimeoutMs int

	// Verification poll budget: attempts at a fixed interval.
	PollAttempts   int
	PollIntervalMs int
}

// DefaultConfig returns a Config with sensible defaults. The endpoint is
// empty by default; the CLI falls back to the local store when no remote
// endpoint is configured.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "",
		Entity:         "Activity_Summary",
		TimeoutMs:      10000,
		PollAttempts:   10,
		PollIntervalMs: 3000,
	}
}

// LoadConfig reads store configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TALLY_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TALLY_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("TALLY_ENTITY"); v != "" {
		cfg.Entity = v
	}
	if v := os.Getenv("TALLY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TALLY_POLL_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollAttempts = n
		}
	}
	if v := os.Getenv("TALLY_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalMs = n
		}
	}

	return cfg
}
