// Package agentconfig resolves pullconf-agent's environment-variable
// configuration, mirroring internal/serverconfig's shape for the
// client side of spec.md §6.
package agentconfig

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/pullconf/pullconf/internal/logging"
)

// Config is pullconf-agent's fully resolved runtime configuration.
type Config struct {
	ServerURL string
	Hostname  string
	APIKey    string
	ServerCA  string
	Interval  time.Duration
	LogFormat logging.Format
	LogLevel  logging.Level
}

// FromEnv resolves Config from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		ServerURL: os.Getenv("PULLCONF_SERVER_URL"),
		Hostname:  os.Getenv("PULLCONF_HOSTNAME"),
		APIKey:    os.Getenv("PULLCONF_API_KEY"),
		ServerCA:  os.Getenv("PULLCONF_SERVER_CA"),
		LogFormat: logging.ParseFormat(os.Getenv("PULLCONF_LOG_FORMAT")),
		LogLevel:  logging.ParseLevel(os.Getenv("LOG_LEVEL")),
	}

	if cfg.ServerURL == "" {
		return Config{}, fmt.Errorf("PULLCONF_SERVER_URL is required")
	}
	if cfg.Hostname == "" {
		host, err := os.Hostname()
		if err != nil {
			return Config{}, fmt.Errorf("PULLCONF_HOSTNAME not set and os.Hostname failed: %w", err)
		}
		cfg.Hostname = host
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("PULLCONF_API_KEY is required")
	}

	interval := 30 * time.Minute
	if v := os.Getenv("PULLCONF_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PULLCONF_INTERVAL: invalid integer seconds %q: %w", v, err)
		}
		interval = time.Duration(secs) * time.Second
	}
	cfg.Interval = interval

	return cfg, nil
}

// Jittered returns d with up to ±10% random jitter applied
// (SPEC_FULL.md §5, "convergence cycles firing in lockstep across a
// fleet is a real operational hazard").
func Jittered(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := float64(d) * 0.10
	offset := (rand.Float64()*2 - 1) * spread
	return d + time.Duration(offset)
}
