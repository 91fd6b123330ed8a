// Package serverconfig resolves pullconfd's environment-variable
// configuration (spec.md §6), in the same explicit
// os.Getenv-plus-default-resolution shape as the teacher's cmd/mount.go
// flag defaulting, generalized from CLI flags to env vars per
// SPEC_FULL.md §1.3.
package serverconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pullconf/pullconf/internal/logging"
)

// Config is pullconfd's fully resolved runtime configuration.
type Config struct {
	ListenOn          string
	TLSCertificate    string
	TLSPrivateKey     string
	ResourceDir       string
	AssetDir          string
	StateDir          string
	WatchResourceDir  bool
	LogFormat         logging.Format
	LogLevel          logging.Level
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
}

// FromEnv resolves Config from the process environment, applying the
// defaults spec.md §6 lists for every optional variable. It returns an
// error if a required variable is missing or a value fails to parse.
func FromEnv() (Config, error) {
	cfg := Config{
		ListenOn:          getenv("PULLCONF_LISTEN_ON", ":8443"),
		TLSCertificate:    os.Getenv("PULLCONF_TLS_CERTIFICATE"),
		TLSPrivateKey:     os.Getenv("PULLCONF_TLS_PRIVATE_KEY"),
		ResourceDir:       getenv("PULLCONF_RESOURCE_DIR", "/etc/pullconf/resources"),
		AssetDir:          getenv("PULLCONF_ASSET_DIR", "/etc/pullconf/assets"),
		StateDir:          getenv("PULLCONF_STATE_DIR", "/var/lib/pullconf"),
		LogFormat:         logging.ParseFormat(os.Getenv("PULLCONF_LOG_FORMAT")),
		LogLevel:          logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	if cfg.TLSCertificate == "" {
		return Config{}, fmt.Errorf("PULLCONF_TLS_CERTIFICATE is required")
	}
	if cfg.TLSPrivateKey == "" {
		return Config{}, fmt.Errorf("PULLCONF_TLS_PRIVATE_KEY is required")
	}

	watch, err := getenvBool("PULLCONF_WATCH_RESOURCE_DIR", false)
	if err != nil {
		return Config{}, err
	}
	cfg.WatchResourceDir = watch

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, v, err)
	}
	return parsed, nil
}
