package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Grana CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST endpoint.
//   - DataDir: directory holding the encrypted local store and key material.
//   - OnlineCheckInterval: how often the client probes server reachability.
//
// Units: OnlineCheckInterval is a time.Duration (e.g., 3*time.Second).
type Config struct {
	ServerBaseURL       string
	DataDir             string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DataDir = defaultDataDir()
	c.OnlineCheckInterval = 3 * time.Second
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".grana")
	}
	return ".grana"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
