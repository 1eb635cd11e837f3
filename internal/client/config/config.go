package config

import "time"

// Config holds runtime settings for the cartsync CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP endpoint.
//   - DatabasePath: location of the local sqlite database.
//   - SyncDebounce: how long the sync engine waits after the last cart
//     change before pushing a batch.
//   - SessionRenewalInterval: period of the background session refresh.
//   - RefreshCooldown: minimum spacing between on-demand session refreshes.
type Config struct {
	ServerEndpointAddr     string
	DatabasePath           string
	SyncDebounce           time.Duration
	SessionRenewalInterval time.Duration
	RefreshCooldown        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "cartsync.db"
	c.SyncDebounce = 500 * time.Millisecond
	c.SessionRenewalInterval = 25 * time.Minute
	c.RefreshCooldown = 2 * time.Second
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
