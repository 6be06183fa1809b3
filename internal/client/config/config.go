package config

import "time"

// Config holds runtime settings for the payscan CLI.
//
// Units: RequestTimeout, SearchDebounce and NotificationTTL are
// time.Duration values.
type Config struct {
	ServerAddr      string
	RequestTimeout  time.Duration
	SearchDebounce  time.Duration
	NotificationTTL time.Duration
	SessionDB       string
	DownloadDir     string
	LogLevel        string
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:8002"
	c.RequestTimeout = 30 * time.Second
	c.SearchDebounce = 400 * time.Millisecond
	c.NotificationTTL = 3500 * time.Millisecond
	c.SessionDB = "session.db"
	c.DownloadDir = "download"
	c.LogLevel = "info"
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
