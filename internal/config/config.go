// Package config loads runtime settings for the Puntos CLI. Values are
// layered: built-in defaults, then an optional JSON file (-c/-config),
// then command-line flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the tracker.
//
// ClearHistoryPassword may be a plain string or a bcrypt hash (a value
// starting with "$2"); the auth check handles both. Keeping it here instead
// of in the code is deliberate: secrets do not belong in logic.
type Config struct {
	DatabasePath         string
	DefaultUser          string
	ClearHistoryPassword string
	HistoryLimit         int

	SyncEnabled   bool
	SyncKey       string
	PushTimeout   time.Duration
	PushInterval  time.Duration
	WatchInterval time.Duration

	S3Region       string
	S3Bucket       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "puntos.db"
	c.DefaultUser = "Manu"
	c.ClearHistoryPassword = "ManuPuntos2025"
	c.HistoryLimit = 10

	c.SyncEnabled = false
	c.SyncKey = "manupuntos"
	c.PushTimeout = 3 * time.Second
	c.PushInterval = 5 * time.Second
	c.WatchInterval = 2 * time.Second

	c.S3Region = "us-east-1"
	c.S3Bucket = "puntos"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
