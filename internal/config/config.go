// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the service configuration.
// Environment variables are parsed from the KEEPSAKE_ prefix.
type Config struct {
	// HTTP server address
	Addr string `envconfig:"ADDR" default:":8099"`

	// Data directory holding the SQLite database and uploads
	DataDir string `envconfig:"DATA_DIR" default:"/data"`

	// Directory for uploaded images; defaults to DataDir/uploads
	UploadDir string `envconfig:"UPLOAD_DIR" default:""`

	// Directory for static frontend files
	StaticDir string `envconfig:"STATIC_DIR" default:"./static"`

	// Per-dispatch timeout for outbound notifications, seconds
	NotifyTimeoutSec int `envconfig:"NOTIFY_TIMEOUT_SEC" default:"10"`

	// Cap on concurrent in-flight notification dispatches
	MaxDispatchInFlight int `envconfig:"MAX_DISPATCH_IN_FLIGHT" default:"8"`

	// Local hour for the daily cycle reminder
	ReminderHour int `envconfig:"REMINDER_HOUR" default:"9"`
}

// Load parses the configuration from the environment and derives defaults.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("keepsake", &c); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(c.DataDir, "uploads")
	}
	return c, nil
}

// DBPath returns the SQLite database file path.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "keepsake.db")
}
