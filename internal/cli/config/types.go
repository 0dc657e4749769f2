// Package config provides configuration management for the miqat CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/miqat/pkg/salah"
)

// ServerConfig holds configuration for the HTTP API server.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	Watch           bool          `koanf:"watch"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxConnections  int           `koanf:"max_connections"`
}

// Config holds all CLI configuration options.
type Config struct {
	Latitude        float64      `koanf:"latitude"`
	Longitude       float64      `koanf:"longitude"`
	Timezone        float64      `koanf:"timezone"`
	Method          salah.Method `koanf:"method"`
	Madhab          salah.Madhab `koanf:"madhab"`
	SummerTime      bool         `koanf:"summer_time"`
	HijriCorrection int          `koanf:"hijri_correction"`
	// LocationName selects a saved location that replaces the coordinates.
	LocationName string       `koanf:"location"`
	StatePath    string       `koanf:"state_path"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	Server       ServerConfig `koanf:"server"`
}

// Default configuration values.
const (
	DefaultLatitude        = 6.10
	DefaultLongitude       = 106.49
	DefaultTimezone        = 7.0
	DefaultMethod          = "singapore"
	DefaultMadhab          = "shafi"
	DefaultStateFile       = ".miqat/state.db"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxConnections  = 256
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Latitude:     DefaultLatitude,
		Longitude:    DefaultLongitude,
		Timezone:     DefaultTimezone,
		Method:       salah.Singapore,
		Madhab:       salah.Shafi,
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxConnections:  DefaultMaxConnections,
		},
	}
}

// Coordinates returns the configured coordinates as a calculation location.
func (c *Config) Coordinates() salah.Location {
	return salah.Location{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Timezone:  c.Timezone,
	}
}

// Calculation returns the prayer calculation parameters.
func (c *Config) Calculation() salah.Config {
	return salah.NewConfig().
		With(c.Method, c.Madhab).
		WithSummerTime(c.SummerTime)
}
