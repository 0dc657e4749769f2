package config

import (
	"fmt"

	"github.com/leapstack-labs/miqat/pkg/hijri"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Coordinates().Validate(); err != nil {
		return fmt.Errorf("invalid coordinates: %w\nHint: set latitude, longitude and timezone in miqat.yaml or via --latitude/--longitude/--timezone", err)
	}
	if _, err := c.Method.MarshalText(); err != nil {
		return err
	}
	if _, err := c.Madhab.MarshalText(); err != nil {
		return err
	}
	if c.HijriCorrection < -hijri.MaxCorrection || c.HijriCorrection > hijri.MaxCorrection {
		return fmt.Errorf("hijri_correction %d out of range [-%d, %d]", c.HijriCorrection, hijri.MaxCorrection, hijri.MaxCorrection)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("server.max_connections %d must not be negative (0 disables the limit)", c.Server.MaxConnections)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown output format %q (expected auto, text, markdown or json)", c.OutputFormat)
	}
	return nil
}
