// Package commands implements the miqat CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/config"
	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/internal/server"
	"github.com/leapstack-labs/miqat/internal/state"
	"github.com/leapstack-labs/miqat/internal/watch"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// now is the clock used by every command. Tests replace it.
var now = time.Now

// Settings is a resolved location with the parameters to calculate for it.
type Settings struct {
	// Name is the saved location name, empty for plain coordinates.
	Name            string
	Location        salah.Location
	Calculation     salah.Config
	HijriCorrection int
}

// Server converts s for the HTTP server.
func (s Settings) Server() server.Settings {
	return server.Settings{
		Location:        s.Location,
		Calculation:     s.Calculation,
		HijriCorrection: s.HijriCorrection,
	}
}

// Watch converts s for the countdown.
func (s Settings) Watch() watch.Settings {
	return watch.Settings{
		Name:            s.Name,
		Location:        s.Location,
		Calculation:     s.Calculation,
		HijriCorrection: s.HijriCorrection,
	}
}

// CommandContext holds resources shared by commands.
type CommandContext struct {
	Config   *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
	Settings Settings

	store *state.SQLiteStore
}

// NewCommandContext builds the context for cmd and resolves the selected
// location. The returned cleanup closes the state store if it was opened.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx, cleanup := newBaseContext(cmd)
	settings, err := cmdCtx.resolve(cmd, cmdCtx.Config)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cmdCtx.Settings = settings
	return cmdCtx, cleanup, nil
}

// NewStoreContext builds the context for commands that manage saved
// locations. The selected location is not resolved, so a stale
// --location does not block removing or re-adding it.
func NewStoreContext(cmd *cobra.Command) (*CommandContext, func()) {
	return newBaseContext(cmd)
}

func newBaseContext(cmd *cobra.Command) (*CommandContext, func()) {
	cfg := getConfig()
	cmdCtx := &CommandContext{
		Config:   cfg,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Logger:   config.GetLogger(cmd.Context()),
	}
	cleanup := func() {
		if cmdCtx.store != nil {
			_ = cmdCtx.store.Close()
		}
	}
	return cmdCtx, cleanup
}

// Store opens the state store on first use.
func (c *CommandContext) Store() (*state.SQLiteStore, error) {
	if c.store != nil {
		return c.store, nil
	}
	store, err := state.OpenMigrated(c.Config.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	c.Logger.Debug("opened state store", "path", c.Config.StatePath)
	c.store = store
	return store, nil
}

func (c *CommandContext) resolve(cmd *cobra.Command, cfg *config.Config) (Settings, error) {
	settings := Settings{
		Location:        cfg.Coordinates(),
		Calculation:     cfg.Calculation(),
		HijriCorrection: cfg.HijriCorrection,
	}
	if cfg.LocationName == "" {
		return settings, nil
	}

	store, err := c.Store()
	if err != nil {
		return Settings{}, err
	}
	loc, err := store.GetLocation(cmd.Context(), cfg.LocationName)
	if err != nil {
		return Settings{}, err
	}
	settings.Name = loc.Name
	settings.Location = loc.Coordinates()
	settings.Calculation = loc.Apply(settings.Calculation)
	c.Logger.Debug("using saved location", "name", loc.Name, "location", settings.Location.String())
	return settings, nil
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs outside the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// parseDate parses a YYYY-MM-DD flag in zone; empty means today.
func parseDate(raw string, zone *time.Location) (time.Time, error) {
	if raw == "" {
		return now().In(zone), nil
	}
	date, err := time.ParseInLocation(time.DateOnly, raw, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return date, nil
}
