package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/config"
	"github.com/leapstack-labs/miqat/internal/server"
	"github.com/leapstack-labs/miqat/internal/state"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: `Start a JSON API for the configured location.

Endpoints:
  GET /healthz
  GET /api/times?date=YYYY-MM-DD&location=NAME
  GET /api/timetable?month=YYYY-MM&location=NAME
  GET /api/next?location=NAME
  GET /api/hijri?date=YYYY-MM-DD&correction=N
  GET /api/qiblah?location=NAME
  GET /api/locations, /api/locations/{name}
  GET /api/events  (server-sent countdown updates)

With --watch, edits to the config file are applied without a restart.
--addr, --watch and --max-connections override the server section of
miqat.yaml.`,
		Example: `  # Serve on the default address
  miqat serve

  # Serve on localhost only and reload on config changes
  miqat serve --addr 127.0.0.1:9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "Address to listen on")
	cmd.Flags().Bool("watch", false, "Reload settings when the config file changes")
	cmd.Flags().Int("max-connections", config.DefaultMaxConnections, "Maximum simultaneous connections (0 for no limit)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Config
	store, err := cmdCtx.Store()
	if err != nil {
		return err
	}

	configPath := config.GetConfigFileUsed()
	if cfg.Server.Watch && configPath == "" {
		cmdCtx.Renderer.Warning("--watch has no effect without a config file")
	}

	srv := server.New(serverConfig(cmd, cmdCtx, store, configPath))

	cmdCtx.Renderer.Printf("Serving %s on %s\n", cmdCtx.Settings.Location, cfg.Server.Addr)
	cmdCtx.Renderer.Muted("Press Ctrl+C to stop")

	return srv.Serve(cmd.Context())
}

// serverConfig builds the server configuration from the loaded settings.
func serverConfig(cmd *cobra.Command, cmdCtx *CommandContext, store state.Store, configPath string) server.Config {
	cfg := cmdCtx.Config
	return server.Config{
		Addr:            cfg.Server.Addr,
		Settings:        cmdCtx.Settings.Server(),
		Store:           store,
		Logger:          cmdCtx.Logger,
		Watch:           cfg.Server.Watch,
		ConfigPath:      configPath,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxConnections:  cfg.Server.MaxConnections,
		Reload: func() (server.Settings, error) {
			settings, err := reloadSettings(cmd, configPath)
			if err != nil {
				return server.Settings{}, err
			}
			return settings.Server(), nil
		},
	}
}

// reloadSettings re-reads the configuration and resolves the location again.
func reloadSettings(cmd *cobra.Command, configPath string) (Settings, error) {
	if _, err := config.LoadConfig(configPath, cmd.Flags()); err != nil {
		return Settings{}, err
	}
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return Settings{}, err
	}
	defer cleanup()
	return cmdCtx.Settings, nil
}
