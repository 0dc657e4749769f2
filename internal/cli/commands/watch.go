package commands

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/miqat/internal/cli/config"
	"github.com/leapstack-labs/miqat/internal/notify"
	"github.com/leapstack-labs/miqat/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show a live countdown to the next prayer",
		Long: `Show today's prayer times with the current prayer highlighted and a
countdown to the next one. The view follows edits to the config file.

Keys: r refresh, ? help, q quit.`,
		Example: `  # Countdown for the configured location
  miqat watch

  # For a saved location
  miqat watch --location makkah`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
}

func runWatch(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cleanup()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	eg, egctx := errgroup.WithContext(ctx)

	reloads := make(chan watch.Settings, 1)
	if configPath := config.GetConfigFileUsed(); configPath != "" {
		eg.Go(func() error {
			return notify.WatchFile(egctx, configPath, notify.DefaultDebounce, cmdCtx.Logger, func() {
				settings, err := reloadSettings(cmd, configPath)
				if err != nil {
					cmdCtx.Logger.Error("reload failed", "error", err)
					return
				}
				// Drop a reload the countdown has not picked up yet.
				select {
				case <-reloads:
				default:
				}
				select {
				case reloads <- settings.Watch():
				default:
				}
			})
		})
	}

	eg.Go(func() error {
		defer cancel()
		return watch.Run(egctx, cmdCtx.Settings.Watch(), reloads)
	})

	return eg.Wait()
}
