// Package cli provides the command-line interface for miqat.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/commands"
	"github.com/leapstack-labs/miqat/internal/cli/config"
	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/internal/state"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "miqat",
		Short: "miqat - Prayer times, Hijri dates and qiblah",
		Long: `miqat calculates the five daily prayer times, converts dates to the
Hijri calendar and gives the qiblah direction for any place on earth.

Settings come from miqat.yaml, MIQAT_ environment variables and flags, in
increasing order of precedence. Save places with 'miqat location add' and
select one with --location.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./miqat.yaml)")
	flags.Float64("latitude", config.DefaultLatitude, "Latitude in degrees, north positive")
	flags.Float64("longitude", config.DefaultLongitude, "Longitude in degrees, east positive")
	flags.Float64("timezone", config.DefaultTimezone, "UTC offset in hours")
	flags.String("method", config.DefaultMethod, "Calculation method")
	flags.String("madhab", config.DefaultMadhab, "Madhab for asr (shafi|hanafi)")
	flags.Bool("summer-time", false, "Add one hour of daylight saving time")
	flags.Int("hijri-correction", 0, "Days added to the tabular Hijri date (-3..3)")
	flags.StringP("location", "l", "", "Saved location to use instead of the coordinates")
	flags.String("state", "", "Path to state database")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("method", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, m := range salah.Methods() {
			names = append(names, m.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("madhab", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{salah.Shafi.String(), salah.Hanafi.String()}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("location", completeLocations)

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewTimesCommand())
	rootCmd.AddCommand(commands.NewNextCommand())
	rootCmd.AddCommand(commands.NewTimetableCommand())
	rootCmd.AddCommand(commands.NewHijriCommand())
	rootCmd.AddCommand(commands.NewQiblahCommand())
	rootCmd.AddCommand(commands.NewSunCommand())
	rootCmd.AddCommand(commands.NewLocationCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger returns a text logger on the command's error output.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// completeLocations lists saved location names. Completion runs without
// PersistentPreRunE, so the configuration is loaded here.
func completeLocations(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := state.OpenMigrated(cfg.StatePath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = store.Close() }()

	locations, err := store.ListLocations(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, loc := range locations {
		if strings.HasPrefix(loc.Name, toComplete) {
			names = append(names, loc.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands such as
// serve and watch use to stop.
func ExecuteContext(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for miqat.

To load completions:

Bash:
  $ source <(miqat completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ miqat completion bash > /etc/bash_completion.d/miqat
  # macOS:
  $ miqat completion bash > $(brew --prefix)/etc/bash_completion.d/miqat

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ miqat completion zsh > "${fpath[1]}/_miqat"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ miqat completion fish | source

  # To load completions for each session, execute once:
  $ miqat completion fish > ~/.config/fish/completions/miqat.fish

PowerShell:
  PS> miqat completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> miqat completion powershell > miqat.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
