package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/internal/state"
)

// NewLocationCommand creates the location command group.
func NewLocationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"loc"},
		Short:   "Manage saved locations",
		Long: `Save named locations in the state database and select one for any
command with --location NAME (or "location: NAME" in miqat.yaml).`,
		Example: `  # Save a location from the coordinate flags
  miqat location add jakarta --latitude -6.18234 --longitude 106.84287 --timezone 7

  # Save one that always uses the Umm al-Qura method
  miqat location add makkah --latitude 21.4225 --longitude 39.8262 --timezone 3 --method umm-al-qura

  # Use it
  miqat times --location makkah`,
	}

	cmd.AddCommand(newLocationAddCommand())
	cmd.AddCommand(newLocationListCommand())
	cmd.AddCommand(newLocationShowCommand())
	cmd.AddCommand(newLocationRemoveCommand())

	return cmd
}

// LocationAddOptions holds options for the location add command.
type LocationAddOptions struct {
	Force bool
}

func newLocationAddCommand() *cobra.Command {
	opts := &LocationAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save the coordinates given by --latitude, --longitude and --timezone",
		Long: `Save a location under a name. Coordinates come from the global
--latitude, --longitude and --timezone flags (or the configuration).
--method and --madhab are stored as overrides only when given explicitly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocationAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite a location with the same name")

	return cmd
}

func runLocationAdd(cmd *cobra.Command, name string, opts *LocationAddOptions) error {
	cmdCtx, cleanup := NewStoreContext(cmd)
	defer cleanup()

	cfg := cmdCtx.Config
	loc := &state.Location{
		Name:      name,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Timezone:  cfg.Timezone,
	}
	if cmd.Flags().Changed("method") {
		loc.Method = cfg.Method.String()
	}
	if cmd.Flags().Changed("madhab") {
		loc.Madhab = cfg.Madhab.String()
	}

	store, err := cmdCtx.Store()
	if err != nil {
		return err
	}

	err = store.AddLocation(cmd.Context(), loc)
	if errors.Is(err, state.ErrLocationExists) && opts.Force {
		err = store.UpdateLocation(cmd.Context(), loc)
	}
	if errors.Is(err, state.ErrLocationExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("saved location", "name", loc.Name, "path", cfg.StatePath)
	cmdCtx.Renderer.Success(fmt.Sprintf("Saved location %s (%s)", loc.Name, loc.Coordinates()))
	return nil
}

func newLocationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved locations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLocationList(cmd)
		},
	}
}

func runLocationList(cmd *cobra.Command) error {
	cmdCtx, cleanup := NewStoreContext(cmd)
	defer cleanup()

	store, err := cmdCtx.Store()
	if err != nil {
		return err
	}
	locations, err := store.ListLocations(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if locations == nil {
			locations = []*state.Location{}
		}
		return r.JSON(locations)
	}

	if len(locations) == 0 {
		r.Muted("No saved locations. Add one with 'miqat location add <name>'.")
		return nil
	}

	r.Header(1, fmt.Sprintf("Locations (%d total)", len(locations)))
	rows := make([][]string, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, []string{
			loc.Name,
			strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
			loc.Coordinates().Zone().String(),
			orDash(loc.Method),
			orDash(loc.Madhab),
		})
	}
	r.Table([]string{"Name", "Latitude", "Longitude", "Zone", "Method", "Madhab"}, rows)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newLocationShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup := NewStoreContext(cmd)
			defer cleanup()

			store, err := cmdCtx.Store()
			if err != nil {
				return err
			}
			loc, err := store.GetLocation(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(loc)
			}
			r.Header(1, loc.Name)
			r.KeyValue("Coordinates", loc.Coordinates().String())
			r.KeyValue("Method", orDash(loc.Method))
			r.KeyValue("Madhab", orDash(loc.Madhab))
			r.KeyValue("Updated", loc.UpdatedAt.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}
}

func newLocationRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved location",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup := NewStoreContext(cmd)
			defer cleanup()

			store, err := cmdCtx.Store()
			if err != nil {
				return err
			}
			if err := store.DeleteLocation(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Removed location " + args[0])
			return nil
		},
	}
}
