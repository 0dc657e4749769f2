package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/pkg/hijri"
)

// HijriOptions holds options for the hijri command.
type HijriOptions struct {
	Date string
}

// NewHijriCommand creates the hijri command and its to-gregorian subcommand.
func NewHijriCommand() *cobra.Command {
	opts := &HijriOptions{}

	cmd := &cobra.Command{
		Use:   "hijri",
		Short: "Convert a Gregorian day to the Hijri calendar",
		Long: `Show the Hijri date of a Gregorian day using the tabular calendar.

--hijri-correction shifts the result by whole days to follow the local
moon sighting.`,
		Example: `  # Today
  miqat hijri

  # A given day, one day ahead of the tabular calendar
  miqat hijri --date 2021-04-09 --hijri-correction 1

  # Back to the Gregorian calendar
  miqat hijri to-gregorian 1442-09-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHijri(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Gregorian day (YYYY-MM-DD, default today)")
	cmd.AddCommand(newToGregorianCommand())

	return cmd
}

type hijriJSON struct {
	Gregorian string     `json:"gregorian"`
	Hijri     hijri.Date `json:"hijri"`
	Ramadan   bool       `json:"ramadan"`
}

func runHijri(cmd *cobra.Command, opts *HijriOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := cmdCtx.Settings
	date, err := parseDate(opts.Date, s.Location.Zone())
	if err != nil {
		return err
	}
	day := hijri.FromGregorian(date, s.HijriCorrection)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(hijriJSON{
			Gregorian: date.Format("2006-01-02"),
			Hijri:     day,
			Ramadan:   day.IsRamadan(),
		})
	}

	r.KeyValue("Gregorian", date.Format("Monday 2 January 2006"))
	r.KeyValue("Hijri", day.String())
	r.KeyValue("Arabic", fmt.Sprintf("%d %s %d", day.Day, day.MonthArabic(), day.Year))
	r.KeyValue("ISO", day.ISO())
	if day.IsRamadan() {
		r.Success("Ramadan")
	}
	return nil
}

func newToGregorianCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-gregorian <YYYY-MM-DD>",
		Short: "Convert a Hijri date to the Gregorian calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := hijri.Parse(args[0])
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			greg := day.Gregorian()
			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(hijriJSON{
					Gregorian: greg.Format("2006-01-02"),
					Hijri:     day,
					Ramadan:   day.IsRamadan(),
				})
			}
			r.KeyValue("Hijri", day.String())
			r.KeyValue("Gregorian", greg.Format("Monday 2 January 2006"))
			return nil
		},
	}
}
