package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/pkg/hijri"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// TimetableOptions holds options for the timetable command.
type TimetableOptions struct {
	Month string
}

// NewTimetableCommand creates the timetable command.
func NewTimetableCommand() *cobra.Command {
	opts := &TimetableOptions{}

	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Show the prayer times of every day in a month",
		Example: `  # Current month
  miqat timetable

  # Ramadan 1442
  miqat timetable --month 2021-04

  # As markdown for a notice board
  miqat timetable --month 2021-04 -o markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimetable(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Month, "month", "", "Month to show (YYYY-MM, default current month)")

	return cmd
}

type timetableDayJSON struct {
	*salah.Times
	Prayers []salah.PrayerTime `json:"prayers"`
	Hijri   hijri.Date         `json:"hijri"`
}

func runTimetable(cmd *cobra.Command, opts *TimetableOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := cmdCtx.Settings
	month := now().In(s.Location.Zone())
	if opts.Month != "" {
		month, err = time.Parse("2006-01", opts.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q: expected YYYY-MM", opts.Month)
		}
	}

	days, err := salah.Timetable(s.Location, s.Calculation, month.Year(), month.Month())
	if err != nil {
		return fmt.Errorf("failed to build timetable: %w", err)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		resp := make([]timetableDayJSON, len(days))
		for i, day := range days {
			resp[i] = timetableDayJSON{
				Times:   day,
				Prayers: day.Prayers(),
				Hijri:   hijri.FromGregorian(day.Date, s.HijriCorrection),
			}
		}
		return r.JSON(resp)
	}

	r.Header(1, fmt.Sprintf("Timetable for %s", month.Format("January 2006")))
	r.KeyValue("Coordinates", s.Location.String())
	r.KeyValue("Method", fmt.Sprintf("%s, %s", s.Calculation.Method, s.Calculation.Madhab))
	r.Println("")

	header := []string{"Date", "Hijri"}
	for _, p := range salah.Daily() {
		header = append(header, p.String())
	}
	rows := make([][]string, 0, len(days))
	for _, day := range days {
		row := []string{
			day.Date.Format("Mon 02"),
			hijri.FromGregorian(day.Date, s.HijriCorrection).String(),
		}
		for _, p := range salah.Daily() {
			row = append(row, clockString(day.Time(p)))
		}
		rows = append(rows, row)
	}
	r.Table(header, rows)
	return nil
}
