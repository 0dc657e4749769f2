package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/pkg/hijri"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// TimesOptions holds options for the times command.
type TimesOptions struct {
	Date string
}

// NewTimesCommand creates the times command.
func NewTimesCommand() *cobra.Command {
	opts := &TimesOptions{}

	cmd := &cobra.Command{
		Use:   "times",
		Short: "Show all prayer times of a day",
		Long: `Show the prayer times of a day together with the thirds of the night,
the Hijri date and the calculation parameters.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format

Use --output to override: auto, text, markdown, json`,
		Example: `  # Today
  miqat times

  # A given day at a saved location
  miqat times --date 2021-04-09 --location jakarta

  # As JSON
  miqat times -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimes(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day to show (YYYY-MM-DD, default today)")

	return cmd
}

type timesJSON struct {
	*salah.Times
	Name    string             `json:"name,omitempty"`
	Method  string             `json:"method"`
	Madhab  string             `json:"madhab"`
	Prayers []salah.PrayerTime `json:"prayers"`
	Hijri   hijri.Date         `json:"hijri"`
}

var titleCase = cases.Title(language.English)

// label turns "first third of night" into "First Third Of Night".
func label(s string) string {
	return titleCase.String(s)
}

func runTimes(cmd *cobra.Command, opts *TimesOptions) error {
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
	times, err := salah.NewSchedule(s.Location).On(date).WithConfig(s.Calculation).Calculate()
	if err != nil {
		return fmt.Errorf("failed to calculate prayer times: %w", err)
	}
	day := hijri.FromGregorian(date, s.HijriCorrection)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(timesJSON{
			Times:   times,
			Name:    s.Name,
			Method:  s.Calculation.Method.String(),
			Madhab:  s.Calculation.Madhab.String(),
			Prayers: times.Prayers(),
			Hijri:   day,
		})
	}

	r.Header(1, "Prayer times for "+times.Date.Format("Monday 2 January 2006"))
	if s.Name != "" {
		r.KeyValue("Location", s.Name)
	}
	r.KeyValue("Coordinates", s.Location.String())
	r.KeyValue("Method", fmt.Sprintf("%s, %s", s.Calculation.Method, s.Calculation.Madhab))
	r.KeyValue("Hijri", day.String())
	r.Println("")

	rows := make([][]string, 0, 10)
	for _, p := range times.Prayers() {
		rows = append(rows, []string{p.Name, clockString(p.Time)})
	}
	night := []struct {
		name string
		at   time.Time
	}{
		{"first third of night", times.FirstThirdOfNight},
		{"midnight", times.Midnight},
		{"last third of night", times.LastThirdOfNight},
		{"fajr tomorrow", times.FajrTomorrow},
	}
	for _, n := range night {
		rows = append(rows, []string{label(n.name), clockString(n.at)})
	}
	r.Table([]string{"Prayer", "Time"}, rows)
	return nil
}
