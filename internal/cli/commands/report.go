package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/pkg/hijri"
	"github.com/leapstack-labs/miqat/pkg/qiblah"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// ReportOptions holds options for the report command.
type ReportOptions struct {
	Date  string
	Qiyam bool
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"today"},
		Short:   "Print today's prayer times, Hijri date and qiblah",
		Long: `Print the six prayer times of the day, the Hijri date and the qiblah
direction for the configured location as fixed-width lines.

The format does not depend on --output, except that --output json prints
the same values as a JSON object.`,
		Example: `  # Report for the configured location
  miqat report

  # Report for a given day, including the start of the last third of the night
  miqat report --date 2021-04-09 --qiyam`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day to report (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&opts.Qiyam, "qiyam", false, "Also print the start of the last third of the night")

	return cmd
}

type reportJSON struct {
	Fajr    string  `json:"fajr"`
	Sherook string  `json:"sherook"`
	Dohr    string  `json:"dohr"`
	Asr     string  `json:"asr"`
	Maghreb string  `json:"maghreb"`
	Ishaa   string  `json:"ishaa"`
	Qiyam   string  `json:"qiyam,omitempty"`
	Hijri   string  `json:"hijri"`
	Qiblah  string  `json:"qiblah"`
	Bearing float64 `json:"bearing"`
}

func runReport(cmd *cobra.Command, opts *ReportOptions) error {
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
	q := qiblah.New(s.Location)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		resp := reportJSON{
			Fajr:    clockString(times.Fajr),
			Sherook: clockString(times.Sherook),
			Dohr:    clockString(times.Dohr),
			Asr:     clockString(times.Asr),
			Maghreb: clockString(times.Maghreb),
			Ishaa:   clockString(times.Ishaa),
			Hijri:   day.String(),
			Qiblah:  q.Sixty(),
			Bearing: q.Direction(),
		}
		if opts.Qiyam {
			resp.Qiyam = clockString(times.LastThirdOfNight)
		}
		return r.JSON(resp)
	}

	writeReport(r.Writer(), times, day, q, opts.Qiyam)
	return nil
}

// writeReport prints the fixed-width report lines.
func writeReport(w io.Writer, times *salah.Times, day hijri.Date, q qiblah.Qiblah, qiyam bool) {
	line := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%-10s: %s\n", label, value)
	}
	for _, p := range salah.Daily() {
		line(p.String(), clockString(times.Time(p)))
	}
	if qiyam {
		line("Qiyam", clockString(times.LastThirdOfNight))
	}
	line("Hijri", day.String())
	_, _ = fmt.Fprintf(w, "Qiblah direction from the north: %s\n", q.Sixty())
}

func clockString(t time.Time) string {
	return t.Format("15:04")
}
