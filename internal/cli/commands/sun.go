package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
)

// SunOptions holds options for the sun command.
type SunOptions struct {
	Date string
}

// NewSunCommand creates the sun command.
func NewSunCommand() *cobra.Command {
	opts := &SunOptions{}

	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Show sunrise, sunset and the current position of the sun",
		Long: `Show sunrise, solar noon and sunset from an independent solar model,
and the sun's azimuth and altitude right now. Useful to cross-check the
sherook and maghreb times.`,
		Example: `  # Today
  miqat sun

  # Sunrise and sunset of a given day
  miqat sun --date 2021-06-21`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSun(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day for sunrise and sunset (YYYY-MM-DD, default today)")

	return cmd
}

type sunJSON struct {
	Sunrise   *time.Time `json:"sunrise"`
	SolarNoon *time.Time `json:"solar_noon"`
	Sunset    *time.Time `json:"sunset"`
	DayLength string     `json:"day_length"`
	At        time.Time  `json:"at"`
	Azimuth   float64    `json:"azimuth"`
	Altitude  float64    `json:"altitude"`
}

// sunDay holds the sunrise and sunset of one day. Both are nil when the
// sun does not rise or does not set.
type sunDay struct {
	rise, noon, set *time.Time
}

func computeSunDay(lat, lon float64, date time.Time, zone *time.Location) sunDay {
	rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return sunDay{}
	}
	rise, set = rise.In(zone), set.In(zone)
	noon := rise.Add(set.Sub(rise) / 2)
	return sunDay{rise: &rise, noon: &noon, set: &set}
}

// sunPosition returns the compass azimuth (degrees clockwise from north)
// and the altitude in degrees.
func sunPosition(at time.Time, lat, lon float64) (azimuth, altitude float64) {
	pos := suncalc.GetPosition(at, lat, lon)
	// suncalc measures azimuth from south, turning west.
	azimuth = math.Mod(pos.Azimuth*180/math.Pi+180, 360)
	if azimuth < 0 {
		azimuth += 360
	}
	return azimuth, pos.Altitude * 180 / math.Pi
}

func runSun(cmd *cobra.Command, opts *SunOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	loc := cmdCtx.Settings.Location
	zone := loc.Zone()
	date, err := parseDate(opts.Date, zone)
	if err != nil {
		return err
	}

	day := computeSunDay(loc.Latitude, loc.Longitude, date, zone)
	at := now().In(zone)
	azimuth, altitude := sunPosition(at, loc.Latitude, loc.Longitude)

	dayLength := "-"
	if day.rise != nil {
		dayLength = output.FormatDuration(day.set.Sub(*day.rise))
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(sunJSON{
			Sunrise:   day.rise,
			SolarNoon: day.noon,
			Sunset:    day.set,
			DayLength: dayLength,
			At:        at,
			Azimuth:   azimuth,
			Altitude:  altitude,
		})
	}

	r.Header(1, "Sun on "+date.Format("Monday 2 January 2006"))
	if day.rise == nil {
		r.Warning("the sun does not rise or set on this day")
	} else {
		r.KeyValue("Sunrise", clockString(*day.rise))
		r.KeyValue("Solar noon", clockString(*day.noon))
		r.KeyValue("Sunset", clockString(*day.set))
		r.KeyValue("Day length", dayLength)
	}
	r.KeyValue("Position at "+clockString(at), fmt.Sprintf("azimuth %.1f°, altitude %.1f°", azimuth, altitude))
	return nil
}
