package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/pkg/qiblah"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// NewQiblahCommand creates the qiblah command.
func NewQiblahCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "qiblah",
		Short: "Show the direction of and distance to the Kaaba",
		Example: `  # From the configured location
  miqat qiblah

  # From arbitrary coordinates
  miqat qiblah --latitude 51.5074 --longitude -0.1278 --timezone 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQiblah(cmd)
		},
	}
}

type qiblahJSON struct {
	Location  salah.Location `json:"location"`
	Direction float64        `json:"direction"`
	Sixty     string         `json:"sixty"`
	Distance  float64        `json:"distance_km"`
}

func runQiblah(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	loc := cmdCtx.Settings.Location
	q := qiblah.New(loc)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(qiblahJSON{
			Location:  loc,
			Direction: q.Direction(),
			Sixty:     q.Sixty(),
			Distance:  q.Distance(),
		})
	}

	r.KeyValue("From", loc.String())
	r.KeyValue("Direction", fmt.Sprintf("%.2f° (%s)", q.Direction(), q.Sixty()))
	r.KeyValue("Distance", fmt.Sprintf("%.1f km", q.Distance()))
	return nil
}
