package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/miqat/internal/cli/output"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// NewNextCommand creates the next command.
func NewNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the current prayer and the time left until the next one",
		Long: `Show which prayer period the current moment falls in, the upcoming
prayer and the time remaining until it begins.`,
		Example: `  # Countdown for the configured location
  miqat next

  # For a saved location, as JSON
  miqat next --location makkah -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNext(cmd)
		},
	}
}

type nextJSON struct {
	Current   string    `json:"current"`
	Next      string    `json:"next"`
	At        time.Time `json:"at"`
	Remaining string    `json:"remaining"`
	Seconds   int64     `json:"seconds"`
}

func runNext(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := cmdCtx.Settings
	at := now()
	times, err := salah.NewSchedule(s.Location).At(at).WithConfig(s.Calculation).Calculate()
	if err != nil {
		return fmt.Errorf("failed to calculate prayer times: %w", err)
	}

	current := times.CurrentAt(at)
	next := times.NextAt(at)
	remaining := times.TimeRemainingAt(at)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(nextJSON{
			Current:   times.Name(current),
			Next:      times.Name(next),
			At:        times.Time(next),
			Remaining: output.FormatDuration(remaining),
			Seconds:   int64(remaining / time.Second),
		})
	}

	r.KeyValue("Current", times.Name(current))
	r.KeyValue("Next", fmt.Sprintf("%s at %s", times.Name(next), clockString(times.Time(next))))
	r.KeyValue("Remaining", output.FormatDuration(remaining))
	return nil
}
