package watch

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/miqat/pkg/salah"
)

var jakarta = salah.Location{Latitude: -6.18233995, Longitude: 106.84287154, Timezone: 7}

func jakartaSettings() Settings {
	return Settings{
		Name:        "jakarta",
		Location:    jakarta,
		Calculation: salah.NewConfig().With(salah.Singapore, salah.Shafi),
	}
}

// fakeClock is a settable clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newFridayModel() (Model, *fakeClock) {
	clock := &fakeClock{t: time.Date(2021, 4, 9, 12, 30, 0, 0, jakarta.Zone())}
	return New(jakartaSettings(), clock.now), clock
}

func TestView(t *testing.T) {
	m, _ := newFridayModel()
	view := m.View()

	assert.Contains(t, view, "miqat · jakarta")
	assert.Contains(t, view, "Friday 9 April 2021 · 25 Shaban 1442")
	assert.Contains(t, view, "▶ Jumua")
	assert.Contains(t, view, "Asr in 02:4")
	assert.NotContains(t, view, "Dohr")
}

func TestUpdate_TickRollsOverDay(t *testing.T) {
	m, clock := newFridayModel()

	clock.t = time.Date(2021, 4, 10, 8, 0, 0, 0, jakarta.Zone())
	next, cmd := m.Update(tickMsg(clock.t))
	assert.NotNil(t, cmd, "ticking continues")

	view := next.View()
	assert.Contains(t, view, "Saturday 10 April 2021")
	assert.Contains(t, view, "Dohr in 03:5")
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newFridayModel()

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		assert.Equal(t, tea.QuitMsg{}, cmd(), k.String())
	}
}

func TestUpdate_HelpToggle(t *testing.T) {
	m, _ := newFridayModel()
	assert.NotContains(t, m.View(), "refresh")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Contains(t, next.View(), "refresh")
}

func TestUpdate_ReloadAndError(t *testing.T) {
	m, clock := newFridayModel()
	clock.t = time.Date(2021, 6, 21, 12, 0, 0, 0, time.UTC)

	tromso := Settings{
		Name:        "tromso",
		Location:    salah.Location{Latitude: 69.6492, Longitude: 18.9553, Timezone: 2},
		Calculation: salah.NewConfig(),
	}
	next, cmd := m.Update(ReloadMsg{Settings: tromso})
	assert.Nil(t, cmd)
	view := next.View()
	assert.Contains(t, view, "miqat · tromso")
	assert.Contains(t, view, "Error:")

	// Refresh recovers once the settings are usable again.
	next, _ = next.Update(ReloadMsg{Settings: jakartaSettings()})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.NotContains(t, next.View(), "Error:")
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "00:00:00", formatCountdown(-time.Second))
	assert.Equal(t, "02:42:05", formatCountdown(2*time.Hour+42*time.Minute+5500*time.Millisecond))
	assert.Equal(t, "12:00:00", formatCountdown(12*time.Hour))
}

func TestRun_StopsOnCancel(t *testing.T) {
	// A pending tick command outlives the program until its timer fires.
	defer goleak.VerifyNone(t,
		goleak.IgnoreCurrent(),
		goleak.IgnoreAnyFunction("github.com/charmbracelet/bubbletea.Tick.func1"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan Settings, 1)
	reloads <- jakartaSettings()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, jakartaSettings(), reloads, tea.WithInput(nil), tea.WithOutput(&bytes.Buffer{}))
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("countdown did not stop")
	}
}
