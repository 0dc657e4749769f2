// Package watch is a terminal countdown to the next prayer.
package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/miqat/pkg/hijri"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// Settings is what the countdown is calculated from.
type Settings struct {
	Name            string
	Location        salah.Location
	Calculation     salah.Config
	HijriCorrection int
}

// ReloadMsg replaces the settings of a running model.
type ReloadMsg struct {
	Settings Settings
}

type tickMsg time.Time

// KeyMap defines the key bindings.
type KeyMap struct {
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Help, k.Quit}}
}

type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	current lipgloss.Style
	next    lipgloss.Style
	err     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		current: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		next:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Model is the bubbletea model of the countdown.
type Model struct {
	settings Settings
	now      func() time.Time
	clock    time.Time
	times    *salah.Times
	err      error

	keys   KeyMap
	help   help.Model
	styles styles
}

// New creates a countdown model. A nil now uses time.Now.
func New(settings Settings, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		settings: settings,
		now:      now,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   defaultStyles(),
	}
	m.recalculate()
	return m
}

// recalculate refreshes the clock and, when the day rolled over or the
// settings changed, the times.
func (m *Model) recalculate() {
	m.clock = m.now()
	m.times, m.err = salah.NewSchedule(m.settings.Location).
		At(m.clock).
		WithConfig(m.settings.Calculation).
		Calculate()
}

func (m *Model) stale() bool {
	if m.times == nil {
		return true
	}
	y, mo, d := m.clock.In(m.settings.Location.Zone()).Date()
	ty, tmo, td := m.times.Date.Date()
	return y != ty || mo != tmo || d != td
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.clock = m.now()
		if m.stale() && m.err == nil {
			m.recalculate()
		}
		return m, tick()

	case ReloadMsg:
		m.settings = msg.Settings
		m.recalculate()
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.recalculate()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// View renders the countdown.
func (m Model) View() string {
	var sb strings.Builder

	title := "miqat"
	if m.settings.Name != "" {
		title += " · " + m.settings.Name
	}
	sb.WriteString(m.styles.title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.styles.muted.Render(m.settings.Location.String()))
	sb.WriteString("\n\n")

	if m.err != nil {
		sb.WriteString(m.styles.err.Render("Error: " + m.err.Error()))
		sb.WriteString("\n\n")
		sb.WriteString(m.help.View(m.keys))
		return sb.String()
	}

	day := hijri.FromGregorian(m.times.Date, m.settings.HijriCorrection)
	fmt.Fprintf(&sb, "%s · %s\n\n", m.times.Date.Format("Monday 2 January 2006"), day.String())

	current := m.times.CurrentAt(m.clock)
	next := m.times.NextAt(m.clock)
	for _, p := range m.times.Prayers() {
		line := fmt.Sprintf("  %-8s %s", p.Name, p.Time.Format("15:04"))
		switch {
		case p.Prayer == current:
			line = m.styles.current.Render("▶" + line[1:])
		case p.Prayer == next:
			line = m.styles.next.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	remaining := m.times.TimeRemainingAt(m.clock)
	fmt.Fprintf(&sb, "\n%s in %s\n\n", m.times.Name(next), formatCountdown(remaining))
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// formatCountdown formats d as HH:MM:SS.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Truncate(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
