package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1   lipgloss.Style
	Header2   lipgloss.Style
	Bold      lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles builds styles bound to w. Colors are dropped when w is not a
// terminal.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:      r.NewStyle().Bold(true),
		Label:     r.NewStyle().Foreground(lipgloss.Color("7")),
		Highlight: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")),
		Info:      r.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
