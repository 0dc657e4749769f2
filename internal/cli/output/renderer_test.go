package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		input string
		want  OutputMode
	}{
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"xml", ModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.input))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"explicit json on terminal", ModeJSON, true, ModeJSON},
		{"empty defaults to auto", "", false, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Prayer Times")
	r.KeyValue("Fajr", "04:36")
	r.StatusLine("miqat.yaml", "success", "written")
	r.Warning("no saved locations")

	assert.Equal(t, "# Prayer Times\n\n- **Fajr:** 04:36\n- [success] miqat.yaml: written\n", out.String())
	assert.Equal(t, "Warning: no saved locations\n", errOut.String())
}

func TestRenderer_TextWithoutColor(t *testing.T) {
	// Not a terminal: styles render without escape codes.
	r, out, _ := newTestRenderer(ModeText, false)

	r.Header(2, "Next")
	r.Success("saved")

	assert.Equal(t, "Next\n✓ saved\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(map[string]int{"fajr": 1}))
	assert.JSONEq(t, `{"fajr": 1}`, out.String())

	assert.Error(t, r.JSON(make(chan int)))
}

func TestRenderer_Table(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table([]string{"Day", "Fajr"}, [][]string{{"1", "04:36"}, {"2", "04:37"}})

		got := out.String()
		assert.Contains(t, got, "| Day | Fajr |")
		assert.Contains(t, got, "| 1 | 04:36 |")
		assert.Contains(t, got, "| 2 | 04:37 |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"Day", "Fajr"}, [][]string{{"1", "04:36"}})

		got := out.String()
		assert.Contains(t, got, "┌")
		assert.Contains(t, got, "04:36")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Hijri", FormatHeader(2, "Hijri"))
	assert.Equal(t, "# Hijri", FormatHeader(0, "Hijri"))
	assert.Equal(t, "- **Method:** singapore", FormatKeyValue("Method", "singapore"))
	assert.Equal(t, "01:05", FormatDuration(65*time.Minute+59*time.Second))
	assert.Equal(t, "00:00", FormatDuration(-time.Minute))
	assert.Equal(t, "26:00", FormatDuration(26*time.Hour))
}

func TestModes(t *testing.T) {
	assert.Equal(t, []string{"auto", "text", "markdown", "json"}, Modes())
}
