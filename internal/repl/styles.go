package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorValue = lipgloss.Color("#10B981")
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")
)

type styles struct {
	value lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
}

// newStyles renders for out; plain styles leave text untouched.
func newStyles(out io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		return styles{value: r.NewStyle(), err: r.NewStyle(), muted: r.NewStyle()}
	}
	return styles{
		value: r.NewStyle().Foreground(colorValue),
		err:   r.NewStyle().Foreground(colorError),
		muted: r.NewStyle().Foreground(colorMuted).Italic(true),
	}
}
