// Package render turns metrics into terminal text.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var toneColors = map[string]lipgloss.Color{
	"yellow": lipgloss.Color("#f9e2af"),
	"green":  lipgloss.Color("#a6e3a1"),
	"red":    lipgloss.Color("#f38ba8"),
}

const (
	colorMuted  = lipgloss.Color("#7f849c")
	colorAccent = lipgloss.Color("#89b4fa")
)

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
	bad    lipgloss.Style
	good   lipgloss.Style
	box    lipgloss.Style
	tone   map[string]lipgloss.Style
}

// newStyles binds styles to w so color is dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	s := styles{
		title:  r.NewStyle().Bold(true).Foreground(colorAccent),
		label:  r.NewStyle().Foreground(colorMuted),
		muted:  r.NewStyle().Foreground(colorMuted),
		accent: r.NewStyle().Foreground(colorAccent).Bold(true),
		bad:    r.NewStyle().Foreground(toneColors["red"]),
		good:   r.NewStyle().Foreground(toneColors["green"]),
		box:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
		tone:   make(map[string]lipgloss.Style, len(toneColors)),
	}
	for name, c := range toneColors {
		s.tone[name] = r.NewStyle().Foreground(c)
	}
	return s
}

func (s styles) toned(tone, text string) string {
	if st, ok := s.tone[tone]; ok {
		return st.Render(text)
	}
	return text
}

// cell truncates text to width display columns and pads it to exactly width.
func cell(text string, width int) string {
	text = ansi.Truncate(text, width, "…")
	if pad := width - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}

// rcell right-aligns text in width columns.
func rcell(text string, width int) string {
	if pad := width - ansi.StringWidth(text); pad > 0 {
		return strings.Repeat(" ", pad) + text
	}
	return text
}
