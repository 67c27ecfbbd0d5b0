package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// stylesheet holds the fixed styles of the run views. The TUI has no
// theming knobs, so the palette is assembled once at package init.
type stylesheet struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = stylesheet{
	title: fg("#5A56E0").Bold(true).MarginBottom(1),
	ok:    fg("#2EC27E").Bold(true),
	err:   fg("#E01B24").Bold(true),
	warn:  fg("#E5A50A"),
	help:  fg("#77767B").Italic(true),
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}
