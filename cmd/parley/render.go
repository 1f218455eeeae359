package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	partnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			Bold(true)
)

func wrap(s string) string {
	return wordwrap.String(s, wrapWidth)
}
