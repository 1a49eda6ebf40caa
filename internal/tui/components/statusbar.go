package components

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports.
type Status struct {
	User    string
	Entries int
	Flash   string // last action result; cleared after a few seconds
	IsError bool
	Hints   string
}

// RenderStatusBar renders key hints on the left and the user, entry count
// and any flash message on the right.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active
	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	hints := s.Hints
	if hints == "" {
		hints = "[?]help  [a]dd  [r]eload  [q]uit"
	}
	left := base.Render(" " + hints)

	var right string
	if s.Flash != "" {
		color := t.Earned
		if s.IsError {
			color = t.Danger
		}
		right = lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).Render(s.Flash) + dim.Render("  │  ")
	}
	who := s.User
	if who == "" {
		who = "local"
	}
	right += base.Render(who) + dim.Render(" · ") + base.Render(plural(s.Entries, "entry", "entries")+" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Drop the hints before the flash message.
		left = ""
		gap = max(width-lipgloss.Width(right), 0)
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}

func plural(n int, one, many string) string {
	word := many
	if n == 1 {
		word = one
	}
	return strconv.Itoa(n) + " " + word
}
