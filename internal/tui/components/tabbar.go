package components

import (
	"strings"

	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one dashboard tab and its shortcut key.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of Key in Name, -1 if absent
}

// Tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Entries", Key: 'e', KeyPos: 0},
	{Name: "Breakdown", Key: 'b', KeyPos: 0},
}

const tabSeparator = " "

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	marker := bracket.Render("[") + key.Render(string(tab.Key)) + bracket.Render("]")
	if tab.KeyPos < 0 || tab.KeyPos >= len(tab.Name) {
		return base.Render(" "+tab.Name) + marker + base.Render(" ")
	}
	return base.Render(" "+tab.Name[:tab.KeyPos]) + marker + base.Render(tab.Name[tab.KeyPos+1:]+" ")
}

// TabVisualWidth is the rendered width of a tab, for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tabs on the left and brand on the right, one line
// wide enough to fill width.
func RenderTabBar(activeIdx, width int, brand string) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(tabSeparator)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	left := strings.Join(parts, sep)

	right := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).Render(brand + " ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))
	return left + fill + right
}

// TabIdxByKey returns the tab bound to key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
