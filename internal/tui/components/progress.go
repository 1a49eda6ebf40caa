package components

import (
	"fmt"

	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

func clamp01(pct float64) float64 {
	return min(max(pct, 0), 1)
}

func solidBar(pct float64, width int, color lipgloss.Color) string {
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width, 1)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar.ViewAs(clamp01(pct))
}

// ShareBar renders "label  ████░░░  $12.50  42%" for one slice of a total.
// pct is on a 0-100 scale.
func ShareBar(label, amount string, pct float64, color lipgloss.Color, labelW, barW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(labelW).MaxWidth(labelW)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(truncate(label, labelW)) + space +
		solidBar(pct/100, barW, color) + space +
		amountStyle.Render(fmt.Sprintf("%10s", amount)) + space +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct))
}

// StreakMeter shows the current streak against the best one.
func StreakMeter(current, best, width int) string {
	t := theme.Active
	pct := 1.0
	if best > 0 {
		pct = float64(current) / float64(best)
	}
	color := t.Streak
	if current == 0 {
		color = t.TextDim
	}

	caption := fmt.Sprintf(" %d / %d", current, best)
	barW := max(width-lipgloss.Width(caption), 4)
	captionStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	return solidBar(pct, barW, color) + captionStyle.Render(caption)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
