package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/tui/components"
	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// monthsCharted caps the monthly chart to the most recent months.
const monthsCharted = 12

func (a App) renderBreakdownTab(cw int) string {
	if len(a.categories) == 0 {
		muted := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Background(theme.Active.Surface)
		return components.ContentCard("Breakdown", muted.Render("No smart choices yet. Press a to record one."), cw)
	}

	var b strings.Builder
	b.WriteString(a.renderCategoriesTable(cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderMonthlyChart(cw))
		b.WriteString("\n")
		b.WriteString(a.renderMonthlyTable(cw))
		return b.String()
	}
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderMonthlyChart(halves[0]),
		a.renderMonthlyTable(halves[1]),
	}))
	return b.String()
}

func (a App) renderCategoriesTable(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	earned := lipgloss.NewStyle().Foreground(t.EarnedBright).Background(t.Surface)

	const countW, moneyW, shareW = 8, 12, 7
	showBar := inner >= 70
	nameW := 22
	barW := 0
	if showBar {
		barW = inner - nameW - countW - moneyW - shareW - 4
	} else {
		nameW = inner - countW - moneyW - shareW - 3
	}

	var body strings.Builder
	body.WriteString(header.Render(fmt.Sprintf("%-*s %*s %*s %*s", nameW, "Category", countW, "Choices", moneyW, "Earned", shareW, "Share")))
	body.WriteString("\n")
	body.WriteString(muted.Render(strings.Repeat("─", inner)))

	total := 0
	for i, c := range a.categories {
		total += c.Count
		name := lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Background(t.Surface).Width(nameW).
			Render(truncStr(c.Icon+" "+c.Label, nameW-1))
		body.WriteString("\n")
		body.WriteString(name)
		body.WriteString(row.Render(fmt.Sprintf(" %*d", countW, c.Count)))
		body.WriteString(earned.Render(fmt.Sprintf(" %*s", moneyW, cli.FormatMoney(c.TotalEarned))))
		body.WriteString(muted.Render(fmt.Sprintf(" %*s", shareW, cli.FormatPercent(c.Percentage))))
		if showBar {
			filled := int(c.Percentage / 100 * float64(barW))
			body.WriteString(muted.Render(" "))
			body.WriteString(lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Background(t.Surface).
				Render(strings.Repeat("█", filled)))
		}
	}

	body.WriteString("\n")
	body.WriteString(muted.Render(strings.Repeat("─", inner)))
	body.WriteString("\n")
	body.WriteString(header.Render(fmt.Sprintf("%-*s %*d %*s", nameW, "Total", countW, total, moneyW, cli.FormatMoney(a.summary.TotalEarned))))

	return components.ContentCard("By category", body.String(), cw)
}

func (a App) recentMonths() []model.MonthlyStats {
	if len(a.months) > monthsCharted {
		return a.months[len(a.months)-monthsCharted:]
	}
	return a.months
}

func (a App) renderMonthlyChart(w int) string {
	months := a.recentMonths()
	values := make([]float64, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		values[i] = m.TotalEarned.InexactFloat64()
		labels[i] = strings.SplitN(m.Label, " ", 2)[0]
	}
	return components.ContentCard("Earned per month",
		components.BarChart(values, labels, theme.Active.Earned, components.CardInnerWidth(w), 8), w)
}

func (a App) renderMonthlyTable(w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	earned := lipgloss.NewStyle().Foreground(t.Earned).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const countW, moneyW = 8, 12
	labelW := max(inner-countW-moneyW-2, 8)

	months := a.recentMonths()
	var body strings.Builder
	body.WriteString(header.Render(fmt.Sprintf("%-*s %*s %*s", labelW, "Month", countW, "Choices", moneyW, "Earned")))
	body.WriteString("\n")
	body.WriteString(muted.Render(strings.Repeat("─", inner)))
	// Newest month on top.
	for i := len(months) - 1; i >= 0; i-- {
		m := months[i]
		body.WriteString("\n")
		body.WriteString(row.Render(fmt.Sprintf("%-*s %*d", labelW, m.Label, countW, m.EntriesCount)))
		body.WriteString(earned.Render(fmt.Sprintf(" %*s", moneyW, cli.FormatMoney(m.TotalEarned))))
	}
	return components.ContentCard("Months", body.String(), w)
}
