package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/pipeline"
	"github.com/theirongolddev/savearn/internal/tui/components"
	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	overviewRecent     = 5
	overviewCategories = 5
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary
	compact := a.isCompactLayout()
	var b strings.Builder

	streakNote := "best " + cli.FormatStreak(sum.BestStreak)
	if sum.CurrentStreak > 0 && sum.CurrentStreak == sum.BestStreak {
		streakNote = "personal best"
	}
	metrics := []components.Metric{
		{Label: "Total earned", Value: cli.FormatMoney(sum.TotalEarned), Color: t.EarnedBright,
			Note: fmt.Sprintf("avg %s per choice", cli.FormatMoney(sum.AverageEarned))},
		{Label: "Today", Value: cli.FormatMoney(sum.TodayEarned), Color: t.Earned},
		{Label: "This month", Value: cli.FormatMoney(sum.MonthEarned), Color: t.Earned},
		{Label: "Streak", Value: cli.FormatStreak(sum.CurrentStreak), Color: t.Streak, Note: streakNote},
		{Label: "Smart choices", Value: cli.FormatNumber(int64(sum.TotalEntries)),
			Note: fmt.Sprintf("on %d days", sum.ActiveDays)},
	}
	if compact {
		// Today folds into the month card on narrow screens.
		metrics[2].Note = "today " + cli.FormatMoney(sum.TodayEarned)
		metrics = append(metrics[:1], metrics[2:]...)
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	chartW, catsW := cw*3/5, cw-cw*3/5
	if compact {
		chartW, catsW = cw, cw
	}

	values := make([]float64, len(a.daily))
	for i, d := range a.daily {
		values[i] = d.TotalEarned.InexactFloat64()
	}
	chart := components.ContentCard(
		fmt.Sprintf("Earned per day (%dd)", len(a.daily)),
		components.BarChart(values, chartDateLabels(a.daily), t.Earned, components.CardInnerWidth(chartW), 8),
		chartW,
	)
	cats := components.ContentCard("Top categories", a.renderCategoryBars(components.CardInnerWidth(catsW), overviewCategories), catsW)

	if compact {
		b.WriteString(chart)
		b.WriteString("\n")
		b.WriteString(cats)
	} else {
		b.WriteString(components.CardRow([]string{chart, cats}))
	}
	b.WriteString("\n")

	streak := components.ContentCard("Streak vs best",
		components.StreakMeter(sum.CurrentStreak, sum.BestStreak, components.CardInnerWidth(cw)), cw)
	b.WriteString(streak)
	b.WriteString("\n")

	b.WriteString(a.renderRecent(cw))
	return b.String()
}

// renderCategoryBars draws up to limit category share bars.
func (a App) renderCategoryBars(w, limit int) string {
	t := theme.Active
	if len(a.categories) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Nothing recorded yet")
	}
	const labelW, fixed = 14, 14+1+1+10+1+6
	barW := max(w-fixed, 6)

	rows := make([]string, 0, limit)
	for i, c := range a.categories {
		if limit > 0 && i == limit {
			break
		}
		rows = append(rows, components.ShareBar(c.Icon+" "+c.Label, cli.FormatMoney(c.TotalEarned),
			c.Percentage, t.SeriesColor(i), labelW, barW))
	}
	return strings.Join(rows, "\n")
}

func (a App) renderRecent(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	recent := pipeline.RecentEntries(a.entries, overviewRecent)
	if len(recent) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Recent", muted.Render("No smart choices yet. Press a to record one."), cw)
	}

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	earned := lipgloss.NewStyle().Foreground(t.Earned).Background(t.Surface).Bold(true)

	const dateW, moneyW = 10, 11
	descW := max(inner-dateW-moneyW-2, 10)

	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		desc := fmt.Sprintf("%s over %s", e.ChosenOption, e.ExpensiveOption)
		lines = append(lines,
			dim.Render(fmt.Sprintf("%-*s ", dateW, e.Date))+
				text.Render(fmt.Sprintf("%-*s ", descW, truncStr(desc, descW)))+
				earned.Render(fmt.Sprintf("%*s", moneyW, "+"+cli.FormatMoney(e.Earned))))
	}
	return components.ContentCard("Recent", strings.Join(lines, "\n"), cw)
}
