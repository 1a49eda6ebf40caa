package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals, streaks and recent smart choices",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	now := time.Now()
	sum := sess.Summary(now)
	if sum.TotalEntries == 0 {
		fmt.Print(cli.RenderEmpty("No smart choices recorded yet."))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SAVEARN  %s", cfg.General.UserID)))
	fmt.Println()

	rows := [][]string{
		{"Total Earned", cli.FormatMoney(sum.TotalEarned)},
		{"Smart Choices", cli.FormatNumber(int64(sum.TotalEntries))},
		{"Avg per Choice", cli.FormatMoney(sum.AverageEarned)},
		{"---"},
		{"Today", cli.FormatMoney(sum.TodayEarned)},
		{"This Month", cli.FormatMoney(sum.MonthEarned)},
		{"Active Days", cli.FormatNumber(int64(sum.ActiveDays))},
		{"---"},
		{"Current Streak", cli.FormatStreak(sum.CurrentStreak)},
		{"Best Streak", cli.FormatStreak(sum.BestStreak)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	days := pipeline.FillDays(sess.DailyStats(), now, chartDays)
	fmt.Printf("\n  Last %d days  %s\n\n", chartDays, cli.RenderSparkline(dailyValues(days)))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent",
		Headers: []string{"Date", "Category", "Chose", "Earned"},
		Rows:    entryRows(pipeline.RecentEntries(sess.Entries(), recentCount), false),
	}))
	return nil
}

const (
	chartDays   = 14
	recentCount = 5
)

func dailyValues(days []model.DailyStats) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.TotalEarned.InexactFloat64()
	}
	return out
}

// entryRows renders entries as table rows, optionally led by a short id.
func entryRows(entries []model.SavingEntry, withID bool) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{
			e.Date,
			cli.FormatCategory(e.Category),
			fmt.Sprintf("%s over %s", cli.Truncate(e.ChosenOption, 20), cli.Truncate(e.ExpensiveOption, 20)),
			cli.FormatMoney(e.Earned),
		}
		if withID {
			row = append([]string{shortID(e.ID)}, row...)
		}
		rows = append(rows, row)
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
