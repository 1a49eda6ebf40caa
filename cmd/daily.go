package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagDailyDays int

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Earnings per day",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDailyDays, "days", "n", 0, "Days to show (default from config)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	n := flagDailyDays
	if n <= 0 {
		n = cfg.General.DefaultDays
	}
	days := pipeline.FillDays(sess.DailyStats(), time.Now(), n)

	peak := decimal.Zero
	total := decimal.Zero
	count := 0
	for _, d := range days {
		peak = decimal.Max(peak, d.TotalEarned)
		total = total.Add(d.TotalEarned)
		count += d.EntriesCount
	}
	if count == 0 {
		fmt.Print(cli.RenderEmpty(fmt.Sprintf("No smart choices in the last %d days.", n)))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY EARNINGS  Last %dd", n)))
	fmt.Println()

	rows := make([][]string, 0, len(days)+2)
	for _, d := range days {
		rows = append(rows, []string{
			d.Date,
			cli.FormatWeekday(d.Date),
			cli.FormatNumber(int64(d.EntriesCount)),
			cli.FormatMoney(d.TotalEarned),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		"Total", "", cli.FormatNumber(int64(count)), cli.FormatMoney(total),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Choices", "Earned"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Best day %s   %s\n", cli.FormatMoney(peak), cli.RenderSparkline(dailyValues(days)))
	return nil
}
