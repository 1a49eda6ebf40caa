package cmd

import (
	"fmt"

	"github.com/theirongolddev/savearn/internal/cli"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Earnings by month",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	months := sess.MonthlyStats()
	if len(months) == 0 {
		fmt.Print(cli.RenderEmpty("No smart choices recorded yet."))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONTHLY EARNINGS"))
	fmt.Println()

	var peak float64
	for _, m := range months {
		peak = max(peak, m.TotalEarned.InexactFloat64())
	}

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			m.Label,
			cli.FormatNumber(int64(m.EntriesCount)),
			cli.FormatMoney(m.TotalEarned),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Choices", "Earned"},
		Rows:    rows,
	}))

	fmt.Println()
	for _, m := range months {
		fmt.Println(cli.RenderHorizontalBar(m.Label, m.TotalEarned.InexactFloat64(), peak, 30))
	}
	return nil
}
