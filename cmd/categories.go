package cmd

import (
	"fmt"

	"github.com/theirongolddev/savearn/internal/cli"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "Earnings by category",
	RunE:    runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	cats := sess.CategoryStats()
	if len(cats) == 0 {
		fmt.Print(cli.RenderEmpty("No smart choices recorded yet."))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("EARNINGS BY CATEGORY"))
	fmt.Println()

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			c.Icon + " " + c.Label,
			cli.FormatNumber(int64(c.Count)),
			cli.FormatMoney(c.TotalEarned),
			cli.FormatPercent(c.Percentage),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Choices", "Earned", "Share"},
		Rows:    rows,
	}))

	fmt.Println()
	top := cats[0].Percentage
	for _, c := range cats {
		fmt.Println(cli.RenderHorizontalBar(c.Label, c.Percentage, top, 30))
	}
	return nil
}
