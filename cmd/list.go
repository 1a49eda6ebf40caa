package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagListSince    string
	flagListUntil    string
	flagListCategory string
	flagListLimit    int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List smart choices, newest first",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListSince, "since", "", "Only entries on or after this date (yyyy-mm-dd)")
	listCmd.Flags().StringVar(&flagListUntil, "until", "", "Only entries on or before this date (yyyy-mm-dd)")
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only entries in this category")
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "l", 0, "Show at most this many entries")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	for _, d := range []string{flagListSince, flagListUntil} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q: want yyyy-mm-dd", d)
		}
	}

	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	entries := pipeline.FilterByDateRange(sess.Entries(), flagListSince, flagListUntil)
	entries = pipeline.FilterByCategory(entries, flagListCategory)
	if len(entries) == 0 {
		fmt.Print(cli.RenderEmpty("No matching smart choices."))
		return nil
	}

	limit := -1
	if flagListLimit > 0 {
		limit = flagListLimit
	}
	shown := pipeline.RecentEntries(entries, limit)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Category", "Chose", "Earned"},
		Rows:    entryRows(shown, true),
	}))
	fmt.Printf("\n  %d of %d shown, %s earned in total\n",
		len(shown), len(entries), cli.FormatMoney(pipeline.TotalEarned(entries)))
	return nil
}
