package cmd

import (
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"

	"github.com/spf13/cobra"
)

var addFlags entryFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a smart choice",
	Example: `  savearn add --instead-of "Café latte" --price 5.50 --chose "Office coffee" --paid 0.50
  savearn add -i`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addFlags.register(addCmd)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	in, err := addFlags.apply(cmd, model.EntryInput{Date: today()})
	if err != nil {
		return describeFailure(err)
	}

	// Fall back to the form when the essentials were not given as flags.
	if addFlags.interactive || in.ExpensiveOption == "" || in.ChosenOption == "" || in.ExpensiveAmount.IsZero() {
		if in, err = runEntryForm("New smart choice", in); err != nil {
			return describeFailure(err)
		}
	}

	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	e, err := sess.Add(cmd.Context(), in)
	if e.ID != "" {
		printEntry("Added", e)
	}
	if err != nil {
		return describeFailure(err)
	}

	sum := sess.Summary(time.Now())
	say("  Total %s   streak %s\n", cli.FormatMoney(sum.TotalEarned), cli.FormatStreak(sum.CurrentStreak))
	return nil
}
