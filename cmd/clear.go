package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagClearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase every recorded smart choice",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&flagClearYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	n := len(sess.Entries())
	if n == 0 {
		say("  Nothing to clear.\n")
		return nil
	}

	if !flagClearYes {
		ok := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Erase all %d entries for %s?", n, cfg.General.UserID)).
			Description("This cannot be undone. Run `savearn export` first to keep a copy.").
			Affirmative("Erase").
			Negative("Keep").
			Value(&ok).
			Run()
		if err != nil {
			return describeFailure(err)
		}
		if !ok {
			say("  Kept your data.\n")
			return nil
		}
	}

	if err := sess.Clear(cmd.Context()); err != nil {
		return describeFailure(err)
	}
	say("  Erased %d entries.\n", n)
	return nil
}
