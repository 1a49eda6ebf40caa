package cmd

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete smart choices by id",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	for _, ref := range args {
		e, err := resolveEntry(sess, ref)
		if err != nil {
			return err
		}
		if err := sess.Delete(cmd.Context(), e.ID); err != nil {
			return describeFailure(err)
		}
		printEntry("Deleted", e)
	}
	return nil
}
