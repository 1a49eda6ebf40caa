package cmd

import (
	"github.com/spf13/cobra"
)

var editFlags entryFlags

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a recorded smart choice",
	Long:  "Change the fields given as flags and keep the rest. With -i, edit every field in a form.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editFlags.register(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	old, err := resolveEntry(sess, args[0])
	if err != nil {
		return err
	}

	in, err := editFlags.apply(cmd, old.Input())
	if err != nil {
		return describeFailure(err)
	}
	if editFlags.interactive || !editFlags.anySet(cmd) {
		if in, err = runEntryForm("Edit smart choice", in); err != nil {
			return describeFailure(err)
		}
	}

	e, err := sess.Update(cmd.Context(), old.ID, in)
	if e.ID != "" {
		printEntry("Updated", e)
	}
	return describeFailure(err)
}
