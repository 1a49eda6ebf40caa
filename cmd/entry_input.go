package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/state"
	"github.com/theirongolddev/savearn/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// entryFlags are the per-field flags shared by add and edit. Amounts stay
// strings until parsed so an unset flag is distinguishable from zero.
type entryFlags struct {
	date            string
	category        string
	expensive       string
	expensiveAmount string
	chosen          string
	chosenAmount    string
	description     string
	interactive     bool
}

func (f *entryFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", "", "Day of the choice, yyyy-mm-dd (default today)")
	fl.StringVarP(&f.category, "category", "c", "", "Category: "+strings.Join(model.CategoryIDs(), ", "))
	fl.StringVar(&f.expensive, "instead-of", "", "The pricier option you skipped")
	fl.StringVar(&f.expensiveAmount, "price", "", "What the pricier option costs")
	fl.StringVar(&f.chosen, "chose", "", "What you picked instead")
	fl.StringVar(&f.chosenAmount, "paid", "", "What you paid (0 if free)")
	fl.StringVar(&f.description, "note", "", "Optional description")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "Fill in the entry with a form")
}

// anySet reports whether any entry field was given as a flag.
func (f *entryFlags) anySet(cmd *cobra.Command) bool {
	for _, name := range []string{"date", "category", "instead-of", "price", "chose", "paid", "note"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply overlays the flags the user set onto in.
func (f *entryFlags) apply(cmd *cobra.Command, in model.EntryInput) (model.EntryInput, error) {
	changed := cmd.Flags().Changed
	if changed("date") {
		in.Date = f.date
		in.Datetime = ""
	}
	if changed("category") {
		in.Category = f.category
	}
	if changed("instead-of") {
		in.ExpensiveOption = f.expensive
	}
	if changed("chose") {
		in.ChosenOption = f.chosen
	}
	if changed("note") {
		in.Description = f.description
	}
	if changed("price") {
		d, err := model.ParseAmount("price", f.expensiveAmount)
		if err != nil {
			return in, err
		}
		in.ExpensiveAmount = d
	}
	if changed("paid") {
		d, err := model.ParseAmount("paid", f.chosenAmount)
		if err != nil {
			return in, err
		}
		in.ChosenAmount = d
	}
	return in, nil
}

func today() string {
	return time.Now().Format(model.DateLayout)
}

// runEntryForm lets the user fill in or correct an entry interactively.
// The form is seeded with in.
func runEntryForm(title string, in model.EntryInput) (model.EntryInput, error) {
	f := tui.NewEntryForm(in)
	if err := f.Form(title).Run(); err != nil {
		return in, err
	}
	return f.Input()
}

// resolveEntry finds an entry by full id or unique id prefix, as printed by
// list.
func resolveEntry(sess *state.Session, ref string) (model.SavingEntry, error) {
	if e, ok := sess.Find(ref); ok {
		return e, nil
	}
	var match []model.SavingEntry
	for _, e := range sess.Entries() {
		if strings.HasPrefix(e.ID, ref) {
			match = append(match, e)
		}
	}
	switch len(match) {
	case 0:
		return model.SavingEntry{}, fmt.Errorf("%w: %s", model.ErrNotFound, ref)
	case 1:
		return match[0], nil
	default:
		return model.SavingEntry{}, fmt.Errorf("id %q matches %d entries, use more characters", ref, len(match))
	}
}

// describeFailure turns domain errors into one-line CLI messages. A save
// failure after the change took effect is reported but not fatal to the
// output that follows.
func describeFailure(err error) error {
	var ve *model.ValidationError
	var pe *model.PersistenceError
	switch {
	case errors.As(err, &ve):
		return fmt.Errorf("entry rejected: %s %s", ve.Field, ve.Reason)
	case errors.As(err, &pe):
		return fmt.Errorf("could not save your data (%s): %w", pe.Op, pe.Err)
	case errors.Is(err, huh.ErrUserAborted):
		return errors.New("cancelled")
	}
	return err
}

func printEntry(verb string, e model.SavingEntry) {
	say("  %s %s  %s  %s over %s  earned %s\n",
		verb, shortID(e.ID), e.Date, e.ChosenOption, e.ExpensiveOption, cli.FormatMoney(e.Earned))
}
