package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// EntryForm holds the text a user types into the add/edit form. huh binds
// its fields by pointer, so an EntryForm must outlive the form it builds.
type EntryForm struct {
	Date     string
	Category string
	Instead  string
	Price    string
	Chose    string
	Paid     string
	Note     string
	origDate string
	datetime string
}

// NewEntryForm seeds the form from in. A blank date becomes today.
func NewEntryForm(in model.EntryInput) *EntryForm {
	f := &EntryForm{
		Date:     in.Date,
		Category: in.Category,
		Instead:  in.ExpensiveOption,
		Price:    amountText(in.ExpensiveAmount),
		Chose:    in.ChosenOption,
		Paid:     amountText(in.ChosenAmount),
		Note:     in.Description,
		origDate: in.Date,
		datetime: in.Datetime,
	}
	if f.Date == "" {
		f.Date = time.Now().Format(model.DateLayout)
	}
	if f.Category == "" {
		f.Category = model.DefaultCategory
	}
	return f
}

// Form builds the two-page huh form bound to f.
func (f *EntryForm) Form(title string) *huh.Form {
	categories := make([]huh.Option[string], 0, len(model.Categories))
	for _, c := range model.Categories {
		categories = append(categories, huh.NewOption(c.Icon+" "+c.Name, c.ID))
	}

	required := func(what string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", what)
			}
			return nil
		}
	}
	amount := func(field string) func(string) error {
		return func(s string) error {
			_, err := model.ParseAmount(field, s)
			return err
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title).Description("What did you skip, and what did you pick instead?"),
			huh.NewInput().Title("Date").Placeholder("yyyy-mm-dd").Value(&f.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(model.DateLayout, strings.TrimSpace(s)); err != nil {
						return errors.New("use yyyy-mm-dd")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Category").Options(categories...).Value(&f.Category),
		),
		huh.NewGroup(
			huh.NewInput().Title("Instead of").Placeholder("Café latte").Value(&f.Instead).
				Validate(required("the pricier option")),
			huh.NewInput().Title("Price").Placeholder("5.50").Value(&f.Price).Validate(amount("price")),
			huh.NewInput().Title("I chose").Placeholder("Office coffee").Value(&f.Chose).
				Validate(required("your choice")),
			huh.NewInput().Title("Paid").Placeholder("0.50").Value(&f.Paid).Validate(amount("paid")),
			huh.NewInput().Title("Note").Value(&f.Note),
		),
	).WithShowHelp(true)
}

// Input converts the typed text back into an entry input. The original
// timestamp is kept only while the date is unchanged.
func (f *EntryForm) Input() (model.EntryInput, error) {
	price, err := model.ParseAmount("price", f.Price)
	if err != nil {
		return model.EntryInput{}, err
	}
	paid, err := model.ParseAmount("paid", f.Paid)
	if err != nil {
		return model.EntryInput{}, err
	}
	in := model.EntryInput{
		Date:            strings.TrimSpace(f.Date),
		Category:        f.Category,
		ExpensiveOption: f.Instead,
		ExpensiveAmount: price,
		ChosenOption:    f.Chose,
		ChosenAmount:    paid,
		Description:     f.Note,
	}
	if in.Date == f.origDate {
		in.Datetime = f.datetime
	}
	return in, nil
}

func amountText(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
