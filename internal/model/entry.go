// Package model defines domain types for savearn entries and statistics.
package model

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for entry dates and grouping keys.
const DateLayout = "2006-01-02"

// MonthLayout is the grouping key format for monthly stats.
const MonthLayout = "2006-01"

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// SavingEntry records one smart choice: a cheaper option picked over a pricier one.
// Entries are never mutated in place; edits replace the whole record.
type SavingEntry struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Datetime        string          `json:"datetime,omitempty"`
	Category        string          `json:"category"`
	ExpensiveOption string          `json:"expensiveOption"`
	ExpensiveAmount decimal.Decimal `json:"expensiveAmount"`
	ChosenOption    string          `json:"chosenOption"`
	ChosenAmount    decimal.Decimal `json:"chosenAmount"`
	Earned          decimal.Decimal `json:"earned"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// entryJSON is the wire form of SavingEntry. Zero timestamps are left out.
type entryJSON struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Datetime        string          `json:"datetime,omitempty"`
	Category        string          `json:"category"`
	ExpensiveOption string          `json:"expensiveOption"`
	ExpensiveAmount decimal.Decimal `json:"expensiveAmount"`
	ChosenOption    string          `json:"chosenOption"`
	ChosenAmount    decimal.Decimal `json:"chosenAmount"`
	Earned          decimal.Decimal `json:"earned"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e SavingEntry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		ID:              e.ID,
		Date:            e.Date,
		Datetime:        e.Datetime,
		Category:        e.Category,
		ExpensiveOption: e.ExpensiveOption,
		ExpensiveAmount: e.ExpensiveAmount,
		ChosenOption:    e.ChosenOption,
		ChosenAmount:    e.ChosenAmount,
		Earned:          e.Earned,
		Description:     e.Description,
	}
	if !e.CreatedAt.IsZero() {
		out.CreatedAt = &e.CreatedAt
	}
	if !e.UpdatedAt.IsZero() {
		out.UpdatedAt = &e.UpdatedAt
	}
	return json.Marshal(out)
}

// Day parses the entry date. ok is false for malformed dates.
func (e SavingEntry) Day() (time.Time, bool) {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EntryInput is a candidate entry as submitted by a user, before an id is assigned.
type EntryInput struct {
	Date            string          `json:"date,omitempty"`
	Datetime        string          `json:"datetime,omitempty"`
	Category        string          `json:"category,omitempty"`
	ExpensiveOption string          `json:"expensiveOption"`
	ExpensiveAmount decimal.Decimal `json:"expensiveAmount"`
	ChosenOption    string          `json:"chosenOption"`
	ChosenAmount    decimal.Decimal `json:"chosenAmount"`
	Description     string          `json:"description,omitempty"`
}

// Normalize fills derived fields: the date from a full datetime and the
// default category when none was given.
func (in EntryInput) Normalize() EntryInput {
	in.Date = strings.TrimSpace(in.Date)
	in.Datetime = strings.TrimSpace(in.Datetime)
	if in.Date == "" && in.Datetime != "" {
		in.Date, _, _ = strings.Cut(in.Datetime, "T")
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	in.ExpensiveOption = strings.TrimSpace(in.ExpensiveOption)
	in.ChosenOption = strings.TrimSpace(in.ChosenOption)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate reports the first problem with a normalized input.
func (in EntryInput) Validate() error {
	if in.Date == "" {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be formatted yyyy-mm-dd"}
	}
	if in.ExpensiveOption == "" {
		return &ValidationError{Field: "expensiveOption", Reason: "is required"}
	}
	if in.ChosenOption == "" {
		return &ValidationError{Field: "chosenOption", Reason: "is required"}
	}
	if !in.ExpensiveAmount.IsPositive() {
		return &ValidationError{Field: "expensiveAmount", Reason: "must be greater than zero"}
	}
	if in.ChosenAmount.IsNegative() {
		return &ValidationError{Field: "chosenAmount", Reason: "must not be negative"}
	}
	if in.ChosenAmount.GreaterThanOrEqual(in.ExpensiveAmount) {
		return &ValidationError{Field: "chosenAmount", Reason: "must be less than expensiveAmount"}
	}
	return nil
}

// NewEntry builds an entry from a validated input. Earned is always
// expensiveAmount minus chosenAmount.
func NewEntry(id string, in EntryInput) SavingEntry {
	return SavingEntry{
		ID:              id,
		Date:            in.Date,
		Datetime:        in.Datetime,
		Category:        in.Category,
		ExpensiveOption: in.ExpensiveOption,
		ExpensiveAmount: in.ExpensiveAmount,
		ChosenOption:    in.ChosenOption,
		ChosenAmount:    in.ChosenAmount,
		Earned:          in.ExpensiveAmount.Sub(in.ChosenAmount),
		Description:     in.Description,
	}
}

// Input returns the user-editable fields of an entry.
func (e SavingEntry) Input() EntryInput {
	return EntryInput{
		Date:            e.Date,
		Datetime:        e.Datetime,
		Category:        e.Category,
		ExpensiveOption: e.ExpensiveOption,
		ExpensiveAmount: e.ExpensiveAmount,
		ChosenOption:    e.ChosenOption,
		ChosenAmount:    e.ChosenAmount,
		Description:     e.Description,
	}
}

// ParseAmount accepts "4.50", "$4.50" and "1,204.50". Blank is zero.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must be an amount like 4.50"}
	}
	return d, nil
}
