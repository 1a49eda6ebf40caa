package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func validInput() EntryInput {
	return EntryInput{
		Date:            "2025-04-01",
		Category:        "transport",
		ExpensiveOption: "taxi",
		ExpensiveAmount: decimal.RequireFromString("18.40"),
		ChosenOption:    "metro",
		ChosenAmount:    decimal.RequireFromString("2.90"),
	}
}

func TestNormalize(t *testing.T) {
	in := EntryInput{
		Datetime:        " 2025-04-01T08:30:00Z ",
		ExpensiveOption: "  latte ",
		ChosenOption:    "drip\t",
		Description:     " ",
	}.Normalize()

	if in.Date != "2025-04-01" {
		t.Fatalf("Date = %q, want 2025-04-01", in.Date)
	}
	if in.Category != DefaultCategory {
		t.Fatalf("Category = %q, want %q", in.Category, DefaultCategory)
	}
	if in.ExpensiveOption != "latte" || in.ChosenOption != "drip" {
		t.Fatalf("options = %q/%q, want trimmed", in.ExpensiveOption, in.ChosenOption)
	}
	if in.Description != "" {
		t.Fatalf("Description = %q, want empty", in.Description)
	}

	explicit := EntryInput{Date: "2025-01-02", Datetime: "2025-04-01T08:30:00Z"}.Normalize()
	if explicit.Date != "2025-01-02" {
		t.Fatalf("explicit Date overwritten: %q", explicit.Date)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EntryInput)
		field  string
	}{
		{"valid", func(*EntryInput) {}, ""},
		{"free option", func(in *EntryInput) { in.ChosenAmount = decimal.Zero }, ""},
		{"missing date", func(in *EntryInput) { in.Date = "" }, "date"},
		{"bad date", func(in *EntryInput) { in.Date = "04/01/2025" }, "date"},
		{"impossible date", func(in *EntryInput) { in.Date = "2025-02-30" }, "date"},
		{"missing expensive option", func(in *EntryInput) { in.ExpensiveOption = "" }, "expensiveOption"},
		{"missing chosen option", func(in *EntryInput) { in.ChosenOption = "" }, "chosenOption"},
		{"zero expensive", func(in *EntryInput) { in.ExpensiveAmount = decimal.Zero }, "expensiveAmount"},
		{"negative expensive", func(in *EntryInput) { in.ExpensiveAmount = decimal.NewFromInt(-3) }, "expensiveAmount"},
		{"negative chosen", func(in *EntryInput) { in.ChosenAmount = decimal.NewFromInt(-1) }, "chosenAmount"},
		{"equal amounts", func(in *EntryInput) { in.ChosenAmount = in.ExpensiveAmount }, "chosenAmount"},
		{"chosen dearer", func(in *EntryInput) { in.ChosenAmount = decimal.NewFromInt(50) }, "chosenAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestNewEntryEarned(t *testing.T) {
	e := NewEntry("abc", validInput())
	if !e.Earned.Equal(decimal.RequireFromString("15.50")) {
		t.Fatalf("Earned = %s, want 15.50", e.Earned)
	}
	back := e.Input()
	if back.Date != "2025-04-01" || back.ChosenOption != "metro" || !back.ChosenAmount.Equal(decimal.RequireFromString("2.90")) {
		t.Fatalf("Input() = %+v, want round trip", back)
	}
}

func TestEntryJSONUsesNumbers(t *testing.T) {
	data, err := json.Marshal(NewEntry("abc", validInput()))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"earned":15.5`) {
		t.Fatalf("earned not a JSON number: %s", s)
	}
	if strings.Contains(s, `"expensiveAmount":"`) {
		t.Fatalf("amount quoted: %s", s)
	}
}

func TestEntryJSONOmitsZeroTimestamps(t *testing.T) {
	e := NewEntry("abc", validInput())
	data, err := json.Marshal([]SavingEntry{e})
	if err != nil {
		t.Fatal(err)
	}
	if s := string(data); strings.Contains(s, "createdAt") || strings.Contains(s, "updatedAt") {
		t.Fatalf("zero timestamps written: %s", s)
	}

	e.CreatedAt = time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)
	data, err = json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"createdAt":"2025-04-01T08:30:00Z"`) || strings.Contains(s, "updatedAt") {
		t.Fatalf("timestamps = %s", s)
	}

	var back SavingEntry
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.CreatedAt.Equal(e.CreatedAt) || !back.UpdatedAt.IsZero() || !back.Earned.Equal(e.Earned) {
		t.Fatalf("decoded = %+v", back)
	}
}

func TestLookupCategory(t *testing.T) {
	if c := LookupCategory("food"); c.Name != "Food & Dining" {
		t.Fatalf("food Name = %q", c.Name)
	}
	c := LookupCategory("pets")
	if c.ID != "pets" || c.Name != "Other" {
		t.Fatalf("LookupCategory(pets) = %+v, want Other display with id kept", c)
	}
	if IsKnownCategory("pets") {
		t.Fatal("pets reported as known")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4.50", "4.5"},
		{" $1,250.75 ", "1250.75"},
		{"", "0"},
		{"0", "0"},
	}
	for _, tt := range tests {
		got, err := ParseAmount("expensiveAmount", tt.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	_, err := ParseAmount("chosenAmount", "four")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "chosenAmount" {
		t.Fatalf("err = %v, want ValidationError on chosenAmount", err)
	}
}
