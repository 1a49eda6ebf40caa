package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"5.5", "$5.50"},
		{"1234.567", "$1,234.57"},
		{"1000000", "$1,000,000.00"},
		{"-3", "-$3.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoneyShort(t *testing.T) {
	tests := map[string]string{
		"12.5":    "$12.50",
		"1499.6":  "$1,500",
		"2500000": "$2.5M",
	}
	for in, want := range tests {
		if got := FormatMoneyShort(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMoneyShort(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		1234567:   "1,234,567",
		-12345678: "-12,345,678",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSmallFormatters(t *testing.T) {
	if got := FormatPercent(42.345); got != "42.3%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatStreak(1); got != "1 day" {
		t.Errorf("FormatStreak(1) = %q", got)
	}
	if got := FormatStreak(0); got != "0 days" {
		t.Errorf("FormatStreak(0) = %q", got)
	}
	if got := FormatWeekday("2025-01-01"); got != "Wed" {
		t.Errorf("FormatWeekday = %q, want Wed", got)
	}
	if got := FormatWeekday("nope"); got != "" {
		t.Errorf("FormatWeekday(bad) = %q, want empty", got)
	}
	if got := FormatCategory("unknown"); !strings.HasSuffix(got, "Other") {
		t.Errorf("FormatCategory(unknown) = %q", got)
	}
	if got := Truncate("cappuccino", 5); got != "capp…" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestRenderTableAlignsRows(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Earned"},
		Rows: [][]string{
			{"🍽️ Food & Dining", "$12.00"},
			{"---"},
			{"Total", "$1,012.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "$1,012.00") {
		t.Fatalf("missing total row:\n%s", out)
	}
	if RenderTable(Table{}) != "" {
		t.Fatal("empty table rendered output")
	}
}

func TestRenderSparkline(t *testing.T) {
	if RenderSparkline(nil) != "" {
		t.Fatal("nil sparkline not empty")
	}
	out := RenderSparkline([]float64{0, 1, 2})
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Fatalf("sparkline = %q", out)
	}
}
