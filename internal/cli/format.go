// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with a dollar sign, thousands separators and
// two decimals. e.g., 1234.5 -> "$1,234.50", -3 -> "-$3.00"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	n, _ := strconv.ParseInt(whole, 10, 64)
	return "$" + FormatNumber(n) + "." + frac
}

// FormatMoneyShort drops cents at and above 1000 and abbreviates millions.
func FormatMoneyShort(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return fmt.Sprintf("$%sM", d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1))
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return "$" + FormatNumber(d.Round(0).IntPart())
	default:
		return FormatMoney(d)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	head := len(s) % 3
	if head > 0 {
		result.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 share as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatStreak renders a day count, e.g. "1 day", "12 days".
func FormatStreak(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatWeekday returns the weekday abbreviation for a yyyy-mm-dd date, or
// an empty string when the date does not parse.
func FormatWeekday(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return FormatDayOfWeek(int(t.Weekday()))
}

// FormatCategory renders a category with its icon and display name.
func FormatCategory(id string) string {
	c := model.LookupCategory(id)
	return c.Icon + " " + c.Name
}

// Truncate shortens s to at most n cells, ending in an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
