package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(id, date, category, expensive, chosen string) model.SavingEntry {
	return model.NewEntry(id, model.EntryInput{
		Date:            date,
		Category:        category,
		ExpensiveOption: "pricey",
		ExpensiveAmount: dec(expensive),
		ChosenOption:    "cheap",
		ChosenAmount:    dec(chosen),
	})
}

func TestAggregateDays_SingleEntry(t *testing.T) {
	entries := []model.SavingEntry{entry("1", "2025-01-01", "food", "5.50", "0.50")}

	days := AggregateDays(entries)
	if len(days) != 1 {
		t.Fatalf("len(days) = %d, want 1", len(days))
	}
	if days[0].Date != "2025-01-01" {
		t.Fatalf("Date = %q, want 2025-01-01", days[0].Date)
	}
	if !days[0].TotalEarned.Equal(dec("5.00")) {
		t.Fatalf("TotalEarned = %s, want 5.00", days[0].TotalEarned)
	}
	if days[0].EntriesCount != 1 {
		t.Fatalf("EntriesCount = %d, want 1", days[0].EntriesCount)
	}
}

func TestAggregateDays_SortedAscending(t *testing.T) {
	entries := []model.SavingEntry{
		entry("1", "2025-02-03", "food", "10", "4"),
		entry("2", "2025-01-15", "food", "3", "1"),
		entry("3", "2025-02-03", "transport", "8", "7.25"),
	}

	days := AggregateDays(entries)
	if len(days) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(days))
	}
	if days[0].Date != "2025-01-15" || days[1].Date != "2025-02-03" {
		t.Fatalf("order = [%s %s], want ascending", days[0].Date, days[1].Date)
	}
	if !days[1].TotalEarned.Equal(dec("6.75")) {
		t.Fatalf("2025-02-03 TotalEarned = %s, want 6.75", days[1].TotalEarned)
	}
	if days[1].EntriesCount != 2 {
		t.Fatalf("2025-02-03 EntriesCount = %d, want 2", days[1].EntriesCount)
	}
}

func TestAggregateCategories_PercentagesSumTo100(t *testing.T) {
	entries := []model.SavingEntry{
		entry("1", "2025-01-01", "food", "10", "7"),
		entry("2", "2025-01-02", "transport", "20", "14"),
		entry("3", "2025-01-03", "food", "4", "3"),
		entry("4", "2025-01-03", "mystery", "2", "0"),
	}

	cats := AggregateCategories(entries)
	if len(cats) != 3 {
		t.Fatalf("len(cats) = %d, want 3", len(cats))
	}

	sum := 0.0
	for _, c := range cats {
		sum += c.Percentage
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Fatalf("percentages sum to %.6f, want 100", sum)
	}

	if cats[0].Category != "transport" {
		t.Fatalf("first category = %q, want transport (largest total)", cats[0].Category)
	}
	if cats[1].Category != "food" || !cats[1].TotalEarned.Equal(dec("4")) || cats[1].Count != 2 {
		t.Fatalf("food = %+v, want total 4 count 2", cats[1])
	}
	if cats[2].Label != "Other" {
		t.Fatalf("unknown category label = %q, want Other", cats[2].Label)
	}
	if cats[2].Category != "mystery" {
		t.Fatalf("unknown category id = %q, want it preserved", cats[2].Category)
	}
}

func TestAggregateCategories_ZeroTotal(t *testing.T) {
	entries := []model.SavingEntry{
		{ID: "1", Date: "2025-01-01", Category: "food", Earned: decimal.Zero},
	}

	cats := AggregateCategories(entries)
	if len(cats) != 1 {
		t.Fatalf("len(cats) = %d, want 1", len(cats))
	}
	if cats[0].Percentage != 0 {
		t.Fatalf("Percentage = %f, want 0 when nothing was earned", cats[0].Percentage)
	}
}

func TestAggregateMonths(t *testing.T) {
	entries := []model.SavingEntry{
		entry("1", "2025-02-10", "food", "10", "5"),
		entry("2", "2024-12-31", "food", "3", "2"),
		entry("3", "2025-02-01", "health", "30", "10"),
	}

	months := AggregateMonths(entries)
	if len(months) != 2 {
		t.Fatalf("len(months) = %d, want 2", len(months))
	}
	if months[0].Month != "2024-12" || months[0].Label != "Dec 2024" {
		t.Fatalf("months[0] = %s/%s, want 2024-12/Dec 2024", months[0].Month, months[0].Label)
	}
	if months[1].Month != "2025-02" || !months[1].TotalEarned.Equal(dec("25")) || months[1].EntriesCount != 2 {
		t.Fatalf("months[1] = %+v, want 2025-02 total 25 count 2", months[1])
	}
}

func TestTodayAndMonthEarnings(t *testing.T) {
	now := time.Date(2025, 4, 15, 18, 0, 0, 0, time.Local)
	entries := []model.SavingEntry{
		entry("1", "2025-04-15", "food", "10", "6"),
		entry("2", "2025-04-15", "food", "5", "4"),
		entry("3", "2025-04-01", "food", "9", "0"),
		entry("4", "2025-03-31", "food", "100", "0"),
	}

	if got := TodayEarnings(entries, now); !got.Equal(dec("5")) {
		t.Fatalf("TodayEarnings = %s, want 5", got)
	}
	if got := ThisMonthEarnings(entries, now); !got.Equal(dec("14")) {
		t.Fatalf("ThisMonthEarnings = %s, want 14", got)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 4, 15, 9, 0, 0, 0, time.Local)
	entries := []model.SavingEntry{
		entry("1", "2025-04-14", "food", "10", "7"),
		entry("2", "2025-04-15", "food", "5", "4"),
		entry("3", "2025-04-15", "food", "3", "2.5"),
	}

	sum := Summarize(entries, CalculateStreak(entries, now), now)
	if !sum.TotalEarned.Equal(dec("4.5")) {
		t.Fatalf("TotalEarned = %s, want 4.5", sum.TotalEarned)
	}
	if sum.TotalEntries != 3 || sum.ActiveDays != 2 {
		t.Fatalf("entries/active = %d/%d, want 3/2", sum.TotalEntries, sum.ActiveDays)
	}
	if !sum.AverageEarned.Equal(dec("1.5")) {
		t.Fatalf("AverageEarned = %s, want 1.5", sum.AverageEarned)
	}
	if sum.CurrentStreak != 2 {
		t.Fatalf("CurrentStreak = %d, want 2", sum.CurrentStreak)
	}
}

func TestAverageEarned_NoEntries(t *testing.T) {
	if got := AverageEarned(dec("12"), 0); !got.IsZero() {
		t.Fatalf("AverageEarned(12, 0) = %s, want 0", got)
	}
}

func TestRecentEntries(t *testing.T) {
	entries := []model.SavingEntry{
		entry("a", "2025-01-01", "food", "2", "1"),
		entry("b", "2025-01-05", "food", "2", "1"),
		entry("c", "2025-01-03", "food", "2", "1"),
	}

	recent := RecentEntries(entries, 2)
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].ID != "b" || recent[1].ID != "c" {
		t.Fatalf("recent = [%s %s], want [b c]", recent[0].ID, recent[1].ID)
	}
	if entries[0].ID != "a" {
		t.Fatal("RecentEntries reordered its input")
	}
}

func TestLastDaysAndFillDays(t *testing.T) {
	days := AggregateDays([]model.SavingEntry{
		entry("1", "2025-01-01", "food", "2", "1"),
		entry("2", "2025-01-03", "food", "4", "1"),
		entry("3", "2025-01-04", "food", "6", "1"),
	})

	tail := LastDays(days, 2)
	if len(tail) != 2 || tail[0].Date != "2025-01-03" {
		t.Fatalf("LastDays = %+v, want last two records", tail)
	}

	end := time.Date(2025, 1, 4, 12, 0, 0, 0, time.Local)
	filled := FillDays(days, end, 4)
	if len(filled) != 4 {
		t.Fatalf("len(filled) = %d, want 4", len(filled))
	}
	if filled[1].Date != "2025-01-02" || !filled[1].TotalEarned.IsZero() {
		t.Fatalf("gap day = %+v, want zero record for 2025-01-02", filled[1])
	}
	if !filled[3].TotalEarned.Equal(dec("5")) {
		t.Fatalf("last day total = %s, want 5", filled[3].TotalEarned)
	}
}

func TestFilters(t *testing.T) {
	entries := []model.SavingEntry{
		entry("1", "2025-01-01", "food", "2", "1"),
		entry("2", "2025-01-10", "Transport", "2", "1"),
		entry("3", "2025-01-20", "food", "2", "1"),
	}

	if got := FilterByDateRange(entries, "2025-01-05", "2025-01-20"); len(got) != 2 {
		t.Fatalf("FilterByDateRange len = %d, want 2", len(got))
	}
	if got := FilterByDateRange(entries, "", "2025-01-01"); len(got) != 1 {
		t.Fatalf("FilterByDateRange until-only len = %d, want 1", len(got))
	}
	if got := FilterByCategory(entries, "transport"); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("FilterByCategory = %+v, want entry 2", got)
	}
}
