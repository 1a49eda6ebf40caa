package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/savearn/internal/model"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(model.DateLayout, s, time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d.Add(15 * time.Hour)
}

func entriesOn(dates ...string) []model.SavingEntry {
	entries := make([]model.SavingEntry, 0, len(dates))
	for i, d := range dates {
		entries = append(entries, model.SavingEntry{
			ID:       string(rune('a' + i)),
			Date:     d,
			Category: "food",
			Earned:   dec("1"),
		})
	}
	return entries
}

func TestCalculateStreak_Empty(t *testing.T) {
	got := CalculateStreak(nil, time.Now())
	if got.Current != 0 || got.Best != 0 {
		t.Fatalf("CalculateStreak(nil) = %+v, want zero", got)
	}
}

func TestCalculateStreak_ThreeConsecutiveDays(t *testing.T) {
	entries := entriesOn("2025-01-01", "2025-01-02", "2025-01-03")

	got := CalculateStreak(entries, mustDay(t, "2025-01-03"))
	if got.Current != 3 {
		t.Fatalf("Current = %d, want 3", got.Current)
	}
	if got.Best != 3 {
		t.Fatalf("Best = %d, want 3", got.Best)
	}
}

func TestCalculateStreak_GapResetsCurrentKeepsBest(t *testing.T) {
	entries := entriesOn("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-05")

	got := CalculateStreak(entries, mustDay(t, "2025-01-05"))
	if got.Current != 1 {
		t.Fatalf("Current = %d, want 1", got.Current)
	}
	if got.Best != 3 {
		t.Fatalf("Best = %d, want 3", got.Best)
	}
}

func TestCalculateStreak_AnchorsOnYesterday(t *testing.T) {
	entries := entriesOn("2025-03-09", "2025-03-10")

	got := CalculateStreak(entries, mustDay(t, "2025-03-11"))
	if got.Current != 2 {
		t.Fatalf("Current = %d, want 2 (anchored on yesterday)", got.Current)
	}
}

func TestCalculateStreak_StaleHistoryHasNoCurrent(t *testing.T) {
	entries := entriesOn("2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04")

	got := CalculateStreak(entries, mustDay(t, "2025-03-10"))
	if got.Current != 0 {
		t.Fatalf("Current = %d, want 0", got.Current)
	}
	if got.Best != 4 {
		t.Fatalf("Best = %d, want 4", got.Best)
	}
}

func TestCalculateStreak_SameDayCountsOnce(t *testing.T) {
	entries := entriesOn("2025-05-01", "2025-05-01", "2025-05-01", "2025-05-02")

	got := CalculateStreak(entries, mustDay(t, "2025-05-02"))
	if got.Current != 2 || got.Best != 2 {
		t.Fatalf("CalculateStreak = %+v, want {2 2}", got)
	}
}

func TestCalculateStreak_IgnoresFutureDates(t *testing.T) {
	entries := entriesOn("2025-06-01", "2025-06-02", "2025-06-09")

	got := CalculateStreak(entries, mustDay(t, "2025-06-02"))
	if got.Current != 2 {
		t.Fatalf("Current = %d, want 2 with a future-dated entry present", got.Current)
	}
}

func TestCalculateStreak_CrossesMonthAndYear(t *testing.T) {
	entries := entriesOn("2024-12-30", "2024-12-31", "2025-01-01")

	got := CalculateStreak(entries, mustDay(t, "2025-01-01"))
	if got.Current != 3 {
		t.Fatalf("Current = %d, want 3 across the year boundary", got.Current)
	}
}

func TestCalculateStreak_SkipsMalformedDates(t *testing.T) {
	entries := entriesOn("2025-02-01", "not-a-date", "2025-02-02")

	got := CalculateStreak(entries, mustDay(t, "2025-02-02"))
	if got.Current != 2 || got.Best != 2 {
		t.Fatalf("CalculateStreak = %+v, want {2 2}", got)
	}
}

func TestDistinctDaysDescDropsMalformedAndRepeats(t *testing.T) {
	entries := entriesOn("2025-02-01", "bad", "2025-02-03", "bad", "2025-02-01", "")

	days := distinctDaysDesc(entries)
	if len(days) != 2 {
		t.Fatalf("days = %v, want 2 distinct days", days)
	}
	if got := days[0].Format(model.DateLayout); got != "2025-02-03" {
		t.Fatalf("newest = %s, want 2025-02-03", got)
	}
}

func TestCalculateStreak_BestNeverBelowCurrent(t *testing.T) {
	entries := entriesOn("2025-01-10", "2025-01-12", "2025-01-13")

	got := CalculateStreak(entries, mustDay(t, "2025-01-13"))
	if got.Best < got.Current {
		t.Fatalf("Best %d < Current %d", got.Best, got.Current)
	}
	if got.Current != 2 || got.Best != 2 {
		t.Fatalf("CalculateStreak = %+v, want {2 2}", got)
	}
}
