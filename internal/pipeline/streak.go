package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/savearn/internal/model"
)

// Streak holds consecutive-day counts.
type Streak struct {
	Current int
	Best    int
}

// CalculateStreak derives the current and best runs of consecutive days
// that have at least one entry.
//
// The current streak is anchored on today, or on yesterday when today has no
// entry yet, and walks backwards from there. Days after the anchor are
// ignored. The best streak is the longest run anywhere in the history.
func CalculateStreak(entries []model.SavingEntry, now time.Time) Streak {
	days := distinctDaysDesc(entries)
	if len(days) == 0 {
		return Streak{}
	}

	today := civilDay(now)
	yesterday := civilDay(now.AddDate(0, 0, -1))

	anchor := indexOfDay(days, today)
	if anchor < 0 {
		anchor = indexOfDay(days, yesterday)
	}

	var s Streak
	if anchor >= 0 {
		s.Current = 1
		for i := anchor + 1; i < len(days); i++ {
			if dayGap(days[i], days[i-1]) != 1 {
				break
			}
			s.Current++
		}
	}

	run := 1
	s.Best = 1
	for i := 1; i < len(days); i++ {
		if dayGap(days[i], days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > s.Best {
			s.Best = run
		}
	}

	return s
}

// distinctDaysDesc returns each parseable entry date once, newest first.
func distinctDaysDesc(entries []model.SavingEntry) []time.Time {
	seen := make(map[time.Time]struct{}, len(entries))
	days := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		d, ok := e.Day()
		if !ok {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})
	return days
}

// civilDay maps now's local calendar day onto the UTC midnight that
// time.Parse yields for the same yyyy-MM-dd string.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func indexOfDay(days []time.Time, day time.Time) int {
	for i, d := range days {
		if d.Equal(day) {
			return i
		}
	}
	return -1
}

// dayGap returns how many days older is before newer.
func dayGap(older, newer time.Time) int {
	return int(newer.Sub(older).Hours() / 24)
}
