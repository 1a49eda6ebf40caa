// Package pipeline computes streaks and grouped earnings projections from entries.
// Everything here is pure and recomputed on every call.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalEarned folds the earned amount over entries.
func TotalEarned(entries []model.SavingEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Earned)
	}
	return total
}

// AggregateDays groups entries by calendar day, oldest first.
func AggregateDays(entries []model.SavingEntry) []model.DailyStats {
	dayMap := make(map[string]*model.DailyStats)

	for _, e := range entries {
		ds, ok := dayMap[e.Date]
		if !ok {
			ds = &model.DailyStats{Date: e.Date, TotalEarned: decimal.Zero}
			dayMap[e.Date] = ds
		}
		ds.TotalEarned = ds.TotalEarned.Add(e.Earned)
		ds.EntriesCount++
	}

	// yyyy-MM-dd sorts chronologically as a string
	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	return days
}

// AggregateCategories groups entries by category, largest total first.
// Percentage is the share of the overall total, 0 when nothing was earned.
func AggregateCategories(entries []model.SavingEntry) []model.CategoryStats {
	catMap := make(map[string]*model.CategoryStats)
	total := decimal.Zero

	for _, e := range entries {
		cs, ok := catMap[e.Category]
		if !ok {
			info := model.LookupCategory(e.Category)
			cs = &model.CategoryStats{
				Category:    e.Category,
				Label:       info.Name,
				Icon:        info.Icon,
				TotalEarned: decimal.Zero,
			}
			catMap[e.Category] = cs
		}
		cs.TotalEarned = cs.TotalEarned.Add(e.Earned)
		cs.Count++
		total = total.Add(e.Earned)
	}

	cats := make([]model.CategoryStats, 0, len(catMap))
	for _, cs := range catMap {
		if total.IsPositive() {
			cs.Percentage = cs.TotalEarned.Div(total).Mul(hundred).InexactFloat64()
		}
		cats = append(cats, *cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if c := cats[i].TotalEarned.Cmp(cats[j].TotalEarned); c != 0 {
			return c > 0
		}
		return cats[i].Category < cats[j].Category
	})

	return cats
}

// AggregateMonths groups entries by calendar month, oldest first.
func AggregateMonths(entries []model.SavingEntry) []model.MonthlyStats {
	monthMap := make(map[string]*model.MonthlyStats)

	for _, e := range entries {
		key := monthKey(e.Date)
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlyStats{Month: key, Label: monthLabel(key), TotalEarned: decimal.Zero}
			monthMap[key] = ms
		}
		ms.TotalEarned = ms.TotalEarned.Add(e.Earned)
		ms.EntriesCount++
	}

	months := make([]model.MonthlyStats, 0, len(monthMap))
	for _, ms := range monthMap {
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})

	return months
}

// TodayEarnings sums entries dated on now's calendar day.
func TodayEarnings(entries []model.SavingEntry, now time.Time) decimal.Decimal {
	today := now.Format(model.DateLayout)
	total := decimal.Zero
	for _, e := range entries {
		if e.Date == today {
			total = total.Add(e.Earned)
		}
	}
	return total
}

// ThisMonthEarnings sums entries dated within now's calendar month.
func ThisMonthEarnings(entries []model.SavingEntry, now time.Time) decimal.Decimal {
	month := now.Format(model.MonthLayout)
	total := decimal.Zero
	for _, e := range entries {
		if monthKey(e.Date) == month {
			total = total.Add(e.Earned)
		}
	}
	return total
}

// AverageEarned returns total/count rounded to cents, zero for no entries.
func AverageEarned(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}

// Summarize bundles the scalar rollups for display.
func Summarize(entries []model.SavingEntry, streak Streak, now time.Time) model.Summary {
	total := TotalEarned(entries)
	active := make(map[string]struct{})
	for _, e := range entries {
		active[e.Date] = struct{}{}
	}

	return model.Summary{
		TotalEarned:   total,
		TotalEntries:  len(entries),
		CurrentStreak: streak.Current,
		BestStreak:    streak.Best,
		TodayEarned:   TodayEarnings(entries, now),
		MonthEarned:   ThisMonthEarnings(entries, now),
		AverageEarned: AverageEarned(total, len(entries)),
		ActiveDays:    len(active),
	}
}

// RecentEntries returns up to n entries, newest date first.
func RecentEntries(entries []model.SavingEntry, n int) []model.SavingEntry {
	sorted := SortNewestFirst(entries)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SortNewestFirst returns a copy of entries ordered by date descending.
// Same-day entries keep their relative order, latest created first when known.
func SortNewestFirst(entries []model.SavingEntry) []model.SavingEntry {
	sorted := make([]model.SavingEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// LastDays returns the trailing n records of an ascending daily series.
func LastDays(days []model.DailyStats, n int) []model.DailyStats {
	if n < 0 || len(days) <= n {
		return days
	}
	return days[len(days)-n:]
}

// FillDays returns exactly n consecutive days ending on end's calendar day,
// with zero records for days that have no entries so charts show gaps.
func FillDays(days []model.DailyStats, end time.Time, n int) []model.DailyStats {
	if n <= 0 {
		return nil
	}
	byDate := make(map[string]model.DailyStats, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	filled := make([]model.DailyStats, 0, n)
	start := end.AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		key := start.AddDate(0, 0, i).Format(model.DateLayout)
		ds, ok := byDate[key]
		if !ok {
			ds = model.DailyStats{Date: key, TotalEarned: decimal.Zero}
		}
		filled = append(filled, ds)
	}
	return filled
}

// FilterByDateRange keeps entries whose date falls within [since, until].
// Empty bounds are open.
func FilterByDateRange(entries []model.SavingEntry, since, until string) []model.SavingEntry {
	if since == "" && until == "" {
		return entries
	}
	var result []model.SavingEntry
	for _, e := range entries {
		if since != "" && e.Date < since {
			continue
		}
		if until != "" && e.Date > until {
			continue
		}
		result = append(result, e)
	}
	return result
}

// FilterByCategory keeps entries in the given category (case-insensitive).
func FilterByCategory(entries []model.SavingEntry, category string) []model.SavingEntry {
	if category == "" {
		return entries
	}
	var result []model.SavingEntry
	for _, e := range entries {
		if strings.EqualFold(e.Category, category) {
			result = append(result, e)
		}
	}
	return result
}

func monthKey(date string) string {
	if len(date) < len(model.MonthLayout) {
		return date
	}
	return date[:len(model.MonthLayout)]
}

func monthLabel(key string) string {
	t, err := time.Parse(model.MonthLayout, key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}
