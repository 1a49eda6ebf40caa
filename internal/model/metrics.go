package model

import "github.com/shopspring/decimal"

// Summary holds the scalar rollups shown on every surface.
type Summary struct {
	TotalEarned   decimal.Decimal `json:"totalEarned"`
	TotalEntries  int             `json:"totalEntries"`
	CurrentStreak int             `json:"currentStreak"`
	BestStreak    int             `json:"bestStreak"`
	TodayEarned   decimal.Decimal `json:"todayEarned"`
	MonthEarned   decimal.Decimal `json:"monthEarned"`
	AverageEarned decimal.Decimal `json:"averageEarned"`
	ActiveDays    int             `json:"activeDays"`
}

// DailyStats holds earnings for a single calendar day.
type DailyStats struct {
	Date         string          `json:"date"`
	TotalEarned  decimal.Decimal `json:"totalEarned"`
	EntriesCount int             `json:"entriesCount"`
}

// CategoryStats holds earnings for one category.
type CategoryStats struct {
	Category    string          `json:"category"`
	Label       string          `json:"label"`
	Icon        string          `json:"icon"`
	TotalEarned decimal.Decimal `json:"totalEarned"`
	Count       int             `json:"count"`
	Percentage  float64         `json:"percentage"` // 0-100 share of total earned
}

// MonthlyStats holds earnings for one calendar month.
type MonthlyStats struct {
	Month        string          `json:"month"` // yyyy-MM
	Label        string          `json:"label"` // "Jan 2025"
	TotalEarned  decimal.Decimal `json:"totalEarned"`
	EntriesCount int             `json:"entriesCount"`
}
